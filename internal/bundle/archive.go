package bundle

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"

	"github.com/tbourn/go-storefront-backend/internal/domain"
)

// ErrArchiveWrite indicates the archive stream failed mid-write, typically
// because the receiver closed the connection. By that point headers and
// partial content are already committed, so callers log the error and stop;
// there is nothing to retry.
var ErrArchiveWrite = errors.New("archive write failed")

// WriteArchive streams files into w as a zip archive, in order. Content is
// produced incrementally, so transmission may begin before all entries are
// appended. Any write failure is wrapped in ErrArchiveWrite.
func WriteArchive(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		fw, err := zw.Create(f.Path)
		if err != nil {
			return fmt.Errorf("%w: create %s: %v", ErrArchiveWrite, f.Path, err)
		}
		if _, err := fw.Write(f.Body); err != nil {
			return fmt.Errorf("%w: write %s: %v", ErrArchiveWrite, f.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: finalize: %v", ErrArchiveWrite, err)
	}
	return nil
}

// Filename derives the download name for a delivered bundle from the
// sanitized label and tier, e.g. "my-app-starter.zip".
func Filename(label string, tier domain.OfferTier) string {
	return fmt.Sprintf("%s-%s.zip", label, tier)
}
