package bundle

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/tbourn/go-storefront-backend/internal/domain"
)

func TestRender_StarterContents(t *testing.T) {
	files, err := Render(domain.TierStarter, "my_cool_app__")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 starter files, got %d", len(files))
	}
	want := []string{"package.json", "server.js", "README.md"}
	for i, p := range want {
		if files[i].Path != p {
			t.Fatalf("files[%d].Path = %q, want %q", i, files[i].Path, p)
		}
	}
	if !strings.Contains(string(files[0].Body), `"name": "my_cool_app__"`) {
		t.Fatalf("label not interpolated into package.json: %s", files[0].Body)
	}
	if strings.Contains(string(files[1].Body), "{{label}}") {
		t.Fatal("placeholder left in server.js")
	}
}

func TestRender_TiersAreSupersets(t *testing.T) {
	starter, _ := Render(domain.TierStarter, "demo")
	prompt, _ := Render(domain.TierPrompt, "demo")
	ultimate, _ := Render(domain.TierUltimate, "demo")

	if len(prompt) <= len(starter) || len(ultimate) <= len(prompt) {
		t.Fatalf("tier sizes not increasing: %d/%d/%d", len(starter), len(prompt), len(ultimate))
	}

	paths := func(fs []File) map[string]bool {
		m := make(map[string]bool, len(fs))
		for _, f := range fs {
			m[f.Path] = true
		}
		return m
	}
	up := paths(ultimate)
	for _, f := range prompt {
		if !up[f.Path] {
			t.Fatalf("ultimate missing prompt entry %q", f.Path)
		}
	}
	if !up["routes/auth.js"] || !up[".env.example"] {
		t.Fatalf("ultimate extras missing: %v", Paths(domain.TierUltimate))
	}
}

func TestRender_UnknownTier(t *testing.T) {
	if _, err := Render(domain.OfferTier("gold"), "demo"); err == nil {
		t.Fatal("expected error for unknown tier")
	}
}

func TestPaths_MatchRender(t *testing.T) {
	files, _ := Render(domain.TierPrompt, "demo")
	paths := Paths(domain.TierPrompt)
	if len(paths) != len(files) {
		t.Fatalf("Paths/Render length mismatch: %d vs %d", len(paths), len(files))
	}
	for i := range paths {
		if paths[i] != files[i].Path {
			t.Fatalf("paths[%d] = %q, files[%d].Path = %q", i, paths[i], i, files[i].Path)
		}
	}
}

func TestWriteArchive_RoundTrip(t *testing.T) {
	files, err := Render(domain.TierUltimate, "demo")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteArchive(&buf, files); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	if len(zr.File) != len(files) {
		t.Fatalf("archive has %d entries, want %d", len(zr.File), len(files))
	}
	for i, zf := range zr.File {
		if zf.Name != files[i].Path {
			t.Fatalf("entry %d = %q, want %q", i, zf.Name, files[i].Path)
		}
		rc, err := zf.Open()
		if err != nil {
			t.Fatalf("open %s: %v", zf.Name, err)
		}
		body, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", zf.Name, err)
		}
		if !bytes.Equal(body, files[i].Body) {
			t.Fatalf("entry %s content mismatch", zf.Name)
		}
	}
}

// failWriter fails after n successful writes.
type failWriter struct {
	n int
}

func (w *failWriter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, errors.New("receiver gone")
	}
	w.n--
	return len(p), nil
}

func TestWriteArchive_WriteFailure(t *testing.T) {
	files, _ := Render(domain.TierStarter, "demo")
	err := WriteArchive(&failWriter{n: 1}, files)
	if !errors.Is(err, ErrArchiveWrite) {
		t.Fatalf("err = %v, want ErrArchiveWrite", err)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("my_cool_app__", domain.TierStarter); got != "my_cool_app__-starter.zip" {
		t.Fatalf("Filename = %q", got)
	}
	if got := Filename("demo", domain.TierUltimate); got != "demo-ultimate.zip" {
		t.Fatalf("Filename = %q", got)
	}
}
