package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tbourn/go-storefront-backend/internal/domain"
)

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	if _, err := OpenSQLite(filepath.Join(t.TempDir(), "nope", "store.db")); err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}

func TestOpenSQLite_AndAutoMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	// Schema must be usable end to end, including the unique session index.
	if _, err := CreateOrder(context.Background(), db, &domain.Order{
		SessionID:        "cs_open_1",
		Email:            "buyer@example.com",
		ProjectLabel:     "demo",
		AmountMinorUnits: 900,
		Tier:             domain.TierStarter,
	}); err != nil {
		t.Fatalf("CreateOrder after migrate: %v", err)
	}
	if !db.Migrator().HasIndex(&domain.Order{}, "ux_orders_session") {
		t.Fatal("expected unique index ux_orders_session")
	}
}
