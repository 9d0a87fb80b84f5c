package sqlite

import (
	"context"
	"strings"
	"testing"

	"github.com/semi-dlc/flowt-bb/internal/store"
	"github.com/semi-dlc/flowt-bb/internal/store/storetest"
)

func makeSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	db, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("sqlite schema: %v", err)
	}
	return NewWithDB(db)
}

func TestSQLiteStore_Compliance(t *testing.T) {
	storetest.Run(t, makeSQLiteStore)
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	defer func() { _ = db.Close() }()
	for i := 0; i < 2; i++ {
		if err := EnsureSchema(context.Background(), db); err != nil {
			t.Fatalf("EnsureSchema run %d: %v", i+1, err)
		}
	}
}

func TestBootstrap_DetectsMissingColumns(t *testing.T) {
	db, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	defer func() { _ = db.Close() }()
	ctx := context.Background()

	// A table created elsewhere survives CREATE TABLE IF NOT EXISTS unchanged.
	if _, err := db.ExecContext(ctx, `CREATE TABLE shipment_offers (id TEXT PRIMARY KEY, user_id TEXT, route TEXT, status TEXT, created_at INTEGER)`); err != nil {
		t.Fatalf("pre-create table: %v", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	err = Bootstrap(ctx, db)
	if err == nil || !strings.Contains(err.Error(), "schema check shipment_offers") {
		t.Fatalf("expected shipment_offers schema error, got %v", err)
	}
}

func TestBootstrap_FreshSchema(t *testing.T) {
	db, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	defer func() { _ = db.Close() }()
	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := Bootstrap(context.Background(), db); err != nil {
		t.Fatalf("Bootstrap on fresh schema: %v", err)
	}
}
