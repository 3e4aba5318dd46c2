package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/cognicore/hashvec/pkg/hashvec/vectorizer"
)

// TestSchemaCreationIdempotent tests that running initSchema multiple times is safe
func TestSchemaCreationIdempotent(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Open database: %v", err)
	}
	defer db.Close()

	for i := 0; i < 3; i++ {
		if err := initSchema(ctx, db); err != nil {
			t.Fatalf("initSchema iteration %d: %v", i, err)
		}
	}

	var count int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&count)
	if err != nil {
		t.Fatalf("Count tables: %v", err)
	}
	if count != 2 { // snapshots, snapshot_rows
		t.Errorf("Expected 2 tables, got %d", count)
	}
}

// TestReopenPreservesSnapshots tests that data survives closing and reopening the database
func TestReopenPreservesSnapshots(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	info, err := st.SaveSnapshot(ctx, "corpus", vectorizer.State{
		Dim:     3,
		Probes:  1,
		UseIDF:  true,
		Sampled: 1,
		DF:      []int64{2, 1, 2},
		Rows:    [][]float64{{0.5, 0, 0.5}},
	})
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	st.Close()

	st2, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	defer st2.Close()

	snap, err := st2.GetSnapshot(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetSnapshot after reopen: %v", err)
	}
	if snap.Label != "corpus" || snap.State.Sampled != 1 || snap.State.DF[0] != 2 || snap.State.Rows[0][2] != 0.5 {
		t.Errorf("snapshot not preserved: %+v", snap)
	}
}
