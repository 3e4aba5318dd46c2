package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/hashvec/pkg/hashvec/internalerr"
	"github.com/cognicore/hashvec/pkg/hashvec/store"
	"github.com/cognicore/hashvec/pkg/hashvec/vectorizer"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db  *sql.DB
	ids *store.IDGenerator
	now func() time.Time
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{
		db:  db,
		ids: store.NewIDGenerator(),
		now: time.Now,
	}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	label TEXT NOT NULL,
	created_at TEXT NOT NULL,
	dim INTEGER NOT NULL,
	probes INTEGER NOT NULL,
	use_idf INTEGER NOT NULL,
	sampled INTEGER NOT NULL,
	row_count INTEGER NOT NULL,
	df BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_label ON snapshots(label, id);

CREATE TABLE IF NOT EXISTS snapshot_rows (
	snapshot_id TEXT NOT NULL,
	row_idx INTEGER NOT NULL,
	data BLOB NOT NULL,
	PRIMARY KEY(snapshot_id, row_idx),
	FOREIGN KEY(snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveSnapshot writes the snapshot header and its rows in one transaction
func (s *sqliteStore) SaveSnapshot(ctx context.Context, label string, state vectorizer.State) (store.SnapshotInfo, error) {
	if err := state.Validate(); err != nil {
		return store.SnapshotInfo{}, fmt.Errorf("save snapshot: %w", err)
	}

	now := s.now().UTC()
	info := store.Info(s.ids.New(now), label, now, state)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.SnapshotInfo{}, err
	}
	defer tx.Rollback()

	const insertSnapshot = `
INSERT INTO snapshots (id, label, created_at, dim, probes, use_idf, sampled, row_count, df)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	_, err = tx.ExecContext(ctx, insertSnapshot,
		info.ID,
		info.Label,
		info.CreatedAt.Format(time.RFC3339Nano),
		info.Dim,
		info.Probes,
		boolToInt(info.UseIDF),
		info.Sampled,
		info.Rows,
		encodeInt64s(state.DF),
	)
	if err != nil {
		return store.SnapshotInfo{}, fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_rows (snapshot_id, row_idx, data) VALUES (?, ?, ?)`)
	if err != nil {
		return store.SnapshotInfo{}, err
	}
	defer stmt.Close()

	for i, row := range state.Rows {
		if _, err := stmt.ExecContext(ctx, info.ID, i, encodeFloat64s(row)); err != nil {
			return store.SnapshotInfo{}, fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return store.SnapshotInfo{}, err
	}
	return info, nil
}

// GetSnapshot loads a snapshot and its rows
func (s *sqliteStore) GetSnapshot(ctx context.Context, id string) (store.Snapshot, error) {
	return s.loadSnapshot(ctx, `
SELECT id, label, created_at, dim, probes, use_idf, sampled, row_count, df
FROM snapshots WHERE id = ?`, id)
}

// LatestSnapshot returns the snapshot with the greatest ID for label
func (s *sqliteStore) LatestSnapshot(ctx context.Context, label string) (store.Snapshot, bool, error) {
	snap, err := s.loadSnapshot(ctx, `
SELECT id, label, created_at, dim, probes, use_idf, sampled, row_count, df
FROM snapshots WHERE label = ? ORDER BY id DESC LIMIT 1`, label)
	if errors.Is(err, internalerr.ErrNotFound) {
		return store.Snapshot{}, false, nil
	}
	if err != nil {
		return store.Snapshot{}, false, err
	}
	return snap, true, nil
}

// ListSnapshots returns snapshot metadata ordered by ID
func (s *sqliteStore) ListSnapshots(ctx context.Context) ([]store.SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, label, created_at, dim, probes, use_idf, sampled, row_count
FROM snapshots ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.SnapshotInfo
	for rows.Next() {
		var (
			info      store.SnapshotInfo
			createdAt string
			useIDF    int
		)
		if err := rows.Scan(&info.ID, &info.Label, &createdAt, &info.Dim, &info.Probes, &useIDF, &info.Sampled, &info.Rows); err != nil {
			return nil, err
		}
		if info.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("snapshot %s: parse created_at: %w", info.ID, err)
		}
		info.UseIDF = useIDF != 0
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteSnapshot removes a snapshot and its rows
func (s *sqliteStore) DeleteSnapshot(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Rows are removed explicitly; foreign_keys is a per-connection pragma.
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_rows WHERE snapshot_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("snapshot %s: %w", id, internalerr.ErrNotFound)
	}
	return tx.Commit()
}

func (s *sqliteStore) loadSnapshot(ctx context.Context, query string, arg string) (store.Snapshot, error) {
	var (
		snap      store.Snapshot
		createdAt string
		useIDF    int
		dfBlob    []byte
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&snap.ID,
		&snap.Label,
		&createdAt,
		&snap.Dim,
		&snap.Probes,
		&useIDF,
		&snap.Sampled,
		&snap.SnapshotInfo.Rows,
		&dfBlob,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Snapshot{}, fmt.Errorf("snapshot %s: %w", arg, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Snapshot{}, err
	}

	if snap.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return store.Snapshot{}, fmt.Errorf("snapshot %s: parse created_at: %w", snap.ID, err)
	}
	snap.UseIDF = useIDF != 0

	df, err := decodeInt64s(dfBlob)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("snapshot %s: df: %w", snap.ID, err)
	}

	rows, err := s.loadRows(ctx, snap.ID, snap.SnapshotInfo.Rows)
	if err != nil {
		return store.Snapshot{}, err
	}

	snap.State = vectorizer.State{
		Dim:     snap.Dim,
		Probes:  snap.Probes,
		UseIDF:  snap.UseIDF,
		Sampled: snap.Sampled,
		DF:      df,
		Rows:    rows,
	}
	if err := snap.State.Validate(); err != nil {
		return store.Snapshot{}, fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	return snap, nil
}

func (s *sqliteStore) loadRows(ctx context.Context, id string, count int) ([][]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT row_idx, data FROM snapshot_rows WHERE snapshot_id = ? ORDER BY row_idx`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([][]float64, 0, count)
	for rows.Next() {
		var (
			idx  int
			data []byte
		)
		if err := rows.Scan(&idx, &data); err != nil {
			return nil, err
		}
		if idx != len(out) {
			return nil, fmt.Errorf("snapshot %s: %w: row %d out of sequence", id, internalerr.ErrInvalidInput, idx)
		}
		row, err := decodeFloat64s(data)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: row %d: %w", id, idx, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) != count {
		return nil, fmt.Errorf("snapshot %s: %w: %d rows stored, header says %d", id, internalerr.ErrInvalidInput, len(out), count)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
