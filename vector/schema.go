package vector

import (
	"context"
	"database/sql"
)

const (
	// SnapshotFormat identifies recipe snapshots in snapshot_meta.
	SnapshotFormat = "recipevec-snapshot"
	// SnapshotVersion is the only layout this package reads and writes.
	SnapshotVersion = 1

	// WeaknessIndex and FullTextIndex name the two persisted index blobs.
	WeaknessIndex = "weakness"
	FullTextIndex = "full_text"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS snapshot_meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS documents (
    id                 INTEGER PRIMARY KEY,
    weakness_id        TEXT NOT NULL,
    tags               TEXT NOT NULL,
    languages          TEXT NOT NULL,
    content            TEXT NOT NULL,
    weakness_embedding BLOB NOT NULL,
    content_embedding  BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS vector_storage (
    name    TEXT PRIMARY KEY,
    kind    TEXT NOT NULL,
    "index" BLOB NOT NULL
);
`

// EnsureSchema creates the snapshot tables if they do not already exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, snapshotSchema)
	return err
}
