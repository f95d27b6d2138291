package vector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/engine"
	"github.com/google/uuid"
)

// Header is the snapshot_meta content.
type Header struct {
	Format            string
	Version           int
	Encoder           string
	Dimension         int
	Documents         int
	CorpusFingerprint string
	BuildID           string
	CreatedAt         time.Time
}

// IndexBlob is one serialized index as stored in vector_storage.
type IndexBlob struct {
	Name string
	Kind string
	Data []byte
}

// Snapshot is the complete persisted state of a store. Documents,
// WeaknessEmbeddings and ContentEmbeddings are parallel arrays indexed by
// document id.
type Snapshot struct {
	Header             Header
	Documents          []Document
	WeaknessEmbeddings [][]float32
	ContentEmbeddings  [][]float32
	Indexes            []IndexBlob
}

// Index returns the blob stored under name.
func (s *Snapshot) Index(name string) (IndexBlob, bool) {
	for _, b := range s.Indexes {
		if b.Name == name {
			return b, true
		}
	}
	return IndexBlob{}, false
}

func (s *Snapshot) validate() error {
	n := len(s.Documents)
	if len(s.WeaknessEmbeddings) != n || len(s.ContentEmbeddings) != n {
		return fmt.Errorf("vector: snapshot arrays disagree: %d documents, %d weakness, %d content",
			n, len(s.WeaknessEmbeddings), len(s.ContentEmbeddings))
	}
	for i, d := range s.Documents {
		if d.ID != i {
			return fmt.Errorf("vector: document at position %d has id %d", i, d.ID)
		}
		if len(s.WeaknessEmbeddings[i]) != s.Header.Dimension || len(s.ContentEmbeddings[i]) != s.Header.Dimension {
			return fmt.Errorf("vector: document %d embedding dimension differs from %d", i, s.Header.Dimension)
		}
	}
	return nil
}

// WriteSnapshot persists snap at path. The database is written to a
// temporary file in the same directory and renamed over path, so readers
// observe either the previous snapshot or the new one.
func WriteSnapshot(ctx context.Context, path string, snap *Snapshot) (err error) {
	if snap.Header.Format == "" {
		snap.Header.Format = SnapshotFormat
	}
	if snap.Header.Version == 0 {
		snap.Header.Version = SnapshotVersion
	}
	if snap.Header.BuildID == "" {
		snap.Header.BuildID = uuid.NewString()
	}
	if snap.Header.CreatedAt.IsZero() {
		snap.Header.CreatedAt = time.Now().UTC()
	}
	snap.Header.Documents = len(snap.Documents)
	if err := snap.validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("vector: create snapshot dir: %w", err)
	}
	tmp := path + ".tmp-" + uuid.NewString()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
			_ = os.Remove(tmp + "-journal")
		}
	}()
	if err = writeDatabase(ctx, tmp, snap); err != nil {
		return err
	}
	if err = syncFile(tmp); err != nil {
		return err
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("vector: install snapshot: %w", err)
	}
	return nil
}

func writeDatabase(ctx context.Context, path string, snap *Snapshot) error {
	db, err := engine.OpenFile(path, engine.FileOptions{Pragmas: []string{"journal_mode(DELETE)", "synchronous(FULL)"}})
	if err != nil {
		return err
	}
	defer db.Close()
	if err := EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("vector: create snapshot schema: %w", err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	h := snap.Header
	meta := map[string]string{
		"format":             h.Format,
		"format_version":     strconv.Itoa(h.Version),
		"encoder":            h.Encoder,
		"dimension":          strconv.Itoa(h.Dimension),
		"documents":          strconv.Itoa(h.Documents),
		"corpus_fingerprint": h.CorpusFingerprint,
		"build_id":           h.BuildID,
		"created_at":         h.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot_meta(key, value) VALUES(?, ?)`, k, v); err != nil {
			return fmt.Errorf("vector: write snapshot meta %s: %w", k, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO documents(id, weakness_id, tags, languages, content, weakness_embedding, content_embedding)
		VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, d := range snap.Documents {
		tags, err := encodeLabels(d.Metadata.Tags)
		if err != nil {
			return err
		}
		langs, err := encodeLabels(d.Metadata.Languages)
		if err != nil {
			return err
		}
		we, err := EncodeEmbedding(snap.WeaknessEmbeddings[i])
		if err != nil {
			return err
		}
		ce, err := EncodeEmbedding(snap.ContentEmbeddings[i])
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, d.ID, d.Metadata.WeaknessID, tags, langs, d.Content, we, ce); err != nil {
			return fmt.Errorf("vector: write document %d: %w", d.ID, err)
		}
	}
	for _, b := range snap.Indexes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO vector_storage(name, kind, "index") VALUES(?, ?, ?)`, b.Name, b.Kind, b.Data); err != nil {
			return fmt.Errorf("vector: write index %s: %w", b.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return db.Close()
}

func syncFile(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadHeader reads only snapshot_meta. A missing file yields an error
// matching fs.ErrNotExist.
func ReadHeader(ctx context.Context, path string) (Header, error) {
	db, err := openSnapshot(path)
	if err != nil {
		return Header{}, err
	}
	defer db.Close()
	return readHeader(ctx, db)
}

// ReadSnapshot loads and validates the snapshot at path. When encoder is
// non-empty the snapshot must have been built with that encoder fingerprint.
// Validation failures are ErrCorruptSnapshot, ErrUnsupportedFormat or
// ErrEncoderMismatch; a missing file matches fs.ErrNotExist.
func ReadSnapshot(ctx context.Context, path, encoder string) (*Snapshot, error) {
	db, err := openSnapshot(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	h, err := readHeader(ctx, db)
	if err != nil {
		return nil, err
	}
	if encoder != "" && h.Encoder != encoder {
		return nil, fmt.Errorf("%w: snapshot built with %q, configured %q", ErrEncoderMismatch, h.Encoder, encoder)
	}
	snap := &Snapshot{Header: h}
	if err := readDocuments(ctx, db, snap); err != nil {
		return nil, err
	}
	if err := readIndexes(ctx, db, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func openSnapshot(path string) (*sql.DB, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrCorruptSnapshot, path)
	}
	db, err := engine.OpenFile(path, engine.FileOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return db, nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptSnapshot, fmt.Sprintf(format, args...))
}

func readHeader(ctx context.Context, db *sql.DB) (Header, error) {
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM snapshot_meta`)
	if err != nil {
		return Header{}, corrupt("read snapshot_meta: %v", err)
	}
	defer rows.Close()
	meta := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return Header{}, corrupt("scan snapshot_meta: %v", err)
		}
		meta[k] = v
	}
	if err := rows.Err(); err != nil {
		return Header{}, corrupt("read snapshot_meta: %v", err)
	}

	var h Header
	h.Format = meta["format"]
	if h.Format == "" {
		return Header{}, corrupt("snapshot_meta has no format")
	}
	if h.Format != SnapshotFormat {
		return Header{}, fmt.Errorf("%w: format %q", ErrUnsupportedFormat, h.Format)
	}
	if h.Version, err = strconv.Atoi(meta["format_version"]); err != nil {
		return Header{}, corrupt("format_version %q", meta["format_version"])
	}
	if h.Version != SnapshotVersion {
		return Header{}, fmt.Errorf("%w: version %d", ErrUnsupportedFormat, h.Version)
	}
	if h.Dimension, err = strconv.Atoi(meta["dimension"]); err != nil || h.Dimension < 0 {
		return Header{}, corrupt("dimension %q", meta["dimension"])
	}
	if h.Documents, err = strconv.Atoi(meta["documents"]); err != nil || h.Documents < 0 {
		return Header{}, corrupt("documents %q", meta["documents"])
	}
	h.Encoder = meta["encoder"]
	if h.Encoder == "" {
		return Header{}, corrupt("snapshot_meta has no encoder")
	}
	h.CorpusFingerprint = meta["corpus_fingerprint"]
	h.BuildID = meta["build_id"]
	if ts := meta["created_at"]; ts != "" {
		if h.CreatedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return Header{}, corrupt("created_at %q", ts)
		}
	}
	return h, nil
}

func readDocuments(ctx context.Context, db *sql.DB, snap *Snapshot) error {
	rows, err := db.QueryContext(ctx, `SELECT id, weakness_id, tags, languages, content, weakness_embedding, content_embedding
		FROM documents ORDER BY id`)
	if err != nil {
		return corrupt("read documents: %v", err)
	}
	defer rows.Close()
	dim := snap.Header.Dimension
	for rows.Next() {
		var (
			d           Document
			tags, langs string
			we, ce      []byte
		)
		if err := rows.Scan(&d.ID, &d.Metadata.WeaknessID, &tags, &langs, &d.Content, &we, &ce); err != nil {
			return corrupt("scan document: %v", err)
		}
		if d.ID != len(snap.Documents) {
			return corrupt("document ids are not contiguous: got %d at position %d", d.ID, len(snap.Documents))
		}
		if d.Metadata.Tags, err = decodeLabels(tags); err != nil {
			return corrupt("document %d: %v", d.ID, err)
		}
		if d.Metadata.Languages, err = decodeLabels(langs); err != nil {
			return corrupt("document %d: %v", d.ID, err)
		}
		wv, err := DecodeEmbeddingDim(we, dim)
		if err != nil {
			return corrupt("document %d weakness embedding: %v", d.ID, err)
		}
		cv, err := DecodeEmbeddingDim(ce, dim)
		if err != nil {
			return corrupt("document %d content embedding: %v", d.ID, err)
		}
		snap.Documents = append(snap.Documents, d)
		snap.WeaknessEmbeddings = append(snap.WeaknessEmbeddings, wv)
		snap.ContentEmbeddings = append(snap.ContentEmbeddings, cv)
	}
	if err := rows.Err(); err != nil {
		return corrupt("read documents: %v", err)
	}
	if len(snap.Documents) != snap.Header.Documents {
		return corrupt("header declares %d documents, found %d", snap.Header.Documents, len(snap.Documents))
	}
	return nil
}

func readIndexes(ctx context.Context, db *sql.DB, snap *Snapshot) error {
	rows, err := db.QueryContext(ctx, `SELECT name, kind, "index" FROM vector_storage ORDER BY name`)
	if err != nil {
		return corrupt("read vector_storage: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b IndexBlob
		if err := rows.Scan(&b.Name, &b.Kind, &b.Data); err != nil {
			return corrupt("scan vector_storage: %v", err)
		}
		snap.Indexes = append(snap.Indexes, b)
	}
	if err := rows.Err(); err != nil {
		return corrupt("read vector_storage: %v", err)
	}
	if snap.Header.Documents == 0 {
		return nil
	}
	for _, name := range []string{WeaknessIndex, FullTextIndex} {
		if _, ok := snap.Index(name); !ok {
			return corrupt("missing %s index", name)
		}
	}
	return nil
}

// IsNotExist reports whether err means the snapshot file is absent.
func IsNotExist(err error) bool { return errors.Is(err, fs.ErrNotExist) }
