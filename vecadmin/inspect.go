package vecadmin

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/engine"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vector"
)

// IndexInfo describes one persisted index blob.
type IndexInfo struct {
	Name  string
	Kind  string
	Bytes int
}

// Info summarizes a snapshot file without loading an encoder.
type Info struct {
	Path      string
	SizeBytes int64
	Header    vector.Header
	Rows      int
	Indexes   []IndexInfo
}

// Inspect reads the header and table statistics of the snapshot at path.
func Inspect(ctx context.Context, path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	header, err := vector.ReadHeader(ctx, path)
	if err != nil {
		return Info{}, err
	}
	info := Info{Path: path, SizeBytes: st.Size(), Header: header}
	db, err := openReadOnly(path)
	if err != nil {
		return Info{}, err
	}
	defer db.Close()
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&info.Rows); err != nil {
		return Info{}, fmt.Errorf("vecadmin: count documents: %w", err)
	}
	rows, err := db.QueryContext(ctx, `SELECT name, kind, length("index") FROM vector_storage ORDER BY name`)
	if err != nil {
		return Info{}, fmt.Errorf("vecadmin: list indexes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ii IndexInfo
		if err := rows.Scan(&ii.Name, &ii.Kind, &ii.Bytes); err != nil {
			return Info{}, err
		}
		info.Indexes = append(info.Indexes, ii)
	}
	return info, rows.Err()
}

func openReadOnly(path string) (*sql.DB, error) {
	return engine.OpenFile(path, engine.FileOptions{ReadOnly: true})
}
