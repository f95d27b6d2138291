package engine

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// Open opens a SQLite database using the modernc.org/sqlite driver.
//
// For file-based databases, pass a path like "./db.sqlite". For in-memory
// databases, pass ":memory:".
func Open(dsn string) (*sql.DB, error) { return sql.Open("sqlite", dsn) }

// FileOptions controls how OpenFile builds its DSN.
type FileOptions struct {
	// ReadOnly opens the file with mode=ro; the file must exist.
	ReadOnly bool
	// Pragmas are applied to every new connection, e.g. "busy_timeout(5000)".
	Pragmas []string
}

// OpenFile opens a file-backed database. Snapshots use a single connection
// so pragmas and registered functions apply uniformly.
func OpenFile(path string, opts FileOptions) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("engine: empty database path")
	}
	db, err := Open(fileDSN(path, opts))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func fileDSN(path string, opts FileOptions) string {
	q := url.Values{}
	if opts.ReadOnly {
		q.Set("mode", "ro")
	}
	for _, p := range opts.Pragmas {
		q.Add("_pragma", p)
	}
	if len(q) == 0 {
		return path
	}
	return "file:" + path + "?" + q.Encode()
}
