package vec

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vector"
	"modernc.org/sqlite/vtab"
)

// ModuleName prefixes the module names Bind registers.
const ModuleName = "recipe_knn"

// TableName is the temp table Bind creates on its connection.
const TableName = "temp.knn"

// bindAttempts bounds how many fresh connections Bind tries before giving up.
const bindAttempts = 3

var (
	bindMu  sync.Mutex
	bindSeq atomic.Uint64
)

// Lookup resolves an index name to a loaded index.
type Lookup func(name string) (index.Index, error)

// Indexes is a Lookup over a fixed set of indices.
type Indexes map[string]index.Index

// Lookup implements Lookup.
func (m Indexes) Lookup(name string) (index.Index, error) {
	idx, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("vec: unknown index %q", name)
	}
	return idx, nil
}

const (
	colDocID = iota
	colDistance
	colIndexName
	colK
)

const (
	planMatch = iota + 1
	planMatchK
)

// Module implements vtab.Module for recipe_knn. Cursors never query the
// database, so single-connection pools do not deadlock.
type Module struct {
	lookup Lookup
}

// Table is one recipe_knn instance.
type Table struct {
	lookup Lookup
}

// Cursor iterates kNN results.
type Cursor struct {
	table     *Table
	indexName string
	k         int64
	ids       []int64
	distances []float64
	pos       int
}

// Conn is a database connection carrying a TableName table that resolves
// index names through one Lookup. Close returns it to the pool.
type Conn struct {
	*sql.Conn
	// Module is the module name registered for this connection.
	Module string
}

// Bind registers a new module instance for lookup and creates TableName
// on a connection of db that carries it.
//
// The driver installs a module only on the first connection opened after its
// registration, and module registrations are process-wide, so every Bind uses
// a fresh module name (recipe_knn_<n>). A connection that turns out not to
// carry the module is discarded and Bind retries with a new name.
func Bind(ctx context.Context, db *sql.DB, lookup Lookup) (*Conn, error) {
	if lookup == nil {
		return nil, errors.New("vec: lookup is nil")
	}
	bindMu.Lock()
	defer bindMu.Unlock()
	var lastErr error
	for attempt := 0; attempt < bindAttempts; attempt++ {
		name := fmt.Sprintf("%s_%d", ModuleName, bindSeq.Add(1))
		if err := vtab.RegisterModule(db, name, &Module{lookup: lookup}); err != nil {
			return nil, fmt.Errorf("vec: register %s: %w", name, err)
		}
		conn, err := db.Conn(ctx)
		if err != nil {
			return nil, err
		}
		_, err = conn.ExecContext(ctx, `CREATE VIRTUAL TABLE `+TableName+` USING `+name)
		if err == nil {
			return &Conn{Conn: conn, Module: name}, nil
		}
		lastErr = err
		// ErrBadConn makes the pool close the connection instead of reusing it.
		_ = conn.Raw(func(any) error { return driver.ErrBadConn })
		_ = conn.Close()
		if !strings.Contains(err.Error(), "no such module") {
			break
		}
	}
	return nil, fmt.Errorf("vec: create %s: %w", TableName, lastErr)
}

// Create declares the table schema.
func (m *Module) Create(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.connect(ctx, args)
}

// Connect attaches to an existing instance.
func (m *Module) Connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.connect(ctx, args)
}

func (m *Module) connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("vec: expected at least 3 module args, got %d", len(args))
	}
	if err := ctx.Declare(fmt.Sprintf(
		"CREATE TABLE %s(doc_id INTEGER, distance REAL, index_name TEXT HIDDEN, k INTEGER HIDDEN)", args[2])); err != nil {
		return nil, err
	}
	return &Table{lookup: m.lookup}, nil
}

// BestIndex requires index_name = ? and doc_id MATCH ?; k = ? is optional.
func (t *Table) BestIndex(info *vtab.IndexInfo) error {
	var name, match, k *vtab.Constraint
	for i := range info.Constraints {
		c := &info.Constraints[i]
		if !c.Usable {
			continue
		}
		switch {
		case c.Column == colIndexName && c.Op == vtab.OpEQ:
			name = c
		case c.Column == colDocID && c.Op == vtab.OpMATCH:
			match = c
		case c.Column == colK && c.Op == vtab.OpEQ:
			k = c
		}
	}
	if name == nil || match == nil {
		return fmt.Errorf("vec: index_name = ? and doc_id MATCH ? are required")
	}
	name.ArgIndex, name.Omit = 0, true
	match.ArgIndex, match.Omit = 1, true
	info.IdxNum = planMatch
	if k != nil {
		k.ArgIndex, k.Omit = 2, true
		info.IdxNum = planMatchK
	}
	return nil
}

// Open allocates a cursor.
func (t *Table) Open() (vtab.Cursor, error) { return &Cursor{table: t}, nil }

// Disconnect is a no-op.
func (t *Table) Disconnect() error { return nil }

// Destroy is a no-op; the table owns no storage.
func (t *Table) Destroy() error { return nil }

// Filter runs the kNN query.
func (c *Cursor) Filter(idxNum int, _ string, vals []vtab.Value) error {
	c.ids, c.distances, c.pos = nil, nil, 0
	if idxNum != planMatch && idxNum != planMatchK {
		return fmt.Errorf("vec: unsupported query plan %d", idxNum)
	}
	if len(vals) < 2 {
		return fmt.Errorf("vec: index_name and MATCH arguments are required")
	}
	name, err := asString(vals[0])
	if err != nil {
		return err
	}
	query, err := decodeMatchArg(vals[1])
	if err != nil {
		return err
	}
	c.indexName, c.k = name, 0
	if idxNum == planMatchK {
		if len(vals) < 3 {
			return fmt.Errorf("vec: k argument missing")
		}
		if c.k, err = asInt(vals[2]); err != nil {
			return err
		}
	}
	idx, err := c.table.lookup(name)
	if err != nil {
		return err
	}
	c.ids, c.distances, err = idx.Query(query, int(c.k))
	return err
}

// Next advances the cursor.
func (c *Cursor) Next() error {
	if c.pos < len(c.ids) {
		c.pos++
	}
	return nil
}

// Eof reports end-of-rows.
func (c *Cursor) Eof() bool { return c.pos >= len(c.ids) }

// Column returns the value of a column in the current row.
func (c *Cursor) Column(col int) (vtab.Value, error) {
	if c.pos >= len(c.ids) {
		return nil, fmt.Errorf("vec: Column out of range (pos=%d,len=%d)", c.pos, len(c.ids))
	}
	switch col {
	case colDocID:
		return c.ids[c.pos], nil
	case colDistance:
		return c.distances[c.pos], nil
	case colIndexName:
		return c.indexName, nil
	case colK:
		return c.k, nil
	}
	return nil, fmt.Errorf("vec: unsupported column %d", col)
}

// Rowid returns the 1-based rank of the current row.
func (c *Cursor) Rowid() (int64, error) { return int64(c.pos + 1), nil }

// Close releases resources.
func (c *Cursor) Close() error { c.ids, c.distances, c.pos = nil, nil, 0; return nil }

func decodeMatchArg(v vtab.Value) ([]float32, error) {
	switch val := v.(type) {
	case []byte:
		return vector.DecodeEmbedding(val)
	case string:
		return decodeMatchString(val)
	default:
		return nil, fmt.Errorf("vec: expected MATCH arg as BLOB or string, got %T", v)
	}
}

func decodeMatchString(raw string) ([]float32, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("vec: MATCH string is empty")
	}
	if strings.HasPrefix(s, "[") {
		var floats []float64
		if err := json.Unmarshal([]byte(s), &floats); err != nil {
			return nil, fmt.Errorf("vec: invalid MATCH list: %w", err)
		}
		vec := make([]float32, len(floats))
		for i, f := range floats {
			vec[i] = float32(f)
		}
		return vec, nil
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		if vec, err := vector.DecodeEmbedding(b); err == nil {
			return vec, nil
		}
	}
	parts := strings.Split(s, ",")
	vec := make([]float32, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		f, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return nil, fmt.Errorf("vec: invalid MATCH float %q: %w", p, err)
		}
		vec = append(vec, float32(f))
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("vec: MATCH string must be a base64 embedding or a JSON/CSV float list")
	}
	return vec, nil
}

func asString(v vtab.Value) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	default:
		return "", fmt.Errorf("vec: expected TEXT, got %T", v)
	}
}

func asInt(v vtab.Value) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case float64:
		return int64(val), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	default:
		return 0, fmt.Errorf("vec: expected INTEGER k, got %T", v)
	}
}
