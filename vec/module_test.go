package vec

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/engine"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index/bruteforce"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vector"
	"modernc.org/sqlite/vtab"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := engine.Open(":memory:")
	if err != nil {
		t.Fatalf("engine.Open failed: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func bind(t *testing.T, db *sql.DB, ids []int64, vecs [][]float32) *testingDB {
	t.Helper()
	idx := &bruteforce.Index{}
	if err := idx.Build(ids, vecs); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	conn, err := Bind(context.Background(), db, Indexes{vector.WeaknessIndex: idx}.Lookup)
	if err != nil {
		if errors.Is(err, vtab.ErrNotImplemented) {
			t.Skipf("skipping: vtab not available (%v)", err)
		}
		t.Fatalf("Bind failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &testingDB{t: t, conn: conn}
}

func newKNNTable(t *testing.T) *testingDB {
	t.Helper()
	return bind(t, openMemory(t), []int64{0, 1, 2}, [][]float32{{0, 0}, {1, 0}, {5, 5}})
}

func TestKNNQuery(t *testing.T) {
	tdb := newKNNTable(t)
	blob, err := vector.EncodeEmbedding([]float32{0.9, 0})
	if err != nil {
		t.Fatalf("EncodeEmbedding failed: %v", err)
	}
	testCases := []struct {
		description string
		query       string
		args        []any
		want        []int64
	}{
		{
			description: "blob with k",
			query:       `SELECT doc_id, distance FROM temp.knn WHERE index_name = ? AND doc_id MATCH ? AND k = 2`,
			args:        []any{vector.WeaknessIndex, blob},
			want:        []int64{1, 0},
		},
		{
			description: "json list without k",
			query:       `SELECT doc_id, distance FROM temp.knn WHERE index_name = ? AND doc_id MATCH ?`,
			args:        []any{vector.WeaknessIndex, "[5, 4]"},
			want:        []int64{2, 1, 0},
		},
		{
			description: "csv",
			query:       `SELECT doc_id, distance FROM temp.knn WHERE index_name = ? AND doc_id MATCH ? AND k = 1`,
			args:        []any{vector.WeaknessIndex, "0.1, 0.1"},
			want:        []int64{0},
		},
		{
			description: "base64 blob",
			query:       `SELECT doc_id, distance FROM temp.knn WHERE index_name = ? AND doc_id MATCH ? AND k = 1`,
			args:        []any{vector.WeaknessIndex, base64.StdEncoding.EncodeToString(blob)},
			want:        []int64{1},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			ids, dists := tdb.query(tc.query, tc.args...)
			if len(ids) != len(tc.want) {
				t.Fatalf("got ids %v, want %v", ids, tc.want)
			}
			for i := range ids {
				if ids[i] != tc.want[i] {
					t.Fatalf("got ids %v, want %v", ids, tc.want)
				}
				if i > 0 && dists[i] < dists[i-1] {
					t.Fatalf("distances not ascending: %v", dists)
				}
			}
		})
	}
}

func TestKNNErrors(t *testing.T) {
	tdb := newKNNTable(t)
	for _, q := range []struct {
		query string
		args  []any
	}{
		{query: `SELECT doc_id FROM temp.knn WHERE index_name = ? AND doc_id MATCH ?`, args: []any{"missing", "[0,0]"}},
		{query: `SELECT doc_id FROM temp.knn WHERE index_name = ? AND doc_id MATCH ?`, args: []any{vector.WeaknessIndex, "[0,0,0]"}},
		{query: `SELECT doc_id FROM temp.knn WHERE index_name = ? AND doc_id MATCH ?`, args: []any{vector.WeaknessIndex, "not floats"}},
		{query: `SELECT doc_id FROM temp.knn WHERE doc_id MATCH ?`, args: []any{"[0,0]"}},
	} {
		rows, err := tdb.conn.QueryContext(context.Background(), q.query, q.args...)
		if err == nil {
			for rows.Next() {
			}
			err = rows.Err()
			rows.Close()
		}
		if err == nil {
			t.Fatalf("expected error for %q %v", q.query, q.args)
		}
	}
}

func TestBindIsolatesLookups(t *testing.T) {
	const q = `SELECT doc_id, distance FROM temp.knn WHERE index_name = ? AND doc_id MATCH ? AND k = 1`

	first := bind(t, openMemory(t), []int64{10}, [][]float32{{0, 0}})
	second := bind(t, openMemory(t), []int64{20}, [][]float32{{0, 0}})
	if first.conn.Module == second.conn.Module {
		t.Fatalf("both bindings use module %q", first.conn.Module)
	}
	for _, tc := range []struct {
		tdb  *testingDB
		want int64
	}{
		{tdb: first, want: 10},
		{tdb: second, want: 20},
	} {
		ids, _ := tc.tdb.query(q, vector.WeaknessIndex, "[0, 0]")
		if len(ids) != 1 || ids[0] != tc.want {
			t.Fatalf("module %s returned %v, want [%d]", tc.tdb.conn.Module, ids, tc.want)
		}
	}

	// A later binding on a database that already has a connection still works.
	db := openMemory(t)
	if err := db.Ping(); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	third := bind(t, db, []int64{30}, [][]float32{{1, 1}})
	if ids, _ := third.query(q, vector.WeaknessIndex, "[1, 1]"); len(ids) != 1 || ids[0] != 30 {
		t.Fatalf("third binding returned %v, want [30]", ids)
	}
}

func TestBindRejectsNilLookup(t *testing.T) {
	if _, err := Bind(context.Background(), openMemory(t), nil); err == nil {
		t.Fatalf("expected error for nil lookup")
	}
}

func TestIndexesLookup(t *testing.T) {
	m := Indexes{"a": &bruteforce.Index{}}
	if _, err := m.Lookup("a"); err != nil {
		t.Fatalf("Lookup(a) failed: %v", err)
	}
	if _, err := m.Lookup("b"); err == nil {
		t.Fatalf("expected error for unknown index")
	}
}
