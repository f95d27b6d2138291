package vec

import (
	"context"
	"testing"
)

type testingDB struct {
	t    *testing.T
	conn *Conn
}

func (d *testingDB) query(q string, args ...any) ([]int64, []float64) {
	d.t.Helper()
	rows, err := d.conn.QueryContext(context.Background(), q, args...)
	if err != nil {
		d.t.Fatalf("query %q failed: %v", q, err)
	}
	defer rows.Close()
	var ids []int64
	var dists []float64
	for rows.Next() {
		var id int64
		var dist float64
		if err := rows.Scan(&id, &dist); err != nil {
			d.t.Fatalf("scan failed: %v", err)
		}
		ids = append(ids, id)
		dists = append(dists, dist)
	}
	if err := rows.Err(); err != nil {
		d.t.Fatalf("rows failed: %v", err)
	}
	return ids, dists
}
