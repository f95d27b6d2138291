package bruteforce

import (
	"errors"
	"testing"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index"
)

func TestQueryOrdersByDistance(t *testing.T) {
	idx := &Index{}
	if err := idx.Build([]int64{0, 1, 2, 3}, [][]float32{{0, 0}, {3, 4}, {1, 0}, {1, 0}}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	ids, dists, err := idx.Query([]float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	// ties at distance 0 are ordered by id
	want := []int64{2, 3, 0}
	for n := range want {
		if ids[n] != want[n] {
			t.Fatalf("Query ids = %v, want %v", ids, want)
		}
	}
	if dists[0] != 0 || dists[2] != 1 {
		t.Fatalf("Query dists = %v", dists)
	}

	all, _, err := idx.Query([]float32{0, 0}, 0)
	if err != nil || len(all) != 4 {
		t.Fatalf("Query(k=0) = %v, %v; want all 4", all, err)
	}
	if _, _, err := idx.Query([]float32{1}, 1); err == nil {
		t.Fatalf("expected dim mismatch error")
	}
}

func TestEmptyIndex(t *testing.T) {
	idx := &Index{}
	if err := idx.Build(nil, nil); err != nil {
		t.Fatalf("Build(empty) failed: %v", err)
	}
	ids, _, err := idx.Query([]float32{1, 2, 3}, 1)
	if err != nil || len(ids) != 0 {
		t.Fatalf("Query(empty) = %v, %v", ids, err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	idx := &Index{}
	if err := idx.Build([]int64{0, 1}, [][]float32{{1, 1, 1}, {2, 2, 2}}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	data, err := idx.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	restored := &Index{}
	if err := restored.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if restored.Len() != 2 || restored.Dimension() != 3 {
		t.Fatalf("restored Len=%d Dimension=%d", restored.Len(), restored.Dimension())
	}
	ids, _, _ := restored.Query([]float32{2, 2, 2}, 1)
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("restored Query = %v, want [1]", ids)
	}
	if err := restored.UnmarshalBinary(data[:len(data)-1]); !errors.Is(err, index.ErrCorrupt) {
		t.Fatalf("UnmarshalBinary(truncated) err = %v, want ErrCorrupt", err)
	}
}
