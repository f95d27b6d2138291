package tree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/viant/vec/search"
)

func TestKNearestNeighborsMatchesScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n, dim = 500, 8
	points := make([]*Point, n)
	tr := New(0)
	for i := range points {
		v := make([]float32, dim)
		for j := range v {
			v[j] = rng.Float32()*2 - 1
		}
		points[i] = NewPoint(int64(i), v)
		tr.Insert(points[i])
	}
	if tr.Len() != n {
		t.Fatalf("Len = %d, want %d", tr.Len(), n)
	}

	for q := 0; q < 20; q++ {
		query := make([]float32, dim)
		for j := range query {
			query[j] = rng.Float32()*2 - 1
		}
		type hit struct {
			id   int64
			dist float32
		}
		want := make([]hit, n)
		for i, p := range points {
			want[i] = hit{id: p.ID, dist: search.Float32s(query).EuclideanDistance(p.Vector)}
		}
		sort.Slice(want, func(a, b int) bool {
			if want[a].dist != want[b].dist {
				return want[a].dist < want[b].dist
			}
			return want[a].id < want[b].id
		})
		got := tr.KNearestNeighbors(query, 5)
		if len(got) != 5 {
			t.Fatalf("query %d: got %d neighbors, want 5", q, len(got))
		}
		for i := range got {
			if got[i].Point.ID != want[i].id {
				t.Fatalf("query %d rank %d: id %d, want %d", q, i, got[i].Point.ID, want[i].id)
			}
		}
	}
}

func TestKNearestNeighborsSelfAndDuplicates(t *testing.T) {
	tr := New(2)
	tr.Insert(NewPoint(0, []float32{0, 0}))
	tr.Insert(NewPoint(1, []float32{5, 5}))
	tr.Insert(NewPoint(2, []float32{5, 5}))
	tr.Insert(NewPoint(3, []float32{-3, 1}))

	got := tr.KNearestNeighbors([]float32{5, 5}, 2)
	if len(got) != 2 || got[0].Point.ID != 1 || got[1].Point.ID != 2 || got[0].Distance != 0 {
		t.Fatalf("KNearestNeighbors = %+v", got)
	}
	all := tr.KNearestNeighbors([]float32{0, 0}, 0)
	if len(all) != 4 || all[0].Point.ID != 0 {
		t.Fatalf("KNearestNeighbors(k=0) = %+v", all)
	}
}

func TestEmptyTree(t *testing.T) {
	if got := New(1.3).KNearestNeighbors([]float32{1}, 3); got != nil {
		t.Fatalf("empty tree returned %v", got)
	}
}
