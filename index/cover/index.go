package cover

import (
	"fmt"
	"sort"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/internal/cover/tree"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vector"
)

// Option configures an Index.
type Option func(*Index)

// WithBase sets the cover tree base (must be > 1).
func WithBase(base float32) Option { return func(i *Index) { i.base = base } }

// Index is an exact L2 kNN index backed by a cover tree.
type Index struct {
	base float32
	ids  []int64
	vecs [][]float32
	dim  int
	tree *tree.Tree
}

var _ index.Index = (*Index)(nil)

// New creates an empty cover index.
func New(opts ...Option) *Index {
	i := &Index{}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Build constructs the cover tree.
func (i *Index) Build(ids []int64, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("cover: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	i.ids = append([]int64(nil), ids...)
	i.vecs = append([][]float32(nil), vectors...)
	i.dim = 0
	i.tree = tree.New(i.base)
	if len(vectors) == 0 {
		return nil
	}
	i.dim = len(vectors[0])
	for j := range vectors {
		if len(vectors[j]) != i.dim {
			return fmt.Errorf("cover: inconsistent vector dims %d vs %d", len(vectors[j]), i.dim)
		}
		i.tree.Insert(tree.NewPoint(ids[j], vectors[j]))
	}
	return nil
}

// Query returns up to k ids ordered by ascending L2 distance.
func (i *Index) Query(query []float32, k int) ([]int64, []float64, error) {
	if i.tree == nil || len(i.ids) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("cover: query dim %d != index dim %d", len(query), i.dim)
	}
	neighbors := i.tree.KNearestNeighbors(query, k)
	type hit struct {
		id   int64
		dist float64
	}
	hits := make([]hit, len(neighbors))
	for n, nb := range neighbors {
		d, err := vector.L2Distance(query, nb.Point.Vector)
		if err != nil {
			return nil, nil, err
		}
		hits[n] = hit{id: nb.Point.ID, dist: d}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].dist != hits[b].dist {
			return hits[a].dist < hits[b].dist
		}
		return hits[a].id < hits[b].id
	})
	ids := make([]int64, len(hits))
	dists := make([]float64, len(hits))
	for n, h := range hits {
		ids[n], dists[n] = h.id, h.dist
	}
	return ids, dists, nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return len(i.ids) }

// Dimension returns the vector dimension.
func (i *Index) Dimension() int { return i.dim }

// MarshalBinary stores the raw entries; the tree is rebuilt on load.
func (i *Index) MarshalBinary() ([]byte, error) { return index.Encode(i.ids, i.vecs) }

// UnmarshalBinary decodes the shared index format and rebuilds the tree.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, vecs, err := index.Decode(data)
	if err != nil {
		return fmt.Errorf("cover: %w", err)
	}
	return i.Build(ids, vecs)
}
