package bruteforce

import (
	"fmt"
	"sort"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vector"
)

// Index is an exact brute-force L2 index.
type Index struct {
	ids  []int64
	vecs [][]float32
	dim  int
}

var _ index.Index = (*Index)(nil)

// Build loads ids and vectors.
func (i *Index) Build(ids []int64, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("bruteforce: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	if len(ids) == 0 {
		i.ids, i.vecs, i.dim = nil, nil, 0
		return nil
	}
	dim := len(vectors[0])
	for j := range vectors {
		if len(vectors[j]) != dim {
			return fmt.Errorf("bruteforce: inconsistent vector dims %d vs %d", len(vectors[j]), dim)
		}
	}
	i.ids = append([]int64(nil), ids...)
	i.vecs = append([][]float32(nil), vectors...)
	i.dim = dim
	return nil
}

// Query returns the k nearest entries by L2 distance.
func (i *Index) Query(query []float32, k int) ([]int64, []float64, error) {
	if len(i.vecs) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("bruteforce: query dim %d != index dim %d", len(query), i.dim)
	}
	type scored struct {
		id   int64
		dist float64
	}
	scoreds := make([]scored, len(i.vecs))
	for j := range i.vecs {
		d, err := vector.L2Distance(query, i.vecs[j])
		if err != nil {
			return nil, nil, err
		}
		scoreds[j] = scored{id: i.ids[j], dist: d}
	}
	sort.Slice(scoreds, func(a, b int) bool {
		if scoreds[a].dist != scoreds[b].dist {
			return scoreds[a].dist < scoreds[b].dist
		}
		return scoreds[a].id < scoreds[b].id
	})
	if k <= 0 || k > len(scoreds) {
		k = len(scoreds)
	}
	outIDs := make([]int64, k)
	outDists := make([]float64, k)
	for n := 0; n < k; n++ {
		outIDs[n] = scoreds[n].id
		outDists[n] = scoreds[n].dist
	}
	return outIDs, outDists, nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return len(i.ids) }

// Dimension returns the vector dimension.
func (i *Index) Dimension() int { return i.dim }

// MarshalBinary stores the index in the shared index format.
func (i *Index) MarshalBinary() ([]byte, error) { return index.Encode(i.ids, i.vecs) }

// UnmarshalBinary restores the index from bytes.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, vecs, err := index.Decode(data)
	if err != nil {
		return fmt.Errorf("bruteforce: %w", err)
	}
	return i.Build(ids, vecs)
}
