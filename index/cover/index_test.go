package cover

import (
	"math/rand"
	"testing"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index/bruteforce"
)

func randomVectors(rng *rand.Rand, n, dim int) ([]int64, [][]float32) {
	ids := make([]int64, n)
	vecs := make([][]float32, n)
	for i := range vecs {
		ids[i] = int64(i)
		vecs[i] = make([]float32, dim)
		for j := range vecs[i] {
			vecs[i][j] = rng.Float32()
		}
	}
	return ids, vecs
}

func TestCoverMatchesBruteforce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids, vecs := randomVectors(rng, 300, 16)

	cv := New(WithBase(1.5))
	if err := cv.Build(ids, vecs); err != nil {
		t.Fatalf("cover Build failed: %v", err)
	}
	bf := &bruteforce.Index{}
	if err := bf.Build(ids, vecs); err != nil {
		t.Fatalf("bruteforce Build failed: %v", err)
	}
	for q := 0; q < 10; q++ {
		_, query := randomVectors(rng, 1, 16)
		gotIDs, gotDists, err := cv.Query(query[0], 3)
		if err != nil {
			t.Fatalf("cover Query failed: %v", err)
		}
		wantIDs, wantDists, _ := bf.Query(query[0], 3)
		for n := range wantIDs {
			if gotIDs[n] != wantIDs[n] || gotDists[n] != wantDists[n] {
				t.Fatalf("query %d: cover (%v %v) != brute (%v %v)", q, gotIDs, gotDists, wantIDs, wantDists)
			}
		}
	}
}

func TestCoverSelfRetrievalAfterReload(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	ids, vecs := randomVectors(rng, 50, 4)
	cv := New()
	if err := cv.Build(ids, vecs); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	data, err := cv.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	restored := New()
	if err := restored.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if restored.Len() != 50 || restored.Dimension() != 4 {
		t.Fatalf("restored Len=%d Dimension=%d", restored.Len(), restored.Dimension())
	}
	for i, v := range vecs {
		got, dists, err := restored.Query(v, 1)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if got[0] != int64(i) || dists[0] != 0 {
			t.Fatalf("self query %d = %v %v", i, got, dists)
		}
	}
}

func TestCoverEmpty(t *testing.T) {
	cv := New()
	if err := cv.Build(nil, nil); err != nil {
		t.Fatalf("Build(empty) failed: %v", err)
	}
	ids, _, err := cv.Query([]float32{1}, 1)
	if err != nil || ids != nil {
		t.Fatalf("Query(empty) = %v, %v", ids, err)
	}
}
