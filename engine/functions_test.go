package engine

import (
	"encoding/binary"
	"math"
	"testing"
)

func blob(v ...float32) []byte {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}

func TestRegisterVectorFunctionsAndUse(t *testing.T) {
	if err := RegisterVectorFunctions(); err != nil {
		t.Fatalf("RegisterVectorFunctions failed: %v", err)
	}
	if err := RegisterVectorFunctions(); err != nil {
		t.Fatalf("second RegisterVectorFunctions failed: %v", err)
	}
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	var dist float64
	if err := db.QueryRow(`SELECT vec_l2(?, ?)`, blob(0, 0), blob(3, 4)).Scan(&dist); err != nil {
		t.Fatalf("vec_l2 query failed: %v", err)
	}
	if math.Abs(dist-5) > 1e-6 {
		t.Fatalf("vec_l2 = %v, want 5", dist)
	}

	if err := db.QueryRow(`SELECT vec_l2(?, ?)`, blob(1, 2, 3), blob(1, 2, 3)).Scan(&dist); err != nil {
		t.Fatalf("vec_l2 self query failed: %v", err)
	}
	if dist != 0 {
		t.Fatalf("vec_l2(self) = %v, want 0", dist)
	}

	var sim float64
	if err := db.QueryRow(`SELECT vec_cosine(?, ?)`, blob(1, 0), blob(0, 1)).Scan(&sim); err != nil {
		t.Fatalf("vec_cosine query failed: %v", err)
	}
	if math.Abs(sim) > 1e-6 {
		t.Fatalf("vec_cosine(orthogonal) = %v, want 0", sim)
	}

	var dim int64
	if err := db.QueryRow(`SELECT vec_dim(?)`, blob(1, 2, 3, 4)).Scan(&dim); err != nil {
		t.Fatalf("vec_dim query failed: %v", err)
	}
	if dim != 4 {
		t.Fatalf("vec_dim = %d, want 4", dim)
	}

	if _, err := db.Exec(`SELECT vec_l2(?, ?)`, blob(1, 2), blob(1, 2, 3)); err == nil {
		t.Fatalf("expected dim mismatch error")
	}
}

func TestVecCosine(t *testing.T) {
	if err := RegisterVectorFunctions(); err != nil {
		t.Fatalf("RegisterVectorFunctions failed: %v", err)
	}
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	testCases := []struct {
		description string
		a, b        []byte
		want        float64
	}{
		{description: "identical", a: blob(1, 2, 3), b: blob(1, 2, 3), want: 1},
		{description: "scaled", a: blob(1, 1), b: blob(4, 4), want: 1},
		{description: "opposite", a: blob(1, 0), b: blob(-2, 0), want: -1},
		{description: "orthogonal", a: blob(0, 3), b: blob(5, 0), want: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			var sim float64
			if err := db.QueryRow(`SELECT vec_cosine(?, ?)`, tc.a, tc.b).Scan(&sim); err != nil {
				t.Fatalf("vec_cosine query failed: %v", err)
			}
			if math.Abs(sim-tc.want) > 1e-5 {
				t.Fatalf("vec_cosine = %v, want %v", sim, tc.want)
			}
		})
	}

	if _, err := db.Exec(`SELECT vec_cosine(?, ?)`, blob(0, 0), blob(1, 0)); err == nil {
		t.Fatalf("expected zero-magnitude error")
	}
}

func TestDecodeEmbeddingInvalid(t *testing.T) {
	if _, err := decodeEmbedding([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for 3-byte blob")
	}
}
