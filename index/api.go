package index

// Index is an exact L2 nearest-neighbour index over (id, embedding) pairs.
type Index interface {
	// Build replaces the index content. ids and vectors must have the same
	// length and every vector the same dimension.
	Build(ids []int64, vectors [][]float32) error

	// Query returns up to k ids ordered by ascending Euclidean distance, ties
	// broken by ascending id. k <= 0 or k > Len() returns every entry.
	Query(query []float32, k int) (ids []int64, distances []float64, err error)

	// Len is the number of indexed vectors.
	Len() int

	// Dimension is the vector dimension, 0 when empty.
	Dimension() int

	// MarshalBinary serializes the index into a byte slice.
	MarshalBinary() ([]byte, error)

	// UnmarshalBinary reconstructs the index from a serialized byte slice.
	UnmarshalBinary(data []byte) error
}
