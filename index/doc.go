// Package index defines the exact Euclidean kNN index abstraction shared by
// the weakness and full-text indices, and the binary format both
// implementations persist in the snapshot vector_storage table.
package index
