// Package cover adapts the internal cover tree to the index.Index interface.
// Distances returned to callers are recomputed in float64 so a cover index
// and a brute-force index over the same vectors report identical values.
package cover
