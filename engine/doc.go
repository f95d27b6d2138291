// Package engine owns the modernc.org/sqlite driver used for recipe
// snapshots: opening file or in-memory databases and registering the
// vector SQL functions (vec_l2, vec_cosine, vec_dim) used by snapshot
// verification.
package engine
