// Package vector defines the recipe document model and the SQLite snapshot
// that persists a built store. It includes:
//   - Document and Metadata (weakness id, tags, languages)
//   - L2 distance used by the exact indices
//   - Embedding encoding (little-endian float32 BLOB)
//   - Snapshot schema, atomic write and validated read
package vector
