// Package embedding turns text into fixed-dimension float32 vectors.
//
// Three encoders are provided: FastEmbed (local ONNX model, requires cgo),
// TEI (a text-embeddings-inference HTTP server) and Hash (deterministic
// feature hashing for offline builds and tests). Every encoder embeds a
// string identically whether it is a document or a query, which is what
// makes exact self-retrieval possible.
package embedding
