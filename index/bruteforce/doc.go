// Package bruteforce provides an exact L2 vector index that answers kNN
// queries by scanning every vector. It is the default for recipe corpora,
// which are small enough that a full scan beats any tree.
package bruteforce
