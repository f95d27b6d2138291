// Package vecadmin provides offline maintenance for store snapshots:
// inspecting headers, verifying that both indices answer self-queries
// consistently with a SQL scan of the stored embeddings, and replacing a
// snapshot with a forced rebuild from the corpus.
package vecadmin
