// Package vecstore is the dual index store behind recipe retrieval. It
// holds the parsed recipes together with two exact L2 indices, one over
// weakness-id embeddings and one over full-content embeddings, and keeps
// them in a single SQLite snapshot so a restart does not re-encode the
// corpus.
//
// A Store is built once (snapshot load, or parse+encode+index when no
// snapshot exists) and is read-only afterwards; Rebuild replaces the whole
// state atomically on disk and in memory.
package vecstore
