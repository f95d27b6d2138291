// Package vec implements the recipe_knn SQLite virtual table, which exposes
// the nearest-neighbour indices of a store snapshot to SQL.
//
// Bind registers a module instance with a Lookup that resolves index names
// (weakness, full_text) to loaded indices and returns a connection on which
// temp.knn exists:
//
//	conn, err := vec.Bind(ctx, db, vec.Indexes{"weakness": idx}.Lookup)
//	...
//	SELECT doc_id, distance FROM temp.knn
//	 WHERE index_name = 'weakness' AND doc_id MATCH ? AND k = 3;
//
// The MATCH argument is a query embedding: a little-endian float32 BLOB, a
// base64 string of one, or a JSON / comma-separated float list. Without a k
// constraint every indexed document is returned. Rows come back ascending by
// distance.
package vec
