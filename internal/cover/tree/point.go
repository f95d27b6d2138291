package tree

import "github.com/viant/vec/search"

// Point is an indexed vector and the document id it belongs to.
type Point struct {
	ID     int64
	Vector []float32
}

// NewPoint constructs a point for the given id and vector.
func NewPoint(id int64, vector []float32) *Point {
	return &Point{ID: id, Vector: vector}
}

func distance(p1, p2 *Point) float32 {
	return search.Float32s(p1.Vector).EuclideanDistance(p2.Vector)
}
