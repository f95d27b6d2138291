package tree

// Neighbor describes a candidate returned by a kNN search.
type Neighbor struct {
	Point    *Point
	Distance float32
}

// neighbors is a max-heap on distance; the root is the current worst hit.
type neighbors []Neighbor

func (h neighbors) Len() int { return len(h) }
func (h neighbors) Less(i, j int) bool {
	if h[i].Distance != h[j].Distance {
		return h[i].Distance > h[j].Distance
	}
	return h[i].Point.ID > h[j].Point.ID
}
func (h neighbors) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *neighbors) Push(x interface{}) { *h = append(*h, x.(Neighbor)) }

func (h *neighbors) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
