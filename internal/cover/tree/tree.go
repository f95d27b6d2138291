package tree

// Adapted from github.com/viant/gds/tree/cover, reduced to Euclidean
// distance with exact per-node radius pruning.

import (
	"container/heap"
	"math"
	"sort"
	"sync"
)

// pruneSlack absorbs float32 rounding in the triangle-inequality bound.
const pruneSlack = 1e-4

// Tree is a cover tree answering exact Euclidean kNN queries.
type Tree struct {
	root  *node
	base  float32
	size  int
	dirty bool
	mu    sync.RWMutex
}

// New constructs a cover tree with the provided base; base <= 1 selects 1.3.
func New(base float32) *Tree {
	if base <= 1 {
		base = 1.3
	}
	return &Tree{base: base}
}

// Len returns the number of inserted points.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// Insert adds point to the tree.
func (t *Tree) Insert(point *Point) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root == nil {
		n := newNode(point, 0, t.base)
		t.root = &n
	} else {
		t.insert(t.root, point, 0)
	}
	t.size++
	t.dirty = true
}

func (t *Tree) insert(n *node, point *Point, level int32) {
	for {
		baseLevel := float32(math.Pow(float64(t.base), float64(level)))
		if distance(point, n.point) < baseLevel {
			descended := false
			for i := range n.children {
				child := &n.children[i]
				if distance(point, child.point) < baseLevel {
					n = child
					level--
					descended = true
					break
				}
			}
			if !descended {
				n.children = append(n.children, newNode(point, level-1, t.base))
				return
			}
		} else {
			level++
			if level > n.level {
				newRoot := newNode(point, level, t.base)
				newRoot.children = append(newRoot.children, *t.root)
				t.root = &newRoot
				return
			}
		}
	}
}

// KNearestNeighbors returns up to k points nearest to query, ascending by
// distance with ties ordered by id. k <= 0 returns every point.
func (t *Tree) KNearestNeighbors(query []float32, k int) []Neighbor {
	t.seal()
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.root == nil {
		return nil
	}
	if k <= 0 || k > t.size {
		k = t.size
	}
	q := &Point{ID: -1, Vector: query}
	h := &neighbors{}
	t.search(t.root, q, k, h)
	result := make([]Neighbor, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(h).(Neighbor)
	}
	return result
}

// seal recomputes subtree radii after inserts so searches can prune
// without mutating the tree.
func (t *Tree) seal() {
	t.mu.RLock()
	dirty := t.dirty
	t.mu.RUnlock()
	if !dirty {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dirty && t.root != nil {
		computeRadius(t.root)
	}
	t.dirty = false
}

// computeRadius sets n.radius to an upper bound on the distance from n to
// any descendant.
func computeRadius(n *node) float32 {
	var r float32
	for i := range n.children {
		child := &n.children[i]
		d := distance(n.point, child.point) + computeRadius(child)
		if d > r {
			r = d
		}
	}
	n.radius = r
	return r
}

func (t *Tree) search(n *node, q *Point, k int, h *neighbors) {
	dc := distance(q, n.point)
	candidate := Neighbor{Point: n.point, Distance: dc}
	if h.Len() < k {
		heap.Push(h, candidate)
	} else if worse(h, candidate) {
		heap.Pop(h)
		heap.Push(h, candidate)
	}
	if len(n.children) == 0 {
		return
	}
	type childDist struct {
		child *node
		dist  float32
	}
	cds := make([]childDist, 0, len(n.children))
	for i := range n.children {
		child := &n.children[i]
		cds = append(cds, childDist{child: child, dist: distance(q, child.point)})
	}
	sort.Slice(cds, func(i, j int) bool { return cds[i].dist < cds[j].dist })
	for _, cd := range cds {
		if h.Len() == k && cd.dist-cd.child.radius > (*h)[0].Distance+pruneSlack {
			continue
		}
		t.search(cd.child, q, k, h)
	}
}

// worse reports whether the heap root ranks after candidate.
func worse(h *neighbors, candidate Neighbor) bool {
	top := (*h)[0]
	if candidate.Distance != top.Distance {
		return candidate.Distance < top.Distance
	}
	return candidate.Point.ID < top.Point.ID
}
