package tree

import "math"

type node struct {
	level     int32
	baseLevel float32
	point     *Point
	children  []node
	radius    float32
}

func newNode(point *Point, level int32, base float32) node {
	return node{
		level:     level,
		baseLevel: float32(math.Pow(float64(base), float64(level))),
		point:     point,
	}
}
