package types

import (
	"fmt"
	"math"
)

// EQUALTOL is the tolerance used to decide that two coordinates coincide
const EQUALTOL = 1.e-7

// Point is a fixed three component coordinate, problems use the leading 1-3 components
type Point [3]float64

func NewPoint(x ...float64) (p Point) {
	if len(x) > 3 {
		panic(fmt.Errorf("point has at most 3 components, have %d", len(x)))
	}
	copy(p[:], x)
	return
}

func (p Point) Add(q Point) (r Point) {
	for d := range p {
		r[d] = p[d] + q[d]
	}
	return
}

func (p Point) Sub(q Point) (r Point) {
	for d := range p {
		r[d] = p[d] - q[d]
	}
	return
}

func (p Point) Scale(a float64) (r Point) {
	for d := range p {
		r[d] = a * p[d]
	}
	return
}

func (p Point) Dot(q Point) float64 {
	return p[0]*q[0] + p[1]*q[1] + p[2]*q[2]
}

func (p Point) Norm() float64 {
	return math.Sqrt(p.Dot(p))
}

// Equal compares component-wise with EQUALTOL
func (p Point) Equal(q Point) bool {
	for d := range p {
		if math.Abs(p[d]-q[d]) >= EQUALTOL {
			return false
		}
	}
	return true
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p[0], p[1], p[2])
}
