package fem

import (
	"fmt"

	"github.com/notargets/gofem/types"
)

/*
FaceTransformations bundles what a face integral needs: the element and its
neighbor across the face (-1 on the physical boundary), the map from the
face reference element into each side's reference element, and the face's
physical map. Quadrature points are given in the reference coordinates of
the element's own face.
*/
type FaceTransformations struct {
	Elem         int
	Neighbor     int
	Face         int
	NeighborFace int
	ElemRef      *ElTrans
	NeighborRef  *ElTrans
	Phys         *ElTrans
	// perm[i] is the neighbor face corner matching corner i of this face
	perm []int
}

func (ft *FaceTransformations) Geometry() types.Geometry { return ft.Phys.Geometry() }
func (ft *FaceTransformations) IsBoundary() bool         { return ft.Neighbor < 0 }

// ElemPoint maps a face reference point into the element's reference coordinates
func (ft *FaceTransformations) ElemPoint(xi types.Point) types.Point {
	return ft.ElemRef.Transform(xi)
}

// NeighborPoint maps a face reference point into the neighbor's reference
// coordinates, accounting for the opposite orientation of the shared face
func (ft *FaceTransformations) NeighborPoint(xi types.Point) (x types.Point) {
	if ft.IsBoundary() {
		panic(fmt.Errorf("face %d of element %d has no neighbor", ft.Face, ft.Elem))
	}
	var (
		fg    = ft.Geometry()
		shape = GeometricBasis(fg).CalcShape(xi).Data()
		refC  = RefCorners(fg)
		eta   types.Point
	)
	for i, s := range shape {
		eta = eta.Add(refC[ft.perm[i]].Scale(s))
	}
	return ft.NeighborRef.Transform(eta)
}

// cornerPermutation matches the mesh node ids of two views of the same face
func cornerPermutation(mine, theirs []int) (perm []int, err error) {
	if len(mine) != len(theirs) {
		err = fmt.Errorf("faces with %d and %d corners can not match", len(mine), len(theirs))
		return
	}
	perm = make([]int, len(mine))
	for i, a := range mine {
		perm[i] = -1
		for j, b := range theirs {
			if a == b {
				perm[i] = j
				break
			}
		}
		if perm[i] < 0 {
			err = fmt.Errorf("face corner %d not found on the neighboring face", a)
			return
		}
	}
	return
}
