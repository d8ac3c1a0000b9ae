package types

import (
	"fmt"
	"math"
)

/*
EdgeKey stores the two node indices of an edge in ascending order, packed into one integer.
The edge [4,0] and the edge [0,4] share one key.
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeKey(i1 + i2<<32)
	return
}

func (ek EdgeKey) GetVertices() (verts [2]int) {
	hi := ek >> 32
	verts[1] = int(hi)
	verts[0] = int(ek - hi<<32)
	return
}
