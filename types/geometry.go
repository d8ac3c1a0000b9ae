package types

import "fmt"

// Geometry numbering follows the legacy Gmsh element types, decremented by one
type Geometry uint8

const (
	LINE Geometry = iota
	TRI
	QUAD
	TET
	HEX
	PRISM
	PYR
)

// NodesPerGeometry is the number of corner nodes of each geometry, indexed by Geometry
var NodesPerGeometry = [...]int{2, 3, 4, 4, 8, 6, 5}

var geometryNames = [...]string{"Line", "Tri", "Quad", "Tet", "Hex", "Prism", "Pyramid"}

// Local corner lists for each face, oriented so the face map's normal points outward
var (
	lineFaces = [][]int{{0}, {1}}
	triFaces  = [][]int{{0, 1}, {1, 2}, {2, 0}}
	quadFaces = [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	hexFaces  = [][]int{
		{0, 3, 2, 1}, // z = -1
		{0, 1, 5, 4}, // y = -1
		{1, 2, 6, 5}, // x = 1
		{2, 3, 7, 6}, // y = 1
		{3, 0, 4, 7}, // x = -1
		{4, 5, 6, 7}, // z = 1
	}
)

func (g Geometry) String() string {
	if int(g) < len(geometryNames) {
		return geometryNames[g]
	}
	return fmt.Sprintf("Geometry(%d)", g)
}

func (g Geometry) Dim() int {
	switch g {
	case LINE:
		return 1
	case TRI, QUAD:
		return 2
	case TET, HEX, PRISM, PYR:
		return 3
	}
	panic(fmt.Errorf("geometry %v not defined", g))
}

func (g Geometry) NumCorners() int {
	if int(g) >= len(NodesPerGeometry) {
		panic(fmt.Errorf("geometry %v not defined", g))
	}
	return NodesPerGeometry[g]
}

func (g Geometry) NumFaces() int {
	return len(g.FaceCorners())
}

// FaceCorners returns the local corner indices of each face
func (g Geometry) FaceCorners() [][]int {
	switch g {
	case LINE:
		return lineFaces
	case TRI:
		return triFaces
	case QUAD:
		return quadFaces
	case HEX:
		return hexFaces
	}
	panic(fmt.Errorf("faces for geometry %v not defined", g))
}

func (g Geometry) FaceGeometry() Geometry {
	switch g {
	case TRI, QUAD:
		return LINE
	case HEX:
		return QUAD
	}
	panic(fmt.Errorf("face geometry for %v not defined", g))
}
