package fem

import (
	"fmt"
	"io"
	"math"

	"github.com/notargets/gofem/mesh"
	"github.com/notargets/gofem/quadrature"
	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

type ElementType uint8

const (
	LagrangeLine ElementType = iota
	LagrangeTri
	LagrangeQuad
	LagrangeHex
	L2Segment
	L2Quad
)

var elementTypeNames = [...]string{
	"LagrangeLine", "LagrangeTri", "LagrangeQuad", "LagrangeHex", "L2Segment", "L2Quad"}

func (et ElementType) String() string {
	if int(et) < len(elementTypeNames) {
		return elementTypeNames[et]
	}
	return fmt.Sprintf("ElementType(%d)", et)
}

func (et ElementType) Geometry() types.Geometry {
	switch et {
	case LagrangeLine, L2Segment:
		return types.LINE
	case LagrangeTri:
		return types.TRI
	case LagrangeQuad, L2Quad:
		return types.QUAD
	case LagrangeHex:
		return types.HEX
	}
	panic(fmt.Errorf("unknown element type %d", et))
}

// Orders implemented for each element type, inclusive
var orderRange = map[ElementType][2]int{
	LagrangeLine: {1, 6},
	LagrangeTri:  {1, 1},
	LagrangeQuad: {1, 4},
	LagrangeHex:  {1, 2},
	L2Segment:    {0, 2},
	L2Quad:       {0, 2},
}

func (et ElementType) Supports(order int) bool {
	r, ok := orderRange[et]
	return ok && order >= r[0] && order <= r[1]
}

/*
Element is one finite element: its nodes, the basis evaluated on them, the
geometric map to physical space and, for 2D and 3D elements, an order one
reference and physical transformation for every face. Elements are built and
owned by an FESpace.
*/
type Element struct {
	ID        int
	Type      ElementType
	Geom      types.Geometry
	Tag       int
	Nodes     []Node
	GeoNodes  []mesh.MeshNode
	Neighbors []int // neighbor element across each face, -1 on the physical boundary
	order     int
	mdim      int
	basis     Basis
	trans     *ElTrans
	faceRef   []*ElTrans
	facePhys  []*ElTrans
	volume    float64
	nodeLoc   utils.Matrix
}

// NewElement builds an element of type typ on the corners in geoNodes
func NewElement(typ ElementType, geoNodes []mesh.MeshNode, order, mdim int) (el *Element, err error) {
	var (
		geom = typ.Geometry()
	)
	if !typ.Supports(order) {
		err = fmt.Errorf("order %d not supported by %v elements", order, typ)
		return
	}
	if len(geoNodes) != geom.NumCorners() {
		err = fmt.Errorf("%v element needs %d corners, have %d", typ, geom.NumCorners(), len(geoNodes))
		return
	}
	if mdim < geom.Dim() || mdim > 3 {
		err = fmt.Errorf("%v element can not live in %d dimensions", typ, mdim)
		return
	}
	corners := make([]types.Point, len(geoNodes))
	for i, gn := range geoNodes {
		corners[i] = gn.X
	}
	el = &Element{
		Type:     typ,
		Geom:     geom,
		GeoNodes: geoNodes,
		order:    order,
		mdim:     mdim,
		volume:   -1,
		trans:    NewElTrans(GeometricBasis(geom), corners, mdim),
	}
	switch typ {
	case LagrangeLine, L2Segment:
		el.basis = NewTensorBasis(geom, order, LineIndex(order))
	case LagrangeTri:
		el.basis = TriBasis{}
	case LagrangeQuad, L2Quad:
		el.basis = NewTensorBasis(geom, order, QuadIndex(order))
	case LagrangeHex:
		el.basis = NewTensorBasis(geom, order, HexIndex(order))
	}
	el.buildNodes()
	el.Neighbors = make([]int, geom.NumFaces())
	for f := range el.Neighbors {
		el.Neighbors[f] = -1
	}
	if geom.Dim() > 1 {
		el.buildFaces(corners)
	}
	return
}

// buildNodes places every basis node through the geometric map. A node
// inherits the boundary tag shared by all corners of the edge or face it
// lies on, nodes inside the cell are interior.
func (el *Element) buildNodes() {
	var (
		N    = el.basis.NumNodes()
		refC = RefCorners(el.Geom)
	)
	el.Nodes = make([]Node, N)
	for i := 0; i < N; i++ {
		r := el.basis.RefNode(i)
		el.Nodes[i] = NewNode(el.trans.Transform(r), i, el.nodeBC(r, refC))
	}
}

func (el *Element) nodeBC(r types.Point, refC []types.Point) (bc types.BCType) {
	var (
		dim   = el.Geom.Dim()
		first = true
	)
	for c, rc := range refC {
		if !onEntityOf(r, rc, dim, el.Geom) {
			continue
		}
		cbc := el.GeoNodes[c].BC
		if first {
			bc, first = cbc, false
		} else if cbc != bc {
			return types.INTERIOR
		}
	}
	if first {
		return types.INTERIOR
	}
	return
}

// onEntityOf reports whether reference point r lies on a boundary entity of
// the reference element that contains corner rc
func onEntityOf(r, rc types.Point, dim int, geom types.Geometry) bool {
	const tol = 1.e-12
	if geom == types.TRI {
		// linear triangles only carry corner nodes
		return r.Equal(rc)
	}
	fixed := false
	for d := 0; d < dim; d++ {
		if math.Abs(math.Abs(r[d])-1) < tol {
			fixed = true
			if math.Abs(r[d]-rc[d]) > tol {
				return false
			}
		}
	}
	return fixed
}

func (el *Element) buildFaces(corners []types.Point) {
	var (
		fg   = el.Geom.FaceGeometry()
		fb   = GeometricBasis(fg)
		refC = RefCorners(el.Geom)
		fcs  = el.Geom.FaceCorners()
	)
	el.faceRef = make([]*ElTrans, len(fcs))
	el.facePhys = make([]*ElTrans, len(fcs))
	for f, fc := range fcs {
		ref := make([]types.Point, len(fc))
		phys := make([]types.Point, len(fc))
		for i, c := range fc {
			ref[i] = refC[c]
			phys[i] = corners[c]
		}
		el.faceRef[f] = NewElTrans(fb, ref, el.Geom.Dim())
		el.facePhys[f] = NewElTrans(fb, phys, el.mdim)
	}
}

func (el *Element) Order() int             { return el.order }
func (el *Element) Dim() int               { return el.Geom.Dim() }
func (el *Element) MeshDim() int           { return el.mdim }
func (el *Element) NumNodes() int          { return len(el.Nodes) }
func (el *Element) NumFaces() int          { return len(el.Neighbors) }
func (el *Element) Basis() Basis           { return el.basis }
func (el *Element) Trans() *ElTrans        { return el.trans }
func (el *Element) NodeGlobalID(i int) int { return el.Nodes[i].GlobalID }
func (el *Element) Neighbor(f int) int     { return el.Neighbors[f] }
func (el *Element) FaceRefTrans(f int) *ElTrans {
	el.checkFaces()
	return el.faceRef[f]
}
func (el *Element) FaceTrans(f int) *ElTrans {
	el.checkFaces()
	return el.facePhys[f]
}

func (el *Element) checkFaces() {
	if el.faceRef == nil {
		panic(fmt.Errorf("%v element %d has no face transformations", el.Type, el.ID))
	}
}

// FindNeighbor returns the face shared with element e, or -1
func (el *Element) FindNeighbor(e int) int {
	for f, nb := range el.Neighbors {
		if nb == e {
			return f
		}
	}
	return -1
}

func (el *Element) IsBoundary() bool {
	for _, n := range el.Nodes {
		if n.BC != types.INTERIOR {
			return true
		}
	}
	return false
}

func (el *Element) CalcShape(x types.Point) utils.Vector     { return el.basis.CalcShape(x) }
func (el *Element) CalcGradShape(x types.Point) utils.Matrix { return el.basis.CalcGradShape(x) }

// CalcPhysGradShape maps the reference gradients at the transformation's
// current point to physical space
func (el *Element) CalcPhysGradShape(trans *ElTrans) utils.Matrix {
	return trans.InverseJacobian().Mul(el.basis.CalcGradShape(trans.GetX()))
}

// NodeLocationMatrix is NumNodes x MeshDim
func (el *Element) NodeLocationMatrix() utils.Matrix {
	if el.nodeLoc.IsEmpty() {
		el.nodeLoc = utils.NewMatrix(el.NumNodes(), el.mdim)
		for i, n := range el.Nodes {
			for d := 0; d < el.mdim; d++ {
				el.nodeLoc.Set(i, d, n.X[d])
			}
		}
		el.nodeLoc.SetReadOnly("node locations")
	}
	return el.nodeLoc
}

func (el *Element) checkRule(rule *quadrature.Rule) {
	if rule.Geom != el.Geom {
		panic(fmt.Errorf("%v rule used on a %v element", rule.Geom, el.Geom))
	}
}

// Integrate returns the integral of the field u, indexed by global id
func (el *Element) Integrate(u utils.Vector, rule *quadrature.Rule) (sum float64) {
	el.checkRule(rule)
	for q, x := range rule.Points {
		el.trans.SetX(x)
		sum += el.Interpolate(u, x) * rule.Weights[q] * el.trans.Weight()
	}
	return
}

// Volume is computed once and cached
func (el *Element) Volume(rule *quadrature.Rule) float64 {
	if el.volume >= 0 {
		return el.volume
	}
	el.checkRule(rule)
	var vol float64
	for q, x := range rule.Points {
		el.trans.SetX(x)
		vol += rule.Weights[q] * el.trans.Weight()
	}
	el.volume = vol
	return vol
}

// Centroid is the physical image of the node average in reference space
func (el *Element) Centroid() types.Point {
	var c types.Point
	for i := 0; i < el.NumNodes(); i++ {
		c = c.Add(el.basis.RefNode(i))
	}
	return el.trans.Transform(c.Scale(1. / float64(el.NumNodes())))
}

func (el *Element) Interpolate(u utils.Vector, x types.Point) (val float64) {
	shape := el.CalcShape(x).Data()
	for i, s := range shape {
		val += s * u.At(el.NodeGlobalID(i))
	}
	return
}

// InterpolateGradient sets the transformation to x and returns the physical gradient of u
func (el *Element) InterpolateGradient(u utils.Vector, x types.Point) (grad utils.Vector) {
	el.trans.SetX(x)
	pg := el.CalcPhysGradShape(el.trans)
	local := utils.NewVector(el.NumNodes())
	for i := range el.Nodes {
		local.Set(i, u.At(el.NodeGlobalID(i)))
	}
	return pg.MulVec(local)
}

// EnergyNorm integrates u^2 + grad(u).grad(u) over the element
func (el *Element) EnergyNorm(u utils.Vector, rule *quadrature.Rule) (e float64) {
	el.checkRule(rule)
	for q, x := range rule.Points {
		val := el.Interpolate(u, x)
		grad := el.InterpolateGradient(u, x)
		e += (grad.Dot(grad) + val*val) * rule.Weights[q] * el.trans.Weight()
	}
	if math.IsNaN(e) || math.IsInf(e, 0) {
		panic(fmt.Errorf("non finite energy norm on element %d", el.ID))
	}
	return
}

func (el *Element) Print(w io.Writer) {
	fmt.Fprintf(w, "Element %d:\n", el.ID)
	fmt.Fprintf(w, "\tType = %v\n", el.Type)
	fmt.Fprintf(w, "\tNumber of Nodes = %d\n", el.NumNodes())
	fmt.Fprintf(w, "\tFEM order = %d\n", el.order)
	fmt.Fprintf(w, "\tNode IDs =")
	for _, n := range el.Nodes {
		fmt.Fprintf(w, " %d", n.GlobalID)
	}
	fmt.Fprintf(w, "\n\tNeighbors =")
	for _, nb := range el.Neighbors {
		fmt.Fprintf(w, " %d", nb)
	}
	fmt.Fprintln(w)
}
