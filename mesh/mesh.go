package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/gofem/types"
)

// MeshNode is a geometric node of the mesh
type MeshNode struct {
	ID       int
	X        types.Point
	BC       types.BCType
	Elements []int // ids of the elements using this node, ascending
}

// MeshEl is one mesh element: its corner node ids in Gmsh order, its
// material tags and the element across each face, -1 on a physical boundary
type MeshEl struct {
	ID        int
	Geom      types.Geometry
	Nodes     []int
	Tags      []int
	Neighbors []int
}

func (el MeshEl) NumNodes() int { return len(el.Nodes) }

// Tag returns the first material tag, or zero for an untagged element
func (el MeshEl) Tag() int {
	if len(el.Tags) == 0 {
		return 0
	}
	return el.Tags[0]
}

// FaceNodes returns the mesh node ids of face f
func (el MeshEl) FaceNodes(f int) (nodes []int) {
	fc := el.Geom.FaceCorners()[f]
	nodes = make([]int, len(fc))
	for i, c := range fc {
		nodes[i] = el.Nodes[c]
	}
	return
}

type Mesh struct {
	Dim    int
	Nodes  []MeshNode
	Els    []MeshEl
	BdrEls []MeshEl // boundary faces carried as lower dimensional elements
}

// NewMesh takes ownership of normalized node and element lists and derives adjacency
func NewMesh(dim int, nodes []MeshNode, els, bdrEls []MeshEl) (m *Mesh) {
	m = &Mesh{
		Dim:    dim,
		Nodes:  nodes,
		Els:    els,
		BdrEls: bdrEls,
	}
	for i := range m.Nodes {
		if m.Nodes[i].ID != i {
			panic(fmt.Errorf("node %d carries id %d, node ids must be 0 based and contiguous",
				i, m.Nodes[i].ID))
		}
	}
	for e := range m.Els {
		el := &m.Els[e]
		el.ID = e
		if el.Geom.Dim() != dim {
			panic(fmt.Errorf("element %d is a %v in a %dD mesh", e, el.Geom, dim))
		}
		if len(el.Nodes) != el.Geom.NumCorners() {
			panic(fmt.Errorf("element %d: %v needs %d nodes, have %d",
				e, el.Geom, el.Geom.NumCorners(), len(el.Nodes)))
		}
		for _, n := range el.Nodes {
			if n < 0 || n >= len(m.Nodes) {
				panic(fmt.Errorf("element %d references node %d, have %d nodes",
					e, n, len(m.Nodes)))
			}
		}
	}
	for b := range m.BdrEls {
		m.BdrEls[b].ID = b
	}
	m.buildNodeElements()
	m.FindNeighbors()
	return
}

func (m *Mesh) NumNodes() int    { return len(m.Nodes) }
func (m *Mesh) NumEls() int      { return len(m.Els) }
func (m *Mesh) NumBdrEls() int   { return len(m.BdrEls) }
func (m *Mesh) El(e int) *MeshEl { return &m.Els[e] }

// ElementNodes returns copies of the MeshNodes of element e in element order
func (m *Mesh) ElementNodes(e int) (nodes []MeshNode) {
	el := m.Els[e]
	nodes = make([]MeshNode, len(el.Nodes))
	for i, n := range el.Nodes {
		nodes[i] = m.Nodes[n]
	}
	return
}

func (m *Mesh) ElementCorners(e int) (pts []types.Point) {
	el := m.Els[e]
	pts = make([]types.Point, len(el.Nodes))
	for i, n := range el.Nodes {
		pts[i] = m.Nodes[n].X
	}
	return
}

func (m *Mesh) buildNodeElements() {
	for i := range m.Nodes {
		m.Nodes[i].Elements = m.Nodes[i].Elements[:0]
	}
	for e, el := range m.Els {
		for _, n := range el.Nodes {
			m.Nodes[n].Elements = append(m.Nodes[n].Elements, e)
		}
	}
}

// FindNeighbors sets the neighbor across every face: the owning element sets
// of all the face's nodes are intersected, exactly two survivors make an
// interior face, anything else is a physical boundary
func (m *Mesh) FindNeighbors() {
	for e := range m.Els {
		el := &m.Els[e]
		nf := el.Geom.NumFaces()
		el.Neighbors = make([]int, nf)
		for f := 0; f < nf; f++ {
			el.Neighbors[f] = -1
			shared := m.sharedElements(el.FaceNodes(f))
			if len(shared) == 2 {
				if shared[0] == e {
					el.Neighbors[f] = shared[1]
				} else {
					el.Neighbors[f] = shared[0]
				}
			}
		}
	}
}

func (m *Mesh) sharedElements(nodes []int) (shared []int) {
	shared = append(shared, m.Nodes[nodes[0]].Elements...)
	for _, n := range nodes[1:] {
		shared = intersect(shared, m.Nodes[n].Elements)
	}
	return
}

// intersect returns the common entries of two ascending lists
func intersect(a, b []int) (r []int) {
	var i, j int
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			r = append(r, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return
}

// IsBoundaryFace reports whether face f of element e lies on the physical boundary
func (m *Mesh) IsBoundaryFace(e, f int) bool {
	return m.Els[e].Neighbors[f] == -1
}

// NeighborFace returns the local face index of element e as seen from its neighbor across face f
func (m *Mesh) NeighborFace(e, f int) (nf int) {
	var (
		nb = m.Els[e].Neighbors[f]
	)
	if nb < 0 {
		return -1
	}
	for i, k := range m.Els[nb].Neighbors {
		if k == e && sameNodes(m.Els[nb].FaceNodes(i), m.Els[e].FaceNodes(f)) {
			return i
		}
	}
	return -1
}

func sameNodes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := append([]int{}, a...), append([]int{}, b...)
	sort.Ints(as)
	sort.Ints(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// Tags returns the distinct material tags in ascending order
func (m *Mesh) Tags() (tags []int) {
	seen := make(map[int]bool)
	for _, el := range m.Els {
		if t := el.Tag(); !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	sort.Ints(tags)
	return
}

// Bounds returns the low and high corners of the node bounding box
func (m *Mesh) Bounds() (low, high types.Point) {
	if len(m.Nodes) == 0 {
		return
	}
	low, high = m.Nodes[0].X, m.Nodes[0].X
	for _, n := range m.Nodes[1:] {
		for d := 0; d < 3; d++ {
			if n.X[d] < low[d] {
				low[d] = n.X[d]
			}
			if n.X[d] > high[d] {
				high[d] = n.X[d]
			}
		}
	}
	return
}
