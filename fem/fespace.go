package fem

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/notargets/gofem/mesh"
	"github.com/notargets/gofem/quadrature"
	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

type SpaceType uint8

const (
	LAGRANGE SpaceType = iota // continuous, shared nodes merged
	L2                        // discontinuous, every element owns its nodes
)

func (st SpaceType) String() string {
	switch st {
	case LAGRANGE:
		return "Lagrange"
	case L2:
		return "L2"
	}
	return fmt.Sprintf("SpaceType(%d)", st)
}

func NewSpaceType(name string) (st SpaceType, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lagrange", "h1", "continuous":
		st = LAGRANGE
	case "l2", "dg", "discontinuous":
		st = L2
	default:
		err = fmt.Errorf("unknown finite element space %q", name)
	}
	return
}

func (st SpaceType) elementType(geom types.Geometry) (typ ElementType, err error) {
	switch {
	case st == LAGRANGE && geom == types.LINE:
		typ = LagrangeLine
	case st == LAGRANGE && geom == types.TRI:
		typ = LagrangeTri
	case st == LAGRANGE && geom == types.QUAD:
		typ = LagrangeQuad
	case st == LAGRANGE && geom == types.HEX:
		typ = LagrangeHex
	case st == L2 && geom == types.LINE:
		typ = L2Segment
	case st == L2 && geom == types.QUAD:
		typ = L2Quad
	default:
		err = fmt.Errorf("%v space has no element for geometry %v", st, geom)
	}
	return
}

/*
FESpace owns one Element per mesh element and the global node catalog.
Global id g carries the vdim unknowns vdim*g ... vdim*g+vdim-1.
*/
type FESpace struct {
	Mesh     *mesh.Mesh
	Type     SpaceType
	Quad     *quadrature.Cache
	Els      []*Element
	BdrEls   []*Element // elements holding at least one boundary node
	Nodes    []Node     // indexed by global id
	BdrNodes []Node
	order    int
	vdim     int
	vdofs    []utils.Index
	tags     []int
}

func NewLagrangeSpace(m *mesh.Mesh, order, vdim int, qc *quadrature.Cache) (*FESpace, error) {
	return NewFESpace(m, LAGRANGE, order, vdim, qc)
}

func NewL2Space(m *mesh.Mesh, order, vdim int, qc *quadrature.Cache) (*FESpace, error) {
	return NewFESpace(m, L2, order, vdim, qc)
}

func NewFESpace(m *mesh.Mesh, st SpaceType, order, vdim int, qc *quadrature.Cache) (fs *FESpace, err error) {
	if vdim < 1 {
		err = fmt.Errorf("vector dimension must be positive, have %d", vdim)
		return
	}
	if qc == nil {
		qc = quadrature.NewCache()
	}
	fs = &FESpace{
		Mesh:  m,
		Type:  st,
		Quad:  qc,
		order: order,
		vdim:  vdim,
		Els:   make([]*Element, m.NumEls()),
		tags:  m.Tags(),
	}
	if err = fs.buildElements(); err != nil {
		return nil, err
	}
	switch st {
	case LAGRANGE:
		fs.numberShared()
	case L2:
		fs.numberDisjoint()
	}
	for _, n := range fs.Nodes {
		if n.BC != types.INTERIOR {
			fs.BdrNodes = append(fs.BdrNodes, n)
		}
	}
	fs.vdofs = make([]utils.Index, len(fs.Els))
	for e, el := range fs.Els {
		N := el.NumNodes()
		fs.vdofs[e] = utils.NewIndex(vdim * N)
		for d := 0; d < vdim; d++ {
			for i := 0; i < N; i++ {
				fs.vdofs[e][N*d+i] = vdim*el.NodeGlobalID(i) + d
			}
		}
	}
	return
}

func (fs *FESpace) buildElements() (err error) {
	var (
		m    = fs.Mesh
		pm   = utils.NewPartitionMap(utils.DefaultParallelDegree(), m.NumEls())
		errs = make([]error, pm.ParallelDegree)
	)
	pm.Run(func(bn, kMin, kMax int) {
		for e := kMin; e < kMax; e++ {
			mel := m.El(e)
			typ, err := fs.Type.elementType(mel.Geom)
			if err != nil {
				errs[bn] = fmt.Errorf("element %d: %w", e, err)
				return
			}
			el, err := NewElement(typ, m.ElementNodes(e), fs.order, m.Dim)
			if err != nil {
				errs[bn] = fmt.Errorf("element %d: %w", e, err)
				return
			}
			el.ID = e
			el.Tag = mel.Tag()
			copy(el.Neighbors, mel.Neighbors)
			fs.Els[e] = el
		}
	})
	for _, err = range errs {
		if err != nil {
			return
		}
	}
	for _, el := range fs.Els {
		if el.IsBoundary() {
			fs.BdrEls = append(fs.BdrEls, el)
		}
	}
	return
}

// numberShared gives coincident nodes of elements sharing a mesh node one global id.
// Only earlier elements touching one of this element's corners are searched.
func (fs *FESpace) numberShared() {
	var (
		count int
	)
	for e, el := range fs.Els {
		candidates := fs.touching(e)
		for i := range el.Nodes {
			gid := -1
		search:
			for _, c := range candidates {
				for _, other := range fs.Els[c].Nodes {
					if other.Equal(el.Nodes[i]) {
						gid = other.GlobalID
						break search
					}
				}
			}
			if gid < 0 {
				gid = count
				count++
				el.Nodes[i].GlobalID = gid
				fs.Nodes = append(fs.Nodes, el.Nodes[i])
			} else {
				el.Nodes[i].GlobalID = gid
			}
		}
	}
}

// touching returns the elements numbered before e that share a corner with it
func (fs *FESpace) touching(e int) (els []int) {
	seen := make(map[int]bool)
	for _, n := range fs.Mesh.El(e).Nodes {
		for _, c := range fs.Mesh.Nodes[n].Elements {
			if c < e && !seen[c] {
				seen[c] = true
				els = append(els, c)
			}
		}
	}
	sort.Ints(els)
	return
}

func (fs *FESpace) numberDisjoint() {
	for _, el := range fs.Els {
		for i := range el.Nodes {
			el.Nodes[i].GlobalID = len(fs.Nodes)
			fs.Nodes = append(fs.Nodes, el.Nodes[i])
		}
	}
}

func (fs *FESpace) Order() int                 { return fs.order }
func (fs *FESpace) VDim() int                  { return fs.vdim }
func (fs *FESpace) Dim() int                   { return fs.Mesh.Dim }
func (fs *FESpace) NumNodes() int              { return len(fs.Nodes) }
func (fs *FESpace) VSize() int                 { return fs.vdim * len(fs.Nodes) }
func (fs *FESpace) NumEls() int                { return len(fs.Els) }
func (fs *FESpace) El(e int) *Element          { return fs.Els[e] }
func (fs *FESpace) NumBdrEls() int             { return len(fs.BdrEls) }
func (fs *FESpace) BdrEl(i int) *Element       { return fs.BdrEls[i] }
func (fs *FESpace) Node(g int) Node            { return fs.Nodes[g] }
func (fs *FESpace) NumBdrNodes() int           { return len(fs.BdrNodes) }
func (fs *FESpace) BdrNode(i int) Node         { return fs.BdrNodes[i] }
func (fs *FESpace) Tags() []int                { return fs.tags }
func (fs *FESpace) NumTags() int               { return len(fs.tags) }
func (fs *FESpace) GetVDofs(e int) utils.Index { return fs.vdofs[e] }

// Rule returns the cached Gauss-Legendre rule of the given order for element e
func (fs *FESpace) Rule(e, order int) *quadrature.Rule {
	return fs.Quad.MustGet(fs.Els[e].Geom, order, quadrature.Legendre)
}

func (fs *FESpace) DefaultRule(e int) *quadrature.Rule {
	return fs.Rule(e, quadrature.DefaultOrder)
}

// GetFaceTransformations collects the transformations for face f of element e
func (fs *FESpace) GetFaceTransformations(e, f int) (ft *FaceTransformations) {
	var (
		el = fs.Els[e]
	)
	ft = &FaceTransformations{
		Elem:         e,
		Neighbor:     el.Neighbors[f],
		Face:         f,
		NeighborFace: -1,
		ElemRef:      el.FaceRefTrans(f),
		Phys:         el.FaceTrans(f),
	}
	if ft.Neighbor < 0 {
		return
	}
	nf := fs.Mesh.NeighborFace(e, f)
	if nf < 0 {
		panic(fmt.Errorf("element %d face %d: neighbor %d does not share the face", e, f, ft.Neighbor))
	}
	perm, err := cornerPermutation(
		fs.Mesh.El(e).FaceNodes(f), fs.Mesh.El(ft.Neighbor).FaceNodes(nf))
	if err != nil {
		panic(fmt.Errorf("element %d face %d: %w", e, f, err))
	}
	ft.NeighborFace = nf
	ft.NeighborRef = fs.Els[ft.Neighbor].FaceRefTrans(nf)
	ft.perm = perm
	return
}

// PrintMeshInfo reports element measures computed with the default rule
func (fs *FESpace) PrintMeshInfo(w io.Writer) {
	var (
		maxA = -1.
		minA = math.MaxFloat64
		avg  float64
	)
	for e, el := range fs.Els {
		a := el.Volume(fs.DefaultRule(e))
		maxA = math.Max(maxA, a)
		minA = math.Min(minA, a)
		avg += a
	}
	if len(fs.Els) > 0 {
		avg /= float64(len(fs.Els))
	}
	fmt.Fprintf(w, "Mesh Info:\n")
	fmt.Fprintf(w, "\tNumber of Elements = %d\n", fs.NumEls())
	fmt.Fprintf(w, "\tNumber of Nodes = %d\n", fs.NumNodes())
	fmt.Fprintf(w, "\tNumber of Boundary Elements = %d\n", fs.NumBdrEls())
	fmt.Fprintf(w, "\tNumber of Boundary Nodes = %d\n", fs.NumBdrNodes())
	fmt.Fprintf(w, "\tMax Element Area = %.6g\n", maxA)
	fmt.Fprintf(w, "\tMin Element Area = %.6g\n", minA)
	fmt.Fprintf(w, "\tAverage Element Area = %.6g\n", avg)
	fmt.Fprintf(w, "\tAverage Characteristic Length = %.6g\n", math.Sqrt(avg))
}
