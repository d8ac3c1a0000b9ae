package fem

import (
	"fmt"
	"sync"

	"github.com/notargets/gofem/polynomial"
	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

// Basis evaluates nodal shape functions on a reference element
type Basis interface {
	Geometry() types.Geometry
	Dim() int
	NumNodes() int
	// RefNode returns the reference coordinates of node i
	RefNode(i int) types.Point
	CalcShape(x types.Point) utils.Vector
	// CalcGradShape returns the Dim x NumNodes reference gradients
	CalcGradShape(x types.Point) utils.Matrix
}

// Reference corners, in the mesh corner order of each geometry
var (
	lineCorners = []types.Point{{-1}, {1}}
	triCorners  = []types.Point{{0, 0}, {1, 0}, {0, 1}}
	quadCorners = []types.Point{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	hexCorners  = []types.Point{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
)

func RefCorners(geom types.Geometry) []types.Point {
	switch geom {
	case types.LINE:
		return lineCorners
	case types.TRI:
		return triCorners
	case types.QUAD:
		return quadCorners
	case types.HEX:
		return hexCorners
	}
	panic(fmt.Errorf("no reference element for %v", geom))
}

/*
TensorBasis is a nodal Lagrange basis built from products of 1D Lagrange
polynomials on equally spaced points of [-1,1]. Node i is the product of the
1D interpolants Index[i][0], Index[i][1]... and its gradient is kept in
product rule form, one differentiated factor per direction.
*/
type TensorBasis struct {
	geom  types.Geometry
	order int
	Index [][]int
	ref   []types.Point
	pp    []polynomial.PolyProduct
	dpp   [][]polynomial.PolyProduct
}

func NewTensorBasis(geom types.Geometry, order int, index [][]int) (tb *TensorBasis) {
	var (
		dim   = geom.Dim()
		polys = polynomial.GenLagrangePolynomials(order, -1, 1)
		x1d   = utils.Linspace(order+1, -1, 1)
	)
	tb = &TensorBasis{
		geom:  geom,
		order: order,
		Index: index,
		ref:   make([]types.Point, len(index)),
		pp:    make([]polynomial.PolyProduct, len(index)),
		dpp:   make([][]polynomial.PolyProduct, len(index)),
	}
	for i, idx := range index {
		if len(idx) != dim {
			panic(fmt.Errorf("node %d of a %v basis has %d indices", i, geom, len(idx)))
		}
		factors := make([]polynomial.Poly1D, dim)
		for d, k := range idx {
			factors[d] = polys[k]
			tb.ref[i][d] = x1d[k]
		}
		tb.pp[i] = polynomial.NewPolyProduct(factors...)
		tb.dpp[i] = tb.pp[i].Gradient()
	}
	return
}

func (tb *TensorBasis) Geometry() types.Geometry  { return tb.geom }
func (tb *TensorBasis) Dim() int                  { return tb.geom.Dim() }
func (tb *TensorBasis) NumNodes() int             { return len(tb.pp) }
func (tb *TensorBasis) RefNode(i int) types.Point { return tb.ref[i] }

func (tb *TensorBasis) CalcShape(x types.Point) (shape utils.Vector) {
	shape = utils.NewVector(len(tb.pp))
	s := shape.Data()
	for i, p := range tb.pp {
		s[i] = p.Eval(x)
	}
	return
}

func (tb *TensorBasis) CalcGradShape(x types.Point) (gshape utils.Matrix) {
	var (
		dim = tb.Dim()
		N   = len(tb.pp)
	)
	gshape = utils.NewMatrix(dim, N)
	g := gshape.Data()
	for i, dp := range tb.dpp {
		for d := 0; d < dim; d++ {
			g[d*N+i] = dp[d].Eval(x)
		}
	}
	return
}

// TriBasis is the linear barycentric basis of the reference triangle
type TriBasis struct{}

func (TriBasis) Geometry() types.Geometry  { return types.TRI }
func (TriBasis) Dim() int                  { return 2 }
func (TriBasis) NumNodes() int             { return 3 }
func (TriBasis) RefNode(i int) types.Point { return triCorners[i] }

func (TriBasis) CalcShape(x types.Point) utils.Vector {
	return utils.NewVector(3, []float64{1 - x[0] - x[1], x[0], x[1]})
}

func (TriBasis) CalcGradShape(types.Point) utils.Matrix {
	return utils.NewMatrix(2, 3, []float64{
		-1, 1, 0,
		-1, 0, 1,
	})
}

// LineIndex orders the end points first, then the interior points left to right
func LineIndex(p int) (index [][]int) {
	if p == 0 {
		return [][]int{{0}}
	}
	index = [][]int{{0}, {p}}
	for i := 1; i < p; i++ {
		index = append(index, []int{i})
	}
	return
}

/*
QuadIndex orders the corners counter clockwise, then the interior points of
each edge walking from its first corner to its second, then the cell
interior with x varying fastest.
*/
func QuadIndex(p int) (index [][]int) {
	if p == 0 {
		return [][]int{{0, 0}}
	}
	corners := [][2]int{{0, 0}, {p, 0}, {p, p}, {0, p}}
	for _, c := range corners {
		index = append(index, []int{c[0], c[1]})
	}
	for k := 0; k < 4; k++ {
		a, b := corners[k], corners[(k+1)%4]
		di, dj := sign(b[0]-a[0]), sign(b[1]-a[1])
		for t := 1; t < p; t++ {
			index = append(index, []int{a[0] + t*di, a[1] + t*dj})
		}
	}
	for j := 1; j < p; j++ {
		for i := 1; i < p; i++ {
			index = append(index, []int{i, j})
		}
	}
	return
}

// HexIndex orders the eight corners, then for p == 2 the bottom, middle
// and top layers of edge, face and center points
func HexIndex(p int) (index [][]int) {
	switch p {
	case 1:
		return [][]int{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
			{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
		}
	case 2:
		return [][]int{
			{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0},
			{0, 0, 2}, {2, 0, 2}, {2, 2, 2}, {0, 2, 2},
			// bottom
			{1, 0, 0}, {2, 1, 0}, {1, 2, 0}, {0, 1, 0}, {1, 1, 0},
			// middle
			{0, 0, 1}, {2, 0, 1}, {2, 2, 1}, {0, 2, 1},
			{1, 0, 1}, {2, 1, 1}, {1, 2, 1}, {0, 1, 1}, {1, 1, 1},
			// top
			{1, 0, 2}, {2, 1, 2}, {1, 2, 2}, {0, 1, 2}, {1, 1, 2},
		}
	}
	panic(fmt.Errorf("hex index for order %d not defined", p))
}

func sign(i int) int {
	switch {
	case i > 0:
		return 1
	case i < 0:
		return -1
	}
	return 0
}

// Order one bases are immutable and shared by every geometric map
var geometricBases = map[types.Geometry]func() Basis{
	types.LINE: sync.OnceValue(func() Basis { return NewTensorBasis(types.LINE, 1, LineIndex(1)) }),
	types.TRI:  func() Basis { return TriBasis{} },
	types.QUAD: sync.OnceValue(func() Basis { return NewTensorBasis(types.QUAD, 1, QuadIndex(1)) }),
	types.HEX:  sync.OnceValue(func() Basis { return NewTensorBasis(types.HEX, 1, HexIndex(1)) }),
}

// GeometricBasis returns the order one basis spanning the corners of geom
func GeometricBasis(geom types.Geometry) Basis {
	if f, ok := geometricBases[geom]; ok {
		return f()
	}
	panic(fmt.Errorf("geometric map for %v not defined", geom))
}
