package fem

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofem/mesh"
	"github.com/notargets/gofem/quadrature"
	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

var testCache = quadrature.NewCache()

func quadRule(t *testing.T, geom types.Geometry, order int) *quadrature.Rule {
	rule, err := testCache.Get(geom, order, quadrature.Legendre)
	require.NoError(t, err)
	return rule
}

// refElement builds an element whose physical corners are the reference corners
func refElement(t *testing.T, typ ElementType, order int) *Element {
	corners := RefCorners(typ.Geometry())
	nodes := make([]mesh.MeshNode, len(corners))
	for i, c := range corners {
		nodes[i] = mesh.MeshNode{ID: i, X: c}
	}
	el, err := NewElement(typ, nodes, order, typ.Geometry().Dim())
	require.NoError(t, err)
	return el
}

func randomRefPoint(rng *rand.Rand, geom types.Geometry) (x types.Point) {
	for d := 0; d < geom.Dim(); d++ {
		x[d] = 2*rng.Float64() - 1
	}
	if geom == types.TRI {
		x[0], x[1] = 0.5*(x[0]+1), 0.5*(x[1]+1)
		if x[0]+x[1] > 1 {
			x[0], x[1] = 1-x[0], 1-x[1]
		}
	}
	return
}

func TestBasis(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	{ // Test the Kronecker property and partition of unity for every element type and order
		for typ, r := range orderRange {
			for p := r[0]; p <= r[1]; p++ {
				b := refElement(t, typ, p).Basis()
				N := b.NumNodes()
				for j := 0; j < N; j++ {
					shape := b.CalcShape(b.RefNode(j)).Data()
					for i := 0; i < N; i++ {
						var want float64
						if i == j {
							want = 1
						}
						assert.InDelta(t, want, shape[i], 1.e-10, "%v p=%d node %d shape %d", typ, p, j, i)
					}
				}
				for n := 0; n < 5; n++ {
					x := randomRefPoint(rng, typ.Geometry())
					var sum float64
					for _, s := range b.CalcShape(x).Data() {
						sum += s
					}
					assert.InDelta(t, 1., sum, 1.e-10, "%v p=%d", typ, p)
					g := b.CalcGradShape(x)
					for d := 0; d < b.Dim(); d++ {
						var gs float64
						for i := 0; i < N; i++ {
							gs += g.At(d, i)
						}
						assert.InDelta(t, 0., gs, 1.e-9, "%v p=%d", typ, p)
					}
				}
			}
		}
	}
	{ // Test node counts
		assert.Equal(t, 1, refElement(t, L2Quad, 0).NumNodes())
		assert.Equal(t, 4, refElement(t, LagrangeLine, 3).NumNodes())
		assert.Equal(t, 3, refElement(t, LagrangeTri, 1).NumNodes())
		for p := 1; p <= 4; p++ {
			assert.Equal(t, (p+1)*(p+1), refElement(t, LagrangeQuad, p).NumNodes())
		}
		assert.Equal(t, 8, refElement(t, LagrangeHex, 1).NumNodes())
		assert.Equal(t, 27, refElement(t, LagrangeHex, 2).NumNodes())
	}
	{ // Test gradients against central differences
		const h = 1.e-6
		for _, tc := range []struct {
			typ   ElementType
			order int
		}{{LagrangeQuad, 3}, {LagrangeHex, 2}, {LagrangeTri, 1}, {LagrangeLine, 4}} {
			b := refElement(t, tc.typ, tc.order).Basis()
			x := randomRefPoint(rng, tc.typ.Geometry())
			g := b.CalcGradShape(x)
			for d := 0; d < b.Dim(); d++ {
				xp, xm := x, x
				xp[d] += h
				xm[d] -= h
				sp, sm := b.CalcShape(xp).Data(), b.CalcShape(xm).Data()
				for i := range sp {
					assert.InDelta(t, (sp[i]-sm[i])/(2*h), g.At(d, i), 1.e-6, "%v node %d", tc.typ, i)
				}
			}
		}
	}
	{ // Test the barycentric basis reproduces linear functions
		tri := TriBasis{}
		x := types.NewPoint(0.2, 0.3)
		shape := tri.CalcShape(x).Data()
		assert.InDeltaSlice(t, []float64{0.5, 0.2, 0.3}, shape, 1.e-14)
		var p types.Point
		for i, s := range shape {
			p = p.Add(tri.RefNode(i).Scale(s))
		}
		assert.True(t, p.Equal(x))
	}
	{ // Test index orderings
		assert.Equal(t, [][]int{{0}, {2}, {1}}, LineIndex(2))
		assert.Equal(t, [][]int{
			{0, 0}, {2, 0}, {2, 2}, {0, 2},
			{1, 0}, {2, 1}, {1, 2}, {0, 1},
			{1, 1}}, QuadIndex(2))
		q3 := QuadIndex(3)
		assert.Equal(t, []int{1, 0}, q3[4])
		assert.Equal(t, []int{2, 0}, q3[5])
		assert.Equal(t, []int{3, 1}, q3[6])
		assert.Equal(t, []int{1, 3}, q3[9])
		assert.Equal(t, []int{1, 1}, q3[12])
		assert.Equal(t, []int{2, 2}, q3[15])
		assert.Panics(t, func() { HexIndex(3) })
	}
}

func TestElement(t *testing.T) {
	{ // Test unsupported configurations
		_, err := NewElement(LagrangeQuad, mesh.SquareMesh(1, 1, types.NewPoint(0, 0), types.NewPoint(1, 1),
			mesh.AllDirichlet4).ElementNodes(0), 5, 2)
		assert.Error(t, err)
		_, err = NewElement(LagrangeHex, nil, 1, 3)
		assert.Error(t, err)
		assert.False(t, LagrangeTri.Supports(2))
		assert.True(t, L2Segment.Supports(0))
	}
	{ // Test node boundary tags inherited from the corners
		bcs := [4]types.BCType{types.DIRICHLET, types.NEUMANN, types.NEUMANN, types.NEUMANN}
		m := mesh.SquareMesh(1, 1, types.NewPoint(0, 0), types.NewPoint(1, 1), bcs)
		el, err := NewElement(LagrangeQuad, m.ElementNodes(0), 2, 2)
		require.NoError(t, err)
		want := []types.BCType{
			types.DIRICHLET, types.DIRICHLET, types.NEUMANN, types.NEUMANN,
			types.DIRICHLET, types.INTERIOR, types.NEUMANN, types.INTERIOR,
			types.INTERIOR,
		}
		for i, n := range el.Nodes {
			assert.Equal(t, want[i], n.BC, "node %d", i)
			assert.Equal(t, i, n.RefID)
			assert.Equal(t, -1, n.GlobalID)
		}
		assert.True(t, el.Nodes[8].X.Equal(types.NewPoint(0.5, 0.5)))
		assert.True(t, el.Nodes[5].X.Equal(types.NewPoint(1, 0.5)))
		assert.True(t, el.IsBoundary())
	}
	{ // Test volume and centroid
		m := mesh.SquareMesh(2, 2, types.NewPoint(0, 0), types.NewPoint(1, 1), mesh.AllDirichlet4)
		el, err := NewElement(LagrangeQuad, m.ElementNodes(3), 2, 2)
		require.NoError(t, err)
		assert.InDelta(t, 0.25, el.Volume(quadRule(t, types.QUAD, 2)), 1.e-14)
		assert.True(t, el.Centroid().Equal(types.NewPoint(0.75, 0.75)))
		assert.Equal(t, 4, el.NumFaces())
		assert.Equal(t, []int{-1, -1, -1, -1}, el.Neighbors)
		assert.Panics(t, func() { el.Integrate(utils.NewVector(9), quadRule(t, types.TRI, 2)) })
	}
}
