package mesh

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofem/types"
)

var (
	origin = types.NewPoint(0, 0)
	unit   = types.NewPoint(1, 1)
)

func checkNeighborSymmetry(t *testing.T, m *Mesh) {
	for e, el := range m.Els {
		require.Equal(t, el.Geom.NumFaces(), len(el.Neighbors))
		for f, nb := range el.Neighbors {
			if nb == -1 {
				continue
			}
			nf := m.NeighborFace(e, f)
			require.True(t, nf >= 0, "element %d face %d", e, f)
			assert.Equal(t, e, m.Els[nb].Neighbors[nf])
		}
	}
}

func TestSquareMesh(t *testing.T) {
	{ // Test topology of a 2x2 grid
		m := SquareMesh(2, 2, origin, unit, AllDirichlet4)
		assert.Equal(t, 2, m.Dim)
		assert.Equal(t, 9, m.NumNodes())
		assert.Equal(t, 4, m.NumEls())
		assert.Equal(t, []int{0, 1, 4, 3}, m.Els[0].Nodes)
		assert.Equal(t, []int{-1, 1, 2, -1}, m.Els[0].Neighbors)
		assert.Equal(t, []int{-1, -1, 3, 0}, m.Els[1].Neighbors)
		assert.Equal(t, 8, m.NumBdrEls())
		for _, bel := range m.BdrEls {
			assert.Equal(t, types.LINE, bel.Geom)
			assert.Equal(t, types.DIRICHLET, bel.BC())
		}
		checkNeighborSymmetry(t, m)
		assert.Equal(t, types.INTERIOR, m.Nodes[4].BC)
		assert.Equal(t, types.NewPoint(0.5, 0.5), m.Nodes[4].X)
	}
	{ // Test side tags, a corner takes the first side in bottom, right, top, left order
		bcs := [4]types.BCType{types.DIRICHLET, types.NEUMANN, types.NEUMANN, types.NEUMANN}
		m := SquareMesh(2, 2, origin, unit, bcs)
		assert.Equal(t, types.DIRICHLET, m.Nodes[0].BC)
		assert.Equal(t, types.DIRICHLET, m.Nodes[2].BC)
		assert.Equal(t, types.NEUMANN, m.Nodes[5].BC)
		assert.Equal(t, types.NEUMANN, m.Nodes[8].BC)
		assert.Equal(t, types.INTERIOR, m.Nodes[4].BC)
		var nDir int
		for _, bel := range m.BdrEls {
			if bel.BC() == types.DIRICHLET {
				nDir++
				for _, n := range bel.Nodes {
					assert.Equal(t, 0., m.Nodes[n].X[1])
				}
			}
		}
		assert.Equal(t, 2, nDir)
	}
	{ // Test incidence
		m := SquareMesh(2, 2, origin, unit, AllDirichlet4)
		val := m.NodeValence()
		assert.Equal(t, 1, val[0])
		assert.Equal(t, 2, val[1])
		assert.Equal(t, 4, val[4])
		assert.Equal(t, 1., m.Incidence().At(4, 3))
		assert.Equal(t, 0., m.Incidence().At(0, 3))
	}
	{ // Test PrintInfo
		var buf bytes.Buffer
		SquareMesh(3, 2, origin, unit, AllDirichlet4).PrintInfo(&buf)
		assert.Contains(t, buf.String(), "Number of Elements = 6")
		assert.Contains(t, buf.String(), "Number of Nodes = 12")
		assert.Contains(t, buf.String(), "Number of Boundary Elements = 10")
		assert.Contains(t, buf.String(), "Node Valence: min = 1, max = 4")
	}
	{ // Test the full report against its golden file
		var buf bytes.Buffer
		SquareMesh(2, 2, origin, unit, AllDirichlet4).PrintInfo(&buf)
		g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
		g.Assert(t, "PrintInfo", buf.Bytes())
	}
}

func TestGlobalRefine(t *testing.T) {
	{ // Test one refinement matches the finer grid counts
		m := SquareMesh(2, 2, origin, unit, AllDirichlet4)
		m.GlobalRefine()
		assert.Equal(t, 16, m.NumEls())
		assert.Equal(t, 25, m.NumNodes())
		assert.Equal(t, 16, m.NumBdrEls())
		checkNeighborSymmetry(t, m)
		var nBdrFaces int
		for _, el := range m.Els {
			for _, nb := range el.Neighbors {
				if nb == -1 {
					nBdrFaces++
				}
			}
		}
		assert.Equal(t, 16, nBdrFaces)
		// child 0 keeps the parent's first corner and id
		c0 := m.Els[0]
		assert.Equal(t, 0, c0.ID)
		assert.Equal(t, types.NewPoint(0, 0), m.Nodes[c0.Nodes[0]].X)
		assert.Equal(t, types.NewPoint(0.25, 0), m.Nodes[c0.Nodes[1]].X)
		assert.Equal(t, types.NewPoint(0.25, 0.25), m.Nodes[c0.Nodes[2]].X)
		assert.Equal(t, types.NewPoint(0, 0.25), m.Nodes[c0.Nodes[3]].X)
		// every node is distinct
		for i := range m.Nodes {
			for j := i + 1; j < len(m.Nodes); j++ {
				assert.False(t, m.Nodes[i].X.Equal(m.Nodes[j].X))
			}
		}
		// boundary tags of new edge nodes
		for _, n := range m.Nodes {
			onBoundary := n.X[0] == 0 || n.X[0] == 1 || n.X[1] == 0 || n.X[1] == 1
			if onBoundary {
				assert.Equal(t, types.DIRICHLET, n.BC)
			} else {
				assert.Equal(t, types.INTERIOR, n.BC)
			}
		}
		for _, bel := range m.BdrEls {
			a, b := m.Nodes[bel.Nodes[0]].X, m.Nodes[bel.Nodes[1]].X
			assert.InDelta(t, 0.25, b.Sub(a).Norm(), 1.e-14)
		}
	}
	{ // Test twice
		m := SquareMesh(2, 2, origin, unit, AllDirichlet4)
		m.GlobalRefine()
		m.GlobalRefine()
		assert.Equal(t, 64, m.NumEls())
		assert.Equal(t, 81, m.NumNodes())
		checkNeighborSymmetry(t, m)
	}
	{ // Test tags are copied to children
		m := SquareMesh(1, 1, origin, unit, AllDirichlet4)
		m.Els[0].Tags = []int{7}
		m.GlobalRefine()
		for _, el := range m.Els {
			assert.Equal(t, 7, el.Tag())
		}
		assert.Equal(t, []int{7}, m.Tags())
	}
	{ // Test unsupported geometry
		m := SquareTriMesh(2, 2, origin, unit, AllDirichlet4)
		assert.Panics(t, func() { m.GlobalRefine() })
	}
}

func TestOtherGenerators(t *testing.T) {
	{ // Test triangles
		m := SquareTriMesh(3, 2, origin, unit, AllDirichlet4)
		assert.Equal(t, 12, m.NumEls())
		assert.Equal(t, 12, m.NumNodes())
		assert.Equal(t, 10, m.NumBdrEls())
		checkNeighborSymmetry(t, m)
		// the diagonal is shared by the two halves of a cell
		assert.Equal(t, 1, m.Els[0].Neighbors[2])
		assert.Equal(t, 0, m.Els[1].Neighbors[0])
		assert.Equal(t, 3, m.Els[0].Neighbors[1])
	}
	{ // Test hexahedra
		var bcs [6]types.BCType
		for i := range bcs {
			bcs[i] = types.DIRICHLET
		}
		m := CubeMesh([3]int{2, 2, 2}, types.NewPoint(0, 0, 0), types.NewPoint(1, 1, 1), bcs)
		assert.Equal(t, 3, m.Dim)
		assert.Equal(t, 27, m.NumNodes())
		assert.Equal(t, 8, m.NumEls())
		assert.Equal(t, 24, m.NumBdrEls())
		checkNeighborSymmetry(t, m)
		for _, el := range m.Els {
			var nb int
			for _, k := range el.Neighbors {
				if k >= 0 {
					nb++
				}
			}
			assert.Equal(t, 3, nb)
		}
		assert.Equal(t, types.INTERIOR, m.Nodes[13].BC)
		assert.Equal(t, types.NewPoint(0.5, 0.5, 0.5), m.Nodes[13].X)
		assert.Panics(t, func() { m.GlobalRefine() })
	}
	{ // Test segments
		m := LineMesh(4, 0, 2, [2]types.BCType{types.DIRICHLET, types.NEUMANN})
		assert.Equal(t, 5, m.NumNodes())
		assert.Equal(t, []int{-1, 1}, m.Els[0].Neighbors)
		assert.Equal(t, []int{2, -1}, m.Els[3].Neighbors)
		assert.Equal(t, types.NEUMANN, m.Nodes[4].BC)
		assert.Equal(t, 0.5, m.Nodes[1].X[0])
	}
	{ // Test invalid input
		assert.Panics(t, func() { SquareMesh(0, 2, origin, unit, AllDirichlet4) })
		assert.Panics(t, func() {
			NewMesh(2, []MeshNode{{ID: 0}}, []MeshEl{{Geom: types.QUAD, Nodes: []int{0, 0, 0}}}, nil)
		})
	}
}
