package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/gofem/types"
)

// AllDirichlet4 tags every side of a square domain Dirichlet
var AllDirichlet4 = [4]types.BCType{types.DIRICHLET, types.DIRICHLET, types.DIRICHLET, types.DIRICHLET}

// BC returns the boundary condition carried by a boundary element's first tag
func (el MeshEl) BC() types.BCType { return types.BCType(el.Tag()) }

// LineMesh builds N equal segments on [x0,x1]
func LineMesh(N int, x0, x1 float64, bcs [2]types.BCType) (m *Mesh) {
	if N < 1 {
		panic(fmt.Errorf("line mesh needs at least one element, have %d", N))
	}
	var (
		nodes = make([]MeshNode, N+1)
		els   = make([]MeshEl, N)
		dx    = (x1 - x0) / float64(N)
	)
	for i := range nodes {
		nodes[i] = MeshNode{ID: i, X: types.NewPoint(x0 + float64(i)*dx)}
	}
	nodes[0].BC, nodes[N].BC = bcs[0], bcs[1]
	for i := range els {
		els[i] = MeshEl{Geom: types.LINE, Nodes: []int{i, i + 1}}
	}
	m = NewMesh(1, nodes, els, nil)
	return
}

/*
SquareMesh builds an Nx by Ny grid of quadrilaterals covering [low,high].
The sides are tagged by bcs in the order bottom, right, top, left, which is
the order of the quadrilateral faces. A corner node takes the first side in
that order. Boundary line elements are created for every physical boundary face.
*/
func SquareMesh(Nx, Ny int, low, high types.Point, bcs [4]types.BCType) (m *Mesh) {
	nodes := squareNodes(Nx, Ny, low, high, bcs)
	FLAT := func(i, j int) int { return j + (Nx+1)*i }
	els := make([]MeshEl, 0, Nx*Ny)
	for i := 0; i < Ny; i++ {
		for j := 0; j < Nx; j++ {
			els = append(els, MeshEl{
				Geom:  types.QUAD,
				Nodes: []int{FLAT(i, j), FLAT(i, j+1), FLAT(i+1, j+1), FLAT(i+1, j)},
			})
		}
	}
	m = NewMesh(2, nodes, els, nil)
	m.addBoxBoundary(low, high, bcs[:])
	return
}

// SquareTriMesh is SquareMesh with every cell split into two triangles along its diagonal
func SquareTriMesh(Nx, Ny int, low, high types.Point, bcs [4]types.BCType) (m *Mesh) {
	nodes := squareNodes(Nx, Ny, low, high, bcs)
	FLAT := func(i, j int) int { return j + (Nx+1)*i }
	els := make([]MeshEl, 0, 2*Nx*Ny)
	for i := 0; i < Ny; i++ {
		for j := 0; j < Nx; j++ {
			a, b, c, d := FLAT(i, j), FLAT(i, j+1), FLAT(i+1, j+1), FLAT(i+1, j)
			els = append(els,
				MeshEl{Geom: types.TRI, Nodes: []int{a, b, c}},
				MeshEl{Geom: types.TRI, Nodes: []int{a, c, d}},
			)
		}
	}
	m = NewMesh(2, nodes, els, nil)
	m.addBoxBoundary(low, high, bcs[:])
	return
}

func squareNodes(Nx, Ny int, low, high types.Point, bcs [4]types.BCType) (nodes []MeshNode) {
	if Nx < 1 || Ny < 1 {
		panic(fmt.Errorf("square mesh needs at least one element per direction, have %dx%d", Nx, Ny))
	}
	var (
		dx = (high[0] - low[0]) / float64(Nx)
		dy = (high[1] - low[1]) / float64(Ny)
	)
	nodes = make([]MeshNode, (Nx+1)*(Ny+1))
	for i := 0; i < Ny+1; i++ {
		for j := 0; j < Nx+1; j++ {
			id := j + (Nx+1)*i
			node := MeshNode{
				ID: id,
				X:  types.NewPoint(low[0]+float64(j)*dx, low[1]+float64(i)*dy),
			}
			switch {
			case i == 0:
				node.BC = bcs[0]
			case j == Nx:
				node.BC = bcs[1]
			case i == Ny:
				node.BC = bcs[2]
			case j == 0:
				node.BC = bcs[3]
			default:
				node.BC = types.INTERIOR
			}
			nodes[id] = node
		}
	}
	return
}

/*
CubeMesh builds an N[0] by N[1] by N[2] grid of hexahedra covering [low,high].
bcs are ordered y=low, x=high, y=high, x=low, z=high, z=low and a node on
several sides takes the first in that order.
*/
func CubeMesh(N [3]int, low, high types.Point, bcs [6]types.BCType) (m *Mesh) {
	for d := 0; d < 3; d++ {
		if N[d] < 1 {
			panic(fmt.Errorf("cube mesh needs at least one element per direction, have %v", N))
		}
	}
	var (
		delta types.Point
		flat  = func(i, j, k int) int { return k + j*(N[0]+1) + i*(N[0]+1)*(N[1]+1) }
		nodes = make([]MeshNode, (N[0]+1)*(N[1]+1)*(N[2]+1))
		els   = make([]MeshEl, 0, N[0]*N[1]*N[2])
	)
	for d := 0; d < 3; d++ {
		delta[d] = (high[d] - low[d]) / float64(N[d])
	}
	for i := 0; i < N[2]+1; i++ {
		for j := 0; j < N[1]+1; j++ {
			for k := 0; k < N[0]+1; k++ {
				node := MeshNode{
					ID: flat(i, j, k),
					X: types.NewPoint(
						low[0]+float64(k)*delta[0],
						low[1]+float64(j)*delta[1],
						low[2]+float64(i)*delta[2]),
				}
				switch {
				case j == 0:
					node.BC = bcs[0]
				case k == N[0]:
					node.BC = bcs[1]
				case j == N[1]:
					node.BC = bcs[2]
				case k == 0:
					node.BC = bcs[3]
				case i == N[2]:
					node.BC = bcs[4]
				case i == 0:
					node.BC = bcs[5]
				}
				nodes[node.ID] = node
			}
		}
	}
	for i := 0; i < N[2]; i++ {
		for j := 0; j < N[1]; j++ {
			for k := 0; k < N[0]; k++ {
				els = append(els, MeshEl{
					Geom: types.HEX,
					Nodes: []int{
						flat(i, j, k), flat(i, j, k+1), flat(i, j+1, k+1), flat(i, j+1, k),
						flat(i+1, j, k), flat(i+1, j, k+1), flat(i+1, j+1, k+1), flat(i+1, j+1, k),
					},
				})
			}
		}
	}
	m = NewMesh(3, nodes, els, nil)
	m.addBoxBoundary(low, high, bcs[:])
	return
}

// addBoxBoundary creates one boundary element per physical boundary face,
// tagged with the BC of the box side the face lies on
func (m *Mesh) addBoxBoundary(low, high types.Point, bcs []types.BCType) {
	for e := range m.Els {
		el := m.Els[e]
		for f, nb := range el.Neighbors {
			if nb != -1 {
				continue
			}
			fn := el.FaceNodes(f)
			var c types.Point
			for _, n := range fn {
				c = c.Add(m.Nodes[n].X)
			}
			c = c.Scale(1. / float64(len(fn)))
			side := boxSide(c, low, high, m.Dim)
			if side < 0 {
				panic(fmt.Errorf("boundary face %d of element %d is not on the domain boundary", f, e))
			}
			m.BdrEls = append(m.BdrEls, MeshEl{
				ID:    len(m.BdrEls),
				Geom:  el.Geom.FaceGeometry(),
				Nodes: fn,
				Tags:  []int{int(bcs[side])},
			})
		}
	}
}

// boxSide returns the side of the box holding x, in generator bc order
func boxSide(x, low, high types.Point, dim int) int {
	var (
		scale = high.Sub(low).Norm()
		on    = func(a, b float64) bool { return math.Abs(a-b) < types.EQUALTOL*scale }
	)
	switch dim {
	case 2:
		switch {
		case on(x[1], low[1]):
			return 0
		case on(x[0], high[0]):
			return 1
		case on(x[1], high[1]):
			return 2
		case on(x[0], low[0]):
			return 3
		}
	case 3:
		switch {
		case on(x[1], low[1]):
			return 0
		case on(x[0], high[0]):
			return 1
		case on(x[1], high[1]):
			return 2
		case on(x[0], low[0]):
			return 3
		case on(x[2], high[2]):
			return 4
		case on(x[2], low[2]):
			return 5
		}
	}
	return -1
}
