package mesh

import (
	"fmt"

	"github.com/notargets/gofem/types"
)

// edgeBC is the tag of a node created on the edge between two nodes
func edgeBC(a, b MeshNode) types.BCType {
	if a.BC == b.BC {
		return a.BC
	}
	return types.INTERIOR
}

// GlobalRefine splits every quadrilateral into four. A node created on an
// edge shared with an already refined neighbor reuses that neighbor's node.
// Child 0 keeps the parent's id, children 1-3 are appended.
func (m *Mesh) GlobalRefine() {
	var (
		nOld    = len(m.Els)
		nodeMap = make([][]int, nOld) // new node ids created by each refined element
		edgeMid = make(map[types.EdgeKey]int)
	)
	for e := 0; e < nOld; e++ {
		if m.Els[e].Geom != types.QUAD {
			panic(fmt.Errorf("global refinement supports quadrilaterals only, element %d is a %v",
				e, m.Els[e].Geom))
		}
	}
	for e := 0; e < nOld; e++ {
		var (
			old    = m.Els[e]
			newIDs [5]int
		)
		for i := 0; i < 4; i++ {
			var (
				a, b = m.Nodes[old.Nodes[i]], m.Nodes[old.Nodes[(i+1)%4]]
				x    = a.X.Add(b.X).Scale(0.5)
				id   = -1
			)
			if nb := old.Neighbors[i]; nb >= 0 && nb < e {
				for _, cand := range nodeMap[nb] {
					if m.Nodes[cand].X.Equal(x) {
						id = cand
						break
					}
				}
			}
			if id < 0 {
				id = len(m.Nodes)
				m.Nodes = append(m.Nodes, MeshNode{ID: id, X: x, BC: edgeBC(a, b)})
			}
			newIDs[i] = id
			edgeMid[types.NewEdgeKey([2]int{a.ID, b.ID})] = id
		}
		center := m.Nodes[old.Nodes[0]].X.Add(m.Nodes[old.Nodes[2]].X).Scale(0.5)
		newIDs[4] = len(m.Nodes)
		m.Nodes = append(m.Nodes, MeshNode{ID: newIDs[4], X: center, BC: types.INTERIOR})
		nodeMap[e] = newIDs[:]

		for k := 0; k < 4; k++ {
			child := MeshEl{
				Geom:  types.QUAD,
				Nodes: []int{old.Nodes[k], newIDs[k], newIDs[4], newIDs[(k+3)%4]},
				Tags:  append([]int{}, old.Tags...),
			}
			if k == 0 {
				child.ID = e
				m.Els[e] = child
			} else {
				child.ID = len(m.Els)
				m.Els = append(m.Els, child)
			}
		}
	}
	m.refineBoundary(edgeMid)
	m.buildNodeElements()
	m.FindNeighbors()
}

// refineBoundary splits each boundary line at the node created on its edge.
// The new node takes the line's BC, Dirichlet taking precedence.
func (m *Mesh) refineBoundary(edgeMid map[types.EdgeKey]int) {
	var (
		bdr = make([]MeshEl, 0, 2*len(m.BdrEls))
	)
	for _, bel := range m.BdrEls {
		if bel.Geom != types.LINE {
			panic(fmt.Errorf("boundary refinement supports lines only, have %v", bel.Geom))
		}
		mid, ok := edgeMid[types.NewEdgeKey([2]int{bel.Nodes[0], bel.Nodes[1]})]
		if !ok {
			panic(fmt.Errorf("boundary edge [%d,%d] is not an element edge",
				bel.Nodes[0], bel.Nodes[1]))
		}
		if bc := bel.BC(); bc != types.INTERIOR &&
			(m.Nodes[mid].BC == types.INTERIOR || bc == types.DIRICHLET) {
			m.Nodes[mid].BC = bc
		}
		for _, nodes := range [][]int{{bel.Nodes[0], mid}, {mid, bel.Nodes[1]}} {
			bdr = append(bdr, MeshEl{
				ID:    len(bdr),
				Geom:  types.LINE,
				Nodes: nodes,
				Tags:  append([]int{}, bel.Tags...),
			})
		}
	}
	m.BdrEls = bdr
}
