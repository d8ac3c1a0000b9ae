package mesh

import (
	"fmt"
	"io"
	"sort"

	"github.com/james-bowman/sparse"

	"github.com/notargets/gofem/types"
)

// Incidence returns the node by element incidence matrix, entry (n,e) is 1
// when element e uses node n
func (m *Mesh) Incidence() (inc *sparse.CSR) {
	dok := sparse.NewDOK(len(m.Nodes), len(m.Els))
	for e, el := range m.Els {
		for _, n := range el.Nodes {
			dok.Set(n, e, 1)
		}
	}
	inc = dok.ToCSR()
	return
}

// NodeValence returns the number of elements sharing each node, the
// diagonal of the node to node product of the incidence matrix
func (m *Mesh) NodeValence() (valence []int) {
	var (
		Nn   = len(m.Nodes)
		inc  = m.Incidence()
		NtoN = sparse.NewCSR(Nn, Nn, nil, nil, nil)
	)
	NtoN.Mul(inc, inc.T())
	valence = make([]int, Nn)
	for n := range valence {
		valence[n] = int(NtoN.At(n, n))
	}
	return
}

func (m *Mesh) PrintInfo(w io.Writer) {
	var (
		geoms     = make(map[types.Geometry]int)
		bcs       = make(map[types.BCType]int)
		low, high = m.Bounds()
		nBdrFaces int
		valence   = m.NodeValence()
	)
	vMin, vMax, vSum := len(m.Els), 0, 0
	for _, el := range m.Els {
		geoms[el.Geom]++
		for _, nb := range el.Neighbors {
			if nb == -1 {
				nBdrFaces++
			}
		}
	}
	for i, n := range m.Nodes {
		bcs[n.BC]++
		vMin, vMax = min(vMin, valence[i]), max(vMax, valence[i])
		vSum += valence[i]
	}
	fmt.Fprintf(w, "Mesh Dimension = %d\n", m.Dim)
	fmt.Fprintf(w, "Number of Nodes = %d\n", len(m.Nodes))
	fmt.Fprintf(w, "Number of Elements = %d\n", len(m.Els))
	gk := make([]int, 0, len(geoms))
	for g := range geoms {
		gk = append(gk, int(g))
	}
	sort.Ints(gk)
	for _, g := range gk {
		fmt.Fprintf(w, "\t%-8s %d\n", types.Geometry(g).String(), geoms[types.Geometry(g)])
	}
	fmt.Fprintf(w, "Number of Boundary Elements = %d\n", len(m.BdrEls))
	fmt.Fprintf(w, "Number of Boundary Faces = %d\n", nBdrFaces)
	for _, bc := range []types.BCType{types.INTERIOR, types.DIRICHLET, types.NEUMANN} {
		fmt.Fprintf(w, "\t%-10s nodes %d\n", bc.String(), bcs[bc])
	}
	if len(m.Nodes) > 0 {
		fmt.Fprintf(w, "Node Valence: min = %d, max = %d, mean = %.3g\n",
			vMin, vMax, float64(vSum)/float64(len(m.Nodes)))
	}
	fmt.Fprintf(w, "Bounds = [%v, %v]\n", low, high)
}
