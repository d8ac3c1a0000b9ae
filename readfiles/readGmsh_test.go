package readfiles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofem/types"
)

func TestReadGmsh(t *testing.T) {
	{ // Test a 2x2 quad mesh with Dirichlet bottom, right and top sides and a Neumann left side
		m, err := ReadGmsh("testdata/square.msh", 0, false)
		require.NoError(t, err)
		assert.Equal(t, 2, m.Dim)
		assert.Equal(t, 9, m.NumNodes())
		assert.Equal(t, 4, m.NumEls())
		assert.Equal(t, 8, m.NumBdrEls())
		assert.Equal(t, []int{0, 1, 4, 3}, m.Els[0].Nodes)
		assert.Equal(t, []int{-1, 1, 2, -1}, m.Els[0].Neighbors)
		assert.Equal(t, 5, m.Els[0].Tag())
		assert.Equal(t, types.DIRICHLET, m.Nodes[0].BC) // Dirichlet wins at a corner
		assert.Equal(t, types.NEUMANN, m.Nodes[3].BC)
		assert.Equal(t, types.DIRICHLET, m.Nodes[6].BC)
		assert.Equal(t, types.INTERIOR, m.Nodes[4].BC)
		assert.Equal(t, types.NEUMANN, m.BdrEls[7].BC())
	}
	{ // Test refinement on read
		m, err := ReadGmsh("testdata/square.msh", 1, false)
		require.NoError(t, err)
		assert.Equal(t, 16, m.NumEls())
		assert.Equal(t, 25, m.NumNodes())
		assert.Equal(t, 16, m.NumBdrEls())
		var nNeumann int
		for _, n := range m.Nodes {
			if n.BC == types.NEUMANN {
				nNeumann++
			}
		}
		assert.Equal(t, 3, nNeumann)
	}
	{ // Test missing file
		_, err := ReadGmsh("testdata/nonexistent.msh", 0, false)
		assert.Error(t, err)
	}
}

func TestParseGmshErrors(t *testing.T) {
	header := "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n"
	nodes := "$Nodes\n4\n1 0 0 0\n2 1 0 0\n3 1 1 0\n4 0 1 0\n$EndNodes\n"
	cases := map[string]string{
		"bad boundary tag": header + nodes +
			"$Elements\n2\n1 1 2 3 1 1 2\n2 3 2 1 1 1 2 3 4\n$EndElements\n",
		"node out of range": header + nodes +
			"$Elements\n1\n1 3 2 1 1 1 2 3 5\n$EndElements\n",
		"truncated": header + nodes + "$Elements\n2\n1 3 2 1 1 1 2 3 4\n",
		"binary":    "$MeshFormat\n2.2 1 8\n$EndMeshFormat\n" + nodes,
		"version":   "$MeshFormat\n4.1 0 8\n$EndMeshFormat\n" + nodes,
		"no format": nodes + "$Elements\n1\n1 3 2 1 1 1 2 3 4\n$EndElements\n",
		"unknown type": header + nodes +
			"$Elements\n1\n1 9 2 1 1 1 2 3 4 1 2\n$EndElements\n",
	}
	for name, input := range cases {
		_, err := ParseGmsh(strings.NewReader(input), 0)
		assert.Error(t, err, name)
	}
	{ // Test the minimal valid input
		m, err := ParseGmsh(strings.NewReader(header+nodes+
			"$Elements\n1\n1 3 2 1 1 1 2 3 4\n$EndElements\n"), 0)
		require.NoError(t, err)
		assert.Equal(t, 1, m.NumEls())
		assert.Equal(t, []int{-1, -1, -1, -1}, m.Els[0].Neighbors)
	}
}
