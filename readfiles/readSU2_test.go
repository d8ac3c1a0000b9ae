package readfiles

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofem/types"
)

var markers = map[string]types.BCType{
	"periodic-left":  types.NEUMANN,
	"periodic-right": types.NEUMANN,
	"top":            types.DIRICHLET,
	"bottom":         types.DIRICHLET,
}

func TestReadSU2(t *testing.T) {
	{ // Test reading elements, vertices and markers
		m, err := ParseSU2(bytes.NewReader(inputFile), markers, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, m.Dim)
		assert.Equal(t, 22, m.NumEls())
		assert.Equal(t, 18, m.NumNodes())
		assert.Equal(t, 17, m.Els[21].Nodes[2])
		assert.Equal(t, types.TRI, m.Els[0].Geom)
		assert.Equal(t, -7.100939331382065, m.Nodes[17].X[0])
		assert.Equal(t, 2.889910324036197, m.Nodes[17].X[1])
		assert.Equal(t, 12, m.NumBdrEls())
		assert.Equal(t, types.NEUMANN, m.BdrEls[0].BC())
		assert.Equal(t, types.DIRICHLET, m.BdrEls[11].BC())
		// node 11 sits on the left side only, node 3 is a corner shared with the top
		assert.Equal(t, types.NEUMANN, m.Nodes[11].BC)
		assert.Equal(t, types.DIRICHLET, m.Nodes[3].BC)
		assert.Equal(t, types.INTERIOR, m.Nodes[12].BC)
		var nBdrFaces int
		for _, el := range m.Els {
			for _, nb := range el.Neighbors {
				if nb == -1 {
					nBdrFaces++
				}
			}
		}
		assert.Equal(t, m.NumBdrEls(), nBdrFaces)
	}
	{ // Test an unmapped marker
		_, err := ParseSU2(bytes.NewReader(inputFile), map[string]types.BCType{"top": types.DIRICHLET}, 0)
		assert.Error(t, err)
	}
	{ // Test triangles cannot be refined
		assert.Panics(t, func() { _, _ = ParseSU2(bytes.NewReader(inputFile), markers, 1) })
	}
	{ // Test truncated input
		_, err := ParseSU2(bytes.NewReader(inputFile[:400]), markers, 0)
		assert.Error(t, err)
	}
}

var (
	inputFile = []byte(` %This is an example input file in SU2 format, output from gmsh
% Comments can appear outside of data areas
NDIME= 2
% Comments can appear outside of data areas
NELEM= 22
5 5 6 13 0
5 9 10 12 1
5 12 5 13 2
5 9 12 13 3
5 13 6 14 4
5 12 10 15 5
5 8 9 13 6
5 4 5 12 7
5 1 7 14 8
5 6 1 14 9
5 3 11 15 10
5 10 3 15 11
5 8 13 16 12
5 4 12 17 13
5 13 14 16 14
5 12 15 17 15
5 7 2 16 16
5 11 0 17 17
5 2 8 16 18
5 0 4 17 19
5 14 7 16 20
5 15 11 17 21
% Comments can appear outside of data areas
NPOIN= 18
-10 0 0
10 0 1
10 10 2
-10 10 3
-5.000000000004944 0 4
-1.231725832440134e-11 0 5
4.99999999999384 0 6
10 4.999999999992398 7
5.000000000004944 10 8
1.231725832440134e-11 10 9
-4.99999999999384 10 10
-10 5 11
-2.500000000008632 4.330127018915808 12
2.50000000000863 5.669872981084192 13
6.712741669205853 3.668411415814691 14
-6.712741669205681 6.331588584184096 15
7.100939331384343 7.110089675963254 16
-7.100939331382065 2.889910324036197 17
NMARK= 4
% Comments can appear outside of data areas
MARKER_TAG= periodic-left
% Comments can appear outside of data areas
MARKER_ELEMS= 2
3 3 11
3 11 0
% Comments can appear outside of data areas
MARKER_TAG= periodic-right
MARKER_ELEMS= 2
3 1 7
3 7 2
% Comments can appear outside of data areas
MARKER_TAG= top
MARKER_ELEMS= 4
3 2 8
3 8 9
3 9 10
3 10 3
MARKER_TAG= bottom
% Comments can appear outside of data areas
MARKER_ELEMS= 4
3 0 4
3 4 5
3 5 6
3 6 1
% Comments can appear outside of data areas
`)
)
