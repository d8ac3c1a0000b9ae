package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	{ // Test studies are grouped, sorted and fitted
		input := `Title,Order,N,L2Error
poisson,2,4,8.e-3
poisson,1,4,0.04
poisson,1,8,0.01
poisson,2,8,1.e-3
poisson,1,16,0.0025
`
		studies, err := readCSV(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, studies, 2)
		assert.Equal(t, 1, studies[0].Order)
		assert.Equal(t, []int{4, 8, 16}, studies[0].Ns)
		assert.InDelta(t, 2, studies[0].Rate, 1.e-12)
		assert.Equal(t, 2, studies[1].Order)
		assert.InDelta(t, 3, studies[1].Rate, 1.e-12)
	}
	{ // Test malformed input
		for _, bad := range []string{
			"Title,Order,N,L2Error\npoisson,1,4\n",
			"Title,Order,N,L2Error\npoisson,one,4,0.1\npoisson,1,8,0.1\n",
			"Title,Order,N,L2Error\npoisson,1,4,0.1\n",
		} {
			_, err := readCSV(strings.NewReader(bad))
			assert.Error(t, err)
		}
	}
}
