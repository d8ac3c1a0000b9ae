package quadrature

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofem/types"
)

func TestJacobi(t *testing.T) {
	{ // Test Gauss-Legendre points against known values
		x, w := Legendre1D(2)
		assert.InDeltaSlice(t, []float64{-1 / math.Sqrt(3), 1 / math.Sqrt(3)}, x, 1.e-12)
		assert.InDeltaSlice(t, []float64{1, 1}, w, 1.e-12)
		x, w = Legendre1D(3)
		assert.InDelta(t, -math.Sqrt(0.6), x[0], 1.e-12)
		assert.InDelta(t, 0., x[1], 1.e-12)
		assert.InDelta(t, 8./9., w[1], 1.e-12)
	}
	{ // Test Gauss-Legendre exactness to degree 2n-1
		for n := 1; n <= 8; n++ {
			x, w := Legendre1D(n)
			for deg := 0; deg <= 2*n-1; deg++ {
				var sum float64
				for i := range x {
					sum += w[i] * math.Pow(x[i], float64(deg))
				}
				assert.InDelta(t, monomialLine(deg), sum, 1.e-12, "n=%d deg=%d", n, deg)
			}
		}
	}
	{ // Test Gauss-Lobatto end points, weights and exactness to degree 2n-3
		for n := 2; n <= 7; n++ {
			x, w := Lobatto1D(n)
			assert.InDelta(t, -1., x[0], 1.e-14)
			assert.InDelta(t, 1., x[n-1], 1.e-14)
			var wsum float64
			for _, wi := range w {
				wsum += wi
			}
			assert.InDelta(t, 2., wsum, 1.e-12)
			for deg := 0; deg <= 2*n-3; deg++ {
				var sum float64
				for i := range x {
					sum += w[i] * math.Pow(x[i], float64(deg))
				}
				assert.InDelta(t, monomialLine(deg), sum, 1.e-12, "n=%d deg=%d", n, deg)
			}
		}
	}
	{ // Test LegendreP
		assert.InDelta(t, 1., LegendreP(0, 0.3), 1.e-15)
		assert.InDelta(t, 0.3, LegendreP(1, 0.3), 1.e-15)
		assert.InDelta(t, 0.5*(3*0.09-1), LegendreP(2, 0.3), 1.e-15)
		assert.InDelta(t, 1., LegendreP(5, 1.), 1.e-14)
	}
}

func TestRules(t *testing.T) {
	{ // Test tensor rules on the quad and hex
		r, err := NewRule(types.QUAD, 3, Legendre)
		require.NoError(t, err)
		assert.Equal(t, 9, r.NumPoints())
		x, _ := Legendre1D(3)
		assert.InDelta(t, x[0], r.Points[1][0], 1.e-15)
		assert.InDelta(t, x[1], r.Points[1][1], 1.e-15)
		var sum float64
		for q, p := range r.Points {
			sum += r.Weights[q] * math.Pow(p[0], 4) * math.Pow(p[1], 2)
		}
		assert.InDelta(t, monomialLine(4)*monomialLine(2), sum, 1.e-12)

		r, err = NewRule(types.HEX, 2, Lobatto)
		require.NoError(t, err)
		assert.Equal(t, 8, r.NumPoints())
		sum = 0
		for _, w := range r.Weights {
			sum += w
		}
		assert.InDelta(t, 8., sum, 1.e-12)
	}
	{ // Test triangle rules integrate monomials x^a y^b exactly up to their degree
		for _, order := range []int{1, 4, 6, 10} {
			r, err := NewRule(types.TRI, order, Legendre)
			require.NoError(t, err)
			for a := 0; a <= order; a++ {
				for b := 0; a+b <= order; b++ {
					var sum float64
					for q, p := range r.Points {
						sum += r.Weights[q] * math.Pow(p[0], float64(a)) * math.Pow(p[1], float64(b))
					}
					assert.InDelta(t, monomialTri(a, b), sum, 1.e-12, "order=%d a=%d b=%d", order, a, b)
				}
			}
		}
		r, _ := NewRule(types.TRI, 3, Legendre)
		assert.Equal(t, 6, r.NumPoints())
		r, _ = NewRule(types.TRI, 5, Legendre)
		assert.Equal(t, 12, r.NumPoints())
	}
	{ // Test unsupported requests
		_, err := NewRule(types.TRI, 2, Lobatto)
		assert.Error(t, err)
		_, err = NewRule(types.QUAD, 2, Family(9))
		assert.Error(t, err)
		_, err = NewRule(types.PYR, 2, Legendre)
		assert.Error(t, err)
		_, err = NewFamily("simpson")
		assert.Error(t, err)
		f, err := NewFamily(" Lobatto")
		assert.NoError(t, err)
		assert.Equal(t, Lobatto, f)
		assert.Equal(t, "Legendre", Legendre.String())
	}
}

func TestCache(t *testing.T) {
	{ // Test repeated requests return the same rule
		c := NewCache()
		r1, err := c.Get(types.QUAD, 4, Legendre)
		require.NoError(t, err)
		r2, err := c.Get(types.QUAD, 4, Legendre)
		require.NoError(t, err)
		assert.True(t, r1 == r2)
		r3 := c.MustGet(types.QUAD, 4, Lobatto)
		assert.False(t, r1 == r3)
		assert.Equal(t, 2, c.Len())
	}
	{ // Test concurrent first time population yields one rule per key
		c := NewCache()
		var (
			wg    sync.WaitGroup
			rules = make([]*Rule, 16)
		)
		for i := range rules {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rules[i] = c.MustGet(types.HEX, 3, Legendre)
			}(i)
		}
		wg.Wait()
		for _, r := range rules {
			assert.True(t, r == rules[0])
		}
		assert.Equal(t, 1, c.Len())
	}
	{ // Test errors are not cached
		c := NewCache()
		_, err := c.Get(types.TRI, 2, Lobatto)
		assert.Error(t, err)
		assert.Equal(t, 0, c.Len())
		assert.Panics(t, func() { c.MustGet(types.TRI, 2, Lobatto) })
	}
}

func monomialLine(deg int) float64 {
	if deg%2 == 1 {
		return 0
	}
	return 2. / float64(deg+1)
}

// integral of x^a y^b over the reference triangle is a! b! / (a+b+2)!
func monomialTri(a, b int) float64 {
	return fact(a) * fact(b) / fact(a+b+2)
}

func fact(n int) float64 {
	f := 1.
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
