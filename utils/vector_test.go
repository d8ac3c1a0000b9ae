package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector(t *testing.T) {
	{ // Arithmetic is in place
		v := NewVector(3, []float64{1, 2, 3})
		w := NewVector(3, []float64{1, 1, 1})
		v.AXPY(2, w)
		assert.Equal(t, []float64{3, 4, 5}, v.Data())
		v.Subtract(w).Scale(0.5)
		assert.Equal(t, []float64{1, 1.5, 2}, v.Data())
		assert.Equal(t, 4.5, v.Dot(w))
		assert.InDelta(t, 5., NewVector(2, []float64{3, 4}).Norm(), 1.e-15)
		assert.Panics(t, func() { v.Add(NewVector(2)) })
	}
	{ // Copy is deep
		v := NewVector(2, []float64{1, 2})
		c := v.Copy()
		c.Set(0, 10)
		assert.Equal(t, 1., v.At(0))
	}
	{ // Gather and ScatterAdd through an index
		v := NewVector(5, []float64{0, 10, 20, 30, 40})
		I := Index{4, 1, 1}
		g := v.Gather(I)
		assert.Equal(t, []float64{40, 10, 10}, g.Data())
		y := NewVector(5)
		y.ScatterAdd(I, NewVector(3, []float64{1, 2, 3}))
		assert.Equal(t, []float64{0, 5, 0, 0, 1}, y.Data())
	}
	{ // Outer product
		R := NewVector(2, []float64{1, 2}).OuterProduct(NewVector(3, []float64{1, 0, -1}))
		assert.Equal(t, []float64{1, 0, -1, 2, 0, -2}, R.Data())
	}
	{ // Empty vector
		v := NewVector(0)
		assert.Equal(t, 0, v.Len())
		assert.Equal(t, 0., v.Norm())
	}
}

func TestIndex(t *testing.T) {
	assert.Equal(t, Index{0, 0, 0}, NewIndex(3))
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(3, 0, 1))
	assert.Equal(t, []float64{0.5}, Linspace(1, 0, 1))
}

func TestIsNan(t *testing.T) {
	nan := math.NaN()
	assert.True(t, IsNan(nan))
	assert.False(t, IsNan(1.))
	assert.True(t, IsNan([]float64{0, nan}))
	assert.False(t, IsNan(NewVector(3)))
	v := NewVector(3)
	v.Set(1, nan)
	assert.True(t, IsNan(v))
	assert.False(t, IsNan(Matrix{}))
	assert.False(t, IsNan("text"))
}
