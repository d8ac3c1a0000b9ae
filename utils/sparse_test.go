package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTridiagonal(N int) (S *SparseMatrix) {
	S = NewSparseMatrix(N, N)
	for i := 0; i < N; i++ {
		S.Add(i, i, 2)
		if i > 0 {
			S.Add(i, i-1, -1)
		}
		if i < N-1 {
			S.Add(i, i+1, -1)
		}
	}
	return
}

func TestSparseMatrix(t *testing.T) {
	{ // Lazy entry creation
		S := NewSparseMatrix(3, 3)
		assert.Equal(t, 0., S.At(1, 2))
		assert.Equal(t, 0, S.NNZ())
		S.Add(1, 2, 1.5)
		S.Add(1, 2, 1.5)
		S.Set(1, 0, -1)
		assert.Equal(t, 3., S.At(1, 2))
		assert.Equal(t, 2, S.NNZ())
		cols, vals := S.Row(1)
		assert.Equal(t, []int{0, 2}, cols)
		assert.Equal(t, []float64{-1, 3}, vals)
		assert.Panics(t, func() { S.At(3, 0) })
		assert.Panics(t, func() { S.Add(0, -1, 1) })
	}
	{ // Mult, serial and row parallel agree
		S := newTridiagonal(50)
		x := NewVector(50).Fill(1)
		y1, y2 := NewVector(50), NewVector(50)
		S.Mult(x, y1)
		S.Parallel = 4
		S.Mult(x, y2)
		assert.Equal(t, y1.Data(), y2.Data())
		assert.Equal(t, 1., y1.At(0))
		assert.Equal(t, 0., y1.At(25))
		assert.Equal(t, 1., y1.At(49))
	}
	{ // ClearNonZeros, Scale, Transpose, IsSymmetric
		S := newTridiagonal(4)
		assert.True(t, S.IsSymmetric(0))
		S.Add(0, 3, 1.e-14)
		assert.Equal(t, 11, S.NNZ())
		S.ClearNonZeros(CLEARTOL)
		assert.Equal(t, 10, S.NNZ())
		S.Add(0, 3, 1)
		assert.False(t, S.IsSymmetric(0))
		T := S.Transpose()
		assert.Equal(t, 1., T.At(3, 0))
		S.Scale(2)
		assert.Equal(t, 4., S.At(2, 2))
		assert.Equal(t, []float64{4, 4, 4, 4}, S.Diagonal().Data())
	}
	{ // Dense and CSR exports match
		S := newTridiagonal(5)
		D := S.ToDense()
		csr := S.ToCSR()
		r, c := csr.Dims()
		require.Equal(t, 5, r)
		require.Equal(t, 5, c)
		for i := 0; i < 5; i++ {
			for j := 0; j < 5; j++ {
				assert.Equal(t, D.At(i, j), csr.At(i, j))
			}
		}
		assert.Contains(t, S.Sparsity(), "nnz = 13")
	}
}

func TestSparseEliminateRowIntoRHS(t *testing.T) {
	{ // Single row
		S := newTridiagonal(4)
		A := S.ToDense()
		rhs := NewVector(4, []float64{1, 1, 1, 1})
		val := 3.
		S.EliminateRowIntoRHS(1, rhs, val)
		for j := 0; j < 4; j++ {
			exp := 0.
			if j == 1 {
				exp = 1
			}
			assert.Equal(t, exp, S.At(1, j))
			if j != 1 {
				assert.Equal(t, 0., S.At(j, 1))
			}
		}
		assert.Equal(t, val, rhs.At(1))
		for _, i := range []int{0, 2, 3} {
			assert.Equal(t, 1.-A.At(i, 1)*val, rhs.At(i))
		}
	}
	{ // A missing diagonal is created
		S := NewSparseMatrix(2, 2)
		S.Add(0, 1, 2)
		rhs := NewVector(2)
		S.EliminateRowIntoRHS(1, rhs, 1)
		assert.Equal(t, 1., S.At(1, 1))
		assert.Equal(t, -2., rhs.At(0))
	}
	{ // Batch elimination matches repeated single eliminations
		S1, S2 := newTridiagonal(6), newTridiagonal(6)
		S1.Add(0, 5, 0.5)
		S2.Add(0, 5, 0.5)
		rhs1 := NewVector(6).Fill(1)
		rhs2 := NewVector(6).Fill(1)
		rcs := []int{0, 5, 2}
		vals := []float64{1, 2, 3}
		for n, rc := range rcs {
			S1.EliminateRowIntoRHS(rc, rhs1, vals[n])
		}
		S2.EliminateRowsIntoRHS(rcs, rhs2, vals)
		assert.Equal(t, rhs1.Data(), rhs2.Data())
		assert.Equal(t, S1.ToDense().Data(), S2.ToDense().Data())
	}
}
