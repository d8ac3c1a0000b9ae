package solver

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofem/assembly"
	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/integrators"
	"github.com/notargets/gofem/mesh"
	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

type diagOp struct{ d []float64 }

func (op diagOp) Height() int { return len(op.d) }
func (op diagOp) Width() int  { return len(op.d) }
func (op diagOp) Mult(x, y utils.Vector) {
	for i, v := range op.d {
		y.Set(i, v*x.At(i))
	}
}

func poissonSystem(t *testing.T, N, order int) (*assembly.LHS, utils.Vector) {
	m := mesh.SquareMesh(N, N, types.NewPoint(0, 0), types.NewPoint(1, 1), mesh.AllDirichlet4)
	fs, err := fem.NewLagrangeSpace(m, order, 1, nil)
	require.NoError(t, err)
	lhs := assembly.NewLHS(fs)
	lhs.AddIntegrator(integrators.WeakDiffusion{})
	lhs.AddIntegrator(integrators.Mass{})
	rhs := assembly.NewRHS(fs)
	rhs.AddIntegrator(integrators.NewDomain(nil))
	lhs.ApplyDirichletBoundary(rhs.Vector, 0)
	return lhs, rhs.Vector
}

func TestCG(t *testing.T) {
	{ // Test a diagonal system
		var (
			op  = diagOp{d: []float64{1, 2, 3, 4, 5}}
			rhs = utils.NewVector(5, []float64{1, 1, 1, 1, 1})
			cg  = NewCG(1.e-10, 100)
		)
		x, err := cg.Solve(op, rhs)
		require.NoError(t, err)
		assert.True(t, cg.GetConverged())
		assert.InDeltaSlice(t, []float64{1, .5, 1. / 3, .25, .2}, x.Data(), 1.e-9)
		assert.LessOrEqual(t, cg.Iterations(), 6)
	}
	{ // Test the assembled Poisson operator converges and satisfies Ax = b
		lhs, rhs := poissonSystem(t, 4, 2)
		cg := NewCG(1.e-10, 1000)
		x, err := cg.Solve(lhs, rhs)
		require.NoError(t, err)
		res := cg.Result()
		assert.True(t, res.Converged)
		assert.Less(t, res.ResidualNorm, 1.e-10)
		assert.Greater(t, res.Iterations, 0)
		Ax := utils.NewVector(rhs.Len())
		lhs.Mult(x, Ax)
		assert.InDeltaSlice(t, rhs.Data(), Ax.Data(), 1.e-9)
	}
	{ // Test running out of iterations is reported, not returned as an error
		lhs, rhs := poissonSystem(t, 4, 2)
		cg := NewCG(1.e-14, 1)
		x, err := cg.Solve(lhs, rhs)
		require.NoError(t, err)
		assert.False(t, cg.GetConverged())
		assert.Equal(t, 1, cg.Iterations())
		assert.Equal(t, rhs.Len(), x.Len())
	}
	{ // Test a zero right hand side needs no iterations
		cg := NewCG(1.e-10, 10)
		x, err := cg.Solve(diagOp{d: []float64{2, 3}}, utils.NewVector(2))
		require.NoError(t, err)
		assert.True(t, cg.GetConverged())
		assert.Equal(t, 0, cg.Iterations())
		assert.Equal(t, []float64{0, 0}, x.Data())
	}
	{ // Test breakdown on a zero operator
		cg := NewCG(1.e-10, 10)
		_, err := cg.Solve(diagOp{d: []float64{0, 0}}, utils.NewVector(2, []float64{1, 1}))
		assert.Error(t, err)
		assert.False(t, cg.GetConverged())
	}
	{ // Test a NaN in the operator stops the iteration with an error
		cg := NewCG(1.e-10, 10)
		_, err := cg.Solve(diagOp{d: []float64{math.NaN(), 1}}, utils.NewVector(2, []float64{1, 1}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NaN at iteration 0")
		assert.False(t, cg.GetConverged())
		assert.Equal(t, 1, cg.Iterations())
	}
	{ // Test a NaN right hand side is rejected before iterating
		cg := NewCG(1.e-10, 10)
		_, err := cg.Solve(diagOp{d: []float64{1, 1}}, utils.NewVector(2, []float64{math.NaN(), 1}))
		assert.Error(t, err)
		assert.Equal(t, 0, cg.Iterations())
	}
	{ // Test size checks
		cg := NewCG(1.e-10, 10)
		assert.Panics(t, func() { _, _ = cg.Solve(diagOp{d: []float64{1, 1}}, utils.NewVector(3)) })
	}
}

func TestCSROperator(t *testing.T) {
	var (
		lhs, rhs = poissonSystem(t, 3, 2)
		op       = NewCSROperator(lhs.SparseMatrix)
		rng      = rand.New(rand.NewSource(7))
		N        = lhs.Height()
	)
	{ // Test the CSR product matches the row storage product
		assert.Equal(t, N, op.Height())
		assert.Equal(t, N, op.Width())
		x := utils.NewVector(N)
		for i := 0; i < N; i++ {
			x.Set(i, rng.Float64())
		}
		y1, y2 := utils.NewVector(N), utils.NewVector(N)
		y2.Fill(3) // Mult overwrites
		lhs.Mult(x, y1)
		op.Mult(x, y2)
		assert.InDeltaSlice(t, y1.Data(), y2.Data(), 1.e-13)
		assert.Panics(t, func() { op.Mult(utils.NewVector(N+1), y2) })
	}
	{ // Test both operators give the same solution
		x1, err := NewCG(1.e-11, 1000).Solve(lhs, rhs)
		require.NoError(t, err)
		x2, err := NewCG(1.e-11, 1000).Solve(op, rhs)
		require.NoError(t, err)
		assert.InDeltaSlice(t, x1.Data(), x2.Data(), 1.e-9)
	}
}
