package assembly

import (
	"fmt"

	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/integrators"
	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

// LHS is the globally assembled sparse operator of one space
type LHS struct {
	*utils.SparseMatrix
	Space *fem.FESpace
}

func NewLHS(fs *fem.FESpace) (lhs *LHS) {
	lhs = &LHS{
		SparseMatrix: utils.NewSparseMatrix(fs.VSize(), fs.VSize()),
		Space:        fs,
	}
	lhs.Parallel = utils.DefaultParallelDegree()
	return
}

// localMatrices evaluates f for every element over the partition map
func localMatrices(parallel, nel int, f func(e int) utils.Matrix) (locals []utils.Matrix) {
	locals = make([]utils.Matrix, nel)
	utils.NewPartitionMap(parallel, nel).Run(func(bn, kMin, kMax int) {
		for e := kMin; e < kMax; e++ {
			locals[e] = f(e)
		}
	})
	return
}

// AddIntegrator computes element matrices concurrently and scatters them
// into the global matrix from a single goroutine
func (lhs *LHS) AddIntegrator(integ integrators.BilinearIntegrator) {
	var (
		fs = lhs.Space
	)
	locals := localMatrices(lhs.Parallel, fs.NumEls(), func(e int) utils.Matrix {
		return integ.Assemble(fs.El(e), fs.Quad)
	})
	for e, local := range locals {
		vdofs := fs.GetVDofs(e)
		lhs.AddSubMatrix(vdofs, vdofs, local)
	}
}

// AddFaceIntegrator visits every face of every element, interior faces are
// seen once from each side
func (lhs *LHS) AddFaceIntegrator(integ integrators.FaceIntegrator) {
	var (
		fs = lhs.Space
	)
	for e, el := range fs.Els {
		for f := 0; f < el.NumFaces(); f++ {
			var (
				ft    = fs.GetFaceTransformations(e, f)
				nb    *fem.Element
				rows  = fs.GetVDofs(e)
				cols  = rows
				local utils.Matrix
			)
			if !ft.IsBoundary() {
				nb = fs.El(ft.Neighbor)
				cols = append(append(utils.Index{}, rows...), fs.GetVDofs(ft.Neighbor)...)
			}
			local = integ.AssembleFace(el, nb, ft, fs.Quad)
			for i, gi := range rows {
				for j, gj := range cols {
					if v := local.At(i, j); v != 0 {
						lhs.Add(gi, gj, v)
					}
				}
			}
		}
	}
}

// ApplyDirichletBoundary eliminates every Dirichlet boundary dof into rhs
func (lhs *LHS) ApplyDirichletBoundary(rhs utils.Vector, val float64) {
	var (
		fs   = lhs.Space
		vdim = fs.VDim()
		rcs  []int
	)
	for i := 0; i < fs.NumBdrNodes(); i++ {
		n := fs.BdrNode(i)
		if n.BC != types.DIRICHLET {
			continue
		}
		for d := 0; d < vdim; d++ {
			rcs = append(rcs, vdim*n.GlobalID+d)
		}
	}
	vals := make([]float64, len(rcs))
	for i := range vals {
		vals[i] = val
	}
	lhs.EliminateRowsIntoRHS(rcs, rhs, vals)
	lhs.ClearNonZeros(utils.CLEARTOL)
}

// MixedLHS maps trial space dofs to test space rows
type MixedLHS struct {
	*utils.SparseMatrix
	Trial, Test *fem.FESpace
}

func NewMixedLHS(trial, test *fem.FESpace) (m *MixedLHS, err error) {
	if trial.NumEls() != test.NumEls() {
		err = fmt.Errorf("trial space has %d elements, test space %d", trial.NumEls(), test.NumEls())
		return
	}
	m = &MixedLHS{
		SparseMatrix: utils.NewSparseMatrix(test.VSize(), trial.VSize()),
		Trial:        trial,
		Test:         test,
	}
	m.Parallel = utils.DefaultParallelDegree()
	return
}

func (m *MixedLHS) AddIntegrator(integ integrators.MixedBilinearIntegrator) {
	locals := localMatrices(m.Parallel, m.Trial.NumEls(), func(e int) utils.Matrix {
		return integ.MixedAssemble(m.Trial.El(e), m.Test.El(e), m.Trial.Quad)
	})
	for e, local := range locals {
		m.AddSubMatrix(m.Test.GetVDofs(e), m.Trial.GetVDofs(e), local)
	}
}
