package assembly

import (
	"fmt"
	"sync"

	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/integrators"
	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

/*
FEMatrix keeps the operator as one dense matrix per element, indexed by the
element's vector dofs. It is never assembled globally: Mult gathers, applies
each local matrix and scatter adds the products.
*/
type FEMatrix struct {
	Space    *fem.FESpace
	Parallel int // parallel degree of AddIntegrator and Mult
	data     []utils.Matrix
	mu       sync.Mutex
}

func NewFEMatrix(fs *fem.FESpace) (fm *FEMatrix) {
	fm = &FEMatrix{
		Space:    fs,
		Parallel: utils.DefaultParallelDegree(),
		data:     make([]utils.Matrix, fs.NumEls()),
	}
	for e := range fm.data {
		n := len(fs.GetVDofs(e))
		fm.data[e] = utils.NewMatrix(n, n)
	}
	return
}

func (fm *FEMatrix) Height() int                      { return fm.Space.VSize() }
func (fm *FEMatrix) Width() int                       { return fm.Space.VSize() }
func (fm *FEMatrix) ElementMatrix(e int) utils.Matrix { return fm.data[e] }

func (fm *FEMatrix) run(f func(e int)) {
	utils.NewPartitionMap(fm.Parallel, len(fm.data)).Run(func(bn, kMin, kMax int) {
		for e := kMin; e < kMax; e++ {
			f(e)
		}
	})
}

// AddIntegrator accumulates the integrator's element matrices
func (fm *FEMatrix) AddIntegrator(integ integrators.BilinearIntegrator) {
	fm.run(func(e int) {
		fm.data[e].Add(integ.Assemble(fm.Space.El(e), fm.Space.Quad))
	})
}

// Mult computes y = A*x
func (fm *FEMatrix) Mult(x, y utils.Vector) {
	if x.Len() != fm.Width() || y.Len() != fm.Height() {
		panic(fmt.Errorf("FEMatrix.Mult: %d x %d operator applied to %d, result %d",
			fm.Height(), fm.Width(), x.Len(), y.Len()))
	}
	y.Zero()
	fm.run(func(e int) {
		vdofs := fm.Space.GetVDofs(e)
		prod := fm.data[e].MulVec(x.Gather(vdofs))
		fm.mu.Lock()
		y.ScatterAdd(vdofs, prod)
		fm.mu.Unlock()
	})
}

// dirichlet calls f for every local dof of element e on a Dirichlet node
func (fm *FEMatrix) dirichlet(e int, f func(k int)) {
	el := fm.Space.El(e)
	N := el.NumNodes()
	for k := range fm.Space.GetVDofs(e) {
		if el.Nodes[k%N].BC == types.DIRICHLET {
			f(k)
		}
	}
}

/*
ApplyDirichletBoundary fixes every Dirichlet dof to val. Columns are moved
into rhs first, then the rows and columns are zeroed, then a single element
per dof receives the unit diagonal so the assembled diagonal is exactly one.
*/
func (fm *FEMatrix) ApplyDirichletBoundary(rhs utils.Vector, val float64) {
	if rhs.Len() != fm.Height() {
		panic(utils.DimensionError{Op: "FEMatrix.ApplyDirichletBoundary", Got: rhs.Len(), Exp: fm.Height()})
	}
	var (
		nel  = len(fm.data)
		seen = make([]bool, fm.Height())
	)
	for e := 0; e < nel; e++ {
		vdofs, elmat := fm.Space.GetVDofs(e), fm.data[e]
		fm.dirichlet(e, func(k int) {
			for i, g := range vdofs {
				rhs.AddAt(g, -val*elmat.At(i, k))
			}
		})
	}
	for e := 0; e < nel; e++ {
		elmat := fm.data[e]
		n, _ := elmat.Dims()
		fm.dirichlet(e, func(k int) {
			for i := 0; i < n; i++ {
				elmat.Set(i, k, 0)
				elmat.Set(k, i, 0)
			}
		})
	}
	for e := 0; e < nel; e++ {
		vdofs, elmat := fm.Space.GetVDofs(e), fm.data[e]
		fm.dirichlet(e, func(k int) {
			if !seen[vdofs[k]] {
				elmat.Set(k, k, 1)
				seen[vdofs[k]] = true
			}
		})
	}
	for e := 0; e < nel; e++ {
		vdofs := fm.Space.GetVDofs(e)
		fm.dirichlet(e, func(k int) {
			rhs.Set(vdofs[k], val)
		})
	}
}

func (fm *FEMatrix) ConvertToSparseMatrix() (S *utils.SparseMatrix) {
	S = utils.NewSparseMatrix(fm.Height(), fm.Width())
	for e, elmat := range fm.data {
		vdofs := fm.Space.GetVDofs(e)
		S.AddSubMatrix(vdofs, vdofs, elmat)
	}
	return
}

func (fm *FEMatrix) GetDiagonal() (diag utils.Vector) {
	diag = utils.NewVector(fm.Height())
	for e, elmat := range fm.data {
		for i, g := range fm.Space.GetVDofs(e) {
			diag.AddAt(g, elmat.At(i, i))
		}
	}
	return
}

// DiagonalPrecondition scales entry (i,j) by 1/(d_i d_j), pass the square
// root of the diagonal for a symmetric Jacobi scaling
func (fm *FEMatrix) DiagonalPrecondition(d utils.Vector) {
	if d.Len() != fm.Height() {
		panic(utils.DimensionError{Op: "FEMatrix.DiagonalPrecondition", Got: d.Len(), Exp: fm.Height()})
	}
	for e, elmat := range fm.data {
		vdofs := fm.Space.GetVDofs(e)
		for i, gi := range vdofs {
			for j, gj := range vdofs {
				elmat.Set(i, j, elmat.At(i, j)/(d.At(gi)*d.At(gj)))
			}
		}
	}
}

// Sub subtracts A element by element, both must live on the same space
func (fm *FEMatrix) Sub(A *FEMatrix) {
	if A.Space != fm.Space {
		panic(fmt.Errorf("FEMatrix.Sub: operands are defined on different spaces"))
	}
	for e := range fm.data {
		fm.data[e].Subtract(A.data[e])
	}
}
