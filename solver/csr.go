package solver

import (
	"github.com/james-bowman/sparse"

	"github.com/notargets/gofem/utils"
)

// CSROperator applies a compressed sparse row matrix, an alternative Mult
// for an assembled operator
type CSROperator struct {
	M *sparse.CSR
}

func NewCSROperator(S *utils.SparseMatrix) CSROperator {
	return CSROperator{M: S.ToCSR()}
}

func (op CSROperator) Height() int {
	r, _ := op.M.Dims()
	return r
}

func (op CSROperator) Width() int {
	_, c := op.M.Dims()
	return c
}

func (op CSROperator) Mult(x, y utils.Vector) {
	nr, nc := op.M.Dims()
	if x.Len() != nc {
		panic(utils.DimensionError{Op: "CSROperator.Mult x", Got: x.Len(), Exp: nc})
	}
	if y.Len() != nr {
		panic(utils.DimensionError{Op: "CSROperator.Mult y", Got: y.Len(), Exp: nr})
	}
	xd, yd := x.Data(), y.Data()
	y.Zero()
	op.M.DoNonZero(func(i, j int, v float64) {
		yd[i] += v * xd[j]
	})
}
