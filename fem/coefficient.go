package fem

import (
	"fmt"

	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

// Coefficient is a scalar field evaluated at physical points
type Coefficient interface {
	Eval(x types.Point) float64
}

// VectorCoefficient is a vector field evaluated at physical points
type VectorCoefficient interface {
	Dim() int
	Eval(x types.Point) utils.Vector
}

// EvalRef evaluates c at the physical image of the reference point xRef
func EvalRef(c Coefficient, trans *ElTrans, xRef types.Point) float64 {
	return c.Eval(trans.Transform(xRef))
}

func EvalVectorRef(c VectorCoefficient, trans *ElTrans, xRef types.Point) utils.Vector {
	return c.Eval(trans.Transform(xRef))
}

type ConstantCoefficient float64

func (c ConstantCoefficient) Eval(types.Point) float64 { return float64(c) }

type FunctionCoefficient func(x types.Point) float64

func (f FunctionCoefficient) Eval(x types.Point) float64 { return f(x) }

type ProductCoefficient struct {
	A, B Coefficient
}

func NewProductCoefficient(a, b Coefficient) ProductCoefficient {
	return ProductCoefficient{A: a, B: b}
}

func (p ProductCoefficient) Eval(x types.Point) float64 { return p.A.Eval(x) * p.B.Eval(x) }

type VectorConstantCoefficient struct {
	v []float64
}

func NewVectorConstantCoefficient(v ...float64) VectorConstantCoefficient {
	if len(v) == 0 {
		panic(fmt.Errorf("vector coefficient needs at least one component"))
	}
	return VectorConstantCoefficient{v: append([]float64{}, v...)}
}

func (c VectorConstantCoefficient) Dim() int { return len(c.v) }

// Eval returns a fresh copy, callers may modify it
func (c VectorConstantCoefficient) Eval(types.Point) utils.Vector {
	return utils.NewVector(len(c.v), append([]float64{}, c.v...))
}

type VectorFunctionCoefficient struct {
	dim int
	f   func(x types.Point, v []float64)
}

// NewVectorFunctionCoefficient wraps f, which fills the dim components of v at x
func NewVectorFunctionCoefficient(dim int, f func(x types.Point, v []float64)) VectorFunctionCoefficient {
	if dim < 1 {
		panic(fmt.Errorf("vector coefficient dimension must be positive, have %d", dim))
	}
	return VectorFunctionCoefficient{dim: dim, f: f}
}

func (c VectorFunctionCoefficient) Dim() int { return c.dim }

func (c VectorFunctionCoefficient) Eval(x types.Point) utils.Vector {
	v := make([]float64, c.dim)
	c.f(x, v)
	return utils.NewVector(c.dim, v)
}
