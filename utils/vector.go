package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Vector is a dense, zero initialized vector of float64 backed by gonum
type Vector struct {
	V *mat.VecDense
}

func NewVector(N int, dataO ...[]float64) Vector {
	if N < 0 {
		panic(fmt.Errorf("negative vector size %d", N))
	}
	if N == 0 {
		return Vector{}
	}
	var data []float64
	if len(dataO) != 0 {
		checkDim("NewVector", len(dataO[0]), N)
		data = dataO[0]
	}
	return Vector{mat.NewVecDense(N, data)}
}

func (v Vector) Len() int {
	if v.V == nil {
		return 0
	}
	return v.V.Len()
}

func (v Vector) At(i int) float64 { return v.V.AtVec(i) }

// Changes receiver
func (v Vector) Set(i int, val float64) { v.V.SetVec(i, val) }

// Changes receiver
func (v Vector) AddAt(i int, val float64) {
	v.V.SetVec(i, v.V.AtVec(i)+val)
}

// Data returns the backing storage, writes show through
func (v Vector) Data() []float64 {
	if v.V == nil {
		return nil
	}
	return v.V.RawVector().Data
}

func (v Vector) Copy() Vector {
	if v.V == nil {
		return Vector{}
	}
	r := NewVector(v.Len())
	copy(r.Data(), v.Data())
	return r
}

// Changes receiver
func (v Vector) Zero() Vector {
	if v.V != nil {
		v.V.Zero()
	}
	return v
}

// Changes receiver
func (v Vector) Fill(val float64) Vector {
	d := v.Data()
	for i := range d {
		d[i] = val
	}
	return v
}

// Changes receiver
func (v Vector) Scale(a float64) Vector {
	floats.Scale(a, v.Data())
	return v
}

// AXPY performs v += a*x, Changes receiver
func (v Vector) AXPY(a float64, x Vector) Vector {
	checkDim("Vector.AXPY", x.Len(), v.Len())
	if v.Len() == 0 {
		return v
	}
	blas64.Axpy(a, x.V.RawVector(), v.V.RawVector())
	return v
}

// Changes receiver
func (v Vector) Add(x Vector) Vector {
	checkDim("Vector.Add", x.Len(), v.Len())
	floats.Add(v.Data(), x.Data())
	return v
}

// Changes receiver
func (v Vector) Subtract(x Vector) Vector {
	checkDim("Vector.Subtract", x.Len(), v.Len())
	floats.Sub(v.Data(), x.Data())
	return v
}

func (v Vector) Dot(x Vector) float64 {
	checkDim("Vector.Dot", x.Len(), v.Len())
	if v.Len() == 0 {
		return 0
	}
	return mat.Dot(v.V, x.V)
}

func (v Vector) Norm() float64 {
	if v.Len() == 0 {
		return 0
	}
	return math.Sqrt(v.Dot(v))
}

func (v Vector) Max() float64 { return floats.Max(v.Data()) }
func (v Vector) Min() float64 { return floats.Min(v.Data()) }

// Gather returns a new vector with r[i] = v[I[i]]
func (v Vector) Gather(I Index) (r Vector) {
	r = NewVector(len(I))
	rd, vd := r.Data(), v.Data()
	for i, ind := range I {
		rd[i] = vd[ind]
	}
	return
}

// ScatterAdd performs v[I[i]] += x[i], Changes receiver
func (v Vector) ScatterAdd(I Index, x Vector) Vector {
	checkDim("Vector.ScatterAdd", x.Len(), len(I))
	vd, xd := v.Data(), x.Data()
	for i, ind := range I {
		vd[ind] += xd[i]
	}
	return v
}

// OuterProduct returns the len(v) x len(x) matrix v*x^T
func (v Vector) OuterProduct(x Vector) (R Matrix) {
	R = NewMatrix(v.Len(), x.Len())
	R.M.Outer(1, v.V, x.V)
	return
}

func (v Vector) String() string {
	return fmt.Sprintf("%v", v.Data())
}
