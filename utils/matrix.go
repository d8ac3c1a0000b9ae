package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense row-major matrix over a flat gonum buffer
type Matrix struct {
	M        *mat.Dense
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if nr <= 0 || nc <= 0 {
		panic(fmt.Errorf("invalid matrix size: NewMatrix nr,nc = %v,%v", nr, nc))
	}
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{
		m,
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

func NewIdentity(N int) (R Matrix) {
	R = NewMatrix(N, N)
	for i := 0; i < N; i++ {
		R.M.Set(i, i, 1)
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int) {
	if m.M == nil {
		return 0, 0
	}
	return m.M.Dims()
}
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }
func (m Matrix) Data() []float64           { return m.M.RawMatrix().Data }
func (m Matrix) IsEmpty() bool             { return m.M == nil }

func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m *Matrix) SetWritable() Matrix {
	m.readOnly = false
	return *m
}

func (m Matrix) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) AddAt(i, j int, val float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+val)
	return m
}

func (m Matrix) Zero() Matrix { // Changes receiver
	m.checkWritable()
	m.M.Zero()
	return m
}

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	nr, nc := m.Dims()
	R = NewMatrix(nr, nc)
	copy(R.Data(), m.Data())
	return
}

func (m Matrix) Transpose() (R Matrix) { // Does not change receiver
	nr, nc := m.Dims()
	R = NewMatrix(nc, nr)
	R.M.Copy(m.M.T())
	return
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Scale(a, m.M)
	return m
}

func (m Matrix) Add(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	m.checkSameDims("Matrix.Add", A)
	m.M.Add(m.M, A.M)
	return m
}

func (m Matrix) Subtract(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	m.checkSameDims("Matrix.Subtract", A)
	m.M.Sub(m.M, A.M)
	return m
}

func (m Matrix) checkSameDims(op string, A Matrix) {
	nr, nc := m.Dims()
	nrA, ncA := A.Dims()
	checkDim(op+" rows", nrA, nr)
	checkDim(op+" cols", ncA, nc)
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	nr, nc := m.Dims()
	nrA, ncA := A.Dims()
	checkDim("Matrix.Mul", nrA, nc)
	R = NewMatrix(nr, ncA)
	R.M.Mul(m.M, A.M)
	return
}

func (m Matrix) MulVec(v Vector) (r Vector) { // Does not change receiver
	nr, nc := m.Dims()
	checkDim("Matrix.MulVec", v.Len(), nc)
	r = NewVector(nr)
	r.V.MulVec(m.M, v.V)
	return
}

// MulTransVec returns m^T * v
func (m Matrix) MulTransVec(v Vector) (r Vector) { // Does not change receiver
	nr, nc := m.Dims()
	checkDim("Matrix.MulTransVec", v.Len(), nr)
	r = NewVector(nc)
	r.V.MulVec(m.M.T(), v.V)
	return
}

// AddOuter performs m += a * x * y^T
func (m Matrix) AddOuter(a float64, x, y Vector) Matrix { // Changes receiver
	m.checkWritable()
	nr, nc := m.Dims()
	checkDim("Matrix.AddOuter rows", x.Len(), nr)
	checkDim("Matrix.AddOuter cols", y.Len(), nc)
	m.M.RankOne(m.M, a, x.V, y.V)
	return m
}

// AddTransMul performs m += a * A^T * B
func (m Matrix) AddTransMul(a float64, A, B Matrix) Matrix { // Changes receiver
	m.checkWritable()
	nrA, ncA := A.Dims()
	nrB, ncB := B.Dims()
	nr, nc := m.Dims()
	checkDim("Matrix.AddTransMul inner", nrB, nrA)
	checkDim("Matrix.AddTransMul rows", ncA, nr)
	checkDim("Matrix.AddTransMul cols", ncB, nc)
	blas64.Gemm(blas.Trans, blas.NoTrans, a, A.RawMatrix(), B.RawMatrix(), 1, m.RawMatrix())
	return m
}

// AddSubMatrix adds A into the block of m whose upper left corner is (i0,j0)
func (m Matrix) AddSubMatrix(i0, j0 int, A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	nr, nc := m.Dims()
	nrA, ncA := A.Dims()
	if i0 < 0 || j0 < 0 || i0+nrA > nr || j0+ncA > nc {
		panic(fmt.Errorf("sub matrix [%d:%d,%d:%d] outside of %dx%d matrix",
			i0, i0+nrA, j0, j0+ncA, nr, nc))
	}
	for i := 0; i < nrA; i++ {
		for j := 0; j < ncA; j++ {
			m.M.Set(i0+i, j0+j, m.M.At(i0+i, j0+j)+A.M.At(i, j))
		}
	}
	return m
}

func (m Matrix) Row(i int) (r Vector) {
	_, nc := m.Dims()
	r = NewVector(nc)
	copy(r.Data(), m.M.RawRowView(i))
	return
}

func (m Matrix) Col(j int) (r Vector) {
	nr, _ := m.Dims()
	r = NewVector(nr)
	for i := 0; i < nr; i++ {
		r.Set(i, m.M.At(i, j))
	}
	return
}

func (m Matrix) RowSums() (r Vector) {
	nr, _ := m.Dims()
	r = NewVector(nr)
	for i := 0; i < nr; i++ {
		var sum float64
		for _, val := range m.M.RawRowView(i) {
			sum += val
		}
		r.Set(i, sum)
	}
	return
}

func (m Matrix) IsSquare() bool {
	nr, nc := m.Dims()
	return nr == nc
}

func (m Matrix) IsSymmetric(tol float64) bool {
	if !m.IsSquare() {
		return false
	}
	nr, _ := m.Dims()
	for i := 0; i < nr; i++ {
		for j := i + 1; j < nr; j++ {
			if math.Abs(m.M.At(i, j)-m.M.At(j, i)) > tol {
				return false
			}
		}
	}
	return true
}

func (m Matrix) Determinant() (det float64) {
	if !m.IsSquare() {
		nr, nc := m.Dims()
		panic(fmt.Errorf("determinant of non square %dx%d matrix", nr, nc))
	}
	d := m.Data()
	switch nr, _ := m.Dims(); nr {
	case 1:
		det = d[0]
	case 2:
		det = d[0]*d[3] - d[1]*d[2]
	case 3:
		det = d[0]*(d[4]*d[8]-d[5]*d[7]) -
			d[1]*(d[3]*d[8]-d[5]*d[6]) +
			d[2]*(d[3]*d[7]-d[4]*d[6])
	default:
		det = mat.Det(m.M)
	}
	return
}

// Weight is the measure factor of a Jacobian: its determinant when square,
// otherwise the square root of the Gram determinant of its rows
func (m Matrix) Weight() float64 {
	nr, nc := m.Dims()
	switch {
	case nr == nc:
		return m.Determinant()
	case nr == 1:
		return floats.Norm(m.Data(), 2)
	case nr == 2 && nc == 3:
		return m.CalcNormal(false).Norm()
	default:
		G := NewMatrix(nr, nr)
		G.M.Mul(m.M, m.M.T())
		return math.Sqrt(math.Abs(G.Determinant()))
	}
}

// CalcNormal returns the normal of a face from its Jacobian: the rotated
// tangent of a 1x2 Jacobian or the cross product of a 2x3 Jacobian's rows
func (m Matrix) CalcNormal(normalize bool) (n Vector) {
	nr, nc := m.Dims()
	d := m.Data()
	switch {
	case nr == 1 && nc == 2:
		n = NewVector(2, []float64{d[1], -d[0]})
	case nr == 2 && nc == 3:
		n = NewVector(3, []float64{
			d[1]*d[5] - d[2]*d[4],
			d[2]*d[3] - d[0]*d[5],
			d[0]*d[4] - d[1]*d[3],
		})
	default:
		panic(fmt.Errorf("normal undefined for a %dx%d jacobian", nr, nc))
	}
	if normalize {
		n.Scale(1. / n.Norm())
	}
	return
}

// GradToDiv flattens a dim x N gradient matrix into the dim*N divergence
// row of a vector valued field, component major
func (m Matrix) GradToDiv() (div Vector) {
	nr, nc := m.Dims()
	div = NewVector(nr * nc)
	copy(div.Data(), m.Data())
	return
}

func (m Matrix) Inverse() (R Matrix, err error) {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("unable to invert, matrix is not square: %dx%d", nr, nc)
		return
	}
	if nr <= 3 {
		return m.inverseSmall()
	}
	R = m.Copy()
	iPiv := make([]int, nr)
	if ok := lapack64.Getrf(R.RawMatrix(), iPiv); !ok {
		err = fmt.Errorf("unable to invert, matrix is singular")
		return
	}
	work := make([]float64, nr*nc)
	if ok := lapack64.Getri(R.RawMatrix(), iPiv, work, nr*nc); !ok {
		err = fmt.Errorf("unable to invert, matrix is singular")
	}
	return
}

func (m Matrix) inverseSmall() (R Matrix, err error) {
	var (
		nr, _ = m.Dims()
		det   = m.Determinant()
		d     = m.Data()
	)
	if det == 0 || math.IsNaN(det) {
		err = fmt.Errorf("unable to invert, matrix is singular")
		return
	}
	oodet := 1. / det
	R = NewMatrix(nr, nr)
	r := R.Data()
	switch nr {
	case 1:
		r[0] = oodet
	case 2:
		r[0], r[1] = d[3]*oodet, -d[1]*oodet
		r[2], r[3] = -d[2]*oodet, d[0]*oodet
	case 3:
		r[0] = (d[4]*d[8] - d[5]*d[7]) * oodet
		r[1] = (d[2]*d[7] - d[1]*d[8]) * oodet
		r[2] = (d[1]*d[5] - d[2]*d[4]) * oodet
		r[3] = (d[5]*d[6] - d[3]*d[8]) * oodet
		r[4] = (d[0]*d[8] - d[2]*d[6]) * oodet
		r[5] = (d[2]*d[3] - d[0]*d[5]) * oodet
		r[6] = (d[3]*d[7] - d[4]*d[6]) * oodet
		r[7] = (d[1]*d[6] - d[0]*d[7]) * oodet
		r[8] = (d[0]*d[4] - d[1]*d[3]) * oodet
	}
	return
}

// Solve returns x with m*x = b using an LU factorization of a copy of m
func (m Matrix) Solve(b Vector) (x Vector, err error) {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("unable to solve, matrix is not square: %dx%d", nr, nc)
		return
	}
	checkDim("Matrix.Solve", b.Len(), nr)
	LU := m.Copy()
	iPiv := make([]int, nr)
	if ok := lapack64.Getrf(LU.RawMatrix(), iPiv); !ok {
		err = fmt.Errorf("unable to solve, matrix is singular")
		return
	}
	x = b.Copy()
	B := blas64.General{Rows: nr, Cols: 1, Stride: 1, Data: x.Data()}
	lapack64.Getrs(blas.NoTrans, LU.RawMatrix(), B, iPiv)
	return
}

func (m Matrix) String() string {
	return fmt.Sprintf("%v", mat.Formatted(m.M, mat.Squeeze()))
}

func (m Matrix) Print(msgI ...string) (o string) {
	var (
		name = ""
	)
	if len(msgI) != 0 {
		name = msgI[0]
	}
	o = fmt.Sprintf("%s = \n%v\n", name, mat.Formatted(m.M, mat.Squeeze()))
	return
}
