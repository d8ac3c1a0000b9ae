package utils

import (
	"fmt"
	"math"
	"sort"

	"github.com/james-bowman/sparse"
)

// SparseMatrix stores each row as parallel, column sorted arrays of
// (column, value). Entries are created on first write and absent entries
// read as zero. Writes to one row are not safe for concurrent use.
type SparseMatrix struct {
	nr, nc   int
	cols     [][]int
	vals     [][]float64
	Parallel int // row parallel degree used by Mult
}

func NewSparseMatrix(nr, nc int) (S *SparseMatrix) {
	if nr < 0 || nc < 0 {
		panic(fmt.Errorf("invalid sparse matrix size %dx%d", nr, nc))
	}
	S = &SparseMatrix{
		nr:       nr,
		nc:       nc,
		cols:     make([][]int, nr),
		vals:     make([][]float64, nr),
		Parallel: 1,
	}
	return
}

func (S *SparseMatrix) Dims() (r, c int) { return S.nr, S.nc }
func (S *SparseMatrix) Height() int      { return S.nr }
func (S *SparseMatrix) Width() int       { return S.nc }

func (S *SparseMatrix) checkRange(i, j int) {
	if i < 0 || i >= S.nr || j < 0 || j >= S.nc {
		panic(fmt.Errorf("index (%d,%d) out of range for %dx%d sparse matrix",
			i, j, S.nr, S.nc))
	}
}

func (S *SparseMatrix) find(i, j int) (pos int, found bool) {
	row := S.cols[i]
	pos = sort.SearchInts(row, j)
	found = pos < len(row) && row[pos] == j
	return
}

// entry returns the position of (i,j) in row i, creating a zero entry if absent
func (S *SparseMatrix) entry(i, j int) (pos int) {
	var found bool
	S.checkRange(i, j)
	if pos, found = S.find(i, j); found {
		return
	}
	S.cols[i] = append(S.cols[i], 0)
	S.vals[i] = append(S.vals[i], 0)
	copy(S.cols[i][pos+1:], S.cols[i][pos:])
	copy(S.vals[i][pos+1:], S.vals[i][pos:])
	S.cols[i][pos], S.vals[i][pos] = j, 0
	return
}

// At never creates an entry
func (S *SparseMatrix) At(i, j int) float64 {
	S.checkRange(i, j)
	if pos, found := S.find(i, j); found {
		return S.vals[i][pos]
	}
	return 0
}

func (S *SparseMatrix) Has(i, j int) bool {
	S.checkRange(i, j)
	_, found := S.find(i, j)
	return found
}

func (S *SparseMatrix) Set(i, j int, val float64) { // Changes receiver
	S.vals[i][S.entry(i, j)] = val
}

func (S *SparseMatrix) Add(i, j int, val float64) { // Changes receiver
	S.vals[i][S.entry(i, j)] += val
}

// AddSubMatrix scatters A into the rows I and columns J
func (S *SparseMatrix) AddSubMatrix(I, J Index, A Matrix) { // Changes receiver
	nr, nc := A.Dims()
	checkDim("SparseMatrix.AddSubMatrix rows", len(I), nr)
	checkDim("SparseMatrix.AddSubMatrix cols", len(J), nc)
	for ii, i := range I {
		row := A.M.RawRowView(ii)
		for jj, j := range J {
			S.Add(i, j, row[jj])
		}
	}
}

// Row returns the stored column indices and values of row i, not copies
func (S *SparseMatrix) Row(i int) (cols []int, vals []float64) {
	return S.cols[i], S.vals[i]
}

func (S *SparseMatrix) NNZ() (nnz int) {
	for i := range S.cols {
		nnz += len(S.cols[i])
	}
	return
}

// Mult computes y = S*x, splitting rows over Parallel goroutines
func (S *SparseMatrix) Mult(x, y Vector) {
	checkDim("SparseMatrix.Mult x", x.Len(), S.nc)
	checkDim("SparseMatrix.Mult y", y.Len(), S.nr)
	var (
		xd, yd = x.Data(), y.Data()
	)
	NewPartitionMap(S.Parallel, S.nr).Run(func(bn, iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			var sum float64
			for p, j := range S.cols[i] {
				sum += S.vals[i][p] * xd[j]
			}
			yd[i] = sum
		}
	})
}

func (S *SparseMatrix) Scale(a float64) { // Changes receiver
	for i := range S.vals {
		for p := range S.vals[i] {
			S.vals[i][p] *= a
		}
	}
}

// ClearNonZeros removes entries with magnitude below tol
func (S *SparseMatrix) ClearNonZeros(tol float64) { // Changes receiver
	for i := range S.cols {
		var n int
		for p, j := range S.cols[i] {
			if math.Abs(S.vals[i][p]) >= tol {
				S.cols[i][n], S.vals[i][n] = j, S.vals[i][p]
				n++
			}
		}
		S.cols[i], S.vals[i] = S.cols[i][:n], S.vals[i][:n]
	}
}

// EliminateRowIntoRHS enforces x[rc] = val: column rc is moved into rhs,
// row rc becomes the identity row and rhs[rc] is set to val
func (S *SparseMatrix) EliminateRowIntoRHS(rc int, rhs Vector, val float64) {
	checkDim("SparseMatrix.EliminateRowIntoRHS", rhs.Len(), S.nr)
	S.entry(rc, rc)
	for i := range S.cols {
		if pos, found := S.find(i, rc); found {
			rhs.AddAt(i, -S.vals[i][pos]*val)
			S.vals[i][pos] = 0
		}
	}
	S.setIdentityRow(rc)
	rhs.Set(rc, val)
}

// EliminateRowsIntoRHS applies EliminateRowIntoRHS for every rcs[n], vals[n]
// pair in order, locating the affected entries with a single scan
func (S *SparseMatrix) EliminateRowsIntoRHS(rcs []int, rhs Vector, vals []float64) {
	checkDim("SparseMatrix.EliminateRowsIntoRHS", len(vals), len(rcs))
	checkDim("SparseMatrix.EliminateRowsIntoRHS rhs", rhs.Len(), S.nr)
	type loc struct{ row, pos int }
	var (
		colRows = make(map[int][]loc, len(rcs))
	)
	for _, rc := range rcs {
		S.entry(rc, rc)
		colRows[rc] = nil
	}
	for i := range S.cols {
		for p, j := range S.cols[i] {
			if _, ok := colRows[j]; ok {
				colRows[j] = append(colRows[j], loc{i, p})
			}
		}
	}
	for n, rc := range rcs {
		val := vals[n]
		for _, l := range colRows[rc] {
			rhs.AddAt(l.row, -S.vals[l.row][l.pos]*val)
			S.vals[l.row][l.pos] = 0
		}
		S.setIdentityRow(rc)
		rhs.Set(rc, val)
	}
}

func (S *SparseMatrix) setIdentityRow(rc int) {
	for p, j := range S.cols[rc] {
		if j == rc {
			S.vals[rc][p] = 1
		} else {
			S.vals[rc][p] = 0
		}
	}
}

func (S *SparseMatrix) Diagonal() (d Vector) {
	N := S.nr
	if S.nc < N {
		N = S.nc
	}
	d = NewVector(N)
	for i := 0; i < N; i++ {
		d.Set(i, S.At(i, i))
	}
	return
}

func (S *SparseMatrix) Transpose() (T *SparseMatrix) {
	T = NewSparseMatrix(S.nc, S.nr)
	T.Parallel = S.Parallel
	// Visiting rows in order appends columns of T already sorted
	for i := range S.cols {
		for p, j := range S.cols[i] {
			T.cols[j] = append(T.cols[j], i)
			T.vals[j] = append(T.vals[j], S.vals[i][p])
		}
	}
	return
}

func (S *SparseMatrix) IsSymmetric(tol float64) bool {
	if S.nr != S.nc {
		return false
	}
	for i := range S.cols {
		for p, j := range S.cols[i] {
			if math.Abs(S.vals[i][p]-S.At(j, i)) > tol {
				return false
			}
		}
	}
	return true
}

func (S *SparseMatrix) ToDense() (R Matrix) {
	R = NewMatrix(S.nr, S.nc)
	for i := range S.cols {
		for p, j := range S.cols[i] {
			R.M.Set(i, j, S.vals[i][p])
		}
	}
	return
}

// ToCSR exports the matrix in compressed sparse row form
func (S *SparseMatrix) ToCSR() (csr *sparse.CSR) {
	dok := sparse.NewDOK(S.nr, S.nc)
	for i := range S.cols {
		for p, j := range S.cols[i] {
			if S.vals[i][p] != 0 {
				dok.Set(i, j, S.vals[i][p])
			}
		}
	}
	csr = dok.ToCSR()
	return
}

func (S *SparseMatrix) Sparsity() string {
	var (
		nnz     = S.NNZ()
		maxRow  int
		density float64
	)
	for i := range S.cols {
		if len(S.cols[i]) > maxRow {
			maxRow = len(S.cols[i])
		}
	}
	if S.nr*S.nc != 0 {
		density = 100. * float64(nnz) / float64(S.nr*S.nc)
	}
	var avg float64
	if S.nr != 0 {
		avg = float64(nnz) / float64(S.nr)
	}
	return fmt.Sprintf("%dx%d, nnz = %d, avg/row = %.2f, max/row = %d, density = %.3f%%",
		S.nr, S.nc, nnz, avg, maxRow, density)
}
