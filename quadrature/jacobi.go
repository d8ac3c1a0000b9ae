package quadrature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// JacobiGQ returns the N+1 Gauss points and weights of the Jacobi weight
// (1-x)^alpha (1+x)^beta on [-1,1], by Golub-Welsch on the Jacobi matrix
func JacobiGQ(alpha, beta float64, N int) (x, w []float64) {
	var (
		fac        float64
		h1, d0, d1 []float64
		VVr        *mat.Dense
	)
	if N < 0 {
		panic(fmt.Errorf("negative Gauss quadrature order %d", N))
	}
	if N == 0 {
		x = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		w = []float64{2.}
		return
	}

	h1 = make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: diag(-1/2*(alpha^2-beta^2)./(h1+2)./h1)
	d0 = make([]float64, N+1)
	fac = -.5 * (alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}
	// Handle division by zero
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}

	// 1st upper diagonal
	var ip1 float64
	d1 = make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 = float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
	}

	JJ := mat.NewSymDense(N+1, nil)
	for i := 0; i < N+1; i++ {
		JJ.SetSym(i, i, d0[i])
		if i < N {
			JJ.SetSym(i, i+1, d1[i])
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, true); !ok {
		panic("eigenvalue decomposition failed")
	}
	x = eig.Values(nil)

	VVr = mat.NewDense(len(x), len(x), nil)
	eig.VectorsTo(VVr)
	g0 := gamma0(alpha, beta)
	w = make([]float64, len(x))
	for i, v := range VVr.RawRowView(0) {
		w[i] = v * v * g0
	}
	return
}

// JacobiGL returns the N+1 Gauss-Lobatto points, both end points included
func JacobiGL(alpha, beta float64, N int) (x []float64) {
	if N < 1 {
		panic(fmt.Errorf("Gauss-Lobatto needs at least two points, have order %d", N))
	}
	x = make([]float64, N+1)
	x[0], x[N] = -1, 1
	if N == 1 {
		return
	}
	xint, _ := JacobiGQ(alpha+1, beta+1, N-2)
	copy(x[1:N], xint)
	return
}

func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	return math.Pow(2, ab1) / ab1 * math.Gamma(alpha+1) * math.Gamma(beta+1) / math.Gamma(ab1)
}

// LegendreP evaluates the Legendre polynomial of degree N at x by its three term recurrence
func LegendreP(N int, x float64) float64 {
	var (
		p0, p1 = 1., x
	)
	if N == 0 {
		return p0
	}
	for n := 1; n < N; n++ {
		fn := float64(n)
		p0, p1 = p1, ((2*fn+1)*x*p1-fn*p0)/(fn+1)
	}
	return p1
}

// Legendre1D returns the n point Gauss-Legendre rule on [-1,1], exact to degree 2n-1
func Legendre1D(n int) (x, w []float64) {
	if n < 1 {
		panic(fmt.Errorf("Gauss-Legendre needs at least one point, have %d", n))
	}
	return JacobiGQ(0, 0, n-1)
}

// Lobatto1D returns the n point Gauss-Lobatto-Legendre rule on [-1,1], exact to degree 2n-3
func Lobatto1D(n int) (x, w []float64) {
	if n < 2 {
		panic(fmt.Errorf("Gauss-Lobatto needs at least two points, have %d", n))
	}
	N := n - 1
	x = JacobiGL(0, 0, N)
	w = make([]float64, n)
	for i, xi := range x {
		p := LegendreP(N, xi)
		w[i] = 2. / (float64(N*(N+1)) * p * p)
	}
	return
}
