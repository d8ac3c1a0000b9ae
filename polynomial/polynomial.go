package polynomial

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

// Poly1D is a polynomial in one variable, coefficients in ascending powers
type Poly1D struct {
	C []float64
}

func NewPoly1D(c ...float64) Poly1D {
	cc := make([]float64, len(c))
	copy(cc, c)
	return Poly1D{C: cc}
}

func (p Poly1D) Degree() int { return len(p.C) - 1 }

// Eval uses Horner's rule
func (p Poly1D) Eval(x float64) (r float64) {
	if len(p.C) == 0 {
		panic(fmt.Errorf("evaluating an empty polynomial"))
	}
	for i := len(p.C) - 1; i >= 0; i-- {
		r = r*x + p.C[i]
	}
	return
}

func (p Poly1D) Derivative() Poly1D {
	if len(p.C) == 0 {
		panic(fmt.Errorf("differentiating an empty polynomial"))
	}
	if len(p.C) == 1 {
		return Poly1D{C: []float64{0}}
	}
	c := make([]float64, len(p.C)-1)
	for i := 1; i < len(p.C); i++ {
		c[i-1] = p.C[i] * float64(i)
	}
	return Poly1D{C: c}
}

func (p Poly1D) String() string {
	var (
		sb    strings.Builder
		first = true
	)
	for i, c := range p.C {
		if math.Abs(c) < utils.NODETOL {
			continue
		}
		switch {
		case first && c < 0:
			sb.WriteString("-")
		case !first && c < 0:
			sb.WriteString(" - ")
		case !first:
			sb.WriteString(" + ")
		}
		fmt.Fprintf(&sb, "%g", math.Abs(c))
		switch i {
		case 0:
		case 1:
			sb.WriteString("x")
		default:
			fmt.Fprintf(&sb, "x^%d", i)
		}
		first = false
	}
	if first {
		return "0"
	}
	return sb.String()
}

// PolyProduct is a product of one 1D polynomial per coordinate direction
type PolyProduct []Poly1D

func NewPolyProduct(p ...Poly1D) PolyProduct {
	if len(p) < 1 || len(p) > 3 {
		panic(fmt.Errorf("poly product of %d factors not supported", len(p)))
	}
	return PolyProduct(p)
}

func (pp PolyProduct) Dim() int { return len(pp) }

func (pp PolyProduct) Eval(x types.Point) float64 {
	r := 1.
	for i, p := range pp {
		r *= p.Eval(x[i])
	}
	return r
}

// Gradient differentiates one factor at a time
func (pp PolyProduct) Gradient() (grad []PolyProduct) {
	grad = make([]PolyProduct, len(pp))
	for d := range pp {
		g := make(PolyProduct, len(pp))
		copy(g, pp)
		g[d] = pp[d].Derivative()
		grad[d] = g
	}
	return
}

/*
GenLagrangePolynomials returns the p+1 Lagrange interpolants on equally
spaced nodes covering [a,b]. Polynomial k is one at node k and zero at the
others, found by solving the Vandermonde system against the k'th unit vector.
*/
func GenLagrangePolynomials(p int, a, b float64) (polys []Poly1D) {
	var (
		N = p + 1
		x = utils.Linspace(N, a, b)
		V = utils.NewMatrix(N, N)
	)
	if p < 0 {
		panic(fmt.Errorf("negative polynomial order %d", p))
	}
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			V.Set(i, j, math.Pow(x[i], float64(j)))
		}
	}
	polys = make([]Poly1D, N)
	for k := 0; k < N; k++ {
		rhs := utils.NewVector(N)
		rhs.Set(k, 1)
		c, err := V.Solve(rhs)
		if err != nil {
			panic(fmt.Errorf("lagrange polynomials of order %d: %w", p, err))
		}
		polys[k] = NewPoly1D(c.Data()...)
	}
	return
}
