package solver

import (
	"fmt"
	"log"
	"time"

	"github.com/notargets/gofem/utils"
)

// Operator is a square or rectangular linear map applied as y = A*x
type Operator interface {
	Height() int
	Width() int
	Mult(x, y utils.Vector)
}

type Result struct {
	Iterations   int
	ResidualNorm float64
	Converged    bool
	Elapsed      time.Duration
}

func (r Result) String() string {
	return fmt.Sprintf("iterations = %d, residual = %8.3e, converged = %v", r.Iterations, r.ResidualNorm, r.Converged)
}

/*
CG is the unpreconditioned conjugate gradient method for symmetric positive
definite operators. The residual is recomputed from rhs - A*x on every
iteration rather than updated.
*/
type CG struct {
	Tol     float64
	MaxIter int
	Verbose bool // print every iteration
	Print   bool // print the final iteration count and norm
	result  Result
}

func NewCG(tol float64, maxIter int) *CG {
	return &CG{Tol: tol, MaxIter: maxIter}
}

func (cg *CG) Result() Result        { return cg.result }
func (cg *CG) GetConverged() bool    { return cg.result.Converged }
func (cg *CG) Iterations() int       { return cg.result.Iterations }
func (cg *CG) ResidualNorm() float64 { return cg.result.ResidualNorm }

/*
Solve starts from zero and returns the last iterate. Exhausting MaxIter is
reported through GetConverged and a log warning, an error is only returned
when the search direction has s.As = 0.
*/
func (cg *CG) Solve(A Operator, rhs utils.Vector) (x utils.Vector, err error) {
	var (
		N     = A.Height()
		start = time.Now()
	)
	if A.Width() != N {
		panic(fmt.Errorf("conjugate gradient needs a square operator, have %dx%d", N, A.Width()))
	}
	if rhs.Len() != N {
		panic(utils.DimensionError{Op: "CG.Solve", Got: rhs.Len(), Exp: N})
	}
	var (
		r    = utils.NewVector(N)
		As   = utils.NewVector(N)
		Ax   = utils.NewVector(N)
		norm float64
		iter int
	)
	x = utils.NewVector(N)
	A.Mult(x, Ax)
	r.Add(rhs).Subtract(Ax)
	s := r.Copy()
	norm = r.Norm()
	cg.result = Result{}
	if utils.IsNan(r) {
		err = fmt.Errorf("conjugate gradient initial residual is NaN")
		return
	}
	if cg.Verbose {
		fmt.Printf("starting CG iterations\n")
	}
	for norm >= cg.Tol && iter < cg.MaxIter {
		iterStart := time.Now()
		A.Mult(s, As)
		denom := s.Dot(As)
		if denom == 0 {
			cg.result = Result{Iterations: iter, ResidualNorm: norm, Elapsed: time.Since(start)}
			err = fmt.Errorf("conjugate gradient breakdown at iteration %d: s.As = 0, operator is singular or not SPD", iter)
			return
		}
		alpha := s.Dot(r) / denom
		x.AXPY(alpha, s)
		A.Mult(x, Ax)
		r.Zero().Add(rhs).Subtract(Ax)
		beta := -r.Dot(As) / denom
		s.Scale(beta).Add(r)
		norm = r.Norm()
		if utils.IsNan(r) {
			cg.result = Result{Iterations: iter + 1, ResidualNorm: norm, Elapsed: time.Since(start)}
			err = fmt.Errorf("conjugate gradient residual is NaN at iteration %d", iter)
			return
		}
		if cg.Verbose {
			fmt.Printf("\titeration %5d, residual = %8.3e, %8.3g s/iter\n",
				iter, norm, time.Since(iterStart).Seconds())
		}
		iter++
	}
	cg.result = Result{
		Iterations:   iter,
		ResidualNorm: norm,
		Converged:    norm < cg.Tol,
		Elapsed:      time.Since(start),
	}
	if !cg.result.Converged {
		log.Printf("CG: maximum number of iterations (%d) reached, final norm = %8.3e", cg.MaxIter, norm)
	}
	if cg.Print {
		fmt.Printf("number of iterations = %d\n", iter)
		fmt.Printf("final norm = %8.3e\n", norm)
	}
	return
}
