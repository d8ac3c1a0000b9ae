package Poisson

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Study is the L2 error history of one polynomial order over a sequence of meshes
type Study struct {
	Order  int
	Ns     []int
	Errors []float64
	Rate   float64 // least squares slope of log(error) against log(h)
}

// PairRates are the observed orders between consecutive meshes
func (s Study) PairRates() (rates []float64) {
	for i := 1; i < len(s.Ns); i++ {
		rates = append(rates,
			math.Log(s.Errors[i-1]/s.Errors[i])/math.Log(float64(s.Ns[i])/float64(s.Ns[i-1])))
	}
	return
}

// FitRate fits log(err) = a + rate*log(h) with h = 1/N
func FitRate(Ns []int, errs []float64) (rate float64) {
	if len(Ns) != len(errs) || len(Ns) < 2 {
		panic(fmt.Errorf("need at least two matching samples to fit a rate, have %d and %d", len(Ns), len(errs)))
	}
	var (
		xs = make([]float64, len(Ns))
		ys = make([]float64, len(Ns))
	)
	for i, N := range Ns {
		xs[i] = -math.Log(float64(N))
		ys[i] = math.Log(errs[i])
	}
	_, rate = stat.LinearRegression(xs, ys, nil, false)
	return
}

/*
ConvergenceStudy solves on every N for each order, using base for the
remaining options, and fits the observed rate. The expected rate of a
Lagrange space of order p is p+1.
*/
func ConvergenceStudy(orders, Ns []int, base Options) (studies []Study, err error) {
	for _, p := range orders {
		s := Study{Order: p, Ns: append([]int(nil), Ns...)}
		for _, N := range Ns {
			opts := base
			opts.Order, opts.Refinement = p, N
			var info Info
			if _, info, err = Solve(opts); err != nil {
				return
			}
			s.Errors = append(s.Errors, info.L2Error)
		}
		s.Rate = FitRate(s.Ns, s.Errors)
		studies = append(studies, s)
	}
	return
}

func PrintStudies(w io.Writer, studies []Study) {
	for _, s := range studies {
		fmt.Fprintf(w, "Order = %d, fitted rate = %6.3f\n", s.Order, s.Rate)
		rates := s.PairRates()
		for i, N := range s.Ns {
			if i == 0 {
				fmt.Fprintf(w, "\tN = %4d, L2 Error = %10.4e\n", N, s.Errors[i])
				continue
			}
			fmt.Fprintf(w, "\tN = %4d, L2 Error = %10.4e, rate = %6.3f\n", N, s.Errors[i], rates[i-1])
		}
	}
}
