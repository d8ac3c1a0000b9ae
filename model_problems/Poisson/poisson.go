package Poisson

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/notargets/gofem/assembly"
	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/integrators"
	"github.com/notargets/gofem/mesh"
	"github.com/notargets/gofem/quadrature"
	"github.com/notargets/gofem/solver"
	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

type AssemblyType uint8

const (
	SparseAssembly  AssemblyType = iota // globally assembled rows
	ElementAssembly                     // element matrices, gather/scatter Mult
	CSRAssembly                         // globally assembled, applied in CSR form
)

var assemblyNames = map[string]AssemblyType{
	"sparse":   SparseAssembly,
	"lhs":      SparseAssembly,
	"element":  ElementAssembly,
	"fematrix": ElementAssembly,
	"csr":      CSRAssembly,
}

func NewAssemblyType(name string) (at AssemblyType, err error) {
	var ok bool
	if at, ok = assemblyNames[strings.ToLower(strings.TrimSpace(name))]; !ok {
		err = fmt.Errorf("unknown assembly type %q, use sparse, element or csr", name)
	}
	return
}

func (at AssemblyType) String() string {
	switch at {
	case SparseAssembly:
		return "sparse"
	case ElementAssembly:
		return "element"
	case CSRAssembly:
		return "csr"
	}
	return fmt.Sprintf("AssemblyType(%d)", at)
}

const (
	DefaultTol     = 1.e-10
	DefaultMaxIter = 1000
)

type Options struct {
	Refinement int // elements per side of the unit square
	Order      int
	Assembly   AssemblyType
	Space      fem.SpaceType
	Tol        float64
	MaxIter    int
	Parallel   int
	Verbose    bool
	// Mesh replaces the unit square, the L2 error is then measured against the
	// same manufactured solution
	Mesh *mesh.Mesh
	// Measure wraps each phase of the run, nil runs the phase directly
	Measure func(phase string, f func())
}

func DefaultOptions() Options {
	return Options{
		Refinement: 20,
		Order:      1,
		Tol:        DefaultTol,
		MaxIter:    DefaultMaxIter,
		Parallel:   utils.DefaultParallelDegree(),
	}
}

// Info summarizes one run
type Info struct {
	RunID        string
	NumEls, DOFs int
	CG           solver.Result
	L2Error      float64
	Space        time.Duration
	Assembly     time.Duration
	Solve        time.Duration
	Memory       string
}

func (info Info) Print(w io.Writer) {
	fmt.Fprintf(w, "Run %s\n", info.RunID)
	fmt.Fprintf(w, "\tElements = %d, DOFs = %d\n", info.NumEls, info.DOFs)
	fmt.Fprintf(w, "\tCG: %s\n", info.CG)
	fmt.Fprintf(w, "\tL2 Error = %8.6e\n", info.L2Error)
	fmt.Fprintf(w, "\tTimings: space %v, assembly %v, solve %v\n", info.Space, info.Assembly, info.Solve)
	if info.Memory != "" {
		fmt.Fprintf(w, "\tMemory: %s\n", info.Memory)
	}
}

// Exact is the manufactured solution sin(pi x) sin(pi y)
func Exact(x types.Point) float64 {
	return math.Sin(math.Pi*x[0]) * math.Sin(math.Pi*x[1])
}

// Source is -Lap(u) + u for the manufactured solution
func Source(x types.Point) float64 {
	return (2*math.Pi*math.Pi + 1) * Exact(x)
}

func (opts *Options) check() (err error) {
	switch {
	case opts.Mesh == nil && opts.Refinement < 1:
		err = fmt.Errorf("refinement must be at least 1, have %d", opts.Refinement)
	case opts.Order < 0, opts.Order == 0 && opts.Space == fem.LAGRANGE:
		err = fmt.Errorf("order %d is not available for a %s space", opts.Order, opts.Space)
	}
	if opts.Tol <= 0 {
		opts.Tol = DefaultTol
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultMaxIter
	}
	if opts.Parallel <= 0 {
		opts.Parallel = utils.DefaultParallelDegree()
	}
	return
}

/*
Solve discretizes -Lap(u) + u = f on the unit square with u = 0 on the
Dirichlet boundary and solves it with CG. An L2 space has no continuity between
elements, so for it the run is the L2 projection of the exact solution
instead, which exercises the same assembly and solve path.
*/
func Solve(opts Options) (gf *fem.GridFunction, info Info, err error) {
	if err = opts.check(); err != nil {
		return
	}
	var (
		fs      *fem.FESpace
		op      solver.Operator
		rhs     *assembly.RHS
		x       utils.Vector
		measure = opts.Measure
		N       = opts.Refinement
	)
	if measure == nil {
		measure = func(phase string, f func()) { f() }
	}
	info.RunID = uuid.Must(uuid.NewV7()).String()
	timed := func(phase string, d *time.Duration, f func()) {
		start := time.Now()
		measure(phase, f)
		*d = time.Since(start)
	}
	timed("fe space", &info.Space, func() {
		m := opts.Mesh
		if m == nil {
			m = mesh.SquareMesh(N, N, types.NewPoint(0, 0), types.NewPoint(1, 1), mesh.AllDirichlet4)
		}
		fs, err = fem.NewFESpace(m, opts.Space, opts.Order, 1, quadrature.NewCache())
	})
	if err != nil {
		err = fmt.Errorf("building %s space: %w", opts.Space, err)
		return
	}
	info.NumEls, info.DOFs = fs.NumEls(), fs.VSize()
	if opts.Verbose {
		fs.PrintMeshInfo(os.Stdout)
	}
	timed("assembly", &info.Assembly, func() {
		op, rhs = assemble(fs, opts)
	})
	cg := solver.NewCG(opts.Tol, opts.MaxIter)
	cg.Verbose, cg.Print = opts.Verbose, opts.Verbose
	timed("cg solve", &info.Solve, func() {
		x, err = cg.Solve(op, rhs.Vector)
	})
	info.CG = cg.Result()
	info.Memory = utils.GetMemUsage()
	if err != nil {
		err = fmt.Errorf("solving %d dofs: %w", info.DOFs, err)
		return
	}
	gf = fem.NewGridFunction(fs)
	copy(gf.Data(), x.Data())
	info.L2Error = gf.L2Error(fem.FunctionCoefficient(Exact))
	return
}

func assemble(fs *fem.FESpace, opts Options) (op solver.Operator, rhs *assembly.RHS) {
	var (
		bilinear  = []integrators.BilinearIntegrator{integrators.WeakDiffusion{}, integrators.Mass{}}
		load      = integrators.NewDomain(fem.FunctionCoefficient(Source))
		dirichlet = true
	)
	if fs.Type == fem.L2 {
		bilinear = []integrators.BilinearIntegrator{integrators.Mass{}}
		load = integrators.NewDomain(fem.FunctionCoefficient(Exact))
		dirichlet = false
	}
	rhs = assembly.NewRHS(fs)
	rhs.Parallel = opts.Parallel
	rhs.AddIntegrator(load)
	switch opts.Assembly {
	case ElementAssembly:
		fm := assembly.NewFEMatrix(fs)
		fm.Parallel = opts.Parallel
		for _, integ := range bilinear {
			fm.AddIntegrator(integ)
		}
		if dirichlet {
			fm.ApplyDirichletBoundary(rhs.Vector, 0)
		}
		op = fm
	case SparseAssembly, CSRAssembly:
		lhs := assembly.NewLHS(fs)
		lhs.Parallel = opts.Parallel
		for _, integ := range bilinear {
			lhs.AddIntegrator(integ)
		}
		if dirichlet {
			lhs.ApplyDirichletBoundary(rhs.Vector, 0)
		}
		op = lhs
		if opts.Assembly == CSRAssembly {
			op = solver.NewCSROperator(lhs.SparseMatrix)
		}
	default:
		panic(fmt.Errorf("unknown assembly type %v", opts.Assembly))
	}
	return
}
