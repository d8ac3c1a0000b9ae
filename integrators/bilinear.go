/*
Package integrators computes element local matrices and load vectors by
quadrature. Integrators are immutable values: they hold coefficients and
an optional quadrature order and may be reused and shared between
goroutines as long as their coefficients are pure functions.
*/
package integrators

import (
	"fmt"

	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/quadrature"
	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

// BilinearIntegrator returns the NumNodes x NumNodes matrix of one element
type BilinearIntegrator interface {
	Assemble(el *fem.Element, qc *quadrature.Cache) utils.Matrix
}

// MixedBilinearIntegrator returns a test x trial matrix
type MixedBilinearIntegrator interface {
	MixedAssemble(trial, test *fem.Element, qc *quadrature.Cache) utils.Matrix
}

func rule(qc *quadrature.Cache, geom types.Geometry, order int) *quadrature.Rule {
	if qc == nil {
		panic(fmt.Errorf("integration needs a quadrature cache"))
	}
	return qc.MustGet(geom, order, quadrature.Legendre)
}

func orderOr(order, def int) int {
	if order > 0 {
		return order
	}
	return def
}

// coef evaluates c at the image of xRef, a nil coefficient is one
func coef(c fem.Coefficient, trans *fem.ElTrans, xRef types.Point) float64 {
	if c == nil {
		return 1
	}
	return fem.EvalRef(c, trans, xRef)
}

// WeakDiffusion integrates c grad(phi_i).grad(phi_j)
type WeakDiffusion struct {
	C     fem.Coefficient
	Order int // defaults to element order + 1
}

func (wd WeakDiffusion) Assemble(el *fem.Element, qc *quadrature.Cache) (elmat utils.Matrix) {
	var (
		N     = el.NumNodes()
		q     = rule(qc, el.Geom, orderOr(wd.Order, el.Order()+1))
		trans = el.Trans()
	)
	elmat = utils.NewMatrix(N, N)
	for n, x := range q.Points {
		trans.SetX(x)
		pg := el.CalcPhysGradShape(trans)
		elmat.AddTransMul(q.Weights[n]*trans.Weight()*coef(wd.C, trans, x), pg, pg)
	}
	return
}

// Mass integrates c phi_i phi_j
type Mass struct {
	C     fem.Coefficient
	Order int
}

func (m Mass) Assemble(el *fem.Element, qc *quadrature.Cache) (elmat utils.Matrix) {
	var (
		N     = el.NumNodes()
		q     = rule(qc, el.Geom, orderOr(m.Order, quadrature.DefaultOrder))
		trans = el.Trans()
	)
	elmat = utils.NewMatrix(N, N)
	for n, x := range q.Points {
		trans.SetX(x)
		shape := el.CalcShape(x)
		elmat.AddOuter(q.Weights[n]*trans.Weight()*coef(m.C, trans, x), shape, shape)
	}
	return
}

// MixedAssemble pairs test rows with trial columns, integrated on the trial element
func (m Mass) MixedAssemble(trial, test *fem.Element, qc *quadrature.Cache) (elmat utils.Matrix) {
	var (
		q     = rule(qc, trial.Geom, orderOr(m.Order, quadrature.DefaultOrder))
		trans = trial.Trans()
	)
	checkPair(trial, test)
	elmat = utils.NewMatrix(test.NumNodes(), trial.NumNodes())
	for n, x := range q.Points {
		trans.SetX(x)
		elmat.AddOuter(q.Weights[n]*trans.Weight()*coef(m.C, trans, x),
			test.CalcShape(x), trial.CalcShape(x))
	}
	return
}

// MassLumping is the row sum diagonal of the mass matrix
type MassLumping struct {
	C     fem.Coefficient
	Order int
}

func (ml MassLumping) Assemble(el *fem.Element, qc *quadrature.Cache) (elmat utils.Matrix) {
	var (
		N    = el.NumNodes()
		sums = Mass(ml).Assemble(el, qc).RowSums()
	)
	elmat = utils.NewMatrix(N, N)
	for i := 0; i < N; i++ {
		elmat.Set(i, i, sums.At(i))
	}
	return
}

// VectorMass repeats the mass block once for each mesh dimension
type VectorMass struct {
	C     fem.Coefficient
	Order int
}

func (vm VectorMass) Assemble(el *fem.Element, qc *quadrature.Cache) (elmat utils.Matrix) {
	var (
		N    = el.NumNodes()
		dim  = el.MeshDim()
		mass = Mass(vm).Assemble(el, qc)
	)
	elmat = utils.NewMatrix(dim*N, dim*N)
	for d := 0; d < dim; d++ {
		elmat.AddSubMatrix(d*N, d*N, mass)
	}
	return
}

// Convection integrates -(v.grad(phi_j)) phi_i
type Convection struct {
	V     fem.VectorCoefficient
	Order int
}

func (c Convection) Assemble(el *fem.Element, qc *quadrature.Cache) (elmat utils.Matrix) {
	var (
		N     = el.NumNodes()
		q     = rule(qc, el.Geom, orderOr(c.Order, quadrature.DefaultOrder))
		trans = el.Trans()
	)
	elmat = utils.NewMatrix(N, N)
	for n, x := range q.Points {
		trans.SetX(x)
		v := fem.EvalVectorRef(c.V, trans, x)
		vgrad := el.CalcPhysGradShape(trans).MulTransVec(v)
		elmat.AddOuter(-q.Weights[n]*trans.Weight(), el.CalcShape(x), vgrad)
	}
	return
}

// VectorDivergence integrates psi_i div(phi_j) for a scalar test and a
// vector trial space, the trial columns are component major
type VectorDivergence struct {
	Order int
}

func (vd VectorDivergence) MixedAssemble(trial, test *fem.Element, qc *quadrature.Cache) (elmat utils.Matrix) {
	var (
		q     = rule(qc, trial.Geom, orderOr(vd.Order, quadrature.DefaultOrder))
		trans = trial.Trans()
	)
	checkPair(trial, test)
	elmat = utils.NewMatrix(test.NumNodes(), trial.Dim()*trial.NumNodes())
	for n, x := range q.Points {
		trans.SetX(x)
		div := trial.CalcPhysGradShape(trans).GradToDiv()
		elmat.AddOuter(q.Weights[n]*trans.Weight(), test.CalcShape(x), div)
	}
	return
}

func checkPair(trial, test *fem.Element) {
	if trial.Geom != test.Geom {
		panic(fmt.Errorf("mixed integration of a %v trial element with a %v test element",
			trial.Geom, test.Geom))
	}
}
