package integrators

import (
	"math"

	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/quadrature"
	"github.com/notargets/gofem/utils"
)

// LinearIntegrator returns the load vector of one element
type LinearIntegrator interface {
	Assemble(el *fem.Element, qc *quadrature.Cache) utils.Vector
}

// BoundaryLinearIntegrator returns the load vector of one element from its
// physical boundary face described by ft
type BoundaryLinearIntegrator interface {
	AssembleFace(el *fem.Element, ft *fem.FaceTransformations, qc *quadrature.Cache) utils.Vector
}

// Domain integrates c phi_i with oa*order+ob points, oa and ob default to 2 and 1
type Domain struct {
	C      fem.Coefficient
	OA, OB int
}

func NewDomain(c fem.Coefficient) Domain { return Domain{C: c, OA: 2, OB: 1} }

func (d Domain) Assemble(el *fem.Element, qc *quadrature.Cache) (elvec utils.Vector) {
	var (
		oa, ob = d.OA, d.OB
	)
	if oa == 0 && ob == 0 {
		oa, ob = 2, 1
	}
	var (
		q     = rule(qc, el.Geom, oa*el.Order()+ob)
		trans = el.Trans()
	)
	elvec = utils.NewVector(el.NumNodes())
	for n, x := range q.Points {
		trans.SetX(x)
		elvec.AXPY(q.Weights[n]*trans.Weight()*coef(d.C, trans, x), el.CalcShape(x))
	}
	return
}

// NormalFace loads the inflow value on faces where v.n < 0
type NormalFace struct {
	V      fem.VectorCoefficient
	Inflow fem.Coefficient
	Order  int
}

func (nf NormalFace) AssembleFace(el *fem.Element, ft *fem.FaceTransformations,
	qc *quadrature.Cache) (elvec utils.Vector) {
	var (
		q    = rule(qc, ft.Geometry(), orderOr(nf.Order, quadrature.DefaultOrder))
		face = ft.Phys
	)
	elvec = utils.NewVector(el.NumNodes())
	for n, xi := range q.Points {
		face.SetX(xi)
		var (
			dot  = nf.V.Eval(face.Transform(xi)).Dot(face.Normal(true))
			beta = .5 * (dot - math.Abs(dot))
		)
		elvec.AXPY(-coef(nf.Inflow, face, xi)*beta*q.Weights[n]*face.Weight(),
			el.CalcShape(ft.ElemPoint(xi)))
	}
	return
}

// NormalFlux integrates a prescribed flux c phi_i over the face
type NormalFlux struct {
	C     fem.Coefficient
	Order int
}

func (nf NormalFlux) AssembleFace(el *fem.Element, ft *fem.FaceTransformations,
	qc *quadrature.Cache) (elvec utils.Vector) {
	var (
		q    = rule(qc, ft.Geometry(), orderOr(nf.Order, quadrature.DefaultOrder))
		face = ft.Phys
	)
	elvec = utils.NewVector(el.NumNodes())
	for n, xi := range q.Points {
		face.SetX(xi)
		elvec.AXPY(coef(nf.C, face, xi)*q.Weights[n]*face.Weight(), el.CalcShape(ft.ElemPoint(xi)))
	}
	return
}
