package integrators

import (
	"math"

	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/quadrature"
	"github.com/notargets/gofem/utils"
)

// FaceIntegrator couples element el with its neighbor nb across a face. The
// result is NumNodes(el) x (NumNodes(el) + NumNodes(nb)), the neighbor
// columns are absent on a physical boundary where nb is nil.
type FaceIntegrator interface {
	AssembleFace(el, nb *fem.Element, ft *fem.FaceTransformations, qc *quadrature.Cache) utils.Matrix
}

/*
UpwindFace integrates the outflow .5(|v.n|+v.n) phi_i phi_j of the element
against itself and the inflow .5(v.n-|v.n|) phi_i psi_j against the upwind
neighbor.
*/
type UpwindFace struct {
	V     fem.VectorCoefficient
	Order int
}

func (uf UpwindFace) AssembleFace(el, nb *fem.Element, ft *fem.FaceTransformations,
	qc *quadrature.Cache) (elmat utils.Matrix) {
	var (
		Ne   = el.NumNodes()
		Nnb  int
		q    = rule(qc, ft.Geometry(), orderOr(uf.Order, quadrature.DefaultOrder))
		face = ft.Phys
	)
	if nb != nil {
		Nnb = nb.NumNodes()
	}
	elmat = utils.NewMatrix(Ne, Ne+Nnb)
	down := utils.NewMatrix(Ne, Ne)
	for n, xi := range q.Points {
		face.SetX(xi)
		var (
			w     = q.Weights[n] * face.Weight()
			dot   = uf.V.Eval(face.Transform(xi)).Dot(face.Normal(true))
			alpha = .5 * (math.Abs(dot) + dot)
			beta  = .5 * (dot - math.Abs(dot))
			shape = el.CalcShape(ft.ElemPoint(xi))
		)
		down.AddOuter(alpha*w, shape, shape)
		if nb != nil {
			up := utils.NewMatrix(Ne, Nnb)
			up.AddOuter(beta*w, shape, nb.CalcShape(ft.NeighborPoint(xi)))
			elmat.AddSubMatrix(0, Ne, up)
		}
	}
	elmat.AddSubMatrix(0, 0, down)
	return
}
