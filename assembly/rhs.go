package assembly

import (
	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/integrators"
	"github.com/notargets/gofem/utils"
)

// RHS is the assembled load vector of one space
type RHS struct {
	utils.Vector
	Space    *fem.FESpace
	Parallel int
}

func NewRHS(fs *fem.FESpace) *RHS {
	return &RHS{
		Vector:   utils.NewVector(fs.VSize()),
		Space:    fs,
		Parallel: utils.DefaultParallelDegree(),
	}
}

func (r *RHS) AddIntegrator(integ integrators.LinearIntegrator) {
	var (
		fs     = r.Space
		locals = make([]utils.Vector, fs.NumEls())
	)
	utils.NewPartitionMap(r.Parallel, fs.NumEls()).Run(func(bn, kMin, kMax int) {
		for e := kMin; e < kMax; e++ {
			locals[e] = integ.Assemble(fs.El(e), fs.Quad)
		}
	})
	for e, local := range locals {
		r.ScatterAdd(fs.GetVDofs(e), local)
	}
}

// AddBoundaryIntegrator integrates over every physical boundary face
func (r *RHS) AddBoundaryIntegrator(integ integrators.BoundaryLinearIntegrator) {
	fs := r.Space
	for e, el := range fs.Els {
		for f := 0; f < el.NumFaces(); f++ {
			if el.Neighbor(f) >= 0 {
				continue
			}
			r.ScatterAdd(fs.GetVDofs(e), integ.AssembleFace(el, fs.GetFaceTransformations(e, f), fs.Quad))
		}
	}
}
