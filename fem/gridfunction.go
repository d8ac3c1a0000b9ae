package fem

import (
	"math"

	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

// GridFunction holds one value per vector dof of an FESpace
type GridFunction struct {
	utils.Vector
	space *FESpace
}

func NewGridFunction(fs *FESpace) *GridFunction {
	return &GridFunction{Vector: utils.NewVector(fs.VSize()), space: fs}
}

func (gf *GridFunction) Space() *FESpace { return gf.space }

// Project sets every node of every component to f at the node location
func (gf *GridFunction) Project(f func(x types.Point) float64) {
	for e, el := range gf.space.Els {
		vdofs := gf.space.GetVDofs(e)
		N := el.NumNodes()
		for j, g := range vdofs {
			gf.Set(g, f(el.Nodes[j%N].X))
		}
	}
}

// L2Error integrates (u_h - c)^2 over the mesh with the default rule
func (gf *GridFunction) L2Error(c Coefficient) float64 {
	var (
		sum float64
	)
	for e, el := range gf.space.Els {
		var (
			rule  = gf.space.DefaultRule(e)
			trans = el.Trans()
			vals  = gf.Gather(gf.space.GetVDofs(e)).Data()
		)
		for q, x := range rule.Points {
			trans.SetX(x)
			var uh float64
			for i, s := range el.CalcShape(x).Data() {
				uh += s * vals[i]
			}
			d := uh - EvalRef(c, trans, x)
			sum += rule.Weights[q] * d * d * math.Abs(trans.Weight())
		}
	}
	return math.Sqrt(sum)
}

// EnergyNorm sums the element integrals of u^2 + |grad u|^2
func (gf *GridFunction) EnergyNorm() (e float64) {
	for i, el := range gf.space.Els {
		e += el.EnergyNorm(gf.Vector, gf.space.DefaultRule(i))
	}
	return
}
