package fem

import (
	"fmt"
	"math"

	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

/*
ElTrans maps reference points of one element to physical space through an
order one basis over the element corners. Jacobian, inverse and determinant
are cached for the current reference point and dropped by SetX.

The Jacobian is Dim x MeshDim: row r holds d(x_phys)/d(xi_r), so reference
gradients map to physical ones by J^-1 * refGrad.
*/
type ElTrans struct {
	basis  Basis
	points utils.Matrix // NumNodes x MeshDim corner coordinates
	mdim   int
	x      types.Point
	xSet   bool
	J      utils.Matrix
	Jinv   utils.Matrix
	det    float64
	jac    bool
	inv    bool
	detSet bool
}

func NewElTrans(basis Basis, corners []types.Point, mdim int) (et *ElTrans) {
	if len(corners) != basis.NumNodes() {
		panic(fmt.Errorf("%v transformation needs %d corners, have %d",
			basis.Geometry(), basis.NumNodes(), len(corners)))
	}
	if mdim < basis.Dim() || mdim > 3 {
		panic(fmt.Errorf("%dD element in a %dD space", basis.Dim(), mdim))
	}
	et = &ElTrans{
		basis:  basis,
		points: utils.NewMatrix(len(corners), mdim),
		mdim:   mdim,
	}
	for i, c := range corners {
		for d := 0; d < mdim; d++ {
			et.points.Set(i, d, c[d])
		}
	}
	et.points.SetReadOnly("ElTrans points")
	return
}

func (et *ElTrans) Geometry() types.Geometry { return et.basis.Geometry() }
func (et *ElTrans) Dim() int                 { return et.basis.Dim() }
func (et *ElTrans) MeshDim() int             { return et.mdim }

func (et *ElTrans) SetX(x types.Point) {
	et.x = x
	et.xSet = true
	et.jac, et.inv, et.detSet = false, false, false
}

func (et *ElTrans) GetX() types.Point {
	et.checkX()
	return et.x
}

func (et *ElTrans) checkX() {
	if !et.xSet {
		panic(fmt.Errorf("element transformation used before SetX"))
	}
}

// Transform maps xRef to physical space, leaving the cached state alone
func (et *ElTrans) Transform(xRef types.Point) (xPhys types.Point) {
	shape := et.basis.CalcShape(xRef).Data()
	for i, s := range shape {
		if s == 0 {
			continue
		}
		for d := 0; d < et.mdim; d++ {
			xPhys[d] += s * et.points.At(i, d)
		}
	}
	return
}

func (et *ElTrans) GetPhysX() types.Point {
	et.checkX()
	return et.Transform(et.x)
}

func (et *ElTrans) Jacobian() utils.Matrix {
	et.checkX()
	if !et.jac {
		et.J = et.basis.CalcGradShape(et.x).Mul(et.points)
		et.jac = true
	}
	return et.J
}

// InverseJacobian is only defined for a square Jacobian
func (et *ElTrans) InverseJacobian() utils.Matrix {
	var (
		err error
	)
	if !et.inv {
		J := et.Jacobian()
		if !J.IsSquare() {
			nr, nc := J.Dims()
			panic(fmt.Errorf("inverse of a %dx%d jacobian is undefined", nr, nc))
		}
		if et.Jinv, err = J.Inverse(); err != nil {
			panic(fmt.Errorf("degenerate element at %v: %w", et.x, err))
		}
		et.inv = true
	}
	return et.Jinv
}

// Determinant is signed for a square Jacobian and falls back to Weight otherwise
func (et *ElTrans) Determinant() float64 {
	if !et.detSet {
		if J := et.Jacobian(); J.IsSquare() {
			et.det = J.Determinant()
		} else {
			et.det = J.Weight()
		}
		et.detSet = true
	}
	return et.det
}

// Weight is the measure of the map: |det J| for a square Jacobian, else the
// length or area scaling of the embedded face
func (et *ElTrans) Weight() float64 {
	J := et.Jacobian()
	if J.IsSquare() {
		return math.Abs(et.Determinant())
	}
	return J.Weight()
}

// Normal returns the outward normal of a face transformation at the current point
func (et *ElTrans) Normal(normalize bool) utils.Vector {
	return et.Jacobian().CalcNormal(normalize)
}
