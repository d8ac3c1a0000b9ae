package quadrature

import (
	"fmt"
	"log"
	"strings"

	"github.com/notargets/gofem/types"
)

// DefaultOrder is the integration order used when an integrator does not choose one
const DefaultOrder = 8

type Family uint8

const (
	Legendre Family = iota
	Lobatto
)

func (f Family) String() string {
	switch f {
	case Legendre:
		return "Legendre"
	case Lobatto:
		return "Lobatto"
	}
	return fmt.Sprintf("Family(%d)", f)
}

func NewFamily(name string) (f Family, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "legendre", "gauss":
		f = Legendre
	case "lobatto":
		f = Lobatto
	default:
		err = fmt.Errorf("unknown quadrature family %q", name)
	}
	return
}

/*
Rule is an immutable set of reference points and weights. Lines, quads and
hexes live on [-1,1]^d and the triangle is (0,0),(1,0),(0,1). For tensor
geometries the order is the number of points per direction, for triangles
it is the polynomial degree integrated exactly.
*/
type Rule struct {
	Geom    types.Geometry
	Order   int
	Family  Family
	Points  []types.Point
	Weights []float64
}

func (r *Rule) NumPoints() int { return len(r.Weights) }

// NewRule builds a rule without caching
func NewRule(geom types.Geometry, order int, family Family) (r *Rule, err error) {
	if order < 1 {
		order = 1
	}
	r = &Rule{Geom: geom, Order: order, Family: family}
	switch geom {
	case types.LINE, types.QUAD, types.HEX:
		var x, w []float64
		switch family {
		case Legendre:
			x, w = Legendre1D(order)
		case Lobatto:
			if order < 2 {
				order = 2
				r.Order = 2
			}
			x, w = Lobatto1D(order)
		default:
			return nil, fmt.Errorf("unknown quadrature family %v", family)
		}
		r.Points, r.Weights = tensorProduct(x, w, geom.Dim())
	case types.TRI:
		if family != Legendre {
			return nil, fmt.Errorf("no %v rule for triangles", family)
		}
		r.Points, r.Weights = triangleRule(order)
	default:
		return nil, fmt.Errorf("no quadrature rule for geometry %v", geom)
	}
	return
}

// tensorProduct with the first coordinate varying slowest
func tensorProduct(x, w []float64, dim int) (pts []types.Point, wts []float64) {
	n := len(x)
	switch dim {
	case 1:
		for i := 0; i < n; i++ {
			pts = append(pts, types.NewPoint(x[i]))
			wts = append(wts, w[i])
		}
	case 2:
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				pts = append(pts, types.NewPoint(x[i], x[j]))
				wts = append(wts, w[i]*w[j])
			}
		}
	case 3:
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				for k := 0; k < n; k++ {
					pts = append(pts, types.NewPoint(x[i], x[j], x[k]))
					wts = append(wts, w[i]*w[j]*w[k])
				}
			}
		}
	}
	return
}

type triPoint struct{ x, y, w float64 }

// Symmetric rules, weights sum to one and are halved to the reference triangle area
var (
	tri1 = []triPoint{{1. / 3, 1. / 3, 1}}
	tri4 = []triPoint{
		{0.10810301816807022736, 0.44594849091596488632, 0.22338158967801146570},
		{0.44594849091596488632, 0.10810301816807022736, 0.22338158967801146570},
		{0.44594849091596488632, 0.44594849091596488632, 0.22338158967801146570},
		{0.81684757298045851308, 0.091576213509770743460, 0.10995174365532186764},
		{0.091576213509770743460, 0.81684757298045851308, 0.10995174365532186764},
		{0.091576213509770743460, 0.091576213509770743460, 0.10995174365532186764},
	}
	tri6 = []triPoint{
		{0.87382197101699554332, 0.063089014491502228340, 0.050844906370206816921},
		{0.063089014491502228340, 0.87382197101699554332, 0.050844906370206816921},
		{0.063089014491502228340, 0.063089014491502228340, 0.050844906370206816921},
		{0.50142650965817915742, 0.24928674517091042129, 0.11678627572637936603},
		{0.24928674517091042129, 0.50142650965817915742, 0.11678627572637936603},
		{0.24928674517091042129, 0.24928674517091042129, 0.11678627572637936603},
		{0.053145049844816947353, 0.31035245103378440542, 0.082851075618373575194},
		{0.31035245103378440542, 0.053145049844816947353, 0.082851075618373575194},
		{0.053145049844816947353, 0.63650249912139864723, 0.082851075618373575194},
		{0.31035245103378440542, 0.63650249912139864723, 0.082851075618373575194},
		{0.63650249912139864723, 0.053145049844816947353, 0.082851075618373575194},
		{0.63650249912139864723, 0.31035245103378440542, 0.082851075618373575194},
	}
)

func triangleRule(order int) (pts []types.Point, wts []float64) {
	var table []triPoint
	switch {
	case order <= 1:
		table = tri1
	case order <= 4:
		table = tri4
	case order <= 6:
		table = tri6
	default:
		log.Printf("triangle quadrature of degree %d uses a collapsed Gauss rule", order)
		return collapsedTriangle(order/2 + 1)
	}
	for _, tp := range table {
		pts = append(pts, types.NewPoint(tp.x, tp.y))
		wts = append(wts, 0.5*tp.w)
	}
	return
}

// collapsedTriangle maps an n x n Gauss rule on the unit square onto the
// triangle through x = u(1-v), y = v
func collapsedTriangle(n int) (pts []types.Point, wts []float64) {
	x, w := Legendre1D(n)
	for i := 0; i < n; i++ {
		u, wu := 0.5*(x[i]+1), 0.5*w[i]
		for j := 0; j < n; j++ {
			v, wv := 0.5*(x[j]+1), 0.5*w[j]
			pts = append(pts, types.NewPoint(u*(1-v), v))
			wts = append(wts, wu*wv*(1-v))
		}
	}
	return
}
