package InputParameters

import (
	"fmt"
	"io"

	"github.com/ghodss/yaml"

	"github.com/notargets/gofem/mesh"
	"github.com/notargets/gofem/types"
)

// Domain is a rectangle with one boundary condition per side, [bottom, right, top, left]
type Domain struct {
	Low  []float64 `yaml:"Low"`
	High []float64 `yaml:"High"`
	BCs  []string  `yaml:"BCs"`
}

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title           string  `yaml:"Title"`
	PolynomialOrder int     `yaml:"PolynomialOrder"`
	Refinements     int     `yaml:"Refinements"` // elements per side
	Tolerance       float64 `yaml:"Tolerance"`
	MaxIterations   int     `yaml:"MaxIterations"`
	Assembly        string  `yaml:"Assembly"` // sparse, element or csr
	Space           string  `yaml:"Space"`    // lagrange or l2
	Parallel        int     `yaml:"Parallel"`
	Domain          *Domain `yaml:"Domain"`
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Polynomial Order\n", ip.PolynomialOrder)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Refinements\n", ip.Refinements)
	fmt.Fprintf(w, "%8.3e\t\t= Tolerance\n", ip.Tolerance)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Max Iterations\n", ip.MaxIterations)
	fmt.Fprintf(w, "[%s]\t\t\t= Assembly\n", ip.Assembly)
	fmt.Fprintf(w, "[%s]\t\t\t= Space\n", ip.Space)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Parallel\n", ip.Parallel)
	if ip.Domain != nil {
		fmt.Fprintf(w, "%v -> %v, BCs = %v\t= Domain\n", ip.Domain.Low, ip.Domain.High, ip.Domain.BCs)
	}
}

// Mesh builds the square mesh of the domain, nil when no domain is given
func (ip *InputParameters) Mesh() (m *mesh.Mesh, err error) {
	d := ip.Domain
	if d == nil {
		return
	}
	var (
		bcs = mesh.AllDirichlet4
		N   = ip.Refinements
	)
	if N < 1 {
		err = fmt.Errorf("refinements must be at least 1 to build a domain, have %d", N)
		return
	}
	if len(d.Low) != 2 || len(d.High) != 2 {
		err = fmt.Errorf("domain bounds need two components, have %v and %v", d.Low, d.High)
		return
	}
	if d.Low[0] >= d.High[0] || d.Low[1] >= d.High[1] {
		err = fmt.Errorf("domain low %v must be below high %v", d.Low, d.High)
		return
	}
	switch len(d.BCs) {
	case 0:
	case 4:
		for i, name := range d.BCs {
			var ok bool
			if bcs[i], ok = types.NewBCType(name); !ok {
				err = fmt.Errorf("unknown boundary condition %q", name)
				return
			}
		}
	default:
		err = fmt.Errorf("domain needs four boundary conditions [bottom, right, top, left], have %d", len(d.BCs))
		return
	}
	m = mesh.SquareMesh(N, N, types.NewPoint(d.Low...), types.NewPoint(d.High...), bcs)
	return
}
