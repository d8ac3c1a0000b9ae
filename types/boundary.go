package types

import "strings"

type BCType uint8

const (
	INTERIOR BCType = iota
	DIRICHLET
	NEUMANN
)

var BCNameMap = map[string]BCType{
	"interior":  INTERIOR,
	"none":      INTERIOR,
	"dirichlet": DIRICHLET,
	"neumann":   NEUMANN,
	"neuman":    NEUMANN,
}

func (bc BCType) String() string {
	switch bc {
	case INTERIOR:
		return "Interior"
	case DIRICHLET:
		return "Dirichlet"
	case NEUMANN:
		return "Neumann"
	}
	return "Unknown"
}

// NewBCType parses a boundary name, unknown names are reported with ok == false
func NewBCType(name string) (bc BCType, ok bool) {
	bc, ok = BCNameMap[strings.ToLower(strings.TrimSpace(name))]
	return
}
