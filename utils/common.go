package utils

import "fmt"

const (
	NODETOL = 1.e-12
	// CLEARTOL is the magnitude below which assembled sparse entries are dropped
	CLEARTOL = 1.e-12
)

// DimensionError reports an operand size mismatch, raised through panic by the containers
type DimensionError struct {
	Op       string
	Got, Exp int
}

func (e DimensionError) Error() string {
	return fmt.Sprintf("dimension mismatch in %s: have %d, need %d", e.Op, e.Got, e.Exp)
}

func checkDim(op string, got, exp int) {
	if got != exp {
		panic(DimensionError{Op: op, Got: got, Exp: exp})
	}
}
