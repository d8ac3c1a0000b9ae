package fem

import (
	"fmt"

	"github.com/notargets/gofem/types"
)

// Node is a degree of freedom location of one element
type Node struct {
	X        types.Point
	RefID    int // index inside the owning element
	GlobalID int // -1 until numbered by the FESpace
	BC       types.BCType
	Procs    []int // owning processors, unused by the serial solver
}

func NewNode(x types.Point, refID int, bc types.BCType) Node {
	return Node{X: x, RefID: refID, GlobalID: -1, BC: bc}
}

// Equal compares positions only
func (n Node) Equal(o Node) bool { return n.X.Equal(o.X) }

func (n Node) String() string {
	return fmt.Sprintf("node %d (ref %d) at %v, bc = %v", n.GlobalID, n.RefID, n.X, n.BC)
}
