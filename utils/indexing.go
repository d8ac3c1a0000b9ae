package utils

// Index holds the global dof numbers of one element, in local dof order
type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}
