package utils

// Linspace returns N equally spaced values covering [a,b] inclusive
func Linspace(N int, a, b float64) (x []float64) {
	x = make([]float64, N)
	if N == 1 {
		x[0] = 0.5 * (a + b)
		return
	}
	dx := (b - a) / float64(N-1)
	for i := range x {
		x[i] = a + float64(i)*dx
	}
	x[N-1] = b
	return
}
