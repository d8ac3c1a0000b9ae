package utils

import (
	"fmt"
	"math"
	"runtime"
)

const mib = 1 << 20

// GetMemUsage reports the heap and system footprint of the process in MiB
func GetMemUsage() string {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return fmt.Sprintf("heap = %d MiB, total = %d MiB, sys = %d MiB, GCs = %d",
		ms.HeapAlloc/mib, ms.TotalAlloc/mib, ms.Sys/mib, ms.NumGC)
}

// IsNan reports whether any entry of a float64, []float64, Vector or Matrix
// is NaN, other types are never NaN
func IsNan(A any) bool {
	var data []float64
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case []float64:
		data = v
	case Vector:
		data = v.Data()
	case Matrix:
		if v.IsEmpty() {
			return false
		}
		data = v.Data()
	}
	for _, f := range data {
		if math.IsNaN(f) {
			return true
		}
	}
	return false
}
