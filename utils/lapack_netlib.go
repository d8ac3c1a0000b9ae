//go:build netlib

package utils

import (
	"gonum.org/v1/gonum/blas/blas64"
	netblas "gonum.org/v1/netlib/blas/netlib"
)

// BLASBackend names the active BLAS implementation
var BLASBackend = "netlib"

func init() {
	blas64.Use(netblas.Implementation{})
}
