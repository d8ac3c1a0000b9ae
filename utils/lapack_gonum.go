//go:build !netlib

package utils

var BLASBackend = "gonum"
