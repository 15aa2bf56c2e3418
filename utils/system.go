package utils

import (
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

// IsFinite is false when any element is NaN or +/-Inf
func IsFinite(A any) bool {
	switch v := A.(type) {
	case float64:
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	case complex128:
		return !cmplx.IsNaN(v) && !cmplx.IsInf(v)
	case []float64:
		for _, f := range v {
			if !IsFinite(f) {
				return false
			}
		}
	case []complex128:
		for _, z := range v {
			if !IsFinite(z) {
				return false
			}
		}
	case Matrix:
		return IsFinite(v.Data())
	}
	return true
}
