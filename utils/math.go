package utils

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// Clamp limits val to [lo, hi]
func Clamp(val, lo, hi float64) float64 {
	if val > hi {
		return hi
	} else if val < lo {
		return lo
	}
	return val
}
