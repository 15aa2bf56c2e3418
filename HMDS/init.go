package HMDS

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// RandomDisk draws n points uniformly by area from the disk |z| < radius
func RandomDisk(rng *rand.Rand, n int, radius float64) (X, Y []float64, err error) {
	if !(radius > 0 && radius < 1) {
		err = fmt.Errorf("initial radius must lie in (0,1), have %v", radius)
		return
	}
	X, Y = make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		r := radius * math.Sqrt(rng.Float64())
		theta := 2 * math.Pi * rng.Float64()
		X[i], Y[i] = r*math.Cos(theta), r*math.Sin(theta)
	}
	return
}
