package HMDS

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohmds/utils"
)

// GromovProduct is (x|y)_p = (D_px + D_py - D_xy) / 2
func GromovProduct(x, y, p int, D mat.Matrix) float64 {
	return 0.5 * (D.At(p, x) + D.At(p, y) - D.At(x, y))
}

/*
DeltaHyperbolicity is the four point Gromov delta of the metric D,

	max over x,y,z,p of min((x|y)_p, (y|z)_p) - (x|z)_p

It is zero for tree metrics and indicates how well D suits a hyperbolic embedding. The base point p is
partitioned over parallel goroutines.
*/
func DeltaHyperbolicity(D mat.Matrix, parallel int) (delta float64, err error) {
	var (
		nr, nc = D.Dims()
		m      utils.Matrix
	)
	if nr != nc || nr == 0 {
		return 0, &ShapeMismatchError{Name: "D", Rows: nr, Cols: nc, Want: max(nr, 1)}
	}
	m = utils.NewMatrixFrom(D)
	if err = validate("D", m, true); err != nil {
		return
	}
	pm := utils.NewPartitionMap(parallel, nr)
	partial := make([]float64, pm.ParallelDegree)
	for np := range partial {
		partial[np] = math.Inf(-1)
	}
	pm.RunPartitioned(func(np, p int) {
		for x := 0; x < nr; x++ {
			for y := 0; y < nr; y++ {
				xy := GromovProduct(x, y, p, m)
				for z := 0; z < nr; z++ {
					val := math.Min(xy, GromovProduct(y, z, p, m)) - GromovProduct(x, z, p, m)
					if val > partial[np] {
						partial[np] = val
					}
				}
			}
		}
	})
	delta = floats.Max(partial)
	return
}
