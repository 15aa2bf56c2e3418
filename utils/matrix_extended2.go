package utils

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var ErrSingular = errors.New("matrix is singular")

// LeastSquares solves m x = b in the least squares sense using the SVD of m. The system is rejected with
// ErrSingular when m has non-finite entries, or when its numerical rank, counting singular values larger than rcond times the largest, is below full rank.
// cond is the 2-norm condition number (+Inf for a zero matrix).
func (m Matrix) LeastSquares(b []float64, rcond float64) (x []float64, cond float64, err error) {
	var (
		nr, nc = m.Dims()
		svd    mat.SVD
	)
	if len(b) != nr {
		panic(fmt.Errorf("right hand side length %d does not match %d rows", len(b), nr))
	}
	if !IsFinite(m) || !IsFinite(b) {
		err = fmt.Errorf("%w: system contains NaN or Inf", ErrSingular)
		return
	}
	if ok := svd.Factorize(m.M, mat.SVDThin); !ok {
		err = fmt.Errorf("%w: SVD factorization failed", ErrSingular)
		return
	}
	values := svd.Values(nil)
	cond = ConditionFromValues(values)
	rank := svd.Rank(rcond)
	if rank < min(nr, nc) {
		err = fmt.Errorf("%w: rank %d of %d, condition number %8.3e", ErrSingular, rank, min(nr, nc), cond)
		return
	}
	var dst mat.VecDense
	svd.SolveVecTo(&dst, mat.NewVecDense(nr, b), rank)
	x = make([]float64, nc)
	copy(x, dst.RawVector().Data)
	return
}

// ConditionFromValues takes singular values in descending order
func ConditionFromValues(values []float64) float64 {
	if len(values) == 0 {
		return 1e16
	}
	minVal, maxVal := values[len(values)-1], values[0]
	if minVal == 0 {
		return math.Inf(1)
	}
	return maxVal / minVal
}
