package HMDS

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/notargets/gohmds/geometryH2"
	"github.com/notargets/gohmds/types"
	"github.com/notargets/gohmds/utils"
)

// shrinkEta keeps |eta delta| below 1 so the Mobius translation stays inside the disk
func shrinkEta(eta float64, delta complex128) float64 {
	mag := cmplx.Abs(delta)
	if mag > 0 && eta > 1/mag {
		return 0.8 / mag
	}
	return eta
}

func checkDisk(alpha int, z complex128) (err error) {
	if !geometryH2.InDisk(z) {
		err = &DiskViolationError{Index: alpha, Point: z}
	}
	return
}

// CurvatureFloor is the smallest damping weight of an axis, as a fraction of its point's curvature trace
const CurvatureFloor = 0.1

// floor returns max(a, CurvatureFloor*trace)
func floor(a, trace float64) float64 {
	return math.Max(a, CurvatureFloor*trace)
}

/*
dampedSolve solves (A + diag(lambda a)) delta = -g/2 over the unknowns with a non-zero gradient, where a_k is A_kk
floored against the trace of the 2 x 2 block of its point. Without the floor this is A o (1 + diag(lambda)).
The remaining unknowns do not move. lambda is indexed like g.
*/
func (p *Problem) dampedSolve(g []float64, A utils.Matrix, lambda []float64) (delta []float64, err error) {
	var (
		active []int
	)
	delta = make([]float64, len(g))
	for k, gk := range g {
		if gk != 0 {
			active = append(active, k)
		}
	}
	if len(active) == 0 {
		return
	}
	var (
		n    = len(active)
		Ar   = A.SubMatrix(active)
		diag = make([]float64, n)
		bet  = make([]float64, n)
		x    []float64
	)
	for ii, k := range active {
		Akk := A.At(k, k)
		diag[ii] = Akk + lambda[k]*floor(Akk, Akk+A.At(k^1, k^1))
		bet[ii] = -0.5 * g[k]
	}
	Ar.SetDiag(diag)
	if x, _, err = Ar.LeastSquares(bet, p.RCond); err != nil {
		return
	}
	for ii, k := range active {
		delta[k] = x[ii]
	}
	return
}

// UpdateLM proposes a new position for point alpha from the damped least squares step, applied as a Mobius translation
func (p *Problem) UpdateLM(points []complex128, alpha int, eta, lambda float64, curvature Curvature) (z complex128, err error) {
	var (
		g     []float64
		A     utils.Matrix
		delta []float64
	)
	if g, A, err = p.NormalEquations(points, alpha, curvature); err != nil {
		return
	}
	if delta, err = p.dampedSolve(g, A, []float64{lambda, lambda}); err != nil {
		err = &SingularSystemError{Index: alpha, Err: err}
		return
	}
	d := complex(delta[0], delta[1])
	z = geometryH2.Mobius(points[alpha], complex(shrinkEta(eta, d), 0)*d, 1)
	err = checkDisk(alpha, z)
	return
}

// UpdateNewton takes a damped Newton step along each axis, delta = -g / (|h| (1 + lambda)) with |h| floored like the LM damping
func (p *Problem) UpdateNewton(points []complex128, alpha int, eta, lambda float64) (z complex128, err error) {
	var (
		g, h, delta [2]float64
	)
	for _, axis := range types.Axes {
		if g[axis], err = p.Gradient(points, alpha, axis); err != nil {
			return
		}
	}
	if g[0] == 0 && g[1] == 0 {
		return points[alpha], checkDisk(alpha, points[alpha])
	}
	for _, axis := range types.Axes {
		if h[axis], err = p.AxisHessian(points, alpha, axis); err != nil {
			return
		}
		h[axis] = math.Abs(h[axis])
	}
	for _, axis := range types.Axes {
		if g[axis] == 0 {
			continue
		}
		hk := floor(h[axis], h[0]+h[1])
		if hk == 0 || !utils.IsFinite(hk) {
			err = &SingularSystemError{Index: alpha,
				Err: fmt.Errorf("%w: second derivative along the %s axis is %v", utils.ErrSingular, axis.Print(), hk)}
			return
		}
		delta[axis] = -g[axis] / (hk * (1 + lambda))
	}
	d := complex(delta[0], delta[1])
	z = geometryH2.Mobius(complex(shrinkEta(eta, d), 0)*d, points[alpha], 1)
	err = checkDisk(alpha, z)
	return
}

// UpdateBatch moves every point from one joint damped system, each point shrinks its own eta
func (p *Problem) UpdateBatch(points []complex128, eta float64, lambda []float64, curvature Curvature) (R []complex128, err error) {
	var (
		g     []float64
		A     utils.Matrix
		delta []float64
		lam2  = make([]float64, 2*p.N)
	)
	if len(lambda) != p.N {
		return nil, &ShapeMismatchError{Name: "lambda", Rows: len(lambda), Want: p.N}
	}
	if g, A, err = p.BatchNormalEquations(points, curvature); err != nil {
		return
	}
	for i, lam := range lambda {
		lam2[2*i], lam2[2*i+1] = lam, lam
	}
	if delta, err = p.dampedSolve(g, A, lam2); err != nil {
		return nil, &SingularSystemError{Index: -1, Err: err}
	}
	R = make([]complex128, p.N)
	for i, z := range points {
		d := complex(delta[2*i], delta[2*i+1])
		R[i] = geometryH2.Mobius(z, complex(shrinkEta(eta, d), 0)*d, 1)
		if err = checkDisk(i, R[i]); err != nil {
			return nil, err
		}
	}
	return
}
