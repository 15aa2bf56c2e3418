package geometryH2

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/notargets/gohmds/types"
)

const (
	// DenomTol bounds |1 - p1 conj(p2)| in Distance and the square roots of both denominators in the derivatives
	DenomTol = 1.e-12
)

var ErrDegenerate = errors.New("hyperbolic distance denominator is degenerate")

// InDisk reports whether z lies in the open unit disk, NaN is never inside
func InDisk(z complex128) bool {
	r := cmplx.Abs(z)
	return r < 1
}

/*
Distance is the Poincare disk metric

	d(p1,p2) = 2 atanh(|p1-p2| / |1 - p1 conj(p2)|)

The arguments are put in a canonical order before evaluation so that d(p1,p2) and d(p2,p1) agree to the bit.
*/
func Distance(p1, p2 complex128) (d float64, err error) {
	if p1 == p2 {
		return 0, nil
	}
	if less(p2, p1) {
		p1, p2 = p2, p1
	}
	var (
		num = cmplx.Abs(p1 - p2)
		den = cmplx.Abs(1 - p1*cmplx.Conj(p2))
	)
	if !(den >= DenomTol) {
		err = ErrDegenerate
		return
	}
	ratio := num / den
	if !(ratio < 1) {
		err = ErrDegenerate
		return
	}
	d = 2 * math.Atanh(ratio)
	return
}

func less(a, b complex128) bool {
	if real(a) != real(b) {
		return real(a) < real(b)
	}
	return imag(a) < imag(b)
}

// Mobius applies the disk automorphism (scale z + c) / (conj(c) scale z + 1)
func Mobius(z, c, scale complex128) complex128 {
	sz := scale * z
	return (sz + c) / (cmplx.Conj(c)*sz + 1)
}

type terms struct {
	v1, v2, v3, v4 float64
	s, q, t        float64
	r2             float64 // |p2|^2
}

func newTerms(p1, p2 complex128) (tm terms, ok bool) {
	var (
		x1, y1 = real(p1), imag(p1)
		x2, y2 = real(p2), imag(p2)
	)
	tm.v1 = x1 - x2
	tm.v2 = y1 - y2
	tm.v3 = x1*x2 + y1*y2 - 1
	tm.v4 = x1*y2 - y1*x2
	tm.s = tm.v1*tm.v1 + tm.v2*tm.v2
	tm.q = tm.v3*tm.v3 + tm.v4*tm.v4
	tm.r2 = x2*x2 + y2*y2
	if !(tm.s >= DenomTol*DenomTol) || !(tm.q >= DenomTol*DenomTol) {
		return
	}
	tm.t = tm.s / tm.q
	if !(tm.t < 1) {
		return
	}
	ok = true
	return
}

// mixed is the cross term P (real axis) or Q (imaginary axis) of the log derivative of q
func (tm terms) mixed(p2 complex128, axis types.Axis) float64 {
	x2, y2 := real(p2), imag(p2)
	if axis == types.Imag {
		return y2*tm.v3 - x2*tm.v4
	}
	return x2*tm.v3 + y2*tm.v4
}

// logSlope is half the derivative of ln(s/q) along axis
func (tm terms) logSlope(p2 complex128, axis types.Axis) float64 {
	v := tm.v1
	if axis == types.Imag {
		v = tm.v2
	}
	return v/tm.s - tm.mixed(p2, axis)/tm.q
}

/*
DDistance is the partial derivative of Distance(p1,p2) with respect to the real or imaginary coordinate of p1
with p2 held fixed. With t = s/q,

	dd = 2 sqrt(t)/(1-t) * (v/s - M/q)

where v is v1 or v2 and M is x2 v3 + y2 v4 (real axis) or y2 v3 - x2 v4 (imaginary axis).
Coincident points, a vanishing q, or a point outside the disk give 0.
*/
func DDistance(p1, p2 complex128, axis types.Axis) float64 {
	tm, ok := newTerms(p1, p2)
	if !ok {
		return 0
	}
	st := math.Sqrt(tm.t)
	return 2 * st / (1 - tm.t) * tm.logSlope(p2, axis)
}

// D2Distance is the second partial derivative of Distance(p1,p2) along one coordinate of p1, guarded like DDistance
func D2Distance(p1, p2 complex128, axis types.Axis) float64 {
	tm, ok := newTerms(p1, p2)
	if !ok {
		return 0
	}
	var (
		st   = math.Sqrt(tm.t)
		omt  = 1 - tm.t
		a    = tm.logSlope(p2, axis)
		m    = tm.mixed(p2, axis)
		sq   = tm.s * tm.s
		v1sq = tm.v1 * tm.v1
		v2sq = tm.v2 * tm.v2
		da   float64
	)
	if axis == types.Imag {
		da = (v1sq - v2sq) / sq
	} else {
		da = (v2sq - v1sq) / sq
	}
	da += -tm.r2/tm.q + 2*m*m/(tm.q*tm.q)
	return 2*st*(1+tm.t)*a*a/(omt*omt) + 2*st/omt*da
}
