package HMDS

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohmds/geometryH2"
	"github.com/notargets/gohmds/types"
	"github.com/notargets/gohmds/utils"
)

const DefaultRCond = 1.e-12

// Problem holds a validated target distance matrix D and weight matrix W of size N x N
type Problem struct {
	N     int
	D, W  utils.Matrix
	RCond float64 // relative singular value cutoff used by the damped solves
	pairs []types.Pair
}

func NewProblem(D, W mat.Matrix) (p *Problem, err error) {
	var (
		nr, nc = D.Dims()
		wr, wc = W.Dims()
	)
	if nr != nc || nr == 0 {
		return nil, &ShapeMismatchError{Name: "D", Rows: nr, Cols: nc, Want: max(nr, 1)}
	}
	if wr != nr || wc != nr {
		return nil, &ShapeMismatchError{Name: "W", Rows: wr, Cols: wc, Want: nr}
	}
	p = &Problem{
		N:     nr,
		D:     utils.NewMatrixFrom(D),
		W:     utils.NewMatrixFrom(W),
		RCond: DefaultRCond,
	}
	if err = validate("D", p.D, true); err != nil {
		return nil, err
	}
	if err = validate("W", p.W, false); err != nil {
		return nil, err
	}
	p.D.SetReadOnly("D")
	p.W.SetReadOnly("W")
	p.pairs = types.LowerTriangle(p.N, p.W.At, p.D.At)
	return
}

func validate(name string, m utils.Matrix, zeroDiagonal bool) (err error) {
	var (
		n, _ = m.Dims()
	)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			val := m.At(i, j)
			switch {
			case !utils.IsFinite(val):
				return &InvalidMatrixError{Name: name, I: i, J: j, Reason: "value is not finite"}
			case val < 0:
				return &InvalidMatrixError{Name: name, I: i, J: j, Reason: "value is negative"}
			case zeroDiagonal && i == j && val != 0:
				return &InvalidMatrixError{Name: name, I: i, J: j, Reason: "diagonal is not zero"}
			}
		}
	}
	if i, j, ok := m.FindAsymmetric(utils.SYMTOL); !ok {
		return &InvalidMatrixError{Name: name, I: i, J: j, Reason: "matrix is not symmetric"}
	}
	return
}

func (p *Problem) checkPoints(points []complex128) (err error) {
	if len(points) != p.N {
		err = &ShapeMismatchError{Name: "points", Rows: len(points), Want: p.N}
	}
	return
}

func distance(points []complex128, i, j int) (d float64, err error) {
	if d, err = geometryH2.Distance(points[i], points[j]); err != nil {
		err = &DegenerateDistanceError{I: i, J: j, Err: err}
	}
	return
}

// PairwiseDistances fills the lower triangle with hyperbolic distances and mirrors it, the diagonal is zero
func PairwiseDistances(points []complex128) (R *mat.Dense, err error) {
	var (
		n = len(points)
	)
	if n == 0 {
		return nil, &ShapeMismatchError{Name: "points", Want: 1}
	}
	R = mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			var d float64
			if d, err = distance(points, i, j); err != nil {
				return nil, err
			}
			R.Set(i, j, d)
			R.Set(j, i, d)
		}
	}
	return
}

// Energy validates D and W and evaluates the stress 0.5 * sum_ij W_ij (d_ij - D_ij)^2
func Energy(points []complex128, D, W mat.Matrix) (E float64, err error) {
	var p *Problem
	if p, err = NewProblem(D, W); err != nil {
		return
	}
	return p.Energy(points)
}

// Energy sums each symmetric pair once over the lower triangle, which equals half the full double sum
func (p *Problem) Energy(points []complex128) (E float64, err error) {
	if err = p.checkPoints(points); err != nil {
		return
	}
	for _, pr := range p.pairs {
		i, j := pr.Key.Indices()
		var d float64
		if d, err = distance(points, i, j); err != nil {
			return 0, err
		}
		r := d - pr.Target
		E += pr.Weight * r * r
	}
	return
}

// row visits every partner j of point alpha with a non-zero weight
func (p *Problem) row(points []complex128, alpha int, visit func(j int, w, resid float64)) (err error) {
	var (
		n  = p.N
		wr = p.W.Data()[alpha*n : (alpha+1)*n]
		dr = p.D.Data()[alpha*n : (alpha+1)*n]
	)
	if err = p.checkPoints(points); err != nil {
		return
	}
	for j := 0; j < n; j++ {
		if j == alpha || wr[j] == 0 {
			continue
		}
		var d float64
		if d, err = distance(points, alpha, j); err != nil {
			return
		}
		visit(j, wr[j], d-dr[j])
	}
	return
}

// Gradient is sum_j W_aj (d_aj - D_aj) dd_aj/daxis for point alpha, the self term is excluded
func (p *Problem) Gradient(points []complex128, alpha int, axis types.Axis) (g float64, err error) {
	za := points[alpha]
	err = p.row(points, alpha, func(j int, w, resid float64) {
		g += w * resid * geometryH2.DDistance(za, points[j], axis)
	})
	return
}

/*
NormalEquations returns the gradient pair g of point alpha and its 2x2 curvature A.

	GaussNewton:   A = sum_j W_aj grad(d_aj) grad(d_aj)^T
	OuterGradient: A = g g^T
*/
func (p *Problem) NormalEquations(points []complex128, alpha int, curvature Curvature) (g []float64, A utils.Matrix, err error) {
	var (
		za = points[alpha]
	)
	g = make([]float64, 2)
	A = utils.NewMatrix(2, 2)
	dataA := A.Data()
	err = p.row(points, alpha, func(j int, w, resid float64) {
		dd := [2]float64{
			geometryH2.DDistance(za, points[j], types.Real),
			geometryH2.DDistance(za, points[j], types.Imag),
		}
		for k := 0; k < 2; k++ {
			g[k] += w * resid * dd[k]
			if curvature == GaussNewton {
				for l := 0; l < 2; l++ {
					dataA[k*2+l] += w * dd[k] * dd[l]
				}
			}
		}
	})
	if err != nil {
		return
	}
	if curvature == OuterGradient {
		outer(dataA, g)
	}
	return
}

// AxisHessian is the analytic second derivative of the point energy along one axis, sum_j W_aj [(d')^2 + (d - D) d'']
func (p *Problem) AxisHessian(points []complex128, alpha int, axis types.Axis) (h float64, err error) {
	za := points[alpha]
	err = p.row(points, alpha, func(j int, w, resid float64) {
		dd := geometryH2.DDistance(za, points[j], axis)
		h += w * (dd*dd + resid*geometryH2.D2Distance(za, points[j], axis))
	})
	return
}

/*
BatchNormalEquations assembles the joint system for all points, unknowns ordered x0, y0, x1, y1, ...
Each weighted pair contributes its 4 entry Jacobian to the sparse Gauss-Newton curvature.
*/
func (p *Problem) BatchNormalEquations(points []complex128, curvature Curvature) (g []float64, A utils.Matrix, err error) {
	var (
		n2  = 2 * p.N
		dok utils.DOK
	)
	if err = p.checkPoints(points); err != nil {
		return
	}
	g = make([]float64, n2)
	if curvature == GaussNewton {
		dok = utils.NewDOK(n2, n2)
	}
	for _, pr := range p.pairs {
		i, j := pr.Key.Indices()
		var d float64
		if d, err = distance(points, i, j); err != nil {
			return
		}
		var (
			zi, zj = points[i], points[j]
			resid  = d - pr.Target
			jac    = []float64{
				geometryH2.DDistance(zi, zj, types.Real), geometryH2.DDistance(zi, zj, types.Imag),
				geometryH2.DDistance(zj, zi, types.Real), geometryH2.DDistance(zj, zi, types.Imag),
			}
			I = []int{2 * i, 2*i + 1, 2 * j, 2*j + 1}
		)
		for ii, k := range I {
			g[k] += pr.Weight * resid * jac[ii]
		}
		if curvature == GaussNewton {
			dok.AccumulateOuter(I, jac, pr.Weight)
		}
	}
	if curvature == GaussNewton {
		A = dok.ToMatrix()
	} else {
		A = utils.NewMatrix(n2, n2)
		outer(A.Data(), g)
	}
	return
}

func outer(data, g []float64) {
	n := len(g)
	for k := 0; k < n; k++ {
		for l := 0; l < n; l++ {
			data[k*n+l] = g[k] * g[l]
		}
	}
}
