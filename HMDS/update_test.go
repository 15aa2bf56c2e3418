package HMDS

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohmds/geometryH2"
	"github.com/notargets/gohmds/utils"
)

func equilateral() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, 1, 1,
		1, 0, 1,
		1, 1, 0,
	})
}

func TestShrinkEta(t *testing.T) {
	assert.Equal(t, 0.4, shrinkEta(1, complex(2, 0)))
	assert.Equal(t, 1., shrinkEta(1, complex(0, 0.5)))
	assert.Equal(t, 3., shrinkEta(3, 0))
	assert.InDelta(t, 0.8, 5*cmplx.Abs(complex(shrinkEta(5, complex(3, 4)), 0)), 1.e-15)
}

// damped returns A + diag(lambda a) with a_k = max(A_kk, CurvatureFloor*tr A) for a 2 x 2 curvature block
func damped(A utils.Matrix, lambda []float64) *mat.Dense {
	tr := A.At(0, 0) + A.At(1, 1)
	return mat.NewDense(2, 2, []float64{
		A.At(0, 0) + lambda[0]*math.Max(A.At(0, 0), CurvatureFloor*tr), A.At(0, 1),
		A.At(1, 0), A.At(1, 1) + lambda[1]*math.Max(A.At(1, 1), CurvatureFloor*tr),
	})
}

func TestDampedSolve(t *testing.T) {
	p, err := NewProblem(fourD, fourW)
	require.NoError(t, err)
	checkSolution := func(g, delta []float64, Ad *mat.Dense) {
		var r mat.VecDense
		r.MulVec(Ad, mat.NewVecDense(2, delta))
		assert.InDelta(t, -0.5*g[0], r.AtVec(0), 1.e-10*math.Abs(g[0])+1.e-14)
		assert.InDelta(t, -0.5*g[1], r.AtVec(1), 1.e-10*math.Abs(g[1])+1.e-14)
		// Descent direction
		assert.Less(t, g[0]*delta[0]+g[1]*delta[1], 0.)
	}
	{ // The returned step solves the damped normal equations
		lambda := []float64{0.01, 0.3}
		g, A, err := p.NormalEquations(fourPoints, 2, GaussNewton)
		require.NoError(t, err)
		delta, err := p.dampedSolve(g, A, lambda)
		require.NoError(t, err)
		checkSolution(g, delta, damped(A, lambda))
	}
	{ // Outer gradient curvature is only solvable with damping
		lambda := []float64{0.25, 0.25}
		g, A, err := p.NormalEquations(fourPoints, 0, OuterGradient)
		require.NoError(t, err)
		delta, err := p.dampedSolve(g, A, lambda)
		require.NoError(t, err)
		checkSolution(g, delta, damped(A, lambda))
		_, err = p.dampedSolve(g, A, []float64{0, 0})
		assert.ErrorIs(t, err, utils.ErrSingular)
	}
	{ // Balanced rank one curvature keeps the closed form of A o (1 + diag(lambda))
		lam := 0.25
		g := []float64{0.3, -0.4}
		A := utils.NewMatrix(2, 2, []float64{0.09, -0.12, -0.12, 0.16})
		delta, err := p.dampedSolve(g, A, []float64{lam, lam})
		require.NoError(t, err)
		c := -0.5 / (2 + lam)
		assert.InDelta(t, c/g[0], delta[0], 1.e-12)
		assert.InDelta(t, c/g[1], delta[1], 1.e-12)
	}
	{ // Heavy damping of a lopsided rank one block still steps along the gradient
		var (
			a, b = 5.5e-4, 0.41
			g    = []float64{2 * a, 2 * b}
			A    = utils.NewMatrix(2, 2, []float64{a * a, a * b, a * b, b * b})
		)
		delta, err := p.dampedSolve(g, A, []float64{1.e4, 1.e4})
		require.NoError(t, err)
		checkSolution(g, delta, damped(A, []float64{1.e4, 1.e4}))
		cos := -(g[0]*delta[0] + g[1]*delta[1]) / (math.Hypot(g[0], g[1]) * math.Hypot(delta[0], delta[1]))
		assert.Greater(t, cos, 0.99)
		assert.Less(t, math.Hypot(delta[0], delta[1]), 1.e-3)
	}
	{ // Coordinates with zero gradient do not move
		A := utils.NewMatrix(2, 2, []float64{2, 0, 0, 0})
		delta, err := p.dampedSolve([]float64{1, 0}, A, []float64{0, 0})
		require.NoError(t, err)
		assert.Equal(t, []float64{-0.25, 0}, delta)
		delta, err = p.dampedSolve([]float64{0, 0}, A, []float64{0, 0})
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0}, delta)
	}
}

func TestUpdates(t *testing.T) {
	p, err := NewProblem(fourD, fourW)
	require.NoError(t, err)
	{ // Each update keeps points in the disk, large eta is shrunk
		for alpha := range fourPoints {
			z, err := p.UpdateLM(fourPoints, alpha, 50, 1.e-3, GaussNewton)
			require.NoError(t, err)
			assert.True(t, geometryH2.InDisk(z))
			z, err = p.UpdateLM(fourPoints, alpha, 50, 1.e-3, OuterGradient)
			require.NoError(t, err)
			assert.True(t, geometryH2.InDisk(z))
			z, err = p.UpdateNewton(fourPoints, alpha, 50, 1.e-3)
			require.NoError(t, err)
			assert.True(t, geometryH2.InDisk(z))
		}
		R, err := p.UpdateBatch(fourPoints, 50, utils.ConstArray(4, 1.e-3), GaussNewton)
		require.NoError(t, err)
		for _, z := range R {
			assert.True(t, geometryH2.InDisk(z))
		}
	}
	{ // Updates leave the input untouched
		pts := make([]complex128, 4)
		copy(pts, fourPoints)
		_, _ = p.UpdateLM(pts, 1, 1, 1.e-3, GaussNewton)
		_, _ = p.UpdateBatch(pts, 1, utils.ConstArray(4, 1.e-3), OuterGradient)
		assert.Equal(t, fourPoints, pts)
	}
	{ // A configuration that already matches its targets does not move
		D, err := PairwiseDistances(fourPoints)
		require.NoError(t, err)
		q, err := NewProblem(D, fourW)
		require.NoError(t, err)
		for alpha, z0 := range fourPoints {
			g, _, err := q.NormalEquations(fourPoints, alpha, GaussNewton)
			require.NoError(t, err)
			if g[0] != 0 || g[1] != 0 {
				continue
			}
			z, err := q.UpdateLM(fourPoints, alpha, 1, 0, GaussNewton)
			require.NoError(t, err)
			assert.Equal(t, z0, z)
			z, err = q.UpdateNewton(fourPoints, alpha, 1, 0)
			require.NoError(t, err)
			assert.Equal(t, z0, z)
		}
	}
	{ // Small damped steps lower the energy
		E0, _ := p.Energy(fourPoints)
		pts := make([]complex128, 4)
		copy(pts, fourPoints)
		z, err := p.UpdateLM(pts, 0, 1.e-3, 1, GaussNewton)
		require.NoError(t, err)
		pts[0] = z
		E1, _ := p.Energy(pts)
		assert.Less(t, E1, E0)
	}
}

func TestSingularSystems(t *testing.T) {
	var (
		singErr *SingularSystemError
		dup     = complex(0.12, 0.21)
		pts     = []complex128{dup, dup, complex(-0.33, 0.17)}
	)
	p, err := NewProblem(equilateral(), ones(3))
	require.NoError(t, err)
	for alpha := range pts {
		_, err = p.UpdateLM(pts, alpha, 1, 0, GaussNewton)
		require.ErrorAs(t, err, &singErr)
		assert.Equal(t, alpha, singErr.Index)
		assert.True(t, errors.Is(err, utils.ErrSingular))
		// Damping restores a solvable system
		_, err = p.UpdateLM(pts, alpha, 1, 1.e-3, GaussNewton)
		assert.NoError(t, err)
	}
	{ // The joint system has the isometries in its null space
		_, err = p.UpdateBatch([]complex128{0.1, complex(-0.2, 0.3), complex(0.05, -0.25)}, 1,
			[]float64{0, 0, 0}, GaussNewton)
		require.ErrorAs(t, err, &singErr)
		assert.Equal(t, -1, singErr.Index)
		_, err = p.UpdateBatch([]complex128{0.1, complex(-0.2, 0.3), complex(0.05, -0.25)}, 1,
			[]float64{1.e-3, 1.e-3, 1.e-3}, GaussNewton)
		assert.NoError(t, err)
	}
	{ // Lambda has one entry per point
		var shapeErr *ShapeMismatchError
		_, err = p.UpdateBatch(pts, 1, []float64{0, 0}, GaussNewton)
		require.ErrorAs(t, err, &shapeErr)
	}
}

func TestDiskViolation(t *testing.T) {
	var diskErr *DiskViolationError
	err := checkDisk(3, complex(0.6, 0.9))
	require.ErrorAs(t, err, &diskErr)
	assert.Equal(t, 3, diskErr.Index)
	assert.Error(t, checkDisk(1, cmplx.NaN()))
	assert.NoError(t, checkDisk(0, complex(0.6, 0.79)))
}
