package HMDS

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohmds/utils"
)

type Status uint8

const (
	Running Status = iota
	Converged
	MaxIterReached
)

var StatusPrintNames = []string{"Running", "Converged", "Max Iterations Reached"}

func (s Status) Print() (txt string) {
	txt = StatusPrintNames[s]
	return
}

// Settings are used as given, start from NewSettings to get the defaults
type Settings struct {
	Method                           Method
	Curvature                        Curvature
	StopRule                         StopRule
	LambdaInit, LambdaMin, LambdaMax float64
	RCond                            float64
	Seed                             uint64
	Rand                             *rand.Rand // Used instead of Seed when not nil
	Log                              io.Writer  // Progress output, silent when nil
	LogEvery                         int
}

func NewSettings() (s *Settings) {
	s = &Settings{
		Method:     LevenbergMarquardt,
		Curvature:  GaussNewton,
		StopRule:   StopOnSweep,
		LambdaInit: 1.e-3,
		LambdaMin:  1.e-4,
		LambdaMax:  1.e4,
		RCond:      DefaultRCond,
		Seed:       1,
		LogEvery:   25,
	}
	return
}

type Result struct {
	Points             []complex128
	Energy             float64
	Iterations         int
	Status             Status
	Lambda             []float64
	Accepted, Rejected int
}

// XY splits the points into real and imaginary coordinates
func (r *Result) XY() (X, Y []float64) {
	X, Y = make([]float64, len(r.Points)), make([]float64, len(r.Points))
	for i, z := range r.Points {
		X[i], Y[i] = real(z), imag(z)
	}
	return
}

/*
Optimizer is stochastic coordinate descent on the stress energy. Each iteration moves one randomly chosen point
(all points for the Batch method), keeps the move only when the energy strictly decreases, and adapts that
point's damping. It runs while the energy change exceeds Eps and fewer than MaxIter iterations were taken.
*/
type Optimizer struct {
	Problem            *Problem
	Settings           Settings
	Eta, Eps           float64
	MaxIter            int
	Iter               int
	Status             Status
	Lambda             []float64
	E                  float64 // energy of the accepted points
	Diff               float64
	Accepted, Rejected int
	accepted, working  []complex128
	lastDiff           []float64
	rng                *rand.Rand
	started            time.Time
}

func NewOptimizer(X0, Y0 []float64, D, W mat.Matrix, eta, eps float64, maxIter int, settings *Settings) (op *Optimizer, err error) {
	var (
		p *Problem
	)
	if settings == nil {
		settings = NewSettings()
	}
	if len(Y0) != len(X0) {
		return nil, &ShapeMismatchError{Name: "Y0", Rows: len(Y0), Want: len(X0)}
	}
	if p, err = NewProblem(D, W); err != nil {
		return
	}
	if len(X0) != p.N {
		return nil, &ShapeMismatchError{Name: "X0", Rows: len(X0), Want: p.N}
	}
	switch {
	case !(eta > 0) || math.IsInf(eta, 1):
		return nil, fmt.Errorf("step size eta must be positive and finite, have %v", eta)
	case !(eps >= 0):
		return nil, fmt.Errorf("convergence tolerance eps must be non-negative, have %v", eps)
	case maxIter < 0:
		return nil, fmt.Errorf("iteration limit must be non-negative, have %d", maxIter)
	case !(settings.LambdaMin >= 0) || !(settings.LambdaMax >= settings.LambdaMin):
		return nil, fmt.Errorf("damping bounds [%v, %v] are invalid", settings.LambdaMin, settings.LambdaMax)
	}
	op = &Optimizer{
		Problem:  p,
		Settings: *settings,
		Eta:      eta,
		Eps:      eps,
		MaxIter:  maxIter,
		Lambda:   make([]float64, p.N),
		Diff:     math.Inf(1),
		accepted: make([]complex128, p.N),
		working:  make([]complex128, p.N),
		lastDiff: make([]float64, p.N),
		rng:      settings.Rand,
	}
	if op.Settings.RCond > 0 {
		p.RCond = op.Settings.RCond
	}
	if op.Settings.LogEvery < 1 {
		op.Settings.LogEvery = 1
	}
	if op.rng == nil {
		op.rng = rand.New(rand.NewPCG(op.Settings.Seed, op.Settings.Seed^0x9e3779b97f4a7c15))
	}
	for i := range X0 {
		z := complex(X0[i], Y0[i])
		if err = checkDisk(i, z); err != nil {
			return nil, err
		}
		op.accepted[i], op.working[i] = z, z
		op.Lambda[i] = utils.Clamp(op.Settings.LambdaInit, op.Settings.LambdaMin, op.Settings.LambdaMax)
		op.lastDiff[i] = math.Inf(1)
	}
	if op.E, err = p.Energy(op.accepted); err != nil {
		return nil, err
	}
	op.updateStatus()
	return
}

// Points returns a copy of the accepted points
func (op *Optimizer) Points() (R []complex128) {
	R = make([]complex128, len(op.accepted))
	copy(R, op.accepted)
	return
}

func (op *Optimizer) updateStatus() {
	switch {
	case !(op.Diff > op.Eps):
		op.Status = Converged
	case op.Iter >= op.MaxIter:
		op.Status = MaxIterReached
	default:
		op.Status = Running
	}
}

// Step performs one accept or reject transition, it does nothing once the optimizer has stopped
func (op *Optimizer) Step() (err error) {
	var (
		change float64
	)
	if op.Status != Running {
		return
	}
	if op.Settings.Method == Batch {
		change, err = op.stepBatch()
	} else {
		change, err = op.stepPoint()
	}
	if err != nil {
		return
	}
	op.Iter++
	if op.Settings.StopRule == StopOnStep {
		op.Diff = change
	} else {
		op.Diff = floats.Max(op.lastDiff)
	}
	op.updateStatus()
	return
}

func (op *Optimizer) stepPoint() (change float64, err error) {
	var (
		alpha = op.rng.IntN(op.Problem.N)
		lam   = op.Lambda[alpha]
		z     complex128
		newE  float64
	)
	switch op.Settings.Method {
	case Newton:
		z, err = op.Problem.UpdateNewton(op.working, alpha, op.Eta, lam)
	default:
		z, err = op.Problem.UpdateLM(op.working, alpha, op.Eta, lam, op.Settings.Curvature)
	}
	if err != nil {
		return
	}
	op.working[alpha] = z
	if newE, err = op.Problem.Energy(op.working); err != nil {
		return
	}
	change = math.Abs(newE - op.E)
	op.lastDiff[alpha] = change
	if newE < op.E {
		op.accepted[alpha] = z
		op.E = newE
		op.Lambda[alpha] = op.clampLambda(lam / 10)
		op.Accepted++
	} else {
		op.working[alpha] = op.accepted[alpha]
		op.Lambda[alpha] = op.clampLambda(lam * 10)
		op.Rejected++
	}
	return
}

func (op *Optimizer) stepBatch() (change float64, err error) {
	var (
		candidate []complex128
		newE      float64
		scale     = 10.
	)
	if candidate, err = op.Problem.UpdateBatch(op.accepted, op.Eta, op.Lambda, op.Settings.Curvature); err != nil {
		return
	}
	if newE, err = op.Problem.Energy(candidate); err != nil {
		return
	}
	change = math.Abs(newE - op.E)
	if newE < op.E {
		copy(op.accepted, candidate)
		copy(op.working, candidate)
		op.E = newE
		scale = 0.1
		op.Accepted++
	} else {
		op.Rejected++
	}
	for i := range op.Lambda {
		op.Lambda[i] = op.clampLambda(op.Lambda[i] * scale)
		op.lastDiff[i] = change
	}
	return
}

func (op *Optimizer) clampLambda(lam float64) float64 {
	return utils.Clamp(lam, op.Settings.LambdaMin, op.Settings.LambdaMax)
}

// Run iterates until convergence, the iteration limit or cancellation of ctx, which is checked between iterations
func (op *Optimizer) Run(ctx context.Context) (res *Result, err error) {
	op.PrintInitialization()
	for op.Status == Running {
		if err = ctx.Err(); err != nil {
			return
		}
		if err = op.Step(); err != nil {
			return
		}
		if op.Iter%op.Settings.LogEvery == 0 {
			op.PrintUpdate()
		}
	}
	op.PrintFinal()
	res = op.Result()
	return
}

func (op *Optimizer) Result() (res *Result) {
	res = &Result{
		Points:     op.Points(),
		Energy:     op.E,
		Iterations: op.Iter,
		Status:     op.Status,
		Lambda:     make([]float64, len(op.Lambda)),
		Accepted:   op.Accepted,
		Rejected:   op.Rejected,
	}
	copy(res.Lambda, op.Lambda)
	return
}

/*
Fit embeds the N x N target distances D, weighted by W, starting from the points (X0[i], Y0[i]).
X0 and Y0 are copied and never modified. A nil settings uses NewSettings().
*/
func Fit(ctx context.Context, X0, Y0 []float64, D, W mat.Matrix, eta, eps float64, maxIter int,
	settings *Settings) (res *Result, err error) {
	var op *Optimizer
	if op, err = NewOptimizer(X0, Y0, D, W, eta, eps, maxIter, settings); err != nil {
		return
	}
	return op.Run(ctx)
}

func (op *Optimizer) PrintInitialization() {
	op.started = time.Now()
	if op.Settings.Log == nil {
		return
	}
	w := op.Settings.Log
	fmt.Fprintf(w, "Hyperbolic MDS on the Poincare disk, %d points\n", op.Problem.N)
	fmt.Fprintf(w, "Algorithm: %s", op.Settings.Method.Print())
	if op.Settings.Method != Newton {
		fmt.Fprintf(w, ", Curvature: %s", op.Settings.Curvature.Print())
	}
	fmt.Fprintf(w, ", Stop Rule: %s\n", op.Settings.StopRule.Print())
	fmt.Fprintf(w, "eta = %8.5f, eps = %8.3e, Max Iterations = %d\n", op.Eta, op.Eps, op.MaxIter)
	fmt.Fprintf(w, "    iter          Energy        Diff   min_lambda   max_lambda\n")
}

func (op *Optimizer) PrintUpdate() {
	if op.Settings.Log == nil {
		return
	}
	fmt.Fprintf(op.Settings.Log, "%8d%16.8e%12.3e%13.3e%13.3e\n",
		op.Iter, op.E, op.Diff, floats.Min(op.Lambda), floats.Max(op.Lambda))
}

func (op *Optimizer) PrintFinal() {
	if op.Settings.Log == nil {
		return
	}
	var (
		elapsed = time.Since(op.started)
		w       = op.Settings.Log
	)
	fmt.Fprintf(w, "\n%s after %d iterations, Energy = %12.6e\n", op.Status.Print(), op.Iter, op.E)
	fmt.Fprintf(w, "Accepted %d, Rejected %d\n", op.Accepted, op.Rejected)
	if op.Iter > 0 {
		rate := float64(elapsed.Microseconds()) / float64(op.Iter)
		fmt.Fprintf(w, "Rate of execution = %8.5f us/iteration\n", rate)
	}
	fmt.Fprintf(w, "%s\n", utils.GetMemUsage())
}
