package HMDS

import (
	"fmt"
	"strings"
)

type Method uint8

const (
	LevenbergMarquardt Method = iota // one point per iteration, damped 2x2 least squares
	Newton                           // one point per iteration, per axis analytic second derivative
	Batch                            // all points per iteration, damped 2N x 2N least squares
)

var (
	MethodNames = map[string]Method{
		"lm":                  LevenbergMarquardt,
		"levenberg-marquardt": LevenbergMarquardt,
		"levenbergmarquardt":  LevenbergMarquardt,
		"newton":              Newton,
		"batch":               Batch,
	}
	MethodPrintNames = []string{"Levenberg-Marquardt", "Newton", "Batch Levenberg-Marquardt"}
)

func (m Method) Print() (txt string) {
	txt = MethodPrintNames[m]
	return
}

func NewMethod(label string) (m Method, err error) {
	return lookup(MethodNames, "method", label)
}

// Curvature selects the matrix damped by the Levenberg-Marquardt updates
type Curvature uint8

const (
	GaussNewton   Curvature = iota // sum of weighted distance gradient outer products
	OuterGradient                  // outer product of the energy gradient with itself
)

var (
	CurvatureNames = map[string]Curvature{
		"gn":            GaussNewton,
		"gauss-newton":  GaussNewton,
		"gaussnewton":   GaussNewton,
		"outer":         OuterGradient,
		"outergradient": OuterGradient,
	}
	CurvaturePrintNames = []string{"Gauss-Newton", "Outer Gradient"}
)

func (c Curvature) Print() (txt string) {
	txt = CurvaturePrintNames[c]
	return
}

func NewCurvature(label string) (c Curvature, err error) {
	return lookup(CurvatureNames, "curvature", label)
}

// StopRule selects how the energy change compared with eps is measured
type StopRule uint8

const (
	StopOnSweep StopRule = iota // largest of the most recent change of every point
	StopOnStep                  // change of the latest iteration only
)

var (
	StopRuleNames = map[string]StopRule{
		"sweep": StopOnSweep,
		"step":  StopOnStep,
	}
	StopRulePrintNames = []string{"Sweep", "Step"}
)

func (s StopRule) Print() (txt string) {
	txt = StopRulePrintNames[s]
	return
}

func NewStopRule(label string) (s StopRule, err error) {
	return lookup(StopRuleNames, "stop rule", label)
}

func lookup[T any](names map[string]T, kind, label string) (val T, err error) {
	var ok bool
	label = strings.ToLower(strings.TrimSpace(label))
	if val, ok = names[label]; !ok {
		err = fmt.Errorf("unable to use %s named %s", kind, label)
	}
	return
}
