package types

import (
	"fmt"
	"strings"
)

// Axis selects one real coordinate of a point z = x + iy on the disk
type Axis uint8

const (
	Real Axis = iota
	Imag
)

var (
	AxisNames = map[string]Axis{
		"real": Real,
		"x":    Real,
		"imag": Imag,
		"y":    Imag,
	}
	AxisPrintNames = []string{"Real", "Imag"}
	Axes           = [2]Axis{Real, Imag}
)

func (a Axis) Print() (txt string) {
	txt = AxisPrintNames[a]
	return
}

func NewAxis(label string) (a Axis, err error) {
	var ok bool
	label = strings.ToLower(strings.TrimSpace(label))
	if a, ok = AxisNames[label]; !ok {
		err = fmt.Errorf("unable to use axis named %s", label)
	}
	return
}

// Component returns the real or imaginary part of z
func (a Axis) Component(z complex128) float64 {
	if a == Imag {
		return imag(z)
	}
	return real(z)
}
