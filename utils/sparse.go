package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }
func (m DOK) NNZ() int            { return m.M.NNZ() }

func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

// Accumulate adds val into element (i,j), the assembly pattern used to sum element contributions
func (m DOK) Accumulate(i, j int, val float64) DOK { // Changes receiver
	m.checkWritable()
	if val == 0 {
		return m
	}
	m.M.Set(i, j, m.M.At(i, j)+val)
	return m
}

// AccumulateOuter adds scale * v v^T into the rows and columns listed in I, v being indexed like I
func (m DOK) AccumulateOuter(I []int, v []float64, scale float64) DOK { // Changes receiver
	if len(I) != len(v) {
		panic(fmt.Errorf("length of index and values are not equal: len(I) = %v, len(v) = %v", len(I), len(v)))
	}
	for ii, i := range I {
		for jj, j := range I {
			m.Accumulate(i, j, scale*v[ii]*v[jj])
		}
	}
	return m
}

func (m DOK) ToMatrix() (R Matrix) {
	R = Matrix{
		m.M.ToDense(),
		false,
		m.name,
	}
	return
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}
