package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

type Matrix struct {
	M        *mat.Dense
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v\n", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{
		m,
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// NewMatrixFrom copies any gonum matrix into a new writable Matrix
func NewMatrixFrom(A mat.Matrix) (R Matrix) {
	var (
		nr, nc = A.Dims()
	)
	R = NewMatrix(nr, nc)
	R.M.Copy(A)
	return
}

// NewMatrixFromRows builds a Matrix from a slice of equal length rows, as read from YAML input
func NewMatrixFromRows(rows [][]float64) (R Matrix, err error) {
	var (
		nr = len(rows)
		nc int
	)
	if nr == 0 {
		err = fmt.Errorf("unable to build a matrix from zero rows")
		return
	}
	nc = len(rows[0])
	data := make([]float64, 0, nr*nc)
	for i, row := range rows {
		if len(row) != nc {
			err = fmt.Errorf("row %d has %d columns, expected %d", i, len(row), nc)
			return
		}
		data = append(data, row...)
	}
	R = NewMatrix(nr, nc, data)
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)    { return m.M.Dims() }
func (m Matrix) At(i, j int) float64 { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix       { return m.M.T() }
func (m Matrix) Data() []float64     { return m.M.RawMatrix().Data }

// Chainable methods (extended)
func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m Matrix) IsReadOnly() bool { return m.readOnly }

// SubMatrix gathers the rows and columns listed in I into a new square matrix
func (m Matrix) SubMatrix(I []int) (R Matrix) { // Does not change receiver
	var (
		n = len(I)
	)
	R = NewMatrix(n, n)
	dataR := R.Data()
	for ii, i := range I {
		for jj, j := range I {
			dataR[ii*n+jj] = m.M.At(i, j)
		}
	}
	return
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) SetDiag(val []float64) Matrix { // Changes receiver
	var (
		nr, nc = m.Dims()
	)
	m.checkWritable()
	if len(val) != nr || nr != nc {
		panic(fmt.Errorf("diagonal length %d does not fit matrix %d x %d", len(val), nr, nc))
	}
	for i, v := range val {
		m.M.Set(i, i, v)
	}
	return m
}

func (m Matrix) AddScalar(a float64) Matrix { // Changes receiver
	var (
		data = m.Data()
	)
	m.checkWritable()
	for i := range data {
		data[i] += a
	}
	return m
}

func (m Matrix) Max() (max float64) {
	var (
		data = m.Data()
	)
	max = data[0]
	for _, val := range data {
		if val > max {
			max = val
		}
	}
	return
}

// FindAsymmetric returns the first (i,j) pair, i > j, where the matrix differs from its transpose by more than
// tol relative to the larger magnitude of the pair. ok is true when the matrix is square and symmetric.
func (m Matrix) FindAsymmetric(tol float64) (i, j int, ok bool) {
	var (
		nr, nc = m.Dims()
		data   = m.Data()
	)
	if nr != nc {
		return -1, -1, false
	}
	for i = 0; i < nr; i++ {
		for j = 0; j < i; j++ {
			a, b := data[i*nc+j], data[j*nc+i]
			scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
			if !(math.Abs(a-b) <= tol*scale) {
				return i, j, false
			}
		}
	}
	return -1, -1, true
}

func (m Matrix) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}
