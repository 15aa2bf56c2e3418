package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	{ // Packed pair keys are order independent
		pk := NewPairKey(1, 0)
		assert.Equal(t, PairKey(1<<32), pk)
		assert.Equal(t, NewPairKey(0, 1), pk)
		i, j := NewPairKey(100, 7).Indices()
		assert.Equal(t, [2]int{7, 100}, [2]int{i, j})
		assert.Panics(t, func() { NewPairKey(-1, 2) })
	}
	{ // Lower triangle skips zero weights
		w := [][]float64{
			{0, 1, 0},
			{1, 0, 2},
			{0, 2, 0},
		}
		pairs := LowerTriangle(3,
			func(i, j int) float64 { return w[i][j] },
			func(i, j int) float64 { return float64(i + j) })
		require.Len(t, pairs, 2)
		i, j := pairs[0].Key.Indices()
		assert.Equal(t, [2]int{0, 1}, [2]int{i, j})
		assert.Equal(t, 1., pairs[0].Weight)
		assert.Equal(t, 3., pairs[1].Target)
		assert.Equal(t, 2., pairs[1].Weight)
	}
	{ // Axis names
		a, err := NewAxis("Y")
		require.NoError(t, err)
		assert.Equal(t, Imag, a)
		assert.Equal(t, "Real", Real.Print())
		_, err = NewAxis("z")
		assert.Error(t, err)
		assert.Equal(t, 0.25, Real.Component(complex(0.25, -0.5)))
		assert.Equal(t, -0.5, Imag.Component(complex(0.25, -0.5)))
	}
}
