package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var input = []byte(`
Title: "Equilateral triangle"
Method: newton
Eta: 0.5
MaxIterations: 2000
D:
  - [0, 1, 1]
  - [1, 0, 1]
  - [1, 1, 0]
X0: [0.0, -0.1, 0.1]
Y0: [0.1, -0.05, -0.05]
`)

func TestInputParameters(t *testing.T) {
	var ip InputParametersHMDS
	require.NoError(t, ip.Parse(input))
	assert.Equal(t, "Equilateral triangle", ip.Title)
	assert.Equal(t, "newton", ip.Method)
	assert.Equal(t, 0.5, ip.Eta)
	assert.Equal(t, 2000, ip.MaxIterations)
	assert.True(t, ip.HasInitialPoints())
	// Defaults
	assert.Equal(t, "gn", ip.Curvature)
	assert.Equal(t, "sweep", ip.StopRule)
	assert.Equal(t, 1.e-3, ip.LambdaInit)
	assert.Equal(t, 1, ip.Runs)

	D, W, err := ip.Matrices()
	require.NoError(t, err)
	nr, nc := D.Dims()
	assert.Equal(t, [2]int{3, 3}, [2]int{nr, nc})
	assert.Equal(t, []float64{0, 1, 1, 1, 0, 1, 1, 1, 0}, W.Data())
	assert.Equal(t, D.Data(), W.Data())

	ip.W = [][]float64{{0, 1}, {1}}
	_, _, err = ip.Matrices()
	assert.ErrorContains(t, err, "reading W")

	// Explicit zeros are kept
	var undamped InputParametersHMDS
	require.NoError(t, undamped.Parse([]byte("D: [[0, 1], [1, 0]]\nLambdaInit: 0\nLambdaMin: 0\nEps: 0\nMaxIterations: 0\n")))
	assert.Equal(t, 0., undamped.LambdaInit)
	assert.Equal(t, 0., undamped.LambdaMin)
	assert.Equal(t, 0., undamped.Eps)
	assert.Equal(t, 0, undamped.MaxIterations)
	assert.Equal(t, 1.e4, undamped.LambdaMax)
	assert.Equal(t, 1., undamped.Eta)

	var bad InputParametersHMDS
	assert.Error(t, bad.Parse([]byte("D: [[0, 1], [1, 0]]\nEta: [1]\n")))
}
