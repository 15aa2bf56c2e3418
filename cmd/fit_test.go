package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gohmds/HMDS"
	"github.com/notargets/gohmds/InputParameters"
)

func TestRunFit(t *testing.T) {
	fileInput := []byte(`
Title: Test Case
Method: batch
Eps: 1.e-12
MaxIterations: 3000
D:
  - [0, 1, 1]
  - [1, 0, 1]
  - [1, 1, 0]
X0: [0.0, -0.087, 0.087]
Y0: [0.1, -0.05, -0.05]
`)
	var ip InputParameters.InputParametersHMDS
	require.NoError(t, ip.Parse(fileInput))
	{ // Settings follow the input names
		s, err := NewSettings(&ip, nil)
		require.NoError(t, err)
		assert.Equal(t, HMDS.Batch, s.Method)
		assert.Equal(t, HMDS.GaussNewton, s.Curvature)
		assert.Equal(t, HMDS.StopOnSweep, s.StopRule)
	}
	var out bytes.Buffer
	res, err := RunFit(context.Background(), &ModelFit{Verbose: true}, &ip, &out)
	require.NoError(t, err)
	assert.Less(t, res.Energy, 1.e-6)
	assert.Contains(t, out.String(), "Batch Levenberg-Marquardt")

	out.Reset()
	require.NoError(t, WriteResult(&out, ip.Title, res))
	var fo FitOutput
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &fo))
	assert.Equal(t, "Test Case", fo.Title)
	assert.Equal(t, res.Iterations, fo.Iterations)
	assert.Len(t, fo.X, 3)

	{ // Random starts
		ip.X0, ip.Y0 = nil, nil
		ip.Method, ip.Runs = "lm", 3
		res, err := RunFit(context.Background(), &ModelFit{Parallel: 2}, &ip, &out)
		require.NoError(t, err)
		assert.Less(t, res.Energy, 1.e-6)
	}
	{ // Unknown method
		ip.Method = "simplex"
		_, err := RunFit(context.Background(), &ModelFit{}, &ip, &out)
		assert.ErrorContains(t, err, "simplex")
	}
	{ // An undamped run can be requested from the input file
		var (
			undamped InputParameters.InputParametersHMDS
			singErr  *HMDS.SingularSystemError
		)
		require.NoError(t, undamped.Parse([]byte(`
LambdaInit: 0
LambdaMin: 0
MaxIterations: 100
D:
  - [0, 1, 1]
  - [1, 0, 1]
  - [1, 1, 0]
X0: [0.12, 0.12, -0.33]
Y0: [0.21, 0.21, 0.17]
`)))
		s, err := NewSettings(&undamped, nil)
		require.NoError(t, err)
		assert.Equal(t, 0., s.LambdaInit)
		_, err = RunFit(context.Background(), &ModelFit{}, &undamped, &out)
		assert.ErrorAs(t, err, &singErr)
	}
}
