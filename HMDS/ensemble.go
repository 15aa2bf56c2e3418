package HMDS

import (
	"context"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohmds/utils"
)

/*
FitEnsemble runs independent fits from random starting points, run k seeded with settings.Seed + k.
Runs are spread over parallel goroutines and share no mutable state. The run with the lowest energy is
returned along with every run's result, and the first failing run aborts with its error.
*/
func FitEnsemble(ctx context.Context, D, W mat.Matrix, eta, eps float64, maxIter, runs int, radius float64,
	parallel int, settings *Settings) (best *Result, all []*Result, err error) {
	var (
		n, _ = D.Dims()
		errs []error
	)
	if runs < 1 {
		return nil, nil, fmt.Errorf("number of runs must be at least 1, have %d", runs)
	}
	errs = make([]error, runs)
	if settings == nil {
		settings = NewSettings()
	}
	all = make([]*Result, runs)
	pm := utils.NewPartitionMap(parallel, runs)
	pm.RunPartitioned(func(np, k int) {
		var (
			seed   = settings.Seed + uint64(k)
			rng    = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			s      = *settings
			X0, Y0 []float64
		)
		if X0, Y0, errs[k] = RandomDisk(rng, n, radius); errs[k] != nil {
			return
		}
		s.Rand, s.Log = rng, nil
		all[k], errs[k] = Fit(ctx, X0, Y0, D, W, eta, eps, maxIter, &s)
	})
	for k, e := range errs {
		if e != nil {
			return nil, all, fmt.Errorf("run %d: %w", k, e)
		}
	}
	energies := make([]float64, runs)
	for k, res := range all {
		energies[k] = res.Energy
	}
	best = all[floats.MinIdx(energies)]
	return
}
