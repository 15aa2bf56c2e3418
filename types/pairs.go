package types

import (
	"fmt"
	"math"
)

/*
PairKey stores an unordered pair of point indices so that (i,j) and (j,i) compare equal.
The smaller index is held in the low 32 bits.
*/
type PairKey uint64

func NewPairKey(i, j int) (packed PairKey) {
	var (
		limit = math.MaxUint32
	)
	if i < 0 || j < 0 || i > limit || j > limit {
		panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs", i, j))
	}
	if i > j {
		i, j = j, i
	}
	packed = PairKey(uint64(i) | uint64(j)<<32)
	return
}

// Indices returns the pair in ascending order
func (pk PairKey) Indices() (i, j int) {
	i = int(pk & math.MaxUint32)
	j = int(pk >> 32)
	return
}

// Pair is one weighted term of the stress objective
type Pair struct {
	Key    PairKey
	Weight float64
	Target float64
}

// LowerTriangle enumerates the pairs i > j of an n x n problem whose weight is not zero, in row order
func LowerTriangle(n int, weight func(i, j int) float64, target func(i, j int) float64) (pairs []Pair) {
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			if w := weight(i, j); w != 0 {
				pairs = append(pairs, Pair{NewPairKey(i, j), w, target(i, j)})
			}
		}
	}
	return
}
