// Package synth generates deterministic test datasets for exercising the
// container's compression filter pipeline: a 1-D sinusoid with noise and an
// N-dimensional array that is smooth along chosen axes and random along the rest.
package synth

import (
	"fmt"
	"math"
	"math/rand"
)

// DefaultSeed is the fixed seed used for every generation pass, so output is
// reproducible across runs and independent of other random consumption.
const DefaultSeed int64 = 0xDeadBeef

// Scalar is the set of element kinds the generators can produce.
type Scalar interface {
	~int32 | ~float64
}

// ValueFunc selects the function sampled over the permuted, centered coordinates.
type ValueFunc int

const (
	// SeparableProduct multiplies a fixed cycle of bounded unary functions,
	// one per axis.
	SeparableProduct ValueFunc = iota
	// RadialSinc evaluates amp*sinc(0.4*r) of the hyper-radius r.
	RadialSinc
)

const (
	radialAmp  = 10000.0
	radialFreq = 0.4
	radialEps  = 1e-15
)

// Correlated produces a flattened row-major array of product(dims) elements
// that is smooth along every axis not listed in uncorrelated, and effectively
// random along the listed axes. Smoothness is broken by shuffling the index
// permutation of an axis, not by changing the sampled function, so values along
// a shuffled axis are draws from the same smooth field in scrambled order.
//
// The shuffle source is seeded from DefaultSeed, making the result a pure
// function of (dims, uncorrelated, fn) and of T.
func Correlated[T Scalar](dims []int, uncorrelated []int, fn ValueFunc) ([]T, error) {
	return CorrelatedRand[T](rand.New(rand.NewSource(DefaultSeed)), dims, uncorrelated, fn)
}

// CorrelatedRand is Correlated drawing axis shuffles from rng.
func CorrelatedRand[T Scalar](rng *rand.Rand, dims []int, uncorrelated []int, fn ValueFunc) ([]T, error) {
	n, m, err := strides(dims)
	if err != nil {
		return nil, err
	}
	tables, err := permutations(rng, dims, uncorrelated)
	if err != nil {
		return nil, err
	}

	buf := make([]T, n)
	coord := make([]int, len(dims))
	for idx := 0; idx < n; idx++ {
		rem := idx
		for i := len(dims) - 1; i >= 0; i-- {
			raw := rem / m[i]
			rem = rem % m[i]
			coord[i] = tables[i][raw] - dims[i]/2
		}
		buf[idx] = T(evaluate(fn, coord))
	}
	return buf, nil
}

// strides validates dims and returns the total element count together with the
// per-axis stride multipliers m[i] = product(dims[0..i-1]).
func strides(dims []int) (int, []int, error) {
	if len(dims) < 1 {
		return 0, nil, fmt.Errorf("need at least one dimension")
	}
	n := 1
	m := make([]int, len(dims))
	for i, d := range dims {
		if d < 1 {
			return 0, nil, fmt.Errorf("dimension %d has non-positive size %d", i, d)
		}
		m[i] = n
		n *= d
	}
	return n, m, nil
}

// permutations builds one index table per axis: identity for correlated axes,
// a Fisher-Yates shuffle for axes listed in uncorrelated. Duplicate entries in
// uncorrelated reshuffle an already shuffled table, which is still a bijection.
func permutations(rng *rand.Rand, dims []int, uncorrelated []int) ([][]int, error) {
	tables := make([][]int, len(dims))
	for i, d := range dims {
		tables[i] = make([]int, d)
		for j := range tables[i] {
			tables[i][j] = j
		}
	}
	for _, ax := range uncorrelated {
		if ax < 0 || ax >= len(dims) {
			return nil, fmt.Errorf("uncorrelated axis %d out of range [0,%d)", ax, len(dims))
		}
		t := tables[ax]
		for j := 0; j < len(t)-1; j++ {
			k := j + rng.Intn(len(t)-j)
			t[j], t[k] = t[k], t[j]
		}
	}
	return tables, nil
}

func evaluate(fn ValueFunc, coord []int) float64 {
	switch fn {
	case RadialSinc:
		r2 := 0.0
		for _, c := range coord {
			r2 += float64(c) * float64(c)
		}
		r := math.Sqrt(r2)
		if r < radialEps {
			return radialAmp
		}
		return radialAmp * math.Sin(radialFreq*r) / (radialFreq * r)
	default:
		val := 1.0
		for i := len(coord) - 1; i >= 0; i-- {
			val *= unary(i, float64(coord[i]))
		}
		return val
	}
}

// unary cycles through a fixed assortment of interesting, somewhat bounded
// functions, selected by axis index.
func unary(axis int, x float64) float64 {
	switch axis % 6 {
	case 0:
		return math.Cos(x)
	case 1:
		return math.J0(x)
	case 2:
		return math.Abs(x)
	case 3:
		return math.Sin(x)
	case 4:
		return math.Cbrt(x)
	default:
		return math.Erf(x)
	}
}
