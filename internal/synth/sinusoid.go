package synth

import (
	"math"
	"math/rand"
)

// Sinusoid generates one period of amp*(1+sin(x)) over npoints samples with
// uniform noise of total width noise added to each sample. Integer kinds get
// the truncated value. The noise source is seeded from DefaultSeed.
func Sinusoid[T Scalar](npoints int, noise, amp float64) []T {
	return SinusoidRand[T](rand.New(rand.NewSource(DefaultSeed)), npoints, noise, amp)
}

// SinusoidRand is Sinusoid drawing noise from rng.
func SinusoidRand[T Scalar](rng *rand.Rand, npoints int, noise, amp float64) []T {
	buf := make([]T, npoints)
	denom := float64(npoints - 1)
	if npoints < 2 {
		denom = 1
	}
	for i := range buf {
		x := 2 * math.Pi * float64(i) / denom
		n := noise * (rng.Float64() - 0.5)
		buf[i] = T(amp*(1+math.Sin(x)) + n)
	}
	return buf
}
