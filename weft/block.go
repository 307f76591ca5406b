package weft

import (
	"math"
	"time"
)

func isNaN32(f float32) bool {
	return math.IsNaN(float64(f))
}

// block is the shared contract every concrete block kind satisfies.
// Grounded on the teacher's interp()/State() split (domain mapping
// separated from Chebyshev evaluation) but packaged per-instance here
// since weft holds many small blocks rather than one monolithic
// record.
type block interface {
	// Contains reports whether t lies in this block's half-open span.
	Contains(t time.Time) bool
	// Normalize maps t into the polynomial's x domain [-1, 1].
	// Contains(t) must be true, or the mapping is meaningless.
	Normalize(t time.Time) float64
	// Evaluate returns eval(coeffs, normalize(t)), failing with
	// ErrOutOfRange if t is outside the block's span.
	Evaluate(t time.Time) (float64, error)
}

func evaluateBlock(b block, coeffs []float64, t time.Time) (float64, error) {
	if !b.Contains(t) {
		return 0, ErrOutOfRange
	}
	x := b.Normalize(t)
	return evalChebyshev(coeffs, x)
}

// trimCoefficients drops trailing coefficients whose magnitude is
// below 1e-12, always keeping at least one. Applied by the writer
// before serialization, per spec.md §4.4 step 5.
func trimCoefficients(c []float64) []float64 {
	const epsilon = 1e-12
	n := len(c)
	for n > 1 && absf(c[n-1]) < epsilon {
		n--
	}
	return c[:n]
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func toFloat32Slice(c []float64) []float32 {
	out := make([]float32, len(c))
	for i, v := range c {
		out[i] = float32(v)
	}
	return out
}

func toFloat64Slice(c []float32) []float64 {
	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = float64(v)
	}
	return out
}
