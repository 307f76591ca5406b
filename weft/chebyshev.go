package weft

// maxChebyDegree bounds the Clenshaw recurrence depth this package is
// prepared to run. .weft coefficient counts never approach this in
// practice (degrees run 5-63 per spec), but the teacher's jpleph
// asserts a similar ceiling (maxCheby = 18) against its own much wider
// DE kernels, so we keep an analogous guard rather than trust caller
// input unconditionally.
const maxChebyDegree = 64

// evalChebyshev evaluates a finite Chebyshev series of the first kind,
// c[0] + c[1]*T1(x) + ... + c[n-1]*T(n-1)(x), at x using Clenshaw's
// recurrence. x must lie in [-1, 1]. An empty coefficient slice
// evaluates to 0.
func evalChebyshev(c []float64, x float64) (float64, error) {
	if x < -1 || x > 1 {
		return 0, ErrDomain
	}
	n := len(c)
	if n == 0 {
		return 0, nil
	}
	if n > maxChebyDegree {
		n = maxChebyDegree
		c = c[:n]
	}
	if n == 1 {
		return c[0], nil
	}

	var bk1, bk2 float64
	twox := 2 * x
	for k := n - 1; k >= 1; k-- {
		bk := c[k] + twox*bk1 - bk2
		bk2 = bk1
		bk1 = bk
	}
	return c[0] + x*bk1 - bk2, nil
}

// unwrapAngles takes a sequence of angles sampled on a wrapping range
// of width r (e.g. r=360 for ecliptic longitude) and returns a
// monotone-friendly sequence with no discontinuity: each successive
// difference is folded into (-r/2, r/2] before being accumulated. A
// polynomial can then be fit through the result without seeing the
// wrap seam.
func unwrapAngles(values []float64, r float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		for d > r/2 {
			d -= r
		}
		for d <= -r/2 {
			d += r
		}
		out[i] = out[i-1] + d
	}
	return out
}
