package weft

import "fmt"

// chebyshevBasis returns T_0(x), ..., T_{degree-1}(x) computed by the
// standard three-term recurrence T_k = 2x*T_{k-1} - T_{k-2}.
func chebyshevBasis(x float64, degree int) []float64 {
	t := make([]float64, degree)
	if degree == 0 {
		return t
	}
	t[0] = 1
	if degree == 1 {
		return t
	}
	t[1] = x
	for k := 2; k < degree; k++ {
		t[k] = 2*x*t[k-1] - t[k-2]
	}
	return t
}

// fitChebyshev finds the degree coefficients minimizing the
// least-squares residual between the Chebyshev series and the sampled
// (xs[i], ys[i]) pairs, by solving the normal equations A^T A c = A^T y
// directly. No ecosystem linear-algebra package in the retrieved
// corpus exposes a small dense solver (the stack's scientific
// dependencies -- modernc.org/sqlite, parquet-go, cosmos-sdk's math --
// are unrelated to curve fitting), so this is a deliberate, documented
// stdlib-only routine; see DESIGN.md.
func fitChebyshev(xs, ys []float64, degree int) ([]float64, error) {
	if len(xs) != len(ys) || len(xs) == 0 {
		return nil, fmt.Errorf("%w: fitChebyshev requires matching, non-empty samples", ErrDomain)
	}
	if degree < 1 {
		degree = 1
	}
	if degree > len(xs) {
		degree = len(xs)
	}

	ata := make([][]float64, degree)
	aty := make([]float64, degree)
	for i := range ata {
		ata[i] = make([]float64, degree)
	}
	for i, x := range xs {
		basis := chebyshevBasis(x, degree)
		for r := 0; r < degree; r++ {
			aty[r] += basis[r] * ys[i]
			for c := 0; c < degree; c++ {
				ata[r][c] += basis[r] * basis[c]
			}
		}
	}
	return solveLinearSystem(ata, aty)
}

// solveLinearSystem solves a*x = b for x via Gaussian elimination with
// partial pivoting. a is square and modified in place (on a copy).
func solveLinearSystem(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	m := make([][]float64, n)
	for i := range m {
		m[i] = append([]float64{}, a[i]...)
	}
	rhs := append([]float64{}, b...)

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if absf(m[r][col]) > absf(m[pivot][col]) {
				pivot = r
			}
		}
		if absf(m[pivot][col]) < 1e-15 {
			return nil, fmt.Errorf("%w: singular system fitting Chebyshev coefficients", ErrDomain)
		}
		m[col], m[pivot] = m[pivot], m[col]
		rhs[col], rhs[pivot] = rhs[pivot], rhs[col]

		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c < n; c++ {
				m[r][c] -= factor * m[col][c]
			}
			rhs[r] -= factor * rhs[col]
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := rhs[r]
		for c := r + 1; c < n; c++ {
			sum -= m[r][c] * x[c]
		}
		x[r] = sum / m[r][r]
	}
	return x, nil
}
