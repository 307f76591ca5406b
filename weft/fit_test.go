package weft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitChebyshevRecoversExactCoefficients(t *testing.T) {
	want := []float64{1.5, -0.75, 0.25, 0.1}
	xs := make([]float64, 0, 41)
	ys := make([]float64, 0, 41)
	for i := 0; i <= 40; i++ {
		x := -1 + 2*float64(i)/40
		v, err := evalChebyshev(want, x)
		require.NoError(t, err)
		xs = append(xs, x)
		ys = append(ys, v)
	}
	got, err := fitChebyshev(xs, ys, len(want))
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-8)
	}
}

func TestFitChebyshevRejectsMismatchedLengths(t *testing.T) {
	_, err := fitChebyshev([]float64{1, 2}, []float64{1}, 2)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestFitChebyshevRejectsEmptyInput(t *testing.T) {
	_, err := fitChebyshev(nil, nil, 2)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestSolveLinearSystemIdentity(t *testing.T) {
	a := [][]float64{{1, 0}, {0, 1}}
	b := []float64{3, 4}
	got, err := solveLinearSystem(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 3, got[0], 1e-12)
	assert.InDelta(t, 4, got[1], 1e-12)
}

func TestSolveLinearSystemRejectsSingular(t *testing.T) {
	a := [][]float64{{1, 1}, {1, 1}}
	b := []float64{2, 2}
	_, err := solveLinearSystem(a, b)
	assert.ErrorIs(t, err, ErrDomain)
}
