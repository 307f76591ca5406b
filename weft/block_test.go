package weft

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimCoefficients(t *testing.T) {
	assert.Equal(t, []float64{1, 2}, trimCoefficients([]float64{1, 2, 0, 0, 1e-13}))
	assert.Equal(t, []float64{0}, trimCoefficients([]float64{0, 0, 0}))
	assert.Equal(t, []float64{5}, trimCoefficients([]float64{5}))
}

func TestMultiYearBlockRoundTrip(t *testing.T) {
	b := &multiYearBlock{StartYear: 2000, Duration: 10, Coeffs: []float64{1.5, -2.25, 0.125}}
	var buf bytes.Buffer
	require.NoError(t, b.serialize(&buf))
	marker, err := readMarker(&buf)
	require.NoError(t, err)
	assert.Equal(t, markerMultiYear, marker)
	got, err := deserializeMultiYearBlock(&buf)
	require.NoError(t, err)
	assert.Equal(t, b.StartYear, got.StartYear)
	assert.Equal(t, b.Duration, got.Duration)
	for i := range b.Coeffs {
		assert.InDelta(t, b.Coeffs[i], got.Coeffs[i], 1e-6)
	}
}

func TestMultiYearBlockContainsAndBoundary(t *testing.T) {
	b := &multiYearBlock{StartYear: 2000, Duration: 5}
	assert.True(t, b.Contains(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, b.Contains(time.Date(2004, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, b.Contains(time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, b.Contains(time.Date(1999, 12, 31, 23, 59, 0, 0, time.UTC)))
}

func TestMultiYearNormalizeEndpoints(t *testing.T) {
	b := &multiYearBlock{StartYear: 2000, Duration: 2}
	assert.InDelta(t, -1, b.Normalize(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)), 1e-9)
}

func TestMonthlyBlockRoundTrip(t *testing.T) {
	b := &monthlyBlock{Year: 2024, Month: 2, DayCount: 29, Coeffs: []float64{1, 2, 3, 4}}
	var buf bytes.Buffer
	require.NoError(t, b.serialize(&buf))
	marker, err := readMarker(&buf)
	require.NoError(t, err)
	assert.Equal(t, markerMonthly, marker)
	got, err := deserializeMonthlyBlock(&buf)
	require.NoError(t, err)
	assert.Equal(t, b.Year, got.Year)
	assert.Equal(t, b.Month, got.Month)
	assert.Equal(t, b.DayCount, got.DayCount)
	for i := range b.Coeffs {
		assert.InDelta(t, b.Coeffs[i], got.Coeffs[i], 1e-6)
	}
}

func TestMonthlyBlockContainsAndNormalize(t *testing.T) {
	b := &monthlyBlock{Year: 2024, Month: 2, DayCount: 29}
	assert.True(t, b.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, b.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	mid := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	x := b.Normalize(mid)
	assert.True(t, x > -1 && x < 1)
}

func TestFortyEightHourBlockRoundTrip(t *testing.T) {
	center := civilDateOf(time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC))
	b := &fortyEightHourBlock{Center: center, Coeffs: []float64{1, 2, 3}}
	var buf bytes.Buffer
	require.NoError(t, b.serialize(&buf, 6))
	marker, err := readMarker(&buf)
	require.NoError(t, err)
	assert.Equal(t, marker48Hour, marker)
	got, err := deserialize48HourBlock(&buf, 6)
	require.NoError(t, err)
	assert.Equal(t, center, got.Center)
	assert.Equal(t, []float64{1, 2, 3}, got.Coeffs)
}

func TestFortyEightHourBlockContainsWindow(t *testing.T) {
	center := civilDateOf(time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC))
	b := &fortyEightHourBlock{Center: center}
	assert.True(t, b.Contains(time.Date(2020, 6, 14, 0, 0, 1, 0, time.UTC)))
	assert.True(t, b.Contains(time.Date(2020, 6, 15, 23, 59, 59, 0, time.UTC)))
	assert.False(t, b.Contains(time.Date(2020, 6, 16, 0, 0, 0, 0, time.UTC)))
	assert.False(t, b.Contains(time.Date(2020, 6, 13, 23, 59, 59, 0, time.UTC)))
}

func TestFortyEightHourSectionHeaderRoundTrip(t *testing.T) {
	h := &fortyEightHourSectionHeader{
		StartDay:   civilDateOf(time.Date(2020, 6, 14, 0, 0, 0, 0, time.UTC)),
		EndDay:     civilDateOf(time.Date(2020, 6, 16, 0, 0, 0, 0, time.UTC)),
		BlockSize:  uint16(fortyEightHourBlockSize(6)),
		BlockCount: 1,
	}
	var buf bytes.Buffer
	require.NoError(t, h.serialize(&buf))
	marker, err := readMarker(&buf)
	require.NoError(t, err)
	assert.Equal(t, marker48HourHeader, marker)
	got, err := deserialize48HourSectionHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, h.StartDay, got.StartDay)
	assert.Equal(t, h.EndDay, got.EndDay)
	assert.Equal(t, 6, got.CoeffCount())
}

func TestFortyEightHourSectionHeaderRejectsBackwardsSpan(t *testing.T) {
	var buf bytes.Buffer
	h := &fortyEightHourSectionHeader{
		StartDay:  civilDateOf(time.Date(2020, 6, 16, 0, 0, 0, 0, time.UTC)),
		EndDay:    civilDateOf(time.Date(2020, 6, 14, 0, 0, 0, 0, time.UTC)),
		BlockSize: 26,
	}
	require.NoError(t, h.serialize(&buf))
	_, err := deserialize48HourSectionHeader(&buf)
	assert.ErrorIs(t, err, ErrFormat)
}
