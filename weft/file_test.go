package weft

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePreamble() Preamble {
	return Preamble{
		Body:      "mercury",
		SourceTag: "test",
		Timespan:  "2020",
		Precision: preamblePrecision,
		Quantity:  "longitude",
		Behavior:  Behavior{Kind: Unbounded},
		Generated: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFileWriteParseRoundTrip(t *testing.T) {
	f := &File{Preamble: samplePreamble()}
	f.MultiYear = append(f.MultiYear, &multiYearBlock{StartYear: 2018, Duration: 4, Coeffs: []float64{10, 1}})
	f.Monthly = append(f.Monthly, &monthlyBlock{Year: 2020, Month: 6, DayCount: 30, Coeffs: []float64{5, 0.5}})
	center := civilDateOf(time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC))
	blk := &fortyEightHourBlock{Center: center, Coeffs: []float64{1, 2}}
	header := &fortyEightHourSectionHeader{
		StartDay:   center.AddDays(-1),
		EndDay:     center.AddDays(1),
		BlockSize:  uint16(fortyEightHourBlockSize(2)),
		BlockCount: 1,
	}
	f.Sections = append(f.Sections, &fortyEightHourSection{header: header, blocks: []*fortyEightHourBlock{blk}})

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, f.Preamble.Body, got.Preamble.Body)
	require.Len(t, got.MultiYear, 1)
	require.Len(t, got.Monthly, 1)
	require.Len(t, got.Sections, 1)
	require.Len(t, got.Sections[0].blocks, 1)
	assert.Equal(t, center, got.Sections[0].blocks[0].Center)
}

func TestGetValuePrefersFortyEightHourOverMonthlyOverMultiYear(t *testing.T) {
	f := &File{Preamble: samplePreamble()}
	f.MultiYear = append(f.MultiYear, &multiYearBlock{StartYear: 2018, Duration: 4, Coeffs: []float64{100}})
	f.Monthly = append(f.Monthly, &monthlyBlock{Year: 2020, Month: 6, DayCount: 30, Coeffs: []float64{200}})
	center := civilDateOf(time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC))
	header := &fortyEightHourSectionHeader{StartDay: center.AddDays(-1), EndDay: center.AddDays(1), BlockSize: uint16(fortyEightHourBlockSize(1)), BlockCount: 1}
	f.Sections = append(f.Sections, &fortyEightHourSection{header: header, blocks: []*fortyEightHourBlock{{Center: center, Coeffs: []float64{300}}}})

	v, err := f.GetValue(time.Date(2020, 6, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 300.0, v)

	// Remove the 48h coverage: falls back to monthly.
	f.Sections = nil
	v, err = f.GetValue(time.Date(2020, 6, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 200.0, v)

	// Remove monthly too: falls back to multi-year.
	f.Monthly = nil
	v, err = f.GetValue(time.Date(2020, 6, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)
}

func TestGetValueReturnsErrNoBlock(t *testing.T) {
	f := &File{Preamble: samplePreamble()}
	_, err := f.GetValue(time.Date(2050, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNoBlock)
}

func TestGetValueBlendsOverlappingFortyEightHourBlocks(t *testing.T) {
	f := &File{Preamble: samplePreamble()}
	day1 := civilDateOf(time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC))
	day2 := civilDateOf(time.Date(2020, 6, 16, 0, 0, 0, 0, time.UTC))
	blocks := []*fortyEightHourBlock{
		{Center: day1, Coeffs: []float64{10}},
		{Center: day2, Coeffs: []float64{20}},
	}
	header := &fortyEightHourSectionHeader{StartDay: day1.AddDays(-1), EndDay: day2.AddDays(1), BlockSize: uint16(fortyEightHourBlockSize(1)), BlockCount: 2}
	f.Sections = append(f.Sections, &fortyEightHourSection{header: header, blocks: blocks})

	// Midpoint between the two centers: equally weighted blend.
	mid := day1.Midnight().Add(12 * time.Hour)
	v, err := f.GetValue(mid)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, v, 1e-9)

	// Exactly at day1's center, block 1 dominates.
	v, err = f.GetValue(day1.Midnight())
	require.NoError(t, err)
	assert.InDelta(t, 10.0, v, 1e-9)
}

func TestGetValueNormalizesBehavior(t *testing.T) {
	f := &File{Preamble: samplePreamble()}
	f.Preamble.Behavior = Behavior{Kind: Wrapping, Lo: 0, Hi: 360}
	f.MultiYear = append(f.MultiYear, &multiYearBlock{StartYear: 2018, Duration: 4, Coeffs: []float64{370}})
	v, err := f.GetValue(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, v, 1e-9)
}
