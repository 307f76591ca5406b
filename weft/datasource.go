package weft

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DataSource is the sampled-data contract the writer consumes. It
// mirrors original_source/src/starloom/weft/weft_writer.py's source
// argument -- a timespan, a resolvable set of sample instants, and a
// value lookup -- matching spec.md §6's requirement that the writer
// only ever asks a DataSource for values at instants the source itself
// declares, never at synthetic off-grid times. Implementations live in
// the horizons and sqlitecache packages.
type DataSource interface {
	// Timespan returns the inclusive UTC range this source can supply
	// values for.
	Timespan() (start, end time.Time)
	// ValueAt returns the source's value at t, which must be one of
	// the instants Timestamps() reports and lie within Timespan().
	// Implementations return ErrDomain otherwise.
	ValueAt(t time.Time) (float64, error)
	// Timestamps returns every instant this source can supply a value
	// for, in any order. This is the source's real declared sample
	// grid -- e.g. the cadence a remote API was queried at -- not a
	// synthetic step the writer invents; BuildFile samples and
	// measures coverage only at these instants.
	Timestamps() []time.Time
}

// ParseStep parses a sampling step string like "1d", "6h", "30m", or
// "45s" into a time.Duration. Grounded on
// original_source/.../block_selection.py's calculate_sampling_rate,
// which accepts the same suffix set.
func ParseStep(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty step", ErrDomain)
	}
	unit := s[len(s)-1]
	var mult time.Duration
	switch unit {
	case 'd':
		mult = 24 * time.Hour
	case 'h':
		mult = time.Hour
	case 'm':
		mult = time.Minute
	case 's':
		mult = time.Second
	default:
		return 0, fmt.Errorf("%w: step %q must end in d, h, m, or s", ErrDomain, s)
	}
	n, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: bad step magnitude in %q", ErrDomain, s)
	}
	return time.Duration(n * float64(mult)), nil
}

// sortedGrid returns a sorted copy of ds.Timestamps(), re-sorted on
// every call to mirror block_selection.py's analyze_data_coverage,
// which sorts its timestamps argument in place each time it runs.
func sortedGrid(ds DataSource) []time.Time {
	ts := ds.Timestamps()
	out := make([]time.Time, len(ts))
	copy(out, ts)
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// coverage is (fraction, pointsPerDay) as defined by
// block_selection.py's analyze_data_coverage: fraction is the span
// between the first and last in-range sample divided by the requested
// span (not the fraction of some synthetic expected grid), and
// pointsPerDay is the in-range sample count over that same span.
type coverage struct {
	Fraction     float64
	PointsPerDay float64
	SampleCount  int
}

// analyzeCoverage measures ds's real declared sample grid (via
// Timestamps) against [start, end], exactly mirroring
// block_selection.py's analyze_data_coverage rather than re-probing
// ds.ValueAt at an invented step.
func analyzeCoverage(ds DataSource, start, end time.Time) coverage {
	grid := sortedGrid(ds)
	var inRange []time.Time
	for _, t := range grid {
		if !t.Before(start) && !t.After(end) {
			inRange = append(inRange, t)
		}
	}
	if len(inRange) == 0 {
		return coverage{}
	}

	totalDays := end.Sub(start).Hours() / 24
	var fraction float64
	if totalDays < 0.0001 {
		fraction = 1.0
	} else {
		coveredDays := inRange[len(inRange)-1].Sub(inRange[0]).Hours() / 24
		fraction = coveredDays / totalDays
		if fraction > 1 {
			fraction = 1
		}
	}
	pointsPerDay := float64(len(inRange))
	if totalDays > 0 {
		pointsPerDay /= totalDays
	}
	return coverage{Fraction: fraction, PointsPerDay: pointsPerDay, SampleCount: len(inRange)}
}

// blockCriteria is the minimum coverage/density a span must meet for
// the writer to include a block at a given layer, grounded on
// block_selection.py's BlockCriteria dataclass.
type blockCriteria struct {
	MinPointsPerDay float64
	MinCoverage     float64
}

func (c blockCriteria) satisfiedBy(cov coverage) bool {
	return cov.Fraction >= c.MinCoverage && cov.PointsPerDay >= c.MinPointsPerDay
}
