package weft

import (
	"fmt"
	"time"
)

// descriptiveTimespan renders the human-readable <timespan> preamble
// token for the inclusive UTC date range [start, end]. Grounded on
// original_source/src/starloom/weft/timespan.py's descriptive_timespan,
// generalized per spec.md §6: rather than special-casing individual
// historical date literals, we apply the original's general rule
// directly -- a span that lands within a few days of a decade boundary
// on both ends is named by that decade; a span inside one calendar
// year is named by that year; everything else is named by its explicit
// start/end dates.
const timespanBufferDays = 10

func descriptiveTimespan(start, end time.Time) string {
	start, end = start.UTC(), end.UTC()

	if sameDecade, decade := spanIsDecade(start, end); sameDecade {
		return fmt.Sprintf("%ds", decade)
	}
	if start.Year() == end.Year() {
		return fmt.Sprintf("%d", start.Year())
	}
	return fmt.Sprintf("%s-to-%s", start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// spanIsDecade reports whether start and end each fall within
// timespanBufferDays of a decade boundary (Jan 1 of a year ending in
// 0) ten years apart, in which case the whole span is nameable as
// "<decade>s".
func spanIsDecade(start, end time.Time) (bool, int) {
	decadeStart := floorDecade(start.Add(timespanBufferDays * 24 * time.Hour).Year())
	boundaryStart := time.Date(decadeStart, time.January, 1, 0, 0, 0, 0, time.UTC)
	boundaryEnd := time.Date(decadeStart+10, time.January, 1, 0, 0, 0, 0, time.UTC)

	withinStart := absDuration(start.Sub(boundaryStart)) <= timespanBufferDays*24*time.Hour
	withinEnd := absDuration(end.Sub(boundaryEnd)) <= timespanBufferDays*24*time.Hour
	if withinStart && withinEnd {
		return true, decadeStart
	}
	return false, 0
}

func floorDecade(year int) int {
	return (year / 10) * 10
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
