package events

import (
	"context"
	"fmt"
	"time"
)

// InannaGate is a Moon-Venus conjunction marking one of the gates
// Inanna passes through while descending into, or ascending out of,
// the underworld. Ported from
// original_source/src/starloom/knowledge/inanna.py's InannaEvent,
// narrowed to the fields this package can compute without the
// original's CSV/notes bookkeeping.
type InannaGate struct {
	Phase      string // "ascent" or "descent"
	GateNumber int
	Time       time.Time
	VenusLon   float64
	MoonLon    float64
}

// InannaCycle is one full Venus synodic cycle framed the way
// inanna.py's compute_inanna_cycle frames it: from the station-direct
// that ends one retrograde loop to the station-retrograde that begins
// the next, with the underworld passage (the stretch where Venus sits
// within ElongationThreshold degrees of the Sun, invisible to the
// naked eye) located inside it by bisection, and the Moon-Venus
// conjunctions on the way in (ascent) and out (descent) of that
// passage found as ordinary transits.
type InannaCycle struct {
	CycleStart          time.Time
	CycleEnd            time.Time
	UnderworldEntry     time.Time
	UnderworldExit      time.Time
	ElongationThreshold float64
	AscentGates         []InannaGate
	DescentGates        []InannaGate
}

// FindInannaCycle locates the Inanna cycle containing target, composed
// entirely from this package's own finders: FindStations brackets the
// cycle between a station-direct and the following station-retrograde,
// a bisection scan (mirroring inanna.py's _find_underworld_boundaries)
// locates where Venus-Sun elongation crosses elongationThreshold, and
// FindTransits reports the Moon-Venus conjunctions either side of that
// crossing. venus, sun, and moon must report the respective body's
// ecliptic longitude.
func FindInannaCycle(ctx context.Context, venus, sun, moon LongitudeSource, target time.Time, elongationThreshold float64) (*InannaCycle, error) {
	if elongationThreshold <= 0 {
		return nil, fmt.Errorf("events: elongationThreshold must be positive")
	}

	const searchBuffer = 800 * 24 * time.Hour
	stations, err := FindStations(ctx, venus, target.Add(-searchBuffer), target.Add(searchBuffer), 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("events: finding Venus stations around %s: %w", target, err)
	}

	cycleStart, cycleEnd, err := bracketInannaCycle(stations, target)
	if err != nil {
		return nil, err
	}

	entry, exit, err := findUnderworldBoundaries(ctx, venus, sun, cycleStart, cycleEnd, elongationThreshold, 6*time.Hour)
	if err != nil {
		return nil, err
	}

	ascent, err := FindTransits(ctx, venus, moon, Conjunction, cycleStart, entry, 6*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("events: finding ascent gates: %w", err)
	}
	descent, err := FindTransits(ctx, venus, moon, Conjunction, exit, cycleEnd, 6*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("events: finding descent gates: %w", err)
	}

	return &InannaCycle{
		CycleStart:          cycleStart,
		CycleEnd:            cycleEnd,
		UnderworldEntry:     entry,
		UnderworldExit:      exit,
		ElongationThreshold: elongationThreshold,
		AscentGates:         numberGates("ascent", ascent),
		DescentGates:        numberDescentGates(descent, len(ascent)),
	}, nil
}

// bracketInannaCycle finds the station-direct at or before target and
// the station-retrograde immediately following it, per
// inanna.py's _select_cycle_periods. FindStations reports stations in
// chronological order alternating kind, so the bracketing
// station-retrograde is simply the next entry in the slice.
func bracketInannaCycle(stations []Station, target time.Time) (time.Time, time.Time, error) {
	directIdx := -1
	for i, st := range stations {
		if st.Kind == StationDirect && !st.Time.After(target) {
			directIdx = i
		}
	}
	if directIdx == -1 {
		return time.Time{}, time.Time{}, fmt.Errorf("events: target date precedes available Venus station data; widen the search range")
	}
	if directIdx+1 >= len(stations) || stations[directIdx+1].Kind != StationRetrograde {
		return time.Time{}, time.Time{}, fmt.Errorf("events: insufficient Venus station data after target to complete a cycle")
	}
	return stations[directIdx].Time, stations[directIdx+1].Time, nil
}

// findUnderworldBoundaries samples the Venus-Sun angular separation
// across [start, end] and bisects the first above-to-below crossing of
// threshold (entry) and the first subsequent below-to-above crossing
// (exit), stopping once both are found -- a direct port of
// inanna.py's _find_underworld_boundaries/_refine_crossing.
func findUnderworldBoundaries(ctx context.Context, venus, sun LongitudeSource, start, end time.Time, threshold float64, step time.Duration) (time.Time, time.Time, error) {
	separationAt := func(t time.Time) (float64, error) {
		v, err := venus.Longitude(ctx, t)
		if err != nil {
			return 0, err
		}
		s, err := sun.Longitude(ctx, t)
		if err != nil {
			return 0, err
		}
		return abs(angleDiff(v, s)), nil
	}

	prevT := start
	prevSep, err := separationAt(prevT)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	var entry, exit time.Time
	var haveEntry, haveExit bool
	inUnderworld := prevSep <= threshold

	for t := start.Add(step); !t.After(end); t = t.Add(step) {
		sep, err := separationAt(t)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		switch {
		case !inUnderworld && prevSep > threshold && sep <= threshold:
			entry, err = refineElongationCrossing(ctx, venus, sun, prevT, t, threshold)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			haveEntry = true
			inUnderworld = true
		case inUnderworld && prevSep <= threshold && sep > threshold:
			exit, err = refineElongationCrossing(ctx, venus, sun, prevT, t, threshold)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			haveExit = true
		}
		if haveExit {
			break
		}
		prevT, prevSep = t, sep
	}

	if !haveEntry || !haveExit {
		return time.Time{}, time.Time{}, fmt.Errorf("events: unable to locate underworld visibility boundaries in [%s, %s]", start, end)
	}
	return entry, exit, nil
}

// refineElongationCrossing bisects [lo, hi] -- known to bracket a
// threshold crossing of the Venus-Sun separation -- down to sub-minute
// precision.
func refineElongationCrossing(ctx context.Context, venus, sun LongitudeSource, lo, hi time.Time, threshold float64) (time.Time, error) {
	separationAt := func(t time.Time) (float64, error) {
		v, err := venus.Longitude(ctx, t)
		if err != nil {
			return 0, err
		}
		s, err := sun.Longitude(ctx, t)
		if err != nil {
			return 0, err
		}
		return abs(angleDiff(v, s)), nil
	}

	loSep, err := separationAt(lo)
	if err != nil {
		return time.Time{}, err
	}

	const precision = time.Minute
	for hi.Sub(lo) > precision {
		mid := lo.Add(hi.Sub(lo) / 2)
		midSep, err := separationAt(mid)
		if err != nil {
			return time.Time{}, err
		}
		if (loSep-threshold)*(midSep-threshold) <= 0 {
			hi = mid
		} else {
			lo, loSep = mid, midSep
		}
	}
	return lo, nil
}

func numberGates(phase string, transits []Transit) []InannaGate {
	gates := make([]InannaGate, len(transits))
	for i, tr := range transits {
		gates[i] = InannaGate{
			Phase:      phase,
			GateNumber: i + 1,
			Time:       tr.Time,
			VenusLon:   tr.PrimaryLon,
			MoonLon:    tr.SecondaryLon,
		}
	}
	return gates
}

// numberDescentGates numbers descent gates counting down, mirroring
// inanna.py's start_number = max(len(ascent) or len(descent), len(descent))
// then max(start_number-i, 1) -- so a symmetric cycle's descent gates
// mirror its ascent gates' numbering in reverse.
func numberDescentGates(transits []Transit, ascentCount int) []InannaGate {
	descentCount := len(transits)
	if descentCount == 0 {
		return nil
	}
	startNumber := ascentCount
	if startNumber == 0 {
		startNumber = descentCount
	}
	if descentCount > startNumber {
		startNumber = descentCount
	}
	gates := make([]InannaGate, descentCount)
	for i, tr := range transits {
		n := startNumber - i
		if n < 1 {
			n = 1
		}
		gates[i] = InannaGate{
			Phase:      "descent",
			GateNumber: n,
			Time:       tr.Time,
			VenusLon:   tr.PrimaryLon,
			MoonLon:    tr.SecondaryLon,
		}
	}
	return gates
}
