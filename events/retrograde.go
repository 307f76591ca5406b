package events

import (
	"context"
	"fmt"
	"time"
)

// LongitudeSource is the narrow slice of ephemeris.Ephemeris the
// finders in this package need: an ecliptic longitude at an instant.
type LongitudeSource interface {
	Longitude(ctx context.Context, t time.Time) (float64, error)
}

// StationKind distinguishes the two station types a retrograde cycle
// brackets.
type StationKind int

const (
	StationRetrograde StationKind = iota
	StationDirect
)

func (k StationKind) String() string {
	if k == StationRetrograde {
		return "retrograde"
	}
	return "direct"
}

// Station is the instant a body's apparent motion reverses.
type Station struct {
	Time      time.Time
	Longitude float64
	Kind      StationKind
}

// FindStations samples src's longitude across [start, end] every step
// and reports every point where the apparent angular velocity changes
// sign, refined by bisection. Ported from
// original_source/src/starloom/retrograde/finder.py's central-difference
// velocity estimate and sign-change scan, generalized from its
// Julian-day sampling to time.Time/time.Duration.
func FindStations(ctx context.Context, src LongitudeSource, start, end time.Time, step time.Duration) ([]Station, error) {
	if step <= 0 || !end.After(start) {
		return nil, fmt.Errorf("events: FindStations requires a positive step and end after start")
	}

	var times []time.Time
	var lons []float64
	for t := start; !t.After(end); t = t.Add(step) {
		lon, err := src.Longitude(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("events: sampling longitude at %s: %w", t, err)
		}
		times = append(times, t)
		lons = append(lons, lon)
	}
	if len(times) < 3 {
		return nil, nil
	}

	velocity := func(i int) float64 {
		switch {
		case i == 0:
			return angleDiff(lons[1], lons[0]) / times[1].Sub(times[0]).Hours()
		case i == len(times)-1:
			return angleDiff(lons[i], lons[i-1]) / times[i].Sub(times[i-1]).Hours()
		default:
			fwd := angleDiff(lons[i+1], lons[i]) / times[i+1].Sub(times[i]).Hours()
			bwd := angleDiff(lons[i], lons[i-1]) / times[i].Sub(times[i-1]).Hours()
			return (fwd + bwd) / 2
		}
	}

	var stations []Station
	prevV := velocity(0)
	for i := 1; i < len(times); i++ {
		v := velocity(i)
		if (prevV > 0) != (v > 0) && prevV != 0 && v != 0 {
			kind := StationRetrograde
			if v > 0 {
				kind = StationDirect
			}
			st, err := refineStation(ctx, src, times[i-1], times[i], kind)
			if err != nil {
				return nil, err
			}
			stations = append(stations, st)
		}
		prevV = v
	}
	return stations, nil
}

// refineStation bisects [lo, hi] -- known to bracket a velocity sign
// change -- until it is at most one minute wide and returns the
// station at the bracket's lower end. Grounded on finder.py's own bisection refinement
// between bracketing samples. A StationRetrograde crossing moves from
// positive velocity (at lo) to negative (at hi); StationDirect is the
// reverse.
func refineStation(ctx context.Context, src LongitudeSource, lo, hi time.Time, kind StationKind) (Station, error) {
	const precision = time.Minute
	loPositiveVelocity := kind == StationRetrograde

	velocitySignAt := func(t time.Time) (bool, error) {
		a, err := src.Longitude(ctx, t)
		if err != nil {
			return false, err
		}
		b, err := src.Longitude(ctx, t.Add(precision))
		if err != nil {
			return false, err
		}
		return angleDiff(b, a) > 0, nil
	}

	for hi.Sub(lo) > precision {
		mid := lo.Add(hi.Sub(lo) / 2)
		midPositive, err := velocitySignAt(mid)
		if err != nil {
			return Station{}, err
		}
		if midPositive == loPositiveVelocity {
			lo = mid
		} else {
			hi = mid
		}
	}
	lon, err := src.Longitude(ctx, lo)
	if err != nil {
		return Station{}, err
	}
	return Station{Time: lo, Longitude: lon, Kind: kind}, nil
}
