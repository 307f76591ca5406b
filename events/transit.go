package events

import (
	"context"
	"fmt"
	"time"
)

// Aspect is a named target angular separation between two bodies, per
// original_source/.../transits/finder.py's ASPECT_ANGLES table.
type Aspect struct {
	Name        string
	TargetAngle float64
}

var (
	Conjunction = Aspect{"conjunction", 0}
	Sextile     = Aspect{"sextile", 60}
	Square      = Aspect{"square", 90}
	Trine       = Aspect{"trine", 120}
	Opposition  = Aspect{"opposition", 180}
)

// angleTolerance is how close the signed orb must be to zero before a
// sampled crossing is treated as "exact", matching finder.py's
// ANGLE_TOLERANCE_DEGREES.
const angleTolerance = 1e-3

// Transit is the instant two bodies reach an exact aspect.
type Transit struct {
	Time          time.Time
	Aspect        Aspect
	PrimaryLon    float64
	SecondaryLon  float64
	RelativeAngle float64
}

// FindTransits samples primary and secondary's longitudes across
// [start, end] every step and reports every instant where their
// relative angle crosses aspect.TargetAngle, refined by bisection on
// the signed orb. Ported from transits/finder.py's sampling/bisection
// loop, generalized to an arbitrary Aspect rather than the whole
// ASPECT_ANGLES table at once (callers loop over the aspects they
// care about).
func FindTransits(ctx context.Context, primary, secondary LongitudeSource, aspect Aspect, start, end time.Time, step time.Duration) ([]Transit, error) {
	if step <= 0 || !end.After(start) {
		return nil, fmt.Errorf("events: FindTransits requires a positive step and end after start")
	}

	orbAt := func(t time.Time) (float64, float64, float64, error) {
		p, err := primary.Longitude(ctx, t)
		if err != nil {
			return 0, 0, 0, err
		}
		s, err := secondary.Longitude(ctx, t)
		if err != nil {
			return 0, 0, 0, err
		}
		relative := normalizeAngle(s - p)
		return angleDiff(relative, aspect.TargetAngle), p, s, nil
	}

	var transits []Transit
	prevT := start
	prevOrb, _, _, err := orbAt(prevT)
	if err != nil {
		return nil, fmt.Errorf("events: sampling orb at %s: %w", prevT, err)
	}

	for t := start.Add(step); !t.After(end); t = t.Add(step) {
		orb, _, _, err := orbAt(t)
		if err != nil {
			return nil, fmt.Errorf("events: sampling orb at %s: %w", t, err)
		}
		if (prevOrb > 0) != (orb > 0) {
			exact, err := refineTransit(ctx, primary, secondary, aspect, prevT, t)
			if err != nil {
				return nil, err
			}
			transits = append(transits, exact)
		}
		prevT, prevOrb = t, orb
	}
	return transits, nil
}

func refineTransit(ctx context.Context, primary, secondary LongitudeSource, aspect Aspect, lo, hi time.Time) (Transit, error) {
	orbAt := func(t time.Time) (float64, float64, float64, error) {
		p, err := primary.Longitude(ctx, t)
		if err != nil {
			return 0, 0, 0, err
		}
		s, err := secondary.Longitude(ctx, t)
		if err != nil {
			return 0, 0, 0, err
		}
		relative := normalizeAngle(s - p)
		return angleDiff(relative, aspect.TargetAngle), p, s, nil
	}

	loOrb, _, _, err := orbAt(lo)
	if err != nil {
		return Transit{}, err
	}

	var mid time.Time
	var midOrb, p, s float64
	for i := 0; i < maxRefinementIterations; i++ {
		mid = lo.Add(hi.Sub(lo) / 2)
		midOrb, p, s, err = orbAt(mid)
		if err != nil {
			return Transit{}, err
		}
		if abs(midOrb) <= angleTolerance {
			break
		}
		if (midOrb > 0) == (loOrb > 0) {
			lo, loOrb = mid, midOrb
		} else {
			hi = mid
		}
	}
	return Transit{
		Time:          mid,
		Aspect:        aspect,
		PrimaryLon:    p,
		SecondaryLon:  s,
		RelativeAngle: normalizeAngle(s - p),
	}, nil
}

const maxRefinementIterations = 40

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
