package events

import (
	"context"
	"fmt"
	"math"
	"time"
)

// ZodiacSign names a 30-degree ecliptic-longitude band starting at
// StartLongitude. Ported from decans.py's ZODIAC_SIGNS table.
type ZodiacSign struct {
	Name           string
	StartLongitude float64
}

// ZodiacSigns is the twelve tropical zodiac signs in longitude order.
var ZodiacSigns = [12]ZodiacSign{
	{"Aries", 0}, {"Taurus", 30}, {"Gemini", 60}, {"Cancer", 90},
	{"Leo", 120}, {"Virgo", 150}, {"Libra", 180}, {"Scorpio", 210},
	{"Sagittarius", 240}, {"Capricorn", 270}, {"Aquarius", 300}, {"Pisces", 330},
}

// Decan is one of the three ten-degree subdivisions of a zodiac sign.
type Decan struct {
	Sign   string
	Number int // 1-3
}

// decanAt returns the sign and decan containing longitude. Ported from
// decans.py's get_zodiac_sign.
func decanAt(longitude float64) Decan {
	lon := normalizeAngle(longitude)
	idx := int(lon/30) % 12
	sign := ZodiacSigns[idx]
	return Decan{Sign: sign.Name, Number: int((lon-sign.StartLongitude)/10) + 1}
}

// decanEndLongitude returns the ecliptic longitude at which d ends (and
// the next decan begins). Ported from decans.py's get_decan_boundaries.
func decanEndLongitude(d Decan) float64 {
	signStart := 0.0
	for _, s := range ZodiacSigns {
		if s.Name == d.Sign {
			signStart = s.StartLongitude
			break
		}
	}
	return signStart + float64(d.Number)*10
}

// DecanIngress is the instant a body's ecliptic longitude crosses into
// a new decan.
type DecanIngress struct {
	Time      time.Time
	Longitude float64
	Decan     Decan
}

// FindDecanIngresses samples src's longitude across [start, end] every
// step and reports the exact instant of every decan boundary crossing,
// refined by bisection. Ported from decans.py's decans command loop
// (sample, detect a (sign, decan) change, call find_transition over the
// preceding step to refine it) generalized from the Sun specifically to
// any LongitudeSource; each crossing is refined by refineDecanCrossing,
// a port of decans.py's own normalize-then-bisect routine.
func FindDecanIngresses(ctx context.Context, src LongitudeSource, start, end time.Time, step time.Duration) ([]DecanIngress, error) {
	if step <= 0 || !end.After(start) {
		return nil, fmt.Errorf("events: FindDecanIngresses requires a positive step and end after start")
	}

	lon, err := src.Longitude(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("events: sampling longitude at %s: %w", start, err)
	}
	current := decanAt(lon)

	var ingresses []DecanIngress
	prevT := start
	for t := start.Add(step); !t.After(end); t = t.Add(step) {
		lon, err := src.Longitude(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("events: sampling longitude at %s: %w", t, err)
		}
		next := decanAt(lon)
		if next != current {
			boundary := decanEndLongitude(current)
			crossT, crossLon, err := refineDecanCrossing(ctx, src, prevT, t, boundary)
			if err != nil {
				return nil, fmt.Errorf("events: refining decan transition between %s and %s: %w", prevT, t, err)
			}
			ingresses = append(ingresses, DecanIngress{Time: crossT, Longitude: crossLon, Decan: next})
			current = next
		}
		prevT = t
	}
	return ingresses, nil
}

// refineDecanCrossing bisects [lo, hi] -- known to bracket src's
// longitude crossing target -- to within 0.0001 degrees, normalizing
// each sample near target first so a crossing at the 0/360 seam
// bisects correctly. Ported directly from decans.py's find_transition.
func refineDecanCrossing(ctx context.Context, src LongitudeSource, lo, hi time.Time, target float64) (time.Time, float64, error) {
	const tolerance = 0.0001
	const maxIterations = 50

	normalize := func(lon float64) float64 {
		return floorMod(lon-target+180, 360) - 180 + target
	}

	loLon, err := src.Longitude(ctx, lo)
	if err != nil {
		return time.Time{}, 0, err
	}
	hiLon, err := src.Longitude(ctx, hi)
	if err != nil {
		return time.Time{}, 0, err
	}
	loNorm := normalize(loLon)
	hiNorm := normalize(hiLon)
	if (loNorm-target)*(hiNorm-target) > 0 {
		return time.Time{}, 0, fmt.Errorf("events: no transition found in given range")
	}

	left, right := lo, hi
	mid := left
	midNorm := loNorm
	for i := 0; i < maxIterations; i++ {
		mid = left.Add(right.Sub(left) / 2)
		midLon, err := src.Longitude(ctx, mid)
		if err != nil {
			return time.Time{}, 0, err
		}
		midNorm = normalize(midLon)
		if abs(midNorm-target) < tolerance {
			break
		}
		if (midNorm-target)*(loNorm-target) > 0 {
			left = mid
		} else {
			right = mid
		}
	}
	return mid, midNorm, nil
}

func floorMod(a, m float64) float64 {
	r := math.Mod(a, m)
	if r < 0 {
		r += m
	}
	return r
}
