// Package events finds astronomically meaningful instants -- retrograde
// stations, angular transits between two bodies, zodiac-decan
// ingresses, and Venus's Inanna cycle -- by sampling an Ephemeris over
// a span and bisecting across sign changes. Ported from
// original_source/src/starloom/{retrograde,transits}/finder.py,
// cli/decans.py, and knowledge/inanna.py into the teacher's idiom:
// explicit error returns instead of exceptions, and a narrow interface
// (LongitudeSource) instead of the Python finder's full ephemeris
// object.
package events

import "math"

// angleDiff returns the smallest signed difference lon2-lon1, wrapped
// into (-180, 180]. Ported directly from finder.py's angle_diff.
func angleDiff(lon2, lon1 float64) float64 {
	d := math.Mod(lon2-lon1+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}

// normalizeAngle wraps an angle into [0, 360).
func normalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return a
}
