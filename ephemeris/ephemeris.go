// Package ephemeris defines the polymorphic position-lookup facade used
// by cmd/weftd, events, and render. Per spec.md §9's design note, a
// single Ephemeris interface sits in front of three concrete backends:
// this package holds the interface and the weftball-backed variant,
// horizons.Client queries the remote service, and horizons.CachedClient
// puts a sqlite position cache in front of a Client.
package ephemeris

import (
	"context"
	"fmt"
	"time"

	"github.com/jes5199/starloom-go/weft"
	"github.com/jes5199/starloom-go/weftball"
)

// Position is a geocentric position: ecliptic longitude and latitude in
// degrees, distance in the unit the source quantity declares (typically
// AU).
type Position struct {
	Longitude float64
	Latitude  float64
	Distance  float64
}

// Ephemeris resolves a body's position at one instant, or a batch of
// instants. Implementations should treat GetPositions as at least as
// efficient as calling GetPosition in a loop, but are not required to
// parallelize it.
type Ephemeris interface {
	GetPosition(ctx context.Context, body string, t time.Time) (Position, error)
	GetPositions(ctx context.Context, body string, ts []time.Time) ([]Position, error)
}

// WeftballEphemeris serves positions directly out of an in-memory
// weftball.Bundle -- three parsed *weft.File values, one per quantity.
// This is the core package's own Ephemeris variant: no network, no
// cache, just the block-selection evaluator from weft.File.GetValue.
type WeftballEphemeris struct {
	bundles map[string]*weftball.Bundle
}

// NewWeftballEphemeris builds an Ephemeris over the given body->bundle
// map. Each bundle must contain all three quantities, e.g. as returned
// by weftball.Open.
func NewWeftballEphemeris(bundles map[string]*weftball.Bundle) *WeftballEphemeris {
	return &WeftballEphemeris{bundles: bundles}
}

func (e *WeftballEphemeris) GetPosition(_ context.Context, body string, t time.Time) (Position, error) {
	b, ok := e.bundles[body]
	if !ok {
		return Position{}, fmt.Errorf("ephemeris: unknown body %q", body)
	}
	lon, err := b.Longitude.GetValue(t)
	if err != nil {
		return Position{}, fmt.Errorf("ephemeris: longitude: %w", err)
	}
	lat, err := b.Latitude.GetValue(t)
	if err != nil {
		return Position{}, fmt.Errorf("ephemeris: latitude: %w", err)
	}
	dist, err := b.Distance.GetValue(t)
	if err != nil {
		return Position{}, fmt.Errorf("ephemeris: distance: %w", err)
	}
	return Position{Longitude: lon, Latitude: lat, Distance: dist}, nil
}

func (e *WeftballEphemeris) GetPositions(ctx context.Context, body string, ts []time.Time) ([]Position, error) {
	out := make([]Position, len(ts))
	for i, t := range ts {
		p, err := e.GetPosition(ctx, body, t)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// ErrNoCoverage is weft.ErrNoBlock, re-exported so callers can detect a
// coverage gap with errors.Is without importing weft directly.
var ErrNoCoverage = weft.ErrNoBlock

var _ Ephemeris = (*WeftballEphemeris)(nil)
