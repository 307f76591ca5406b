package events

import (
	"context"
	"time"

	"github.com/jes5199/starloom-go/ephemeris"
)

// BodyLongitude adapts an ephemeris.Ephemeris and a body name into a
// LongitudeSource, so FindStations/FindTransits can be driven directly
// by any of the Ephemeris backends (weftball, horizons, or the cached
// composite).
type BodyLongitude struct {
	Ephemeris ephemeris.Ephemeris
	Body      string
}

func (b BodyLongitude) Longitude(ctx context.Context, t time.Time) (float64, error) {
	pos, err := b.Ephemeris.GetPosition(ctx, b.Body, t)
	if err != nil {
		return 0, err
	}
	return pos.Longitude, nil
}

var _ LongitudeSource = BodyLongitude{}
