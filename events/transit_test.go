package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jes5199/starloom-go/events"
)

type linearLongitude struct {
	start          time.Time
	startLongitude float64
	degreesPerDay  float64
}

func (l linearLongitude) Longitude(_ context.Context, t time.Time) (float64, error) {
	days := t.Sub(l.start).Hours() / 24
	lon := l.startLongitude + l.degreesPerDay*days
	for lon < 0 {
		lon += 360
	}
	for lon >= 360 {
		lon -= 360
	}
	return lon, nil
}

func TestFindTransitsDetectsConjunction(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	// primary starts behind secondary by 5 degrees and gains on it at
	// 2 deg/day faster, so they conjoin within a few days.
	primary := linearLongitude{start: start, startLongitude: 0, degreesPerDay: 3}
	secondary := linearLongitude{start: start, startLongitude: 5, degreesPerDay: 1}

	transits, err := events.FindTransits(context.Background(), primary, secondary, events.Conjunction, start, start.AddDate(0, 0, 10), time.Hour)
	require.NoError(t, err)
	require.Len(t, transits, 1)
	assert.InDelta(t, 0, transits[0].RelativeAngle, 0.01)
}

func TestFindTransitsRejectsBadRange(t *testing.T) {
	start := time.Now()
	primary := linearLongitude{start: start, degreesPerDay: 1}
	secondary := linearLongitude{start: start, degreesPerDay: 1}
	_, err := events.FindTransits(context.Background(), primary, secondary, events.Opposition, start, start, time.Hour)
	assert.Error(t, err)
}
