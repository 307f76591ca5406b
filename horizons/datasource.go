package horizons

import (
	"context"
	"time"

	"github.com/jes5199/starloom-go/ephemeris"
	"github.com/jes5199/starloom-go/weft"
)

// DefaultStep is the sampling cadence QuantitySource declares when Step
// is left zero: hourly, matching the pack's Horizons examples' default
// ephemeris step size.
const DefaultStep = time.Hour

// QuantitySource adapts Client to weft.DataSource for one body/quantity
// pair over a fixed timespan, so BuildFile can sample it directly. Its
// declared grid is Start, Start+Step, Start+2*Step, ... up to End;
// per spec.md §6 the writer never asks for off-grid times, so ValueAt
// rejects any t not on that grid before spending an HTTP call on it.
type QuantitySource struct {
	Client   *Client
	Body     string
	Quantity string // "longitude", "latitude", or "distance"
	Start    time.Time
	End      time.Time
	Step     time.Duration
}

func (s *QuantitySource) step() time.Duration {
	if s.Step <= 0 {
		return DefaultStep
	}
	return s.Step
}

func (s *QuantitySource) Timespan() (time.Time, time.Time) {
	return s.Start, s.End
}

// Timestamps returns every instant on this source's declared grid.
func (s *QuantitySource) Timestamps() []time.Time {
	step := s.step()
	var out []time.Time
	for t := s.Start; !t.After(s.End); t = t.Add(step) {
		out = append(out, t)
	}
	return out
}

func (s *QuantitySource) onGrid(t time.Time) bool {
	if t.Before(s.Start) || t.After(s.End) {
		return false
	}
	offset := t.Sub(s.Start)
	step := s.step()
	return offset%step == 0
}

func (s *QuantitySource) ValueAt(t time.Time) (float64, error) {
	if !s.onGrid(t) {
		return 0, weft.ErrDomain
	}
	pos, err := s.Client.GetPosition(context.Background(), s.Body, t)
	if err != nil {
		return 0, err
	}
	return quantityOf(pos, s.Quantity), nil
}

func quantityOf(p ephemeris.Position, quantity string) float64 {
	switch quantity {
	case "latitude":
		return p.Latitude
	case "distance":
		return p.Distance
	default:
		return p.Longitude
	}
}

var _ weft.DataSource = (*QuantitySource)(nil)
