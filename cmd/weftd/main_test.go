package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jes5199/starloom-go/ephemeris"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubEphemeris struct {
	positions map[string]ephemeris.Position
}

func (s *stubEphemeris) GetPosition(_ context.Context, body string, _ time.Time) (ephemeris.Position, error) {
	pos, ok := s.positions[body]
	if !ok {
		return ephemeris.Position{}, ephemeris.ErrNoCoverage
	}
	return pos, nil
}

func (s *stubEphemeris) GetPositions(ctx context.Context, body string, ts []time.Time) ([]ephemeris.Position, error) {
	out := make([]ephemeris.Position, len(ts))
	for i, t := range ts {
		p, err := s.GetPosition(ctx, body, t)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func TestPositionHandlerReturnsPosition(t *testing.T) {
	eph := &stubEphemeris{positions: map[string]ephemeris.Position{
		"mars": {Longitude: 120.5, Latitude: 1.2, Distance: 1.6},
	}}
	router := newRouter(eph)

	req := httptest.NewRequest(http.MethodGet, "/bodies/mars/position?time=2024-01-01T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body positionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 120.5, body.Longitude, 1e-9)
	assert.InDelta(t, 1.6, body.Distance, 1e-9)
}

func TestPositionHandlerUnknownBodyReturns404(t *testing.T) {
	eph := &stubEphemeris{positions: map[string]ephemeris.Position{}}
	router := newRouter(eph)

	req := httptest.NewRequest(http.MethodGet, "/bodies/pluto/position", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPositionHandlerRejectsBadTime(t *testing.T) {
	eph := &stubEphemeris{positions: map[string]ephemeris.Position{"mars": {}}}
	router := newRouter(eph)

	req := httptest.NewRequest(http.MethodGet, "/bodies/mars/position?time=not-a-time", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
