// Package horizons is an HTTP client for an external planetary-position
// service. Grounded on the pack's laureano57-astroeph-api: that repo
// *serves* positions over HTTP; this client is its consumer-side
// mirror, fetching the same shape of response this module would need
// to drive weft.BuildFile or back ephemeris.Ephemeris directly.
package horizons

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jes5199/starloom-go/ephemeris"
	"github.com/jes5199/starloom-go/internal/obslog"
)

// Client queries a remote ephemeris HTTP API for geocentric positions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a Client pointed at baseURL (e.g.
// "https://ephemeris.example.com"), using its own http.Client with a
// 30-second timeout unless HTTPClient is overridden.
func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTPClient: &http.Client{Timeout: 30 * time.Second}}
}

type positionResponse struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Distance  float64 `json:"distance"`
}

// GetPosition implements ephemeris.Ephemeris by calling
// GET {BaseURL}/bodies/{body}/position?time=<RFC3339>.
func (c *Client) GetPosition(ctx context.Context, body string, t time.Time) (ephemeris.Position, error) {
	u := fmt.Sprintf("%s/bodies/%s/position?time=%s", c.BaseURL, url.PathEscape(body), url.QueryEscape(t.UTC().Format(time.RFC3339)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return ephemeris.Position{}, fmt.Errorf("horizons: building request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		obslog.L().Warn().Err(err).Str("body", body).Msg("horizons request failed")
		return ephemeris.Position{}, fmt.Errorf("horizons: requesting %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ephemeris.Position{}, fmt.Errorf("horizons: %s returned status %d", u, resp.StatusCode)
	}
	var pr positionResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return ephemeris.Position{}, fmt.Errorf("horizons: decoding response from %s: %w", u, err)
	}
	return ephemeris.Position{Longitude: pr.Longitude, Latitude: pr.Latitude, Distance: pr.Distance}, nil
}

// GetPositions calls GetPosition once per timestamp. The remote API
// this client targets has no documented batch endpoint, so this is a
// straightforward loop rather than a single request.
func (c *Client) GetPositions(ctx context.Context, body string, ts []time.Time) ([]ephemeris.Position, error) {
	out := make([]ephemeris.Position, len(ts))
	for i, t := range ts {
		p, err := c.GetPosition(ctx, body, t)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
