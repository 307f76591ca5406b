package horizons

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jes5199/starloom-go/ephemeris"
)

// CachedClient is an Ephemeris variant for spec.md §9's design note:
// a cache-first, remote-fallback composition of Client and a
// modernc.org/sqlite-backed position cache. Grounded on
// sqlitecache.CachedSource's same row-cache shape, specialized here to
// cache a whole Position per (body, instant) rather than one scalar
// quantity, since a single horizons request already returns all three.
type CachedClient struct {
	Remote *Client
	DB     *sql.DB
}

// NewCachedClient opens (creating if necessary) a sqlite cache at
// dbPath in front of remote.
func NewCachedClient(remote *Client, dbPath string) (*CachedClient, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("horizons: opening cache %s: %w", dbPath, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS position_cache (
	body TEXT NOT NULL,
	unix_nanos INTEGER NOT NULL,
	longitude REAL NOT NULL,
	latitude REAL NOT NULL,
	distance REAL NOT NULL,
	PRIMARY KEY (body, unix_nanos)
)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("horizons: creating cache schema: %w", err)
	}
	return &CachedClient{Remote: remote, DB: db}, nil
}

func (c *CachedClient) GetPosition(ctx context.Context, body string, t time.Time) (ephemeris.Position, error) {
	key := t.UTC().UnixNano()
	var p ephemeris.Position
	err := c.DB.QueryRowContext(ctx,
		`SELECT longitude, latitude, distance FROM position_cache WHERE body = ? AND unix_nanos = ?`,
		body, key,
	).Scan(&p.Longitude, &p.Latitude, &p.Distance)
	if err == nil {
		return p, nil
	}
	if err != sql.ErrNoRows {
		return ephemeris.Position{}, fmt.Errorf("horizons: querying position cache: %w", err)
	}

	p, err = c.Remote.GetPosition(ctx, body, t)
	if err != nil {
		return ephemeris.Position{}, err
	}
	if _, err := c.DB.ExecContext(ctx,
		`INSERT OR REPLACE INTO position_cache (body, unix_nanos, longitude, latitude, distance) VALUES (?, ?, ?, ?, ?)`,
		body, key, p.Longitude, p.Latitude, p.Distance,
	); err != nil {
		return ephemeris.Position{}, fmt.Errorf("horizons: populating position cache: %w", err)
	}
	return p, nil
}

func (c *CachedClient) GetPositions(ctx context.Context, body string, ts []time.Time) ([]ephemeris.Position, error) {
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

var _ ephemeris.Ephemeris = (*CachedClient)(nil)
