// Package sqlitecache decorates a weft.DataSource with a row cache
// backed by modernc.org/sqlite, the pure-Go database/sql driver the
// pack's laureano57-astroeph-api and chenjiangme-jupitor both wire for
// their own ephemeris-adjacent storage. Caching here avoids re-querying
// a slow remote DataSource (see package horizons) every time
// weft.BuildFile re-samples the same instant across overlapping
// layers.
package sqlitecache

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jes5199/starloom-go/weft"
)

// Open opens (creating if necessary) a sqlite database at path and
// ensures the cache table exists.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitecache: opening %s: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS datasource_values (
	body TEXT NOT NULL,
	quantity TEXT NOT NULL,
	unix_nanos INTEGER NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY (body, quantity, unix_nanos)
)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitecache: creating schema: %w", err)
	}
	return db, nil
}

// CachedSource wraps an underlying weft.DataSource, serving ValueAt
// from the sqlite cache when present and populating it on a miss.
type CachedSource struct {
	DB         *sql.DB
	Body       string
	Quantity   string
	Underlying weft.DataSource
}

func (c *CachedSource) Timespan() (time.Time, time.Time) {
	return c.Underlying.Timespan()
}

// Timestamps delegates to the underlying source's declared grid; the
// cache never invents sample instants of its own.
func (c *CachedSource) Timestamps() []time.Time {
	return c.Underlying.Timestamps()
}

func (c *CachedSource) ValueAt(t time.Time) (float64, error) {
	key := t.UTC().UnixNano()

	var value float64
	err := c.DB.QueryRow(
		`SELECT value FROM datasource_values WHERE body = ? AND quantity = ? AND unix_nanos = ?`,
		c.Body, c.Quantity, key,
	).Scan(&value)
	if err == nil {
		return value, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("sqlitecache: querying cache: %w", err)
	}

	value, err = c.Underlying.ValueAt(t)
	if err != nil {
		return 0, err
	}
	if _, err := c.DB.Exec(
		`INSERT OR REPLACE INTO datasource_values (body, quantity, unix_nanos, value) VALUES (?, ?, ?, ?)`,
		c.Body, c.Quantity, key, value,
	); err != nil {
		return 0, fmt.Errorf("sqlitecache: populating cache: %w", err)
	}
	return value, nil
}

var _ weft.DataSource = (*CachedSource)(nil)
