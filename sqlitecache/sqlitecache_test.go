package sqlitecache_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jes5199/starloom-go/sqlitecache"
	"github.com/jes5199/starloom-go/weft"
)

type countingSource struct {
	calls int
	value float64
}

func (c *countingSource) Timespan() (time.Time, time.Time) {
	return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (c *countingSource) ValueAt(t time.Time) (float64, error) {
	c.calls++
	return c.value, nil
}

func (c *countingSource) Timestamps() []time.Time {
	start, end := c.Timespan()
	var out []time.Time
	for t := start; !t.After(end); t = t.Add(24 * time.Hour) {
		out = append(out, t)
	}
	return out
}

func TestCachedSourcePopulatesOnMissAndServesOnHit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.sqlite")
	db, err := sqlitecache.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	underlying := &countingSource{value: 42}
	cached := &sqlitecache.CachedSource{DB: db, Body: "mars", Quantity: "longitude", Underlying: underlying}

	probe := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	v1, err := cached.ValueAt(probe)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v1)
	assert.Equal(t, 1, underlying.calls)

	v2, err := cached.ValueAt(probe)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v2)
	assert.Equal(t, 1, underlying.calls, "second lookup should be served from cache, not the underlying source")
}

func TestCachedSourceTimespanDelegates(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.sqlite")
	db, err := sqlitecache.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	underlying := &countingSource{value: 1}
	cached := &sqlitecache.CachedSource{DB: db, Body: "mars", Quantity: "longitude", Underlying: underlying}
	start, end := cached.Timespan()
	wantStart, wantEnd := underlying.Timespan()
	assert.Equal(t, wantStart, start)
	assert.Equal(t, wantEnd, end)
}

var _ weft.DataSource = (*countingSource)(nil)
