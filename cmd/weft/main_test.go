package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jes5199/starloom-go/weft"
)

// constLongitude is a trivial weft.DataSource used to seed .weft
// fixtures for the CLI's query/combine tests without a network call.
type constLongitude struct {
	start, end time.Time
	value      float64
}

func (c constLongitude) Timespan() (time.Time, time.Time) { return c.start, c.end }
func (c constLongitude) ValueAt(time.Time) (float64, error) { return c.value, nil }

func (c constLongitude) Timestamps() []time.Time {
	var out []time.Time
	for t := c.start; !t.After(c.end); t = t.Add(time.Hour) {
		out = append(out, t)
	}
	return out
}

func writeFixture(t *testing.T, path string, start, end time.Time, value float64) {
	t.Helper()
	cfg := weft.DefaultWriterConfig("mars", "test-fixture", "longitude", weft.Behavior{Kind: weft.Wrapping, Lo: 0, Hi: 360})
	f, err := weft.BuildFile(constLongitude{start: start, end: end, value: value}, cfg)
	require.NoError(t, err)
	fh, err := os.Create(path)
	require.NoError(t, err)
	defer fh.Close()
	require.NoError(t, f.Write(fh))
}

// captureStdout runs fn with os.Stdout redirected to a pipe and
// returns everything written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestQueryCommandPrintsValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mars_longitude.weft")
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	writeFixture(t, path, start, end, 42.5)

	app := newApp()
	out := captureStdout(t, func() {
		err := app.Run([]string{"weft", "query", "--time", start.AddDate(0, 1, 0).Format(time.RFC3339), path})
		require.NoError(t, err)
	})
	assert.Contains(t, out, "mars longitude")
	assert.Contains(t, out, "42.5")
}

func TestCombineCommandMergesFiles(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.weft")
	bPath := filepath.Join(dir, "b.weft")
	outPath := filepath.Join(dir, "combined.weft")

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	writeFixture(t, aPath, start, start.AddDate(1, 0, 0), 10)
	writeFixture(t, bPath, start.AddDate(1, 0, 0), start.AddDate(2, 0, 0), 20)

	app := newApp()
	err := app.Run([]string{"weft", "combine", "--out", outPath, aPath, bPath})
	require.NoError(t, err)

	combined, err := openWeftFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "mars", combined.Preamble.Body)
}
