// Command weftd serves positions out of a directory of weftball
// archives over HTTP, mirroring the handler shape of the pack's
// laureano57-astroeph-api -- a gin-gonic service fronting an ephemeris
// library -- but backed by weft-based weftball.Bundle lookups instead
// of swephgo.
package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jes5199/starloom-go/ephemeris"
	"github.com/jes5199/starloom-go/internal/obslog"
	"github.com/jes5199/starloom-go/weftball"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dir := flag.String("weftball-dir", ".", "directory of <body>.weftball archives")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	flag.Parse()

	obslog.New(obslog.Config{JSON: true, Debug: *debug})

	eph, bodies, err := loadEphemeris(*dir)
	if err != nil {
		obslog.L().Fatal().Err(err).Str("dir", *dir).Msg("loading weftballs")
	}
	obslog.L().Info().Strs("bodies", bodies).Msg("loaded weftball archives")

	router := newRouter(eph)
	obslog.L().Info().Str("addr", *addr).Msg("weftd listening")
	if err := router.Run(*addr); err != nil {
		obslog.L().Fatal().Err(err).Msg("server exited")
	}
}

// loadEphemeris walks dir for *.weftball archives and assembles one
// ephemeris.WeftballEphemeris serving all of them, keyed by the body
// name each archive's preamble declares.
func loadEphemeris(dir string) (ephemeris.Ephemeris, []string, error) {
	bundles := map[string]*weftball.Bundle{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	var bodies []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".weftball") {
			continue
		}
		b, err := weftball.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, nil, err
		}
		bundles[b.Body] = b
		bodies = append(bodies, b.Body)
	}
	return ephemeris.NewWeftballEphemeris(bundles), bodies, nil
}

func newRouter(eph ephemeris.Ephemeris) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(), gin.Recovery())
	r.GET("/bodies/:body/position", positionHandler(eph))
	return r
}

// requestLogger replaces gin's default text logger with a zerolog
// entry per request, matching obslog's process-wide logger rather than
// gin's own writer.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		obslog.L().Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

type positionResponse struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Distance  float64 `json:"distance"`
}

func positionHandler(eph ephemeris.Ephemeris) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := c.Param("body")
		timeParam := c.DefaultQuery("time", "")
		t := time.Now().UTC()
		if timeParam != "" {
			parsed, err := time.Parse(time.RFC3339, timeParam)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time, expected RFC3339"})
				return
			}
			t = parsed
		}

		pos, err := eph.GetPosition(c.Request.Context(), body, t)
		if err != nil {
			if errors.Is(err, ephemeris.ErrNoCoverage) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no coverage for requested time"})
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, positionResponse{Longitude: pos.Longitude, Latitude: pos.Latitude, Distance: pos.Distance})
	}
}
