// Command weft is the offline command-line surface over the weft
// core: generating .weft files from a remote ephemeris source,
// combining them, querying a value out of one, and bundling/opening
// weftball archives. Flag handling is grounded on the pack's
// de-bkg-gognss repo, the only example that wires
// github.com/urfave/cli/v2 for a GNSS file-processing CLI of roughly
// this shape (subcommands over files, one flag set per subcommand).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jes5199/starloom-go/ephemeris"
	"github.com/jes5199/starloom-go/horizons"
	"github.com/jes5199/starloom-go/internal/obslog"
	"github.com/jes5199/starloom-go/sqlitecache"
	"github.com/jes5199/starloom-go/weft"
	"github.com/jes5199/starloom-go/weftball"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "weft:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "weft",
		Usage: "build, combine, and query .weft ephemeris files",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "enable debug-level logging"},
		},
		Before: func(c *cli.Context) error {
			obslog.New(obslog.Config{Debug: c.Bool("debug")})
			return nil
		},
		Commands: []*cli.Command{
			generateCommand,
			combineCommand,
			queryCommand,
			weftballCommand,
		},
	}
}

var generateCommand = &cli.Command{
	Name:  "generate",
	Usage: "build a .weft file from a remote ephemeris source",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "body", Required: true},
		&cli.StringFlag{Name: "quantity", Required: true, Usage: "longitude, latitude, or distance"},
		&cli.StringFlag{Name: "behavior", Required: true, Usage: `e.g. "wrapping[0,360]", "bounded[-90,90]", "unbounded"`},
		&cli.StringFlag{Name: "source-tag", Value: "horizons"},
		&cli.StringFlag{Name: "start", Required: true, Usage: "RFC3339 timestamp"},
		&cli.StringFlag{Name: "end", Required: true, Usage: "RFC3339 timestamp"},
		&cli.StringFlag{Name: "horizons-url", Required: true},
		&cli.StringFlag{Name: "cache-db", Usage: "optional sqlite cache path for the remote source"},
		&cli.StringFlag{Name: "out", Required: true},
	},
	Action: func(c *cli.Context) error {
		start, err := time.Parse(time.RFC3339, c.String("start"))
		if err != nil {
			return fmt.Errorf("parsing --start: %w", err)
		}
		end, err := time.Parse(time.RFC3339, c.String("end"))
		if err != nil {
			return fmt.Errorf("parsing --end: %w", err)
		}
		behavior, err := weft.ParseBehavior(c.String("behavior"))
		if err != nil {
			return fmt.Errorf("parsing --behavior: %w", err)
		}

		body, quantity := c.String("body"), c.String("quantity")
		client := horizons.NewClient(c.String("horizons-url"))
		var ds weft.DataSource = &horizons.QuantitySource{Client: client, Body: body, Quantity: quantity, Start: start, End: end}

		if dbPath := c.String("cache-db"); dbPath != "" {
			db, err := sqlitecache.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			ds = &sqlitecache.CachedSource{DB: db, Body: body, Quantity: quantity, Underlying: ds}
		}

		cfg := weft.DefaultWriterConfig(body, c.String("source-tag"), quantity, behavior)
		obslog.L().Info().Str("body", body).Str("quantity", quantity).Time("start", start).Time("end", end).Msg("generating .weft file")
		f, err := weft.BuildFile(ds, cfg)
		if err != nil {
			return fmt.Errorf("building file: %w", err)
		}

		out, err := os.Create(c.String("out"))
		if err != nil {
			return err
		}
		defer out.Close()
		if err := f.Write(out); err != nil {
			return fmt.Errorf("writing %s: %w", c.String("out"), err)
		}
		obslog.L().Info().Str("out", c.String("out")).Msg("wrote .weft file")
		return nil
	},
}

var combineCommand = &cli.Command{
	Name:      "combine",
	Usage:     "merge two compatible .weft files into one",
	ArgsUsage: "<a.weft> <b.weft>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "out", Required: true},
	},
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 2 {
			return fmt.Errorf("combine requires exactly two input files")
		}
		a, err := openWeftFile(c.Args().Get(0))
		if err != nil {
			return err
		}
		b, err := openWeftFile(c.Args().Get(1))
		if err != nil {
			return err
		}
		combined, err := weft.Combine(a, b)
		if err != nil {
			return fmt.Errorf("combining: %w", err)
		}
		out, err := os.Create(c.String("out"))
		if err != nil {
			return err
		}
		defer out.Close()
		return combined.Write(out)
	},
}

var queryCommand = &cli.Command{
	Name:      "query",
	Usage:     "print the value a .weft file evaluates to at a given instant",
	ArgsUsage: "<file.weft>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "time", Required: true, Usage: "RFC3339 timestamp"},
	},
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 1 {
			return fmt.Errorf("query requires exactly one input file")
		}
		t, err := time.Parse(time.RFC3339, c.String("time"))
		if err != nil {
			return fmt.Errorf("parsing --time: %w", err)
		}
		f, err := openWeftFile(c.Args().Get(0))
		if err != nil {
			return err
		}
		v, err := f.GetValue(t)
		if err != nil {
			return fmt.Errorf("evaluating: %w", err)
		}
		fmt.Printf("%s %s = %g\n", f.Preamble.Body, f.Preamble.Quantity, v)
		return nil
	},
}

var weftballCommand = &cli.Command{
	Name:  "weftball",
	Usage: "bundle or inspect a weftball archive",
	Subcommands: []*cli.Command{
		{
			Name:  "bundle",
			Usage: "bundle three .weft files into one weftball archive",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "longitude", Required: true},
				&cli.StringFlag{Name: "latitude", Required: true},
				&cli.StringFlag{Name: "distance", Required: true},
				&cli.StringFlag{Name: "out", Required: true},
			},
			Action: func(c *cli.Context) error {
				lon, err := openWeftFile(c.String("longitude"))
				if err != nil {
					return err
				}
				lat, err := openWeftFile(c.String("latitude"))
				if err != nil {
					return err
				}
				dist, err := openWeftFile(c.String("distance"))
				if err != nil {
					return err
				}
				if lon.Preamble.Body != lat.Preamble.Body || lon.Preamble.Body != dist.Preamble.Body {
					return fmt.Errorf("weftball: longitude/latitude/distance files disagree on body")
				}
				b := &weftball.Bundle{Body: lon.Preamble.Body, Longitude: lon, Latitude: lat, Distance: dist}
				return weftball.Write(c.String("out"), b)
			},
		},
		{
			Name:      "open",
			Usage:     "print a weftball archive's body and sample position",
			ArgsUsage: "<archive>",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "time", Usage: "optional RFC3339 timestamp to sample"},
			},
			Action: func(c *cli.Context) error {
				if c.Args().Len() != 1 {
					return fmt.Errorf("weftball open requires exactly one archive path")
				}
				b, err := weftball.Open(c.Args().Get(0))
				if err != nil {
					return err
				}
				fmt.Printf("body: %s\n", b.Body)
				fmt.Printf("longitude timespan: %s\n", b.Longitude.Preamble.Timespan)
				fmt.Printf("latitude timespan:  %s\n", b.Latitude.Preamble.Timespan)
				fmt.Printf("distance timespan:  %s\n", b.Distance.Preamble.Timespan)

				if ts := c.String("time"); ts != "" {
					t, err := time.Parse(time.RFC3339, ts)
					if err != nil {
						return fmt.Errorf("parsing --time: %w", err)
					}
					eph := ephemeris.NewWeftballEphemeris(map[string]*weftball.Bundle{b.Body: b})
					pos, err := eph.GetPosition(context.Background(), b.Body, t)
					if err != nil {
						return fmt.Errorf("evaluating: %w", err)
					}
					fmt.Printf("at %s: longitude=%g latitude=%g distance=%g\n", t.Format(time.RFC3339), pos.Longitude, pos.Latitude, pos.Distance)
				}
				return nil
			},
		},
	},
}

func openWeftFile(path string) (*weft.File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer fh.Close()
	f, err := weft.Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}
