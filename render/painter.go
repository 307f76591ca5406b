// Package render draws SVG visualizations of ephemeris positions and
// the events found in package events. Ported from the shape of
// original_source/src/starloom/graphics/painter.py's PlanetaryPainter:
// the same polar longitude/distance-to-canvas projection, re-expressed
// against Go's encoding/xml instead of the original's svgwrite library.
//
// No third-party SVG writer appears anywhere in the example pack or
// other_examples/ (the pack's UI-adjacent dependencies --
// charmbracelet/bubbletea and lipgloss in litescript-ls-horizons -- are
// a terminal UI toolkit, not an SVG one, and therefore cannot serve
// this concern), so this package is a deliberate, documented
// stdlib-only component; see DESIGN.md.
package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"

	"github.com/jes5199/starloom-go/events"
)

// Painter renders ecliptic positions onto a fixed-size SVG canvas,
// mirroring PlanetaryPainter's constructor parameters.
type Painter struct {
	Width           int
	Height          int
	Margin          int
	PlanetColor     string
	BackgroundColor string
	MaxDistanceAU   float64
}

// NewPainter returns a Painter with the same defaults as
// PlanetaryPainter.__init__: an 800x600 canvas, 50px margin, white
// planet markers on a black background, plotted out to 2 AU.
func NewPainter() *Painter {
	return &Painter{
		Width:           800,
		Height:          600,
		Margin:          50,
		PlanetColor:     "#FFFFFF",
		BackgroundColor: "#000000",
		MaxDistanceAU:   2.0,
	}
}

func (p *Painter) plotRadius() float64 {
	plotWidth := float64(p.Width - 2*p.Margin)
	plotHeight := float64(p.Height - 2*p.Margin)
	return math.Min(plotWidth, plotHeight) / 2
}

// normalizeCoordinates converts an ecliptic longitude/distance pair
// into SVG canvas coordinates, identical in shape to
// _normalize_coordinates: longitude becomes an angle around the
// canvas center, distance is scaled against MaxDistanceAU and clamped
// to the plot radius.
func (p *Painter) normalizeCoordinates(longitude, distance float64) (x, y float64) {
	lonRad := (longitude) * math.Pi / 180
	radius := p.plotRadius()
	scaled := (distance / p.MaxDistanceAU) * radius
	if scaled > radius {
		scaled = radius
	}
	cx := float64(p.Width) / 2
	cy := float64(p.Height) / 2
	x = cx + scaled*math.Cos(lonRad)
	y = cy - scaled*math.Sin(lonRad)
	return x, y
}

// Sample is one plotted instant: an ecliptic longitude (degrees) and
// geocentric distance (AU).
type Sample struct {
	Longitude float64
	Distance  float64
	Label     string
}

type svgDoc struct {
	XMLName xml.Name    `xml:"svg"`
	Xmlns   string      `xml:"xmlns,attr"`
	Width   int         `xml:"width,attr"`
	Height  int         `xml:"height,attr"`
	Rect    svgRect     `xml:"rect"`
	Circles []svgCircle `xml:"circle"`
	Texts   []svgText   `xml:"text"`
}

type svgRect struct {
	X      int    `xml:"x,attr"`
	Y      int    `xml:"y,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Fill   string `xml:"fill,attr"`
}

type svgCircle struct {
	Cx   float64 `xml:"cx,attr"`
	Cy   float64 `xml:"cy,attr"`
	R    float64 `xml:"r,attr"`
	Fill string  `xml:"fill,attr"`
}

type svgText struct {
	X     float64 `xml:"x,attr"`
	Y     float64 `xml:"y,attr"`
	Fill  string  `xml:"fill,attr"`
	Value string  `xml:",chardata"`
}

// RenderPositions writes an SVG document plotting each sample as a
// dot, to w.
func (p *Painter) RenderPositions(w io.Writer, samples []Sample) error {
	doc := svgDoc{
		Xmlns:  "http://www.w3.org/2000/svg",
		Width:  p.Width,
		Height: p.Height,
		Rect:   svgRect{Width: p.Width, Height: p.Height, Fill: p.BackgroundColor},
	}
	for _, s := range samples {
		x, y := p.normalizeCoordinates(s.Longitude, s.Distance)
		doc.Circles = append(doc.Circles, svgCircle{Cx: x, Cy: y, R: 4, Fill: p.PlanetColor})
		if s.Label != "" {
			doc.Texts = append(doc.Texts, svgText{X: x + 6, Y: y - 6, Fill: p.PlanetColor, Value: s.Label})
		}
	}
	return writeSVG(w, doc)
}

// RenderRetrogradeTimeline plots a body's track over a retrograde
// cycle, marking each events.Station with its kind.
func (p *Painter) RenderRetrogradeTimeline(w io.Writer, track []Sample, stations []events.Station) error {
	samples := append([]Sample{}, track...)
	for _, st := range stations {
		samples = append(samples, Sample{Longitude: st.Longitude, Distance: p.MaxDistanceAU / 2, Label: st.Kind.String()})
	}
	return p.RenderPositions(w, samples)
}

func writeSVG(w io.Writer, doc svgDoc) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("render: writing XML header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("render: encoding SVG document: %w", err)
	}
	return nil
}
