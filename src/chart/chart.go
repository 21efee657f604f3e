// Package chart renders dashboard analytics series to SVG (browser display)
// and PNG (export). All computation is per-render and pure: the caller hands
// in a point slice and gets bytes back; nothing is cached between renders.
package chart

import (
	"fmt"
	"time"

	"github.com/Infradevandops/cumapp/src/types"
)

// Type selects the shape builder.
type Type string

const (
	TypeLine    Type = "line"
	TypeBar     Type = "bar"
	TypePie     Type = "pie"
	TypeArea    Type = "area"
	TypeScatter Type = "scatter"
)

// ParseType validates a chart type token.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeLine, TypeBar, TypePie, TypeArea, TypeScatter:
		return Type(s), nil
	}
	return TypeLine, fmt.Errorf("unknown chart type %q", s)
}

// Box holds plot margins in pixels.
type Box struct {
	Top, Right, Bottom, Left int
}

// Options carries per-render geometry. Zero-value fields fall back to the
// dashboard defaults.
type Options struct {
	Title   string
	Width   int
	Height  int
	Margins Box
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 300
	}
	if o.Margins == (Box{}) {
		o.Margins = Box{Top: 24, Right: 20, Bottom: 40, Left: 52}
	}
	return o
}

func (o Options) inner() (w, h float64) {
	return float64(o.Width - o.Margins.Left - o.Margins.Right),
		float64(o.Height - o.Margins.Top - o.Margins.Bottom)
}

// Renderer renders one series as one chart. Build with New, render with SVG;
// the same renderer then answers HitTest queries against the geometry it drew.
type Renderer struct {
	typ    Type
	opts   Options
	points []types.SeriesPoint
	scale  Scale
	hits   []hitRegion
}

// New builds a renderer. Non-finite values are dropped up front so no NaN can
// reach coordinate math.
func New(typ Type, points []types.SeriesPoint, opts Options) *Renderer {
	opts = opts.withDefaults()
	pts := sanitize(points)
	iw, ih := opts.inner()
	sc := NewScale(pts, iw, ih)
	// Bars and area fills measure from a zero baseline; anchor the domain at
	// zero so two bars of 100 and 200 draw at a 1:2 height ratio instead of
	// 0:1 against a min-clipped axis.
	if (typ == TypeBar || typ == TypeArea) && sc.Class == SeriesNormal {
		if sc.Min > 0 {
			sc.Min = 0
		}
		if sc.Max < 0 {
			sc.Max = 0
		}
	}
	return &Renderer{
		typ:    typ,
		opts:   opts,
		points: pts,
		scale:  sc,
	}
}

// Points returns the sanitized series the renderer draws.
func (r *Renderer) Points() []types.SeriesPoint { return r.points }

// Class exposes the series classification (mainly for callers deciding
// whether to show range controls).
func (r *Renderer) Class() SeriesClass { return r.scale.Class }

// DefaultExportName names an export artifact the way the dashboard download
// button does: chart-<unix-ms>.<ext>.
func DefaultExportName(now time.Time, ext string) string {
	return fmt.Sprintf("chart-%d.%s", now.UnixMilli(), ext)
}
