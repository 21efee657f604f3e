package chart

import (
	"math"

	"github.com/Infradevandops/cumapp/src/types"
)

type hitKind int

const (
	hitMarker hitKind = iota
	hitBar
	hitWedge
)

// hitRegion records the geometry of one clickable shape in full-document
// pixel coordinates (margins included).
type hitRegion struct {
	kind  hitKind
	index int
	// marker / wedge
	cx, cy, r float64
	// bar rect
	x, y, w, h float64
	// wedge angle span (radians, clockwise from a0)
	a0, a1 float64
}

// HitTest resolves a document pixel to the data point whose shape covers it.
// Axis lines, grid lines and labels register no regions, so clicks there miss.
// Call after SVG(): regions are recorded during rendering.
func (r *Renderer) HitTest(x, y float64) (types.SeriesPoint, int, bool) {
	for _, h := range r.hits {
		switch h.kind {
		case hitMarker:
			dx, dy := x-h.cx, y-h.cy
			if dx*dx+dy*dy <= h.r*h.r {
				return r.points[h.index], h.index, true
			}
		case hitBar:
			if x >= h.x && x <= h.x+h.w && y >= h.y && y <= h.y+h.h {
				return r.points[h.index], h.index, true
			}
		case hitWedge:
			dx, dy := x-h.cx, y-h.cy
			if dx*dx+dy*dy > h.r*h.r {
				continue
			}
			a := math.Atan2(dy, dx)
			// normalize into the wedge's frame: angles recorded clockwise from -pi/2
			for a < h.a0 {
				a += 2 * math.Pi
			}
			if a <= h.a1 {
				return r.points[h.index], h.index, true
			}
		}
	}
	return types.SeriesPoint{}, 0, false
}
