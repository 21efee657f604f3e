package chart

import (
	"bytes"
	"fmt"
	"math"

	"github.com/Infradevandops/cumapp/src/types"
)

// SVG renders the chart and returns the serialized document. Degenerate input
// (no points, or a pie whose values sum to zero) renders the "No data
// available" placeholder rather than erroring: an empty dashboard panel is a
// normal state, not a fault.
func (r *Renderer) SVG() []byte {
	r.hits = r.hits[:0]
	var b bytes.Buffer
	fmt.Fprintf(&b, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n",
		r.opts.Width, r.opts.Height, r.opts.Width, r.opts.Height)
	fmt.Fprintf(&b, "<rect width=\"%d\" height=\"%d\" fill=\"white\"/>\n", r.opts.Width, r.opts.Height)
	if r.opts.Title != "" {
		fmt.Fprintf(&b, "<text x=\"%d\" y=\"16\" fill=\"%s\" font-family=\"sans-serif\" font-size=\"14\">%s</text>\n",
			r.opts.Margins.Left, titleColor, escapeText(r.opts.Title))
	}
	if len(r.points) == 0 || (r.typ == TypePie && pieTotal(r.points) <= 0) {
		r.writePlaceholder(&b)
		b.WriteString("</svg>\n")
		return b.Bytes()
	}
	if r.typ == TypePie {
		r.writePie(&b)
		b.WriteString("</svg>\n")
		return b.Bytes()
	}
	r.writeAxes(&b)
	fmt.Fprintf(&b, "<g transform=\"translate(%d,%d)\">\n", r.opts.Margins.Left, r.opts.Margins.Top)
	switch r.typ {
	case TypeBar:
		r.writeBars(&b)
	case TypeArea:
		r.writeArea(&b)
	case TypeScatter:
		r.writeScatter(&b)
	default:
		r.writeLine(&b)
	}
	b.WriteString("</g>\n</svg>\n")
	return b.Bytes()
}

func (r *Renderer) writePlaceholder(b *bytes.Buffer) {
	fmt.Fprintf(b, "<text x=\"%d\" y=\"%d\" fill=\"%s\" font-family=\"sans-serif\" font-size=\"14\" text-anchor=\"middle\">No data available</text>\n",
		r.opts.Width/2, r.opts.Height/2, labelColor)
}

// writeAxes draws the grid, the five Y tick labels and the strided X labels.
// Grid geometry does not register hit regions: clicks on axis furniture must
// not resolve to data points.
func (r *Renderer) writeAxes(b *bytes.Buffer) {
	left, top := r.opts.Margins.Left, r.opts.Margins.Top
	iw, ih := r.scale.InnerW, r.scale.InnerH
	ticks := YTicks(r.scale.Min, r.scale.Max)
	fmt.Fprintf(b, "<g stroke=\"%s\" stroke-width=\"1\">\n", gridColor)
	for i := range ticks {
		// ticks are evenly spaced in value, so evenly spaced in pixels
		y := float64(top) + ih - float64(i)/float64(len(ticks)-1)*ih
		fmt.Fprintf(b, "<line x1=\"%d\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\"/>\n", left, y, float64(left)+iw, y)
	}
	b.WriteString("</g>\n")
	// axis lines
	fmt.Fprintf(b, "<g stroke=\"%s\" stroke-width=\"1\">\n", axisColor)
	fmt.Fprintf(b, "<line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%.2f\"/>\n", left, top, left, float64(top)+ih)
	fmt.Fprintf(b, "<line x1=\"%d\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\"/>\n", left, float64(top)+ih, float64(left)+iw, float64(top)+ih)
	b.WriteString("</g>\n")
	for i, tk := range ticks {
		y := float64(top) + ih - float64(i)/float64(len(ticks)-1)*ih
		fmt.Fprintf(b, "<text x=\"%d\" y=\"%.2f\" fill=\"%s\" font-family=\"sans-serif\" font-size=\"11\" text-anchor=\"end\">%s</text>\n",
			left-6, y+4, labelColor, escapeText(tk.Label))
	}
	stride := XLabelStride(len(r.points))
	for i := 0; i < len(r.points); i += stride {
		var x float64
		if r.typ == TypeBar {
			x = float64(left) + float64(i)*r.scale.SlotWidth() + r.scale.SlotWidth()/2
		} else {
			x = float64(left) + r.scale.X(i)
		}
		fmt.Fprintf(b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-family=\"sans-serif\" font-size=\"11\" text-anchor=\"middle\">%s</text>\n",
			x, float64(top)+r.scale.InnerH+16, labelColor, escapeText(shortLabel(r.points[i].Label)))
	}
}

func (r *Renderer) writeLine(b *bytes.Buffer) {
	fmt.Fprintf(b, "<polyline fill=\"none\" stroke=\"%s\" stroke-width=\"2\" points=\"", seriesColor)
	for i, p := range r.points {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "%.2f,%.2f", r.scale.X(i), r.scale.Y(p.Value))
	}
	b.WriteString("\"/>\n")
	r.writeMarkers(b, 4)
}

// writeMarkers draws the clickable circles and registers their hit regions
// with a couple of pixels of slop for fat-finger tolerance.
func (r *Renderer) writeMarkers(b *bytes.Buffer, radius float64) {
	left, top := float64(r.opts.Margins.Left), float64(r.opts.Margins.Top)
	for i, p := range r.points {
		x, y := r.scale.X(i), r.scale.Y(p.Value)
		fmt.Fprintf(b, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.1f\" fill=\"%s\" data-index=\"%d\"/>\n",
			x, y, radius, seriesColor, i)
		r.hits = append(r.hits, hitRegion{kind: hitMarker, index: i, cx: left + x, cy: top + y, r: radius + 2})
	}
}

func (r *Renderer) writeBars(b *bytes.Buffer) {
	left, top := float64(r.opts.Margins.Left), float64(r.opts.Margins.Top)
	slot := r.scale.SlotWidth()
	barW := slot * 0.8
	base := r.scale.Baseline()
	for i, p := range r.points {
		x := float64(i)*slot + (slot-barW)/2
		y := r.scale.Y(p.Value)
		ry, rh := y, base-y
		if rh < 0 {
			ry, rh = base, -rh
		}
		fmt.Fprintf(b, "<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" data-index=\"%d\"/>\n",
			x, ry, barW, rh, ColorFor(p.Label), i)
		r.hits = append(r.hits, hitRegion{kind: hitBar, index: i, x: left + x, y: top + ry, w: barW, h: rh})
	}
}

func (r *Renderer) writeArea(b *bytes.Buffer) {
	base := r.scale.Baseline()
	b.WriteString("<defs><linearGradient id=\"areaFill\" x1=\"0\" y1=\"0\" x2=\"0\" y2=\"1\">")
	fmt.Fprintf(b, "<stop offset=\"0%%\" stop-color=\"%s\" stop-opacity=\"0.35\"/>", seriesColor)
	fmt.Fprintf(b, "<stop offset=\"100%%\" stop-color=\"%s\" stop-opacity=\"0.05\"/>", seriesColor)
	b.WriteString("</linearGradient></defs>\n")
	b.WriteString("<path fill=\"url(#areaFill)\" d=\"")
	for i, p := range r.points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(b, "%s%.2f,%.2f ", cmd, r.scale.X(i), r.scale.Y(p.Value))
	}
	fmt.Fprintf(b, "L%.2f,%.2f L%.2f,%.2f Z\"/>\n", r.scale.X(len(r.points)-1), base, r.scale.X(0), base)
	fmt.Fprintf(b, "<polyline fill=\"none\" stroke=\"%s\" stroke-width=\"2\" points=\"", seriesColor)
	for i, p := range r.points {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "%.2f,%.2f", r.scale.X(i), r.scale.Y(p.Value))
	}
	b.WriteString("\"/>\n")
	r.writeMarkers(b, 3)
}

func (r *Renderer) writeScatter(b *bytes.Buffer) {
	left, top := float64(r.opts.Margins.Left), float64(r.opts.Margins.Top)
	for i, p := range r.points {
		size := p.Size
		if size <= 0 {
			size = 10
		}
		radius := math.Sqrt(size) * 2
		x, y := r.scale.X(i), r.scale.Y(p.Value)
		fmt.Fprintf(b, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\" fill-opacity=\"0.8\" data-index=\"%d\"/>\n",
			x, y, radius, ColorFor(p.Label), i)
		r.hits = append(r.hits, hitRegion{kind: hitMarker, index: i, cx: left + x, cy: top + y, r: radius + 2})
	}
}

func pieTotal(points []types.SeriesPoint) float64 {
	total := 0.0
	for _, p := range points {
		if p.Value > 0 {
			total += p.Value
		}
	}
	return total
}

// PieAngles returns each point's sweep angle in radians, proportional to
// value/total. Negative values contribute zero sweep. A zero total yields all
// zero sweeps (degenerate pie) rather than an error.
func PieAngles(points []types.SeriesPoint) []float64 {
	out := make([]float64, len(points))
	total := pieTotal(points)
	if total <= 0 {
		return out
	}
	for i, p := range points {
		if p.Value > 0 {
			out[i] = p.Value / total * 2 * math.Pi
		}
	}
	return out
}

func (r *Renderer) writePie(b *bytes.Buffer) {
	iw, ih := r.scale.InnerW, r.scale.InnerH
	cx := float64(r.opts.Margins.Left) + iw/2
	cy := float64(r.opts.Margins.Top) + ih/2
	radius := math.Min(iw, ih) / 2 * 0.9
	angles := PieAngles(r.points)
	// start at 12 o'clock, sweep clockwise
	a := -math.Pi / 2
	for i, sweep := range angles {
		if sweep <= 0 {
			continue
		}
		a1 := a + sweep
		large := 0
		if sweep > math.Pi {
			large = 1
		}
		x0, y0 := cx+radius*math.Cos(a), cy+radius*math.Sin(a)
		x1, y1 := cx+radius*math.Cos(a1), cy+radius*math.Sin(a1)
		if sweep >= 2*math.Pi-1e-9 {
			// single 100% wedge: arcs with coincident endpoints collapse, draw a full circle
			fmt.Fprintf(b, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\" data-index=\"%d\"/>\n",
				cx, cy, radius, ColorFor(r.points[i].Label), i)
		} else {
			fmt.Fprintf(b, "<path d=\"M%.2f,%.2f L%.2f,%.2f A%.2f,%.2f 0 %d 1 %.2f,%.2f Z\" fill=\"%s\" data-index=\"%d\"/>\n",
				cx, cy, x0, y0, radius, radius, large, x1, y1, ColorFor(r.points[i].Label), i)
		}
		r.hits = append(r.hits, hitRegion{kind: hitWedge, index: i, cx: cx, cy: cy, r: radius, a0: a, a1: a1})
		a = a1
	}
	// legend down the right edge
	lx := float64(r.opts.Width-r.opts.Margins.Right) - 120
	ly := float64(r.opts.Margins.Top) + 8
	for _, p := range r.points {
		fmt.Fprintf(b, "<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"/>\n", lx, ly-9, ColorFor(p.Label))
		fmt.Fprintf(b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-family=\"sans-serif\" font-size=\"11\">%s</text>\n",
			lx+14, ly, labelColor, escapeText(shortLabel(p.Label)))
		ly += 16
	}
}

// shortLabel trims date labels to MM-DD so strided X labels stay compact.
func shortLabel(label string) string {
	if _, ok := ParseLabelTime(label); ok && len(label) >= 10 {
		return label[5:10]
	}
	if len(label) > 14 {
		return label[:14]
	}
	return label
}

func escapeText(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
