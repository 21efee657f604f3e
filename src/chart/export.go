package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrNoData reports an export attempt over an empty series. SVG rendering
// shows a placeholder instead; file export has nothing useful to write.
var ErrNoData = errors.New("chart: no data to export")

// ExportSVG writes the rendered SVG document. Errors from the writer
// propagate: the HTTP layer and the CLI both surface them.
func (r *Renderer) ExportSVG(w io.Writer) error {
	if len(r.points) == 0 {
		return ErrNoData
	}
	_, err := w.Write(r.SVG())
	return err
}

// ExportPNG renders the same series through go-chart and writes a stamped PNG.
// A bitmap travels better than SVG through chat apps and ticket systems, which
// is where exported dashboard charts end up.
func (r *Renderer) ExportPNG(w io.Writer) error {
	if len(r.points) == 0 {
		return ErrNoData
	}
	var buf bytes.Buffer
	var err error
	switch r.typ {
	case TypeBar:
		err = r.renderBarPNG(&buf)
	case TypePie:
		err = r.renderPiePNG(&buf)
	default:
		err = r.renderLinePNG(&buf)
	}
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return fmt.Errorf("decode png: %w", err)
	}
	stamped := stampFooter(img, "CumApp export "+time.Now().UTC().Format("2006-01-02 15:04 UTC"))
	return png.Encode(w, stamped)
}

func (r *Renderer) renderLinePNG(w io.Writer) error {
	xs := make([]float64, len(r.points))
	ys := make([]float64, len(r.points))
	for i, p := range r.points {
		xs[i] = float64(i + 1)
		ys[i] = p.Value
	}
	st := gochart.Style{
		StrokeColor: drawing.ColorBlue,
		StrokeWidth: 2,
	}
	if r.typ == TypeArea {
		st.FillColor = drawing.ColorBlue.WithAlpha(60)
	}
	if r.typ == TypeScatter {
		st.StrokeWidth = gochart.Disabled
		st.DotColor = drawing.ColorBlue
		st.DotWidth = 5
	}
	// Pad to at least two X values for go-chart
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}
	ticks := make([]gochart.Tick, 0, yTickCount)
	for _, tk := range YTicks(r.scale.Min, r.scale.Max) {
		ticks = append(ticks, gochart.Tick{Value: tk.Value, Label: tk.Label})
	}
	min, max := r.scale.Min, r.scale.Max
	if max <= min {
		max = min + 1
	}
	ch := gochart.Chart{
		Title:      r.opts.Title,
		Width:      r.opts.Width,
		Height:     r.opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 14, Left: 16, Right: 12, Bottom: 36}},
		YAxis: gochart.YAxis{
			Ticks: ticks,
			Range: &gochart.ContinuousRange{Min: min, Max: max},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{Name: r.opts.Title, XValues: xs, YValues: ys, Style: st},
		},
	}
	return ch.Render(gochart.PNG, w)
}

func (r *Renderer) renderBarPNG(w io.Writer) error {
	values := make([]gochart.Value, len(r.points))
	for i, p := range r.points {
		values[i] = gochart.Value{Value: p.Value, Label: shortLabel(p.Label)}
	}
	ch := gochart.BarChart{
		Title:      r.opts.Title,
		Width:      r.opts.Width,
		Height:     r.opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 14, Left: 16, Right: 12, Bottom: 36}},
		BarWidth:   barWidthFor(r.opts.Width, len(values)),
		Bars:       values,
	}
	return ch.Render(gochart.PNG, w)
}

func (r *Renderer) renderPiePNG(w io.Writer) error {
	if pieTotal(r.points) <= 0 {
		return ErrNoData
	}
	values := make([]gochart.Value, 0, len(r.points))
	for _, p := range r.points {
		if p.Value > 0 {
			values = append(values, gochart.Value{Value: p.Value, Label: shortLabel(p.Label)})
		}
	}
	ch := gochart.PieChart{
		Title:  r.opts.Title,
		Width:  r.opts.Width,
		Height: r.opts.Height,
		Values: values,
	}
	return ch.Render(gochart.PNG, w)
}

func barWidthFor(width, n int) int {
	if n <= 0 {
		return 16
	}
	bw := width / (n * 2)
	if bw < 4 {
		bw = 4
	}
	if bw > 60 {
		bw = 60
	}
	return bw
}

// stampFooter draws a small provenance line onto the exported image near the
// bottom-left, shadow first for contrast on varying backgrounds.
func stampFooter(img image.Image, text string) image.Image {
	if img == nil || text == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 70, G: 70, B: 70, A: 255})
	shadowCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 200})
	x := b.Min.X + 8
	y := b.Max.Y - 6
	drShadow := &font.Drawer{Dst: rgba, Src: shadowCol, Face: face, Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}}
	drShadow.DrawString(text)
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face, Dot: fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}}
	dr.DrawString(text)
	return rgba
}
