package chart

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/Infradevandops/cumapp/src/types"
)

func TestEmptySeriesRendersPlaceholder(t *testing.T) {
	for _, typ := range []Type{TypeLine, TypeBar, TypePie, TypeArea, TypeScatter} {
		svg := string(New(typ, nil, Options{}).SVG())
		if !strings.Contains(svg, "No data available") {
			t.Fatalf("%s: expected placeholder for empty series", typ)
		}
	}
}

func TestSinglePointSeriesHasNoNaN(t *testing.T) {
	series := []types.SeriesPoint{{Label: "2024-01-01", Value: 42}}
	for _, typ := range []Type{TypeLine, TypeBar, TypeArea, TypeScatter} {
		svg := string(New(typ, series, Options{}).SVG())
		if strings.Contains(svg, "NaN") || strings.Contains(svg, "Inf") {
			t.Fatalf("%s: NaN/Inf leaked into SVG:\n%s", typ, svg)
		}
	}
}

func TestFlatSeriesHasNoNaN(t *testing.T) {
	series := pts(5, 5, 5, 5)
	for _, typ := range []Type{TypeLine, TypeBar, TypeArea} {
		svg := string(New(typ, series, Options{}).SVG())
		if strings.Contains(svg, "NaN") {
			t.Fatalf("%s: NaN leaked into SVG for flat series", typ)
		}
	}
}

func TestPieAllZeroValuesDegenerate(t *testing.T) {
	series := []types.SeriesPoint{
		{Label: "a", Value: 0},
		{Label: "b", Value: 0},
	}
	angles := PieAngles(series)
	sum := 0.0
	for _, a := range angles {
		sum += a
	}
	if sum != 0 {
		t.Fatalf("zero-total pie sweep sum = %v, want 0", sum)
	}
	svg := string(New(TypePie, series, Options{}).SVG())
	if !strings.Contains(svg, "No data available") {
		t.Fatalf("expected placeholder for zero-total pie")
	}
}

func TestPieAnglesSumToFullCircle(t *testing.T) {
	series := []types.SeriesPoint{
		{Label: "a", Value: 1},
		{Label: "b", Value: 2},
		{Label: "c", Value: 3},
	}
	sum := 0.0
	for _, a := range PieAngles(series) {
		sum += a
	}
	if math.Abs(sum-2*math.Pi) > 1e-9 {
		t.Fatalf("sweep sum = %v, want 2*pi", sum)
	}
}

var rectRe = regexp.MustCompile(`<rect x="([0-9.]+)" y="([0-9.]+)" width="([0-9.]+)" height="([0-9.]+)"`)

func TestBarChartHeightsAndSpacing(t *testing.T) {
	series := []types.SeriesPoint{
		{Label: "2024-01-01", Value: 100},
		{Label: "2024-01-02", Value: 200},
	}
	r := New(TypeBar, series, Options{Width: 800, Height: 300})
	svg := string(r.SVG())
	// the background rect has no x attribute, so only data bars match
	bars := rectRe.FindAllStringSubmatch(svg, -1)
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, found %d", len(bars))
	}
	h0, _ := strconv.ParseFloat(bars[0][4], 64)
	h1, _ := strconv.ParseFloat(bars[1][4], 64)
	if math.Abs(h1/h0-2.0) > 0.01 {
		t.Fatalf("bar height ratio = %v (h0=%v h1=%v), want 2.0", h1/h0, h0, h1)
	}
	x0, _ := strconv.ParseFloat(bars[0][1], 64)
	x1, _ := strconv.ParseFloat(bars[1][1], 64)
	w0, _ := strconv.ParseFloat(bars[0][3], 64)
	iw, _ := r.opts.inner()
	slot := iw / 2
	if math.Abs((x1-x0)-slot) > 0.01 {
		t.Fatalf("bars not evenly spaced: dx=%v, want slot %v", x1-x0, slot)
	}
	if math.Abs(w0-slot*0.8) > 0.01 {
		t.Fatalf("bar width = %v, want %v", w0, slot*0.8)
	}
}

func TestLineMarkersCarryDataIndex(t *testing.T) {
	series := pts(1, 2, 3)
	svg := string(New(TypeLine, series, Options{}).SVG())
	for i := range series {
		if !strings.Contains(svg, `data-index="`+strconv.Itoa(i)+`"`) {
			t.Fatalf("missing marker for index %d", i)
		}
	}
}

func TestHitTestResolvesMarkers(t *testing.T) {
	series := []types.SeriesPoint{
		{Label: "2024-01-01", Value: 10},
		{Label: "2024-01-02", Value: 20},
		{Label: "2024-01-03", Value: 15},
	}
	r := New(TypeLine, series, Options{Width: 800, Height: 300})
	r.SVG() // records hit geometry
	left := float64(r.opts.Margins.Left)
	top := float64(r.opts.Margins.Top)
	for i, p := range series {
		x := left + r.scale.X(i)
		y := top + r.scale.Y(p.Value)
		got, idx, ok := r.HitTest(x, y)
		if !ok {
			t.Fatalf("marker %d: expected hit at (%v,%v)", i, x, y)
		}
		if idx != i || got != p {
			t.Fatalf("marker %d: resolved (%v,%d)", i, got, idx)
		}
	}
	// axis / grid clicks never resolve to data
	if _, _, ok := r.HitTest(5, 5); ok {
		t.Fatalf("corner click resolved to a data point")
	}
	if _, _, ok := r.HitTest(left-10, top+10); ok {
		t.Fatalf("y-axis click resolved to a data point")
	}
}

func TestHitTestPieWedges(t *testing.T) {
	series := []types.SeriesPoint{
		{Label: "a", Value: 1},
		{Label: "b", Value: 1},
	}
	r := New(TypePie, series, Options{Width: 400, Height: 300})
	r.SVG()
	// first wedge sweeps clockwise from 12 o'clock to 6 o'clock: probe 3 o'clock
	iw, ih := r.opts.inner()
	cx := float64(r.opts.Margins.Left) + iw/2
	cy := float64(r.opts.Margins.Top) + ih/2
	radius := math.Min(iw, ih) / 2 * 0.9
	_, idx, ok := r.HitTest(cx+radius*0.5, cy)
	if !ok || idx != 0 {
		t.Fatalf("3 o'clock probe: got idx=%d ok=%v, want wedge 0", idx, ok)
	}
	_, idx, ok = r.HitTest(cx-radius*0.5, cy)
	if !ok || idx != 1 {
		t.Fatalf("9 o'clock probe: got idx=%d ok=%v, want wedge 1", idx, ok)
	}
	// outside the radius misses
	if _, _, ok := r.HitTest(cx+radius*2, cy); ok {
		t.Fatalf("outside-radius probe resolved to a wedge")
	}
}

func TestScatterRadiusFromSize(t *testing.T) {
	series := []types.SeriesPoint{
		{Label: "a", Value: 1, Size: 25},
		{Label: "b", Value: 2}, // default size 10
	}
	svg := string(New(TypeScatter, series, Options{}).SVG())
	if !strings.Contains(svg, `r="10.00"`) { // sqrt(25)*2
		t.Fatalf("expected r=10.00 for size 25:\n%s", svg)
	}
	want := math.Sqrt(10) * 2
	if !strings.Contains(svg, `r="`+strconv.FormatFloat(want, 'f', 2, 64)+`"`) {
		t.Fatalf("expected default-size radius %.2f", want)
	}
}

func TestAreaChartClosesToBaseline(t *testing.T) {
	series := []types.SeriesPoint{
		{Label: "2024-01-01", Value: 100},
		{Label: "2024-01-02", Value: 200},
	}
	svg := string(New(TypeArea, series, Options{}).SVG())
	if !strings.Contains(svg, "areaFill") || !strings.Contains(svg, "Z\"/>") {
		t.Fatalf("expected gradient-filled closed path")
	}
}

func TestTitleEscaped(t *testing.T) {
	svg := string(New(TypeLine, pts(1, 2), Options{Title: "a <b> & c"}).SVG())
	if strings.Contains(svg, "<b>") || !strings.Contains(svg, "a &lt;b&gt; &amp; c") {
		t.Fatalf("title not escaped")
	}
}
