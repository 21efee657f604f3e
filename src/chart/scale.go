package chart

import (
	"math"

	"github.com/Infradevandops/cumapp/src/types"
)

// SeriesClass tags the degenerate shapes a series can take so scale
// construction dispatches explicitly instead of letting division by zero
// leak NaN into geometry (browsers drop NaN SVG attributes silently, which
// renders invisible shapes with no error).
type SeriesClass int

const (
	SeriesEmpty SeriesClass = iota
	SeriesSingle
	SeriesFlat // n >= 2 but every value identical
	SeriesNormal
)

func (c SeriesClass) String() string {
	switch c {
	case SeriesEmpty:
		return "empty"
	case SeriesSingle:
		return "single"
	case SeriesFlat:
		return "flat"
	}
	return "normal"
}

// Classify inspects a series and returns its scale class. Non-finite values
// are expected to have been dropped by the caller (see sanitize).
func Classify(points []types.SeriesPoint) SeriesClass {
	switch len(points) {
	case 0:
		return SeriesEmpty
	case 1:
		return SeriesSingle
	}
	first := points[0].Value
	for _, p := range points[1:] {
		if p.Value != first {
			return SeriesNormal
		}
	}
	return SeriesFlat
}

// sanitize drops points whose value is NaN or infinite. Input order is kept.
func sanitize(points []types.SeriesPoint) []types.SeriesPoint {
	out := points[:0:0]
	for _, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// DataRange returns the series value extent. An empty series degenerates to
// [0,100] so axis rendering still has a domain to label.
func DataRange(points []types.SeriesPoint) (min, max float64) {
	if len(points) == 0 {
		return 0, 100
	}
	min, max = points[0].Value, points[0].Value
	for _, p := range points[1:] {
		if p.Value < min {
			min = p.Value
		}
		if p.Value > max {
			max = p.Value
		}
	}
	return min, max
}

// Scale maps data space into the inner plot area (pixels). Y grows downward
// per SVG convention: higher values map to smaller y.
type Scale struct {
	Class      SeriesClass
	N          int
	Min, Max   float64
	InnerW     float64
	InnerH     float64
}

// NewScale builds a scale for the given (already sanitized) series and inner
// plot dimensions.
func NewScale(points []types.SeriesPoint, innerW, innerH float64) Scale {
	min, max := DataRange(points)
	return Scale{
		Class:  Classify(points),
		N:      len(points),
		Min:    min,
		Max:    max,
		InnerW: innerW,
		InnerH: innerH,
	}
}

// X maps a point index to a horizontal pixel offset. A single-point series is
// centered; the usual i/(n-1) spread would divide by zero.
func (s Scale) X(i int) float64 {
	switch {
	case s.N <= 0:
		return 0
	case s.N == 1:
		return s.InnerW / 2
	}
	return float64(i) / float64(s.N-1) * s.InnerW
}

// Y maps a value to a vertical pixel offset. Flat and single-point series map
// everything to the mid-line; (v-min)/(max-min) would divide by zero there.
func (s Scale) Y(v float64) float64 {
	switch s.Class {
	case SeriesEmpty, SeriesSingle, SeriesFlat:
		return s.InnerH / 2
	}
	return s.InnerH - (v-s.Min)/(s.Max-s.Min)*s.InnerH
}

// SlotWidth returns the horizontal slot per point for bar layout; bars occupy
// 80% of the slot.
func (s Scale) SlotWidth() float64 {
	if s.N <= 0 {
		return 0
	}
	return s.InnerW / float64(s.N)
}

// Baseline is the y that bars and area fills close to: value zero clamped
// into the domain. All-positive domains put it at the bottom, all-negative at
// the top, mixed at the zero line. Degenerate series use the bottom so flat
// bars still have visible height against the mid-line value mapping.
func (s Scale) Baseline() float64 {
	if s.Class != SeriesNormal {
		return s.InnerH
	}
	base := 0.0
	if base < s.Min {
		base = s.Min
	}
	if base > s.Max {
		base = s.Max
	}
	return s.Y(base)
}
