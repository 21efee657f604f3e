package chart

import (
	"fmt"
	"math"
)

// Tick is one axis tick mark with its rendered label.
type Tick struct {
	Value float64
	Label string
}

// yTickCount is fixed: five evenly spaced ticks read well at dashboard sizes
// without collision handling.
const yTickCount = 5

// YTicks returns yTickCount evenly spaced ticks across [min,max]. A collapsed
// domain (flat series) widens by one unit so labels stay distinct.
func YTicks(min, max float64) []Tick {
	if math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	ticks := make([]Tick, 0, yTickCount)
	step := (max - min) / float64(yTickCount-1)
	for i := 0; i < yTickCount; i++ {
		v := min + float64(i)*step
		ticks = append(ticks, Tick{Value: v, Label: FormatValue(v)})
	}
	return ticks
}

// FormatValue renders an axis value with K/M suffixes past 1000 / 1,000,000.
func FormatValue(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 1_000_000:
		return trimZero(fmt.Sprintf("%.1f", v/1_000_000)) + "M"
	case av >= 1000:
		return trimZero(fmt.Sprintf("%.1f", v/1000)) + "K"
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return trimZero(fmt.Sprintf("%.1f", v))
	default:
		return trimZero(fmt.Sprintf("%.2f", v))
	}
}

func trimZero(s string) string {
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}

// XLabelStride returns the label sampling stride ceil(n/6) so at most ~6
// labels appear regardless of point count. Always >= 1.
func XLabelStride(n int) int {
	if n <= 6 {
		return 1
	}
	return (n + 5) / 6
}
