package chart

import (
	"time"

	"github.com/Infradevandops/cumapp/src/types"
)

// Label timestamp layouts tried in order. Date-only labels are the common case
// (analytics rollups emit YYYY-MM-DD); RFC3339 covers raw event feeds.
var labelLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseLabelTime attempts to interpret a point label as a timestamp.
func ParseLabelTime(label string) (time.Time, bool) {
	for _, layout := range labelLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FilterWindow returns the subsequence of points whose label parses to a
// timestamp at or after now minus the range. Points with non-timestamp labels
// (category breakdowns feeding pie/bar charts) are kept: a trailing time
// window is meaningless for them. now is explicit so callers control the
// clock and tests stay deterministic.
func FilterWindow(points []types.SeriesPoint, r types.TimeRange, now time.Time) []types.SeriesPoint {
	cutoff := now.Add(-r.Duration())
	out := points[:0:0]
	for _, p := range points {
		t, ok := ParseLabelTime(p.Label)
		if ok && t.Before(cutoff) {
			continue
		}
		out = append(out, p)
	}
	return out
}
