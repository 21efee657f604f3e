package chart

import "hash/fnv"

// defaultPalette lists categorical fill colors. Assignment is by label hash,
// not input index, so a category keeps its color when data order changes
// between renders.
var defaultPalette = []string{
	"#3b82f6", // blue
	"#10b981", // green
	"#f59e0b", // amber
	"#ef4444", // red
	"#8b5cf6", // violet
	"#06b6d4", // cyan
	"#ec4899", // pink
	"#84cc16", // lime
}

// ColorFor returns the stable color for a category label.
func ColorFor(label string) string {
	h := fnv.New32a()
	h.Write([]byte(label))
	return defaultPalette[h.Sum32()%uint32(len(defaultPalette))]
}

// seriesColor is the single-series stroke used by line/area/scatter charts.
const seriesColor = "#3b82f6"

const (
	gridColor  = "#e5e7eb"
	axisColor  = "#9ca3af"
	labelColor = "#6b7280"
	titleColor = "#111827"
)
