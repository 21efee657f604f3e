package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/Infradevandops/cumapp/src/types"
)

func TestFilterWindowAllOlderThan24hYieldsEmpty(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	series := []types.SeriesPoint{
		{Label: "2024-06-01", Value: 10},
		{Label: "2024-06-05", Value: 20},
	}
	got := FilterWindow(series, types.Range24h, now)
	if len(got) != 0 {
		t.Fatalf("expected empty window, got %d points", len(got))
	}
	// and the renderer takes the no-data path from there
	svg := string(New(TypeLine, got, Options{}).SVG())
	if !strings.Contains(svg, "No data available") {
		t.Fatalf("expected no-data placeholder in SVG")
	}
}

func TestFilterWindowKeepsRecentAndDropsOld(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	series := []types.SeriesPoint{
		{Label: "2024-05-01", Value: 1},
		{Label: "2024-06-08", Value: 2},
		{Label: "2024-06-10", Value: 3},
	}
	got := FilterWindow(series, types.Range7d, now)
	if len(got) != 2 || got[0].Value != 2 || got[1].Value != 3 {
		t.Fatalf("7d window = %v", got)
	}
}

func TestFilterWindowKeepsCategoryLabels(t *testing.T) {
	now := time.Now()
	series := []types.SeriesPoint{
		{Label: "whatsapp", Value: 40},
		{Label: "telegram", Value: 25},
	}
	got := FilterWindow(series, types.Range24h, now)
	if len(got) != 2 {
		t.Fatalf("category labels must survive windowing, got %d", len(got))
	}
}

func TestParseLabelTimeLayouts(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-02", true},
		{"2024-01-02T10:30:00Z", true},
		{"2024-01-02 10:30:00", true},
		{"whatsapp", false},
		{"", false},
	}
	for _, tc := range cases {
		if _, ok := ParseLabelTime(tc.in); ok != tc.ok {
			t.Fatalf("ParseLabelTime(%q) ok=%v, want %v", tc.in, ok, tc.ok)
		}
	}
}
