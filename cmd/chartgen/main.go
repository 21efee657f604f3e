// chartgen renders one chart to a file without running the server.
//
// Two input modes:
//  1. --series points.json: a JSON (or JSONC) array of {label, value, size}
//     points rendered as-is.
//  2. --events events.jsonl --metric signups: replay an event log, summarize
//     it per day and chart one metric, the same projection the dashboard
//     endpoints serve.
//
// The output format follows the --out extension (.svg or .png).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Infradevandops/cumapp/src/analytics"
	"github.com/Infradevandops/cumapp/src/chart"
	"github.com/Infradevandops/cumapp/src/logging"
	"github.com/Infradevandops/cumapp/src/store"
	"github.com/Infradevandops/cumapp/src/types"
)

func main() {
	seriesPath := flag.String("series", "", "Path to a JSON/JSONC array of series points")
	eventsPath := flag.String("events", "", "Path to a JSONL event log to summarize")
	metric := flag.String("metric", "signups", "Metric to chart in --events mode: "+strings.Join(analytics.Metrics(), "|"))
	typeName := flag.String("type", "line", "Chart type (line|bar|pie|area|scatter)")
	title := flag.String("title", "", "Chart title (defaults to the metric name)")
	outPath := flag.String("out", "", "Output file, .svg or .png (default chart-<timestamp>.svg)")
	rangeName := flag.String("range", "", "Optional time window (24h|7d|30d|90d|1y)")
	width := flag.Int("width", 0, "Chart width in px (0 = default)")
	height := flag.Int("height", 0, "Chart height in px (0 = default)")
	logLevel := flag.String("log-level", "warn", "Log level (debug|info|warn|error)")
	flag.Parse()

	logging.SetLevel(*logLevel)

	if (*seriesPath == "") == (*eventsPath == "") {
		fmt.Fprintln(os.Stderr, "exactly one of --series or --events is required")
		os.Exit(2)
	}

	points, err := loadPoints(*seriesPath, *eventsPath, *metric)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load points: %v\n", err)
		os.Exit(1)
	}

	if *rangeName != "" {
		tr, err := types.ParseTimeRange(*rangeName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(2)
		}
		points = chart.FilterWindow(points, tr, time.Now())
	}

	typ, err := chart.ParseType(*typeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	if *title == "" && *eventsPath != "" {
		*title = *metric
	}
	if *outPath == "" {
		*outPath = chart.DefaultExportName(time.Now(), "svg")
	}

	rend := chart.New(typ, points, chart.Options{Title: *title, Width: *width, Height: *height})
	if err := writeChart(rend, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d points)\n", *outPath, len(rend.Points()))
}

func loadPoints(seriesPath, eventsPath, metric string) ([]types.SeriesPoint, error) {
	if seriesPath != "" {
		raw, err := store.StripJSONC(seriesPath)
		if err != nil {
			return nil, err
		}
		var points []types.SeriesPoint
		if err := json.Unmarshal(raw, &points); err != nil {
			return nil, fmt.Errorf("parse %s: %w", seriesPath, err)
		}
		return points, nil
	}
	sums, err := analytics.SummarizeLog(eventsPath)
	if err != nil {
		return nil, err
	}
	return analytics.SeriesFor(metric, sums)
}

func writeChart(rend *chart.Renderer, outPath string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	switch ext := strings.ToLower(filepath.Ext(outPath)); ext {
	case ".svg":
		if err := rend.ExportSVG(f); err != nil {
			return err
		}
	case ".png":
		if err := rend.ExportPNG(f); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output extension %q, want .svg or .png", ext)
	}
	return f.Sync()
}
