package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Infradevandops/cumapp/src/analytics"
	"github.com/Infradevandops/cumapp/src/chart"
	"github.com/Infradevandops/cumapp/src/logging"
	"github.com/Infradevandops/cumapp/src/store"
	"github.com/Infradevandops/cumapp/src/types"
)

// login_countries is served alongside the per-day metrics; it feeds the pie
// on the dashboard and has no time axis, so range filtering skips it.
const countryMetric = "login_countries"

// handleChart serves /api/charts/{metric}.svg and .png. Query params:
// range (24h|7d|30d|90d|1y), type (line|bar|pie|area|scatter).
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("chart")
	defer logging.TimeTrack(time.Now(), "chart "+name)
	metric, ext, ok := splitChartName(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown chart %q, want <metric>.svg or <metric>.png", name))
		return
	}

	if !validMetric(metric) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown metric %q", metric))
		return
	}
	points, title, err := s.seriesFor(metric)
	if err != nil {
		logging.Errorf("api: load series %s: %v", metric, err)
		writeError(w, http.StatusInternalServerError, "event log replay failed")
		return
	}

	if raw := r.URL.Query().Get("range"); raw != "" && metric != countryMetric {
		tr, err := types.ParseTimeRange(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		points = chart.FilterWindow(points, tr, s.now())
	}

	typ := defaultChartType(metric)
	if raw := r.URL.Query().Get("type"); raw != "" {
		typ, err = chart.ParseType(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	rend := chart.New(typ, points, chart.Options{Title: title})
	switch ext {
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
		if _, err := w.Write(rend.SVG()); err != nil {
			logging.Warnf("api: write svg: %v", err)
		}
	case "png":
		w.Header().Set("Content-Type", "image/png")
		if err := rend.ExportPNG(w); err != nil {
			if err == chart.ErrNoData {
				writeError(w, http.StatusNotFound, "no data in the selected range")
				return
			}
			logging.Errorf("api: render png %s: %v", metric, err)
			writeError(w, http.StatusInternalServerError, "chart rendering failed")
		}
	}
}

func splitChartName(name string) (metric, ext string, ok bool) {
	for _, e := range []string{".svg", ".png"} {
		if m, found := strings.CutSuffix(name, e); found && m != "" {
			return m, e[1:], true
		}
	}
	return "", "", false
}

// seriesFor replays the event log into day summaries and projects the metric.
// A disabled or not-yet-written log yields an empty series, not an error.
func (s *Server) seriesFor(metric string) ([]types.SeriesPoint, string, error) {
	envs, err := s.loadEnvelopes()
	if err != nil {
		return nil, "", err
	}
	if metric == countryMetric {
		return analytics.LoginCountryBreakdown(envs), "Logins by country", nil
	}
	points, err := analytics.SeriesFor(metric, analytics.Summarize(envs))
	if err != nil {
		return nil, "", err
	}
	return points, metricTitle(metric), nil
}

func (s *Server) loadEnvelopes() ([]types.Envelope, error) {
	path := s.store.EventsFile()
	if path == "" {
		return nil, nil
	}
	var envs []types.Envelope
	err := store.ReplayEvents(path, func(env types.Envelope) error {
		envs = append(envs, env)
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return envs, nil
}

func validMetric(metric string) bool {
	if metric == countryMetric {
		return true
	}
	for _, m := range analytics.Metrics() {
		if m == metric {
			return true
		}
	}
	return false
}

func defaultChartType(metric string) chart.Type {
	if metric == countryMetric {
		return chart.TypePie
	}
	return chart.TypeLine
}

func metricTitle(metric string) string {
	words := strings.Split(metric, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// handleDashboard is the one HTML page: the usage charts inlined as <img>
// tags pointing back at the SVG endpoints.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n<title>CumApp dashboard</title>\n")
	b.WriteString("<style>\nbody { font-family: sans-serif; margin: 2em; background: #f8fafc; }\n")
	b.WriteString("h1 { color: #1f2937; }\nfigure { margin: 1em 0; }\n")
	b.WriteString("figcaption { color: #6b7280; font-size: 0.9em; }\n</style>\n")
	b.WriteString("</head>\n<body>\n<h1>CumApp dashboard</h1>\n")
	charts := []struct {
		metric, kind, caption string
	}{
		{"signups", "line", "New accounts per day"},
		{"verification_success_rate", "line", "Verification success rate (%)"},
		{"messages", "bar", "Messages sent per day"},
		{"revenue", "area", "Revenue (USD) per day"},
		{countryMetric, "pie", "Logins by country"},
	}
	for _, c := range charts {
		fmt.Fprintf(&b, "<figure>\n<img src=\"/api/charts/%s.svg?range=30d&type=%s\" alt=%q>\n<figcaption>%s</figcaption>\n</figure>\n",
			c.metric, c.kind, c.caption, c.caption)
	}
	b.WriteString("</body>\n</html>\n")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := fmt.Fprint(w, b.String()); err != nil {
		logging.Warnf("api: write dashboard: %v", err)
	}
}
