// Package analytics rolls the JSONL event log up into per-day summaries and
// turns those into chart series. Aggregation is recomputed from the log on
// demand; there is no incremental state to corrupt.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/Infradevandops/cumapp/src/store"
	"github.com/Infradevandops/cumapp/src/types"
	"github.com/shopspring/decimal"
)

// DailySummary captures aggregate activity for one calendar day (UTC).
type DailySummary struct {
	Day                        string  `json:"day"` // YYYY-MM-DD
	Signups                    int     `json:"signups"`
	Logins                     int     `json:"logins"`
	MessagesSent               int     `json:"messages_sent"`
	VerificationsStarted       int     `json:"verifications_started"`
	VerificationsCompleted     int     `json:"verifications_completed"`
	VerificationsFailed        int     `json:"verifications_failed"`
	VerificationSuccessRatePct float64 `json:"verification_success_rate_pct,omitempty"`
	AvgVerifySeconds           float64 `json:"avg_verify_seconds,omitempty"`
	P95VerifySeconds           float64 `json:"p95_verify_seconds,omitempty"`
	NumbersPurchased           int     `json:"numbers_purchased"`
	RevenueUSD                 string  `json:"revenue_usd,omitempty"`

	// raw values retained for cross-day aggregation, not serialized
	verifySeconds []float64
	revenue       decimal.Decimal
}

// Summarize groups envelopes by the UTC day of their meta timestamp and
// computes per-day rollups, ascending by day. Envelopes with unparseable
// timestamps are dropped (they already survived one schema check at replay).
func Summarize(envs []types.Envelope) []DailySummary {
	byDay := make(map[string]*DailySummary)
	for _, env := range envs {
		t, err := time.Parse(time.RFC3339Nano, env.Meta.TimestampUTC)
		if err != nil {
			continue
		}
		day := t.UTC().Format("2006-01-02")
		s := byDay[day]
		if s == nil {
			s = &DailySummary{Day: day}
			byDay[day] = s
		}
		switch env.Event.Kind {
		case "signup":
			s.Signups++
		case "login":
			s.Logins++
		case "message_sent":
			s.MessagesSent++
		case "verification_started":
			s.VerificationsStarted++
		case "verification_completed":
			s.VerificationsCompleted++
			if env.Event.VerifySeconds > 0 {
				s.verifySeconds = append(s.verifySeconds, env.Event.VerifySeconds)
			}
		case "verification_failed":
			s.VerificationsFailed++
		case "number_purchased":
			s.NumbersPurchased++
			if amt, err := decimal.NewFromString(env.Event.AmountUSD); err == nil {
				s.revenue = s.revenue.Add(amt)
			}
		}
	}
	out := make([]DailySummary, 0, len(byDay))
	for _, s := range byDay {
		finished := s.VerificationsCompleted + s.VerificationsFailed
		if finished > 0 {
			s.VerificationSuccessRatePct = float64(s.VerificationsCompleted) / float64(finished) * 100
		}
		s.AvgVerifySeconds = mean(s.verifySeconds)
		s.P95VerifySeconds = percentile(s.verifySeconds, 95)
		if !s.revenue.IsZero() {
			s.RevenueUSD = s.revenue.String()
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// SummarizeLog replays a JSONL event log and summarizes it.
func SummarizeLog(path string) ([]DailySummary, error) {
	var envs []types.Envelope
	err := store.ReplayEvents(path, func(env types.Envelope) error {
		envs = append(envs, env)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Summarize(envs), nil
}

// Metric tokens accepted by SeriesFor (and the charts API).
var metricNames = []string{
	"signups",
	"logins",
	"messages",
	"verifications_started",
	"verifications_completed",
	"verification_success_rate",
	"avg_verify_seconds",
	"revenue",
}

// Metrics lists the supported metric tokens.
func Metrics() []string {
	out := make([]string, len(metricNames))
	copy(out, metricNames)
	return out
}

// SeriesFor projects one metric out of the day summaries as a chart series
// (label = day, value = metric).
func SeriesFor(metric string, sums []DailySummary) ([]types.SeriesPoint, error) {
	pick := func(s DailySummary) (float64, bool) {
		switch metric {
		case "signups":
			return float64(s.Signups), true
		case "logins":
			return float64(s.Logins), true
		case "messages":
			return float64(s.MessagesSent), true
		case "verifications_started":
			return float64(s.VerificationsStarted), true
		case "verifications_completed":
			return float64(s.VerificationsCompleted), true
		case "verification_success_rate":
			return s.VerificationSuccessRatePct, true
		case "avg_verify_seconds":
			return s.AvgVerifySeconds, true
		case "revenue":
			if s.RevenueUSD == "" {
				return 0, true
			}
			d, err := decimal.NewFromString(s.RevenueUSD)
			if err != nil {
				return 0, true
			}
			f, _ := d.Float64()
			return f, true
		}
		return 0, false
	}
	if _, ok := pick(DailySummary{}); !ok {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}
	out := make([]types.SeriesPoint, 0, len(sums))
	for _, s := range sums {
		v, _ := pick(s)
		out = append(out, types.SeriesPoint{Label: s.Day, Value: v})
	}
	return out, nil
}

// LoginCountryBreakdown counts logins per GeoIP country across the whole log
// (pie chart feed). Logins with no country resolve to "unknown".
func LoginCountryBreakdown(envs []types.Envelope) []types.SeriesPoint {
	counts := make(map[string]int)
	for _, env := range envs {
		if env.Event.Kind != "login" {
			continue
		}
		c := env.Event.Country
		if c == "" {
			c = "unknown"
		}
		counts[c]++
	}
	labels := make([]string, 0, len(counts))
	for c := range counts {
		labels = append(labels, c)
	}
	sort.Strings(labels)
	out := make([]types.SeriesPoint, 0, len(labels))
	for _, c := range labels {
		out = append(out, types.SeriesPoint{Label: c, Value: float64(counts[c])})
	}
	return out
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// percentile returns the p-th percentile using nearest-rank on a sorted copy.
func percentile(vals []float64, p float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	rank := int(p/100*float64(len(sorted))+0.5) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
