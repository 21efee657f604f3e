package analytics

import (
	"math"
	"testing"

	"github.com/Infradevandops/cumapp/src/types"
)

func env(kind, day string, mut func(*types.Event)) types.Envelope {
	e := &types.Event{Kind: kind}
	if mut != nil {
		mut(e)
	}
	return types.Envelope{
		Meta:  &types.Meta{SchemaVersion: types.SchemaVersion, EventID: "id", TimestampUTC: day + "T10:00:00Z"},
		Event: e,
	}
}

func TestSummarizeGroupsByDay(t *testing.T) {
	envs := []types.Envelope{
		env("signup", "2024-06-01", nil),
		env("signup", "2024-06-01", nil),
		env("message_sent", "2024-06-01", nil),
		env("signup", "2024-06-02", nil),
		env("message_sent", "2024-06-02", nil),
		env("message_sent", "2024-06-02", nil),
	}
	sums := Summarize(envs)
	if len(sums) != 2 {
		t.Fatalf("expected 2 days, got %d", len(sums))
	}
	if sums[0].Day != "2024-06-01" || sums[1].Day != "2024-06-02" {
		t.Fatalf("day order %s,%s", sums[0].Day, sums[1].Day)
	}
	if sums[0].Signups != 2 || sums[0].MessagesSent != 1 {
		t.Fatalf("day1 rollup %+v", sums[0])
	}
	if sums[1].Signups != 1 || sums[1].MessagesSent != 2 {
		t.Fatalf("day2 rollup %+v", sums[1])
	}
}

func TestSummarizeVerificationRateAndTimings(t *testing.T) {
	envs := []types.Envelope{
		env("verification_started", "2024-06-01", nil),
		env("verification_started", "2024-06-01", nil),
		env("verification_started", "2024-06-01", nil),
		env("verification_completed", "2024-06-01", func(e *types.Event) { e.VerifySeconds = 10 }),
		env("verification_completed", "2024-06-01", func(e *types.Event) { e.VerifySeconds = 30 }),
		env("verification_failed", "2024-06-01", nil),
	}
	sums := Summarize(envs)
	if len(sums) != 1 {
		t.Fatalf("expected 1 day")
	}
	s := sums[0]
	if math.Abs(s.VerificationSuccessRatePct-66.666) > 0.1 {
		t.Fatalf("success rate %v", s.VerificationSuccessRatePct)
	}
	if s.AvgVerifySeconds != 20 {
		t.Fatalf("avg verify %v", s.AvgVerifySeconds)
	}
	if s.P95VerifySeconds != 30 {
		t.Fatalf("p95 verify %v", s.P95VerifySeconds)
	}
}

func TestSummarizeRevenueDecimal(t *testing.T) {
	envs := []types.Envelope{
		env("number_purchased", "2024-06-01", func(e *types.Event) { e.AmountUSD = "1.25" }),
		env("number_purchased", "2024-06-01", func(e *types.Event) { e.AmountUSD = "1.10" }),
	}
	sums := Summarize(envs)
	if sums[0].RevenueUSD != "2.35" {
		t.Fatalf("revenue %q, want 2.35 (no float drift)", sums[0].RevenueUSD)
	}
	if sums[0].NumbersPurchased != 2 {
		t.Fatalf("purchases %d", sums[0].NumbersPurchased)
	}
}

func TestSeriesFor(t *testing.T) {
	sums := []DailySummary{
		{Day: "2024-06-01", Signups: 3, RevenueUSD: "2.35"},
		{Day: "2024-06-02", Signups: 5},
	}
	pts, err := SeriesFor("signups", sums)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(pts) != 2 || pts[0].Label != "2024-06-01" || pts[0].Value != 3 || pts[1].Value != 5 {
		t.Fatalf("series = %v", pts)
	}
	rev, err := SeriesFor("revenue", sums)
	if err != nil {
		t.Fatalf("revenue series: %v", err)
	}
	if rev[0].Value != 2.35 || rev[1].Value != 0 {
		t.Fatalf("revenue series = %v", rev)
	}
	if _, err := SeriesFor("nope", sums); err == nil {
		t.Fatalf("unknown metric accepted")
	}
}

func TestMetricsListedMatchSeriesFor(t *testing.T) {
	for _, m := range Metrics() {
		if _, err := SeriesFor(m, nil); err != nil {
			t.Fatalf("listed metric %q rejected: %v", m, err)
		}
	}
}

func TestLoginCountryBreakdown(t *testing.T) {
	envs := []types.Envelope{
		env("login", "2024-06-01", func(e *types.Event) { e.Country = "US" }),
		env("login", "2024-06-01", func(e *types.Event) { e.Country = "US" }),
		env("login", "2024-06-01", func(e *types.Event) { e.Country = "DE" }),
		env("login", "2024-06-01", nil),
		env("signup", "2024-06-01", nil),
	}
	pts := LoginCountryBreakdown(envs)
	if len(pts) != 3 {
		t.Fatalf("breakdown = %v", pts)
	}
	// sorted labels: DE, US, unknown
	if pts[0].Label != "DE" || pts[0].Value != 1 {
		t.Fatalf("DE bucket = %v", pts[0])
	}
	if pts[1].Label != "US" || pts[1].Value != 2 {
		t.Fatalf("US bucket = %v", pts[1])
	}
	if pts[2].Label != "unknown" || pts[2].Value != 1 {
		t.Fatalf("unknown bucket = %v", pts[2])
	}
}

func TestPercentileNearestRank(t *testing.T) {
	vals := []float64{10, 20, 30, 40}
	cases := []struct {
		p    float64
		want float64
	}{
		{50, 20},
		{95, 40},
		{100, 40},
		{1, 10},
	}
	for _, tc := range cases {
		if got := percentile(vals, tc.p); got != tc.want {
			t.Fatalf("percentile(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
	if got := percentile(nil, 95); got != 0 {
		t.Fatalf("empty percentile = %v", got)
	}
}
