package types

import (
	"testing"
	"time"
)

func TestParseTimeRange(t *testing.T) {
	cases := []struct {
		in   string
		want TimeRange
		err  bool
	}{
		{"24h", Range24h, false},
		{"7d", Range7d, false},
		{" 30D ", Range30d, false},
		{"90d", Range90d, false},
		{"1y", Range1y, false},
		{"fortnight", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseTimeRange(tc.in)
		if tc.err {
			if err == nil {
				t.Fatalf("ParseTimeRange(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseTimeRange(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestTimeRangeDuration(t *testing.T) {
	if d := Range24h.Duration(); d != 24*time.Hour {
		t.Fatalf("24h duration = %s", d)
	}
	if d := Range1y.Duration(); d != 365*24*time.Hour {
		t.Fatalf("1y duration = %s", d)
	}
}

func TestTimeRangeStringRoundTrip(t *testing.T) {
	for _, r := range []TimeRange{Range24h, Range7d, Range30d, Range90d, Range1y} {
		back, err := ParseTimeRange(r.String())
		if err != nil || back != r {
			t.Fatalf("round trip %v -> %q -> %v, %v", r, r.String(), back, err)
		}
	}
}
