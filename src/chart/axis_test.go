package chart

import "testing"

func TestYTicksCountAndSpacing(t *testing.T) {
	ticks := YTicks(0, 200)
	if len(ticks) != 5 {
		t.Fatalf("expected 5 ticks, got %d", len(ticks))
	}
	for i, want := range []float64{0, 50, 100, 150, 200} {
		if ticks[i].Value != want {
			t.Fatalf("tick %d = %v, want %v", i, ticks[i].Value, want)
		}
		if ticks[i].Label == "" {
			t.Fatalf("empty label at index %d", i)
		}
	}
}

func TestYTicksCollapsedDomainWidens(t *testing.T) {
	ticks := YTicks(10, 10)
	if len(ticks) != 5 {
		t.Fatalf("expected 5 ticks, got %d", len(ticks))
	}
	if ticks[0].Value >= ticks[len(ticks)-1].Value {
		t.Fatalf("expected widened domain; got [%v,%v]", ticks[0].Value, ticks[len(ticks)-1].Value)
	}
}

func TestFormatValueSuffixes(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{7.25, "7.25"},
		{42.5, "42.5"},
		{950, "950"},
		{1000, "1K"},
		{1500, "1.5K"},
		{25_000, "25K"},
		{1_000_000, "1M"},
		{2_400_000, "2.4M"},
		{-1500, "-1.5K"},
	}
	for _, tc := range cases {
		if got := FormatValue(tc.in); got != tc.want {
			t.Fatalf("FormatValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestXLabelStride(t *testing.T) {
	cases := []struct{ n, want int }{
		{0, 1}, {1, 1}, {6, 1}, {7, 2}, {12, 2}, {13, 3}, {60, 10},
	}
	for _, tc := range cases {
		if got := XLabelStride(tc.n); got != tc.want {
			t.Fatalf("XLabelStride(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestColorForStableAcrossOrder(t *testing.T) {
	a1 := ColorFor("whatsapp")
	b1 := ColorFor("telegram")
	// same labels queried in reverse order keep their colors
	b2 := ColorFor("telegram")
	a2 := ColorFor("whatsapp")
	if a1 != a2 || b1 != b2 {
		t.Fatalf("color assignment not stable: %s/%s vs %s/%s", a1, b1, a2, b2)
	}
}
