package query

import "testing"

func TestDecimalString(t *testing.T) {
	cases := []struct {
		in   Decimal
		want string
	}{
		{DecimalFromInt(20), "20.00"},
		{DecimalFromInt(0), "0.00"},
		{DecimalFromInt(-7), "-7.00"},
		{DecimalFromFloat(34.5), "34.50"},
		{DecimalFromFloat(12.345), "12.35"},
	}
	for _, tc := range cases {
		if got := tc.in.String(); got != tc.want {
			t.Fatalf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestDecimalDivRound(t *testing.T) {
	cases := []struct {
		sum  int64
		n    int64
		want string
	}{
		{60, 3, "20.00"},  // exact
		{77, 3, "25.67"},  // 25.666... rounds up
		{55, 2, "27.50"},  // exact half step
		{1, 3, "0.33"},    // 0.333...
		{2, 3, "0.67"},    // 0.666... half-up
		{-77, 3, "-25.67"},
	}
	for _, tc := range cases {
		got := DecimalFromInt(tc.sum).DivRound(tc.n).String()
		if got != tc.want {
			t.Fatalf("%d/%d = %s, want %s", tc.sum, tc.n, got, tc.want)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	for in, want := range map[string]string{
		"34":    "34.00",
		"34.5":  "34.50",
		"34.50": "34.50",
		"0.05":  "0.05",
		"-1.2":  "-1.20",
	} {
		d, err := ParseDecimal(in)
		if err != nil {
			t.Fatalf("ParseDecimal(%q): %v", in, err)
		}
		if d.String() != want {
			t.Fatalf("ParseDecimal(%q) = %s, want %s", in, d, want)
		}
	}
	for _, in := range []string{"", ".", "1.234", "abc", "1.x"} {
		if _, err := ParseDecimal(in); err == nil {
			t.Fatalf("ParseDecimal(%q): expected error", in)
		}
	}
}

func TestDecimalIdempotentAverage(t *testing.T) {
	// Same inputs must render the same bytes on every evaluation.
	points := []int64{10, 20, 30}
	run := func() string {
		var sum Decimal
		for _, p := range points {
			sum = sum.Add(DecimalFromInt(p))
		}
		return sum.DivRound(int64(len(points))).String()
	}
	first, second := run(), run()
	if first != "20.00" || first != second {
		t.Fatalf("average not stable: %q then %q", first, second)
	}
}
