package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decimal is a fixed-precision value scaled to hundredths. Averages are the
// only place fractions appear, and two digits is all the API promises, so an
// int64 of hundredths keeps accumulators exact and repeated queries over an
// unchanged snapshot byte-identical.
type Decimal struct {
	hundredths int64
}

// DecimalFromInt converts a whole stat value (points, rebounds, ...).
func DecimalFromInt(n int64) Decimal {
	return Decimal{hundredths: n * 100}
}

// DecimalFromFloat converts a value scanned from a NUMERIC column.
// Rounds half away from zero to hundredths; the column precision is at most
// two fractional digits, so this is a representation change, not a loss.
func DecimalFromFloat(f float64) Decimal {
	scaled := f * 100
	if scaled >= 0 {
		return Decimal{hundredths: int64(math.Floor(scaled + 0.5))}
	}
	return Decimal{hundredths: int64(math.Ceil(scaled - 0.5))}
}

// ParseDecimal accepts "34", "34.5" or "34.50". More than two fractional
// digits is an error rather than a silent rounding.
func ParseDecimal(s string) (Decimal, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" {
		return Decimal{}, fmt.Errorf("invalid decimal %q", s)
	}
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal %q", s)
	}
	var frac int64
	if hasFrac {
		if fracPart == "" || len(fracPart) > 2 {
			return Decimal{}, fmt.Errorf("invalid decimal %q: at most two fractional digits", s)
		}
		frac, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return Decimal{}, fmt.Errorf("invalid decimal %q", s)
		}
		if len(fracPart) == 1 {
			frac *= 10
		}
	}
	h := whole*100 + frac
	if neg {
		h = -h
	}
	return Decimal{hundredths: h}, nil
}

func (d Decimal) Add(o Decimal) Decimal {
	return Decimal{hundredths: d.hundredths + o.hundredths}
}

// Cmp returns -1, 0 or 1.
func (d Decimal) Cmp(o Decimal) int {
	switch {
	case d.hundredths < o.hundredths:
		return -1
	case d.hundredths > o.hundredths:
		return 1
	default:
		return 0
	}
}

// DivRound divides by n rounding half away from zero, still in hundredths.
// n must be positive; callers guard against empty groups before dividing.
func (d Decimal) DivRound(n int64) Decimal {
	q := d.hundredths / n
	r := d.hundredths % n
	if r*2 >= n {
		q++
	} else if -r*2 >= n {
		q--
	}
	return Decimal{hundredths: q}
}

// String renders with exactly two fractional digits, e.g. "20.00".
func (d Decimal) String() string {
	h := d.hundredths
	sign := ""
	if h < 0 {
		sign = "-"
		h = -h
	}
	return fmt.Sprintf("%s%d.%02d", sign, h/100, h%100)
}

// MarshalJSON emits a bare JSON number so clients see 20.00, not "20.00".
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}
