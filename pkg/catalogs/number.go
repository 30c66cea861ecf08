package catalogs

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a decimal as exported by the local database. Both "12.5"
// and "12,5" are accepted; with both separators present the last one is the
// decimal point.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}

// ParseStock parses a stock quantity, truncating fractions toward zero and
// clamping negative values to 0.
func ParseStock(s string) (int, error) {
	f, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	return ClampStock(int(f)), nil
}

// ClampStock returns max(n, 0).
func ClampStock(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// FloatOrZero dereferences f, treating nil as 0.
func FloatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// Float returns a pointer to f.
func Float(f float64) *float64 {
	return &f
}
