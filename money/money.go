// Package money holds the pure currency formatting and percentage
// helpers shared by handlers and exports.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid money amount")

// FormatCurrency renders an amount with two decimals and thousands
// separators, e.g. 1234567.5 -> "1,234,567.50".
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	// Round to cents first so 999.995 groups as 1,000.00.
	cents := int64(math.Round(v * 100))
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	pre := len(digits) % 3
	if pre > 0 {
		b.WriteString(digits[:pre])
		if len(digits) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return fmt.Sprintf("%s%s.%02d", sign, b.String(), frac)
}

// ParseCurrency parses a formatted amount back to a float, accepting
// thousands separators and an optional leading sign.
func ParseCurrency(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return v, nil
}

// Percentage returns v as a percentage of total, 0 when total is 0.
func Percentage(v, total float64) float64 {
	if total == 0 {
		return 0
	}
	return v / total * 100
}
