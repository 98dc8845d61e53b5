// Package money formats and sums currency amounts with decimal arithmetic.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Fixed2 renders v with exactly two decimals, rounding half away from zero
// on the shortest decimal representation of v. 0.125 becomes "0.13".
func Fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Sum adds amounts without accumulating binary floating point error.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	f, _ := total.Float64()
	return f
}

// Add returns a+b computed in decimal.
func Add(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Float64()
	return f
}

// Sub returns a-b computed in decimal.
func Sub(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Float64()
	return f
}

// Grouped renders v in Indian digit grouping with up to two decimals,
// e.g. 1234567.5 -> "12,34,567.5".
func Grouped(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	neg := d.IsNegative()
	d = d.Abs()

	s := d.String()
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(GroupIndian(intPart))
	if frac != "" {
		frac = strings.TrimRight(frac, "0")
		if frac != "" {
			b.WriteByte('.')
			b.WriteString(frac)
		}
	}
	return b.String()
}

// GroupIndian inserts separators into a string of digits after the last
// three and then every two, e.g. "1234567" -> "12,34,567".
func GroupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
