// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"time"

	"github.com/theirongolddev/budget/internal/money"
)

// FormatMoney formats an amount with the currency symbol and Indian digit
// grouping, always with two decimals. e.g., 123456.5 -> "₹1,23,456.50"
func FormatMoney(currency string, v float64) string {
	fixed := money.Fixed2(v)
	neg := fixed[0] == '-'
	if neg {
		fixed = fixed[1:]
	}
	intPart, frac := fixed[:len(fixed)-3], fixed[len(fixed)-2:]

	grouped := money.GroupIndian(intPart)
	if neg {
		return "-" + currency + grouped + "." + frac
	}
	return currency + grouped + "." + frac
}

// FormatCompact formats an amount without decimals for narrow columns.
// e.g., 1234567 -> "₹12.3L", 25000 -> "₹25.0K"
func FormatCompact(currency string, v float64) string {
	abs := v
	sign := ""
	if abs < 0 {
		abs = -abs
		sign = "-"
	}
	switch {
	case abs >= 10_000_000:
		return fmt.Sprintf("%s%s%.1fCr", sign, currency, abs/10_000_000)
	case abs >= 100_000:
		return fmt.Sprintf("%s%s%.1fL", sign, currency, abs/100_000)
	case abs >= 1_000:
		return fmt.Sprintf("%s%s%.1fK", sign, currency, abs/1_000)
	default:
		return fmt.Sprintf("%s%s%.0f", sign, currency, abs)
	}
}

// FormatNumber adds Indian digit grouping to an integer.
func FormatNumber(n int64) string {
	return money.Grouped(float64(n))
}

// FormatPercent formats a 0-100 percentage with one decimal.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDelta formats the change between two amounts with an explicit sign.
func FormatDelta(currency string, current, previous float64) string {
	delta := money.Sub(current, previous)
	if delta >= 0 {
		return "+" + FormatMoney(currency, delta)
	}
	return "-" + FormatMoney(currency, -delta)
}

// FormatDate formats a date as "Mar 05, 2026".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 02, 2006")
}

// FormatWeek formats a week start as "Week of Mar 16".
func FormatWeek(t time.Time) string {
	return "Week of " + t.Local().Format("Jan 02")
}

// FormatMonth formats a month as "March 2026".
func FormatMonth(t time.Time) string {
	return t.Local().Format("January 2006")
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}
