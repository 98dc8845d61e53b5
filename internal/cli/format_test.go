package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "₹0.00"},
		{50000, "₹50,000.00"},
		{123456.5, "₹1,23,456.50"},
		{999.995, "₹1,000.00"},
		{-2500.25, "-₹2,500.25"},
		{1e20, "₹10,00,00,00,00,00,00,00,00,000.00"},
		{-1e19, "-₹1,00,00,00,00,00,00,00,00,000.00"},
	}
	for _, tt := range tests {
		if got := FormatMoney("₹", tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{950, "₹950"},
		{25000, "₹25.0K"},
		{1234567, "₹12.3L"},
		{25_000_000, "₹2.5Cr"},
		{-1500, "-₹1.5K"},
	}
	for _, tt := range tests {
		if got := FormatCompact("₹", tt.in); got != tt.want {
			t.Errorf("FormatCompact(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta("₹", 150, 100); got != "+₹50.00" {
		t.Errorf("got %q", got)
	}
	if got := FormatDelta("₹", 100, 100.5); got != "-₹0.50" {
		t.Errorf("got %q", got)
	}
}

func TestFormatDates(t *testing.T) {
	d := time.Date(2026, 3, 5, 9, 0, 0, 0, time.Local)
	if got := FormatDate(d); got != "Mar 05, 2026" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatWeek(d); got != "Week of Mar 05" {
		t.Errorf("FormatWeek = %q", got)
	}
	if got := FormatMonth(d); got != "March 2026" {
		t.Errorf("FormatMonth = %q", got)
	}
	if got := FormatDate(time.Time{}); got != "-" {
		t.Errorf("zero date = %q", got)
	}
}

func TestRenderTable_AlignsWideRunes(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Amount"},
		Rows: [][]string{
			{"🍽️ Food", "₹1,200.00"},
			{"---"},
			{"Total", "₹1,200.00"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	want := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != want {
			t.Errorf("line %d width %d, want %d: %q", i, lipgloss.Width(l), want, l)
		}
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 5, 10}); got != "▁▄█" {
		t.Errorf("got %q", got)
	}
	if got := RenderSparkline(nil); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestRenderAdvice_KeepsText(t *testing.T) {
	in := "📊 Budget Analysis:\n\n• Food: ⚠️ x\n✅ FOOD has decreased by ₹1.00\n"
	if got := RenderAdvice(in); got != in {
		t.Errorf("with the Ascii profile styling must be a no-op, got %q", got)
	}
}
