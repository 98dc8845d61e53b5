package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/budget/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	got := LayoutRow(10, 3)
	want := []int{4, 3, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LayoutRow(10, 3) = %v, want %v", got, want)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)
	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("padding line %d has no ANSI background", i)
		}
	}
	for i, l := range lines {
		if lipgloss.Width(l) != 44 {
			t.Errorf("line %d width = %d, want 44", i, lipgloss.Width(l))
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Income", Value: "₹50,000.00"},
		{Label: "Spent", Value: "₹40,000.00", Note: "80.0% of income"},
		{Label: "Saved", Value: "20.0%"},
	}, 91)
	for i, l := range strings.Split(row, "\n") {
		if lipgloss.Width(l) != 91 {
			t.Errorf("line %d width = %d, want 91", i, lipgloss.Width(l))
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	for i, tab := range Tabs {
		if got := TabIdxByKey(tab.Key); got != i {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", tab.Key, got, i)
		}
	}
	if TabIdxByKey('z') != -1 {
		t.Error("unknown key should map to -1")
	}
}

func TestBarChart_Shape(t *testing.T) {
	values := []float64{100, 2500, 0, 900}
	labels := []string{"1", "2", "3", "4"}
	out := BarChart(values, labels, theme.Active.Accent, 40, 5)
	lines := strings.Split(out, "\n")
	// 5 plot rows + axis + labels
	if len(lines) != 7 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "4K") {
		t.Errorf("top axis label missing: %q", lines[0])
	}
}

func TestSample_KeepsEnds(t *testing.T) {
	values := make([]float64, 31)
	labels := make([]string, 31)
	for i := range values {
		values[i] = float64(i)
		labels[i] = string(rune('a' + i%26))
	}
	v, l := sample(values, labels, 8)
	if len(v) != 8 || v[0] != 0 || v[7] != 30 {
		t.Errorf("sample = %v", v)
	}
	if l[0] != labels[0] || l[7] != labels[30] {
		t.Errorf("labels = %v", l)
	}
}

func TestCompactLabel(t *testing.T) {
	tests := map[float64]string{
		500:        "500",
		3000:       "3K",
		2500:       "2.5K",
		150000:     "1.5L",
		20_000_000: "2Cr",
	}
	for in, want := range tests {
		if got := compactLabel(in); got != want {
			t.Errorf("compactLabel(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestBudgetBarColor(t *testing.T) {
	th := theme.FlexokiDark
	if th.ForBudget(95) != th.Red || th.ForBudget(80) != th.Orange || th.ForBudget(60) != th.Yellow || th.ForBudget(10) != th.Green {
		t.Error("ForBudget thresholds wrong")
	}
	if !strings.Contains(BudgetBar(120, 20), "120.0%") {
		t.Error("BudgetBar should print the raw percentage")
	}
}
