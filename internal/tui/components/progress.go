package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budget/internal/tui/theme"
)

// BudgetBar renders how much of the monthly income is spent, colored by
// severity. usedPct is 0-100 and may exceed 100.
func BudgetBar(usedPct float64, width int) string {
	t := theme.Active
	color := t.ForBudget(usedPct)

	frac := max(0, min(usedPct/100, 1))
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pct := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface)
	return bar.ViewAs(frac) + space.Render(" ") + pct.Render(fmt.Sprintf("%.1f%%", usedPct))
}

// ProgressBar renders a plain loading bar for frac in [0, 1].
func ProgressBar(frac float64, width int) string {
	t := theme.Active
	filled := int(max(0, min(frac, 1)) * float64(width))

	on := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	off := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	return on.Render(strings.Repeat("█", filled)) + off.Render(strings.Repeat("░", width-filled))
}
