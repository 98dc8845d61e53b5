package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budget/internal/tui/theme"
)

// RenderStatusBar renders the bottom bar: key hints on the left and the
// data month plus refresh state on the right.
func RenderStatusBar(width int, month string, refreshing bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	left := " [?]help  [r]efresh  [q]uit"
	right := month + " "
	if refreshing {
		right = "refreshing… " + right
	}

	gap := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return style.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
