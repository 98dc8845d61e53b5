package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budget/internal/tui/theme"
)

// Tab is a single entry in the tab bar; Key is its first letter.
type Tab struct {
	Name string
	Key  rune
}

// Tabs lists the dashboard tabs in display order.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o'},
	{Name: "Transactions", Key: 't'},
	{Name: "Loans", Key: 'l'},
	{Name: "Advice", Key: 'a'},
}

func tabStyles() (active, inactive lipgloss.Style) {
	t := theme.Active
	active = lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)
	inactive = lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, 1)
	return active, inactive
}

// TabVisualWidth is the rendered cell width of one tab.
func TabVisualWidth(tab Tab, active bool) int {
	activeStyle, inactiveStyle := tabStyles()
	if active {
		return lipgloss.Width(activeStyle.Render(tab.Name))
	}
	return lipgloss.Width(inactiveStyle.Render(tab.Name))
}

// RenderTabBar renders the tab bar with the given active index, one
// separator column between tabs.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active
	activeStyle, inactiveStyle := tabStyles()
	sep := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = activeStyle.Render(tab.Name)
		} else {
			parts[i] = inactiveStyle.Render(tab.Name)
		}
	}

	row := strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

// TabIdxByKey returns the tab index for a key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
