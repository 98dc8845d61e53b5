package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budget/internal/advisor"
	"github.com/theirongolddev/budget/internal/tui/components"
	"github.com/theirongolddev/budget/internal/tui/theme"
)

func (a App) renderAdviceTab(cw, h int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	switch {
	case a.opts.Advisor == nil:
		return components.ContentCard("Advice", muted.Render("Advice is not available."), cw)
	case a.adviceLoading:
		return components.ContentCard("Advice", a.spinner.View()+muted.Render(" Thinking about your budget..."), cw)
	case a.adviceErr != nil:
		return components.ContentCard("Advice", warn.Render(a.adviceErr.Error()), cw)
	case a.advice.Text == "":
		return components.ContentCard("Advice", muted.Render("Press enter to generate advice."), cw)
	}

	title := "Advice · offline"
	if a.advice.Source == advisor.SourceRemote {
		title = "Advice · Gemini"
	}

	var b strings.Builder
	if a.advice.RemoteErr != nil {
		b.WriteString(warn.Render("Remote advice failed, showing offline report: " + a.advice.RemoteErr.Error()))
		b.WriteString("\n\n")
	}

	inner := components.CardInnerWidth(cw)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(inner)
	heading := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	lines := strings.Split(strings.TrimRight(a.advice.Text, "\n"), "\n")
	scroll := min(a.adviceScroll, max(0, len(lines)-1))
	lines = lines[scroll:]
	lines = lines[:min(len(lines), max(1, h-4))]
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		if strings.HasSuffix(l, ":") && !strings.HasPrefix(l, "•") {
			b.WriteString(heading.Render(l))
		} else {
			b.WriteString(text.Render(l))
		}
	}
	return components.ContentCard(title, b.String(), cw)
}
