package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budget/internal/cli"
	"github.com/theirongolddev/budget/internal/model"
	"github.com/theirongolddev/budget/internal/tui/components"
	"github.com/theirongolddev/budget/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	s := a.view.Summary
	cur := a.currency()
	var b strings.Builder

	// Row 1: metric cards
	savingsColor := t.Green
	if s.SavingsRate < 10 {
		savingsColor = t.Red
	}
	metrics := []components.Metric{
		{Label: "Income", Value: cli.FormatMoney(cur, s.MonthlyIncome), Note: "monthly"},
		{
			Label: "Spent",
			Value: cli.FormatMoney(cur, s.TotalExpenses),
			Note:  fmt.Sprintf("%d transactions", s.Transactions),
			Color: t.ForBudget(s.BudgetUsedPct),
		},
		{Label: "Savings rate", Value: cli.FormatPercent(s.SavingsRate), Color: savingsColor},
		{
			Label: "Daily average",
			Value: cli.FormatMoney(cur, s.DailyAverage),
			Note:  "→ " + cli.FormatCompact(cur, s.ProjectedMonthly) + " projected",
		},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: budget usage
	inner := components.CardInnerWidth(cw)
	barW := max(10, inner-10)
	budget := components.BudgetBar(s.BudgetUsedPct, barW)
	days := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
		Render(fmt.Sprintf("day %d of %d", s.DaysElapsed, s.DaysInMonth))
	b.WriteString(components.ContentCard("Budget used", budget+"\n"+days, cw))
	b.WriteString("\n")

	// Row 3: daily spend chart + categories
	if a.isCompactLayout() {
		b.WriteString(a.renderDailyCard(cw))
		b.WriteString("\n")
		b.WriteString(a.renderCategoriesCard(cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{a.renderDailyCard(halves[0]), a.renderCategoriesCard(halves[1])}))
	}
	return b.String()
}

func (a App) renderDailyCard(w int) string {
	t := theme.Active
	days := a.view.Days
	if len(days) == 0 {
		return components.ContentCard("Daily spending", "No days yet", w)
	}

	// Days arrive newest first; charts read left to right.
	n := len(days)
	values := make([]float64, n)
	dates := make([]time.Time, n)
	for i, d := range days {
		values[n-1-i] = d.Amount
		dates[n-1-i] = d.Start
	}

	inner := components.CardInnerWidth(w)
	body := components.BarChart(values, chartDateLabels(dates), t.Blue, inner, 8) +
		"\n" + components.Sparkline(values, t.Accent)
	return components.ContentCard("Daily spending", body, w)
}

func (a App) renderCategoriesCard(w int) string {
	t := theme.Active
	s := a.view.Summary
	cur := a.currency()

	if len(s.Categories) == 0 {
		return components.ContentCard("Categories", "No spending recorded", w)
	}

	peak := 0.0
	for _, c := range s.Categories {
		peak = max(peak, c.Amount)
	}

	inner := components.CardInnerWidth(w)
	nameW := 18
	amtW := 12
	barW := max(4, inner-nameW-amtW-2)

	name := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	amount := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, c := range s.Categories {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(name.Render(padRight(categoryLabel(c.Category), nameW)))
		b.WriteString(space.Render(" "))
		b.WriteString(components.HBar(c.Amount, peak, barW, t.Accent))
		b.WriteString(space.Render(" "))
		b.WriteString(amount.Render(padLeft(cli.FormatCompact(cur, c.Amount), amtW)))
	}
	return components.ContentCard("Categories", b.String(), w)
}

func categoryLabel(name string) string {
	c, err := model.ParseCategory(name)
	if err != nil {
		return name
	}
	return c.Icon() + " " + c.DisplayName()
}

func padRight(s string, w int) string {
	s = truncStr(s, w)
	return s + strings.Repeat(" ", max(0, w-lipgloss.Width(s)))
}

func padLeft(s string, w int) string {
	s = truncStr(s, w)
	return strings.Repeat(" ", max(0, w-lipgloss.Width(s))) + s
}
