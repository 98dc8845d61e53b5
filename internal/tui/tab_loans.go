package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budget/internal/cli"
	"github.com/theirongolddev/budget/internal/model"
	"github.com/theirongolddev/budget/internal/tui/components"
	"github.com/theirongolddev/budget/internal/tui/theme"
)

func (a App) renderLoansTab(cw, h int) string {
	t := theme.Active
	ls := a.view.LoanSummary
	cur := a.currency()

	net := ls.NetPosition()
	netColor := t.Green
	if net < 0 {
		netColor = t.Red
	}
	cards := components.MetricCardRow([]components.Metric{
		{Label: "Lent (outstanding)", Value: cli.FormatMoney(cur, ls.OutstandingGiven), Color: t.Green},
		{Label: "Borrowed (outstanding)", Value: cli.FormatMoney(cur, ls.OutstandingTaken), Color: t.Red},
		{Label: "Net position", Value: cli.FormatMoney(cur, net), Color: netColor},
		{Label: "Pending / settled", Value: cli.FormatNumber(int64(ls.PendingCount)) + " / " + cli.FormatNumber(int64(ls.SettledCount))},
	}, cw)

	loans := a.view.Loans
	if len(loans) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return cards + "\n" + components.ContentCard("Loans", muted.Render("No loans recorded."), cw)
	}

	rows := h - lipgloss.Height(cards) - 4
	return cards + "\n" + components.ContentCard("Loans", a.loanRows(components.CardInnerWidth(cw), rows), cw)
}

func (a App) loanRows(inner, rows int) string {
	t := theme.Active
	loans := a.view.Loans
	cur := a.currency()

	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	selected := lipgloss.NewStyle().Background(t.SurfaceHover).Bold(true)

	const dateW, typeW, amtW, statusW = 12, 9, 13, 12
	nameW := max(8, inner-dateW-typeW-amtW-statusW-4)
	format := func(name, kind, amount, date, status string) string {
		return padRight(name, nameW) + " " + padRight(kind, typeW) + " " + padLeft(amount, amtW) + " " +
			padRight(date, dateW) + " " + padRight(status, statusW)
	}

	var b strings.Builder
	b.WriteString(header.Render(format("Person", "Type", "Amount", "Date", "Status")))

	start, end := visibleWindow(a.loans, rows-1, len(loans))
	for i := start; i < end; i++ {
		l := loans[i]
		kind, color := "Lent", t.Green
		if l.Type == model.LoanTaken {
			kind, color = "Borrowed", t.Red
		}
		status := "Pending"
		if l.IsPaid {
			status, color = "Settled", t.TextDim
		}
		style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
		if i == a.loans.cursor {
			style = selected.Foreground(color)
		}
		b.WriteString("\n")
		b.WriteString(style.Render(format(l.PersonName, kind, cli.FormatMoney(cur, l.Amount),
			l.Date.Local().Format("Jan 02, 2006"), status)))
	}
	return b.String()
}
