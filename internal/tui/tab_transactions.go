package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budget/internal/cli"
	"github.com/theirongolddev/budget/internal/model"
	"github.com/theirongolddev/budget/internal/tui/components"
	"github.com/theirongolddev/budget/internal/tui/theme"
)

func (a App) renderTransactionsTab(cw, h int) string {
	t := theme.Active
	txns := a.view.Transactions
	title := fmt.Sprintf("Transactions · %s", a.opts.Month.Format("January 2006"))

	if len(txns) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard(title, muted.Render("No transactions this month. Add one with `budget add`."), cw)
	}

	if a.isCompactLayout() {
		return components.ContentCard(title, a.transactionRows(components.CardInnerWidth(cw), h-4), cw)
	}

	widths := components.LayoutRow(cw, 3)
	listW := widths[0] + widths[1]
	list := components.ContentCard(title, a.transactionRows(components.CardInnerWidth(listW), h-4), listW)
	detail := components.ContentCard("Details", a.transactionDetail(txns[a.txns.cursor]), widths[2])
	return components.CardRow([]string{list, detail})
}

func (a App) transactionRows(inner, rows int) string {
	t := theme.Active
	txns := a.view.Transactions
	cur := a.currency()

	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selected := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)

	const dateW, amtW = 7, 13
	catW := 16
	merchW := max(8, inner-dateW-catW-amtW-3)

	format := func(date, merchant, cat, amount string) string {
		return padRight(date, dateW) + " " + padRight(merchant, merchW) + " " +
			padRight(cat, catW) + " " + padLeft(amount, amtW)
	}

	var b strings.Builder
	b.WriteString(header.Render(format("Date", "Merchant", "Category", "Amount")))

	start, end := visibleWindow(a.txns, rows-1, len(txns))
	for i := start; i < end; i++ {
		tx := txns[i]
		line := format(tx.Date.Local().Format("Jan 02"), tx.Merchant, categoryLabel(string(tx.Category)),
			cli.FormatMoney(cur, tx.Amount))
		b.WriteString("\n")
		if i == a.txns.cursor {
			b.WriteString(selected.Render(line))
		} else {
			b.WriteString(row.Render(line))
		}
	}
	return b.String()
}

func (a App) transactionDetail(tx model.Transaction) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	method := "-"
	if tx.PaymentMethod != "" {
		method = tx.PaymentMethod.DisplayName()
	}
	fields := []struct{ k, v string }{
		{"ID", fmt.Sprintf("%d", tx.ID)},
		{"Merchant", tx.Merchant},
		{"Amount", cli.FormatMoney(a.currency(), tx.Amount)},
		{"Date", cli.FormatDate(tx.Date)},
		{"Category", categoryLabel(string(tx.Category))},
		{"Payment", method},
	}
	if tx.Description != "" {
		fields = append(fields, struct{ k, v string }{"Note", tx.Description})
	}

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(label.Render(padRight(f.k, 10)))
		b.WriteString(value.Render(f.v))
	}
	return b.String()
}
