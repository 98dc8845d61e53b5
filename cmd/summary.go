package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/cli"
	"github.com/theirongolddev/budget/internal/config"
	"github.com/theirongolddev/budget/internal/model"
	"github.com/theirongolddev/budget/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Monthly spending summary",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// loadMonth opens the store and loads the --month view.
func loadMonth(ctx context.Context) (config.Config, pipeline.MonthView, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, pipeline.MonthView{}, err
	}
	month, err := selectedMonth()
	if err != nil {
		return cfg, pipeline.MonthView{}, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return cfg, pipeline.MonthView{}, err
	}
	defer func() { _ = st.Close() }()

	v, err := pipeline.LoadMonth(ctx, st, month, cfg.General.MonthlyIncome, time.Now())
	return cfg, v, err
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, v, err := loadMonth(cmd.Context())
	if err != nil {
		return err
	}
	s := v.Summary

	fmt.Println()
	fmt.Println(cli.RenderTitle("BUDGET  " + cli.FormatMonth(s.Month)))
	fmt.Println()

	if s.Transactions == 0 && len(v.Loans) == 0 {
		fmt.Println("  No transactions this month.")
		fmt.Println("  Add one with `budget add` or import statements with `budget import`.")
		return nil
	}

	rows := [][]string{
		{"Income", fmtMoney(cfg, s.MonthlyIncome)},
		{"Expenses", fmtMoney(cfg, s.TotalExpenses)},
		{"Remaining", fmtMoney(cfg, s.MonthlyIncome-s.TotalExpenses)},
		{"Savings Rate", cli.FormatPercent(s.SavingsRate)},
		{"Budget Used", cli.FormatPercent(s.BudgetUsedPct) + "  " + cli.RenderBudgetBar(s.BudgetUsedPct, 20)},
		{"---"},
		{"Transactions", cli.FormatNumber(int64(s.Transactions))},
		{"Daily Average", fmtMoney(cfg, s.DailyAverage)},
		{"Projected", fmtMoney(cfg, s.ProjectedMonthly)},
	}
	if ls := v.LoanSummary; ls.PendingCount > 0 {
		rows = append(rows,
			[]string{"---"},
			[]string{"Lent (owed to you)", fmtMoney(cfg, ls.OutstandingGiven)},
			[]string{"Borrowed (you owe)", fmtMoney(cfg, ls.OutstandingTaken)},
		)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	stats := pipeline.AggregateCategories(v.Transactions)
	if len(stats) == 0 {
		return nil
	}

	fmt.Println()
	catRows := make([][]string, 0, len(stats))
	for _, cs := range stats {
		catRows = append(catRows, []string{
			categoryLabel(cs.Category),
			fmtMoney(cfg, cs.Amount),
			cli.FormatNumber(int64(cs.Transactions)),
			cli.FormatPercent(cs.SharePercent),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Categories",
		Headers: []string{"Category", "Amount", "Txns", "Share"},
		Rows:    catRows,
	}))

	if len(v.Days) > 1 {
		values := make([]float64, len(v.Days))
		for i, d := range v.Days {
			values[len(v.Days)-1-i] = d.Amount
		}
		fmt.Println()
		fmt.Printf("  Daily  %s\n", cli.RenderSparkline(values))
	}
	return nil
}

func categoryLabel(c model.Category) string {
	return c.Icon() + " " + c.DisplayName()
}
