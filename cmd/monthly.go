package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/advice"
	"github.com/theirongolddev/budget/internal/cli"
	"github.com/theirongolddev/budget/internal/pipeline"
)

var flagMonths int

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Spending and savings rate per month",
	RunE:  runMonthly,
}

func init() {
	monthlyCmd.Flags().IntVarP(&flagMonths, "months", "n", 6, "Number of months to show")
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	start, end := pipeline.MonthBounds(time.Now())
	start = start.AddDate(0, -(max(1, flagMonths) - 1), 0)
	txns, err := st.TransactionsBetween(start, end)
	if err != nil {
		return err
	}
	months := pipeline.AggregateMonths(txns)
	if len(months) == 0 {
		fmt.Println("\n  No transactions in the selected period.")
		return nil
	}

	income := cfg.General.MonthlyIncome

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("MONTHLY SPENDING  Last %d months", flagMonths)))
	fmt.Println()

	rows := make([][]string, 0, len(months))
	for _, m := range months {
		rows = append(rows, []string{
			cli.FormatMonth(m.Start),
			cli.FormatNumber(int64(len(m.Transactions))),
			fmtMoney(cfg, m.Amount),
			cli.FormatPercent(advice.SavingsRate(income, m.Amount)),
			topCategory(m.Transactions),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Txns", "Spent", "Saved", "Top Category"},
		Rows:    rows,
	}))
	return nil
}
