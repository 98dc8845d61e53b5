package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/cli"
	"github.com/theirongolddev/budget/internal/pipeline"
)

var flagWeeks int

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Spending per week (Monday start)",
	RunE:  runWeekly,
}

func init() {
	weeklyCmd.Flags().IntVarP(&flagWeeks, "weeks", "n", 8, "Number of weeks to show")
	rootCmd.AddCommand(weeklyCmd)
}

func runWeekly(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	now := time.Now()
	monday := time.Date(now.Year(), now.Month(), now.Day()-(int(now.Weekday())+6)%7, 0, 0, 0, 0, time.Local)
	since := monday.AddDate(0, 0, -7*(max(1, flagWeeks)-1))
	txns, err := st.TransactionsBetween(since, monday.AddDate(0, 0, 7))
	if err != nil {
		return err
	}
	weeks := pipeline.AggregateWeeks(txns)
	if len(weeks) == 0 {
		fmt.Println("\n  No transactions in the selected period.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("WEEKLY SPENDING  Last %d weeks", flagWeeks)))
	fmt.Println()

	rows := make([][]string, 0, len(weeks))
	for i, w := range weeks {
		delta := "-"
		if i+1 < len(weeks) {
			delta = cli.FormatDelta(cfg.General.Currency, w.Amount, weeks[i+1].Amount)
		}
		rows = append(rows, []string{
			cli.FormatWeek(w.Start),
			cli.FormatNumber(int64(len(w.Transactions))),
			fmtMoney(cfg, w.Amount),
			delta,
			topCategory(w.Transactions),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Week", "Txns", "Spent", "vs Prev", "Top Category"},
		Rows:    rows,
	}))
	return nil
}
