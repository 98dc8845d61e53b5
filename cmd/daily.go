package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/cli"
	"github.com/theirongolddev/budget/internal/model"
	"github.com/theirongolddev/budget/internal/pipeline"
)

var flagDailyDays int

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Spending per day",
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().IntVarP(&flagDailyDays, "days", "n", 14, "Number of days to show")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(_ *cobra.Command, _ []string) error {
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
	until := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.Local)
	since := until.AddDate(0, 0, -max(1, flagDailyDays))

	txns, err := st.TransactionsBetween(since, until)
	if err != nil {
		return err
	}
	days := pipeline.AggregateDays(txns, since, until)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY SPENDING  Last %dd", flagDailyDays)))
	fmt.Println()

	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{
			d.Start.Format("2006-01-02"),
			cli.FormatDayOfWeek(int(d.Start.Weekday())),
			cli.FormatNumber(int64(len(d.Transactions))),
			fmtMoney(cfg, d.Amount),
			topCategory(d.Transactions),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Txns", "Spent", "Top Category"},
		Rows:    rows,
	}))
	return nil
}

// topCategory names the largest category in txns, or "-" when empty.
func topCategory(txns []model.Transaction) string {
	stats := pipeline.AggregateCategories(txns)
	if len(stats) == 0 {
		return "-"
	}
	return categoryLabel(stats[0].Category)
}
