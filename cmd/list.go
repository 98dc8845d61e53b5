package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/cli"
	"github.com/theirongolddev/budget/internal/model"
	"github.com/theirongolddev/budget/internal/money"
	"github.com/theirongolddev/budget/internal/pipeline"
)

var (
	flagListAll      bool
	flagListCategory string
	flagListMerchant string
	flagListLimit    int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses for the month",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&flagListAll, "all", false, "List every month, not just --month")
	listCmd.Flags().StringVarP(&flagListCategory, "category", "c", "", "Only this category")
	listCmd.Flags().StringVar(&flagListMerchant, "merchant", "", "Only merchants containing this text")
	listCmd.Flags().IntVarP(&flagListLimit, "limit", "n", 0, "Show at most n rows (0 = all)")
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var category model.Category
	if flagListCategory != "" {
		if category, err = model.ParseCategory(flagListCategory); err != nil {
			return err
		}
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var (
		txns  []model.Transaction
		title string
	)
	if flagListAll {
		txns, err = st.ListTransactions()
		title = "ALL EXPENSES"
	} else {
		var month time.Time
		if month, err = selectedMonth(); err != nil {
			return err
		}
		start, end := pipeline.MonthBounds(month)
		txns, err = st.TransactionsBetween(start, end)
		title = "EXPENSES  " + cli.FormatMonth(start)
	}
	if err != nil {
		return err
	}

	txns = pipeline.FilterByCategory(txns, category)
	txns = pipeline.FilterByMerchant(txns, flagListMerchant)
	if len(txns) == 0 {
		fmt.Println("\n  No matching transactions.")
		return nil
	}

	var total float64
	for _, t := range txns {
		total = money.Add(total, t.Amount)
	}
	if flagListLimit > 0 && len(txns) > flagListLimit {
		txns = txns[:flagListLimit]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	rows := make([][]string, 0, len(txns)+2)
	for _, t := range txns {
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.ID),
			t.Date.Format("2006-01-02"),
			t.Merchant,
			categoryLabel(t.Category),
			paymentLabel(t.PaymentMethod),
			fmtMoney(cfg, t.Amount),
		})
	}
	rows = append(rows, []string{"---"}, []string{"", "", "Total", "", "", fmtMoney(cfg, total)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Date", "Merchant", "Category", "Paid With", "Amount"},
		Rows:    rows,
	}))
	return nil
}

func paymentLabel(p model.PaymentMethod) string {
	if p == "" {
		return "-"
	}
	return p.DisplayName()
}
