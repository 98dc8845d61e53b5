package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/advisor"
	"github.com/theirongolddev/budget/internal/cli"
)

var (
	flagSavingsGoal   float64
	flagSavingsMonths int
)

var savingsCmd = &cobra.Command{
	Use:     "savings",
	Short:   "Plan for a savings goal",
	Example: `  budget savings --goal 200000 --months 12`,
	RunE:    runSavings,
}

func init() {
	savingsCmd.Flags().Float64Var(&flagSavingsGoal, "goal", 0, "Amount to save")
	savingsCmd.Flags().IntVar(&flagSavingsMonths, "months", 12, "Timeframe in months")
	_ = savingsCmd.MarkFlagRequired("goal")
	rootCmd.AddCommand(savingsCmd)
}

func runSavings(cmd *cobra.Command, _ []string) error {
	if flagSavingsGoal <= 0 {
		return errors.New("--goal must be positive")
	}
	if flagSavingsMonths <= 0 {
		return errors.New("--months must be at least 1")
	}

	cfg, v, err := loadMonth(cmd.Context())
	if err != nil {
		return err
	}
	s := v.Summary
	// Project the month so a half-finished month does not look cheap.
	expenses := max(s.TotalExpenses, s.ProjectedMonthly)
	perMonth := flagSavingsGoal / float64(flagSavingsMonths)
	surplus := s.MonthlyIncome - expenses

	fmt.Println()
	fmt.Println(cli.RenderTitle("SAVINGS GOAL"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Goal", fmtMoney(cfg, flagSavingsGoal)},
			{"Timeframe", fmt.Sprintf("%d months", flagSavingsMonths)},
			{"Needed per month", fmtMoney(cfg, perMonth)},
			{"---"},
			{"Income", fmtMoney(cfg, s.MonthlyIncome)},
			{"Expenses (projected)", fmtMoney(cfg, expenses)},
			{"Monthly surplus", fmtMoney(cfg, surplus)},
		},
	}))
	fmt.Println()

	if surplus >= perMonth {
		fmt.Println(cli.RenderAdvice("✅ At the current pace the goal is reachable."))
	} else {
		fmt.Println(cli.RenderAdvice(fmt.Sprintf("⚠️ Short by %s per month at the current pace.", fmtMoney(cfg, perMonth-surplus))))
	}
	fmt.Println()

	ctx, cancel := context.WithTimeout(cmd.Context(), remoteTimeout)
	defer cancel()
	text, err := newAdvisor(cfg).SavingsGoalAdvice(ctx, s.MonthlyIncome, expenses, flagSavingsGoal, flagSavingsMonths)
	printRemoteAnswer(text, err, advisor.SavingsAdviceUnavailable)
	return nil
}
