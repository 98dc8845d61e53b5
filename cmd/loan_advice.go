package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/advisor"
	"github.com/theirongolddev/budget/internal/model"
	"github.com/theirongolddev/budget/internal/money"
)

var loanAdviceCmd = &cobra.Command{
	Use:   "loan-advice <id>",
	Short: "Ask Gemini whether a loan is affordable",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoanAdvice,
}

func init() {
	rootCmd.AddCommand(loanAdviceCmd)
}

func runLoanAdvice(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	l, err := st.GetLoan(id)
	if err != nil {
		return fmt.Errorf("loan #%d: %w", id, err)
	}
	existing, err := st.OutstandingTotal(model.LoanTaken)
	if err != nil {
		return err
	}
	// Other debts only; this loan is the one being assessed.
	if l.Type == model.LoanTaken && !l.IsPaid {
		existing = max(0, money.Sub(existing, l.Amount))
	}

	fmt.Println()
	fmt.Printf("  Loan #%d  %s %s  (%s)\n", l.ID, loanDirection(l), fmtMoney(cfg, l.Amount), l.Purpose())
	fmt.Printf("  Other outstanding debt: %s\n\n", fmtMoney(cfg, existing))

	ctx, cancel := context.WithTimeout(cmd.Context(), remoteTimeout)
	defer cancel()
	text, err := newAdvisor(cfg).LoanAdvice(ctx, l.Amount, cfg.General.MonthlyIncome, existing, l.Purpose())
	printRemoteAnswer(text, err, advisor.LoanAdviceUnavailable)
	return nil
}
