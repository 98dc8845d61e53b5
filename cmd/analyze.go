package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/advisor"
	"github.com/theirongolddev/budget/internal/cli"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <id>",
	Short: "Ask Gemini whether an expense was necessary",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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

	t, err := st.GetTransaction(id)
	if err != nil {
		return fmt.Errorf("transaction #%d: %w", id, err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), remoteTimeout)
	defer cancel()
	text, err := newAdvisor(cfg).ExpenseAnalysis(ctx, t.Merchant, t.Amount, t.Category.DisplayName())

	fmt.Println()
	fmt.Printf("  %s  %s at %s on %s\n\n", categoryLabel(t.Category), fmtMoney(cfg, t.Amount), t.Merchant, cli.FormatDate(t.Date))
	printRemoteAnswer(text, err, advisor.ExpenseAnalysisUnavailable)
	return nil
}

// printRemoteAnswer prints text, or the canned reply when the remote model
// could not answer.
func printRemoteAnswer(text string, err error, unavailable string) {
	if err != nil {
		if !errors.Is(err, advisor.ErrRemoteUnavailable) {
			slog.Warn("remote request failed", "err", err)
		}
		fmt.Println("  " + unavailable)
		if errors.Is(err, advisor.ErrRemoteUnavailable) && !flagQuiet {
			fmt.Println(cli.Muted("  No Gemini API key configured; run `budget setup`."))
		}
		return
	}
	fmt.Println(cli.RenderAdvice(text))
}
