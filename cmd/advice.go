package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/advisor"
	"github.com/theirongolddev/budget/internal/cli"
	"github.com/theirongolddev/budget/internal/config"
	"github.com/theirongolddev/budget/internal/pipeline"
)

const remoteTimeout = 60 * time.Second

var flagAdviceJSON bool

var adviceCmd = &cobra.Command{
	Use:   "advice",
	Short: "Budget advice for the month (Gemini, or offline with --offline)",
	RunE:  runAdvice,
}

func init() {
	adviceCmd.Flags().BoolVar(&flagAdviceJSON, "json", false, "Print the offline report as JSON")
	rootCmd.AddCommand(adviceCmd)
}

func runAdvice(cmd *cobra.Command, _ []string) error {
	cfg, v, err := loadMonth(cmd.Context())
	if err != nil {
		return err
	}
	snap := pipeline.Snapshot(v.Summary)
	adv := newAdvisor(cfg)

	if flagAdviceJSON {
		report, err := adv.OfflineReport(snap)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if !flagQuiet && adv.HasRemote() {
		fmt.Fprintln(os.Stderr, "  Asking Gemini...")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), remoteTimeout)
	defer cancel()
	res, err := adv.BudgetAdvice(ctx, snap)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("ADVICE  " + cli.FormatMonth(v.Summary.Month)))
	fmt.Println()
	fmt.Println(cli.RenderAdvice(res.Text))

	if res.Source == advisor.SourceOffline && !flagQuiet {
		note := "  Offline advice."
		if res.RemoteErr != nil {
			note = fmt.Sprintf("  Gemini unavailable (%v); showing offline advice.", res.RemoteErr)
		} else if !flagOffline {
			note += " Set " + config.APIKeyEnv + " or run `budget setup` for AI advice."
		}
		fmt.Fprintln(os.Stderr, cli.Muted(note))
	}
	return nil
}
