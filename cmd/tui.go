package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/pipeline"
	"github.com/theirongolddev/budget/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	month, err := selectedMonth()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	// Force TrueColor so background styling always produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Config: cfg,
		Month:  month,
		Load: func(ctx context.Context, m time.Time) (pipeline.MonthView, error) {
			// Re-read so income edited in the setup form applies on refresh.
			income := cfg.General.MonthlyIncome
			if c, err := loadConfig(); err == nil {
				income = c.General.MonthlyIncome
			}
			return pipeline.LoadMonth(ctx, st, m, income, time.Now())
		},
		Advisor: newAdvisor(cfg),
		Offline: flagOffline,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
