// Package cmd implements the budget CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/config"
	"github.com/theirongolddev/budget/internal/gemini"
	"github.com/theirongolddev/budget/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Monthly income:  %s\n", fmtMoney(cfg, cfg.General.MonthlyIncome))
	fmt.Printf("    Currency:        %s\n", cfg.General.Currency)
	fmt.Printf("    Database:        %s\n", store.DefaultPath(config.DataDir(cfg)))
	if cfg.General.StatementsDir != "" {
		fmt.Printf("    Statements dir:  %s\n", cfg.General.StatementsDir)
	}
	fmt.Println()

	fmt.Println("  [Gemini]")
	if key := config.GetGeminiAPIKey(cfg); key != "" {
		fmt.Printf("    API key: %s\n", maskAPIKey(key))
	} else {
		fmt.Println("    API key: not configured (offline advice only)")
	}
	model := cfg.Gemini.Model
	if model == "" {
		model = gemini.DefaultModel
	}
	fmt.Printf("    Model:   %s\n", model)
	fmt.Printf("    Timeout: %s\n", cfg.Gemini.Timeout())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %s\n", cfg.Daemon.Interval())
	fmt.Println()

	fmt.Println("  Run `budget setup` to reconfigure.")
	return nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
