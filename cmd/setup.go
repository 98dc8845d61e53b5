package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/config"
	"github.com/theirongolddev/budget/internal/gemini"
	"github.com/theirongolddev/budget/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	// A broken config file should not block fixing it here.
	cfg, _ := config.Load()

	vals := tui.NewSetupValues(cfg)
	if err := tui.NewSetupForm(vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled; nothing saved.")
			return nil
		}
		return err
	}
	if err := vals.Apply(&cfg); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())

	if client := newGeminiClient(cfg); client != nil {
		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()
		info, err := client.CheckKey(ctx)
		switch {
		case errors.Is(err, gemini.ErrUnauthorized):
			fmt.Println("  Gemini rejected the API key; advice will use the offline engine.")
		case err != nil:
			fmt.Printf("  Could not reach Gemini (%v); the key was saved anyway.\n", err)
		default:
			fmt.Printf("  Gemini key OK (%s)\n", info.DisplayName)
		}
	}

	fmt.Println("  Run `budget setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
