package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/advice"
	"github.com/theirongolddev/budget/internal/advisor"
	"github.com/theirongolddev/budget/internal/cli"
	"github.com/theirongolddev/budget/internal/config"
	"github.com/theirongolddev/budget/internal/gemini"
	"github.com/theirongolddev/budget/internal/store"
)

var (
	flagMonth   string
	flagDataDir string
	flagQuiet   bool
	flagOffline bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "budget",
	Short: "Personal budget tracker",
	Long:  "Track expenses and loans, see where the money goes, and get budgeting advice.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// A missing .env is fine; the key may come from config or the shell.
		_ = godotenv.Load()

		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
	RunE:         runSummary,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagMonth, "month", "m", "", "Month to show, as YYYY-MM (default: current month)")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Directory holding budget.db (default: XDG data dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "Never call the remote model")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging on stderr")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	return cfg, nil
}

// openStore opens the database under the configured data directory.
func openStore(cfg config.Config) (*store.Store, error) {
	path := store.DefaultPath(config.DataDir(cfg))
	slog.Debug("opening store", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return st, nil
}

// newGeminiClient returns nil when no key is configured or --offline is set.
func newGeminiClient(cfg config.Config) *gemini.Client {
	if flagOffline {
		return nil
	}
	opts := []gemini.Option{gemini.WithTimeout(cfg.Gemini.Timeout())}
	if cfg.Gemini.Model != "" {
		opts = append(opts, gemini.WithModel(cfg.Gemini.Model))
	}
	if cfg.Gemini.BaseURL != "" {
		opts = append(opts, gemini.WithBaseURL(cfg.Gemini.BaseURL))
	}
	return gemini.NewClient(config.GetGeminiAPIKey(cfg), opts...)
}

func newAdvisor(cfg config.Config) *advisor.Advisor {
	var remote advisor.TextGenerator
	if c := newGeminiClient(cfg); c != nil {
		remote = c
	}
	return advisor.New(remote, advice.NewEngine(cfg.General.Currency), slog.Default())
}

// selectedMonth parses --month, defaulting to now.
func selectedMonth() (time.Time, error) {
	if flagMonth == "" {
		return time.Now(), nil
	}
	m, err := time.ParseInLocation("2006-01", flagMonth, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --month %q (want YYYY-MM)", flagMonth)
	}
	return m, nil
}

// parseDate accepts YYYY-MM-DD, "today" and "yesterday".
func parseDate(s string) (time.Time, error) {
	now := time.Now()
	switch s {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

func fmtMoney(cfg config.Config, v float64) string {
	return cli.FormatMoney(cfg.General.Currency, v)
}
