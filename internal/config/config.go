// Package config loads and saves the budget TOML configuration.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/budget/internal/model"
)

// APIKeyEnv overrides the configured Gemini API key.
const APIKeyEnv = "GEMINI_API_KEY"

// Config holds all budget configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Gemini     GeminiConfig     `toml:"gemini"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	MonthlyIncome float64 `toml:"monthly_income"`
	Currency      string  `toml:"currency"`
	DataDir       string  `toml:"data_dir,omitempty"`
	StatementsDir string  `toml:"statements_dir,omitempty"`
}

// GeminiConfig holds remote advice settings.
type GeminiConfig struct {
	APIKey     string `toml:"api_key,omitempty"`
	Model      string `toml:"model,omitempty"`
	BaseURL    string `toml:"base_url,omitempty"`
	TimeoutSec int    `toml:"timeout_sec,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DaemonConfig holds background service settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	IntervalSec  int    `toml:"interval_sec"`
	EventsBuffer int    `toml:"events_buffer"`

	// Origins allowed to call the HTTP API from a browser.
	AllowedOrigins []string `toml:"allowed_origins,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			MonthlyIncome: model.DefaultMonthlyIncome,
			Currency:      model.DefaultCurrency,
		},
		Gemini: GeminiConfig{
			TimeoutSec: 30,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8731",
			IntervalSec:  30,
			EventsBuffer: 200,
			AllowedOrigins: []string{
				"http://localhost:*",
				"http://127.0.0.1:*",
			},
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "budget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "budget")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the configured data directory, or the XDG data directory.
func DataDir(cfg Config) string {
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "budget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "budget")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate rejects values the rest of the program cannot work with.
func (c Config) Validate() error {
	if inc := c.General.MonthlyIncome; math.IsNaN(inc) || math.IsInf(inc, 0) || inc <= 0 {
		return fmt.Errorf("config: general.monthly_income must be positive, got %v", c.General.MonthlyIncome)
	}
	if c.Gemini.TimeoutSec < 0 {
		return fmt.Errorf("config: gemini.timeout_sec must not be negative")
	}
	if c.Daemon.IntervalSec < 0 {
		return fmt.Errorf("config: daemon.interval_sec must not be negative")
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path with owner-only permissions.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// GetGeminiAPIKey returns the API key from env var or config, in that order.
func GetGeminiAPIKey(cfg Config) string {
	if key := os.Getenv(APIKeyEnv); key != "" {
		return key
	}
	return cfg.Gemini.APIKey
}

// Timeout returns the remote request timeout.
func (g GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSec) * time.Second
}

// Interval returns the daemon poll interval.
func (d DaemonConfig) Interval() time.Duration {
	return time.Duration(d.IntervalSec) * time.Second
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
