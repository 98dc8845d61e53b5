package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.General.MonthlyIncome != 50000 || cfg.General.Currency != "₹" {
		t.Errorf("defaults = %+v", cfg.General)
	}
	if cfg.Daemon.Interval().Seconds() != 30 {
		t.Errorf("interval = %v", cfg.Daemon.Interval())
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	cfg.General.MonthlyIncome = 82000
	cfg.Gemini.APIKey = "abc"
	cfg.Gemini.Model = "gemini-1.5-pro"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("perm = %v, want 0600", info.Mode().Perm())
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.General.MonthlyIncome != 82000 || got.Gemini.Model != "gemini-1.5-pro" {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"syntax":   "[general\nmonthly_income = 1",
		"income":   "[general]\nmonthly_income = 0",
		"nan":      "[general]\nmonthly_income = nan",
		"inf":      "[general]\nmonthly_income = inf",
		"negative": "[daemon]\ninterval_sec = -5",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".toml")
			if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGetGeminiAPIKey_EnvWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gemini.APIKey = "from-file"

	t.Setenv(APIKeyEnv, "")
	if got := GetGeminiAPIKey(cfg); got != "from-file" {
		t.Errorf("got %q", got)
	}
	t.Setenv(APIKeyEnv, "from-env")
	if got := GetGeminiAPIKey(cfg); got != "from-env" {
		t.Errorf("got %q", got)
	}
}

func TestDataDir(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("XDG_DATA_HOME", "/xdg")
	if got := DataDir(cfg); got != filepath.Join("/xdg", "budget") {
		t.Errorf("got %q", got)
	}
	cfg.General.DataDir = "/custom"
	if got := DataDir(cfg); got != "/custom" {
		t.Errorf("got %q", got)
	}
}
