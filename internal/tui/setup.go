package tui

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/budget/internal/config"
	"github.com/theirongolddev/budget/internal/tui/theme"
)

// SetupValues backs the setup form fields.
type SetupValues struct {
	Income   string
	Currency string
	APIKey   string
	Theme    string
}

// NewSetupValues pre-fills the form from cfg.
func NewSetupValues(cfg config.Config) *SetupValues {
	return &SetupValues{
		Income:   strconv.FormatFloat(cfg.General.MonthlyIncome, 'f', -1, 64),
		Currency: cfg.General.Currency,
		APIKey:   cfg.Gemini.APIKey,
		Theme:    cfg.Appearance.Theme,
	}
}

func validateIncome(s string) error {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return errors.New("enter a number, e.g. 50000")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New("enter a number, e.g. 50000")
	}
	if v <= 0 {
		return errors.New("income must be greater than zero")
	}
	return nil
}

// Apply copies the form values into cfg.
func (v *SetupValues) Apply(cfg *config.Config) error {
	if err := validateIncome(v.Income); err != nil {
		return err
	}
	income, _ := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v.Income), ",", ""), 64)
	cfg.General.MonthlyIncome = income
	if v.Currency != "" {
		cfg.General.Currency = v.Currency
	}
	cfg.Gemini.APIKey = strings.TrimSpace(v.APIKey)
	cfg.Appearance.Theme = theme.ByName(v.Theme).Name
	return nil
}

// NewSetupForm builds the first-run form. It is shared by the dashboard
// and `budget setup`.
func NewSetupForm(v *SetupValues) *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to budget").
				Description("A few settings before the dashboard opens."),
			huh.NewInput().
				Title("Monthly income").
				Description("Used for savings rate and budget usage.").
				Value(&v.Income).
				Validate(validateIncome),
			huh.NewSelect[string]().
				Title("Currency symbol").
				Options(
					huh.NewOption("₹ Rupee", "₹"),
					huh.NewOption("$ Dollar", "$"),
					huh.NewOption("€ Euro", "€"),
					huh.NewOption("£ Pound", "£"),
				).
				Value(&v.Currency),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini API key").
				Description("Optional. Without it advice comes from the offline engine.\n" +
					"The " + config.APIKeyEnv + " environment variable takes precedence.").
				EchoMode(huh.EchoModePassword).
				Value(&v.APIKey),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
		),
	).WithTheme(huh.ThemeBase16())
}
