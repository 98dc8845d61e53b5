// Package advice generates the offline budget report: savings and expense
// ratios, the dominant category, spending changes since the previous report,
// and canned recommendations and per-category tips.
package advice

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/theirongolddev/budget/internal/model"
	"github.com/theirongolddev/budget/internal/money"
)

// Sentinel errors. Neither one touches the engine's history.
var (
	ErrInvalidIncome   = errors.New("advice: monthly income must be a positive number")
	ErrInvalidSnapshot = errors.New("advice: invalid snapshot")
)

// ChangeThreshold is the smallest absolute change reported as a trend.
// Changes of exactly this size are treated as noise.
const ChangeThreshold = 0.01

// Snapshot is the input to one report.
type Snapshot struct {
	MonthlyIncome float64
	TotalExpenses float64
	Categories    []model.CategoryTotal // iteration order decides dominant-category ties
}

// Validate reports whether the snapshot can be evaluated.
func (s Snapshot) Validate() error {
	if !finite(s.MonthlyIncome) || s.MonthlyIncome <= 0 {
		return ErrInvalidIncome
	}
	if !finite(s.TotalExpenses) || s.TotalExpenses < 0 {
		return fmt.Errorf("%w: total expenses %v", ErrInvalidSnapshot, s.TotalExpenses)
	}
	seen := make(map[string]struct{}, len(s.Categories))
	for _, c := range s.Categories {
		if strings.TrimSpace(c.Category) == "" {
			return fmt.Errorf("%w: blank category name", ErrInvalidSnapshot)
		}
		if !finite(c.Amount) || c.Amount < 0 {
			return fmt.Errorf("%w: %s amount %v", ErrInvalidSnapshot, c.Category, c.Amount)
		}
		if _, dup := seen[c.Category]; dup {
			return fmt.Errorf("%w: duplicate category %s", ErrInvalidSnapshot, c.Category)
		}
		seen[c.Category] = struct{}{}
	}
	return nil
}

// Change is the difference in one category since the previous report.
type Change struct {
	Category string  `json:"category"`
	Delta    float64 `json:"delta"`
}

// Increased reports whether spending in the category went up.
func (c Change) Increased() bool { return c.Delta > 0 }

// Report is the evaluated form of a snapshot. String renders it.
type Report struct {
	Currency        string               `json:"currency"`
	MonthlyIncome   float64              `json:"monthly_income"`
	TotalExpenses   float64              `json:"total_expenses"`
	SavingsRate     float64              `json:"savings_rate"`
	ExpenseRatio    float64              `json:"expense_ratio"`
	Dominant        *model.CategoryTotal `json:"dominant,omitempty"`
	Changes         []Change             `json:"changes,omitempty"`
	Recommendations []string             `json:"recommendations"`
	Tips            []string             `json:"tips"`
}

// Engine produces reports and remembers the category totals of the last
// one. It does no locking: callers sharing an Engine must serialize calls.
type Engine struct {
	currency   string
	previous   map[string]float64
	hasHistory bool
	lastUpdate time.Time
	now        func() time.Time
}

// NewEngine returns an engine with no history. An empty currency uses the
// default symbol.
func NewEngine(currency string) *Engine {
	if currency == "" {
		currency = model.DefaultCurrency
	}
	return &Engine{currency: currency, now: time.Now}
}

// HasHistory reports whether a previous report exists to compare against.
func (e *Engine) HasHistory() bool { return e.hasHistory }

// LastUpdated returns when history was last replaced, zero before the first report.
func (e *Engine) LastUpdated() time.Time { return e.lastUpdate }

// Generate evaluates s and returns the rendered report text.
func (e *Engine) Generate(s Snapshot) (string, error) {
	r, err := e.Evaluate(s)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// Evaluate computes the report for s and then replaces the engine's history
// with s's category totals. Invalid input returns an error and leaves the
// history unchanged.
func (e *Engine) Evaluate(s Snapshot) (Report, error) {
	if err := s.Validate(); err != nil {
		return Report{}, err
	}

	savings := SavingsRate(s.MonthlyIncome, s.TotalExpenses)
	ratio := ExpenseRatio(s.MonthlyIncome, s.TotalExpenses)
	if !finite(savings) || !finite(ratio) {
		return Report{}, fmt.Errorf("%w: expenses %v overflow income %v", ErrInvalidSnapshot, s.TotalExpenses, s.MonthlyIncome)
	}
	changes := e.changes(s.Categories)

	r := Report{
		Currency:        e.currency,
		MonthlyIncome:   s.MonthlyIncome,
		TotalExpenses:   s.TotalExpenses,
		SavingsRate:     savings,
		ExpenseRatio:    ratio,
		Dominant:        Dominant(s.Categories),
		Changes:         changes,
		Recommendations: recommendations(ratio, savings, changes),
		Tips:            categoryTips(s.Categories, changes),
	}

	prev := make(map[string]float64, len(s.Categories))
	for _, c := range s.Categories {
		prev[c.Category] = c.Amount
	}
	e.previous = prev
	e.hasHistory = true
	e.lastUpdate = e.now()

	return r, nil
}

// changes walks current categories in order and keeps those present in the
// previous report whose delta exceeds ChangeThreshold.
func (e *Engine) changes(current []model.CategoryTotal) []Change {
	if len(e.previous) == 0 {
		return nil
	}
	var out []Change
	for _, c := range current {
		before, ok := e.previous[c.Category]
		if !ok {
			continue
		}
		delta := c.Amount - before
		if significant(delta) {
			out = append(out, Change{Category: c.Category, Delta: delta})
		}
	}
	return out
}

func significant(delta float64) bool {
	return math.Abs(delta) > ChangeThreshold
}

// SavingsRate is the percent of income left unspent, floored at zero.
func SavingsRate(income, expenses float64) float64 {
	return math.Max(0, (income-expenses)/income*100)
}

// ExpenseRatio is the percent of income spent, floored at zero.
func ExpenseRatio(income, expenses float64) float64 {
	return math.Max(0, expenses/income*100)
}

// Dominant returns the largest category, the first one on ties, or nil.
func Dominant(categories []model.CategoryTotal) *model.CategoryTotal {
	if len(categories) == 0 {
		return nil
	}
	best := categories[0]
	for _, c := range categories[1:] {
		if c.Amount > best.Amount {
			best = c
		}
	}
	return &best
}

// String renders the report in its fixed section order.
func (r Report) String() string {
	var b strings.Builder

	b.WriteString("📊 Budget Analysis:\n\n")

	b.WriteString("Current Financial Status:\n")
	fmt.Fprintf(&b, "• Monthly Income: %s%s\n", r.Currency, money.Fixed2(r.MonthlyIncome))
	fmt.Fprintf(&b, "• Total Expenses: %s%s\n", r.Currency, money.Fixed2(r.TotalExpenses))
	fmt.Fprintf(&b, "• Savings Rate: %s%%\n\n", money.Fixed2(r.SavingsRate))

	b.WriteString("💡 Key Observations:\n")
	if r.Dominant != nil {
		fmt.Fprintf(&b, "• Your highest expense category is %s at %s%s\n",
			r.Dominant.Category, r.Currency, money.Fixed2(r.Dominant.Amount))
	}
	fmt.Fprintf(&b, "• You're spending %s%% of your income\n", money.Fixed2(r.ExpenseRatio))

	if len(r.Changes) > 0 {
		b.WriteString("\n📈 Recent Changes:\n")
		for _, c := range r.Changes {
			marker, verb := "✅", "decreased"
			if c.Increased() {
				marker, verb = "⚠️", "increased"
			}
			fmt.Fprintf(&b, "%s %s has %s by %s%s\n",
				marker, c.Category, verb, r.Currency, money.Fixed2(math.Abs(c.Delta)))
		}
	}

	b.WriteString("\n🎯 Recommendations:\n")
	writeLines(&b, r.Recommendations)

	b.WriteString("\n📋 Category-Specific Tips:\n")
	writeLines(&b, r.Tips)

	return b.String()
}

func writeLines(b *strings.Builder, lines []string) {
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
