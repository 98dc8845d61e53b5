package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/budget/internal/advice"
	"github.com/theirongolddev/budget/internal/advisor"
	"github.com/theirongolddev/budget/internal/config"
	"github.com/theirongolddev/budget/internal/model"
	"github.com/theirongolddev/budget/internal/pipeline"
	"github.com/theirongolddev/budget/internal/tui/components"
)

var testMonth = time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

func testView() pipeline.MonthView {
	txns := []model.Transaction{
		{ID: 3, Amount: 450, Merchant: "Swiggy", Category: model.CategoryFood, Date: testMonth},
		{ID: 2, Amount: 1200, Merchant: "Uber", Category: model.CategoryTransportation, Date: testMonth.AddDate(0, 0, -2)},
		{ID: 1, Amount: 30000, Merchant: "Landlord", Category: model.CategoryHousing, Date: testMonth.AddDate(0, 0, -10)},
	}
	loans := []model.Loan{
		{ID: 1, PersonName: "Ravi", Amount: 2000, Type: model.LoanGiven, Date: testMonth},
		{ID: 2, PersonName: "Asha", Amount: 500, Type: model.LoanTaken, Date: testMonth, IsPaid: true},
	}
	return pipeline.MonthView{
		Summary:      pipeline.Summarize(txns, testMonth, 50000, testMonth),
		Transactions: txns,
		Days:         pipeline.AggregateDays(txns, time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local), time.Date(2026, 3, 16, 0, 0, 0, 0, time.Local)),
		Loans:        loans,
		LoanSummary:  pipeline.SummarizeLoans(loans),
	}
}

// loadedApp returns an app that has received its data and a window size.
func loadedApp(t *testing.T) App {
	t.Helper()
	a := App{
		opts: Options{
			Config:  config.DefaultConfig(),
			Month:   testMonth,
			Advisor: advisor.New(nil, advice.NewEngine("₹"), nil),
			Offline: true,
		},
	}
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m, cmd := m.(App).Update(DataLoadedMsg{View: testView()})
	a = m.(App)
	if !a.loaded {
		t.Fatal("app not loaded")
	}
	if cmd == nil || !a.adviceLoading {
		t.Fatal("loading data should request advice")
	}
	return a
}

func TestDataLoaded_RequestsOfflineAdvice(t *testing.T) {
	a := loadedApp(t)

	msg := adviceCmd(a.opts.Advisor, a.view.Summary, true)()
	am, ok := msg.(AdviceMsg)
	if !ok {
		t.Fatalf("adviceCmd returned %T", msg)
	}
	if am.Err != nil {
		t.Fatalf("advice error: %v", am.Err)
	}
	if am.Result.Source != advisor.SourceOffline {
		t.Errorf("source = %s", am.Result.Source)
	}

	m, _ := a.Update(am)
	a = m.(App)
	if a.adviceLoading {
		t.Error("still loading after AdviceMsg")
	}
	a.activeTab = tabAdvice
	if !strings.Contains(a.View(), "Budget Analysis") {
		t.Error("advice tab does not show the report")
	}
}

func TestLoadError_ShownInView(t *testing.T) {
	a := App{opts: Options{Month: testMonth}}
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = m.(App).Update(DataLoadedMsg{Err: errors.New("no such table")})
	if !strings.Contains(m.(App).View(), "no such table") {
		t.Error("load error not rendered")
	}
}

func TestTabKeys(t *testing.T) {
	a := loadedApp(t)
	for _, tc := range []struct {
		key  string
		want int
	}{
		{"t", tabTransactions},
		{"l", tabLoans},
		{"a", tabAdvice},
		{"o", tabOverview},
		{"left", tabAdvice},
		{"right", tabOverview},
	} {
		m, _ := a.updateKey(tc.key)
		a = m.(App)
		if a.activeTab != tc.want {
			t.Fatalf("after %q activeTab = %d, want %d", tc.key, a.activeTab, tc.want)
		}
	}
}

func TestTransactionCursorClamps(t *testing.T) {
	a := loadedApp(t)
	a.activeTab = tabTransactions
	for range 5 {
		m, _ := a.updateKey("j")
		a = m.(App)
	}
	if a.txns.cursor != 2 {
		t.Errorf("cursor = %d, want 2", a.txns.cursor)
	}
	m, _ := a.updateKey("g")
	a = m.(App)
	if a.txns.cursor != 0 {
		t.Errorf("cursor after g = %d", a.txns.cursor)
	}
	if !strings.Contains(a.View(), "Swiggy") {
		t.Error("transactions tab does not list merchants")
	}
}

func TestViewsRenderEveryTab(t *testing.T) {
	a := loadedApp(t)
	for i := range components.Tabs {
		a.activeTab = i
		out := a.View()
		if got := strings.Count(out, "\n") + 1; got != a.height {
			t.Errorf("tab %d renders %d lines, want %d", i, got, a.height)
		}
	}
}

func TestRefreshReloads(t *testing.T) {
	calls := 0
	a := loadedApp(t)
	a.opts.Load = func(context.Context, time.Time) (pipeline.MonthView, error) {
		calls++
		return testView(), nil
	}
	m, cmd := a.updateKey("r")
	a = m.(App)
	if !a.refreshing || cmd == nil {
		t.Fatal("r should start a refresh")
	}
	msg := loadDataCmd(a.opts.Load, a.opts.Month)()
	if _, ok := msg.(DataLoadedMsg); !ok || calls != 1 {
		t.Fatalf("load not called: %T calls=%d", msg, calls)
	}
	m, _ = a.Update(msg)
	if m.(App).refreshing {
		t.Error("refreshing not cleared")
	}
}

func TestChartDateLabels(t *testing.T) {
	days := []time.Time{
		time.Date(2026, 2, 27, 0, 0, 0, 0, time.Local),
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.Local),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local),
	}
	got := chartDateLabels(days)
	want := []string{"Feb 27", "28", "Mar 1", "2"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("labels = %v, want %v", got, want)
			break
		}
	}
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	v := NewSetupValues(cfg)
	v.Income = "1,20,000"
	v.Currency = "$"
	v.APIKey = "  key  "
	v.Theme = "nope"
	if err := v.Apply(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.General.MonthlyIncome != 120000 || cfg.General.Currency != "$" || cfg.Gemini.APIKey != "key" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Errorf("unknown theme should fall back, got %q", cfg.Appearance.Theme)
	}

	for _, bad := range []string{"0", "inf", "-Inf", "NaN"} {
		v.Income = bad
		if err := v.Apply(&cfg); err == nil {
			t.Errorf("income %q accepted", bad)
		}
	}
	if cfg.General.MonthlyIncome != 120000 {
		t.Errorf("rejected income changed cfg: %v", cfg.General.MonthlyIncome)
	}
}
