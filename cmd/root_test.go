package cmd

import (
	"testing"
	"time"

	"github.com/theirongolddev/budget/internal/model"
)

func TestSelectedMonth(t *testing.T) {
	defer func() { flagMonth = "" }()

	flagMonth = "2026-02"
	m, err := selectedMonth()
	if err != nil {
		t.Fatal(err)
	}
	if m.Year() != 2026 || m.Month() != time.February {
		t.Errorf("got %v", m)
	}

	flagMonth = "February"
	if _, err := selectedMonth(); err == nil {
		t.Error("expected error for non YYYY-MM month")
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-03-09")
	if err != nil {
		t.Fatal(err)
	}
	if d.Day() != 9 || d.Month() != time.March {
		t.Errorf("got %v", d)
	}

	y, err := parseDate("yesterday")
	if err != nil {
		t.Fatal(err)
	}
	if got := time.Since(y); got < 23*time.Hour || got > 25*time.Hour+time.Minute {
		t.Errorf("yesterday is %s ago", got)
	}

	if _, err := parseDate("09/03/2026"); err == nil {
		t.Error("expected error for DD/MM/YYYY")
	}
}

func TestParseID(t *testing.T) {
	for _, bad := range []string{"", "0", "-3", "abc"} {
		if _, err := parseID(bad); err == nil {
			t.Errorf("parseID(%q) accepted", bad)
		}
	}
	if id, err := parseID("42"); err != nil || id != 42 {
		t.Errorf("parseID(42) = %d, %v", id, err)
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"AIzaSyA-1234567890abcdef", "AIzaSyA-...cdef"},
		{"short-key", "shor..."},
		{"abc", "****"},
	}
	for _, tt := range tests {
		if got := maskAPIKey(tt.in); got != tt.want {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoanDirection(t *testing.T) {
	given := model.Loan{PersonName: "Ravi", Type: model.LoanGiven}
	taken := model.Loan{PersonName: "Asha", Type: model.LoanTaken}
	if got := loanDirection(given); got != "lent to Ravi" {
		t.Errorf("given: %q", got)
	}
	if got := loanDirection(taken); got != "borrowed from Asha" {
		t.Errorf("taken: %q", got)
	}
}

func TestTopCategory(t *testing.T) {
	txns := []model.Transaction{
		{Amount: 100, Category: model.CategoryFood},
		{Amount: 300, Category: model.CategoryTravel},
		{Amount: 50, Category: model.CategoryFood},
	}
	if got, want := topCategory(txns), categoryLabel(model.CategoryTravel); got != want {
		t.Errorf("topCategory = %q, want %q", got, want)
	}
	if got := topCategory(nil); got != "-" {
		t.Errorf("empty = %q", got)
	}
}
