package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/budget/internal/model"
)

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.Local)
}

func tx(amount float64, c model.Category, date time.Time) model.Transaction {
	return model.Transaction{Amount: amount, Merchant: "m", Category: c, Date: date}
}

// newest first, the order the store returns
var sample = []model.Transaction{
	tx(300, model.CategoryTransportation, at(2026, 3, 20)),
	tx(0.1, model.CategoryFood, at(2026, 3, 18)),
	tx(0.2, model.CategoryFood, at(2026, 3, 16)),
	tx(1200, model.CategoryHousing, at(2026, 3, 2)),
	tx(999, model.CategoryFood, at(2026, 2, 27)),
}

func TestCategoryTotals_FirstSeenOrder(t *testing.T) {
	got := CategoryTotals(sample[:4])
	want := []model.CategoryTotal{
		{Category: "TRANSPORTATION", Amount: 300},
		{Category: "FOOD", Amount: 0.3},
		{Category: "HOUSING", Amount: 1200},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	now := at(2026, 3, 20)
	s := Summarize(sample, now, 50000, now)

	if s.Transactions != 4 {
		t.Errorf("Transactions = %d, want 4", s.Transactions)
	}
	if s.TotalExpenses != 1500.3 {
		t.Errorf("TotalExpenses = %v, want 1500.3", s.TotalExpenses)
	}
	if s.DaysInMonth != 31 || s.DaysElapsed != 20 {
		t.Errorf("days = %d/%d, want 20/31", s.DaysElapsed, s.DaysInMonth)
	}
	if math.Abs(s.SavingsRate-96.9994) > 1e-9 {
		t.Errorf("SavingsRate = %v", s.SavingsRate)
	}
	if math.Abs(s.DailyAverage-75.015) > 1e-9 {
		t.Errorf("DailyAverage = %v", s.DailyAverage)
	}
	if !s.Month.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)) {
		t.Errorf("Month = %v", s.Month)
	}

	past := Summarize(sample, at(2026, 2, 1), 50000, now)
	if past.DaysElapsed != 28 || past.TotalExpenses != 999 {
		t.Errorf("February = %+v", past)
	}

	snap := Snapshot(s)
	if snap.MonthlyIncome != 50000 || len(snap.Categories) != 3 {
		t.Errorf("Snapshot = %+v", snap)
	}
	snap.Categories[0].Amount = -1
	if s.Categories[0].Amount == -1 {
		t.Error("Snapshot must copy categories")
	}
}

func TestAggregateCategories(t *testing.T) {
	got := AggregateCategories(sample)
	if len(got) != 3 {
		t.Fatalf("got %d categories", len(got))
	}
	if got[0].Category != model.CategoryHousing || got[1].Category != model.CategoryFood {
		t.Errorf("order = %s, %s", got[0].Category, got[1].Category)
	}
	if got[1].Transactions != 3 {
		t.Errorf("food count = %d", got[1].Transactions)
	}
	sum := 0.0
	for _, c := range got {
		sum += c.SharePercent
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("shares sum to %v", sum)
	}
}

func TestAggregateDays_FillsGaps(t *testing.T) {
	since := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	until := time.Date(2026, 3, 21, 0, 0, 0, 0, time.Local)
	days := AggregateDays(sample, since, until)

	if len(days) != 6 {
		t.Fatalf("got %d days, want 6", len(days))
	}
	if !days[0].Start.Equal(time.Date(2026, 3, 20, 0, 0, 0, 0, time.Local)) {
		t.Errorf("first day = %v", days[0].Start)
	}
	if days[0].Amount != 300 || days[1].Amount != 0 || days[2].Amount != 0.1 {
		t.Errorf("amounts = %v %v %v", days[0].Amount, days[1].Amount, days[2].Amount)
	}
}

func TestAggregateWeeksAndMonths(t *testing.T) {
	weeks := AggregateWeeks(sample)
	// Mar 16 2026 is a Monday; 16, 18 and 20 share a week.
	if !weeks[0].Start.Equal(time.Date(2026, 3, 16, 0, 0, 0, 0, time.Local)) {
		t.Errorf("week start = %v", weeks[0].Start)
	}
	if len(weeks[0].Transactions) != 3 || weeks[0].Amount != 300.3 {
		t.Errorf("week = %+v", weeks[0])
	}

	months := AggregateMonths(sample)
	if len(months) != 2 || months[0].Amount != 1500.3 || months[1].Amount != 999 {
		t.Errorf("months = %+v", months)
	}
}

func TestSummarizeLoans(t *testing.T) {
	s := SummarizeLoans([]model.Loan{
		{Amount: 500, Type: model.LoanGiven},
		{Amount: 200, Type: model.LoanTaken},
		{Amount: 50, Type: model.LoanGiven, IsPaid: true},
		{Amount: 100.5, Type: model.LoanGiven},
	})
	if s.OutstandingGiven != 600.5 || s.OutstandingTaken != 200 {
		t.Errorf("outstanding = %v / %v", s.OutstandingGiven, s.OutstandingTaken)
	}
	if s.PendingCount != 3 || s.SettledCount != 1 {
		t.Errorf("counts = %d / %d", s.PendingCount, s.SettledCount)
	}
	if s.NetPosition() != 400.5 {
		t.Errorf("net = %v", s.NetPosition())
	}
}

func TestFilters(t *testing.T) {
	named := []model.Transaction{
		{Merchant: "Swiggy", Category: model.CategoryFood},
		{Merchant: "Uber", Category: model.CategoryTransportation},
	}
	if got := FilterByMerchant(named, "SWIG"); len(got) != 1 || got[0].Merchant != "Swiggy" {
		t.Errorf("FilterByMerchant = %v", got)
	}
	if got := FilterByCategory(named, model.CategoryTransportation); len(got) != 1 {
		t.Errorf("FilterByCategory = %v", got)
	}
	if got := FilterByCategory(named, ""); len(got) != 2 {
		t.Errorf("empty category should keep all")
	}
	if got := FilterByTime(sample, at(2026, 3, 1), at(2026, 3, 18)); len(got) != 2 {
		t.Errorf("FilterByTime = %d, want 2", len(got))
	}
}
