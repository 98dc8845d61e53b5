package charts

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/budget/internal/model"
)

var pngMagic = []byte("\x89PNG")

func TestCategoryPie(t *testing.T) {
	s := model.MonthlySummary{
		TotalExpenses: 30000,
		Categories: []model.CategoryTotal{
			{Category: "FOOD", Amount: 20000},
			{Category: "TRAVEL", Amount: 10000},
		},
	}
	img, err := CategoryPie(s)
	if err != nil {
		t.Fatalf("CategoryPie: %v", err)
	}
	if !bytes.HasPrefix(img, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestCategoryPie_Empty(t *testing.T) {
	if _, err := CategoryPie(model.MonthlySummary{}); !errors.Is(err, ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}

func TestPieValues_DropsThinSlices(t *testing.T) {
	values := pieValues([]model.CategoryTotal{
		{Category: "FOOD", Amount: 995},
		{Category: "MISC", Amount: 5},
	}, 1000)
	if len(values) != 1 {
		t.Fatalf("got %d values, want 1", len(values))
	}
	if values[0].Label != "Food 995 (99.5%)" {
		t.Errorf("label = %q", values[0].Label)
	}
}

func TestDailyBars(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	var days []model.PeriodStats
	for i := range 5 {
		days = append(days, model.PeriodStats{Start: start.AddDate(0, 0, i), Amount: float64(i * 100)})
	}
	img, err := DailyBars(days)
	if err != nil {
		t.Fatalf("DailyBars: %v", err)
	}
	if !bytes.HasPrefix(img, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestDailyBars_AllZero(t *testing.T) {
	days := []model.PeriodStats{{Start: time.Now()}, {Start: time.Now()}}
	if _, err := DailyBars(days); !errors.Is(err, ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}

func TestDayBars_OldestFirst(t *testing.T) {
	days := []model.PeriodStats{
		{Start: time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local), Amount: 30},
		{Start: time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)},
		{Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local), Amount: 10},
	}
	bars := dayBars(days)
	if len(bars) != 3 {
		t.Fatalf("got %d bars, want 3", len(bars))
	}
	if bars[0].Label != "01" || bars[2].Label != "03" {
		t.Errorf("labels = %q .. %q, want 01 .. 03", bars[0].Label, bars[2].Label)
	}
	if bars[2].Value != 30 {
		t.Errorf("last bar = %v, want 30", bars[2].Value)
	}
}
