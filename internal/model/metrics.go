package model

import "time"

// CategoryTotal is the summed spend of one category. Slices of these keep
// first-seen order.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CategoryStats holds aggregated spend for a single category.
type CategoryStats struct {
	Category     Category
	Amount       float64
	Transactions int
	SharePercent float64
}

// MonthlySummary holds the aggregate for one calendar month.
type MonthlySummary struct {
	Month         time.Time // first day of the month, local time
	MonthlyIncome float64
	TotalExpenses float64
	Transactions  int
	Categories    []CategoryTotal

	SavingsRate      float64
	BudgetUsedPct    float64
	DailyAverage     float64
	ProjectedMonthly float64
	DaysElapsed      int
	DaysInMonth      int
}

// PeriodStats holds spend for a day, week or month bucket.
type PeriodStats struct {
	Start        time.Time
	Amount       float64
	Transactions []Transaction
}
