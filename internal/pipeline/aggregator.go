// Package pipeline aggregates transactions into summaries and imports
// bank statements into the store.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/budget/internal/advice"
	"github.com/theirongolddev/budget/internal/model"
	"github.com/theirongolddev/budget/internal/money"
)

// MonthBounds returns [first day of t's month, first day of the next month) in local time.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	t = t.Local()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0)
}

// Summarize computes the monthly summary for the month containing month.
// txns may span any range; only those inside the month are counted. now
// decides how many days of the month have elapsed.
func Summarize(txns []model.Transaction, month time.Time, income float64, now time.Time) model.MonthlySummary {
	start, end := MonthBounds(month)
	inMonth := FilterByTime(txns, start, end)

	s := model.MonthlySummary{
		Month:         start,
		MonthlyIncome: income,
		Transactions:  len(inMonth),
		Categories:    CategoryTotals(inMonth),
		DaysInMonth:   end.AddDate(0, 0, -1).Day(),
	}
	for _, c := range s.Categories {
		s.TotalExpenses = money.Add(s.TotalExpenses, c.Amount)
	}

	switch {
	case now.Before(start):
		s.DaysElapsed = 0
	case now.Before(end):
		s.DaysElapsed = now.Local().Day()
	default:
		s.DaysElapsed = s.DaysInMonth
	}

	if income > 0 {
		s.SavingsRate = advice.SavingsRate(income, s.TotalExpenses)
		s.BudgetUsedPct = s.TotalExpenses / income * 100
	}
	if s.DaysElapsed > 0 {
		s.DailyAverage = s.TotalExpenses / float64(s.DaysElapsed)
		s.ProjectedMonthly = s.DailyAverage * float64(s.DaysInMonth)
	}
	return s
}

// Snapshot converts a monthly summary into advice engine input.
func Snapshot(s model.MonthlySummary) advice.Snapshot {
	cats := make([]model.CategoryTotal, len(s.Categories))
	copy(cats, s.Categories)
	return advice.Snapshot{
		MonthlyIncome: s.MonthlyIncome,
		TotalExpenses: s.TotalExpenses,
		Categories:    cats,
	}
}

// CategoryTotals sums amounts per category, keeping the order in which
// categories first appear in txns.
func CategoryTotals(txns []model.Transaction) []model.CategoryTotal {
	idx := make(map[model.Category]int)
	var out []model.CategoryTotal
	for _, t := range txns {
		i, ok := idx[t.Category]
		if !ok {
			i = len(out)
			idx[t.Category] = i
			out = append(out, model.CategoryTotal{Category: string(t.Category)})
		}
		out[i].Amount = money.Add(out[i].Amount, t.Amount)
	}
	return out
}

// AggregateCategories computes per-category statistics, largest first.
func AggregateCategories(txns []model.Transaction) []model.CategoryStats {
	statMap := make(map[model.Category]*model.CategoryStats)
	total := 0.0
	for _, t := range txns {
		cs, ok := statMap[t.Category]
		if !ok {
			cs = &model.CategoryStats{Category: t.Category}
			statMap[t.Category] = cs
		}
		cs.Amount = money.Add(cs.Amount, t.Amount)
		cs.Transactions++
		total = money.Add(total, t.Amount)
	}

	stats := make([]model.CategoryStats, 0, len(statMap))
	for _, cs := range statMap {
		if total > 0 {
			cs.SharePercent = cs.Amount / total * 100
		}
		stats = append(stats, *cs)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Amount != stats[j].Amount {
			return stats[i].Amount > stats[j].Amount
		}
		return stats[i].Category < stats[j].Category
	})
	return stats
}

// AggregateDays buckets transactions per calendar day, most recent first.
// When since and until are set, every day in between is present so charts
// show gaps as zeros.
func AggregateDays(txns []model.Transaction, since, until time.Time) []model.PeriodStats {
	days := aggregate(FilterByTime(txns, since, until), dayStart)

	if !since.IsZero() && !until.IsZero() {
		seen := make(map[time.Time]bool, len(days))
		for _, d := range days {
			seen[d.Start] = true
		}
		last := dayStart(until.Add(-time.Nanosecond))
		for d := dayStart(since); !d.After(last); d = d.AddDate(0, 0, 1) {
			if !seen[d] {
				days = append(days, model.PeriodStats{Start: d})
			}
		}
		sortPeriods(days)
	}
	return days
}

// AggregateWeeks buckets transactions per Monday-started week, most recent first.
func AggregateWeeks(txns []model.Transaction) []model.PeriodStats {
	return aggregate(txns, weekStart)
}

// AggregateMonths buckets transactions per calendar month, most recent first.
func AggregateMonths(txns []model.Transaction) []model.PeriodStats {
	return aggregate(txns, func(t time.Time) time.Time {
		start, _ := MonthBounds(t)
		return start
	})
}

func aggregate(txns []model.Transaction, bucket func(time.Time) time.Time) []model.PeriodStats {
	periodMap := make(map[time.Time]*model.PeriodStats)
	for _, t := range txns {
		key := bucket(t.Date)
		ps, ok := periodMap[key]
		if !ok {
			ps = &model.PeriodStats{Start: key}
			periodMap[key] = ps
		}
		ps.Amount = money.Add(ps.Amount, t.Amount)
		ps.Transactions = append(ps.Transactions, t)
	}

	periods := make([]model.PeriodStats, 0, len(periodMap))
	for _, ps := range periodMap {
		periods = append(periods, *ps)
	}
	sortPeriods(periods)
	return periods
}

func sortPeriods(p []model.PeriodStats) {
	sort.Slice(p, func(i, j int) bool { return p[i].Start.After(p[j].Start) })
}

func dayStart(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func weekStart(t time.Time) time.Time {
	d := dayStart(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

// SummarizeLoans totals outstanding loans in each direction.
func SummarizeLoans(loans []model.Loan) model.LoanSummary {
	var s model.LoanSummary
	for _, l := range loans {
		if l.IsPaid {
			s.SettledCount++
			continue
		}
		s.PendingCount++
		switch l.Type {
		case model.LoanGiven:
			s.OutstandingGiven = money.Add(s.OutstandingGiven, l.Amount)
		case model.LoanTaken:
			s.OutstandingTaken = money.Add(s.OutstandingTaken, l.Amount)
		}
	}
	return s
}

// FilterByTime returns transactions dated within [since, until). Zero
// bounds are open.
func FilterByTime(txns []model.Transaction, since, until time.Time) []model.Transaction {
	if since.IsZero() && until.IsZero() {
		return txns
	}

	var result []model.Transaction
	for _, t := range txns {
		if !since.IsZero() && t.Date.Before(since) {
			continue
		}
		if !until.IsZero() && !t.Date.Before(until) {
			continue
		}
		result = append(result, t)
	}
	return result
}

// FilterByCategory returns transactions in category c. Empty c keeps all.
func FilterByCategory(txns []model.Transaction, c model.Category) []model.Transaction {
	if c == "" {
		return txns
	}
	var result []model.Transaction
	for _, t := range txns {
		if t.Category == c {
			result = append(result, t)
		}
	}
	return result
}

// FilterByMerchant returns transactions whose merchant contains substr.
func FilterByMerchant(txns []model.Transaction, substr string) []model.Transaction {
	if substr == "" {
		return txns
	}
	var result []model.Transaction
	for _, t := range txns {
		if containsIgnoreCase(t.Merchant, substr) {
			result = append(result, t)
		}
	}
	return result
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
