package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/budget/internal/model"
)

// MonthSource supplies the records behind a month view. *store.Store
// satisfies it.
type MonthSource interface {
	TransactionsBetween(start, end time.Time) ([]model.Transaction, error)
	ListLoans() ([]model.Loan, error)
}

// MonthView is everything the dashboard shows for one month.
type MonthView struct {
	Summary      model.MonthlySummary
	Transactions []model.Transaction // newest first
	Days         []model.PeriodStats // newest first, gap-filled up to today
	Loans        []model.Loan
	LoanSummary  model.LoanSummary
}

// LoadMonth reads the month containing month and every loan concurrently,
// then aggregates them. now bounds the daily series for the current month.
// Reads that have not started when ctx is done are skipped.
func LoadMonth(ctx context.Context, src MonthSource, month time.Time, income float64, now time.Time) (MonthView, error) {
	start, end := MonthBounds(month)

	var v MonthView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		txns, err := src.TransactionsBetween(start, end)
		if err != nil {
			return fmt.Errorf("loading transactions: %w", err)
		}
		v.Transactions = txns
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		loans, err := src.ListLoans()
		if err != nil {
			return fmt.Errorf("loading loans: %w", err)
		}
		v.Loans = loans
		return nil
	})
	if err := g.Wait(); err != nil {
		return MonthView{}, err
	}

	v.Summary = Summarize(v.Transactions, start, income, now)
	v.LoanSummary = SummarizeLoans(v.Loans)

	until := end
	if tomorrow := dayStart(now).AddDate(0, 0, 1); tomorrow.Before(until) {
		until = tomorrow
	}
	if until.After(start) {
		v.Days = AggregateDays(v.Transactions, start, until)
	}
	return v, nil
}
