package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/budget/internal/model"
)

const loanColumns = `id, person_name, amount, occurred_at, loan_type, description, is_paid, paid_at`

func validateLoan(l model.Loan) error {
	if strings.TrimSpace(l.PersonName) == "" {
		return errors.New("loan: person name is required")
	}
	if l.Amount < 0 {
		return errors.New("loan: amount must be non-negative")
	}
	if l.Type != model.LoanGiven && l.Type != model.LoanTaken {
		return fmt.Errorf("loan: unknown type %q", l.Type)
	}
	return nil
}

// AddLoan inserts l, returning the new row ID.
func (s *Store) AddLoan(l model.Loan) (int64, error) {
	if err := validateLoan(l); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(`INSERT INTO loans
		(person_name, amount, occurred_at, loan_type, description, is_paid, paid_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.PersonName, l.Amount, formatTime(l.Date), string(l.Type),
		nullString(l.Description), boolInt(l.IsPaid), formatNullTime(l.PaidDate),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting loan: %w", err)
	}
	return res.LastInsertId()
}

// UpdateLoan overwrites the row with l.ID.
func (s *Store) UpdateLoan(l model.Loan) error {
	if err := validateLoan(l); err != nil {
		return err
	}
	return affectOne(s.db.Exec(`UPDATE loans SET
		person_name = ?, amount = ?, occurred_at = ?, loan_type = ?, description = ?, is_paid = ?, paid_at = ?
		WHERE id = ?`,
		l.PersonName, l.Amount, formatTime(l.Date), string(l.Type),
		nullString(l.Description), boolInt(l.IsPaid), formatNullTime(l.PaidDate), l.ID,
	))
}

// MarkLoanPaid settles the loan with id at paidAt.
func (s *Store) MarkLoanPaid(id int64, paidAt time.Time) error {
	return affectOne(s.db.Exec("UPDATE loans SET is_paid = 1, paid_at = ? WHERE id = ?", formatTime(paidAt), id))
}

// DeleteLoan removes the row with id.
func (s *Store) DeleteLoan(id int64) error {
	return affectOne(s.db.Exec("DELETE FROM loans WHERE id = ?", id))
}

// GetLoan returns the row with id.
func (s *Store) GetLoan(id int64) (model.Loan, error) {
	l, err := scanLoan(s.db.QueryRow("SELECT "+loanColumns+" FROM loans WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return l, ErrNotFound
	}
	return l, err
}

// ListLoans returns every loan, newest first.
func (s *Store) ListLoans() ([]model.Loan, error) {
	return s.queryLoans("SELECT " + loanColumns + " FROM loans ORDER BY occurred_at DESC, id DESC")
}

// LoansByType returns loans in one direction, newest first.
func (s *Store) LoansByType(t model.LoanType) ([]model.Loan, error) {
	return s.queryLoans("SELECT "+loanColumns+" FROM loans WHERE loan_type = ? ORDER BY occurred_at DESC, id DESC", string(t))
}

// PendingLoans returns unpaid loans, newest first.
func (s *Store) PendingLoans() ([]model.Loan, error) {
	return s.queryLoans("SELECT " + loanColumns + " FROM loans WHERE is_paid = 0 ORDER BY occurred_at DESC, id DESC")
}

// OutstandingTotal sums unpaid loans of one type.
func (s *Store) OutstandingTotal(t model.LoanType) (float64, error) {
	var total float64
	err := s.db.QueryRow("SELECT COALESCE(SUM(amount), 0) FROM loans WHERE loan_type = ? AND is_paid = 0", string(t)).Scan(&total)
	return total, err
}

func (s *Store) queryLoans(query string, args ...any) ([]model.Loan, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanLoan(r scanner) (model.Loan, error) {
	var l model.Loan
	var occurred, description, paidAt sql.NullString
	var loanType string
	var isPaid int
	if err := r.Scan(&l.ID, &l.PersonName, &l.Amount, &occurred, &loanType, &description, &isPaid, &paidAt); err != nil {
		return l, err
	}
	l.Date = parseTime(occurred)
	l.Type = model.LoanType(loanType)
	l.Description = description.String
	l.IsPaid = isPaid != 0
	l.PaidDate = parseTime(paidAt)
	return l, nil
}
