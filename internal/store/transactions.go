package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/budget/internal/model"
)

const txColumns = `id, external_id, amount, merchant, occurred_at, category, payment_method, description`

// AddTransaction validates and inserts t, returning the new row ID.
func (s *Store) AddTransaction(t model.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(`INSERT INTO transactions
		(external_id, amount, merchant, occurred_at, category, payment_method, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		nullString(t.ExternalID), t.Amount, t.Merchant, formatTime(t.Date), string(t.Category),
		nullString(string(t.PaymentMethod)), nullString(t.Description), formatTime(time.Now()),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting transaction: %w", err)
	}
	return res.LastInsertId()
}

// ImportTransactions inserts imported rows in one transaction. Rows whose
// external ID already exists are skipped. Returns how many were inserted.
func (s *Store) ImportTransactions(txns []model.Transaction) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO transactions
		(external_id, amount, merchant, occurred_at, category, payment_method, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	now := formatTime(time.Now())
	inserted := 0
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("importing %s: %w", t.ExternalID, err)
		}
		res, err := stmt.Exec(nullString(t.ExternalID), t.Amount, t.Merchant, formatTime(t.Date),
			string(t.Category), nullString(string(t.PaymentMethod)), nullString(t.Description), now)
		if err != nil {
			return 0, fmt.Errorf("importing %s: %w", t.ExternalID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// UpdateTransaction overwrites the row with t.ID.
func (s *Store) UpdateTransaction(t model.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return affectOne(s.db.Exec(`UPDATE transactions SET
		amount = ?, merchant = ?, occurred_at = ?, category = ?, payment_method = ?, description = ?
		WHERE id = ?`,
		t.Amount, t.Merchant, formatTime(t.Date), string(t.Category),
		nullString(string(t.PaymentMethod)), nullString(t.Description), t.ID,
	))
}

// DeleteTransaction removes the row with id.
func (s *Store) DeleteTransaction(id int64) error {
	return affectOne(s.db.Exec("DELETE FROM transactions WHERE id = ?", id))
}

// GetTransaction returns the row with id.
func (s *Store) GetTransaction(id int64) (model.Transaction, error) {
	row := s.db.QueryRow("SELECT "+txColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrNotFound
	}
	return t, err
}

// ListTransactions returns every transaction, newest first.
func (s *Store) ListTransactions() ([]model.Transaction, error) {
	return s.queryTransactions("SELECT " + txColumns + " FROM transactions ORDER BY occurred_at DESC, id DESC")
}

// TransactionsBetween returns transactions in [start, end), newest first.
func (s *Store) TransactionsBetween(start, end time.Time) ([]model.Transaction, error) {
	return s.queryTransactions("SELECT "+txColumns+` FROM transactions
		WHERE occurred_at >= ? AND occurred_at < ?
		ORDER BY occurred_at DESC, id DESC`, formatTime(start), formatTime(end))
}

// TransactionsByCategory returns transactions in one category, newest first.
func (s *Store) TransactionsByCategory(c model.Category) ([]model.Transaction, error) {
	return s.queryTransactions("SELECT "+txColumns+` FROM transactions
		WHERE category = ? ORDER BY occurred_at DESC, id DESC`, string(c))
}

// TotalBetween sums amounts in [start, end).
func (s *Store) TotalBetween(start, end time.Time) (float64, error) {
	var total float64
	err := s.db.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE occurred_at >= ? AND occurred_at < ?`, formatTime(start), formatTime(end)).Scan(&total)
	return total, err
}

// TransactionCount returns the number of stored transactions.
func (s *Store) TransactionCount() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&n)
	return n, err
}

func (s *Store) queryTransactions(query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(r scanner) (model.Transaction, error) {
	var t model.Transaction
	var externalID, payment, description, occurred sql.NullString
	var category string
	if err := r.Scan(&t.ID, &externalID, &t.Amount, &t.Merchant, &occurred, &category, &payment, &description); err != nil {
		return t, err
	}
	t.ExternalID = externalID.String
	t.Date = parseTime(occurred)
	t.Category = model.Category(category)
	t.PaymentMethod = model.PaymentMethod(payment.String)
	t.Description = description.String
	return t, nil
}
