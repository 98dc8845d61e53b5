package model

import (
	"fmt"
	"strings"
	"time"
)

// LoanType says which way the money went.
type LoanType string

// Loan directions.
const (
	LoanGiven LoanType = "GIVEN" // money lent to someone
	LoanTaken LoanType = "TAKEN" // money borrowed from someone
)

// ParseLoanType resolves "given"/"taken" case-insensitively.
func ParseLoanType(s string) (LoanType, error) {
	switch LoanType(strings.ToUpper(strings.TrimSpace(s))) {
	case LoanGiven:
		return LoanGiven, nil
	case LoanTaken:
		return LoanTaken, nil
	}
	return "", fmt.Errorf("unknown loan type %q (want given or taken)", s)
}

// Loan is money lent to or borrowed from a person.
type Loan struct {
	ID          int64
	PersonName  string
	Amount      float64
	Date        time.Time
	Type        LoanType
	Description string
	IsPaid      bool
	PaidDate    time.Time // zero until paid
}

// Purpose returns the description, or a placeholder when none was given.
func (l Loan) Purpose() string {
	if strings.TrimSpace(l.Description) == "" {
		return "Not specified"
	}
	return l.Description
}

// LoanSummary holds outstanding and settled loan totals.
type LoanSummary struct {
	OutstandingGiven float64
	OutstandingTaken float64
	SettledCount     int
	PendingCount     int
}

// NetPosition is what others owe minus what is owed to others.
func (s LoanSummary) NetPosition() float64 {
	return s.OutstandingGiven - s.OutstandingTaken
}
