// Package model defines domain types for budget transactions, loans and summaries.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is the closed set of expense categories.
type Category string

// Expense categories.
const (
	CategoryFood           Category = "FOOD"
	CategoryTransportation Category = "TRANSPORTATION"
	CategoryHousing        Category = "HOUSING"
	CategoryUtilities      Category = "UTILITIES"
	CategoryEntertainment  Category = "ENTERTAINMENT"
	CategoryShopping       Category = "SHOPPING"
	CategoryHealth         Category = "HEALTH"
	CategoryEducation      Category = "EDUCATION"
	CategoryTravel         Category = "TRAVEL"
	CategoryOther          Category = "OTHER"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryHousing,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryShopping,
	CategoryHealth,
	CategoryEducation,
	CategoryTravel,
	CategoryOther,
}

var categoryIcons = map[Category]string{
	CategoryFood:           "🍽️",
	CategoryTransportation: "🚗",
	CategoryHousing:        "🏠",
	CategoryUtilities:      "💡",
	CategoryEntertainment:  "🎬",
	CategoryShopping:       "🛍️",
	CategoryHealth:         "🏥",
	CategoryEducation:      "📚",
	CategoryTravel:         "✈️",
	CategoryOther:          "📌",
}

var titleCaser = cases.Title(language.English)

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := categoryIcons[c]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Icon returns the emoji shown next to the category.
func (c Category) Icon() string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return categoryIcons[CategoryOther]
}

// DisplayName returns "Transportation" for TRANSPORTATION.
func (c Category) DisplayName() string {
	return titleCaser.String(strings.ToLower(string(c)))
}

// PaymentMethod is how a transaction was paid.
type PaymentMethod string

// Payment methods.
const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentUPI        PaymentMethod = "UPI"
	PaymentNetBanking PaymentMethod = "NET_BANKING"
	PaymentWallet     PaymentMethod = "WALLET"
	PaymentPhonePe    PaymentMethod = "PHONE_PE"
	PaymentGooglePay  PaymentMethod = "GOOGLE_PAY"
	PaymentPaytm      PaymentMethod = "PAYTM"
	PaymentOthers     PaymentMethod = "OTHERS"
)

// PaymentMethods lists every payment method in display order.
var PaymentMethods = []PaymentMethod{
	PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentUPI, PaymentNetBanking,
	PaymentWallet, PaymentPhonePe, PaymentGooglePay, PaymentPaytm, PaymentOthers,
}

// ParsePaymentMethod resolves a payment method name. Empty input yields "".
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	pm := PaymentMethod(strings.ToUpper(strings.ReplaceAll(s, "-", "_")))
	for _, known := range PaymentMethods {
		if pm == known {
			return pm, nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// DisplayName returns "Credit Card" for CREDIT_CARD.
func (p PaymentMethod) DisplayName() string {
	if p == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(strings.ReplaceAll(string(p), "_", " ")))
}

// ErrInvalidTransaction is returned by Transaction.Validate.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Transaction is one recorded expense.
type Transaction struct {
	ID            int64
	ExternalID    string // bank FITID for imported rows, empty for manual entries
	Amount        float64
	Merchant      string
	Date          time.Time
	Category      Category
	PaymentMethod PaymentMethod
	Description   string
}

// Validate checks the amount and merchant constraints.
func (t Transaction) Validate() error {
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) || t.Amount < 0 {
		return fmt.Errorf("%w: amount must be a non-negative number", ErrInvalidTransaction)
	}
	if strings.TrimSpace(t.Merchant) == "" {
		return fmt.Errorf("%w: merchant is required", ErrInvalidTransaction)
	}
	if _, ok := categoryIcons[t.Category]; !ok {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidTransaction, t.Category)
	}
	return nil
}
