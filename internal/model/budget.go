package model

// DefaultMonthlyIncome is used until the user configures their own figure.
const DefaultMonthlyIncome = 50000.0

// DefaultCurrency is the symbol prefixed to amounts.
const DefaultCurrency = "₹"
