package models

import "github.com/shopspring/decimal"

// Pay represents a single accepted payment against one billing.
// Pays are append-only: once recorded they are never changed or deleted.
type Pay struct {
	// ID is the numeric identifier assigned by the store.
	ID int64

	// BillingID is the billing this payment belongs to. Required, immutable.
	BillingID int64

	// Amount is the accepted payment amount (zero or positive).
	Amount decimal.Decimal

	// CreatedAt is the Unix timestamp when the payment was accepted.
	CreatedAt int64
}
