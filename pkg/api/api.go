// Package api defines the paylink.v1 wire messages.
//
// Messages are plain structs encoded as JSON by the apiconnect codec.
// Money fields are decimals and travel as JSON strings ("90.00") so no
// precision is lost in transit. Optional money fields are null when absent.
package api

import "github.com/shopspring/decimal"

// User is the public view of a merchant account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone,omitempty"`
	Document    string `json:"document,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	Phone       string `json:"phone,omitempty"`
	Document    string `json:"document,omitempty"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// Billing is the owner's read view of a billing. It never carries the
// payment token.
type Billing struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Amount      decimal.Decimal     `json:"amount"`
	Discount    decimal.NullDecimal `json:"discount"`
	Total       decimal.Decimal     `json:"total"`   // rounded to 2 places
	Pending     decimal.Decimal     `json:"pending"` // rounded to 2 places, never negative
	Email       string              `json:"email"`
	Settled     bool                `json:"settled"`
	CreatedAt   int64               `json:"created_at"`
}

// Pay is one accepted payment.
type Pay struct {
	ID        int64           `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt int64           `json:"created_at"`
}

type CreateBillingRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Amount      decimal.NullDecimal `json:"amount"`
	Discount    decimal.NullDecimal `json:"discount"`
	Email       string              `json:"email"`
}

type CreateBillingResponse struct {
	Billing *Billing `json:"billing"`
}

type GetBillingRequest struct {
	ID int64 `json:"id"`
}

type GetBillingResponse struct {
	Billing *Billing `json:"billing"`
	Pays    []*Pay   `json:"pays"`
}

type ListBillingsResponse struct {
	Billings []*Billing `json:"billings"`
}

type UpdateBillingRequest struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Amount      decimal.NullDecimal `json:"amount"`
	Discount    decimal.NullDecimal `json:"discount"`
	Email       string              `json:"email"`
}

type UpdateBillingResponse struct {
	Billing *Billing `json:"billing"`
}

// GetBalanceResponse summarizes the payments received on the caller's billings.
type GetBalanceResponse struct {
	Total        decimal.Decimal `json:"total"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	BillingCount int             `json:"billing_count"`
	SettledCount int             `json:"settled_count"`
}

type GetPaymentPageRequest struct {
	BillingID int64  `json:"billing_id"`
	Token     string `json:"token"`
}

// GetPaymentPageResponse is what an anonymous payer sees.
// SuggestedAmount prefills the payment form with the pending amount.
type GetPaymentPageResponse struct {
	BillingID       int64           `json:"billing_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Total           decimal.Decimal `json:"total"`
	Pending         decimal.Decimal `json:"pending"`
	SuggestedAmount decimal.Decimal `json:"suggested_amount"`
	Paid            bool            `json:"paid"`
}

type SubmitPaymentRequest struct {
	BillingID int64               `json:"billing_id"`
	Token     string              `json:"token"`
	Amount    decimal.NullDecimal `json:"amount"`
}

// SubmitPaymentResponse reports the accepted payment. When the billing was
// already settled AlreadyPaid is set and no payment was recorded.
type SubmitPaymentResponse struct {
	PayID       int64           `json:"pay_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Pending     decimal.Decimal `json:"pending"`
	Settled     bool            `json:"settled"`
	AlreadyPaid bool            `json:"already_paid"`
}
