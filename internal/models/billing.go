package models

import (
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
	"github.com/shopspring/decimal"

	"github.com/mmynk/paylink/internal/calculator"
)

// Field limits for billing input.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 255
	MaxEmailLength       = 180
)

// Billing represents a requested charge.
// The amount and discount are private so that the total is always derived
// from them; use SetAmount and SetDiscount to change either.
type Billing struct {
	// ID is the numeric identifier assigned by the store. Immutable.
	ID int64

	// Name is the product or service being charged. Non-blank, at most 100 chars.
	Name string

	// Description is optional, at most 255 chars.
	Description string

	// Email is where the payment link is sent. At most 180 chars.
	Email string

	// Token is the capability credential for the anonymous payment page.
	// Assigned once at creation, never exposed in read views.
	Token string

	// OwnerID is the user who created the billing. Empty until bound.
	OwnerID string

	// Settled is false while the billing is open and true once paid in full.
	// It never reverts to false.
	Settled bool

	// Version is incremented by the store on every write and used for
	// conditional updates.
	Version int64

	// CreatedAt is the Unix timestamp when the billing was created.
	CreatedAt int64

	amount   decimal.Decimal
	discount decimal.NullDecimal
	total    decimal.Decimal
}

// NewBilling builds a validated, unsaved billing.
func NewBilling(name, description, email string, amount decimal.Decimal, discount decimal.NullDecimal) (*Billing, error) {
	b := &Billing{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Email:       strings.TrimSpace(email),
	}
	if err := b.SetAmount(amount); err != nil {
		return nil, err
	}
	if err := b.SetDiscount(discount); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// SetAmount changes the nominal charge and recomputes the total.
func (b *Billing) SetAmount(amount decimal.Decimal) error {
	if err := ValidateMoney("amount", amount); err != nil {
		return err
	}
	b.amount = amount
	b.recompute()
	return nil
}

// SetDiscount changes the discount percentage and recomputes the total.
// An invalid (null) discount means no discount.
func (b *Billing) SetDiscount(discount decimal.NullDecimal) error {
	if discount.Valid {
		if !calculator.InPercentRange(discount.Decimal) {
			return NewValidationError("discount", "discount must be between 0 and 100")
		}
		if !calculator.HasPlaces(discount.Decimal, calculator.PercentPlaces) {
			return NewValidationError("discount", "discount must have at most 6 decimal places")
		}
	}
	b.discount = discount
	b.recompute()
	return nil
}

func (b *Billing) recompute() {
	b.total = calculator.DiscountedTotal(b.amount, b.discount)
}

// Amount returns the nominal charge before discount.
func (b *Billing) Amount() decimal.Decimal { return b.amount }

// Discount returns the discount percentage, if any.
func (b *Billing) Discount() decimal.NullDecimal { return b.discount }

// Total returns amount - amount*discount/100 in cents.
func (b *Billing) Total() decimal.Decimal { return b.total }

// Paid returns the sum of the given accepted payments.
func (b *Billing) Paid(pays []Pay) decimal.Decimal {
	return calculator.Sum(payAmounts(pays)...)
}

// Pending returns total minus the sum of the given accepted payments.
// Callers decide whether to floor the result at zero.
func (b *Billing) Pending(pays []Pay) decimal.Decimal {
	return calculator.Pending(b.total, payAmounts(pays)...)
}

func payAmounts(pays []Pay) []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(pays))
	for i, p := range pays {
		amounts[i] = p.Amount
	}
	return amounts
}

// Settle marks the billing as paid. There is no inverse.
func (b *Billing) Settle() {
	b.Settled = true
}

// Validate checks the text fields. Amount and discount are checked by their setters.
func (b *Billing) Validate() error {
	if b.Name == "" {
		return NewValidationError("name", "name must not be blank")
	}
	if utf8.RuneCountInString(b.Name) > MaxNameLength {
		return NewValidationError("name", "name must be at most 100 characters")
	}
	if utf8.RuneCountInString(b.Description) > MaxDescriptionLength {
		return NewValidationError("description", "description must be at most 255 characters")
	}
	return ValidateEmail("email", b.Email)
}

// ValidateMoney checks that d is a non-negative amount in whole cents that
// fits the store.
func ValidateMoney(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return NewValidationError(field, field+" must be zero or positive")
	}
	if !calculator.HasPlaces(d, calculator.MoneyPlaces) {
		return NewValidationError(field, field+" must have at most 2 decimal places")
	}
	if !calculator.IsMoney(d) {
		return NewValidationError(field, field+" is too large")
	}
	return nil
}

// ValidateEmail checks that email is present, well formed and at most 180 chars.
func ValidateEmail(field, email string) error {
	if email == "" {
		return NewValidationError(field, "email must not be blank")
	}
	if len(email) > MaxEmailLength {
		return NewValidationError(field, "email must be at most 180 characters")
	}
	if !govalidator.IsEmail(email) {
		return NewValidationError(field, "email is not a valid address")
	}
	return nil
}
