package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/paylink/internal/auth"
	"github.com/mmynk/paylink/internal/models"
)

// Checkout is the anonymous, token-gated payment path.
// Possession of the billing's token is the only authorization it checks.
type Checkout struct {
	repo      Repository
	admission *Admission
}

// NewCheckout creates a Checkout.
func NewCheckout(repo Repository, admission *Admission) *Checkout {
	return &Checkout{repo: repo, admission: admission}
}

// resolve loads the billing and verifies the token.
// Returns models.ErrBillingNotFound or models.ErrTokenMismatch.
func (c *Checkout) resolve(ctx context.Context, id int64, token string) (*models.Billing, error) {
	b, err := c.repo.GetBilling(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.VerifyPaymentToken(b, token); err != nil {
		return nil, err
	}
	return b, nil
}

// Page returns the billing and its payments for the payment page.
func (c *Checkout) Page(ctx context.Context, id int64, token string) (Statement, error) {
	b, err := c.resolve(ctx, id, token)
	if err != nil {
		return Statement{}, err
	}
	pays, err := c.repo.ListPays(ctx, id)
	if err != nil {
		return Statement{}, fmt.Errorf("failed to load payments: %w", err)
	}
	return Statement{Billing: b, Pays: pays}, nil
}

// Submit verifies the token and hands the payment to admission.
// A settled billing yields models.ErrAlreadySettled even when amount is missing.
func (c *Checkout) Submit(ctx context.Context, id int64, token string, amount decimal.NullDecimal) (*AdmissionResult, error) {
	b, err := c.resolve(ctx, id, token)
	if err != nil {
		return nil, err
	}
	if b.Settled {
		return nil, models.ErrAlreadySettled
	}
	if !amount.Valid {
		return nil, models.NewValidationError("amount", "amount is required")
	}
	return c.admission.Admit(ctx, id, amount.Decimal)
}
