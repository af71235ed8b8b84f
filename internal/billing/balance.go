package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/paylink/internal/calculator"
	"github.com/mmynk/paylink/internal/models"
)

// BalanceAggregator sums the payments received on a user's billings.
// It only reads.
type BalanceAggregator struct {
	repo Repository
}

// NewBalanceAggregator creates a BalanceAggregator.
func NewBalanceAggregator(repo Repository) *BalanceAggregator {
	return &BalanceAggregator{repo: repo}
}

// Balance returns the full balance summary for principal's billings.
func (a *BalanceAggregator) Balance(ctx context.Context, principal *models.Principal) (calculator.Balance, error) {
	filter, err := OwnedBy(principal)
	if err != nil {
		return calculator.Balance{}, err
	}

	billings, err := a.repo.ListOwnedBillings(ctx, filter)
	if err != nil {
		return calculator.Balance{}, fmt.Errorf("failed to list billings: %w", err)
	}
	pays, err := a.repo.ListOwnedPays(ctx, filter)
	if err != nil {
		return calculator.Balance{}, fmt.Errorf("failed to list payments: %w", err)
	}

	byBilling := make(map[int64][]decimal.Decimal, len(billings))
	for _, p := range pays {
		byBilling[p.BillingID] = append(byBilling[p.BillingID], p.Amount)
	}

	inputs := make([]calculator.BillingForBalance, len(billings))
	for i, b := range billings {
		inputs[i] = calculator.BillingForBalance{
			BillingID: b.ID,
			Total:     b.Total(),
			Settled:   b.Settled,
			Payments:  byBilling[b.ID],
		}
	}

	return calculator.CalculateBalance(inputs), nil
}

// TotalPaid returns the sum of every payment on principal's billings, settled
// or not, rounded to two places. It is zero when there are none.
func (a *BalanceAggregator) TotalPaid(ctx context.Context, principal *models.Principal) (decimal.Decimal, error) {
	bal, err := a.Balance(ctx, principal)
	if err != nil {
		return decimal.Zero, err
	}
	return bal.TotalPaid, nil
}
