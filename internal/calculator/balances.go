package calculator

import "github.com/shopspring/decimal"

// BillingForBalance represents a billing with the minimal information needed for balance calculations.
type BillingForBalance struct {
	BillingID int64
	Total     decimal.Decimal
	Settled   bool
	Payments  []decimal.Decimal
}

// Balance summarizes the payments received across a user's billings.
type Balance struct {
	TotalPaid       decimal.Decimal // Sum of all payments, rounded for display
	Outstanding     decimal.Decimal // Sum of pending amounts over open billings, rounded for display
	BillingCount    int
	SettledBillings int
}

// CalculateBalance reduces a user's billings to a Balance.
//
// Algorithm:
//   - TotalPaid: every payment on every billing, settled or not
//   - Outstanding: for each open billing, total - paid (never below zero)
//   - Rounding happens once, after summation
func CalculateBalance(billings []BillingForBalance) Balance {
	paid := decimal.Zero
	outstanding := decimal.Zero
	settled := 0

	for _, b := range billings {
		billingPaid := Sum(b.Payments...)
		paid = paid.Add(billingPaid)

		if b.Settled {
			settled++
			continue
		}
		outstanding = outstanding.Add(FloorZero(b.Total.Sub(billingPaid)))
	}

	return Balance{
		TotalPaid:       Round(paid),
		Outstanding:     Round(outstanding),
		BillingCount:    len(billings),
		SettledBillings: settled,
	}
}
