package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/paylink/internal/billing"
	"github.com/mmynk/paylink/internal/calculator"
	"github.com/mmynk/paylink/internal/models"
	"github.com/mmynk/paylink/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Phone:       u.Phone,
		Document:    u.Document,
		CreatedAt:   u.CreatedAt,
	}
}

// displayPending floors a pending amount at zero. Pending is already in cents,
// so the value shown is the value admission accepts.
func displayPending(pending decimal.Decimal) decimal.Decimal {
	return calculator.FloorZero(pending)
}

// toAPIBilling builds the owner's read view. The token is left out.
func toAPIBilling(st billing.Statement) *api.Billing {
	b := st.Billing
	return &api.Billing{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Amount:      b.Amount(),
		Discount:    b.Discount(),
		Total:       b.Total(),
		Pending:     displayPending(st.Pending()),
		Email:       b.Email,
		Settled:     b.Settled,
		CreatedAt:   b.CreatedAt,
	}
}

func toAPIPays(pays []models.Pay) []*api.Pay {
	out := make([]*api.Pay, len(pays))
	for i, p := range pays {
		out[i] = &api.Pay{ID: p.ID, Amount: p.Amount, CreatedAt: p.CreatedAt}
	}
	return out
}

// toDraft converts request fields into a billing draft. A missing amount is
// a validation error.
func toDraft(name, description, email string, amount, discount decimal.NullDecimal) (billing.Draft, error) {
	if !amount.Valid {
		return billing.Draft{}, models.NewValidationError("amount", "amount is required")
	}
	return billing.Draft{
		Name:        name,
		Description: description,
		Email:       email,
		Amount:      amount.Decimal,
		Discount:    discount,
	}, nil
}
