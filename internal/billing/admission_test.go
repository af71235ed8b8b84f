package billing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/paylink/internal/billing"
	"github.com/mmynk/paylink/internal/models"
)

func TestCheckAdmission(t *testing.T) {
	open, err := models.NewBilling("Shoes", "", "a@example.com", d("100"), decimal.NewNullDecimal(d("10")))
	if err != nil {
		t.Fatalf("NewBilling failed: %v", err)
	}
	settled, err := models.NewBilling("Shoes", "", "a@example.com", d("100"), decimal.NullDecimal{})
	if err != nil {
		t.Fatalf("NewBilling failed: %v", err)
	}
	settled.Settle()
	pays := []models.Pay{{Amount: d("50")}}

	tests := []struct {
		name      string
		billing   *models.Billing
		amount    string
		wantErr   error
		wantValid bool
	}{
		{name: "within pending", billing: open, amount: "40"},
		{name: "zero amount", billing: open, amount: "0"},
		{name: "exceeds pending", billing: open, amount: "40.01", wantValid: true},
		{name: "negative", billing: open, amount: "-1", wantValid: true},
		{name: "sub-cent", billing: open, amount: "0.001", wantValid: true},
		{name: "trailing zeros are whole cents", billing: open, amount: "0.100"},
		{name: "settled wins over negative", billing: settled, amount: "-1", wantErr: models.ErrAlreadySettled},
		{name: "settled", billing: settled, amount: "1", wantErr: models.ErrAlreadySettled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := billing.CheckAdmission(tt.billing, pays, d(tt.amount))
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
			case tt.wantValid:
				if !models.IsValidation(err) {
					t.Errorf("err = %v, want ValidationError", err)
				}
			default:
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestAdmit_PayInFull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "merchant@example.com")
	b := f.billing(t, owner, "100", "10")

	if !b.Total().Equal(d("90")) {
		t.Fatalf("Total = %s, want 90", b.Total())
	}

	res, err := f.admission.Admit(ctx, b.ID, d("50"))
	if err != nil {
		t.Fatalf("first Admit failed: %v", err)
	}
	if !res.Pending.Equal(d("40")) || res.Settled {
		t.Errorf("after 50: pending=%s settled=%v, want 40/false", res.Pending, res.Settled)
	}

	res, err = f.admission.Admit(ctx, b.ID, d("40"))
	if err != nil {
		t.Fatalf("second Admit failed: %v", err)
	}
	if !res.Pending.IsZero() || !res.Settled {
		t.Errorf("after 40: pending=%s settled=%v, want 0/true", res.Pending, res.Settled)
	}

	if _, err := f.admission.Admit(ctx, b.ID, d("1")); !errors.Is(err, models.ErrAlreadySettled) {
		t.Errorf("third Admit error = %v, want ErrAlreadySettled", err)
	}
	if _, err := f.admission.Admit(ctx, b.ID, d("0")); !errors.Is(err, models.ErrAlreadySettled) {
		t.Errorf("zero Admit on settled error = %v, want ErrAlreadySettled", err)
	}

	pays, err := f.store.ListPays(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListPays failed: %v", err)
	}
	if len(pays) != 2 {
		t.Errorf("expected 2 pays, got %d", len(pays))
	}

	want := []billing.Outcome{
		billing.OutcomeAccepted,
		billing.OutcomeSettled,
		billing.OutcomeAlreadySettled,
		billing.OutcomeAlreadySettled,
	}
	if len(f.outcomes) != len(want) {
		t.Fatalf("outcomes = %v, want %v", f.outcomes, want)
	}
	for i := range want {
		if f.outcomes[i] != want[i] {
			t.Errorf("outcome[%d] = %s, want %s", i, f.outcomes[i], want[i])
		}
	}
}

func TestAdmit_FractionalDiscountSettlesInCents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "merchant@example.com")
	b := f.billing(t, owner, "10", "33.333")

	if !b.Total().Equal(d("6.67")) {
		t.Fatalf("Total = %s, want 6.67", b.Total())
	}

	res, err := f.admission.Admit(ctx, b.ID, d("6.66"))
	if err != nil {
		t.Fatalf("Admit(6.66) failed: %v", err)
	}
	if !res.Pending.Equal(d("0.01")) || res.Settled {
		t.Errorf("after 6.66: pending=%s settled=%v, want 0.01/false", res.Pending, res.Settled)
	}

	res, err = f.admission.Admit(ctx, b.ID, res.Pending)
	if err != nil {
		t.Fatalf("Admit(remaining) failed: %v", err)
	}
	if !res.Pending.IsZero() || !res.Settled {
		t.Errorf("after remaining: pending=%s settled=%v, want 0/true", res.Pending, res.Settled)
	}
}

func TestAdmit_OverpaymentRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "merchant@example.com")
	b := f.billing(t, owner, "100", "10")

	_, err := f.admission.Admit(ctx, b.ID, d("95"))
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Admit error = %v, want ValidationError", err)
	}
	if ve.Field != "amount" {
		t.Errorf("Field = %s, want amount", ve.Field)
	}

	pays, err := f.store.ListPays(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListPays failed: %v", err)
	}
	if len(pays) != 0 {
		t.Errorf("expected no pays, got %d", len(pays))
	}
	got, err := f.store.GetBilling(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBilling failed: %v", err)
	}
	if got.Settled {
		t.Error("billing should remain open")
	}
}

func TestAdmit_ZeroAmountOnOpenBilling(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "merchant@example.com")
	b := f.billing(t, owner, "10", "")

	res, err := f.admission.Admit(context.Background(), b.ID, d("0"))
	if err != nil {
		t.Fatalf("Admit failed: %v", err)
	}
	if res.Settled || !res.Pending.Equal(d("10")) {
		t.Errorf("pending=%s settled=%v, want 10/false", res.Pending, res.Settled)
	}
}

func TestAdmit_UnknownBilling(t *testing.T) {
	f := newFixture(t)
	if _, err := f.admission.Admit(context.Background(), 4242, d("1")); !errors.Is(err, models.ErrBillingNotFound) {
		t.Errorf("err = %v, want ErrBillingNotFound", err)
	}
}

func TestAdmit_ConcurrentPaymentsNeverOverpay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "merchant@example.com")
	b := f.billing(t, owner, "100", "10")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.admission.Admit(ctx, b.ID, d("60"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case models.IsValidation(err):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one payment to succeed, got %d", succeeded)
	}

	pays, err := f.store.ListPays(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListPays failed: %v", err)
	}
	got, err := f.store.GetBilling(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBilling failed: %v", err)
	}
	if pending := got.Pending(pays); !pending.Equal(d("30")) {
		t.Errorf("pending = %s, want 30", pending)
	}
	if got.Settled {
		t.Error("billing should remain open")
	}
}

// noLock lets every caller through.
type noLock struct{}

func (noLock) Lock(context.Context, int64) (func(), error) { return func() {}, nil }

// racingRepo commits a competing payment just before the admission's write.
type racingRepo struct {
	billing.Repository
	raced bool
}

func (r *racingRepo) RecordPayment(ctx context.Context, b *models.Billing, pay *models.Pay) error {
	if !r.raced {
		r.raced = true
		rival, err := r.Repository.GetBilling(ctx, b.ID)
		if err != nil {
			return err
		}
		if err := r.Repository.RecordPayment(ctx, rival, &models.Pay{Amount: d("1")}); err != nil {
			return err
		}
	}
	return r.Repository.RecordPayment(ctx, b, pay)
}

func TestAdmit_LostRaceIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "merchant@example.com")
	b := f.billing(t, owner, "10", "")

	var outcomes []billing.Outcome
	repo := &racingRepo{Repository: f.store}
	adm := billing.NewAdmission(repo, noLock{}, billing.ObserverFunc(func(o billing.Outcome) {
		outcomes = append(outcomes, o)
	}), discardLogger())

	if _, err := adm.Admit(ctx, b.ID, d("5")); !errors.Is(err, models.ErrConcurrentUpdate) {
		t.Fatalf("Admit error = %v, want ErrConcurrentUpdate", err)
	}
	if len(outcomes) != 1 || outcomes[0] != billing.OutcomeConflict {
		t.Errorf("outcomes = %v, want [conflict]", outcomes)
	}

	pays, err := f.store.ListPays(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListPays failed: %v", err)
	}
	if len(pays) != 1 || !pays[0].Amount.Equal(d("1")) {
		t.Errorf("pays = %+v, want only the rival payment", pays)
	}
}
