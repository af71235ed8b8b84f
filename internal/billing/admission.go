package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/paylink/internal/models"
)

// Outcome labels an admission attempt for metrics.
type Outcome string

const (
	OutcomeAccepted       Outcome = "accepted"
	OutcomeSettled        Outcome = "settled"
	OutcomeAlreadySettled Outcome = "already_settled"
	OutcomeRejected       Outcome = "rejected"
	OutcomeConflict       Outcome = "conflict"
)

// Observer is notified of every admission outcome.
type Observer interface {
	ObserveAdmission(outcome Outcome)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Outcome)

// ObserveAdmission calls f.
func (f ObserverFunc) ObserveAdmission(o Outcome) { f(o) }

// AdmissionResult describes an accepted payment.
type AdmissionResult struct {
	Pay     models.Pay
	Billing *models.Billing
	Paid    decimal.Decimal // Sum of all accepted payments, including Pay
	Pending decimal.Decimal // Total minus Paid
	Settled bool
}

// CheckAdmission decides whether amount may be paid against b given its
// accepted payments. Checks run in order: settled, malformed amount, exceeds
// pending.
func CheckAdmission(b *models.Billing, pays []models.Pay, amount decimal.Decimal) error {
	if b.Settled {
		return models.ErrAlreadySettled
	}
	if err := models.ValidateMoney("amount", amount); err != nil {
		return err
	}
	if amount.GreaterThan(b.Pending(pays)) {
		return models.NewValidationError("amount", "amount exceeds pending balance")
	}
	return nil
}

// Admission accepts payments against billings, one billing at a time.
type Admission struct {
	repo     Repository
	locker   Locker
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

// NewAdmission creates an Admission. observer may be nil.
func NewAdmission(repo Repository, locker Locker, observer Observer, logger *slog.Logger) *Admission {
	if observer == nil {
		observer = ObserverFunc(func(Outcome) {})
	}
	return &Admission{
		repo:     repo,
		locker:   locker,
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

// Admit records a payment of amount against the billing if the admission rule
// allows it, and settles the billing when the payments reach its total.
//
// The billing and its payments are re-read under the billing's lock, so the
// pending balance checked is the one the write is based on. The write itself is
// conditional on the billing's version; a lost race returns
// models.ErrConcurrentUpdate and nothing is written. No retries are attempted.
func (a *Admission) Admit(ctx context.Context, billingID int64, amount decimal.Decimal) (*AdmissionResult, error) {
	unlock, err := a.locker.Lock(ctx, billingID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock billing %d: %w", billingID, err)
	}
	defer unlock()

	b, err := a.repo.GetBilling(ctx, billingID)
	if err != nil {
		return nil, err
	}
	pays, err := a.repo.ListPays(ctx, billingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	if err := CheckAdmission(b, pays, amount); err != nil {
		if models.IsValidation(err) {
			a.observer.ObserveAdmission(OutcomeRejected)
		} else {
			a.observer.ObserveAdmission(OutcomeAlreadySettled)
		}
		a.logger.InfoContext(ctx, "Payment not admitted",
			"billing_id", billingID,
			"amount", amount.String(),
			"reason", err.Error(),
		)
		return nil, err
	}

	pay := models.Pay{
		BillingID: billingID,
		Amount:    amount,
		CreatedAt: a.now().Unix(),
	}
	paid := b.Paid(pays).Add(amount)

	// CheckAdmission keeps paid <= total, so this settles on an exact match.
	if paid.GreaterThanOrEqual(b.Total()) {
		b.Settle()
	}

	if err := a.repo.RecordPayment(ctx, b, &pay); err != nil {
		a.observer.ObserveAdmission(OutcomeConflict)
		return nil, err
	}

	outcome := OutcomeAccepted
	if b.Settled {
		outcome = OutcomeSettled
	}
	a.observer.ObserveAdmission(outcome)
	a.logger.InfoContext(ctx, "Payment admitted",
		"billing_id", billingID,
		"pay_id", pay.ID,
		"amount", amount.String(),
		"settled", b.Settled,
	)

	return &AdmissionResult{
		Pay:     pay,
		Billing: b,
		Paid:    paid,
		Pending: b.Total().Sub(paid),
		Settled: b.Settled,
	}, nil
}
