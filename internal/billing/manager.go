package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/paylink/internal/auth"
	"github.com/mmynk/paylink/internal/models"
	"github.com/mmynk/paylink/internal/notify"
)

// Draft is the merchant-editable part of a billing.
type Draft struct {
	Name        string
	Description string
	Email       string
	Amount      decimal.Decimal
	Discount    decimal.NullDecimal
}

// Statement is a billing together with its accepted payments.
type Statement struct {
	Billing *models.Billing
	Pays    []models.Pay
}

// Paid returns the sum of the statement's payments.
func (s Statement) Paid() decimal.Decimal {
	return s.Billing.Paid(s.Pays)
}

// Pending returns the billing's pending amount given the statement's payments.
func (s Statement) Pending() decimal.Decimal {
	return s.Billing.Pending(s.Pays)
}

// Manager runs the authenticated billing operations. Every operation takes the
// caller's principal and scopes its reads with OwnedBy.
type Manager struct {
	repo       Repository
	locker     Locker
	notifier   notify.Notifier
	paymentURL string
	logger     *slog.Logger
}

// NewManager creates a Manager. paymentURL is the public base of payment links,
// e.g. "https://pay.example.com".
func NewManager(repo Repository, locker Locker, notifier notify.Notifier, paymentURL string, logger *slog.Logger) *Manager {
	return &Manager{
		repo:       repo,
		locker:     locker,
		notifier:   notifier,
		paymentURL: strings.TrimRight(paymentURL, "/"),
		logger:     logger,
	}
}

// PaymentLink returns the anonymous payment URL for b.
func (m *Manager) PaymentLink(b *models.Billing) string {
	return fmt.Sprintf("%s/pay/%d?token=%s", m.paymentURL, b.ID, url.QueryEscape(b.Token))
}

// Create validates draft, issues the payment token, binds the owner, persists
// the billing and then emits the "billing created" event, in that order.
// A failed notification is logged; the billing stays created.
func (m *Manager) Create(ctx context.Context, principal *models.Principal, draft Draft) (*models.Billing, error) {
	if _, err := OwnedBy(principal); err != nil {
		return nil, err
	}

	b, err := models.NewBilling(draft.Name, draft.Description, draft.Email, draft.Amount, draft.Discount)
	if err != nil {
		return nil, err
	}

	token, err := auth.IssuePaymentToken()
	if err != nil {
		return nil, err
	}
	b.Token = token

	BindOwner(b, principal)

	// A zero total has nothing pending.
	if !b.Total().IsPositive() {
		b.Settle()
	}

	if err := m.repo.CreateBilling(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create billing: %w", err)
	}

	event := notify.BillingCreated{
		BillingID:  b.ID,
		Name:       b.Name,
		Email:      b.Email,
		Token:      b.Token,
		Total:      b.Total(),
		PaymentURL: m.PaymentLink(b),
		CreatedAt:  b.CreatedAt,
	}
	if err := m.notifier.BillingCreated(ctx, event); err != nil {
		m.logger.ErrorContext(ctx, "Failed to publish billing created event", "billing_id", b.ID, "error", err)
	}

	return b, nil
}

// Get returns one of principal's billings with its payments.
func (m *Manager) Get(ctx context.Context, principal *models.Principal, id int64) (Statement, error) {
	filter, err := OwnedBy(principal)
	if err != nil {
		return Statement{}, err
	}

	b, err := m.repo.GetOwnedBilling(ctx, id, filter)
	if err != nil {
		return Statement{}, err
	}
	pays, err := m.repo.ListPays(ctx, id)
	if err != nil {
		return Statement{}, fmt.Errorf("failed to load payments: %w", err)
	}
	return Statement{Billing: b, Pays: pays}, nil
}

// List returns all of principal's billings, newest first, with their payments.
func (m *Manager) List(ctx context.Context, principal *models.Principal) ([]Statement, error) {
	filter, err := OwnedBy(principal)
	if err != nil {
		return nil, err
	}

	billings, err := m.repo.ListOwnedBillings(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list billings: %w", err)
	}
	pays, err := m.repo.ListOwnedPays(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	byBilling := make(map[int64][]models.Pay, len(billings))
	for _, p := range pays {
		byBilling[p.BillingID] = append(byBilling[p.BillingID], p)
	}

	statements := make([]Statement, len(billings))
	for i, b := range billings {
		statements[i] = Statement{Billing: b, Pays: byBilling[b.ID]}
	}
	return statements, nil
}

// Update replaces the editable fields of one of principal's open billings.
// The new total may not fall below what has already been paid; if it equals
// it, the billing settles. Runs under the billing's lock like admission.
func (m *Manager) Update(ctx context.Context, principal *models.Principal, id int64, draft Draft) (Statement, error) {
	filter, err := OwnedBy(principal)
	if err != nil {
		return Statement{}, err
	}

	unlock, err := m.locker.Lock(ctx, id)
	if err != nil {
		return Statement{}, fmt.Errorf("failed to lock billing %d: %w", id, err)
	}
	defer unlock()

	b, err := m.repo.GetBilling(ctx, id)
	if err != nil {
		return Statement{}, err
	}
	if !filter.Match(b) {
		return Statement{}, models.ErrBillingNotFound
	}
	if b.Settled {
		return Statement{}, models.ErrAlreadySettled
	}

	b.Name = strings.TrimSpace(draft.Name)
	b.Description = strings.TrimSpace(draft.Description)
	b.Email = strings.TrimSpace(draft.Email)
	if err := b.SetAmount(draft.Amount); err != nil {
		return Statement{}, err
	}
	if err := b.SetDiscount(draft.Discount); err != nil {
		return Statement{}, err
	}
	if err := b.Validate(); err != nil {
		return Statement{}, err
	}

	pays, err := m.repo.ListPays(ctx, id)
	if err != nil {
		return Statement{}, fmt.Errorf("failed to load payments: %w", err)
	}
	paid := b.Paid(pays)
	if b.Total().LessThan(paid) {
		return Statement{}, models.NewValidationError("amount", "total cannot be below the amount already paid")
	}
	if paid.GreaterThanOrEqual(b.Total()) {
		b.Settle()
	}

	if err := m.repo.UpdateBilling(ctx, b); err != nil {
		if errors.Is(err, models.ErrConcurrentUpdate) {
			return Statement{}, err
		}
		return Statement{}, fmt.Errorf("failed to update billing: %w", err)
	}

	m.logger.InfoContext(ctx, "Billing updated", "billing_id", b.ID, "settled", b.Settled)
	return Statement{Billing: b, Pays: pays}, nil
}
