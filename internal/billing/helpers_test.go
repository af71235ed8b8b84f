package billing_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/paylink/internal/billing"
	"github.com/mmynk/paylink/internal/models"
	"github.com/mmynk/paylink/internal/notify"
	"github.com/mmynk/paylink/internal/storage/sqldb"
)

type fixture struct {
	store     *sqldb.Store
	locker    *billing.MemoryLocker
	notifier  *notify.Recorder
	outcomes  []billing.Outcome
	admission *billing.Admission
	manager   *billing.Manager
	checkout  *billing.Checkout
	balance   *billing.BalanceAggregator
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFixture wires the billing package against a temporary SQLite database.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "billing-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqldb.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		os.Remove(tmpFile.Name())
	})

	f := &fixture{
		store:    store,
		locker:   billing.NewMemoryLocker(),
		notifier: &notify.Recorder{},
	}
	observer := billing.ObserverFunc(func(o billing.Outcome) { f.outcomes = append(f.outcomes, o) })
	logger := discardLogger()
	f.admission = billing.NewAdmission(store, f.locker, observer, logger)
	f.manager = billing.NewManager(store, f.locker, f.notifier, "https://pay.example.com/", logger)
	f.checkout = billing.NewCheckout(store, f.admission)
	f.balance = billing.NewBalanceAggregator(store)
	return f
}

func (f *fixture) user(t *testing.T, email string) *models.Principal {
	t.Helper()
	u := models.NewUser(email, "Merchant", "hash")
	if err := f.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return &models.Principal{UserID: u.ID, Email: u.Email}
}

func (f *fixture) billing(t *testing.T, owner *models.Principal, amount, discount string) *models.Billing {
	t.Helper()
	draft := billing.Draft{
		Name:   "Beach shoes",
		Email:  "customer@example.com",
		Amount: d(amount),
	}
	if discount != "" {
		draft.Discount = decimal.NewNullDecimal(d(discount))
	}
	b, err := f.manager.Create(context.Background(), owner, draft)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return b
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(d(s))
}
