// Package notify delivers "billing created" events to the outside world.
// Paylink never formats or sends e-mail itself: a mailer consumes these events.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
)

// BillingCreated is emitted once per new billing.
type BillingCreated struct {
	BillingID  int64           `json:"billing_id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Token      string          `json:"token"`
	Total      decimal.Decimal `json:"total"`
	PaymentURL string          `json:"payment_url"`
	CreatedAt  int64           `json:"created_at"`
}

// Notifier publishes billing events.
type Notifier interface {
	BillingCreated(ctx context.Context, event BillingCreated) error
}

// LogNotifier writes events to the log. Used when no broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// BillingCreated logs the event. The token is not logged.
func (n *LogNotifier) BillingCreated(ctx context.Context, event BillingCreated) error {
	n.logger.InfoContext(ctx, "Billing created",
		"billing_id", event.BillingID,
		"email", event.Email,
		"total", event.Total.StringFixed(2),
	)
	return nil
}

// Recorder keeps events in memory. Tests use it to assert on notifications.
type Recorder struct {
	mu     sync.Mutex
	events []BillingCreated
}

// BillingCreated appends the event.
func (r *Recorder) BillingCreated(_ context.Context, event BillingCreated) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []BillingCreated {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]BillingCreated(nil), r.events...)
}
