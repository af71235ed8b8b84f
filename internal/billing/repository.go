package billing

import (
	"context"

	"github.com/mmynk/paylink/internal/models"
)

// Repository is the persistence boundary used by this package.
// Lookups that miss return models.ErrBillingNotFound.
type Repository interface {
	// CreateBilling persists a new billing and assigns its ID, Version and CreatedAt.
	CreateBilling(ctx context.Context, b *models.Billing) error

	// GetBilling loads a billing by ID without ownership scoping.
	// Only the token-gated payment path and admission use it.
	GetBilling(ctx context.Context, id int64) (*models.Billing, error)

	// GetOwnedBilling loads a billing by ID restricted by the filter.
	GetOwnedBilling(ctx context.Context, id int64, filter OwnerFilter) (*models.Billing, error)

	// ListOwnedBillings returns the filter's billings, newest first.
	ListOwnedBillings(ctx context.Context, filter OwnerFilter) ([]*models.Billing, error)

	// UpdateBilling writes b if its Version is still current and bumps Version.
	// Returns models.ErrConcurrentUpdate otherwise.
	UpdateBilling(ctx context.Context, b *models.Billing) error

	// ListPays returns every payment for a billing, oldest first.
	ListPays(ctx context.Context, billingID int64) ([]models.Pay, error)

	// ListOwnedPays returns every payment on the filter's billings.
	ListOwnedPays(ctx context.Context, filter OwnerFilter) ([]models.Pay, error)

	// RecordPayment inserts pay and writes b's status in one transaction,
	// conditional on b.Version being current. Assigns pay.ID and bumps b.Version.
	// Returns models.ErrConcurrentUpdate when the version check fails.
	RecordPayment(ctx context.Context, b *models.Billing, pay *models.Pay) error
}
