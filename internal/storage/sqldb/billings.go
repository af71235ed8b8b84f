package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/paylink/internal/billing"
	"github.com/mmynk/paylink/internal/models"
)

const billingColumns = `id, name, description, amount, discount, email, token, owner_id, status, version, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBilling reads one billing row and rebuilds its derived total.
func scanBilling(row rowScanner) (*models.Billing, error) {
	var (
		b           models.Billing
		description sql.NullString
		owner       sql.NullString
		amount      decimal.Decimal
		discount    decimal.NullDecimal
	)
	if err := row.Scan(&b.ID, &b.Name, &description, &amount, &discount,
		&b.Email, &b.Token, &owner, &b.Settled, &b.Version, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Description = description.String
	b.OwnerID = owner.String
	if err := b.SetAmount(amount); err != nil {
		return nil, fmt.Errorf("billing %d has invalid amount: %w", b.ID, err)
	}
	if err := b.SetDiscount(discount); err != nil {
		return nil, fmt.Errorf("billing %d has invalid discount: %w", b.ID, err)
	}
	return &b, nil
}

// CreateBilling persists a new billing.
func (s *Store) CreateBilling(ctx context.Context, b *models.Billing) error {
	if b.CreatedAt == 0 {
		b.CreatedAt = time.Now().Unix()
	}
	b.Version = 1

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO billings (name, description, amount, discount, total, email, token, owner_id, status, version, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Name, nullString(b.Description), b.Amount(), b.Discount(), b.Total(),
		b.Email, b.Token, nullString(b.OwnerID), b.Settled, b.Version, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert billing: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get billing id: %w", err)
	}
	b.ID = id
	return nil
}

// GetBilling retrieves a billing by ID without ownership scoping.
func (s *Store) GetBilling(ctx context.Context, id int64) (*models.Billing, error) {
	b, err := scanBilling(s.db.QueryRowContext(ctx,
		`SELECT `+billingColumns+` FROM billings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrBillingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get billing: %w", err)
	}
	return b, nil
}

// GetOwnedBilling retrieves a billing by ID if it belongs to the filter's owner.
func (s *Store) GetOwnedBilling(ctx context.Context, id int64, filter billing.OwnerFilter) (*models.Billing, error) {
	if filter.OwnerID() == "" {
		return nil, models.ErrBillingNotFound
	}
	b, err := scanBilling(s.db.QueryRowContext(ctx,
		`SELECT `+billingColumns+` FROM billings WHERE id = ? AND owner_id = ?`, id, filter.OwnerID()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrBillingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get billing: %w", err)
	}
	return b, nil
}

// ListOwnedBillings retrieves the filter owner's billings, newest first.
func (s *Store) ListOwnedBillings(ctx context.Context, filter billing.OwnerFilter) ([]*models.Billing, error) {
	if filter.OwnerID() == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+billingColumns+` FROM billings WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		filter.OwnerID(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list billings: %w", err)
	}
	defer rows.Close()

	var billings []*models.Billing
	for rows.Next() {
		b, err := scanBilling(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan billing: %w", err)
		}
		billings = append(billings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate billings: %w", err)
	}
	return billings, nil
}

// UpdateBilling writes the editable fields and status if b.Version is current.
// A settled billing stays settled whatever b.Settled says.
func (s *Store) UpdateBilling(ctx context.Context, b *models.Billing) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE billings
		 SET name = ?, description = ?, amount = ?, discount = ?, total = ?, email = ?,
		     status = CASE WHEN status = 1 THEN 1 ELSE ? END, version = version + 1
		 WHERE id = ? AND version = ?`,
		b.Name, nullString(b.Description), b.Amount(), b.Discount(), b.Total(), b.Email,
		b.Settled, b.ID, b.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update billing: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}
	b.Version++
	return nil
}

// expectOneRow turns a zero-row conditional update into ErrConcurrentUpdate.
func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n != 1 {
		return models.ErrConcurrentUpdate
	}
	return nil
}
