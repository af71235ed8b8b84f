package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/paylink/internal/billing"
	"github.com/mmynk/paylink/internal/models"
)

// RecordPayment inserts pay and updates b's status in one transaction,
// conditional on b.Version.
func (s *Store) RecordPayment(ctx context.Context, b *models.Billing, pay *models.Pay) error {
	if pay.CreatedAt == 0 {
		pay.CreatedAt = time.Now().Unix()
	}
	pay.BillingID = b.ID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE billings
		 SET status = CASE WHEN status = 1 THEN 1 ELSE ? END, version = version + 1
		 WHERE id = ? AND version = ?`,
		b.Settled, b.ID, b.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update billing status: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx,
		"INSERT INTO pays (billing_id, amount, created_at) VALUES (?, ?, ?)",
		pay.BillingID, pay.Amount, pay.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pay: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get pay id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	pay.ID = id
	b.Version++
	return nil
}

// ListPays retrieves all payments for a billing, oldest first.
func (s *Store) ListPays(ctx context.Context, billingID int64) ([]models.Pay, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, billing_id, amount, created_at FROM pays WHERE billing_id = ? ORDER BY id",
		billingID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pays: %w", err)
	}
	defer rows.Close()

	var pays []models.Pay
	for rows.Next() {
		var p models.Pay
		if err := rows.Scan(&p.ID, &p.BillingID, &p.Amount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pay: %w", err)
		}
		pays = append(pays, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pays: %w", err)
	}
	return pays, nil
}

// ListOwnedPays retrieves every payment on the filter owner's billings.
func (s *Store) ListOwnedPays(ctx context.Context, filter billing.OwnerFilter) ([]models.Pay, error) {
	if filter.OwnerID() == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.billing_id, p.amount, p.created_at
		 FROM pays p
		 JOIN billings b ON b.id = p.billing_id
		 WHERE b.owner_id = ?
		 ORDER BY p.billing_id, p.id`,
		filter.OwnerID(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned pays: %w", err)
	}
	defer rows.Close()

	var pays []models.Pay
	for rows.Next() {
		var p models.Pay
		if err := rows.Scan(&p.ID, &p.BillingID, &p.Amount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pay: %w", err)
		}
		pays = append(pays, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pays: %w", err)
	}
	return pays, nil
}
