// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/paylink/internal/auth"
	"github.com/mmynk/paylink/internal/billing"
)

// Store is everything the service layer persists.
// This abstraction allows swapping storage backends (SQLite, MySQL)
// without changing the service layer.
type Store interface {
	billing.Repository
	auth.UserStorage

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
