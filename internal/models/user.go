package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered merchant account.
// A user owns zero or more billings; ownership is recorded on the billing.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is the name shown to the user.
	DisplayName string

	// Phone is an optional contact number.
	Phone string

	// Document is an optional identity document number.
	Document string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last account change.
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Principal is the authenticated caller of a request.
// A nil *Principal means the request is anonymous.
type Principal struct {
	UserID string
	Email  string
}
