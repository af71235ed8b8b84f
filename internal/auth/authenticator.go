package auth

import (
	"context"

	"github.com/mmynk/paylink/internal/models"
)

// Registration holds the profile submitted when a merchant signs up.
type Registration struct {
	Email       string
	DisplayName string
	Phone       string
	Document    string
}

// Authenticator verifies merchant credentials.
// Billing code never calls it: it only sees the resulting Principal.
type Authenticator interface {
	// Register creates a new user account with the given profile and credential.
	Register(ctx context.Context, reg Registration, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
