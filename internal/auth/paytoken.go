package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"github.com/mmynk/paylink/internal/models"
)

// paymentTokenBytes is the entropy of a payment token (256 bits).
const paymentTokenBytes = 32

// IssuePaymentToken returns a new random, URL-safe payment token.
// It is generated once per billing and stored with it.
func IssuePaymentToken() (string, error) {
	buf := make([]byte, paymentTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate payment token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// VerifyPaymentToken checks supplied against the billing's token in constant time.
// A match grants access to the billing's payment page only; it implies nothing
// about ownership.
func VerifyPaymentToken(b *models.Billing, supplied string) error {
	if b == nil || b.Token == "" || supplied == "" {
		return models.ErrTokenMismatch
	}
	if subtle.ConstantTimeCompare([]byte(b.Token), []byte(supplied)) != 1 {
		return models.ErrTokenMismatch
	}
	return nil
}
