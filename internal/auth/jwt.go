package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/paylink/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// sessionIssuer is stamped into every session token and required on parse.
const sessionIssuer = "paylink"

// JWTManager signs merchant session tokens with HS256 and checks them on
// the way back in. Payment links use IssuePaymentToken instead.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	parser        *jwt.Parser
}

// Claims carried by a session token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Principal is the caller identity handed to billing code.
func (c *Claims) Principal() *models.Principal {
	return &models.Principal{UserID: c.UserID, Email: c.Email}
}

// NewJWTManager returns a manager whose tokens live for tokenDuration.
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(sessionIssuer),
			jwt.WithExpirationRequired(),
		),
	}
}

// Generate issues a session token for user.
func (m *JWTManager) Generate(user *models.User) (string, error) {
	issuedAt := jwt.NewNumericDate(time.Now())
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   user.ID,
			IssuedAt:  issuedAt,
			NotBefore: issuedAt,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.tokenDuration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate returns the claims of a well-signed, unexpired session token.
// Every failure wraps ErrInvalidToken.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := m.parser.ParseWithClaims(tokenString, claims, m.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *JWTManager) key(*jwt.Token) (interface{}, error) {
	return m.secretKey, nil
}
