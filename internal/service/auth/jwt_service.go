package auth

import (
	"context"
	"time"
)

// JWTService defines operations for issuing and validating the signed,
// self-contained access tokens used to authenticate API requests. Tokens are
// stateless; there is no server-side revocation.
type JWTService interface {
	// GenerateToken creates a signed access token for the given subject
	// (the user's email). Returns the compact token string or an error if
	// signing fails.
	GenerateToken(ctx context.Context, subject string) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns ErrExpiredToken when the expiry has elapsed, or
	// ErrInvalidToken when the token is malformed or its signature does not
	// verify.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of an access token.
type Claims struct {
	// Subject is the email address of the user the token was issued for.
	Subject string `json:"sub,omitempty"`

	// Standard registered JWT claims.
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
