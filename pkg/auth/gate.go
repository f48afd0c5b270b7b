package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
)

// BearerPrefix is the exact, case-sensitive scheme prefix of the Authorization header.
const BearerPrefix = "Bearer "

var (
	// ErrMissingHeader is returned when no Authorization header was sent.
	ErrMissingHeader = errors.New("Authorization header is required")
	// ErrInvalidScheme is returned when the header does not start with "Bearer ".
	ErrInvalidScheme = errors.New("Invalid authorization format. Use 'Bearer <token>'")
	// ErrInvalidToken is returned when the bearer token does not match the secret.
	ErrInvalidToken = errors.New("Invalid token")
	// ErrEmptySecret is returned by NewGate when no secret is configured.
	ErrEmptySecret = errors.New("auth: access token secret is empty")
)

// Gate validates bearer credentials against a secret fixed at construction.
type Gate struct {
	secret []byte
}

// NewGate creates a Gate for secret. An empty secret is a configuration
// error and must stop startup.
func NewGate(secret string) (*Gate, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Gate{secret: []byte(secret)}, nil
}

// Validate checks an Authorization header value and returns the token on
// success. Failures are one of ErrMissingHeader, ErrInvalidScheme or
// ErrInvalidToken.
func (g *Gate) Validate(header string) (string, error) {
	if header == "" {
		return "", ErrMissingHeader
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", ErrInvalidScheme
	}
	token := header[len(BearerPrefix):]
	if subtle.ConstantTimeCompare([]byte(token), g.secret) != 1 {
		return "", ErrInvalidToken
	}
	return token, nil
}
