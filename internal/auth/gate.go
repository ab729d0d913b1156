// Package auth resolves bearer tokens to users via the identity service.
package auth

import (
	"context"
	"strings"

	"github.com/speakhelper/speakhelper/internal/model"
)

// bearerScheme is the only accepted Authorization scheme. Matching is case-sensitive.
const bearerScheme = "Bearer"

// TokenVerifier resolves an access token to the user it was issued for.
// Implementations return (nil, nil) or an error when the token does not resolve.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*model.AuthenticatedUser, error)
}

// Gate validates Authorization headers. It holds no state besides the verifier,
// so a single Gate is shared across all requests.
type Gate struct {
	verifier TokenVerifier
}

// NewGate creates a Gate backed by verifier.
func NewGate(verifier TokenVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Authenticate validates the raw Authorization header value and returns the user.
// Every call goes to the verifier; tokens are never cached.
func (g *Gate) Authenticate(ctx context.Context, header string) (*model.AuthenticatedUser, error) {
	token, err := ParseBearer(header)
	if err != nil {
		return nil, err
	}

	user, err := g.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, &VerificationError{Err: err}
	}
	if user == nil || user.ID == "" {
		return nil, ErrInvalidOrExpiredToken
	}

	return user, nil
}

// ParseBearer extracts the token from "Bearer <token>".
// The header must split on single spaces into exactly two parts, and the
// token part must not be empty.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuthHeader
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != bearerScheme || parts[1] == "" {
		return "", ErrMalformedAuthHeader
	}

	return parts[1], nil
}
