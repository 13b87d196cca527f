// Package auth verifies bearer tokens issued by the external identity
// provider. The token is opaque to the rest of the system: handlers only see
// the Identity it resolves to.
package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned for any token the provider will not vouch for.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller as reported by the provider.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TokenVerifier resolves a bearer token to an Identity. Implementations:
// JWTVerifier checks the provider's HS256 signature locally, RemoteVerifier
// asks the provider over HTTP.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
