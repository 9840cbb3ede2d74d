// Package identity resolves opaque client credential tokens into trusted
// user identities.
//
// The authentication gate calls Verify before any request is dispatched.
// Failure kinds are distinguished so the server can log them precisely, but
// every kind is surfaced to the client as the same Unauthorized status to
// avoid leaking validation internals.
package identity

import (
	"context"
	"errors"
)

// Verification failure kinds.
var (
	// ErrInvalidSignature means the token signature did not verify.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrTokenExpired means the token was valid but has expired.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked means the token was explicitly revoked.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrMalformedToken means the token is not structurally a valid token.
	ErrMalformedToken = errors.New("malformed token")
)

// FailureKind returns a short stable name for a verification error, for
// logging. Unrecognized errors report as "invalid".
func FailureKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenRevoked):
		return "revoked"
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	default:
		return "invalid"
	}
}

// Identity is a verified client identity.
type Identity struct {
	// UserID is the stable user id asserted by the identity provider.
	UserID string

	// Email and DisplayName are profile claims carried by the token, used
	// when creating an account. They may be empty.
	Email       string
	DisplayName string

	// PhotoURL is the profile photo claim, if present.
	PhotoURL string
}

// Verifier resolves an opaque credential token into an Identity.
//
// Implementations must be safe for concurrent use: one Verifier instance is
// shared by every connection handler.
type Verifier interface {
	// Verify validates token and returns the identity it asserts. On
	// failure it returns one of the kind errors above (possibly wrapped).
	Verify(ctx context.Context, token string) (*Identity, error)
}
