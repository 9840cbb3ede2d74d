package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSecretLength is returned when the HMAC secret is too short to
// sign tokens safely.
var ErrInvalidSecretLength = errors.New("JWT secret must be at least 32 characters")

// JWTConfig holds configuration for JWT verification and issuance.
type JWTConfig struct {
	// Secret is the HMAC signing key. Must be at least 32 characters.
	Secret string

	// Issuer is the expected token issuer claim. Default: "fotogo".
	Issuer string

	// TokenDuration is the lifetime of issued tokens. Default: 1 hour.
	TokenDuration time.Duration
}

// Claims are the claims carried by fotogo credential tokens.
type Claims struct {
	jwt.RegisteredClaims

	Email       string `json:"email,omitempty"`
	DisplayName string `json:"name,omitempty"`
	PhotoURL    string `json:"picture,omitempty"`
}

// JWTVerifier verifies HS256-signed credential tokens. It also issues tokens,
// which test fixtures and local deployments use in place of an external
// identity provider.
type JWTVerifier struct {
	config JWTConfig

	mu      sync.RWMutex
	revoked map[string]struct{}
}

// NewJWTVerifier creates a verifier with the given configuration.
func NewJWTVerifier(config JWTConfig) (*JWTVerifier, error) {
	if len(config.Secret) < 32 {
		return nil, ErrInvalidSecretLength
	}

	if config.Issuer == "" {
		config.Issuer = "fotogo"
	}
	if config.TokenDuration == 0 {
		config.TokenDuration = time.Hour
	}

	return &JWTVerifier{
		config:  config,
		revoked: make(map[string]struct{}),
	}, nil
}

// Verify implements Verifier.
func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.config.Secret), nil
	}, jwt.WithIssuer(v.config.Issuer))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		default:
			return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformedToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformedToken)
	}

	if v.isRevoked(claims.Subject) {
		return nil, ErrTokenRevoked
	}

	return &Identity{
		UserID:      claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		PhotoURL:    claims.PhotoURL,
	}, nil
}

// IssueToken signs a token asserting the given identity.
func (v *JWTVerifier) IssueToken(id Identity) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.config.Issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.config.TokenDuration)),
		},
		Email:       id.Email,
		DisplayName: id.DisplayName,
		PhotoURL:    id.PhotoURL,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(v.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Revoke marks every token asserting userID as revoked. Used when an account
// is deleted so in-flight tokens stop working immediately.
func (v *JWTVerifier) Revoke(userID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.revoked[userID] = struct{}{}
}

func (v *JWTVerifier) isRevoked(userID string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.revoked[userID]
	return ok
}
