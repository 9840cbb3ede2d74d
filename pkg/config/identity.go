package config

import (
	"fmt"

	"github.com/Roky360/fotogo-bakcend/pkg/identity"
)

// CreateVerifier creates the credential token verifier from the
// configuration.
func (c *Config) CreateVerifier() (identity.Verifier, error) {
	if c.Identity.JWTSecret == "" {
		return nil, fmt.Errorf("identity.jwt_secret is not configured\n\n" +
			"Set it in the config file or via FOTOGO_IDENTITY_JWT_SECRET")
	}

	verifier, err := identity.NewJWTVerifier(identity.JWTConfig{
		Secret:        c.Identity.JWTSecret,
		Issuer:        c.Identity.Issuer,
		TokenDuration: c.Identity.TokenDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid identity configuration: %w", err)
	}

	return verifier, nil
}
