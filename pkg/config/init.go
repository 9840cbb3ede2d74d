package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

// InitConfig creates a sample configuration file at the default location.
//
// Returns the path the file was written to. Fails if the file already
// exists unless force is true.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	return path, InitConfigToPath(path, force)
}

// InitConfigToPath creates a sample configuration file at the given path.
//
// The sample carries a freshly generated random JWT secret so a
// development setup works out of the box. Production deployments should
// replace it, or override via FOTOGO_IDENTITY_JWT_SECRET.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		}
	}

	cfg := GetDefaultConfig()

	secret, err := generateSecret()
	if err != nil {
		return fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	cfg.Identity.JWTSecret = secret

	if err := SaveConfig(cfg, path); err != nil {
		return err
	}

	return nil
}

// generateSecret returns a 64-character hex string (32 bytes of entropy).
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
