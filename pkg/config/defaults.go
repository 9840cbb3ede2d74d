package config

import (
	"strings"
	"time"
)

// ApplyDefaults sets default values for any unspecified configuration
// fields.
//
// This is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults. Zero
// values (0, "", false, nil) are replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyDocumentDefaults(&cfg.Document)
	applyBlobDefaults(&cfg.Blob)
	applyIdentityDefaults(&cfg.Identity)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyServerDefaults sets TCP listener defaults. Port 20200 is the port
// the fotogo client app connects to.
func applyServerDefaults(cfg *ServerConfig) {
	if cfg.Port == 0 {
		cfg.Port = 20200
	}
	if cfg.MaxConnections == 0 {
		cfg.MaxConnections = 256
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

// applyDocumentDefaults sets document store defaults.
func applyDocumentDefaults(cfg *DocumentConfig) {
	if cfg.Backend == "" {
		cfg.Backend = "badger"
	}
	if cfg.Backend == "badger" && cfg.Badger.Path == "" {
		cfg.Badger.Path = "/var/lib/fotogo/documents"
	}
}

// applyBlobDefaults sets blob store defaults. The S3 bucket has no
// default; it must be configured when the s3 backend is selected.
func applyBlobDefaults(cfg *BlobConfig) {
	if cfg.Backend == "" {
		cfg.Backend = "s3"
	}
	if cfg.Backend == "s3" && cfg.S3.Region == "" {
		cfg.S3.Region = "us-east-1"
	}
}

// applyIdentityDefaults sets token verification defaults. The JWT secret
// has no default; it must always be configured.
func applyIdentityDefaults(cfg *IdentityConfig) {
	if cfg.Issuer == "" {
		cfg.Issuer = "fotogo"
	}
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = time.Hour
	}
}

// GetDefaultConfig returns a Config struct with all default values
// applied.
//
// This is useful for generating sample configuration files, testing, and
// documentation. The memory blob backend is used so the default config
// validates without S3 credentials; `fotogo init` writes the s3 stanza
// commented out.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Blob: BlobConfig{
			Backend: "memory",
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
