package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected log level INFO, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected format text, got %s", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected output stdout, got %s", cfg.Logging.Output)
	}
	if cfg.Server.Port != 20200 {
		t.Errorf("Expected port 20200, got %d", cfg.Server.Port)
	}
	if cfg.Server.MaxConnections != 256 {
		t.Errorf("Expected max_connections 256, got %d", cfg.Server.MaxConnections)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected shutdown_timeout 30s, got %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Document.Backend != "badger" {
		t.Errorf("Expected document backend badger, got %s", cfg.Document.Backend)
	}
	if cfg.Document.Badger.Path == "" {
		t.Error("Expected default badger path")
	}
	if cfg.Blob.Backend != "s3" {
		t.Errorf("Expected blob backend s3, got %s", cfg.Blob.Backend)
	}
	if cfg.Identity.Issuer != "fotogo" {
		t.Errorf("Expected issuer fotogo, got %s", cfg.Identity.Issuer)
	}
	if cfg.Identity.TokenDuration != time.Hour {
		t.Errorf("Expected token duration 1h, got %s", cfg.Identity.TokenDuration)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "error"},
		Server:  ServerConfig{Port: 7777, MaxConnections: 1},
		Document: DocumentConfig{
			Backend: "memory",
		},
	}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected level normalized to ERROR, got %s", cfg.Logging.Level)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Expected explicit port preserved, got %d", cfg.Server.Port)
	}
	if cfg.Server.MaxConnections != 1 {
		t.Errorf("Expected explicit max_connections preserved, got %d", cfg.Server.MaxConnections)
	}
	if cfg.Document.Backend != "memory" {
		t.Errorf("Expected explicit backend preserved, got %s", cfg.Document.Backend)
	}
	if cfg.Document.Badger.Path != "" {
		t.Error("Badger path should not default for the memory backend")
	}
}

func TestGetDefaultConfig_Validates(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected default config to validate, got: %v", err)
	}
}
