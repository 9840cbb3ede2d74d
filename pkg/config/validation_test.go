package config

import (
	"strings"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for invalid log format")
	}
}

func TestValidate_InvalidServerPort(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Server.Port = 99999

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for out-of-range port")
	}
}

func TestValidate_UnknownDocumentBackend(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Document.Backend = "mongodb"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for unknown document backend")
	}
}

func TestValidate_BadgerBackendRequiresPath(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Document.Backend = "badger"
	cfg.Document.Badger.Path = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for missing badger path")
	}
	if !strings.Contains(err.Error(), "document.badger") {
		t.Errorf("Expected document.badger section in error, got: %v", err)
	}
}

func TestValidate_S3BackendRequiresBucket(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Blob.Backend = "s3"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for missing S3 bucket")
	}
	if !strings.Contains(err.Error(), "blob.s3") {
		t.Errorf("Expected blob.s3 section in error, got: %v", err)
	}
}

func TestValidate_MemoryBackendsNeedNoCredentials(t *testing.T) {
	cfg := &Config{
		Document: DocumentConfig{Backend: "memory"},
		Blob:     BlobConfig{Backend: "memory"},
	}
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected memory backends to validate without credentials, got: %v", err)
	}
}

func TestValidate_ShortJWTSecret(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Identity.JWTSecret = "too-short"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for short JWT secret")
	}
}
