package config

import (
	"path/filepath"
	"testing"
)

func TestInitConfigToPath_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := InitConfigToPath(path, false); err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load initialized config: %v", err)
	}

	if len(cfg.Identity.JWTSecret) != 64 {
		t.Errorf("Expected 64-character generated secret, got %d characters", len(cfg.Identity.JWTSecret))
	}
	if cfg.Server.Port != 20200 {
		t.Errorf("Expected default port 20200, got %d", cfg.Server.Port)
	}
}

func TestInitConfigToPath_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := InitConfigToPath(path, false); err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}

	if err := InitConfigToPath(path, false); err == nil {
		t.Fatal("Expected error when config file already exists")
	}

	if err := InitConfigToPath(path, true); err != nil {
		t.Errorf("Expected force overwrite to succeed, got: %v", err)
	}
}

func TestInitConfigToPath_SecretsDiffer(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.yaml")
	pathB := filepath.Join(dir, "b.yaml")

	if err := InitConfigToPath(pathA, false); err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}
	if err := InitConfigToPath(pathB, false); err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}

	cfgA, err := Load(pathA)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	cfgB, err := Load(pathB)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfgA.Identity.JWTSecret == cfgB.Identity.JWTSecret {
		t.Error("Expected each init to generate a fresh secret")
	}
}
