package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration for invalid or inconsistent values.
//
// Struct tags cover the simple constraints; backend-specific sections are
// validated only for the backend actually selected, so a memory-backed
// config does not need S3 credentials or a badger path.
func Validate(cfg *Config) error {
	v := validator.New()

	if err := v.StructExcept(cfg, "Document.Badger", "Blob.S3"); err != nil {
		return err
	}

	if cfg.Document.Backend == "badger" {
		if err := v.Struct(cfg.Document.Badger); err != nil {
			return fmt.Errorf("document.badger: %w", err)
		}
	}

	if cfg.Blob.Backend == "s3" {
		if err := v.Struct(cfg.Blob.S3); err != nil {
			return fmt.Errorf("blob.s3: %w", err)
		}
	}

	return nil
}
