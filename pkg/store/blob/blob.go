// Package blob defines the binary object store holding image files, with
// pluggable backends.
//
// Blobs are addressed by slash-separated paths of the form
// "<ownerID>/<fileName>", so one owner's blobs can be swept with a single
// prefix delete when their account is removed.
package blob

import (
	"context"
	"errors"
	"time"
)

// Store errors.
var (
	// ErrNotFound is returned when a requested blob does not exist.
	ErrNotFound = errors.New("blob not found")

	// ErrStoreClosed is returned for operations on a closed store.
	ErrStoreClosed = errors.New("blob store is closed")
)

// Store is the blob store interface. Implementations must be safe for
// concurrent use.
type Store interface {
	// Upload stores data under path, replacing any existing blob.
	Upload(ctx context.Context, path string, data []byte, contentType string) error

	// Download returns the blob stored under path, or ErrNotFound.
	Download(ctx context.Context, path string) ([]byte, error)

	// Delete removes the blob under path. Deleting a missing blob is not
	// an error.
	Delete(ctx context.Context, path string) error

	// DeletePrefix removes every blob whose path starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// SignedURL returns a URL granting read access to the blob under path
	// for the given lifetime.
	SignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// HealthCheck verifies the backend is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
