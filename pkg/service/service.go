// Package service implements the photo-album business logic: account
// lifecycle, album CRUD, the differential album sync engine, and the
// image-album link manager with orphan cleanup.
//
// The service is transport-agnostic. It returns domain errors from
// errors.go; the server maps those to wire status codes.
package service

import (
	"time"

	"github.com/Roky360/fotogo-bakcend/pkg/store/blob"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document"
)

// DefaultSignedURLTTL is the lifetime of image download URLs handed to
// clients.
const DefaultSignedURLTTL = time.Hour

// Service holds the long-lived collaborators shared by every request
// handler. Safe for concurrent use; all mutable state lives in the stores.
type Service struct {
	docs  document.Store
	blobs blob.Store

	signedURLTTL time.Duration
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithSignedURLTTL overrides the signed URL lifetime.
func WithSignedURLTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.signedURLTTL = ttl
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a Service backed by the given stores.
func New(docs document.Store, blobs blob.Store, opts ...Option) *Service {
	s := &Service{
		docs:         docs,
		blobs:        blobs,
		signedURLTTL: DefaultSignedURLTTL,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// blobPath is the blob store path for an owner's image.
func blobPath(ownerID, fileName string) string {
	return ownerID + "/" + fileName
}

// bumpModified returns a timestamp strictly after prev, so last_modified
// stays monotonic even when the wall clock did not advance between edits.
func (s *Service) bumpModified(prev time.Time) time.Time {
	now := s.now().UTC()
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}
