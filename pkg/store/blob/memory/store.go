// Package memory implements the blob store on in-process maps. It is used
// by tests and by deployments without object storage.
package memory

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Roky360/fotogo-bakcend/pkg/store/blob"
)

// Store is a map-backed blob store. Signed URLs are synthetic and carry the
// expiry as a query parameter so tests can assert on them.
type Store struct {
	// BaseURL is the prefix used for signed URLs. Defaults to
	// "memory://blobs".
	BaseURL string

	mu     sync.RWMutex
	blobs  map[string]entry
	closed bool
}

type entry struct {
	data        []byte
	contentType string
}

var _ blob.Store = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		BaseURL: "memory://blobs",
		blobs:   make(map[string]entry),
	}
}

func (s *Store) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return blob.ErrStoreClosed
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[path] = entry{data: stored, contentType: contentType}
	return nil
}

func (s *Store) Download(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, blob.ErrStoreClosed
	}

	e, ok := s.blobs[path]
	if !ok {
		return nil, blob.ErrNotFound
	}
	data := make([]byte, len(e.data))
	copy(data, e.data)
	return data, nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return blob.ErrStoreClosed
	}

	delete(s.blobs, path)
	return nil
}

func (s *Store) DeletePrefix(ctx context.Context, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return blob.ErrStoreClosed
	}

	for path := range s.blobs {
		if strings.HasPrefix(path, prefix) {
			delete(s.blobs, path)
		}
	}
	return nil
}

func (s *Store) SignedURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", blob.ErrStoreClosed
	}

	if _, ok := s.blobs[path]; !ok {
		return "", blob.ErrNotFound
	}

	expires := time.Now().Add(expiry).Unix()
	return fmt.Sprintf("%s/%s?expires=%d", s.BaseURL, url.PathEscape(path), expires), nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return blob.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Len returns the number of stored blobs. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// ContentType returns the content type recorded for path. Test helper.
func (s *Store) ContentType(path string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blobs[path].contentType
}
