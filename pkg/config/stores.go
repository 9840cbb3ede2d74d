package config

import (
	"context"
	"fmt"

	"github.com/Roky360/fotogo-bakcend/pkg/store/blob"
	blobmemory "github.com/Roky360/fotogo-bakcend/pkg/store/blob/memory"
	blobs3 "github.com/Roky360/fotogo-bakcend/pkg/store/blob/s3"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document"
	docbadger "github.com/Roky360/fotogo-bakcend/pkg/store/document/badger"
	docmemory "github.com/Roky360/fotogo-bakcend/pkg/store/document/memory"
)

// CreateDocumentStore creates a document store instance from
// configuration.
func CreateDocumentStore(cfg DocumentConfig) (document.Store, error) {
	switch cfg.Backend {
	case "memory":
		return docmemory.NewStore(), nil
	case "badger":
		store, err := docbadger.NewStore(cfg.Badger)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger document store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown document store backend: %q", cfg.Backend)
	}
}

// CreateBlobStore creates a blob store instance from configuration.
//
// The context bounds S3 client setup (credential resolution may perform
// network calls).
func CreateBlobStore(ctx context.Context, cfg BlobConfig) (blob.Store, error) {
	switch cfg.Backend {
	case "memory":
		return blobmemory.NewStore(), nil
	case "s3":
		store, err := blobs3.NewFromConfig(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 blob store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown blob store backend: %q", cfg.Backend)
	}
}
