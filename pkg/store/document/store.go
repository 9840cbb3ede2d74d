// Package document defines the record store backing users, albums, and
// images, with pluggable backends.
//
// The store is deliberately free of business logic. Permission checks,
// tombstone handling, and cover selection live in the service layer; the
// store only guarantees durable CRUD plus a handful of atomic multi-record
// operations that the service cannot build safely out of Get/Put pairs.
package document

import (
	"context"
	"errors"

	"github.com/Roky360/fotogo-bakcend/pkg/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the document store root. Implementations must be safe for
// concurrent use.
type Store interface {
	Users() UserCollection
	Albums() AlbumCollection
	Images() ImageCollection

	// HealthCheck verifies the backend is reachable and writable.
	HealthCheck(ctx context.Context) error

	// Close releases backend resources. The store is unusable afterwards.
	Close() error
}

// UserCollection stores user accounts keyed by user id.
type UserCollection interface {
	// Get returns the user with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.User, error)

	// Exists reports whether a user with the given id is stored.
	Exists(ctx context.Context, id string) (bool, error)

	// Put stores or replaces a user record.
	Put(ctx context.Context, user *models.User) error

	// Delete removes a user record. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// All returns every stored user.
	All(ctx context.Context) ([]models.User, error)

	// Count returns the number of stored users.
	Count(ctx context.Context) (int, error)
}

// AlbumCollection stores album records keyed by album id. Album ids are
// globally unique, so lookups do not need the owner.
type AlbumCollection interface {
	// Get returns the album with the given id, or ErrNotFound. Tombstone
	// records are returned as stored; callers decide how to treat them.
	Get(ctx context.Context, albumID string) (*models.AlbumDetails, error)

	// Put stores or replaces an album record.
	Put(ctx context.Context, album *models.AlbumDetails) error

	// Delete removes an album record entirely, tombstone included.
	// Returns ErrNotFound if absent.
	Delete(ctx context.Context, albumID string) error

	// ByOwner returns every album owned by ownerID, tombstones excluded.
	ByOwner(ctx context.Context, ownerID string) ([]models.AlbumDetails, error)

	// All returns every stored album record, tombstones included.
	All(ctx context.Context) ([]models.AlbumDetails, error)

	// Count returns the number of live (non-tombstone) albums.
	Count(ctx context.Context) (int, error)
}

// ImageCollection stores image records keyed by (owner id, file name).
//
// Link and Unlink mutate the containing-albums set of several images as one
// atomic operation. Interleaving concurrent get/modify/put cycles at the
// caller would lose updates, so the read-modify-write happens inside a
// single backend transaction.
type ImageCollection interface {
	// Get returns the image owned by ownerID with the given file name,
	// or ErrNotFound.
	Get(ctx context.Context, ownerID, fileName string) (*models.Image, error)

	// Put stores or replaces an image record.
	Put(ctx context.Context, image *models.Image) error

	// Delete removes an image record. Returns ErrNotFound if absent.
	Delete(ctx context.Context, ownerID, fileName string) error

	// ByOwner returns every image owned by ownerID.
	ByOwner(ctx context.Context, ownerID string) ([]models.Image, error)

	// ByAlbum returns every image owned by ownerID whose containing-albums
	// set includes albumID.
	ByAlbum(ctx context.Context, ownerID, albumID string) ([]models.Image, error)

	// Link atomically adds albumID to the containing-albums set of each
	// named image. Already-linked images are left unchanged. Returns
	// ErrNotFound if any named image does not exist; in that case no
	// image is modified.
	Link(ctx context.Context, ownerID string, fileNames []string, albumID string) error

	// Unlink atomically removes albumID from the containing-albums set of
	// each named image. Images whose set becomes empty are deleted in the
	// same transaction and returned so the caller can remove their blobs.
	// Images that do not exist or are not linked to albumID are skipped.
	Unlink(ctx context.Context, ownerID string, fileNames []string, albumID string) (orphaned []models.Image, err error)

	// Count returns the number of stored images.
	Count(ctx context.Context) (int, error)
}
