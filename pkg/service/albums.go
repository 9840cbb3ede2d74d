package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/Roky360/fotogo-bakcend/internal/logger"
	"github.com/Roky360/fotogo-bakcend/pkg/models"
	"github.com/Roky360/fotogo-bakcend/pkg/store/blob"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document"
)

// AlbumInput carries the client-editable album fields.
type AlbumInput struct {
	Name           string
	DateRange      models.DateRange
	IsBuilt        bool
	Tags           []int
	PermittedUsers []string
}

// CreateAlbum creates an album owned by userID and returns its id.
func (s *Service) CreateAlbum(ctx context.Context, userID string, input AlbumInput) (string, error) {
	if ok, err := s.docs.Users().Exists(ctx, userID); err != nil {
		return "", fmt.Errorf("check user: %w", err)
	} else if !ok {
		return "", ErrUserNotFound
	}

	album := &models.AlbumDetails{
		ID:             uuid.NewString(),
		OwnerID:        userID,
		Name:           input.Name,
		DateRange:      input.DateRange,
		LastModified:   s.now().UTC(),
		IsBuilt:        input.IsBuilt,
		Tags:           input.Tags,
		PermittedUsers: input.PermittedUsers,
	}
	if err := s.docs.Albums().Put(ctx, album); err != nil {
		return "", fmt.Errorf("put album: %w", err)
	}
	return album.ID, nil
}

// UpdateAlbum replaces the client-editable fields of an album and advances
// its last_modified timestamp. Only the owner may update.
func (s *Service) UpdateAlbum(ctx context.Context, userID, albumID string, input AlbumInput) error {
	album, err := s.getAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	if album.OwnerID != userID {
		return ErrPermissionDenied
	}

	album.Name = input.Name
	album.DateRange = input.DateRange
	album.IsBuilt = input.IsBuilt
	album.Tags = input.Tags
	album.PermittedUsers = input.PermittedUsers
	album.LastModified = s.bumpModified(album.LastModified)

	if err := s.docs.Albums().Put(ctx, album); err != nil {
		return fmt.Errorf("put album: %w", err)
	}
	return nil
}

// GetAlbumContents returns the images contained in an album, each with a
// freshly signed download URL. The owner and permitted users may read.
func (s *Service) GetAlbumContents(ctx context.Context, userID, albumID string) ([]models.Image, error) {
	album, err := s.getAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if album.OwnerID != userID && !slices.Contains(album.PermittedUsers, userID) {
		return nil, ErrPermissionDenied
	}

	images, err := s.docs.Images().ByAlbum(ctx, album.OwnerID, albumID)
	if err != nil {
		return nil, fmt.Errorf("list album images: %w", err)
	}

	for i := range images {
		url, err := s.blobs.SignedURL(ctx, blobPath(images[i].OwnerID, images[i].FileName), s.signedURLTTL)
		if err != nil {
			if errors.Is(err, blob.ErrNotFound) {
				// Stale record without a blob keeps its last known URL.
				continue
			}
			return nil, fmt.Errorf("sign image url: %w", err)
		}
		images[i].URL = url
	}

	slices.SortFunc(images, func(a, b models.Image) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return images, nil
}

// DeleteAlbum removes an album and unlinks every image it contains.
// Images orphaned by the unlink are deleted along with their blobs, and
// their file names are returned so the client can purge local copies.
// Existence is checked before ownership, so a foreign album id reports
// PermissionDenied rather than NotFound.
func (s *Service) DeleteAlbum(ctx context.Context, userID, albumID string) ([]string, error) {
	album, err := s.getAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if album.OwnerID != userID {
		return nil, ErrPermissionDenied
	}

	images, err := s.docs.Images().ByAlbum(ctx, album.OwnerID, albumID)
	if err != nil {
		return nil, fmt.Errorf("list album images: %w", err)
	}

	fileNames := make([]string, len(images))
	for i, image := range images {
		fileNames[i] = image.FileName
	}

	orphaned, err := s.docs.Images().Unlink(ctx, album.OwnerID, fileNames, albumID)
	if err != nil {
		return nil, fmt.Errorf("unlink album images: %w", err)
	}

	deleted := make([]string, 0, len(orphaned))
	for _, image := range orphaned {
		deleted = append(deleted, image.FileName)
		s.deleteBlobBestEffort(ctx, image.OwnerID, image.FileName)
	}

	if err := s.docs.Albums().Delete(ctx, albumID); err != nil && !errors.Is(err, document.ErrNotFound) {
		return nil, fmt.Errorf("delete album record: %w", err)
	}
	return deleted, nil
}

// getAlbum loads a live album record. Tombstones and missing records both
// report ErrAlbumNotFound.
func (s *Service) getAlbum(ctx context.Context, albumID string) (*models.AlbumDetails, error) {
	album, err := s.docs.Albums().Get(ctx, albumID)
	if errors.Is(err, document.ErrNotFound) {
		return nil, ErrAlbumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}
	if album.Tombstone() {
		return nil, ErrAlbumNotFound
	}
	return album, nil
}

// deleteBlobBestEffort removes an image blob after its record is gone. The
// record governs existence, so a failed blob delete is only logged; the
// account-deletion prefix sweep reclaims stranded blobs.
func (s *Service) deleteBlobBestEffort(ctx context.Context, ownerID, fileName string) {
	if err := s.blobs.Delete(ctx, blobPath(ownerID, fileName)); err != nil {
		logger.Warn("failed to delete image blob",
			logger.KeyOwnerID, ownerID,
			logger.KeyFileName, fileName,
			logger.KeyError, err)
	}
}
