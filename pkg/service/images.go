package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/Roky360/fotogo-bakcend/pkg/models"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document"
)

// ImageUpload is one image carried in an add-to-album payload.
type ImageUpload struct {
	FileName  string
	Timestamp time.Time
	Location  *models.GeoPoint
	Tag       *int
	Data      []byte
}

// AddToAlbum uploads new images into an album and links already-stored
// images to it, then advances the album's last_modified. Only the album
// owner may add.
//
// Uploaded bytes go to the blob store under "<owner>/<file_name>"; the
// image record stores a signed download URL. An upload whose file name
// already has a record relinks the existing image and refreshes its blob.
func (s *Service) AddToAlbum(ctx context.Context, userID, albumID string, uploads []ImageUpload, linkFileNames []string) error {
	album, err := s.getAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	if album.OwnerID != userID {
		return ErrPermissionDenied
	}

	for _, upload := range uploads {
		if err := s.uploadImage(ctx, userID, albumID, upload); err != nil {
			return err
		}
	}

	if len(linkFileNames) > 0 {
		if err := s.docs.Images().Link(ctx, userID, linkFileNames, albumID); err != nil {
			if errors.Is(err, document.ErrNotFound) {
				return ErrImageNotFound
			}
			return fmt.Errorf("link images: %w", err)
		}
	}

	album.LastModified = s.bumpModified(album.LastModified)
	if err := s.docs.Albums().Put(ctx, album); err != nil {
		return fmt.Errorf("put album: %w", err)
	}
	return nil
}

func (s *Service) uploadImage(ctx context.Context, userID, albumID string, upload ImageUpload) error {
	path := blobPath(userID, upload.FileName)
	if err := s.blobs.Upload(ctx, path, upload.Data, contentTypeFor(upload.FileName)); err != nil {
		return fmt.Errorf("upload image blob: %w", err)
	}

	url, err := s.blobs.SignedURL(ctx, path, s.signedURLTTL)
	if err != nil {
		return fmt.Errorf("sign image url: %w", err)
	}

	image := &models.Image{
		OwnerID:          userID,
		FileName:         upload.FileName,
		Timestamp:        upload.Timestamp,
		URL:              url,
		Location:         upload.Location,
		Tag:              upload.Tag,
		ContainingAlbums: []string{albumID},
	}

	existing, err := s.docs.Images().Get(ctx, userID, upload.FileName)
	if err == nil {
		image.ContainingAlbums = existing.ContainingAlbums
		if !existing.ContainedIn(albumID) {
			image.ContainingAlbums = append(image.ContainingAlbums, albumID)
		}
	} else if !errors.Is(err, document.ErrNotFound) {
		return fmt.Errorf("get image: %w", err)
	}

	if err := s.docs.Images().Put(ctx, image); err != nil {
		return fmt.Errorf("put image: %w", err)
	}
	return nil
}

// RemoveFromAlbum unlinks images from an album. Images orphaned by the
// unlink are deleted with their blobs; their file names are returned.
// The requester must own every named image.
func (s *Service) RemoveFromAlbum(ctx context.Context, userID, albumID string, fileNames []string) ([]string, error) {
	album, err := s.getAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}

	// Ownership is checked image by image before any mutation, so a
	// denied request leaves every containment set unchanged.
	for _, name := range fileNames {
		image, err := s.docs.Images().Get(ctx, album.OwnerID, name)
		if errors.Is(err, document.ErrNotFound) {
			return nil, ErrImageNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("get image: %w", err)
		}
		if image.OwnerID != userID {
			return nil, ErrPermissionDenied
		}
	}

	orphaned, err := s.docs.Images().Unlink(ctx, album.OwnerID, fileNames, albumID)
	if err != nil {
		return nil, fmt.Errorf("unlink images: %w", err)
	}

	deleted := make([]string, 0, len(orphaned))
	for _, image := range orphaned {
		deleted = append(deleted, image.FileName)
		s.deleteBlobBestEffort(ctx, image.OwnerID, image.FileName)
	}

	album.LastModified = s.bumpModified(album.LastModified)
	if err := s.docs.Albums().Put(ctx, album); err != nil {
		return nil, fmt.Errorf("put album: %w", err)
	}
	return deleted, nil
}

func contentTypeFor(fileName string) string {
	if ct := mime.TypeByExtension(filepath.Ext(fileName)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
