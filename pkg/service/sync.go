package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Roky360/fotogo-bakcend/pkg/models"
)

// SyncAlbums computes the minimal set of album changes a client must apply
// to reach server state, in one round trip.
//
// clientState maps album id to the last_modified value the client has
// cached; an empty map requests a full sync. The result is tombstones
// first, then full records for new or stale albums, each group ordered by
// album id. Albums whose cached timestamp is at least the server's are
// skipped; ties favor skipping. Reconciliation is last-writer-wins at
// whole-album granularity: a reported update always carries the complete
// server record.
func (s *Service) SyncAlbums(ctx context.Context, userID string, clientState map[string]time.Time) ([]models.AlbumDetails, error) {
	serverAlbums, err := s.docs.Albums().ByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}

	serverIDs := make(map[string]struct{}, len(serverAlbums))
	for _, album := range serverAlbums {
		serverIDs[album.ID] = struct{}{}
	}

	var tombstones []models.AlbumDetails
	for albumID := range clientState {
		if _, ok := serverIDs[albumID]; !ok {
			tombstones = append(tombstones, models.NewTombstone(albumID))
		}
	}

	var updates []models.AlbumDetails
	for _, album := range serverAlbums {
		if cached, ok := clientState[album.ID]; ok && !cached.Before(album.LastModified) {
			continue
		}

		cover, err := s.resolveCoverImage(ctx, album.OwnerID, album.ID)
		if err != nil {
			return nil, err
		}
		album.CoverImage = cover
		updates = append(updates, album)
	}

	byAlbumID := func(albums []models.AlbumDetails) func(i, j int) bool {
		return func(i, j int) bool {
			return albums[i].ID < albums[j].ID
		}
	}
	sort.Slice(tombstones, byAlbumID(tombstones))
	sort.Slice(updates, byAlbumID(updates))

	return append(tombstones, updates...), nil
}

// resolveCoverImage picks the cover for an album: the contained image with
// the earliest timestamp, file name as the tie-break. Empty when the album
// holds no images.
func (s *Service) resolveCoverImage(ctx context.Context, ownerID, albumID string) (string, error) {
	images, err := s.docs.Images().ByAlbum(ctx, ownerID, albumID)
	if err != nil {
		return "", fmt.Errorf("list album images: %w", err)
	}
	if len(images) == 0 {
		return "", nil
	}

	cover := images[0]
	for _, image := range images[1:] {
		if image.Timestamp.Before(cover.Timestamp) ||
			(image.Timestamp.Equal(cover.Timestamp) && strings.Compare(image.FileName, cover.FileName) < 0) {
			cover = image
		}
	}
	return cover.FileName, nil
}
