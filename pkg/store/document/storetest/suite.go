// Package storetest provides a conformance test suite for document store
// implementations. Every backend (memory, badger) should pass these tests.
//
// Usage:
//
//	func TestConformance(t *testing.T) {
//	    storetest.RunConformanceSuite(t, func(t *testing.T) document.Store {
//	        return memory.NewStore()
//	    })
//	}
//
// The factory receives *testing.T so it can call t.TempDir() for backends
// that need filesystem paths and t.Cleanup for teardown.
package storetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roky360/fotogo-bakcend/pkg/models"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document"
)

// StoreFactory creates a fresh Store instance for each test.
type StoreFactory func(t *testing.T) document.Store

// RunConformanceSuite runs the full suite against the provided factory.
// Each subtest gets a fresh store for isolation.
func RunConformanceSuite(t *testing.T, factory StoreFactory) {
	t.Helper()

	t.Run("Users", func(t *testing.T) {
		runUserTests(t, factory)
	})

	t.Run("Albums", func(t *testing.T) {
		runAlbumTests(t, factory)
	})

	t.Run("Images", func(t *testing.T) {
		runImageTests(t, factory)
	})
}

func testUser(id string) *models.User {
	return &models.User{
		ID:             id,
		Email:          id + "@example.com",
		DisplayName:    "User " + id,
		PrivilegeLevel: models.PrivilegeUser,
	}
}

func testAlbum(id, ownerID string) *models.AlbumDetails {
	return &models.AlbumDetails{
		ID:           id,
		OwnerID:      ownerID,
		Name:         "Album " + id,
		LastModified: time.Now().UTC().Truncate(time.Second),
	}
}

func testImage(ownerID, fileName string, albums ...string) *models.Image {
	return &models.Image{
		OwnerID:          ownerID,
		FileName:         fileName,
		Timestamp:        time.Now().UTC().Truncate(time.Second),
		ContainingAlbums: albums,
	}
}

func runUserTests(t *testing.T, factory StoreFactory) {
	t.Run("GetMissingReturnsNotFound", func(t *testing.T) {
		store := factory(t)
		_, err := store.Users().Get(t.Context(), "nobody")
		assert.ErrorIs(t, err, document.ErrNotFound)
	})

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		user := testUser("u1")
		require.NoError(t, store.Users().Put(ctx, user))

		got, err := store.Users().Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("Exists", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		ok, err := store.Users().Exists(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, store.Users().Put(ctx, testUser("u1")))

		ok, err = store.Users().Exists(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("PutReplaces", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		user := testUser("u1")
		require.NoError(t, store.Users().Put(ctx, user))

		user.DisplayName = "Renamed"
		require.NoError(t, store.Users().Put(ctx, user))

		got, err := store.Users().Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.DisplayName)

		count, err := store.Users().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Delete", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		require.NoError(t, store.Users().Put(ctx, testUser("u1")))
		require.NoError(t, store.Users().Delete(ctx, "u1"))

		_, err := store.Users().Get(ctx, "u1")
		assert.ErrorIs(t, err, document.ErrNotFound)

		assert.ErrorIs(t, store.Users().Delete(ctx, "u1"), document.ErrNotFound)
	})

	t.Run("AllAndCount", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		require.NoError(t, store.Users().Put(ctx, testUser("u1")))
		require.NoError(t, store.Users().Put(ctx, testUser("u2")))

		users, err := store.Users().All(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)

		count, err := store.Users().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func runAlbumTests(t *testing.T, factory StoreFactory) {
	t.Run("GetMissingReturnsNotFound", func(t *testing.T) {
		store := factory(t)
		_, err := store.Albums().Get(t.Context(), "missing")
		assert.ErrorIs(t, err, document.ErrNotFound)
	})

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		album := testAlbum("a1", "u1")
		album.Tags = []int{1, 3}
		album.PermittedUsers = []string{"u2"}
		require.NoError(t, store.Albums().Put(ctx, album))

		got, err := store.Albums().Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, album, got)
	})

	t.Run("ByOwnerExcludesTombstones", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		require.NoError(t, store.Albums().Put(ctx, testAlbum("a1", "u1")))
		require.NoError(t, store.Albums().Put(ctx, testAlbum("a2", "u1")))
		require.NoError(t, store.Albums().Put(ctx, testAlbum("a3", "u2")))

		tomb := models.NewTombstone("a4")
		require.NoError(t, store.Albums().Put(ctx, &tomb))

		albums, err := store.Albums().ByOwner(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, albums, 2)
		for _, album := range albums {
			assert.Equal(t, "u1", album.OwnerID)
		}
	})

	t.Run("AllIncludesTombstones", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		require.NoError(t, store.Albums().Put(ctx, testAlbum("a1", "u1")))
		tomb := models.NewTombstone("a2")
		require.NoError(t, store.Albums().Put(ctx, &tomb))

		albums, err := store.Albums().All(ctx)
		require.NoError(t, err)
		assert.Len(t, albums, 2)
	})

	t.Run("CountExcludesTombstones", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		require.NoError(t, store.Albums().Put(ctx, testAlbum("a1", "u1")))
		tomb := models.NewTombstone("a2")
		require.NoError(t, store.Albums().Put(ctx, &tomb))

		count, err := store.Albums().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Delete", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		require.NoError(t, store.Albums().Put(ctx, testAlbum("a1", "u1")))
		require.NoError(t, store.Albums().Delete(ctx, "a1"))

		_, err := store.Albums().Get(ctx, "a1")
		assert.ErrorIs(t, err, document.ErrNotFound)

		assert.ErrorIs(t, store.Albums().Delete(ctx, "a1"), document.ErrNotFound)
	})
}

func runImageTests(t *testing.T, factory StoreFactory) {
	t.Run("GetMissingReturnsNotFound", func(t *testing.T) {
		store := factory(t)
		_, err := store.Images().Get(t.Context(), "u1", "missing.jpg")
		assert.ErrorIs(t, err, document.ErrNotFound)
	})

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		image := testImage("u1", "photo.jpg", "a1")
		tag := 4
		image.Tag = &tag
		image.Location = &models.GeoPoint{Latitude: 32.1, Longitude: 34.8}
		require.NoError(t, store.Images().Put(ctx, image))

		got, err := store.Images().Get(ctx, "u1", "photo.jpg")
		require.NoError(t, err)
		assert.Equal(t, image, got)
	})

	t.Run("OwnersAreIsolated", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		require.NoError(t, store.Images().Put(ctx, testImage("u1", "photo.jpg", "a1")))
		require.NoError(t, store.Images().Put(ctx, testImage("u2", "photo.jpg", "a2")))

		images, err := store.Images().ByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, images, 1)
		assert.Equal(t, "u1", images[0].OwnerID)
	})

	t.Run("ByAlbum", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		require.NoError(t, store.Images().Put(ctx, testImage("u1", "one.jpg", "a1")))
		require.NoError(t, store.Images().Put(ctx, testImage("u1", "two.jpg", "a1", "a2")))
		require.NoError(t, store.Images().Put(ctx, testImage("u1", "three.jpg", "a2")))

		images, err := store.Images().ByAlbum(ctx, "u1", "a1")
		require.NoError(t, err)
		assert.Len(t, images, 2)
	})

	t.Run("LinkAddsAlbum", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		require.NoError(t, store.Images().Put(ctx, testImage("u1", "one.jpg", "a1")))
		require.NoError(t, store.Images().Put(ctx, testImage("u1", "two.jpg", "a2")))

		require.NoError(t, store.Images().Link(ctx, "u1", []string{"one.jpg", "two.jpg"}, "a3"))

		one, err := store.Images().Get(ctx, "u1", "one.jpg")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a1", "a3"}, one.ContainingAlbums)

		two, err := store.Images().Get(ctx, "u1", "two.jpg")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a2", "a3"}, two.ContainingAlbums)
	})

	t.Run("LinkIsIdempotent", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		require.NoError(t, store.Images().Put(ctx, testImage("u1", "one.jpg", "a1")))
		require.NoError(t, store.Images().Link(ctx, "u1", []string{"one.jpg"}, "a1"))

		one, err := store.Images().Get(ctx, "u1", "one.jpg")
		require.NoError(t, err)
		assert.Equal(t, []string{"a1"}, one.ContainingAlbums)
	})

	t.Run("LinkMissingImageModifiesNothing", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		require.NoError(t, store.Images().Put(ctx, testImage("u1", "one.jpg", "a1")))

		err := store.Images().Link(ctx, "u1", []string{"one.jpg", "missing.jpg"}, "a2")
		assert.ErrorIs(t, err, document.ErrNotFound)

		one, err := store.Images().Get(ctx, "u1", "one.jpg")
		require.NoError(t, err)
		assert.Equal(t, []string{"a1"}, one.ContainingAlbums)
	})

	t.Run("UnlinkRemovesAlbum", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		require.NoError(t, store.Images().Put(ctx, testImage("u1", "one.jpg", "a1", "a2")))

		orphaned, err := store.Images().Unlink(ctx, "u1", []string{"one.jpg"}, "a1")
		require.NoError(t, err)
		assert.Empty(t, orphaned)

		one, err := store.Images().Get(ctx, "u1", "one.jpg")
		require.NoError(t, err)
		assert.Equal(t, []string{"a2"}, one.ContainingAlbums)
	})

	t.Run("UnlinkDeletesOrphans", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		require.NoError(t, store.Images().Put(ctx, testImage("u1", "one.jpg", "a1")))
		require.NoError(t, store.Images().Put(ctx, testImage("u1", "two.jpg", "a1", "a2")))

		orphaned, err := store.Images().Unlink(ctx, "u1", []string{"one.jpg", "two.jpg"}, "a1")
		require.NoError(t, err)
		require.Len(t, orphaned, 1)
		assert.Equal(t, "one.jpg", orphaned[0].FileName)

		_, err = store.Images().Get(ctx, "u1", "one.jpg")
		assert.ErrorIs(t, err, document.ErrNotFound)

		two, err := store.Images().Get(ctx, "u1", "two.jpg")
		require.NoError(t, err)
		assert.Equal(t, []string{"a2"}, two.ContainingAlbums)
	})

	t.Run("UnlinkSkipsMissingAndUnlinked", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		require.NoError(t, store.Images().Put(ctx, testImage("u1", "one.jpg", "a2")))

		orphaned, err := store.Images().Unlink(ctx, "u1", []string{"one.jpg", "missing.jpg"}, "a1")
		require.NoError(t, err)
		assert.Empty(t, orphaned)

		one, err := store.Images().Get(ctx, "u1", "one.jpg")
		require.NoError(t, err)
		assert.Equal(t, []string{"a2"}, one.ContainingAlbums)
	})

	t.Run("DeleteAndCount", func(t *testing.T) {
		store := factory(t)
		ctx := t.Context()

		require.NoError(t, store.Images().Put(ctx, testImage("u1", "one.jpg", "a1")))
		require.NoError(t, store.Images().Put(ctx, testImage("u2", "two.jpg", "a2")))

		count, err := store.Images().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		require.NoError(t, store.Images().Delete(ctx, "u1", "one.jpg"))
		assert.ErrorIs(t, store.Images().Delete(ctx, "u1", "one.jpg"), document.ErrNotFound)

		count, err = store.Images().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
