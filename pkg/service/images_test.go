package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var imageBase = time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)

func TestAddToAlbumUploads(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", 1)
	env.addAlbum(t, "a1", "u1", imageBase)

	uploads := []ImageUpload{
		{FileName: "new.jpg", Timestamp: imageBase, Data: []byte("jpeg bytes")},
	}
	require.NoError(t, env.svc.AddToAlbum(t.Context(), "u1", "a1", uploads, nil))

	image, err := env.docs.Images().Get(t.Context(), "u1", "new.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, image.ContainingAlbums)
	assert.NotEmpty(t, image.URL)

	data, err := env.blobs.Download(t.Context(), "u1/new.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)
	assert.Equal(t, "image/jpeg", env.blobs.ContentType("u1/new.jpg"))

	album, err := env.docs.Albums().Get(t.Context(), "a1")
	require.NoError(t, err)
	assert.True(t, album.LastModified.After(imageBase))
}

func TestAddToAlbumRelinksExistingUpload(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", 1)
	env.addAlbum(t, "a1", "u1", imageBase)
	env.addAlbum(t, "a2", "u1", imageBase)
	env.addImage(t, "u1", "shared.jpg", imageBase, "a1")

	uploads := []ImageUpload{
		{FileName: "shared.jpg", Timestamp: imageBase, Data: []byte("new bytes")},
	}
	require.NoError(t, env.svc.AddToAlbum(t.Context(), "u1", "a2", uploads, nil))

	image, err := env.docs.Images().Get(t.Context(), "u1", "shared.jpg")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a1", "a2"}, image.ContainingAlbums)
}

func TestAddToAlbumLinksExistingImages(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", 1)
	env.addAlbum(t, "a1", "u1", imageBase)
	env.addAlbum(t, "a2", "u1", imageBase)
	env.addImage(t, "u1", "one.jpg", imageBase, "a1")

	require.NoError(t, env.svc.AddToAlbum(t.Context(), "u1", "a2", nil, []string{"one.jpg"}))

	image, err := env.docs.Images().Get(t.Context(), "u1", "one.jpg")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a1", "a2"}, image.ContainingAlbums)
}

func TestAddToAlbumLinkMissingImage(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", 1)
	env.addAlbum(t, "a1", "u1", imageBase)

	err := env.svc.AddToAlbum(t.Context(), "u1", "a1", nil, []string{"missing.jpg"})
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestAddToAlbumPermission(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", 1)
	env.addUser(t, "u2", 1)
	env.addAlbum(t, "a1", "u1", imageBase)

	err := env.svc.AddToAlbum(t.Context(), "u2", "a1", nil, nil)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = env.svc.AddToAlbum(t.Context(), "u1", "missing", nil, nil)
	assert.ErrorIs(t, err, ErrAlbumNotFound)
}

func TestRemoveFromAlbumRetainsLinkedImage(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", 1)
	env.addAlbum(t, "a1", "u1", imageBase)
	env.addAlbum(t, "a2", "u1", imageBase)
	env.addImage(t, "u1", "i3.jpg", imageBase, "a1", "a2")

	deleted, err := env.svc.RemoveFromAlbum(t.Context(), "u1", "a1", []string{"i3.jpg"})
	require.NoError(t, err)
	assert.Empty(t, deleted)

	image, err := env.docs.Images().Get(t.Context(), "u1", "i3.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, image.ContainingAlbums)
}

func TestRemoveFromAlbumDeletesOrphan(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", 1)
	env.addAlbum(t, "a1", "u1", imageBase)
	env.addImage(t, "u1", "only.jpg", imageBase, "a1")

	deleted, err := env.svc.RemoveFromAlbum(t.Context(), "u1", "a1", []string{"only.jpg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"only.jpg"}, deleted)

	assert.False(t, env.imageExists(t, "u1", "only.jpg"))
	assert.Equal(t, 0, env.blobs.Len())
}

func TestRemoveFromAlbumPermissionLeavesLinksUnchanged(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", 1)
	env.addUser(t, "other", 1)
	env.addAlbum(t, "a5", "u1", imageBase)
	env.addImage(t, "u1", "i3.jpg", imageBase, "a5")

	_, err := env.svc.RemoveFromAlbum(t.Context(), "other", "a5", []string{"i3.jpg"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	image, err := env.docs.Images().Get(t.Context(), "u1", "i3.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"a5"}, image.ContainingAlbums)
}

func TestRemoveFromAlbumMissingImage(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", 1)
	env.addAlbum(t, "a1", "u1", imageBase)

	_, err := env.svc.RemoveFromAlbum(t.Context(), "u1", "a1", []string{"ghost.jpg"})
	assert.ErrorIs(t, err, ErrImageNotFound)
}
