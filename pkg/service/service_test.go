package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Roky360/fotogo-bakcend/pkg/models"
	blobmemory "github.com/Roky360/fotogo-bakcend/pkg/store/blob/memory"
	docmemory "github.com/Roky360/fotogo-bakcend/pkg/store/document/memory"
)

type testEnv struct {
	svc   *Service
	docs  *docmemory.Store
	blobs *blobmemory.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	docs := docmemory.NewStore()
	blobs := blobmemory.NewStore()
	return &testEnv{
		svc:   New(docs, blobs),
		docs:  docs,
		blobs: blobs,
	}
}

func (e *testEnv) addUser(t *testing.T, id string, privilege int) {
	t.Helper()
	err := e.docs.Users().Put(context.Background(), &models.User{
		ID:             id,
		Email:          id + "@example.com",
		DisplayName:    "User " + id,
		PrivilegeLevel: privilege,
	})
	require.NoError(t, err)
}

func (e *testEnv) addAlbum(t *testing.T, id, ownerID string, lastModified time.Time) {
	t.Helper()
	err := e.docs.Albums().Put(context.Background(), &models.AlbumDetails{
		ID:           id,
		OwnerID:      ownerID,
		Name:         "Album " + id,
		LastModified: lastModified,
	})
	require.NoError(t, err)
}

func (e *testEnv) addImage(t *testing.T, ownerID, fileName string, ts time.Time, albums ...string) {
	t.Helper()
	err := e.docs.Images().Put(context.Background(), &models.Image{
		OwnerID:          ownerID,
		FileName:         fileName,
		Timestamp:        ts,
		ContainingAlbums: albums,
	})
	require.NoError(t, err)

	err = e.blobs.Upload(context.Background(), ownerID+"/"+fileName, []byte(fileName), "image/jpeg")
	require.NoError(t, err)
}

func (e *testEnv) imageExists(t *testing.T, ownerID, fileName string) bool {
	t.Helper()
	_, err := e.docs.Images().Get(context.Background(), ownerID, fileName)
	return err == nil
}

func (e *testEnv) albumExists(t *testing.T, albumID string) bool {
	t.Helper()
	_, err := e.docs.Albums().Get(context.Background(), albumID)
	return err == nil
}
