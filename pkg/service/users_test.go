package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roky360/fotogo-bakcend/pkg/identity"
	"github.com/Roky360/fotogo-bakcend/pkg/models"
)

func TestCheckUser(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "admin", models.PrivilegeAdmin)
	env.addUser(t, "u1", models.PrivilegeUser)

	level, err := env.svc.CheckUser(t.Context(), "admin")
	require.NoError(t, err)
	assert.Equal(t, models.PrivilegeAdmin, level)

	level, err = env.svc.CheckUser(t.Context(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.PrivilegeUser, level)

	level, err = env.svc.CheckUser(t.Context(), "stranger")
	require.NoError(t, err)
	assert.Equal(t, models.PrivilegeUnregistered, level)
}

func TestCreateAccountFromIdentity(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.CreateAccount(t.Context(), identity.Identity{
		UserID:      "u1",
		Email:       "u1@example.com",
		DisplayName: "First Last",
		PhotoURL:    "https://example.com/p.jpg",
	})
	require.NoError(t, err)

	user, err := env.docs.Users().Get(t.Context(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", user.Email)
	assert.Equal(t, "First Last", user.DisplayName)
	assert.Equal(t, models.PrivilegeUser, user.PrivilegeLevel)
}

func TestCreateAccountKeepsPrivilegeOnRefresh(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "admin", models.PrivilegeAdmin)

	err := env.svc.CreateAccount(t.Context(), identity.Identity{
		UserID: "admin",
		Email:  "new@example.com",
	})
	require.NoError(t, err)

	user, err := env.docs.Users().Get(t.Context(), "admin")
	require.NoError(t, err)
	assert.Equal(t, models.PrivilegeAdmin, user.PrivilegeLevel)
	assert.Equal(t, "new@example.com", user.Email)
}

func TestDeleteAccountSweepsEverything(t *testing.T) {
	env := newTestEnv(t)
	ts := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	env.addUser(t, "u1", models.PrivilegeUser)
	env.addUser(t, "u2", models.PrivilegeUser)
	env.addAlbum(t, "a1", "u1", ts)
	env.addAlbum(t, "keep", "u2", ts)
	env.addImage(t, "u1", "one.jpg", ts, "a1")
	env.addImage(t, "u2", "other.jpg", ts, "keep")

	require.NoError(t, env.svc.DeleteAccount(t.Context(), "u1"))

	ok, err := env.docs.Users().Exists(t.Context(), "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.False(t, env.albumExists(t, "a1"))
	assert.False(t, env.imageExists(t, "u1", "one.jpg"))

	// Other accounts untouched.
	assert.True(t, env.albumExists(t, "keep"))
	assert.True(t, env.imageExists(t, "u2", "other.jpg"))
	assert.Equal(t, 1, env.blobs.Len())
}

func TestDeleteAccountUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.DeleteAccount(t.Context(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
