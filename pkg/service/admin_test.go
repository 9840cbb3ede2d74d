package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roky360/fotogo-bakcend/pkg/models"
)

func TestStatistics(t *testing.T) {
	env := newTestEnv(t)
	ts := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	env.addUser(t, "admin", models.PrivilegeAdmin)
	env.addUser(t, "u1", models.PrivilegeUser)
	env.addAlbum(t, "a1", "u1", ts)
	env.addImage(t, "u1", "one.jpg", ts, "a1")
	env.addImage(t, "u1", "two.jpg", ts, "a1")

	stats, err := env.svc.Statistics(t.Context(), "admin")
	require.NoError(t, err)
	assert.Equal(t, models.Statistics{UserCount: 2, AlbumCount: 1, ImageCount: 2}, stats)
}

func TestStatisticsRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", models.PrivilegeUser)

	_, err := env.svc.Statistics(t.Context(), "u1")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.svc.Statistics(t.Context(), "ghost")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUsersListing(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "admin", models.PrivilegeAdmin)
	env.addUser(t, "u1", models.PrivilegeUser)

	users, err := env.svc.Users(t.Context(), "admin")
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUsersRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", models.PrivilegeUser)

	_, err := env.svc.Users(t.Context(), "u1")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
