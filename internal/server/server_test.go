package server

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roky360/fotogo-bakcend/internal/protocol"
	"github.com/Roky360/fotogo-bakcend/pkg/identity"
	"github.com/Roky360/fotogo-bakcend/pkg/models"
	"github.com/Roky360/fotogo-bakcend/pkg/service"
	blobmemory "github.com/Roky360/fotogo-bakcend/pkg/store/blob/memory"
	docmemory "github.com/Roky360/fotogo-bakcend/pkg/store/document/memory"
)

const (
	testToken      = "valid-token"
	testAdminToken = "admin-token"
)

type serverEnv struct {
	addr  string
	docs  *docmemory.Store
	blobs *blobmemory.Store
}

func startTestServer(t *testing.T) *serverEnv {
	t.Helper()

	docs := docmemory.NewStore()
	blobs := blobmemory.NewStore()
	svc := service.New(docs, blobs)

	verifier := &identity.StaticVerifier{Tokens: map[string]identity.Identity{
		testToken:      {UserID: "u1", Email: "u1@example.com", DisplayName: "User One"},
		testAdminToken: {UserID: "admin", Email: "admin@example.com"},
	}}

	srv := New(Config{
		BindAddress:     "127.0.0.1",
		Port:            0,
		MaxConnections:  16,
		ShutdownTimeout: 2 * time.Second,
	}, verifier, NewHandlerRegistry(svc), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not shut down in time")
		}
	})

	return &serverEnv{addr: srv.Addr(), docs: docs, blobs: blobs}
}

func (e *serverEnv) addUser(t *testing.T, id string, privilege int) {
	t.Helper()
	err := e.docs.Users().Put(context.Background(), &models.User{
		ID:             id,
		PrivilegeLevel: privilege,
	})
	require.NoError(t, err)
}

// roundTrip sends one request and reads the single response.
func (e *serverEnv) roundTrip(t *testing.T, req *protocol.Request) *protocol.Response {
	t.Helper()

	conn, err := net.Dial("tcp", e.addr)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, protocol.WriteRequest(conn, req))

	resp, err := protocol.ReadResponse(conn)
	require.NoError(t, err)
	return resp
}

func TestUserAuthSuccess(t *testing.T) {
	env := startTestServer(t)

	resp := env.roundTrip(t, &protocol.Request{Type: protocol.UserAuth, Token: testToken})
	assert.Equal(t, protocol.StatusOK, resp.Status)
}

func TestBadTokenIsUnauthorized(t *testing.T) {
	env := startTestServer(t)

	for _, op := range []protocol.RequestType{protocol.UserAuth, protocol.SyncAlbumDetails, protocol.DeleteAccount} {
		resp := env.roundTrip(t, &protocol.Request{Type: op, Token: "forged"})
		assert.Equal(t, protocol.StatusUnauthorized, resp.Status, "op %s", op)
	}
}

func TestUnknownOperationIsInternalError(t *testing.T) {
	env := startTestServer(t)

	resp := env.roundTrip(t, &protocol.Request{Type: protocol.RequestType(99), Token: testToken})
	assert.Equal(t, protocol.StatusInternalError, resp.Status)
}

func TestMalformedFrameIsBadRequest(t *testing.T) {
	env := startTestServer(t)

	conn, err := net.Dial("tcp", env.addr)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	// Valid length prefix, body that is not JSON.
	body := []byte("not json at all")
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(body)))
	_, err = conn.Write(append(prefix[:], body...))
	require.NoError(t, err)

	resp, err := protocol.ReadResponse(conn)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusBadRequest, resp.Status)
}

func TestForgedUserIDIsIgnored(t *testing.T) {
	env := startTestServer(t)
	env.addUser(t, "u1", models.PrivilegeUser)
	env.addUser(t, "victim", models.PrivilegeAdmin)

	// The request claims to be "victim" but the token resolves to "u1",
	// which is not an admin.
	conn, err := net.Dial("tcp", env.addr)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	raw, err := json.Marshal(map[string]any{
		"request_id": int(protocol.GenerateStatistics),
		"id_token":   testToken,
		"user_id":    "victim",
	})
	require.NoError(t, err)
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(raw)))
	_, err = conn.Write(append(prefix[:], raw...))
	require.NoError(t, err)

	resp, err := protocol.ReadResponse(conn)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusForbidden, resp.Status)
}

func TestCreateAccountStoresIdentity(t *testing.T) {
	env := startTestServer(t)

	resp := env.roundTrip(t, &protocol.Request{Type: protocol.CreateAccount, Token: testToken})
	assert.Equal(t, protocol.StatusCreated, resp.Status)

	user, err := env.docs.Users().Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", user.Email)
	assert.Equal(t, "User One", user.DisplayName)
}

func TestCheckUserExists(t *testing.T) {
	env := startTestServer(t)

	resp := env.roundTrip(t, &protocol.Request{Type: protocol.CheckUserExists, Token: testToken})
	require.Equal(t, protocol.StatusOK, resp.Status)
	assert.Equal(t, float64(models.PrivilegeUnregistered), resp.Payload)

	env.addUser(t, "u1", models.PrivilegeUser)
	resp = env.roundTrip(t, &protocol.Request{Type: protocol.CheckUserExists, Token: testToken})
	require.Equal(t, protocol.StatusOK, resp.Status)
	assert.Equal(t, float64(models.PrivilegeUser), resp.Payload)
}

func TestAlbumLifecycleOverWire(t *testing.T) {
	env := startTestServer(t)
	env.addUser(t, "u1", models.PrivilegeUser)

	// Create an album.
	resp := env.roundTrip(t, &protocol.Request{
		Type:  protocol.CreateAlbum,
		Token: testToken,
		Args:  protocol.Args{AlbumData: &protocol.AlbumData{Name: "Trip"}},
	})
	require.Equal(t, protocol.StatusCreated, resp.Status)
	albumID, ok := resp.Payload.(string)
	require.True(t, ok, "payload %T", resp.Payload)
	require.NotEmpty(t, albumID)

	// Upload an image into it.
	resp = env.roundTrip(t, &protocol.Request{
		Type:  protocol.AddToAlbum,
		Token: testToken,
		Args:  protocol.Args{AlbumID: albumID},
		Payload: []protocol.ImageUpload{
			{FileName: "photo.jpg", Timestamp: time.Now().UTC(), Data: []byte("bytes")},
		},
	})
	require.Equal(t, protocol.StatusCreated, resp.Status)

	// Full sync returns the album with its cover image.
	resp = env.roundTrip(t, &protocol.Request{Type: protocol.SyncAlbumDetails, Token: testToken})
	require.Equal(t, protocol.StatusOK, resp.Status)

	raw, err := json.Marshal(resp.Payload)
	require.NoError(t, err)
	var albums []models.AlbumDetails
	require.NoError(t, json.Unmarshal(raw, &albums))
	require.Len(t, albums, 1)
	assert.Equal(t, albumID, albums[0].ID)
	assert.Equal(t, "photo.jpg", albums[0].CoverImage)

	// Delete the album; the sole image is orphaned and reported.
	resp = env.roundTrip(t, &protocol.Request{
		Type:  protocol.DeleteAlbum,
		Token: testToken,
		Args:  protocol.Args{AlbumID: albumID},
	})
	require.Equal(t, protocol.StatusOK, resp.Status)
	assert.Equal(t, []any{"photo.jpg"}, resp.Payload)
}

func TestDeleteMissingAlbumIsNotFound(t *testing.T) {
	env := startTestServer(t)
	env.addUser(t, "u1", models.PrivilegeUser)

	resp := env.roundTrip(t, &protocol.Request{
		Type:  protocol.DeleteAlbum,
		Token: testToken,
		Args:  protocol.Args{AlbumID: "missing"},
	})
	assert.Equal(t, protocol.StatusNotFound, resp.Status)
}

func TestMissingArgsIsBadRequest(t *testing.T) {
	env := startTestServer(t)
	env.addUser(t, "u1", models.PrivilegeUser)

	resp := env.roundTrip(t, &protocol.Request{Type: protocol.CreateAlbum, Token: testToken})
	assert.Equal(t, protocol.StatusBadRequest, resp.Status)

	resp = env.roundTrip(t, &protocol.Request{Type: protocol.GetAlbumContents, Token: testToken})
	assert.Equal(t, protocol.StatusBadRequest, resp.Status)
}

func TestAdminOperationsForbiddenForUsers(t *testing.T) {
	env := startTestServer(t)
	env.addUser(t, "u1", models.PrivilegeUser)
	env.addUser(t, "admin", models.PrivilegeAdmin)

	resp := env.roundTrip(t, &protocol.Request{Type: protocol.GenerateStatistics, Token: testToken})
	assert.Equal(t, protocol.StatusForbidden, resp.Status)

	resp = env.roundTrip(t, &protocol.Request{Type: protocol.GenerateStatistics, Token: testAdminToken})
	require.Equal(t, protocol.StatusOK, resp.Status)

	raw, err := json.Marshal(resp.Payload)
	require.NoError(t, err)
	var stats models.Statistics
	require.NoError(t, json.Unmarshal(raw, &stats))
	assert.Equal(t, 2, stats.UserCount)
}

func TestGracefulShutdownWaitsForInflight(t *testing.T) {
	docs := docmemory.NewStore()
	blobs := blobmemory.NewStore()
	svc := service.New(docs, blobs)
	verifier := identity.NewStaticVerifier(testToken, identity.Identity{UserID: "u1"})

	srv := New(Config{
		BindAddress:     "127.0.0.1",
		Port:            0,
		ShutdownTimeout: 2 * time.Second,
	}, verifier, NewHandlerRegistry(svc), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx)
	}()

	// Open a connection and send a request before triggering shutdown.
	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, protocol.WriteRequest(conn, &protocol.Request{Type: protocol.UserAuth, Token: testToken}))

	// Wait for the accept loop to pick the connection up before triggering
	// shutdown, so the request is genuinely in flight.
	require.Eventually(t, func() bool {
		return srv.ActiveConnections() == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	resp, err := protocol.ReadResponse(conn)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusOK, resp.Status)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
