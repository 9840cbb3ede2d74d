package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"Empty", []byte{}},
		{"Small", []byte(`{"status_code":200}`)},
		{"MultiChunk", bytes.Repeat([]byte("x"), MaxChunkSize*3+17)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			require.NoError(t, WriteFrame(buf, tc.body))

			got, err := ReadFrame(buf)
			require.NoError(t, err)
			assert.Equal(t, tc.body, got)
		})
	}
}

func TestReadFrameEOFOnPrefix(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader(nil))
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadFrameShortPrefix(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte{0x00, 0x01}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestReadFrameTruncatedBody(t *testing.T) {
	buf := new(bytes.Buffer)
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], 100)
	buf.Write(prefix[:])
	buf.WriteString("only a few bytes")

	_, err := ReadFrame(buf)
	assert.ErrorIs(t, err, ErrFrameTruncated)
}

func TestRequestRoundTrip(t *testing.T) {
	tag := 3
	req := &Request{
		Type:  AddToAlbum,
		Token: "opaque-token",
		Args: Args{
			AlbumID: "album-1",
		},
		Payload: []ImageUpload{
			{
				FileName:  "IMG_0001.jpg",
				Timestamp: time.Date(2022, 3, 19, 16, 13, 22, 0, time.UTC),
				Tag:       &tag,
				Data:      []byte{0xff, 0xd8, 0xff, 0xe0},
			},
		},
	}

	buf := new(bytes.Buffer)
	require.NoError(t, WriteRequest(buf, req))

	got, err := ReadRequest(buf)
	require.NoError(t, err)
	assert.Equal(t, req.Type, got.Type)
	assert.Equal(t, req.Token, got.Token)
	assert.Equal(t, req.Args.AlbumID, got.Args.AlbumID)
	require.Len(t, got.Payload, 1)
	assert.Equal(t, req.Payload[0].FileName, got.Payload[0].FileName)
	assert.True(t, req.Payload[0].Timestamp.Equal(got.Payload[0].Timestamp))
	require.NotNil(t, got.Payload[0].Tag)
	assert.Equal(t, tag, *got.Payload[0].Tag)
	assert.Equal(t, req.Payload[0].Data, got.Payload[0].Data)
}

func TestRequestUserIDNeverOnWire(t *testing.T) {
	req := &Request{Type: CheckUserExists, Token: "t", UserID: "forged-uid"}

	buf := new(bytes.Buffer)
	require.NoError(t, WriteRequest(buf, req))

	assert.NotContains(t, buf.String(), "forged-uid")

	got, err := ReadRequest(buf)
	require.NoError(t, err)
	assert.Empty(t, got.UserID)
}

func TestSyncArgsRoundTrip(t *testing.T) {
	ts := time.Date(2022, 5, 1, 10, 0, 0, 0, time.UTC)
	req := &Request{
		Type:  SyncAlbumDetails,
		Token: "t",
		Args: Args{
			Albums: map[string]time.Time{"a1": ts},
		},
	}

	buf := new(bytes.Buffer)
	require.NoError(t, WriteRequest(buf, req))

	got, err := ReadRequest(buf)
	require.NoError(t, err)
	require.Contains(t, got.Args.Albums, "a1")
	assert.True(t, ts.Equal(got.Args.Albums["a1"]))
}

func TestReadRequestBadJSON(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, WriteFrame(buf, []byte("not json at all")))

	_, err := ReadRequest(buf)
	assert.Error(t, err)
}

func TestResponseRoundTrip(t *testing.T) {
	res := NewResponse(StatusOK, map[string]any{"usr_count": 3})

	buf := new(bytes.Buffer)
	require.NoError(t, WriteResponse(buf, res))

	got, err := ReadResponse(buf)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, got.Status)

	payload, ok := got.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), payload["usr_count"])
}

func TestErrorResponseCarriesNoPayload(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, WriteResponse(buf, NewErrorResponse(StatusUnauthorized)))

	assert.NotContains(t, buf.String(), "payload")

	got, err := ReadResponse(buf)
	require.NoError(t, err)
	assert.Equal(t, StatusUnauthorized, got.Status)
	assert.Nil(t, got.Payload)
}

func TestRequestTypeNames(t *testing.T) {
	assert.Equal(t, "sync-album-details", SyncAlbumDetails.String())
	assert.Equal(t, "unknown", RequestType(99).String())
	assert.True(t, DeleteAlbum.Known())
	assert.False(t, RequestType(99).Known())
}
