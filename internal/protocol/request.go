package protocol

import (
	"time"

	"github.com/Roky360/fotogo-bakcend/pkg/models"
)

// AlbumData carries the client-editable album fields for create-album and
// update-album requests.
type AlbumData struct {
	Name           string           `json:"name"`
	DateRange      models.DateRange `json:"date_range"`
	IsBuilt        bool             `json:"is_built,omitempty"`
	Tags           []int            `json:"tags,omitempty"`
	PermittedUsers []string         `json:"permitted_users,omitempty"`
}

// Args holds the operation-specific request arguments. Each operation reads
// only the fields it defines; everything else is ignored.
type Args struct {
	// AlbumData is set for create-album and update-album.
	AlbumData *AlbumData `json:"album_data,omitempty"`

	// AlbumID targets a specific album (get-album-contents, update-album,
	// add-to-album, remove-from-album, delete-album).
	AlbumID string `json:"album_id,omitempty"`

	// ImageIDs lists target images for remove-from-album.
	ImageIDs []string `json:"images_id,omitempty"`

	// Albums is the client's album cache snapshot for sync-album-details:
	// album id mapped to the locally cached last_modified. An empty map
	// requests a full sync.
	Albums map[string]time.Time `json:"albums,omitempty"`
}

// ImageUpload is one payload item of an add-to-album request. Data carries
// the raw image bytes (base64 on the wire, per encoding/json []byte rules).
type ImageUpload struct {
	FileName  string           `json:"file_name"`
	Timestamp time.Time        `json:"timestamp"`
	Location  *models.GeoPoint `json:"location,omitempty"`
	Tag       *int             `json:"tag,omitempty"`
	Data      []byte           `json:"data"`
}

// Request is one decoded client request.
//
// UserID is deliberately excluded from the wire format: whatever identity a
// client claims is discarded, and the field is populated exactly once by the
// authentication gate from the verified credential token.
type Request struct {
	Type    RequestType   `json:"request_id"`
	Token   string        `json:"id_token"`
	Args    Args          `json:"args"`
	Payload []ImageUpload `json:"payload,omitempty"`

	UserID string `json:"-"`
}

// Response is one server reply. Payload is operation-specific and omitted
// entirely for no-content responses. Error responses never carry payload
// detail beyond the status code.
type Response struct {
	Status  StatusCode `json:"status_code"`
	Payload any        `json:"payload,omitempty"`
}

// NewResponse returns a response with the given status and payload.
func NewResponse(status StatusCode, payload any) *Response {
	return &Response{Status: status, Payload: payload}
}

// NewErrorResponse returns a payload-free response for the given status.
func NewErrorResponse(status StatusCode) *Response {
	return &Response{Status: status}
}
