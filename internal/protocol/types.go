// Package protocol implements the fotogo wire protocol: length-prefixed
// frames carrying JSON request and response bodies.
//
// Frame layout: a 4-byte big-endian unsigned length prefix followed by
// exactly that many bytes of JSON. A request body carries the operation
// code, the opaque credential token, operation arguments, and an optional
// ordered payload list. A response body carries a status code and an
// operation-specific payload.
package protocol

// RequestType identifies the operation a client is requesting.
//
// The numeric values are part of the wire protocol and must never be
// renumbered.
type RequestType int

const (
	// Users
	UserAuth        RequestType = 0
	CheckUserExists RequestType = 1
	CreateAccount   RequestType = 2
	DeleteAccount   RequestType = 3
	// Albums
	CreateAlbum      RequestType = 4
	SyncAlbumDetails RequestType = 5
	GetAlbumContents RequestType = 6
	UpdateAlbum      RequestType = 7
	AddToAlbum       RequestType = 8
	RemoveFromAlbum  RequestType = 9
	DeleteAlbum      RequestType = 10
	// Admin
	GenerateStatistics RequestType = 11
	GetUsers           RequestType = 12
)

var requestTypeNames = map[RequestType]string{
	UserAuth:           "user-auth",
	CheckUserExists:    "check-user-exists",
	CreateAccount:      "create-account",
	DeleteAccount:      "delete-account",
	CreateAlbum:        "create-album",
	SyncAlbumDetails:   "sync-album-details",
	GetAlbumContents:   "get-album-contents",
	UpdateAlbum:        "update-album",
	AddToAlbum:         "add-to-album",
	RemoveFromAlbum:    "remove-from-album",
	DeleteAlbum:        "delete-album",
	GenerateStatistics: "generate-statistics",
	GetUsers:           "get-users",
}

// String returns the stable operation name used in logs and metrics.
func (t RequestType) String() string {
	if name, ok := requestTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Known reports whether t is a defined operation code.
func (t RequestType) Known() bool {
	_, ok := requestTypeNames[t]
	return ok
}

// StatusCode is the outcome code carried by every response. The values
// follow HTTP status semantics.
type StatusCode int

const (
	StatusOK            StatusCode = 200
	StatusCreated       StatusCode = 201
	StatusBadRequest    StatusCode = 400
	StatusUnauthorized  StatusCode = 401
	StatusForbidden     StatusCode = 403
	StatusNotFound      StatusCode = 404
	StatusInternalError StatusCode = 500
)

// String returns a short name for the status code.
func (s StatusCode) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusCreated:
		return "Created"
	case StatusBadRequest:
		return "BadRequest"
	case StatusUnauthorized:
		return "Unauthorized"
	case StatusForbidden:
		return "Forbidden"
	case StatusNotFound:
		return "NotFound"
	case StatusInternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}
