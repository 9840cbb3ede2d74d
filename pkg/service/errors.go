package service

import "errors"

// Domain errors recognized at the dispatch boundary and mapped to wire
// status codes. Anything else maps to InternalError.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrAlbumNotFound = errors.New("album not found")
	ErrImageNotFound = errors.New("image not found")

	// ErrPermissionDenied means the requesting user is not the owner of
	// the resource being mutated.
	ErrPermissionDenied = errors.New("permission denied")
)
