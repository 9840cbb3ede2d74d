package server

import (
	"context"
	"errors"

	"github.com/Roky360/fotogo-bakcend/internal/logger"
	"github.com/Roky360/fotogo-bakcend/internal/protocol"
	"github.com/Roky360/fotogo-bakcend/pkg/service"
)

// Handler processes one authenticated request and returns the response
// payload. Domain failures are returned as errors and mapped to status
// codes at the dispatch boundary; a nil error means OK unless the handler
// declares a different success status in the registry.
type Handler func(ctx context.Context, req *protocol.Request) (any, error)

// Registry maps operation types to handlers. It is populated once during
// startup and never mutated afterwards; no locking is needed at dispatch
// time.
type Registry struct {
	handlers map[protocol.RequestType]registration
}

type registration struct {
	handler Handler

	// successStatus is the status sent when the handler returns nil error.
	successStatus protocol.StatusCode
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[protocol.RequestType]registration)}
}

// Register binds a handler to an operation type with StatusOK on success.
func (r *Registry) Register(t protocol.RequestType, h Handler) {
	r.RegisterWithStatus(t, h, protocol.StatusOK)
}

// RegisterWithStatus binds a handler with an explicit success status,
// e.g. StatusCreated for create-account.
func (r *Registry) RegisterWithStatus(t protocol.RequestType, h Handler, success protocol.StatusCode) {
	r.handlers[t] = registration{handler: h, successStatus: success}
}

// Dispatch routes an authenticated request to its handler and maps the
// outcome to a wire response. An unregistered operation type indicates a
// protocol or version mismatch and reports InternalError, not a client
// error.
func (r *Registry) Dispatch(ctx context.Context, req *protocol.Request) *protocol.Response {
	reg, ok := r.handlers[req.Type]
	if !ok {
		logger.ErrorCtx(ctx, "no handler registered for operation",
			logger.KeyOpCode, int(req.Type))
		return protocol.NewErrorResponse(protocol.StatusInternalError)
	}

	payload, err := reg.handler(ctx, req)
	if err != nil {
		return protocol.NewErrorResponse(statusForError(ctx, err))
	}
	return protocol.NewResponse(reg.successStatus, payload)
}

// statusForError maps domain errors to wire status codes. Unrecognized
// failures become InternalError so collaborator details never leak to the
// client.
func statusForError(ctx context.Context, err error) protocol.StatusCode {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAlbumNotFound),
		errors.Is(err, service.ErrImageNotFound):
		return protocol.StatusNotFound

	case errors.Is(err, service.ErrPermissionDenied):
		return protocol.StatusForbidden

	case errors.Is(err, errBadRequest):
		return protocol.StatusBadRequest

	default:
		logger.ErrorCtx(ctx, "request failed", logger.KeyError, err)
		return protocol.StatusInternalError
	}
}
