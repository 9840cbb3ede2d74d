package server

import (
	"context"
	"errors"
	"io"
	"net"
	"runtime/debug"
	"time"

	"github.com/Roky360/fotogo-bakcend/internal/logger"
	"github.com/Roky360/fotogo-bakcend/internal/protocol"
	"github.com/Roky360/fotogo-bakcend/pkg/identity"
)

// identityKey carries the verified identity through the request context so
// handlers that need profile claims (create-account) can read them.
type identityKey struct{}

// IdentityFromContext returns the verified identity attached by the
// authentication gate.
func IdentityFromContext(ctx context.Context) (*identity.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*identity.Identity)
	return id, ok
}

// handleConnection serves exactly one request on conn: decode, authenticate,
// dispatch, respond, half-close. The connection is never reused. Panics are
// contained here so a misbehaving handler cannot take down the accept loop.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	addr := conn.RemoteAddr().String()
	lc := logger.NewLogContext(addr)
	ctx = logger.WithContext(ctx, lc)

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCtx(ctx, "panic while handling connection",
				"panic", r, "stack", string(debug.Stack()))
			s.writeResponse(ctx, conn, protocol.NewErrorResponse(protocol.StatusInternalError))
		}
	}()

	start := time.Now()

	req, err := protocol.ReadRequest(conn)
	if err != nil {
		// Clients that connect and vanish without a byte are not worth a
		// BadRequest attempt.
		if errors.Is(err, io.EOF) {
			logger.DebugCtx(ctx, "connection closed before request")
			return
		}
		logger.WarnCtx(ctx, "failed to decode request", logger.KeyError, err)
		s.writeResponse(ctx, conn, protocol.NewErrorResponse(protocol.StatusBadRequest))
		return
	}

	operation := req.Type.String()
	ctx = logger.WithContext(ctx, lc.WithOperation(operation))

	resp := s.serveRequest(ctx, req)
	s.writeResponse(ctx, conn, resp)

	if s.metrics != nil {
		s.metrics.RecordRequest(operation, int(resp.Status), time.Since(start))
	}
	logger.InfoCtx(ctx, "request completed",
		logger.KeyOpCode, int(req.Type),
		logger.KeyStatus, int(resp.Status),
		logger.KeyDurationMs, logger.Duration(start))
}

// serveRequest runs the authentication gate and dispatches. Every failure
// kind from the verifier is logged distinctly but answered with the same
// Unauthorized status.
func (s *Server) serveRequest(ctx context.Context, req *protocol.Request) *protocol.Response {
	id, err := s.verifier.Verify(ctx, req.Token)
	if err != nil {
		kind := identity.FailureKind(err)
		logger.WarnCtx(ctx, "authentication failed", "kind", kind)
		if s.metrics != nil {
			s.metrics.RecordAuthFailure(kind)
		}
		return protocol.NewErrorResponse(protocol.StatusUnauthorized)
	}

	// The trusted user id comes only from the verified token; anything a
	// client managed to smuggle in is discarded.
	req.UserID = id.UserID

	if lc := logger.FromContext(ctx); lc != nil {
		ctx = logger.WithContext(ctx, lc.WithUser(id.UserID))
	}
	ctx = context.WithValue(ctx, identityKey{}, id)

	return s.registry.Dispatch(ctx, req)
}

// writeResponse sends the single response and half-closes the write side so
// the client sees a clean EOF after reading it.
func (s *Server) writeResponse(ctx context.Context, conn net.Conn, resp *protocol.Response) {
	if err := protocol.WriteResponse(conn, resp); err != nil {
		logger.WarnCtx(ctx, "failed to write response", logger.KeyError, err)
		return
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.CloseWrite(); err != nil {
			logger.DebugCtx(ctx, "failed to half-close connection", logger.KeyError, err)
		}
	}
}
