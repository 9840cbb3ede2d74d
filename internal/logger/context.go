package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds request-scoped logging context for one client connection.
type LogContext struct {
	Operation string    // Operation name (sync-album-details, add-to-album, ...)
	ClientIP  string    // Client IP address (without port)
	UserID    string    // Authenticated user id, empty before the auth gate ran
	StartTime time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext with the given client IP
func NewLogContext(clientIP string) *LogContext {
	return &LogContext{
		ClientIP:  clientIP,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		Operation: lc.Operation,
		ClientIP:  lc.ClientIP,
		UserID:    lc.UserID,
		StartTime: lc.StartTime,
	}
}

// WithOperation returns a copy with the operation name set
func (lc *LogContext) WithOperation(operation string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Operation = operation
	}
	return clone
}

// WithUser returns a copy with the authenticated user id set
func (lc *LogContext) WithUser(userID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.UserID = userID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
