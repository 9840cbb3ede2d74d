package metrics

import "time"

// ServerMetrics provides observability for the request pipeline.
//
// This interface is optional: pass nil to disable collection with zero
// overhead. Callers must nil-check before invoking.
type ServerMetrics interface {
	// RecordRequest records a completed request with its operation name,
	// wire status code, and processing duration.
	RecordRequest(operation string, status int, duration time.Duration)

	// RecordConnectionAccepted increments the accepted-connection counter.
	RecordConnectionAccepted()

	// RecordConnectionRejected increments the rejected-connection counter.
	// Connections are rejected when the admission limit is reached.
	RecordConnectionRejected()

	// SetActiveConnections updates the in-flight connection gauge.
	SetActiveConnections(count int64)

	// RecordAuthFailure records an authentication failure by kind
	// (expired, revoked, invalid_signature, malformed, invalid).
	RecordAuthFailure(kind string)
}
