package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Roky360/fotogo-bakcend/internal/logger"
)

// Response is the envelope every API endpoint replies with.
//
//   - Status indicates the overall result ("healthy", "unhealthy")
//   - Timestamp provides response time for debugging and caching
//   - Data contains the endpoint payload (optional)
//   - Error contains failure details when Status indicates failure (optional)
type Response struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
//
// Encoding goes through a buffer first so an encoding failure can still be
// answered with an error response before any headers are sent.
func writeJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", logger.KeyError, err)
		http.Error(w, `{"status":"error","error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// healthyResponse creates a successful health check response.
func healthyResponse(data any) Response {
	return Response{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// unhealthyResponse creates a failed health check response with an error
// message.
func unhealthyResponse(errMsg string) Response {
	return Response{
		Status:    "unhealthy",
		Timestamp: time.Now().UTC(),
		Error:     errMsg,
	}
}

// unhealthyResponseWithData creates a failed health check response that
// still carries per-store detail.
func unhealthyResponseWithData(data any) Response {
	return Response{
		Status:    "unhealthy",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
