package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Roky360/fotogo-bakcend/pkg/store/blob"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document"
)

// HealthHandler handles health check endpoints.
//
// Health endpoints are unauthenticated and provide:
//   - Liveness probe: Is the server process running?
//   - Readiness probe: Are both stores configured?
//   - Store health: Detailed per-store health with probe latency
type HealthHandler struct {
	docs  document.Store
	blobs blob.Store
}

// NewHealthHandler creates a new health handler.
//
// Either store may be nil, in which case readiness and store health report
// it as unhealthy.
func NewHealthHandler(docs document.Store, blobs blob.Store) *HealthHandler {
	return &HealthHandler{docs: docs, blobs: blobs}
}

// Liveness handles GET /health. It succeeds as long as the HTTP server is
// responsive, which is all a liveness probe wants to know.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "fotogo",
	}))
}

// Readiness handles GET /health/ready.
//
// Returns 200 OK when both stores are wired in, 503 Service Unavailable
// otherwise. It does not probe the stores; /health/stores does that.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.docs == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("document store not configured"))
		return
	}
	if h.blobs == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("blob store not configured"))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"document_store": "configured",
		"blob_store":     "configured",
	}))
}

// StoreHealth represents the health status of a single store.
type StoreHealth struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// StoresResponse represents the detailed store health response.
type StoresResponse struct {
	DocumentStore StoreHealth `json:"document_store"`
	BlobStore     StoreHealth `json:"blob_store"`
}

// Stores handles GET /health/stores.
//
// Probes both stores with a bounded timeout and reports per-store latency.
// Returns 200 OK if both are healthy, 503 Service Unavailable if either is
// not.
func (h *HealthHandler) Stores(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var docChecker, blobChecker healthChecker
	if h.docs != nil {
		docChecker = h.docs
	}
	if h.blobs != nil {
		blobChecker = h.blobs
	}

	response := StoresResponse{
		DocumentStore: probeStore(ctx, "document", docChecker),
		BlobStore:     probeStore(ctx, "blob", blobChecker),
	}

	if response.DocumentStore.Status == "healthy" && response.BlobStore.Status == "healthy" {
		writeJSON(w, http.StatusOK, healthyResponse(response))
	} else {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponseWithData(response))
	}
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func probeStore(ctx context.Context, storeType string, store healthChecker) StoreHealth {
	health := StoreHealth{Type: storeType}

	if store == nil {
		health.Status = "unhealthy"
		health.Error = "not configured"
		return health
	}

	start := time.Now()
	err := store.HealthCheck(ctx)
	health.Latency = time.Since(start).String()

	if err != nil {
		health.Status = "unhealthy"
		health.Error = err.Error()
	} else {
		health.Status = "healthy"
	}
	return health
}
