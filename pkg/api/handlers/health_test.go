package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	blobmemory "github.com/Roky360/fotogo-bakcend/pkg/store/blob/memory"
	docmemory "github.com/Roky360/fotogo-bakcend/pkg/store/document/memory"
)

func TestLiveness_ReturnsOK(t *testing.T) {
	handler := NewHealthHandler(nil, nil)
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	handler.Liveness(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", resp.Status)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected Data to be a map, got %T", resp.Data)
	}

	if data["service"] != "fotogo" {
		t.Errorf("Expected service 'fotogo', got '%s'", data["service"])
	}
}

func TestReadiness_NoStores_Returns503(t *testing.T) {
	handler := NewHealthHandler(nil, nil)
	req := httptest.NewRequest("GET", "/health/ready", nil)
	w := httptest.NewRecorder()

	handler.Readiness(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Error != "document store not configured" {
		t.Errorf("Expected error 'document store not configured', got '%s'", resp.Error)
	}
}

func TestReadiness_BothStores_ReturnsOK(t *testing.T) {
	handler := NewHealthHandler(docmemory.NewStore(), blobmemory.NewStore())
	req := httptest.NewRequest("GET", "/health/ready", nil)
	w := httptest.NewRecorder()

	handler.Readiness(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestStores_HealthyStores_ReturnsOK(t *testing.T) {
	handler := NewHealthHandler(docmemory.NewStore(), blobmemory.NewStore())
	req := httptest.NewRequest("GET", "/health/stores", nil)
	w := httptest.NewRecorder()

	handler.Stores(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", resp.Status)
	}
}

func TestStores_MissingBlobStore_Returns503(t *testing.T) {
	handler := NewHealthHandler(docmemory.NewStore(), nil)
	req := httptest.NewRequest("GET", "/health/stores", nil)
	w := httptest.NewRecorder()

	handler.Stores(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Status != "unhealthy" {
		t.Errorf("Expected status 'unhealthy', got '%s'", resp.Status)
	}
}

func TestClosedBlobStore_Returns503(t *testing.T) {
	blobs := blobmemory.NewStore()
	if err := blobs.Close(); err != nil {
		t.Fatalf("Failed to close blob store: %v", err)
	}

	handler := NewHealthHandler(docmemory.NewStore(), blobs)
	req := httptest.NewRequest("GET", "/health/stores", nil)
	w := httptest.NewRecorder()

	handler.Stores(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
}
