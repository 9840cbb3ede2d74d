package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Roky360/fotogo-bakcend/internal/logger"
	"github.com/Roky360/fotogo-bakcend/pkg/store/blob"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document"
)

// Server provides the HTTP server for the health and metrics endpoints.
//
// Endpoints:
//   - GET /health: Liveness probe
//   - GET /health/ready: Readiness probe
//   - GET /health/stores: Detailed store health
//   - GET /metrics: Prometheus exposition (when metrics are enabled)
//
// The server supports graceful shutdown with configurable timeout.
type Server struct {
	server       *http.Server
	config       APIConfig
	shutdownOnce sync.Once
}

// NewServer creates a new API HTTP server.
//
// The server is created in a stopped state. Call Start() to begin serving
// requests.
//
// Defaults are applied here so the server works correctly even when created
// directly (e.g., in tests). This is idempotent with the defaults applied
// during config loading.
func NewServer(config APIConfig, docs document.Store, blobs blob.Store) *Server {
	config.applyDefaults()

	router := NewRouter(docs, blobs)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		server: server,
		config: config,
	}
}

// Start starts the API HTTP server and blocks until the context is
// cancelled or an error occurs.
//
// When the context is cancelled, Start initiates graceful shutdown and
// returns nil on success.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "port", s.config.Port)
		logger.Debug("API endpoints available",
			"health", fmt.Sprintf("http://localhost:%d/health", s.config.Port),
			"ready", fmt.Sprintf("http://localhost:%d/health/ready", s.config.Port),
			"stores", fmt.Sprintf("http://localhost:%d/health/stores", s.config.Port),
		)

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
				// Context was cancelled, error is not needed
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("API server shutdown signal received")
		// Don't reuse the cancelled ctx: it would abort the drain
		// immediately instead of giving in-flight requests time to finish.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("API server failed: %w", err)
	}
}

// Stop initiates graceful shutdown of the API server.
//
// Stop is safe to call multiple times and safe to call concurrently with
// Start().
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		logger.Debug("API server shutdown initiated")

		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("API server shutdown error: %w", err)
			logger.Error("API server shutdown error", logger.KeyError, err)
		} else {
			logger.Info("API server stopped gracefully")
		}
	})
	return shutdownErr
}

// Port returns the TCP port the server is configured to listen on.
func (s *Server) Port() int {
	return s.config.Port
}
