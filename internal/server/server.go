// Package server implements the TCP front end: the accept loop, the
// one-request-per-connection lifecycle, the authentication gate, and the
// operation dispatcher.
package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Roky360/fotogo-bakcend/internal/logger"
	"github.com/Roky360/fotogo-bakcend/pkg/identity"
	"github.com/Roky360/fotogo-bakcend/pkg/metrics"
)

// Config holds the TCP server configuration.
type Config struct {
	// BindAddress is the IP address to bind to. Empty binds all interfaces.
	BindAddress string

	// Port is the TCP port to listen on.
	Port int

	// MaxConnections limits concurrent client connections. 0 means
	// unlimited.
	MaxConnections int

	// ShutdownTimeout is the maximum time to wait for in-flight
	// connections during graceful shutdown.
	ShutdownTimeout time.Duration
}

// Server owns the accept loop and the per-connection goroutines.
//
// Thread safety: all exported methods are safe for concurrent use; Stop is
// idempotent via sync.Once.
type Server struct {
	config   Config
	verifier identity.Verifier
	registry *Registry
	metrics  metrics.ServerMetrics

	listener   net.Listener
	listenerMu sync.RWMutex

	// ListenerReady is closed when the listener accepts connections.
	// Used by tests to synchronize with startup.
	ListenerReady chan struct{}

	activeConns  sync.WaitGroup
	connCount    atomic.Int32
	shutdown     chan struct{}
	shutdownOnce sync.Once

	// shutdownCtx is cancelled during shutdown so in-flight handlers can
	// abort collaborator calls.
	shutdownCtx    context.Context
	cancelRequests context.CancelFunc

	// connSemaphore bounds admission when MaxConnections > 0.
	connSemaphore chan struct{}

	// activeConnections maps remote address to net.Conn for read
	// interruption and forced closure during shutdown.
	activeConnections sync.Map
}

// New creates a Server. The registry must be fully populated; it is not
// mutated after this point.
func New(config Config, verifier identity.Verifier, registry *Registry, m metrics.ServerMetrics) *Server {
	var connSemaphore chan struct{}
	if config.MaxConnections > 0 {
		connSemaphore = make(chan struct{}, config.MaxConnections)
	}

	shutdownCtx, cancelRequests := context.WithCancel(context.Background())

	return &Server{
		config:         config,
		verifier:       verifier,
		registry:       registry,
		metrics:        m,
		ListenerReady:  make(chan struct{}),
		shutdown:       make(chan struct{}),
		shutdownCtx:    shutdownCtx,
		cancelRequests: cancelRequests,
		connSemaphore:  connSemaphore,
	}
}

// Serve runs the accept loop until ctx is cancelled or Stop is called.
// Returns nil on graceful shutdown.
func (s *Server) Serve(ctx context.Context) error {
	listenAddr := fmt.Sprintf("%s:%d", s.config.BindAddress, s.config.Port)
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("failed to create listener on %s: %w", listenAddr, err)
	}

	s.listenerMu.Lock()
	s.listener = listener
	s.listenerMu.Unlock()
	close(s.ListenerReady)

	logger.Info("server listening", "address", listener.Addr().String())

	go func() {
		<-ctx.Done()
		s.initiateShutdown()
	}()

	for {
		if s.connSemaphore != nil {
			select {
			case s.connSemaphore <- struct{}{}:
			case <-s.shutdown:
				return s.gracefulShutdown()
			}
		}

		conn, err := listener.Accept()
		if err != nil {
			if s.connSemaphore != nil {
				<-s.connSemaphore
			}
			select {
			case <-s.shutdown:
				return s.gracefulShutdown()
			default:
				logger.Debug("error accepting connection", logger.KeyError, err)
				if s.metrics != nil {
					s.metrics.RecordConnectionRejected()
				}
				continue
			}
		}

		if tcp, ok := conn.(*net.TCPConn); ok {
			if err := tcp.SetNoDelay(true); err != nil {
				logger.Debug("failed to set TCP_NODELAY", logger.KeyError, err)
			}
		}

		s.activeConns.Add(1)
		active := s.connCount.Add(1)

		addr := conn.RemoteAddr().String()
		s.activeConnections.Store(addr, conn)

		if s.metrics != nil {
			s.metrics.RecordConnectionAccepted()
			s.metrics.SetActiveConnections(int64(active))
		}
		logger.Debug("connection accepted", logger.KeyClientIP, addr, "active", active)

		go func(addr string, conn net.Conn) {
			defer func() {
				s.activeConnections.Delete(addr)
				s.activeConns.Done()
				remaining := s.connCount.Add(-1)
				if s.connSemaphore != nil {
					<-s.connSemaphore
				}
				if s.metrics != nil {
					s.metrics.SetActiveConnections(int64(remaining))
				}
				logger.Debug("connection closed", logger.KeyClientIP, addr, "active", remaining)
			}()

			s.handleConnection(s.shutdownCtx, conn)
		}(addr, conn)
	}
}

// initiateShutdown stops accepting, interrupts blocked reads, and cancels
// in-flight request contexts. Safe to call multiple times.
func (s *Server) initiateShutdown() {
	s.shutdownOnce.Do(func() {
		logger.Debug("shutdown initiated")
		close(s.shutdown)

		s.listenerMu.Lock()
		if s.listener != nil {
			if err := s.listener.Close(); err != nil {
				logger.Debug("error closing listener", logger.KeyError, err)
			}
		}
		s.listenerMu.Unlock()

		s.interruptBlockingReads()
		s.cancelRequests()
	})
}

// interruptBlockingReads sets a short deadline on every active connection
// so a handler blocked in a frame read wakes up during shutdown.
func (s *Server) interruptBlockingReads() {
	deadline := time.Now().Add(100 * time.Millisecond)

	s.activeConnections.Range(func(key, value any) bool {
		if conn, ok := value.(net.Conn); ok {
			if err := conn.SetReadDeadline(deadline); err != nil {
				logger.Debug("error setting shutdown deadline",
					logger.KeyClientIP, key, logger.KeyError, err)
			}
		}
		return true
	})
}

// gracefulShutdown waits for in-flight connections up to ShutdownTimeout,
// then force-closes the stragglers.
func (s *Server) gracefulShutdown() error {
	active := s.connCount.Load()
	logger.Info("graceful shutdown: waiting for active connections",
		"active", active, "timeout", s.config.ShutdownTimeout)

	done := make(chan struct{})
	go func() {
		s.activeConns.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("graceful shutdown complete")
		return nil

	case <-time.After(s.config.ShutdownTimeout):
		remaining := s.connCount.Load()
		logger.Warn("shutdown timeout exceeded, forcing closure", "active", remaining)
		s.forceCloseConnections()
		return fmt.Errorf("shutdown timeout: %d connections force-closed", remaining)
	}
}

func (s *Server) forceCloseConnections() {
	s.activeConnections.Range(func(key, value any) bool {
		if conn, ok := value.(net.Conn); ok {
			if err := conn.Close(); err != nil {
				logger.Debug("error force-closing connection",
					logger.KeyClientIP, key, logger.KeyError, err)
			}
		}
		return true
	})
}

// Stop initiates graceful shutdown and waits for in-flight connections.
// Safe to call multiple times and concurrently with Serve.
func (s *Server) Stop(ctx context.Context) error {
	s.initiateShutdown()

	done := make(chan struct{})
	go func() {
		s.activeConns.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.forceCloseConnections()
		return ctx.Err()
	}
}

// Addr returns the address the server is listening on. Blocks until the
// listener is ready, making it safe for tests.
func (s *Server) Addr() string {
	<-s.ListenerReady

	s.listenerMu.RLock()
	defer s.listenerMu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// ActiveConnections returns the current number of in-flight connections.
func (s *Server) ActiveConnections() int32 {
	return s.connCount.Load()
}
