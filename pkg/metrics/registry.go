// Package metrics holds the process-wide Prometheus registry and the
// metrics interfaces consumed by the server.
//
// Metrics are opt-in: call InitRegistry during startup to enable them.
// Constructors in the prometheus subpackage return nil when the registry
// was never initialized, and callers treat a nil metrics value as disabled
// with zero overhead.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	mu       sync.RWMutex
	registry *prometheus.Registry
)

// InitRegistry creates the process registry with the standard Go and
// process collectors. Calling it twice is a no-op.
func InitRegistry() {
	mu.Lock()
	defer mu.Unlock()

	if registry != nil {
		return
	}
	registry = prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return registry != nil
}

// GetRegistry returns the process registry, or nil when metrics are
// disabled.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}
