package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Roky360/fotogo-bakcend/internal/logger"
	"github.com/Roky360/fotogo-bakcend/internal/server"
	"github.com/Roky360/fotogo-bakcend/pkg/api"
	"github.com/Roky360/fotogo-bakcend/pkg/config"
	"github.com/Roky360/fotogo-bakcend/pkg/metrics"
	metricsprom "github.com/Roky360/fotogo-bakcend/pkg/metrics/prometheus"
	"github.com/Roky360/fotogo-bakcend/pkg/service"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the fotogo server",
	Long: `Start the fotogo server with the specified configuration.

The server runs in the foreground until interrupted. Use --config to
specify a custom configuration file, or it will use the default location
at $XDG_CONFIG_HOME/fotogo/config.yaml.

Examples:
  # Start with default config location
  fotogo start

  # Start with custom config file
  fotogo start --config /etc/fotogo/config.yaml

  # Start with environment variable overrides
  FOTOGO_LOGGING_LEVEL=DEBUG fotogo start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Cancelled on SIGINT/SIGTERM; everything downstream shuts down from
	// this one context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("configuration loaded", "source", getConfigSource(GetConfigFile()))

	// Metrics first, so stores and servers created below see an enabled
	// registry.
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		logger.Info("metrics enabled")
	} else {
		logger.Info("metrics collection disabled")
	}

	verifier, err := cfg.CreateVerifier()
	if err != nil {
		return err
	}

	docs, err := config.CreateDocumentStore(cfg.Document)
	if err != nil {
		return err
	}
	defer func() {
		if err := docs.Close(); err != nil {
			logger.Error("document store close error", logger.KeyError, err)
		}
	}()
	logger.Info("document store ready", "backend", cfg.Document.Backend)

	blobs, err := config.CreateBlobStore(ctx, cfg.Blob)
	if err != nil {
		return err
	}
	defer func() {
		if err := blobs.Close(); err != nil {
			logger.Error("blob store close error", logger.KeyError, err)
		}
	}()
	logger.Info("blob store ready", "backend", cfg.Blob.Backend)

	svc := service.New(docs, blobs)

	srv := server.New(server.Config{
		BindAddress:     cfg.Server.BindAddress,
		Port:            cfg.Server.Port,
		MaxConnections:  cfg.Server.MaxConnections,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, verifier, server.NewHandlerRegistry(svc), metricsprom.NewServerMetrics())

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Serve(ctx)
	}()
	logger.Info("photo protocol server listening", "port", cfg.Server.Port,
		"max_connections", cfg.Server.MaxConnections)

	// API server (if enabled - defaults to true)
	apiDone := make(chan error, 1)
	if cfg.API.IsEnabled() {
		apiServer := api.NewServer(cfg.API, docs, blobs)
		go func() {
			apiDone <- apiServer.Start(ctx)
		}()
		logger.Info("API server enabled", "port", apiServer.Port())
	} else {
		logger.Info("API server disabled")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("server is running, press Ctrl+C to stop")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, initiating graceful shutdown")
		cancel()

		if err := <-serverDone; err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		if cfg.API.IsEnabled() {
			if err := <-apiDone; err != nil {
				return fmt.Errorf("API server shutdown error: %w", err)
			}
		}
		logger.Info("server stopped gracefully")
		return nil

	case err := <-serverDone:
		signal.Stop(sigChan)
		cancel()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped")
		return nil

	case err := <-apiDone:
		signal.Stop(sigChan)
		cancel()
		if err != nil {
			return fmt.Errorf("API server error: %w", err)
		}
		return <-serverDone
	}
}

// getConfigSource returns a description of where the config was loaded
// from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
