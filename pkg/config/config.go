package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Roky360/fotogo-bakcend/pkg/api"
	badgerstore "github.com/Roky360/fotogo-bakcend/pkg/store/document/badger"
	s3store "github.com/Roky360/fotogo-bakcend/pkg/store/blob/s3"
)

// Config represents the fotogo server configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (FOTOGO_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Server configures the photo protocol TCP listener
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Metrics contains Prometheus metrics configuration
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// API contains the health/metrics HTTP server configuration
	API api.APIConfig `mapstructure:"api" yaml:"api"`

	// Document configures the document store backend
	Document DocumentConfig `mapstructure:"document" yaml:"document"`

	// Blob configures the blob store backend
	Blob BlobConfig `mapstructure:"blob" yaml:"blob"`

	// Identity configures credential token verification
	Identity IdentityConfig `mapstructure:"identity" yaml:"identity"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// ServerConfig configures the photo protocol TCP listener.
type ServerConfig struct {
	// BindAddress is the IP address to bind to. Empty binds all interfaces.
	BindAddress string `mapstructure:"bind_address" yaml:"bind_address"`

	// Port is the TCP port clients connect to.
	// Default: 20200
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`

	// MaxConnections bounds concurrently handled connections.
	// 0 means unlimited. Default: 256
	MaxConnections int `mapstructure:"max_connections" validate:"min=0" yaml:"max_connections"`

	// ShutdownTimeout is the maximum time to wait for in-flight
	// connections during graceful shutdown. Default: 30s
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// MetricsConfig configures Prometheus metrics collection.
// When Enabled is false, no metrics are collected (zero overhead) and the
// API server does not expose /metrics.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is enabled
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// DocumentConfig selects and configures the document store backend.
type DocumentConfig struct {
	// Backend selects the implementation
	// Valid values: badger, memory
	Backend string `mapstructure:"backend" validate:"required,oneof=badger memory" yaml:"backend"`

	// Badger holds BadgerDB settings (used when Backend is "badger")
	Badger badgerstore.Config `mapstructure:"badger" yaml:"badger"`
}

// BlobConfig selects and configures the blob store backend.
type BlobConfig struct {
	// Backend selects the implementation
	// Valid values: s3, memory
	Backend string `mapstructure:"backend" validate:"required,oneof=s3 memory" yaml:"backend"`

	// S3 holds S3 settings (used when Backend is "s3")
	S3 s3store.Config `mapstructure:"s3" yaml:"s3"`
}

// IdentityConfig configures credential token verification.
type IdentityConfig struct {
	// JWTSecret is the HS256 signing key. Must be at least 32 characters.
	// Override: FOTOGO_IDENTITY_JWT_SECRET
	JWTSecret string `mapstructure:"jwt_secret" validate:"omitempty,min=32" yaml:"jwt_secret,omitempty"`

	// Issuer is the expected token issuer claim.
	// Default: "fotogo"
	Issuer string `mapstructure:"issuer" yaml:"issuer"`

	// TokenDuration is the lifetime of tokens issued locally.
	// Default: 1h
	TokenDuration time.Duration `mapstructure:"token_duration" yaml:"token_duration"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (FOTOGO_*)
//  2. Configuration file
//  3. Default values
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	configFileFound, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	// If no config file was found, use defaults
	if !configFileFound {
		return GetDefaultConfig(), nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration with helpful error messages.
// It checks if the config file exists and provides user-friendly
// instructions if not.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"Please initialize a configuration file first:\n"+
				"  fotogo init\n\n"+
				"Or specify a custom config file:\n"+
				"  fotogo <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s\n\n"+
				"Please create the configuration file:\n"+
				"  fotogo init --config %s",
				configPath, configPath)
		}
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to the specified file path in YAML
// format.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Use yaml.Marshal directly to respect yaml tags
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Restricted permissions: the file may carry the JWT secret and S3
	// credentials.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setupViper configures viper with environment variables and config file
// settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the FOTOGO_ prefix and underscores
	// Example: FOTOGO_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("FOTOGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default location: $XDG_CONFIG_HOME/fotogo/config.yaml
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
// Returns (fileFound, error) where fileFound indicates if a config file was
// found.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found is acceptable - use defaults
			return false, nil
		}
		// Also check for os.PathError when explicit config file doesn't exist
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	return true, nil
}

// configDecodeHooks returns the combined decode hook for custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
	)
}

// durationDecodeHook converts strings to time.Duration so config files can
// use human-readable durations like "30s", "5m", "1h".
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			// Assume nanoseconds for raw integers
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			// YAML often deserializes numbers as float64
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "fotogo")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "fotogo")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks if a config file exists at the default
// location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path (exposed for the
// init command).
func GetConfigDir() string {
	return getConfigDir()
}
