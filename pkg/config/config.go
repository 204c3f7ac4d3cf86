// Package config loads the dittodrive configuration from file, environment,
// and defaults.
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

	"github.com/marmos91/dittodrive/internal/bytesize"
	"github.com/marmos91/dittodrive/pkg/drive/store"
)

// Config represents the dittodrive configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (DITTODRIVE_*)
//  2. Configuration file (YAML)
//  3. Default values
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`

	// Server contains the REST API server configuration
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Database configures the metadata store (SQLite or PostgreSQL)
	Database store.Config `mapstructure:"database" yaml:"database"`

	// Storage configures the S3-compatible object store holding file content
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`

	// Identity configures validation of identity-provider tokens
	Identity IdentityConfig `mapstructure:"identity" yaml:"identity"`

	// Quota contains storage quota settings
	Quota QuotaConfig `mapstructure:"quota" yaml:"quota"`

	// Metrics contains Prometheus metrics configuration
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// ServerConfig contains the REST API server configuration.
type ServerConfig struct {
	// Host is the listen address. Default: 0.0.0.0
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the HTTP port. Default: 8080
	Port int `mapstructure:"port" validate:"required,min=1,max=65535" yaml:"port"`

	// ReadTimeout bounds reading a full request. Default: 15s
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout bounds writing a full response. Default: 30s
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// IdleTimeout bounds keep-alive connections. Default: 60s
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`

	// RequestTimeout is the per-request handler timeout. Default: 30s
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig configures the S3-compatible object store.
type StorageConfig struct {
	// Endpoint overrides the AWS endpoint for S3-compatible stores
	// (MinIO, Ceph RGW). Empty means real AWS S3.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`

	// Region is the S3 region. Default: us-east-1
	Region string `mapstructure:"region" yaml:"region"`

	// Bucket is the bucket holding all file content (required)
	Bucket string `mapstructure:"bucket" validate:"required" yaml:"bucket"`

	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key,omitempty"`

	// KeyPrefix is an optional prefix for all object keys
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix,omitempty"`

	// ForcePathStyle uses path-style addressing, required by most
	// S3-compatible stores. Default: false
	ForcePathStyle bool `mapstructure:"force_path_style" yaml:"force_path_style"`

	// PublicBaseURL is the base for unsigned object URLs, typically a CDN.
	// Empty derives a virtual-hosted S3 URL.
	PublicBaseURL string `mapstructure:"public_base_url" yaml:"public_base_url,omitempty"`

	// URLTTL is the lifetime of presigned URLs. Default: 15m
	URLTTL time.Duration `mapstructure:"url_ttl" yaml:"url_ttl"`
}

// IdentityConfig configures identity-provider token validation.
type IdentityConfig struct {
	// Secret is the HMAC key shared with the identity provider.
	// Must be at least 32 characters. Override: DITTODRIVE_IDENTITY_SECRET
	Secret string `mapstructure:"secret" validate:"required,min=32" yaml:"secret"`

	// Issuer is the expected token issuer claim. Default: dittodrive-idp
	Issuer string `mapstructure:"issuer" yaml:"issuer"`

	// TokenDuration is the lifetime of locally minted tokens. Default: 24h
	TokenDuration time.Duration `mapstructure:"token_duration" yaml:"token_duration"`
}

// QuotaConfig contains storage quota settings.
type QuotaConfig struct {
	// DefaultLimit is the storage limit assigned to newly provisioned
	// users. Supports human-readable sizes: "100Mi", "1GB". Default: 100Mi
	DefaultLimit bytesize.ByteSize `mapstructure:"default_limit" yaml:"default_limit"`
}

// MetricsConfig configures Prometheus metrics exposure on /metrics.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Load loads configuration from file, environment, and defaults.
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	configFileFound, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if configFileFound {
		if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	applyEnvOverrides(&cfg, v)
	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to the specified file path in YAML.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: the file carries the identity secret and storage credentials.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setupViper configures viper with environment variables and config file
// settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the DITTODRIVE_ prefix and underscores.
	// Example: DITTODRIVE_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("DITTODRIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(GetConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists. A missing file
// is not an error; defaults and environment cover that case.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// applyEnvOverrides picks up the secret-bearing environment variables even
// when no config file was read. AutomaticEnv only resolves keys viper has
// already seen, so these are read explicitly.
func applyEnvOverrides(cfg *Config, v *viper.Viper) {
	if s := v.GetString("identity.secret"); s != "" {
		cfg.Identity.Secret = s
	}
	if s := v.GetString("storage.bucket"); s != "" {
		cfg.Storage.Bucket = s
	}
	if s := v.GetString("storage.access_key_id"); s != "" {
		cfg.Storage.AccessKeyID = s
	}
	if s := v.GetString("storage.secret_access_key"); s != "" {
		cfg.Storage.SecretAccessKey = s
	}
	if s := v.GetString("storage.endpoint"); s != "" {
		cfg.Storage.Endpoint = s
	}
	if s := v.GetString("logging.level"); s != "" {
		cfg.Logging.Level = s
	}
}

// configDecodeHooks returns a combined decode hook for all custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook(),
		durationDecodeHook(),
	)
}

// byteSizeDecodeHook converts strings and integers to bytesize.ByteSize so
// config files can use human-readable sizes like "1Gi", "500Mi", "100MB".
func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return bytesize.Parse(v)
		case int:
			return bytesize.ByteSize(v), nil
		case int64:
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			// YAML often deserializes numbers as float64
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
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
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// GetConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func GetConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "dittodrive")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config", "dittodrive")
}

// GetDefaultConfigPath returns the default config file location.
func GetDefaultConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}
