package config

import (
	"time"

	"github.com/marmos91/dittodrive/internal/bytesize"
	"github.com/marmos91/dittodrive/pkg/drive/store"
)

// Default values for optional configuration.
const (
	DefaultShutdownTimeout = 30 * time.Second
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultRequestTimeout  = 30 * time.Second
	DefaultStorageRegion   = "us-east-1"
	DefaultURLTTL          = 15 * time.Minute
	DefaultIdentityIssuer  = "dittodrive-idp"
	DefaultTokenDuration   = 24 * time.Hour

	// DefaultQuotaLimit is the storage limit for newly provisioned users.
	DefaultQuotaLimit = bytesize.ByteSize(100 * 1024 * 1024) // 100Mi
)

// ApplyDefaults fills in missing configuration with default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}

	cfg.Database.ApplyDefaults()

	if cfg.Storage.Region == "" {
		cfg.Storage.Region = DefaultStorageRegion
	}
	if cfg.Storage.URLTTL == 0 {
		cfg.Storage.URLTTL = DefaultURLTTL
	}

	if cfg.Identity.Issuer == "" {
		cfg.Identity.Issuer = DefaultIdentityIssuer
	}
	if cfg.Identity.TokenDuration == 0 {
		cfg.Identity.TokenDuration = DefaultTokenDuration
	}

	if cfg.Quota.DefaultLimit == 0 {
		cfg.Quota.DefaultLimit = DefaultQuotaLimit
	}
}

// GetDefaultConfig returns a configuration with all defaults applied.
// The identity secret and storage bucket remain empty; those have no safe
// default and must come from the file or environment.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Database: store.Config{Type: store.DatabaseTypeSQLite},
	}
	ApplyDefaults(cfg)
	return cfg
}
