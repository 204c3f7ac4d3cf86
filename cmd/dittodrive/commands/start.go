package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/internal/api"
	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/pkg/config"
	"github.com/marmos91/dittodrive/pkg/drive/identity"
	"github.com/marmos91/dittodrive/pkg/drive/service"
	"github.com/marmos91/dittodrive/pkg/drive/storage"
	"github.com/marmos91/dittodrive/pkg/drive/store"
	"github.com/marmos91/dittodrive/pkg/metrics"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the DittoDrive server",
	Long: `Start the DittoDrive REST API server with the specified configuration.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/dittodrive/config.yaml.

Examples:
  # Start with default config location
  dittodrive start

  # Start with custom config file
  dittodrive start --config /etc/dittodrive/config.yaml

  # Start with environment variable overrides
  DITTODRIVE_LOGGING_LEVEL=DEBUG dittodrive start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		logger.Info("Metrics enabled", "path", "/metrics")
	} else {
		logger.Info("Metrics collection disabled")
	}

	st, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Store close error", "error", err)
		}
	}()
	logger.Info("Metadata store initialized", "type", cfg.Database.Type)

	s3cfg := storageConfig(cfg)
	s3Client, err := storage.NewS3Client(ctx, s3cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	objects := storage.NewS3ObjectStore(s3Client, s3cfg)
	logger.Info("Object storage initialized", "bucket", cfg.Storage.Bucket, "region", cfg.Storage.Region)

	tokens, err := identity.NewTokenService(identity.Config{
		Secret:        cfg.Identity.Secret,
		Issuer:        cfg.Identity.Issuer,
		TokenDuration: cfg.Identity.TokenDuration,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	svc := service.New(st, objects)
	server := api.NewServer(cfg, svc, tokens, st)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

		if err := <-serverDone; err != nil {
			logger.Error("Server shutdown error", "error", err)
			return err
		}
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Server error", "error", err)
			return err
		}
		logger.Info("Server stopped")
	}

	return nil
}

// storageConfig maps the file configuration onto the object store config.
func storageConfig(cfg *config.Config) storage.S3Config {
	return storage.S3Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		Bucket:          cfg.Storage.Bucket,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		KeyPrefix:       cfg.Storage.KeyPrefix,
		ForcePathStyle:  cfg.Storage.ForcePathStyle,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
		URLTTL:          cfg.Storage.URLTTL,
	}
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if _, err := os.Stat(config.GetDefaultConfigPath()); err == nil {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
