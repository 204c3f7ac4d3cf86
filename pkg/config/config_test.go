package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dittodrive/internal/bytesize"
	"github.com/marmos91/dittodrive/pkg/drive/store"
)

const testSecret = "a-config-test-secret-of-32-chars!!"

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: DEBUG
  format: json
  output: stderr
shutdown_timeout: 10s
server:
  port: 9000
  request_timeout: 5s
database:
  type: sqlite
  sqlite:
    path: ":memory:"
storage:
  endpoint: http://localhost:9001
  bucket: drive-content
  access_key_id: minio
  secret_access_key: miniosecret
  force_path_style: true
  url_ttl: 5m
identity:
  secret: "`+testSecret+`"
  issuer: my-idp
quota:
  default_limit: 250Mi
metrics:
  enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, store.DatabaseTypeSQLite, cfg.Database.Type)
	assert.Equal(t, "drive-content", cfg.Storage.Bucket)
	assert.True(t, cfg.Storage.ForcePathStyle)
	assert.Equal(t, 5*time.Minute, cfg.Storage.URLTTL)
	assert.Equal(t, "my-idp", cfg.Identity.Issuer)
	assert.Equal(t, bytesize.ByteSize(250*1024*1024), cfg.Quota.DefaultLimit)
	assert.True(t, cfg.Metrics.Enabled)

	// Unset values fall back to defaults.
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultStorageRegion, cfg.Storage.Region)
}

func TestLoadRejectsShortSecret(t *testing.T) {
	path := writeConfig(t, `
storage:
  bucket: drive-content
identity:
  secret: short
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Secret")
}

func TestLoadRejectsMissingBucket(t *testing.T) {
	path := writeConfig(t, `
identity:
  secret: "` + testSecret + `"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bucket")
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: LOUD
storage:
  bucket: drive-content
identity:
  secret: "` + testSecret + `"
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverridesWithoutConfigFile(t *testing.T) {
	t.Setenv("DITTODRIVE_IDENTITY_SECRET", testSecret)
	t.Setenv("DITTODRIVE_STORAGE_BUCKET", "env-bucket")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, testSecret, cfg.Identity.Secret)
	assert.Equal(t, "env-bucket", cfg.Storage.Bucket)
	assert.Equal(t, DefaultQuotaLimit, cfg.Quota.DefaultLimit)
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Identity.Secret = testSecret
	cfg.Storage.Bucket = "drive-content"
	cfg.Database.SQLite.Path = ":memory:"

	path := filepath.Join(t.TempDir(), "saved", "config.yaml")
	require.NoError(t, SaveConfig(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Storage.Bucket, loaded.Storage.Bucket)
	assert.Equal(t, cfg.ShutdownTimeout, loaded.ShutdownTimeout)
}
