package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "127.0.0.1"
  workers: 8
  read_timeout_seconds: 5

database:
  url: "postgres://u:p@localhost:5432/users?sslmode=disable"
  max_open_conns: 20

redis:
  url: "redis://localhost:6379/0"
  ttl_seconds: 30

ops:
  addr: ":9091"

log:
  level: "debug"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.Equal(t, 8, cfg.Server.Workers)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout())
	assert.Zero(t, cfg.Server.WriteTimeout())

	assert.Equal(t, "postgres://u:p@localhost:5432/users?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)

	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL())
	assert.Equal(t, ":9091", cfg.Ops.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("{}"), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8081", cfg.Server.Addr())
	assert.Equal(t, 1, cfg.Server.Workers)
	assert.Zero(t, cfg.Server.ReadTimeout())
	assert.Zero(t, cfg.Server.RequestTimeout())
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Minute, cfg.Redis.TTL())
	assert.Empty(t, cfg.Ops.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.DisablePIIRedaction)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("server: [unclosed"), 0644)
	require.NoError(t, err)

	_, err = Load(configPath)
	assert.Error(t, err)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte("server:\n  port: 9000\ndatabase:\n  url: \"postgres://file\"\n"), 0644)
	require.NoError(t, err)

	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("SERVER_WORKERS", "4")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("LOG_DISABLE_PII_REDACTION", "true")

	cfg, err := LoadFromEnv(configPath)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", cfg.Database.URL)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Server.Workers)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.True(t, cfg.Log.DisablePIIRedaction)
}

func TestLoadFromEnv_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite::memory:")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8081", cfg.Server.Addr())
	assert.Equal(t, "sqlite::memory:", cfg.Database.URL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv_BadEnvValue(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	_, err := LoadFromEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingDatabaseURL)

	cfg.Database.URL = "postgres://x"
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 8081
	cfg.Log.Level = "shouty"
	assert.Error(t, cfg.Validate())
}
