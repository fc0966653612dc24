package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "models/model.gob", cfg.Artifacts.ModelPath)
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.BurstSize)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
environment: production
log_level: warn
server:
  port: 9000
artifacts:
  model_path: /var/lib/frd/model.gob
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/var/lib/frd/model.gob", cfg.Artifacts.ModelPath)

	// Values absent from the file keep their defaults.
	assert.Equal(t, "models/scaler.gob", cfg.Artifacts.ScalerPath)
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FRD_ENVIRONMENT", "staging")
	t.Setenv("FRD_SERVER_PORT", "9999")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 9999, cfg.Server.Port)
}
