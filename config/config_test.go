package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Analytics.Enabled)
	assert.Equal(t, "development", cfg.Analytics.Environment)
	assert.Equal(t, 0, cfg.Analytics.RetryMax)
}

func TestFileAndEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
network: gnosis
analytics:
  enabled: true
  measurement_id: G-TEST
  retry_max: 2
`), 0o644))
	t.Setenv("SAFEOPS_ANALYTICS_ENVIRONMENT", "production")
	t.Setenv("SAFEOPS_LOG_LEVEL", "debug")

	cfg, err := Load(NewViper(), file)
	require.NoError(t, err)
	assert.Equal(t, "gnosis", cfg.Network)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Analytics.Enabled)
	assert.Equal(t, "G-TEST", cfg.Analytics.MeasurementID)
	assert.Equal(t, "production", cfg.Analytics.Environment)
	assert.Equal(t, 2, cfg.Analytics.RetryMax)
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
