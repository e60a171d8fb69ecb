package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/trip-activity-go/internal/analysis/segmentation"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, segmentation.DefaultParams(), cfg.Segmentation)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Empty(t, cfg.Auth.JWTSecret)

	opts := cfg.IngestOptions()
	assert.Equal(t, ',', opts.Delimiter)
	assert.Equal(t, 9, opts.CategoryColumn)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: ":9090"
segmentation:
  min_duration_ms: 120000
  max_radius_m: 40
  accuracy_threshold: 100
ratelimit:
  window: 30s
ingest:
  delimiter: "\t"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("TRIPACT_SEGMENTATION_MAX_RADIUS_M", "75")
	t.Setenv("TRIPACT_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, int64(120000), cfg.Segmentation.MinDuration)
	assert.Equal(t, 75.0, cfg.Segmentation.MaxRadius)
	assert.Equal(t, 100.0, cfg.Segmentation.AccuracyThreshold)
	assert.Equal(t, int64(60000), cfg.Segmentation.MinInterval)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, '\t', cfg.IngestOptions().Delimiter)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidThresholds(t *testing.T) {
	t.Setenv("TRIPACT_SEGMENTATION_MAX_RADIUS_M", "0")

	_, err := Load("")
	assert.ErrorIs(t, err, segmentation.ErrInvalidParams)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	bad := *cfg
	bad.Ingest.Delimiter = ";;"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Batch.Workers = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.RateLimit.Window = 0
	assert.Error(t, bad.Validate())
}
