package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 3600, cfg.Transit.PollSeconds)
	assert.Empty(t, cfg.Bucket)
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file values layer over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "thaw.yaml")
		data := []byte(`
bucket: archive
prefix: backups/
restore:
  days: 14
  tier: Bulk
transit:
  storage_class: STANDARD_IA
`)
		require.NoError(t, os.WriteFile(path, data, 0o600))

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "archive", cfg.Bucket)
		assert.Equal(t, "backups/", cfg.Prefix)
		assert.Equal(t, 14, cfg.Restore.Days)
		assert.Equal(t, "Bulk", cfg.Restore.Tier)
		assert.Equal(t, "STANDARD_IA", cfg.Transit.StorageClass)
		assert.Equal(t, 3600, cfg.Transit.PollSeconds, "unset values keep their defaults")
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("bucket: ["), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestLoadFromEnv(t *testing.T) {
	cfg := Default()
	cfg.Bucket = "from-file"

	t.Setenv("THAW_BUCKET", "from-env")
	t.Setenv("THAW_PREFIX", "p/")
	t.Setenv("THAW_RESTORE_DAYS", "5")
	t.Setenv("THAW_POLL_SECONDS", "60")
	t.Setenv("THAW_RESTORE_TIER", "Expedited")

	LoadFromEnv(cfg)

	assert.Equal(t, "from-env", cfg.Bucket, "env overrides the file")
	assert.Equal(t, "p/", cfg.Prefix)
	assert.Equal(t, 5, cfg.Restore.Days)
	assert.Equal(t, 60, cfg.Transit.PollSeconds)
	assert.Equal(t, "Expedited", cfg.Restore.Tier)
}

func TestLoadFromEnv_IgnoresBadNumbers(t *testing.T) {
	cfg := Default()
	t.Setenv("THAW_POLL_SECONDS", "soon")

	LoadFromEnv(cfg)

	assert.Equal(t, 3600, cfg.Transit.PollSeconds)
}
