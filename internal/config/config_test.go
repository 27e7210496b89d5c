package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, 15*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, "./public/images", cfg.Storage.LocalDir)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "gallery:tasks", cfg.Redis.Stream)
	assert.Equal(t, time.Hour, cfg.Jobs.OrphanGrace)
	assert.True(t, cfg.Postgres.Migrate)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GALLERY_HTTP_PORT", "9090")
	t.Setenv("GALLERY_REDIS_ENABLED", "true")
	t.Setenv("GALLERY_JOBS_ORPHANGRACE", "15m")
	t.Setenv("GALLERY_ALLOWCORSORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Jobs.OrphanGrace)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowCORSOrigins)
}

func TestLoad_RejectsUnknownStorageDriver(t *testing.T) {
	t.Setenv("GALLERY_STORAGE_DRIVER", "ftp")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}
