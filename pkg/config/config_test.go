package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("ACRCLOUD_ACCESS_KEY", "key")
	t.Setenv("ACRCLOUD_SECRET_KEY", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "identify-eu-west-1.acrcloud.com", cfg.ACRHost)
	assert.Equal(t, 10*time.Second, cfg.ACRTimeout)
	assert.Equal(t, "downloads", cfg.DownloadsDir)
	assert.Equal(t, 5, cfg.WorkerCount)
	assert.Equal(t, "recognition-tasks", cfg.TaskTopic)
	assert.Empty(t, cfg.GoogleCloudProject)
	assert.Empty(t, cfg.RedisAddress)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ACRCLOUD_HOST", "identify-us-west-2.acrcloud.com")
	t.Setenv("ACRCLOUD_TIMEOUT_SECONDS", "30")
	t.Setenv("WORKER_COUNT", "12")
	t.Setenv("DOWNLOADS_DIR", "/tmp/clips")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "identify-us-west-2.acrcloud.com", cfg.ACRHost)
	assert.Equal(t, 30*time.Second, cfg.ACRTimeout)
	assert.Equal(t, 12, cfg.WorkerCount)
	assert.Equal(t, "/tmp/clips", cfg.DownloadsDir)
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct{ name, unset string }{
		{"missing token", "TELEGRAM_BOT_TOKEN"},
		{"missing access key", "ACRCLOUD_ACCESS_KEY"},
		{"missing secret", "ACRCLOUD_SECRET_KEY"},
		{"missing database", "DATABASE_URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadBadWorkerCount(t *testing.T) {
	setRequired(t)
	t.Setenv("WORKER_COUNT", "0")

	_, err := Load()
	assert.Error(t, err)
}
