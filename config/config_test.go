package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// unsetEnv clears keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	unsetEnv(t, "SERVER_ADDR", "API_BASE_URL", "REMOTE_RPS", "REMOTE_TIMEOUT", "LIKE_CACHE_ENABLED",
		"FFPLAY_PATH", "FFPROBE_PATH", "USER_ID", "MINIO_BUCKET", "MINIO_ENDPOINT", "LOG_LEVEL")

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.APIBaseURL)
	assert.Equal(t, 10.0, cfg.RemoteRPS)
	assert.Equal(t, 10*time.Second, cfg.RemoteTimeout)
	assert.False(t, cfg.LikeCacheEnabled)
	assert.Equal(t, int64(0), cfg.UserID)
	assert.Equal(t, "ffplay", cfg.FFplayPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.Equal(t, "meplay", cfg.MinioBucket)
	assert.Empty(t, cfg.MinioEndpoint)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromEnvOverrides(t *testing.T) {
	unsetEnv(t, "FFPROBE_PATH")
	t.Setenv("API_BASE_URL", "http://music.local:9000/")
	t.Setenv("USER_ID", "42")
	t.Setenv("REMOTE_RPS", "2.5")
	t.Setenv("REMOTE_TIMEOUT", "3s")
	t.Setenv("LIKE_CACHE_ENABLED", " true ")
	t.Setenv("LIKE_CACHE_TTL", "1h")
	t.Setenv("FFPLAY_PATH", "/opt/ffmpeg/bin/ffplay")

	cfg := FromEnv()
	assert.Equal(t, "http://music.local:9000", cfg.APIBaseURL)
	assert.Equal(t, int64(42), cfg.UserID)
	assert.Equal(t, 2.5, cfg.RemoteRPS)
	assert.Equal(t, 3*time.Second, cfg.RemoteTimeout)
	assert.True(t, cfg.LikeCacheEnabled)
	assert.Equal(t, time.Hour, cfg.LikeCacheTTL)
	assert.Equal(t, "/opt/ffmpeg/bin/ffprobe", cfg.FFprobePath, "ffprobe is looked up next to ffplay")
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("USER_ID", "me")
	t.Setenv("REMOTE_TIMEOUT", "soon")
	t.Setenv("MINIO_USE_SSL", "maybe")

	cfg := FromEnv()
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, int64(0), cfg.UserID)
	assert.Equal(t, 10*time.Second, cfg.RemoteTimeout)
	assert.False(t, cfg.MinioUseSSL)
}
