package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"listen_addr":         ":8443",
		"environment":         "production",
		"database_dsn":        "postgres://bv@db/janus",
		"database_pool_size":  4,
		"query_timeout":       "2s",
		"app_url":             "https://app.janusipm.com",
		"session_cookie_name": "bv_session",
		"session_ttl":         "168h",
		"secret_key":          "my_secret_key",
		"google_client_id":    "gid",
		"smtp_port":           2525,
		"rate_limit_window":   "10m",
		"rate_limit_max":      3,
		"redis_addr":          "redis:6379",
		"s3_bucket":           "bucket",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, ":8443", cfg.ListenAddr)
		assert.Equal(t, EnvProduction, cfg.Environment)
		assert.Equal(t, "postgres://bv@db/janus", cfg.DatabaseDSN)
		assert.Equal(t, 4, cfg.DatabasePoolSize)
		assert.Equal(t, 2*time.Second, cfg.QueryTimeout)
		assert.Equal(t, "https://app.janusipm.com", cfg.AppURL)
		assert.Equal(t, "bv_session", cfg.SessionCookieName)
		assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, "gid", cfg.GoogleClientID)
		assert.Equal(t, 2525, cfg.SMTPPort)
		assert.Equal(t, 10*time.Minute, cfg.RateLimitWindow)
		assert.Equal(t, 3, cfg.RateLimitMax)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		// untouched keys keep their defaults
		assert.Equal(t, "us-east-1", cfg.S3Region)
	})

	t.Run("no config flag means no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ListenAddr: "defaults:1234", SessionTTL: time.Hour}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.ListenAddr)
		assert.Equal(t, time.Hour, cfg.SessionTTL)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"testbin", "-config", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
