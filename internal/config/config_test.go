package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `{
		"feed_url": "https://blog.example.com/rss",
		"max_posts": 10,
		"use_browser": true,
		"min_length": 300,
		"port": 9090
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com/rss", cfg.FeedURL)
	assert.Equal(t, 10, cfg.MaxPosts)
	assert.True(t, cfg.UseBrowser)
	assert.Equal(t, 300, cfg.MinLength)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "{not json")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	assert.NoError(t, (&Config{}).Validate())
	assert.Error(t, (&Config{MaxPosts: -1}).Validate())
	assert.Error(t, (&Config{MinLength: -5}).Validate())
	assert.Error(t, (&Config{Port: 70000}).Validate())
}

func TestFromEnv_FillsUnsetFieldsOnly(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("DATABASE_URL", "postgres://env")

	cfg := &Config{APIKey: "from-file"}
	cfg.FromEnv()

	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
}

func TestNewJWTConfig_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := NewJWTConfig()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "48")
	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.ExpirationHours)
}
