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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000/api", cfg.APIBaseURL)
	assert.Empty(t, cfg.InitData)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.QuietWindow)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "API_BASE_URL=https://shop.example.com/api\nPRICING_QUIET_WINDOW=150ms\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, 150*time.Millisecond, cfg.QuietWindow)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("API_BASE_URL=https://file.example.com/api\n"), 0o600))
	t.Setenv("API_BASE_URL", "https://env.example.com/api")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/api", cfg.APIBaseURL)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000/api", cfg.APIBaseURL)
}
