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

	assert.Equal(t, "http://localhost:8080", cfg.APIOrigin)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.NotEmpty(t, cfg.StateDir)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "api_origin: https://polls.example.com\nlocale: ru\nrequest_timeout: 5s\nstate_dir: " + dir + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://polls.example.com", cfg.APIOrigin)
	assert.Equal(t, "ru", cfg.Locale)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, dir, cfg.StateDir)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FORMLANE_API_ORIGIN", "https://env.example.com")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.APIOrigin)
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_origin: [broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
