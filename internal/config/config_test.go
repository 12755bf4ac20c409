package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	original := DirFunc
	DirFunc = func() string { return dir }
	t.Cleanup(func() { DirFunc = original })
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	dir := withConfigDir(t)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.Server.BaseURL)
	assert.Equal(t, "/limpar-dados/", cfg.Server.Paths.Cleanup)
	assert.Equal(t, "azul", cfg.UI.DefaultTheme)
	assert.Equal(t, 3*time.Second, cfg.UI.ToastDuration)
	assert.Equal(t, filepath.Join(dir, "oficina.db"), cfg.Storage.Path)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := withConfigDir(t)
	path := filepath.Join(dir, "custom.yaml")
	content := "server:\n  base_url: https://oficina.example\nui:\n  default_theme: verde\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("OFICINA_UI_TOAST_DURATION", "5s")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "https://oficina.example", cfg.Server.BaseURL)
	assert.Equal(t, "verde", cfg.UI.DefaultTheme)
	assert.Equal(t, 5*time.Second, cfg.UI.ToastDuration)
	assert.Equal(t, "/configuracoes/", cfg.Server.Paths.Settings)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	withConfigDir(t)

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	withConfigDir(t)

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Server.BaseURL = "not a url"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.UI.ToastDuration = 0
	require.Error(t, cfg.Validate())
}

func TestEndpoint(t *testing.T) {
	withConfigDir(t)

	cfg := DefaultConfig()
	cfg.Server.BaseURL = "http://host:8000/"
	assert.Equal(t, "http://host:8000/limpar-dados/", cfg.Endpoint("/limpar-dados/"))
	assert.Equal(t, "http://host:8000/configuracoes/", cfg.Endpoint("configuracoes/"))
}
