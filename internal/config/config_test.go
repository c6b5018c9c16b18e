package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "client", cfg.Host.Mode)
	require.Equal(t, 300, cfg.Prompt.TimeoutSeconds)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Empty(t, cfg.Tools.Enabled)
	require.Empty(t, cfg.Transcript.Path)
	require.Empty(t, cfg.Auth.Token)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOOPGATE_TRANSPORT", "http")
	t.Setenv("LOOPGATE_HOST_MODE", "terminal")
	t.Setenv("LOOPGATE_TIMEOUT_SECONDS", "60")
	t.Setenv("LOOPGATE_ENABLED_TOOLS", "request_text, request_choice")
	t.Setenv("LOOPGATE_TRANSCRIPT_PATH", "/tmp/loopgate.db")
	t.Setenv("LOOPGATE_AUTH_TOKEN", "sekrit")
	t.Setenv("LOOPGATE_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, "terminal", cfg.Host.Mode)
	require.Equal(t, 60, cfg.Prompt.TimeoutSeconds)
	require.Equal(t, []string{"request_text", "request_choice"}, cfg.Tools.Enabled)
	require.Equal(t, "/tmp/loopgate.db", cfg.Transcript.Path)
	require.Equal(t, "sekrit", cfg.Auth.Token)
	require.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
transport:
  mode: http
prompt:
  timeout_seconds: 120
log:
  level: debug
`)
	t.Setenv("LOOPGATE_CONFIG_PATH", path)
	t.Setenv("LOOPGATE_TIMEOUT_SECONDS", "45")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, "debug", cfg.Log.Level)
	// Env wins over file.
	require.Equal(t, 45, cfg.Prompt.TimeoutSeconds)
}

func TestLoad_RejectsBadModes(t *testing.T) {
	t.Setenv("LOOPGATE_TRANSPORT", "carrier-pigeon")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("LOOPGATE_TRANSPORT", "stdio")
	t.Setenv("LOOPGATE_HOST_MODE", "smoke-signal")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("LOOPGATE_HOST_MODE", "client")
	t.Setenv("LOOPGATE_TIMEOUT_SECONDS", "0")
	_, err = Load()
	require.Error(t, err)
}

func TestLoad_RejectsTerminalHostOnStdio(t *testing.T) {
	t.Setenv("LOOPGATE_TRANSPORT", "stdio")
	t.Setenv("LOOPGATE_HOST_MODE", "terminal")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("LOOPGATE_TRANSPORT", "http")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "terminal", cfg.Host.Mode)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
