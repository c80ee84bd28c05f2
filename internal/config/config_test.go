package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rpggio/wandernest/internal/config"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.PathEnv,
		"WANDERNEST_SERVER_HOST",
		"WANDERNEST_SERVER_PORT",
		"WANDERNEST_DB_PATH",
		"WANDERNEST_LOG_LEVEL",
		"WANDERNEST_LOG_PATH",
		"WANDERNEST_TRANSPORT",
		"WANDERNEST_REMOTE_DESCRIPTOR",
		"WANDERNEST_ASSISTANT_MODEL",
		"GEMINI_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "wandernest.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, "gemini-2.5-flash", cfg.Assistant.Model)
}

func TestLoad_YAMLWithEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
db:
  path: /tmp/trips.db
remote:
  descriptor: '{"uri":"memory://shared"}'
`), 0o600))
	t.Setenv(config.PathEnv, path)
	t.Setenv("WANDERNEST_SERVER_PORT", "9100")
	t.Setenv("WANDERNEST_TRANSPORT", "stdio")
	t.Setenv("GEMINI_API_KEY", "gk")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "/tmp/trips.db", cfg.DB.Path)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, `{"uri":"memory://shared"}`, cfg.Remote.Descriptor)
	require.Equal(t, "gk", cfg.Assistant.APIKey)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoad_TOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
level = "debug"

[assistant]
model = "gemini-2.0-flash"
`), 0o600))
	t.Setenv(config.PathEnv, path)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "gemini-2.0-flash", cfg.Assistant.Model)
	require.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("WANDERNEST_SERVER_PORT", "abc")
	_, err := config.Load()
	require.Error(t, err)

	t.Setenv("WANDERNEST_SERVER_PORT", "")
	t.Setenv("WANDERNEST_TRANSPORT", "carrier-pigeon")
	_, err = config.Load()
	require.Error(t, err)

	t.Setenv("WANDERNEST_TRANSPORT", "")
	t.Setenv(config.PathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = config.Load()
	require.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	for _, name := range []string{"wandernest.yaml", "wandernest.toml"} {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := config.Default()
			cfg.Server.Port = 9999
			cfg.Remote.Descriptor = `{"uri":"memory://x"}`
			require.NoError(t, config.Save(path, cfg))

			t.Setenv(config.PathEnv, path)
			loaded, err := config.Load()
			require.NoError(t, err)
			require.Equal(t, cfg, loaded)
		})
	}
}
