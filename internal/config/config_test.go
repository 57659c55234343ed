package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	require.Equal(t, "file", cfg.Storage.Backend)
	require.Equal(t, "data/openlatch.json", cfg.Storage.Path)
	require.Equal(t, 100000, cfg.Security.HashIterations)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(`
server:
  port: 9090
storage:
  backend: sqlite
  path: /tmp/openlatch.db
logging:
  level: debug
  pretty: true
`)
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Storage.Backend)
	require.Equal(t, "/tmp/openlatch.db", cfg.Storage.Path)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.True(t, cfg.Logging.Pretty)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("OPENLATCH_STORAGE_BACKEND", "memory")
	t.Setenv("OPENLATCH_SERVER_PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Storage.Backend)
	require.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("OPENLATCH_STORAGE_BACKEND", "postgres")

	_, err := Load("")
	require.Error(t, err)
}
