package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.yaml")
	body := `env: "local"
http_server:
  address: "0.0.0.0:9000"
storage:
  driver: "sqlite"
  dsn: "prefs.db"
simulator:
  interval: 2s
admin_login: "admin"
admin_pass: "secret"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "0.0.0.0:9000", cfg.Address)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, 2*time.Second, cfg.Simulator.Interval)
	assert.Equal(t, 10*time.Second, cfg.Simulator.ChartInterval)
	assert.Equal(t, 0.3, cfg.Simulator.CriticalNotifyChance)
	assert.Equal(t, 5*time.Second, cfg.Notifications.TTL)
	assert.Equal(t, "secret", cfg.AdminPass)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "localhost:4001", cfg.Address)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 30*time.Second, cfg.Simulator.AnnounceInterval)
	assert.Len(t, cfg.CORSOrigins, 2)
}
