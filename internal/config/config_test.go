package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, "30s", cfg.Server.ReadTimeout)
	assert.Equal(t, "1h", cfg.Server.CheckInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "#obreasy", cfg.Notify.Slack.Channel)
	assert.Contains(t, cfg.Storage.Path, "obreasy.db")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
storage:
  path: /tmp/custom.db
server:
  listen: ":9090"
  check_interval: 15m
notify:
  slack:
    enabled: true
    webhook_url: https://hooks.slack.com/services/xxx
    channel: "#obras"
logging:
  level: debug
  format: text
defaults:
  project: obra-1
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.Storage.Path)
	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, "15m", cfg.Server.CheckInterval)
	assert.True(t, cfg.Notify.Slack.Enabled)
	assert.Equal(t, "#obras", cfg.Notify.Slack.Channel)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "obra-1", cfg.Defaults.Project)
}

func TestSetDefaultProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))

	require.NoError(t, SetDefaultProject(path, "obra-42"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "obra-42", cfg.Defaults.Project)
	// Existing settings survive the rewrite.
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestSetDefaultProjectCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SetDefaultProject(path, "obra-1"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "obra-1", cfg.Defaults.Project)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("OBREASY_SERVER_LISTEN", ":7070")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Listen)
}
