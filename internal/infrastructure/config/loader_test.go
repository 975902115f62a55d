package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/hostwarden/internal/domain"
)

func newTestLoader(t *testing.T) (*FileLoader, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)
	loader.goos = "linux"
	return loader, path
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	loader, path := newTestLoader(t)

	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/etc/hosts", cfg.Hosts.File)
	assert.Equal(t, "update-ca-certificates", cfg.Trust.RefreshCommand)
	assert.True(t, cfg.History.Enabled)
	assert.True(t, filepath.IsAbs(cfg.Hosts.BackupDir))
	assert.Equal(t, "warn", cfg.Logging.Level)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.SecureFilePermissions), info.Mode().Perm())
}

func TestLoadReadsFileAndHydrates(t *testing.T) {
	loader, path := newTestLoader(t)
	require.NoError(t, os.WriteFile(path, []byte("hosts:\n  file: /tmp/hosts\nhistory:\n  enabled: false\n"), 0o600))

	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/hosts", cfg.Hosts.File)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "1", cfg.ConfigFormatVersion)
	assert.NotEmpty(t, cfg.Trust.CertDir)
	assert.Empty(t, cfg.Trust.Keychain)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	loader, path := newTestLoader(t)
	require.NoError(t, os.WriteFile(path, []byte("hosts: [unclosed"), 0o600))
	_, err := loader.Load(context.Background())
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOSTWARDEN_HOSTS_FILE", "/srv/hosts")
	t.Setenv("HOSTWARDEN_HISTORY_ENABLED", "false")
	t.Setenv("HOSTWARDEN_LOG_LEVEL", "debug")
	loader, _ := newTestLoader(t)

	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/srv/hosts", cfg.Hosts.File)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)

	raw, err := loader.LoadFile()
	require.NoError(t, err)
	assert.Empty(t, raw.Hosts.File)
}

func TestConfigPathOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv("HOSTWARDEN_CONFIG", path)
	assert.Equal(t, path, NewFileLoader("").Path())
}

func TestSaveBacksUpExistingFile(t *testing.T) {
	loader, path := newTestLoader(t)
	_, err := loader.Load(context.Background())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Hosts.File = "/tmp/other-hosts"
	backup, err := loader.Save(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, backup)
	assert.FileExists(t, backup)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var saved domain.Config
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, "/tmp/other-hosts", saved.Hosts.File)
}
