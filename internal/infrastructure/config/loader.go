// Package config loads ~/.hostwarden/config.yaml and applies HOSTWARDEN_*
// environment overrides.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/hostwarden/assets"
	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/infrastructure/hostsfile"
	"github.com/doeshing/hostwarden/internal/infrastructure/truststore"
	"github.com/doeshing/hostwarden/internal/pkg/filesystem"
	"github.com/doeshing/hostwarden/internal/ports"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HOSTWARDEN"

// FileLoader loads YAML configuration from ~/.hostwarden/config.yaml
// (overridable via HOSTWARDEN_CONFIG).
type FileLoader struct {
	overridePath string
	goos         string
	env          *viper.Viper
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	env := viper.New()
	env.SetEnvPrefix(EnvPrefix)
	env.AutomaticEnv()
	return &FileLoader{overridePath: path, goos: runtime.GOOS, env: env}
}

// Load implements ports.ConfigProvider. A missing file is created from the
// embedded defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	cfg, err := l.LoadFile()
	if err != nil {
		return domain.Config{}, err
	}
	return l.Hydrate(cfg), nil
}

// Hydrate applies environment overrides and platform defaults to a config
// read from disk.
func (l *FileLoader) Hydrate(cfg domain.Config) domain.Config {
	return l.hydrateDefaults(l.applyEnv(cfg))
}

// LoadFile reads the YAML file without environment overrides or hydration.
func (l *FileLoader) LoadFile() (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := writeConfig(path, cfg); err != nil {
				return domain.Config{}, fmt.Errorf("write default config: %w", err)
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvPrefix + "_CONFIG"); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Save writes the given config back to disk after backing up the current
// file.
func (l *FileLoader) Save(cfg domain.Config) (string, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return "", err
	}
	backup, err := l.Backup()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("backup config: %w", err)
	}
	return backup, writeConfig(path, cfg)
}

// Backup copies the current config file to a timestamped backup.
func (l *FileLoader) Backup() (string, error) {
	path := l.resolvePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102T150405"))
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

// applyEnv overlays HOSTWARDEN_* variables on cfg.
func (l *FileLoader) applyEnv(cfg domain.Config) domain.Config {
	overrides := []struct {
		key    string
		target *string
	}{
		{"hosts_file", &cfg.Hosts.File},
		{"backup_dir", &cfg.Hosts.BackupDir},
		{"keychain", &cfg.Trust.Keychain},
		{"ca_dir", &cfg.Trust.CADir},
		{"refresh_command", &cfg.Trust.RefreshCommand},
		{"cert_dir", &cfg.Trust.CertDir},
		{"history_path", &cfg.History.Path},
		{"log_level", &cfg.Logging.Level},
	}
	for _, s := range overrides {
		if v := l.env.GetString(s.key); v != "" {
			*s.target = v
		}
	}
	if l.env.IsSet("history_enabled") {
		cfg.History.Enabled = l.env.GetBool("history_enabled")
	}
	return cfg
}

func (l *FileLoader) hydrateDefaults(cfg domain.Config) domain.Config {
	defaults := DefaultConfig()
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = defaults.ConfigFormatVersion
	}
	if cfg.Hosts.File == "" {
		cfg.Hosts.File = hostsfile.DefaultPath(l.goos)
	}
	if cfg.Hosts.BackupDir == "" {
		cfg.Hosts.BackupDir = defaults.Hosts.BackupDir
	}
	if cfg.Trust.Keychain == "" && l.goos == "darwin" {
		cfg.Trust.Keychain = truststore.DefaultKeychain()
	}
	if cfg.Trust.CADir == "" {
		cfg.Trust.CADir = truststore.DefaultCADir
	}
	if cfg.Trust.RefreshCommand == "" {
		cfg.Trust.RefreshCommand = truststore.DefaultRefreshCommand
	}
	if cfg.Trust.CertDir == "" {
		cfg.Trust.CertDir = defaults.Trust.CertDir
	}
	if cfg.History.Path == "" {
		cfg.History.Path = defaults.History.Path
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}

	cfg.Hosts.File = filesystem.ExpandPath(cfg.Hosts.File)
	cfg.Hosts.BackupDir = filesystem.ExpandPath(cfg.Hosts.BackupDir)
	cfg.Trust.Keychain = filesystem.ExpandPath(cfg.Trust.Keychain)
	cfg.Trust.CADir = filesystem.ExpandPath(cfg.Trust.CADir)
	cfg.Trust.CertDir = filesystem.ExpandPath(cfg.Trust.CertDir)
	cfg.History.Path = filesystem.ExpandPath(cfg.History.Path)
	return cfg
}

// DefaultConfig decodes the embedded defaults.
func DefaultConfig() domain.Config {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{
			ConfigFormatVersion: "1",
			Hosts:               domain.HostsSettings{BackupDir: "~/.hostwarden/backups"},
			Trust:               domain.TrustSettings{CertDir: "~/.hostwarden/certs"},
			History:             domain.HistorySettings{Enabled: true, Path: "~/.hostwarden/history.db"},
			Logging:             domain.LoggingSettings{Level: "warn"},
		}
	}
	return cfg
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

func writeConfig(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
