// Package config validates loaded configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/doeshing/hostwarden/internal/domain"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if cfg.ConfigFormatVersion != "" && cfg.ConfigFormatVersion != "1" {
		return fmt.Errorf("config_format_version %s is not supported", cfg.ConfigFormatVersion)
	}
	if err := validateHosts(cfg.Hosts); err != nil {
		return err
	}
	if err := validateTrust(cfg.Trust); err != nil {
		return err
	}
	if err := validateHistory(cfg.History); err != nil {
		return err
	}
	if level := strings.ToLower(cfg.Logging.Level); level != "" && !logLevels[level] {
		return fmt.Errorf("logging.level must be debug|info|warn|error, got %s", cfg.Logging.Level)
	}
	return nil
}

func validateHosts(hosts domain.HostsSettings) error {
	if hosts.File == "" {
		return fmt.Errorf("hosts.file must be set")
	}
	if hosts.BackupDir == "" {
		return fmt.Errorf("hosts.backup_dir must be set")
	}
	return nil
}

func validateTrust(trust domain.TrustSettings) error {
	if trust.CertDir == "" {
		return fmt.Errorf("trust.cert_dir must be set")
	}
	if trust.CADir != "" && strings.TrimSpace(trust.RefreshCommand) == "" {
		return fmt.Errorf("trust.refresh_command must be set when trust.ca_dir is used")
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	if history.Enabled && history.Path == "" {
		return fmt.Errorf("history.path must be set when history is enabled")
	}
	return nil
}
