package domain

// Config mirrors ~/.hostwarden/config.yaml.
type Config struct {
	ConfigFormatVersion string          `yaml:"config_format_version"`
	Hosts               HostsSettings   `yaml:"hosts"`
	Trust               TrustSettings   `yaml:"trust"`
	History             HistorySettings `yaml:"history"`
	Logging             LoggingSettings `yaml:"logging"`
}

// HostsSettings locates the hosts file and its backups.
type HostsSettings struct {
	File      string `yaml:"file"`
	BackupDir string `yaml:"backup_dir"`
}

// TrustSettings configures the certificate trust store backends.
type TrustSettings struct {
	// Keychain is the macOS keychain receiving trusted certificates.
	Keychain string `yaml:"keychain"`
	// CADir is the Linux anchor directory refreshed by RefreshCommand.
	CADir          string `yaml:"ca_dir"`
	RefreshCommand string `yaml:"refresh_command"`
	// CertDir holds certificates generated per hostname.
	CertDir string `yaml:"cert_dir"`
}

// HistorySettings controls the mutation audit trail.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingSettings controls diagnostic output.
type LoggingSettings struct {
	Level string `yaml:"level"`
}
