package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Hosts file constants
const (
	// LoopbackIP is the address every managed hostname resolves to.
	LoopbackIP = "127.0.0.1"
	// ContextRadius is the number of lines shown on each side of a match.
	ContextRadius = 2
	// BackupPrefix prefixes every hosts backup file name.
	BackupPrefix = "hosts.bak."
	// BackupTimestampFormat renders BackupRecord.CreatedAt in file names.
	BackupTimestampFormat = "2006-01-02_15-04-05"
)

// Certificate constants
const (
	// CertificateValidity is the lifetime of generated host certificates.
	CertificateValidity = 10 * 365 * 24 * time.Hour
	// CertificateKeyBits is the RSA key size for generated host certificates.
	CertificateKeyBits = 2048
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
