package domain

import "time"

// Operation names recorded in the audit history.
const (
	OpAddHost           = "add-host"
	OpDeleteHost        = "delete-host"
	OpAddCert           = "add-cert"
	OpRemoveCert        = "remove-cert-by-name"
	OpRemoveFingerprint = "remove-cert-by-fingerprint"
	OpGenerateCert      = "generate-cert"
)

// HistoryRecord captures one mutating call. Credentials are never recorded.
type HistoryRecord struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Operation  string    `json:"operation"`
	Target     string    `json:"target"`
	Success    bool      `json:"success"`
	Changed    bool      `json:"changed"`
	BackupPath string    `json:"backup_path,omitempty"`
	Error      string    `json:"error,omitempty"`
}
