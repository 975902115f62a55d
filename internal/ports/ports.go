// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// Application services orchestrate hosts file and trust store mutations
// through these interfaces only. Infrastructure adapters implement them per
// platform: sudo or UAC elevation, keychain, certutil or CA directory
// trust stores, SQLite or JSONL history.
package ports

import (
	"context"
	"io"

	"github.com/doeshing/hostwarden/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.hostwarden/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// CommandRunner runs a non-elevated process and captures its output.
// A non-zero exit is reported through ProcessOutcome; the error is reserved
// for failures to start the process.
type CommandRunner interface {
	Run(ctx context.Context, spec domain.CommandSpec, stdin io.Reader) (domain.ProcessOutcome, error)
}

// ElevatedExecutor runs exactly one command with elevated privileges.
// Implementations never retry and never place the credential in argv.
type ElevatedExecutor interface {
	Name() string
	// RequiresCredential reports whether callers must supply a password.
	RequiresCredential() bool
	RunElevated(ctx context.Context, spec domain.CommandSpec, cred *domain.Credential) (domain.ProcessOutcome, error)
}

// HostsRepository reads snapshots of the hosts file and replaces it through
// a privileged write.
type HostsRepository interface {
	Path() string
	Read(ctx context.Context) (domain.HostsDocument, error)
	Raw(ctx context.Context) (string, error)
	Write(ctx context.Context, doc domain.HostsDocument, cred *domain.Credential) error
}

// BackupService snapshots the hosts file before mutations.
type BackupService interface {
	Dir() string
	Snapshot(ctx context.Context, cred *domain.Credential) (domain.BackupRecord, error)
	List() ([]domain.BackupRecord, error)
}

// TrustStore manages certificates in the OS trust store.
type TrustStore interface {
	Backend() string
	RequiresCredential() bool
	Add(ctx context.Context, pemPath string, cred *domain.Credential) error
	Find(ctx context.Context, subject string) ([]domain.Certificate, error)
	List(ctx context.Context, subject string) (string, error)
	Exists(ctx context.Context, subject string) bool
	Remove(ctx context.Context, nameOrFingerprint string, cred *domain.Credential) (domain.Certificate, error)
	RemoveByFingerprint(ctx context.Context, fingerprint string, cred *domain.Credential) error
	ManualCommand(pemPath string) string
}

// CertificateGenerator writes a self-signed certificate for a hostname.
type CertificateGenerator interface {
	Generate(hostname string) (domain.CertificateBundle, error)
	PathFor(hostname string) string
}

// HistoryRepository persists the mutation audit trail.
type HistoryRepository interface {
	Save(record domain.HistoryRecord) error
	Records(limit int, search string) ([]domain.HistoryRecord, error)
	Clear() error
	Path() string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
