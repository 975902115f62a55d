// Package hostsfile reads the OS hosts file and replaces it through the
// privilege broker.
package hostsfile

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/infrastructure/result"
	"github.com/doeshing/hostwarden/internal/ports"
)

// DefaultPath returns the conventional hosts file location for goos.
func DefaultPath(goos string) string {
	if goos == "windows" {
		root := os.Getenv("SystemRoot")
		if root == "" {
			root = `C:\Windows`
		}
		return filepath.Join(root, "System32", "drivers", "etc", "hosts")
	}
	return "/etc/hosts"
}

// Store implements ports.HostsRepository.
//
// Reads are never cached. Writes stage the complete new content in a private
// temp file and ask the elevated executor to copy it over the hosts file, so
// neither hostnames nor secrets appear in a command line.
type Store struct {
	path     string
	goos     string
	executor ports.ElevatedExecutor
	stageDir string
	logger   ports.Logger
}

// NewStore builds a store for path (DefaultPath when empty).
func NewStore(path string, executor ports.ElevatedExecutor, logger ports.Logger) *Store {
	if path == "" {
		path = DefaultPath(runtime.GOOS)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Store{
		path:     path,
		goos:     runtime.GOOS,
		executor: executor,
		logger:   logger,
	}
}

// Path returns the hosts file location.
func (s *Store) Path() string {
	return s.path
}

// Raw returns the full file text.
func (s *Store) Raw(context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", readError(err)
	}
	return string(data), nil
}

// Read loads a fresh snapshot.
func (s *Store) Read(ctx context.Context) (domain.HostsDocument, error) {
	raw, err := s.Raw(ctx)
	if err != nil {
		return domain.HostsDocument{}, err
	}
	return domain.ParseHostsDocument(raw), nil
}

// Write replaces the hosts file with doc.
func (s *Store) Write(ctx context.Context, doc domain.HostsDocument, cred *domain.Credential) error {
	staged, err := os.CreateTemp(s.stageDir, "hostwarden-hosts-*")
	if err != nil {
		return domain.NewError(domain.KindIOFailure, "stage hosts", "", err)
	}
	stagedPath := staged.Name()
	defer os.Remove(stagedPath)

	if _, err := staged.WriteString(doc.String()); err != nil {
		staged.Close()
		return domain.NewError(domain.KindIOFailure, "stage hosts", "", err)
	}
	if err := staged.Close(); err != nil {
		return domain.NewError(domain.KindIOFailure, "stage hosts", "", err)
	}

	spec := CopyCommand(s.goos, stagedPath, s.path)
	if s.logger != nil {
		s.logger.Debug("replacing hosts file", map[string]interface{}{
			"path":     s.path,
			"executor": s.executor.Name(),
			"lines":    doc.Len(),
		})
	}
	outcome, err := s.executor.RunElevated(ctx, spec, cred)
	return result.Translate("write hosts", domain.KindIOFailure, outcome, err)
}

// CopyCommand builds the platform copy invocation from src to dst.
func CopyCommand(goos, src, dst string) domain.CommandSpec {
	if goos == "windows" {
		return domain.Command("cmd.exe", "/c", "copy", "/Y", src, dst)
	}
	return domain.Command("cp", src, dst)
}

func readError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return domain.NewError(domain.KindNotFound, "read hosts", "", err)
	case errors.Is(err, fs.ErrPermission):
		return domain.NewError(domain.KindPermissionDenied, "read hosts", "", err)
	default:
		return domain.NewError(domain.KindIOFailure, "read hosts", "", err)
	}
}

var _ ports.HostsRepository = (*Store)(nil)
