// Package backup snapshots the hosts file before every mutation.
package backup

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/infrastructure/hostsfile"
	"github.com/doeshing/hostwarden/internal/infrastructure/result"
	"github.com/doeshing/hostwarden/internal/ports"
)

// Manager implements ports.BackupService. Backups are append-only; the
// manager never prunes or restores them.
type Manager struct {
	dir       string
	hostsPath string
	goos      string
	executor  ports.ElevatedExecutor
	now       func() time.Time
}

// NewManager builds a manager writing into dir.
func NewManager(dir, hostsPath string, executor ports.ElevatedExecutor) *Manager {
	return &Manager{
		dir:       dir,
		hostsPath: hostsPath,
		goos:      runtime.GOOS,
		executor:  executor,
		now:       time.Now,
	}
}

// Dir returns the backup directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Snapshot copies the hosts file into the backup directory with the same
// privilege the following mutation uses. Creating the directory needs no
// elevation.
func (m *Manager) Snapshot(ctx context.Context, cred *domain.Credential) (domain.BackupRecord, error) {
	if err := os.MkdirAll(m.dir, domain.DirectoryPermissions); err != nil {
		return domain.BackupRecord{}, domain.NewError(domain.KindIOFailure, "create backup dir", m.dir, err)
	}

	created := m.now().Truncate(time.Second)
	record := domain.BackupRecord{
		Path:      filepath.Join(m.dir, domain.BackupFileName(created)),
		CreatedAt: created,
	}

	outcome, err := m.executor.RunElevated(ctx, hostsfile.CopyCommand(m.goos, m.hostsPath, record.Path), cred)
	if err := result.Translate("backup hosts", domain.KindIOFailure, outcome, err); err != nil {
		return domain.BackupRecord{}, err
	}
	return record, nil
}

// List returns existing backups, newest first.
func (m *Manager) List() ([]domain.BackupRecord, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.NewError(domain.KindIOFailure, "list backups", m.dir, err)
	}
	var records []domain.BackupRecord
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		created, ok := domain.ParseBackupFileName(entry.Name())
		if !ok {
			continue
		}
		records = append(records, domain.BackupRecord{
			Path:      filepath.Join(m.dir, entry.Name()),
			CreatedAt: created,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].CreatedAt.After(records[j].CreatedAt) })
	return records, nil
}

var _ ports.BackupService = (*Manager)(nil)
