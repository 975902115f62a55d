package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/hostwarden/internal/domain"
)

type copyExecutor struct {
	calls []domain.CommandSpec
	fail  string
}

func (e *copyExecutor) Name() string             { return "fake" }
func (e *copyExecutor) RequiresCredential() bool { return true }
func (e *copyExecutor) RunElevated(_ context.Context, spec domain.CommandSpec, _ *domain.Credential) (domain.ProcessOutcome, error) {
	e.calls = append(e.calls, spec)
	if e.fail != "" {
		return domain.ProcessOutcome{ExitCode: 1, Stderr: e.fail}, nil
	}
	data, err := os.ReadFile(spec.Args[0])
	if err != nil {
		return domain.ProcessOutcome{ExitCode: 1, Stderr: err.Error()}, nil
	}
	return domain.ProcessOutcome{Success: os.WriteFile(spec.Args[1], data, 0o644) == nil}, nil
}

func newManager(t *testing.T, exec *copyExecutor) (*Manager, string) {
	t.Helper()
	hosts := filepath.Join(t.TempDir(), "hosts")
	require.NoError(t, os.WriteFile(hosts, []byte("127.0.0.1 localhost\n"), 0o644))
	m := NewManager(filepath.Join(t.TempDir(), "backups"), hosts, exec)
	m.goos = "linux"
	return m, hosts
}

func TestSnapshotCopiesHostsFile(t *testing.T) {
	exec := &copyExecutor{}
	m, hosts := newManager(t, exec)
	m.now = func() time.Time { return time.Date(2026, 10, 16, 9, 8, 7, 500, time.Local) }

	record, err := m.Snapshot(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(m.Dir(), "hosts.bak.2026-10-16_09-08-07"), record.Path)
	assert.Equal(t, 0, record.CreatedAt.Nanosecond())
	data, err := os.ReadFile(record.Path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1 localhost\n", string(data))
	require.Len(t, exec.calls, 1)
	assert.Equal(t, hosts, exec.calls[0].Args[0])
}

func TestSnapshotDirectoryFailure(t *testing.T) {
	exec := &copyExecutor{}
	m, _ := newManager(t, exec)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	m.dir = filepath.Join(blocker, "backups")

	_, err := m.Snapshot(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIOFailure)
	assert.Empty(t, exec.calls, "copy is skipped when the directory cannot be created")
}

func TestSnapshotCopyFailure(t *testing.T) {
	exec := &copyExecutor{fail: "cp: /etc/hosts: Permission denied"}
	m, _ := newManager(t, exec)
	_, err := m.Snapshot(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestListNewestFirst(t *testing.T) {
	m, _ := newManager(t, &copyExecutor{})
	require.NoError(t, os.MkdirAll(m.Dir(), 0o755))
	for _, name := range []string{
		"hosts.bak.2026-01-01_00-00-00",
		"hosts.bak.2026-03-01_00-00-00",
		"hosts.bak.2026-02-01_00-00-00",
		"unrelated.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), name), nil, 0o644))
	}

	records, err := m.List()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "hosts.bak.2026-03-01_00-00-00", filepath.Base(records[0].Path))
	assert.Equal(t, "hosts.bak.2026-01-01_00-00-00", filepath.Base(records[2].Path))
}

func TestListMissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "none"), "/etc/hosts", &copyExecutor{})
	records, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}
