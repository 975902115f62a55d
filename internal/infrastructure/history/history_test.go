package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/ports"
)

func exerciseStore(t *testing.T, store ports.HistoryRepository) {
	t.Helper()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(domain.HistoryRecord{Timestamp: base, Operation: domain.OpAddHost, Target: "foo.test", Success: true, Changed: true, BackupPath: "/b/hosts.bak.1"}))
	require.NoError(t, store.Save(domain.HistoryRecord{Timestamp: base.Add(time.Minute), Operation: domain.OpDeleteHost, Target: "foo.test", Success: true}))
	require.NoError(t, store.Save(domain.HistoryRecord{Timestamp: base.Add(2 * time.Minute), Operation: domain.OpAddCert, Target: "/tmp/bar.pem", Error: "permission denied"}))

	all, err := store.Records(0, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.OpAddCert, all[0].Operation)
	assert.Equal(t, domain.OpAddHost, all[2].Operation)
	assert.NotEmpty(t, all[0].ID)
	assert.NotEqual(t, all[0].ID, all[1].ID)
	assert.True(t, all[2].Changed)
	assert.Equal(t, "/b/hosts.bak.1", all[2].BackupPath)
	assert.Equal(t, "permission denied", all[0].Error)
	assert.True(t, base.Equal(all[2].Timestamp))

	limited, err := store.Records(1, "foo.test")
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, domain.OpDeleteHost, limited[0].Operation)

	require.NoError(t, store.Clear())
	empty, err := store.Records(0, "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFileStore(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "history.jsonl"))
	exerciseStore(t, store)
}

func TestSQLiteStore(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	t.Cleanup(func() { _ = store.Close() })
	require.NotNil(t, store.db)
	exerciseStore(t, store)
}

func TestFileStoreSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{not json}\n{\"operation\":\"add-host\",\"target\":\"a.test\"}\n"), 0o600))
	records, err := NewFileStore(path).Records(0, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a.test", records[0].Target)
}

func TestFileStoreMissingFile(t *testing.T) {
	records, err := NewFileStore(filepath.Join(t.TempDir(), "none.jsonl")).Records(5, "")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, NewFileStore(filepath.Join(t.TempDir(), "none.jsonl")).Clear())
}
