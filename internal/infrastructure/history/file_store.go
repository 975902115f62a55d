package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/ports"
)

// FileStore appends history records to a jsonl file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a jsonl store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save implements ports.HistoryRepository.
func (f *FileStore) Save(record domain.HistoryRecord) error {
	record = prepare(record)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.SecureFilePermissions)
	if err != nil {
		return err
	}
	defer file.Close()
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = file.Write(append(data, '\n'))
	return err
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Clear removes the history file.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Records loads entries newest first. Malformed lines are skipped.
func (f *FileStore) Records(limit int, search string) ([]domain.HistoryRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	var records []domain.HistoryRecord
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) == 0 {
			continue
		}
		var rec domain.HistoryRecord
		if err := json.Unmarshal(lines[i], &rec); err != nil {
			continue
		}
		if !matches(rec, search) {
			continue
		}
		records = append(records, rec)
		if limit > 0 && len(records) >= limit {
			break
		}
	}
	return records, nil
}

func matches(rec domain.HistoryRecord, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(rec.Operation, search) || strings.Contains(rec.Target, search)
}

var _ ports.HistoryRepository = (*FileStore)(nil)
