// Package history keeps an audit trail of every mutating call: one record
// per hosts or trust store change, with the backup taken for it.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/ports"
)

// SQLiteStore persists history in a SQLite database. When the database
// cannot be opened it falls back to a jsonl file next to it.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	fallback *FileStore
	mu       sync.Mutex
}

// NewSQLiteStore creates (or opens) the database at path.
func NewSQLiteStore(path string) *SQLiteStore {
	fallback := NewFileStore(strings.TrimSuffix(path, filepath.Ext(path)) + ".jsonl")
	_ = os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path, fallback: fallback}
	}
	store := &SQLiteStore{db: db, path: path, fallback: fallback}
	if err := store.init(); err != nil {
		_ = db.Close()
		return &SQLiteStore{path: path, fallback: fallback}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS mutations (
		id TEXT PRIMARY KEY,
		timestamp TEXT,
		operation TEXT,
		target TEXT,
		success INTEGER,
		changed INTEGER,
		backup_path TEXT,
		error TEXT
	);`)
	return err
}

// Save inserts a new record.
func (s *SQLiteStore) Save(record domain.HistoryRecord) error {
	if s.db == nil {
		return s.fallback.Save(record)
	}
	record = prepare(record)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO mutations
		(id, timestamp, operation, target, success, changed, backup_path, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.UTC().Format(time.RFC3339Nano),
		record.Operation,
		record.Target,
		boolToInt(record.Success),
		boolToInt(record.Changed),
		record.BackupPath,
		record.Error,
	)
	return err
}

// Records returns history entries newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.HistoryRecord, error) {
	if s.db == nil {
		return s.fallback.Records(limit, search)
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT id, timestamp, operation, target, success, changed, backup_path, error FROM mutations")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE operation LIKE ? OR target LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY timestamp DESC, rowid DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var ts string
		var success, changed int
		if err := rows.Scan(&rec.ID, &ts, &rec.Operation, &rec.Target, &success, &changed, &rec.BackupPath, &rec.Error); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Success = success == 1
		rec.Changed = changed == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback.Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM mutations")
	return err
}

// Path returns the active store location.
func (s *SQLiteStore) Path() string {
	if s.db == nil {
		return s.fallback.Path()
	}
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// prepare fills the ID and timestamp of a new record.
func prepare(record domain.HistoryRecord) domain.HistoryRecord {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	return record
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
