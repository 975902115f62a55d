package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// BackupRecord describes one hosts file snapshot on disk.
type BackupRecord struct {
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupFileName renders the snapshot file name for t.
func BackupFileName(t time.Time) string {
	return BackupPrefix + t.Format(BackupTimestampFormat)
}

// ParseBackupFileName recovers the creation time encoded in a backup path.
func ParseBackupFileName(path string) (time.Time, bool) {
	name := filepath.Base(path)
	if !strings.HasPrefix(name, BackupPrefix) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(BackupTimestampFormat, strings.TrimPrefix(name, BackupPrefix), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
