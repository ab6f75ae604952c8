package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	backupExt       = ".tuv"
	backupTimestamp = "20060102_150405"
)

// BackupManager keeps timestamped copies of documents before they are
// overwritten
type BackupManager struct {
	backupDir string
	now       func() time.Time
}

// NewBackupManager creates a backup manager writing to dir, or to the
// default backup directory when dir is empty
func NewBackupManager(dir string) (*BackupManager, error) {
	if dir == "" {
		dir = GetBackupDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return &BackupManager{backupDir: dir, now: time.Now}, nil
}

// GetBackupDir returns the default backup directory
func GetBackupDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "tui-treeview", "backups")
	}
	return filepath.Join(homeDir, ".local", "share", "tui-treeview", "backups")
}

// CreateBackup writes doc as a backup of originalPath and returns the
// backup's path
func (bm *BackupManager) CreateBackup(doc *Document, originalPath, sessionID string) (string, error) {
	absPath, err := filepath.Abs(originalPath)
	if err != nil {
		absPath = originalPath
	}

	backup := *doc
	backup.OriginalFile = filepath.Clean(absPath)

	data, err := json.MarshalIndent(&backup, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal backup JSON: %w", err)
	}

	path := filepath.Join(bm.backupDir, bm.backupFilename(sessionID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}
	return path, nil
}

// backupFilename has the form YYYYMMDD_HHMMSS_<session>.tuv
func (bm *BackupManager) backupFilename(sessionID string) string {
	return fmt.Sprintf("%s_%s%s", bm.now().Format(backupTimestamp), sessionID, backupExt)
}

// BackupMetadata describes one backup file
type BackupMetadata struct {
	FilePath     string
	Timestamp    time.Time
	SessionID    string
	OriginalFile string
}

// FindBackupsForFile returns the backups of originalFilePath, oldest first.
// An empty path returns every backup.
func (bm *BackupManager) FindBackupsForFile(originalFilePath string) ([]BackupMetadata, error) {
	entries, err := os.ReadDir(bm.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var searchPath string
	if originalFilePath != "" {
		if abs, err := filepath.Abs(originalFilePath); err == nil {
			searchPath = filepath.Clean(abs)
		} else {
			searchPath = originalFilePath
		}
	}

	var backups []BackupMetadata
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backupExt) {
			continue
		}
		meta, err := parseBackupFilename(entry.Name(), filepath.Join(bm.backupDir, entry.Name()))
		if err != nil {
			continue
		}
		if searchPath != "" && filepath.Clean(meta.OriginalFile) != searchPath {
			continue
		}
		backups = append(backups, meta)
	}

	slices.SortFunc(backups, func(a, b BackupMetadata) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return backups, nil
}

// Prune removes all but the newest keep backups of originalFilePath and
// returns how many were removed
func (bm *BackupManager) Prune(originalFilePath string, keep int) (int, error) {
	backups, err := bm.FindBackupsForFile(originalFilePath)
	if err != nil {
		return 0, err
	}
	removed := 0
	for len(backups)-removed > keep {
		if err := os.Remove(backups[removed].FilePath); err != nil {
			return removed, fmt.Errorf("failed to remove backup: %w", err)
		}
		removed++
	}
	return removed, nil
}

// LoadBackup reads the document stored in a backup
func LoadBackup(meta BackupMetadata) (*Document, error) {
	return NewJSONStore(meta.FilePath).Load()
}

// parseBackupFilename reads the timestamp and session from the name and the
// original path from the content
func parseBackupFilename(filename, fullPath string) (BackupMetadata, error) {
	name := strings.TrimSuffix(filename, backupExt)
	if len(name) < len(backupTimestamp)+2 || name[len(backupTimestamp)] != '_' {
		return BackupMetadata{}, fmt.Errorf("not a backup name: %s", filename)
	}

	timestamp, err := time.ParseInLocation(backupTimestamp, name[:len(backupTimestamp)], time.Local)
	if err != nil {
		return BackupMetadata{}, fmt.Errorf("invalid timestamp format: %w", err)
	}

	meta := BackupMetadata{
		FilePath:  fullPath,
		Timestamp: timestamp,
		SessionID: name[len(backupTimestamp)+1:],
	}
	if data, err := os.ReadFile(fullPath); err == nil {
		var doc Document
		if err := json.Unmarshal(data, &doc); err == nil {
			meta.OriginalFile = doc.OriginalFile
		}
	}
	return meta, nil
}
