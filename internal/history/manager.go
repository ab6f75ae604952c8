// Package history keeps prompt input history and persists it as TOML
package history

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Manager loads and saves history files in one directory
type Manager struct {
	historyDir string
}

// File is the structure of a history TOML file
type File struct {
	Entries []string `toml:"entries"`
}

// DefaultDir returns ~/.local/share/tui-treeview/history
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "share", "tui-treeview", "history"), nil
}

// NewManager creates a manager for dir, or for DefaultDir when dir is empty
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &Manager{historyDir: dir}, nil
}

// Load reads the entries of filename. A missing or corrupted file yields no
// entries.
func (m *Manager) Load(filename string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(m.historyDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, nil
	}
	return f.Entries, nil
}

// Save writes entries to filename
func (m *Manager) Save(filename string, entries []string) error {
	data, err := toml.Marshal(File{Entries: entries})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(m.historyDir, filename), data, 0o644)
}
