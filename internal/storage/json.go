// Package storage persists tree documents as JSON files
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

// Document is the on-disk form of a tree
type Document struct {
	Title string        `json:"title,omitempty"`
	Items []*model.Item `json:"items"`

	// Set on backups only
	OriginalFile string `json:"original_file,omitempty"`
}

// Tree builds a model tree from the document's items
func (d *Document) Tree() *model.Tree {
	return model.NewTree(d.Items...)
}

// FromTree creates a document with the live items of tree
func FromTree(title string, tree *model.Tree) *Document {
	return &Document{Title: title, Items: liveItems(tree.Items())}
}

// JSONStore handles JSON file persistence
type JSONStore struct {
	FilePath string
}

// NewJSONStore creates a new JSON store for the given file path
func NewJSONStore(filePath string) *JSONStore {
	return &JSONStore{
		FilePath: filePath,
	}
}

// Load reads the document. A missing file yields an empty document.
func (s *JSONStore) Load() (*Document, error) {
	data, err := os.ReadFile(s.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Document{Title: "Untitled", Items: []*model.Item{}}, nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a document from JSON
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if doc.Items == nil {
		doc.Items = []*model.Item{}
	}
	return &doc, nil
}

// Save writes the document, creating the directory when needed
func (s *JSONStore) Save(doc *Document) error {
	dir := filepath.Dir(s.FilePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	// Written to a temporary file and renamed into place
	tmp := s.FilePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, s.FilePath); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}

// FileExists checks if the document file exists
func (s *JSONStore) FileExists() bool {
	_, err := os.Stat(s.FilePath)
	return err == nil
}

// liveItems copies the item hierarchy without soft-deleted items
func liveItems(items []*model.Item) []*model.Item {
	out := make([]*model.Item, 0, len(items))
	for _, it := range items {
		if it.Deleted {
			continue
		}
		cp := *it
		cp.Parent = nil
		cp.Children = liveItems(it.Children)
		out = append(out, &cp)
	}
	return out
}
