package storage

import (
	"path/filepath"
	"strings"

	import_parser "github.com/pstuifzand/tui-treeview/internal/import"
)

// OpenDocument loads path. Markdown and indented text outlines are imported
// and titled after the file; they are saved next to the source with a .json
// extension. The second result is the path to save to.
func OpenDocument(path string) (*Document, string, error) {
	if import_parser.DetectFormat(path) == import_parser.FormatNone {
		doc, err := NewJSONStore(path).Load()
		return doc, path, err
	}

	items, err := import_parser.ImportFile(path)
	if err != nil {
		return nil, "", err
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return &Document{Title: filepath.Base(base), Items: items}, base + ".json", nil
}
