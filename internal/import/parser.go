// Package import_parser turns plain text outlines into items
package import_parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

// ImportFormat represents different file formats that can be imported
type ImportFormat string

const (
	FormatNone         ImportFormat = ""
	FormatMarkdown     ImportFormat = "markdown"
	FormatIndentedText ImportFormat = "indented"
)

// Parser interface for different import formats
type Parser interface {
	Parse(r io.Reader) ([]*model.Item, error)
	Name() string
}

// DetectFormat picks the format from the file extension. Files that are
// not text outlines give FormatNone.
func DetectFormat(filename string) ImportFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".txt", ".outline":
		return FormatIndentedText
	}
	return FormatNone
}

// NewParser returns the parser for format
func NewParser(format ImportFormat) (Parser, error) {
	switch format {
	case FormatMarkdown:
		return &MarkdownParser{}, nil
	case FormatIndentedText:
		return &IndentedTextParser{}, nil
	}
	return nil, fmt.Errorf("unsupported import format: %q", format)
}

// ImportFile reads path with the parser for its extension
func ImportFile(path string) ([]*model.Item, error) {
	parser, err := NewParser(DetectFormat(path))
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	items, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse error (%s): %w", parser.Name(), err)
	}
	return items, nil
}

// builder places items by nesting level. A level deeper than one below the
// previous item is clamped to a child of that item.
type builder struct {
	roots []*model.Item
	stack []*model.Item
}

// add creates an item at level and returns the level actually used
func (b *builder) add(level int, text string) int {
	level = min(max(level, 0), len(b.stack))
	b.stack = b.stack[:level]

	item := model.NewItem(text)
	if level == 0 {
		b.roots = append(b.roots, item)
	} else {
		b.stack[level-1].AddChild(item)
	}
	b.stack = append(b.stack, item)
	return level
}

func (b *builder) items() []*model.Item {
	if b.roots == nil {
		return []*model.Item{}
	}
	return b.roots
}

// indentLevel counts leading whitespace in steps of two spaces; a tab
// counts as two
func indentLevel(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 2
		default:
			return width / 2
		}
	}
	return width / 2
}

func scanLines(r io.Reader, fn func(line string)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}
		fn(line)
	}
	return scanner.Err()
}
