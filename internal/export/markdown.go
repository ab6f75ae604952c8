// Package export writes trees to other formats
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

// WriteMarkdown writes title as a header followed by the live items of tree
// as a nested bullet list, two spaces of indentation per level. Items
// without text keep their place so their children stay nested.
func WriteMarkdown(w io.Writer, title string, tree *model.Tree) error {
	bw := bufio.NewWriter(w)
	if title != "" {
		fmt.Fprintf(bw, "# %s\n\n", title)
	}
	for it := tree.Begin(); it != nil; it = tree.NextItem(it) {
		if it.Deleted {
			continue
		}
		indent := strings.Repeat("  ", it.Depth()-1)
		text := strings.Join(strings.Fields(it.Text), " ")
		if _, err := fmt.Fprintf(bw, "%s- %s\n", indent, text); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportToMarkdown writes tree to filePath as Markdown
func ExportToMarkdown(title string, tree *model.Tree, filePath string) error {
	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create markdown file: %w", err)
	}
	if err := WriteMarkdown(f, title, tree); err != nil {
		f.Close()
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	return f.Close()
}
