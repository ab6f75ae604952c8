package import_parser

import (
	"io"
	"strings"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

// IndentedTextParser reads one item per line, nested by indentation
type IndentedTextParser struct{}

func (p *IndentedTextParser) Name() string {
	return "Indented Text"
}

func (p *IndentedTextParser) Parse(r io.Reader) ([]*model.Item, error) {
	var b builder
	err := scanLines(r, func(line string) {
		b.add(indentLevel(line), strings.TrimSpace(line))
	})
	if err != nil {
		return nil, err
	}
	return b.items(), nil
}
