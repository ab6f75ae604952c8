package import_parser

import (
	"io"
	"strings"
	"unicode"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

// MarkdownParser reads headers and lists. Headers nest below headers of a
// lower level; list items and paragraphs nest below the last header.
type MarkdownParser struct{}

func (p *MarkdownParser) Name() string {
	return "Markdown"
}

func (p *MarkdownParser) Parse(r io.Reader) ([]*model.Item, error) {
	var b builder
	var headers []int // Levels of the open headers, outermost first
	base := 0
	err := scanLines(r, func(line string) {
		if level, text, ok := parseHeader(line); ok {
			for len(headers) > 0 && headers[len(headers)-1] >= level {
				headers = headers[:len(headers)-1]
			}
			base = b.add(len(headers), text) + 1
			headers = append(headers, level)
			return
		}
		if text, ok := parseListItem(strings.TrimSpace(line)); ok {
			b.add(base+indentLevel(line), text)
			return
		}
		b.add(base, strings.TrimSpace(line))
	})
	if err != nil {
		return nil, err
	}
	return b.items(), nil
}

// parseHeader returns the 0-based level of an ATX header
func parseHeader(line string) (int, string, bool) {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 || (n < len(line) && line[n] != ' ') {
		return 0, "", false
	}
	text := strings.TrimSpace(strings.TrimRight(line[n:], "#"))
	if text == "" {
		return 0, "", false
	}
	return n - 1, text, true
}

// parseListItem strips a bullet ("- ", "* ", "+ ") or number ("1. ",
// "2) ") marker and a task checkbox
func parseListItem(trimmed string) (string, bool) {
	var rest string
	switch {
	case len(trimmed) > 2 && strings.ContainsRune("-*+", rune(trimmed[0])) && trimmed[1] == ' ':
		rest = trimmed[2:]
	default:
		i := 0
		for i < len(trimmed) && unicode.IsDigit(rune(trimmed[i])) {
			i++
		}
		if i == 0 || i+1 >= len(trimmed) || (trimmed[i] != '.' && trimmed[i] != ')') || trimmed[i+1] != ' ' {
			return "", false
		}
		rest = trimmed[i+2:]
	}

	for _, box := range []string{"[ ] ", "[x] ", "[X] "} {
		rest = strings.TrimPrefix(rest, box)
	}
	rest = strings.TrimSpace(rest)
	return rest, rest != ""
}
