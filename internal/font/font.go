// Package font shapes item labels into bitmaps for the tree control
package font

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"unicode/utf8"

	"git.sr.ht/~sbinet/gg"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// ErrInvalidText is returned when a label is not valid UTF-8
var ErrInvalidText = errors.New("label is not valid UTF-8")

const ellipsis = "…"

// Options configures a Face
type Options struct {
	Path string  // TTF/OTF file; empty selects Go Regular
	Size float64 // Points at 72 DPI
	Wrap bool    // Wrap long labels on word boundaries instead of truncating
}

// Face renders labels with a single font face
type Face struct {
	face   xfont.Face
	ascent int
	height int
	wrap   bool
}

// New loads the face described by opts
func New(opts Options) (*Face, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("invalid font size %v", opts.Size)
	}

	var (
		face xfont.Face
		err  error
	)
	if opts.Path != "" {
		face, err = gg.LoadFontFace(opts.Path, opts.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to load font %s: %w", opts.Path, err)
		}
	} else {
		face, err = gg.LoadFontFaceFromBytes(goregular.TTF, opts.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to load default font: %w", err)
		}
	}

	f := FromFace(face)
	f.wrap = opts.Wrap
	return f, nil
}

// Basic returns the fixed 7x13 bitmap face
func Basic() *Face {
	return FromFace(basicfont.Face7x13)
}

// FromFace wraps an existing x/image face
func FromFace(face xfont.Face) *Face {
	m := face.Metrics()
	height := m.Height.Ceil()
	if h := (m.Ascent + m.Descent).Ceil(); h > height {
		height = h
	}
	return &Face{
		face:   face,
		ascent: m.Ascent.Ceil(),
		height: height,
	}
}

// Size returns the line height in pixels
func (f *Face) Size() int {
	return f.height
}

// Measure returns the advance width of s in pixels
func (f *Face) Measure(s string) int {
	return xfont.MeasureString(f.face, s).Ceil()
}

// DrawString renders text in col into a bitmap no wider than maxWidth.
// Long labels are truncated with an ellipsis, or wrapped when the face was
// created with Wrap.
func (f *Face) DrawString(text string, col color.Color, maxWidth int) (image.Image, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidText
	}
	if maxWidth <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, f.height)), nil
	}

	var lines []string
	if f.wrap {
		lines = f.wrapLines(text, maxWidth)
	} else {
		lines = []string{f.truncate(text, maxWidth)}
	}

	width := 1
	for _, line := range lines {
		if w := f.Measure(line); w > width {
			width = w
		}
	}
	if width > maxWidth {
		width = maxWidth
	}

	dc := gg.NewContext(width, f.height*len(lines))
	dc.SetFontFace(f.face)
	dc.SetColor(col)
	for i, line := range lines {
		dc.DrawString(line, 0, float64(f.ascent+i*f.height))
	}
	return dc.Image(), nil
}

// truncate shortens text so that it fits in maxWidth, appending an ellipsis
func (f *Face) truncate(text string, maxWidth int) string {
	limit := fixed.I(maxWidth)
	if xfont.MeasureString(f.face, text) <= limit {
		return text
	}

	budget := limit - xfont.MeasureString(f.face, ellipsis)
	if budget <= 0 {
		return ""
	}

	var (
		b    strings.Builder
		adv  fixed.Int26_6
		prev = rune(-1)
	)
	for _, r := range text {
		if prev >= 0 {
			adv += f.face.Kern(prev, r)
		}
		a, ok := f.face.GlyphAdvance(r)
		if !ok {
			a, _ = f.face.GlyphAdvance('?')
		}
		if adv+a > budget {
			break
		}
		adv += a
		b.WriteRune(r)
		prev = r
	}
	return b.String() + ellipsis
}

// wrapLines splits text on spaces so that every line fits in maxWidth when
// possible; single words wider than maxWidth are truncated
func (f *Face) wrapLines(text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines   []string
		current string
	)
	for _, w := range words {
		candidate := w
		if current != "" {
			candidate = current + " " + w
		}
		if f.Measure(candidate) <= maxWidth || current == "" {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}
	lines = append(lines, current)

	for i, line := range lines {
		lines[i] = f.truncate(line, maxWidth)
	}
	return lines
}
