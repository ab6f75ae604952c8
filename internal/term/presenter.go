// Package term shows raster frames on a terminal. Every cell displays two
// vertically stacked pixels with the upper half block glyph.
package term

import (
	"image"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-treeview/internal/theme"
)

const upperHalfBlock = '▀'

// Presenter owns the pixel canvas for a tcell screen. The last terminal row
// is reserved for the status line.
type Presenter struct {
	screen tcell.Screen
	status theme.Status
	canvas *image.RGBA
}

// NewPresenter creates a presenter for screen and sizes its canvas
func NewPresenter(screen tcell.Screen, status theme.Status) *Presenter {
	p := &Presenter{screen: screen, status: status}
	p.Resize()
	return p
}

// Resize follows the screen size and returns the canvas rectangle. The
// canvas is reallocated only when the size changed.
func (p *Presenter) Resize() image.Rectangle {
	cols, rows := p.screen.Size()
	r := image.Rect(0, 0, max(cols, 0), max(rows-1, 0)*2)
	if p.canvas == nil || p.canvas.Bounds() != r {
		p.canvas = image.NewRGBA(r)
	}
	return r
}

// Canvas returns the pixel buffer drawn by Flush
func (p *Presenter) Canvas() *image.RGBA {
	return p.canvas
}

// Flush copies the canvas to the screen cells. Call Show to display them.
func (p *Presenter) Flush() {
	b := p.canvas.Bounds()
	for y := b.Min.Y; y+1 < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := p.canvas.RGBAAt(x, y)
			bottom := p.canvas.RGBAAt(x, y+1)
			style := tcell.StyleDefault.Foreground(theme.ToTcell(top)).Background(theme.ToTcell(bottom))
			p.screen.SetContent(x, y/2, upperHalfBlock, nil, style)
		}
	}
}

// SetStatus draws the status line: text on the left and message right
// aligned, both cut to fit
func (p *Presenter) SetStatus(text, message string) {
	cols, rows := p.screen.Size()
	if rows == 0 {
		return
	}
	y := rows - 1
	bg := theme.ToTcell(p.status.Background)
	textStyle := tcell.StyleDefault.Foreground(theme.ToTcell(p.status.Text)).Background(bg)
	msgStyle := tcell.StyleDefault.Foreground(theme.ToTcell(p.status.Message)).Background(bg)

	message = TruncateToWidthWithEllipsis(message, cols/2)
	msgWidth := StringWidth(message)
	line := PadStringToWidth(TruncateToWidthWithEllipsis(text, cols-msgWidth-1), cols-msgWidth)

	x := p.drawString(0, y, line, textStyle)
	p.drawString(x, y, message, msgStyle)
}

// drawString draws s at (x, y) and returns the column after it
func (p *Presenter) drawString(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		w := RuneWidth(r)
		if w == 0 {
			continue
		}
		p.screen.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

// Show displays the drawn cells
func (p *Presenter) Show() {
	p.screen.Show()
}

// PixelEvent converts a mouse event from cell to canvas coordinates
func (p *Presenter) PixelEvent(ev *tcell.EventMouse) *tcell.EventMouse {
	x, y := ev.Position()
	return tcell.NewEventMouse(x, y*2, ev.Buttons(), ev.Modifiers())
}

// InStatusLine reports whether a mouse event hit the status row
func (p *Presenter) InStatusLine(ev *tcell.EventMouse) bool {
	_, rows := p.screen.Size()
	_, y := ev.Position()
	return y >= rows-1
}
