package ui

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"

	"github.com/pstuifzand/tui-treeview/internal/model"
	"github.com/pstuifzand/tui-treeview/internal/skin"
	"github.com/pstuifzand/tui-treeview/internal/theme"
)

// boxFont renders every label as a solid box 4px per byte wide
type boxFont struct {
	size int
	fail string // Text that fails to shape
}

func (f boxFont) Size() int { return f.size }

func (f boxFont) DrawString(text string, col color.Color, maxWidth int) (image.Image, error) {
	if f.fail != "" && text == f.fail {
		return nil, errors.New("cannot shape label")
	}
	w := min(len(text)*4, max(maxWidth, 0))
	img := image.NewRGBA(image.Rect(0, 0, w, f.size))
	draw.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
	return img, nil
}

var testPalette = theme.Palette{
	Foreground:  color.RGBA{0xff, 0xff, 0xff, 0xff},
	Playing:     color.RGBA{0x00, 0xff, 0x00, 0xff},
	Background1: color.RGBA{0x10, 0x10, 0x10, 0xff},
	Background2: color.RGBA{0x20, 0x20, 0x20, 0xff},
	Selection:   color.RGBA{0x00, 0x00, 0xff, 0xff},
}

// Rows are 10px high and indentation steps 7px wide with this skin
const testRow = 10

func testSkin() *skin.Skin {
	return &skin.Skin{Font: boxFont{size: 9, fail: "boom"}, Palette: testPalette}
}

// flatItems creates n top-level leaves named 0..n-1
func flatItems(n int) []*model.Item {
	items := make([]*model.Item, n)
	for i := range items {
		items[i] = &model.Item{ID: fmt.Sprintf("i%02d", i), Text: fmt.Sprintf("item %d", i)}
	}
	return items
}

func nest(parent *model.Item, children ...*model.Item) *model.Item {
	for _, c := range children {
		parent.AddChild(c)
	}
	return parent
}

func leaf(id string) *model.Item {
	return &model.Item{ID: id, Text: id}
}

// newTestControl creates a control with room for rows rows
func newTestControl(tree *model.Tree, rows int, opts ...Option) *TreeControl {
	c := NewTreeControl(tree, testSkin(), opts...)
	c.SetBounds(image.Rect(0, 0, 100, rows*testRow))
	return c
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

// click sends a Button1 press and release at the middle of the given row
func click(c *TreeControl, x, row int, mods tcell.ModMask) {
	y := c.bounds.Min.Y + row*testRow + testRow/2
	c.HandleEvent(tcell.NewEventMouse(c.bounds.Min.X+x, y, tcell.Button1, mods))
	c.HandleEvent(tcell.NewEventMouse(c.bounds.Min.X+x, y, tcell.ButtonNone, mods))
}

// steppingClock advances one second per call
func steppingClock() func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func selectedIDs(tree *model.Tree) []string {
	var out []string
	for _, it := range tree.All() {
		if it.Selected {
			out = append(out, it.ID)
		}
	}
	return out
}

func dump(v ...interface{}) string {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, MaxDepth: 2}
	return cfg.Sdump(v...)
}
