package ui

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

func TestRenderStripesAndSelection(t *testing.T) {
	a, b := leaf("a"), leaf("b")
	b.Selected = true
	b.Playing = true
	tree := model.NewTree(a, b)
	c := NewTreeControl(tree, testSkin())
	c.SetBounds(image.Rect(0, 0, 50, 40))

	frame := c.Frame()
	require.NotNil(t, frame)

	assert.Equal(t, testPalette.Background1, frame.RGBAAt(45, 5), "row 0")
	assert.Equal(t, testPalette.Selection, frame.RGBAAt(45, 15), "row 1 selected")
	assert.Equal(t, testPalette.Background1, frame.RGBAAt(45, 25), "row 2 empty")
	assert.Equal(t, testPalette.Background2, frame.RGBAAt(45, 35), "row 3 empty")

	// Labels start after one indentation step and sit on the row bottom
	assert.Equal(t, testPalette.Foreground, frame.RGBAAt(8, 5))
	assert.Equal(t, testPalette.Background1, frame.RGBAAt(8, 0), "label is bottom aligned")
	assert.Equal(t, testPalette.Playing, frame.RGBAAt(8, 15))
	assert.Equal(t, testPalette.Background1, frame.RGBAAt(3, 5), "no icon configured")
}

func TestRenderIndentsByDepth(t *testing.T) {
	child := leaf("child")
	top := nest(leaf("top"), child)
	top.Expanded = true
	tree := model.NewTree(top)

	sk := testSkin()
	icon := image.NewRGBA(image.Rect(0, 0, 5, 5))
	red := color.RGBA{0xff, 0, 0, 0xff}
	draw.Draw(icon, icon.Bounds(), image.NewUniform(red), image.Point{}, draw.Src)
	sk.ItemIcon = icon
	sk.OpenIcon = icon

	c := NewTreeControl(tree, sk)
	c.SetBounds(image.Rect(0, 0, 60, 20))
	frame := c.Frame()

	// Icons centered: (10 - 5 + 1) / 2 = 3
	assert.Equal(t, red, frame.RGBAAt(0, 3), "open icon of top")
	assert.NotEqual(t, red, frame.RGBAAt(0, 2))
	assert.Equal(t, red, frame.RGBAAt(7, 13), "item icon of child")
	assert.Equal(t, testPalette.Foreground, frame.RGBAAt(14, 15), "child label")
	assert.NotEqual(t, testPalette.Foreground, frame.RGBAAt(13, 15))
}

func TestRenderFlatIgnoresDepth(t *testing.T) {
	top := nest(leaf("top"), leaf("child"))
	tree := model.NewTree(top)
	c := NewTreeControl(tree, testSkin(), WithFlat(true))
	c.SetBounds(image.Rect(0, 0, 60, 10))

	assert.Equal(t, testPalette.Foreground, c.Frame().RGBAAt(7, 5))
}

func TestRenderSkipsDeleted(t *testing.T) {
	items := flatItems(3)
	items[1].Deleted = true
	items[2].Selected = true
	tree := model.NewTree(items...)
	c := newTestControl(tree, 3)

	assert.Equal(t, testPalette.Selection, c.Frame().RGBAAt(90, 15), "row 1 shows item 2")
}

func TestRenderWithBackgroundImage(t *testing.T) {
	items := flatItems(2)
	items[1].Selected = true
	tree := model.NewTree(items...)

	sk := testSkin()
	bgColor := color.RGBA{0x40, 0x50, 0x60, 0xff}
	bg := image.NewRGBA(image.Rect(0, 0, 2, 2))
	draw.Draw(bg, bg.Bounds(), image.NewUniform(bgColor), image.Point{}, draw.Src)
	sk.Background = bg

	c := NewTreeControl(tree, sk)
	c.SetBounds(image.Rect(0, 0, 50, 30))
	frame := c.Frame()

	assert.Equal(t, bgColor, frame.RGBAAt(45, 5))
	assert.Equal(t, testPalette.Selection, frame.RGBAAt(45, 15))
	assert.Equal(t, bgColor, frame.RGBAAt(45, 25))

	scaled := c.scaledBg
	require.NotNil(t, scaled)
	c.SetBounds(image.Rect(10, 10, 60, 40))
	assert.Same(t, scaled, c.scaledBg, "same size reuses the scaled background")
	c.SetBounds(image.Rect(0, 0, 80, 30))
	assert.NotSame(t, scaled, c.scaledBg)
}

func TestRenderErrorKeepsPreviousFrame(t *testing.T) {
	items := flatItems(3)
	tree := model.NewTree(items...)

	var buf bytes.Buffer
	layouts := 0
	c := newTestControl(tree, 3, WithLogger(zerolog.New(&buf)), WithLayoutNotifier(func() { layouts++ }))
	frame := c.Frame()
	require.NotNil(t, frame)

	items[1].Text = "boom"
	tree.Update(items[1])

	assert.Same(t, frame, c.Frame())
	assert.Contains(t, buf.String(), "Failed to render tree label")
	assert.Contains(t, buf.String(), items[1].ID)
	assert.Equal(t, 1, layouts)
}

func TestDrawClips(t *testing.T) {
	items := flatItems(3)
	items[0].Selected = true
	tree := model.NewTree(items...)
	c := NewTreeControl(tree, testSkin())
	c.SetBounds(image.Rect(10, 10, 60, 50))

	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	c.Draw(dst, image.Rect(0, 0, 30, 30))

	assert.Equal(t, c.Frame().RGBAAt(15, 5), dst.RGBAAt(25, 15), "inside the clip")
	assert.Equal(t, testPalette.Foreground, dst.RGBAAt(25, 15))
	assert.Equal(t, testPalette.Selection, dst.RGBAAt(29, 10))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(35, 15), "right of the clip")
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(5, 5), "outside the bounds")

	// Disjoint clip draws nothing
	other := image.NewRGBA(image.Rect(0, 0, 100, 100))
	c.Draw(other, image.Rect(70, 70, 90, 90))
	assert.Equal(t, color.RGBA{}, other.RGBAAt(75, 75))
}

func TestNoBoundsNoFrame(t *testing.T) {
	tree := model.NewTree(flatItems(3)...)
	c := NewTreeControl(tree, testSkin())
	assert.Nil(t, c.Frame())

	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	c.Draw(dst, dst.Bounds())
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(1, 1))
}
