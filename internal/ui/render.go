package ui

import (
	"image"
	"image/color"
	"time"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/draw"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

// Draw copies the part of the frame that lies in clip to dst. Both
// rectangles are in the caller's coordinate space.
func (c *TreeControl) Draw(dst draw.Image, clip image.Rectangle) {
	if c.frame == nil || !c.hasBounds {
		return
	}
	inter := c.bounds.Intersect(clip)
	if inter.Empty() {
		return
	}
	draw.Draw(dst, inter, c.frame, inter.Min.Sub(c.bounds.Min), draw.Src)
}

// redraw rebuilds the frame and tells the owner that the content changed
func (c *TreeControl) redraw() {
	c.makeImage()
	if c.onLayout != nil {
		c.onLayout()
	}
}

// drawnRow is the vertical extent of one item in the frame
type drawnRow struct {
	id     string
	y0, y1 int
}

// makeImage renders the visible rows into a new frame. When a label cannot
// be shaped the previous frame is kept.
func (c *TreeControl) makeImage() {
	if !c.hasBounds {
		return
	}
	start := time.Now()

	width, height := c.bounds.Dx(), c.bounds.Dy()
	ih := c.ItemHeight()
	iw := c.ItemImageWidth()
	palette := c.skin.Palette

	type shapedRow struct {
		drawnRow
		it    *model.Item
		text  image.Image
		depth int
	}
	var rows []shapedRow
	y := 0
	for it := c.anchorItem(); it != nil && y < height; it = c.next(it) {
		col := palette.Foreground
		if it.Playing {
			col = palette.Playing
		}
		depth := 1
		if !c.trav.Flat() {
			depth = it.Depth()
		}

		text, err := c.skin.Font.DrawString(it.Text, col, width-iw*depth)
		if err != nil {
			c.log.Error().Err(err).Str("item", it.ID).Msg("Failed to render tree label")
			return
		}

		// Taller labels push the rows below
		rowHeight := max(ih, text.Bounds().Dy())
		rows = append(rows, shapedRow{drawnRow: drawnRow{id: it.ID, y0: y, y1: y + rowHeight}, it: it, text: text, depth: depth})
		y += rowHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	dc := gg.NewContextForRGBA(img)

	if c.skin.Background != nil {
		dc.DrawImage(c.scaledBackground(width, height), 0, 0)
		for _, r := range rows {
			if r.it.Selected {
				fillRow(dc, r.y0, width, min(r.y1, height)-r.y0, palette.Selection)
			}
		}
	} else {
		bg := palette.Background1
		stripe := func(y0, y1 int, col color.Color) {
			fillRow(dc, y0, width, min(y1, height)-y0, col)
			if bg == palette.Background1 {
				bg = palette.Background2
			} else {
				bg = palette.Background1
			}
		}
		for _, r := range rows {
			col := bg
			if r.it.Selected {
				col = palette.Selection
			}
			stripe(r.y0, r.y1, col)
		}
		// y is the bottom of the last row
		for ; y < height; y += ih {
			stripe(y, y+ih, bg)
		}
	}

	drawn := make([]drawnRow, 0, len(rows))
	for _, r := range rows {
		drawn = append(drawn, r.drawnRow)
		if icon := c.iconFor(r.it); icon != nil {
			// Centered on the first line of the row
			iy := r.y0 + (ih-icon.Bounds().Dy()+1)/2
			if iy >= height {
				break
			}
			blit(img, icon, iw*(r.depth-1), iy)
		}
		// Labels sit on the bottom of the row
		blit(img, r.text, iw*r.depth, r.y1-r.text.Bounds().Dy())
	}

	c.frame = img
	c.rows = drawn
	c.log.Debug().Dur("elapsed", time.Since(start)).Int("width", width).Int("height", height).Msg("Tree image rebuilt")
}

// iconFor picks the open, closed or item icon
func (c *TreeControl) iconFor(it *model.Item) image.Image {
	if it.HasLiveChildren() {
		if it.Expanded {
			return c.skin.OpenIcon
		}
		return c.skin.ClosedIcon
	}
	return c.skin.ItemIcon
}

// scaledBackground returns the background image scaled to the given size,
// reusing the previous result when the size did not change
func (c *TreeControl) scaledBackground(width, height int) image.Image {
	if c.scaledBg != nil && c.scaledBg.Bounds().Dx() == width && c.scaledBg.Bounds().Dy() == height {
		return c.scaledBg
	}
	src := c.skin.Background
	c.scaledBg = image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(c.scaledBg, c.scaledBg.Bounds(), src, src.Bounds(), draw.Src, nil)
	return c.scaledBg
}

func fillRow(dc *gg.Context, y, width, height int, col color.Color) {
	dc.DrawRectangle(0, float64(y), float64(width), float64(height))
	dc.SetColor(col)
	dc.Fill()
}

// blit composites src onto dst with its top-left corner at (x, y); the
// destination bounds clip
func blit(dst *image.RGBA, src image.Image, x, y int) {
	sb := src.Bounds()
	r := image.Rect(x, y, x+sb.Dx(), y+sb.Dy())
	draw.Draw(dst, r, src, sb.Min, draw.Over)
}
