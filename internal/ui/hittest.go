package ui

import (
	"image"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

// Region identifies the part of a row under the pointer
type Region int

const (
	RegionNone Region = iota
	RegionLabel
	RegionDisclosure // Expand/collapse glyph of a node
)

func (r Region) String() string {
	switch r {
	case RegionLabel:
		return "label"
	case RegionDisclosure:
		return "disclosure"
	}
	return "none"
}

// HitTest returns the item displayed at p in the current frame and the
// region that was hit
func (c *TreeControl) HitTest(p image.Point) (*model.Item, Region) {
	if !c.hasBounds || !p.In(c.bounds) {
		return nil, RegionNone
	}

	var it *model.Item
	y := p.Y - c.bounds.Min.Y
	for _, r := range c.rows {
		if y >= r.y0 && y < r.y1 {
			it = c.tree.FindByID(r.id)
			break
		}
	}
	if it == nil || it.Deleted {
		return nil, RegionNone
	}

	if !c.trav.Flat() && it.HasLiveChildren() {
		col := p.X - c.bounds.Min.X
		iw := c.ItemImageWidth()
		depth := it.Depth()
		if col >= (depth-1)*iw && col < depth*iw {
			return it, RegionDisclosure
		}
	}
	return it, RegionLabel
}
