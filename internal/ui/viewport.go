package ui

import (
	"image"
	"math"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

// SetBounds assigns the control's rectangle in the caller's coordinate space.
// The anchor is recomputed from the position and the frame rebuilt.
func (c *TreeControl) SetBounds(r image.Rectangle) {
	c.bounds = r
	c.hasBounds = !r.Empty()
	c.syncAnchor(c.tree.Position().Get())
	c.makeImage()
}

// EnsureVisible expands the ancestors of it and scrolls so that it lies in
// the visible window. It reports whether the position was changed.
func (c *TreeControl) EnsureVisible(it *model.Item) bool {
	if it == nil {
		return false
	}
	if c.tree.EnsureExpanded(it) && !c.trav.Flat() {
		c.expansionChanged()
		defer c.redraw()
	}

	rank := c.trav.Rank(it)
	if rank == 0 {
		return false
	}
	first := c.trav.Rank(c.anchorItem())
	if rank >= first && rank <= first+c.MaxItems()-1 {
		return false
	}

	v := 1.0
	if indexMax := c.trav.Count() - 1; indexMax > 0 {
		v = 1 - float64(rank-1)/float64(indexMax)
	}
	pos := c.tree.Position()
	if pos.Get() == v {
		// No notification will come; resync directly
		c.onPositionChange(v)
	} else {
		pos.Set(v)
	}
	return true
}

// onPositionChange follows external writes of the position value
func (c *TreeControl) onPositionChange(v float64) {
	if c.dontMove {
		return
	}
	prev := c.anchorID
	c.syncAnchor(v)
	if c.anchorID != prev {
		c.redraw()
	}
}

// syncAnchor maps the position value to the anchor item
func (c *TreeControl) syncAnchor(v float64) {
	maxItems := c.MaxItems()
	excess := c.trav.Count() - maxItems
	if maxItems < 0 || excess <= 0 {
		c.setAnchor(c.first())
		return
	}

	rank := int(math.RoundToEven((1-v)*float64(excess))) + 1
	it := c.trav.At(rank)
	for it != nil && it.Deleted {
		it = c.trav.Prev(it)
	}
	if it == nil {
		it = c.first()
	}
	c.setAnchor(it)
}

// writePosition sets the position without moving the anchor. The previous
// guard state is restored so nested writes keep the outer write guarded.
func (c *TreeControl) writePosition(v float64) {
	saved := c.dontMove
	c.dontMove = true
	defer func() { c.dontMove = saved }()
	c.tree.Position().Set(v)
}

// expansionChanged realigns the position with the anchor after the set of
// visible items changed
func (c *TreeControl) expansionChanged() {
	v := 1.0
	if indexMax := c.trav.Count() - 1; indexMax > 0 {
		v = 1 - float64(c.trav.Rank(c.anchorItem())-1)/float64(indexMax)
	}
	c.writePosition(v)
}

// isItemVisible reports whether the item with the given ID falls in the
// visible window
func (c *TreeControl) isItemVisible(id string) bool {
	it := c.tree.FindByID(id)
	if it == nil {
		return false
	}
	first := c.trav.Rank(c.anchorItem())
	rank := c.trav.Rank(it)
	return rank > 0 && rank >= first && rank <= first+c.MaxItems()-1
}

// autoScroll brings the playing item into view
func (c *TreeControl) autoScroll() {
	if c.trav.Flat() {
		for it := c.first(); it != nil; it = c.next(it) {
			if it.Playing {
				c.EnsureVisible(it)
				return
			}
		}
		return
	}
	for it := c.tree.Begin(); it != nil; it = c.tree.NextItem(it) {
		if it.Playing && !it.Deleted {
			c.EnsureVisible(it)
			return
		}
	}
}

// onTreeUpdate follows model notifications
func (c *TreeControl) onTreeUpdate(u model.Update) {
	switch u.Kind {
	case model.UpdateItem:
		if u.Active {
			c.autoScroll()
		}
		if c.isItemVisible(u.ID) {
			c.redraw()
		}

	case model.AppendItem:
		anchor := c.tree.FindByID(c.anchorID)
		switch {
		case anchor == nil || anchor.Deleted:
			c.setAnchor(c.first())
			c.redraw()
		case !c.trav.Participates(anchor) && c.trav.Flat():
			// The anchor stopped being a leaf when it got a child
			next := c.next(anchor)
			if next == nil {
				next = c.first()
			}
			c.setAnchor(next)
			c.redraw()
		case !c.trav.Participates(anchor):
			c.anchorItem()
			c.redraw()
		case c.isItemVisible(u.ID):
			c.redraw()
		}

	case model.DeleteItem:
		prev := c.anchorID
		c.anchorItem()
		if c.anchorID != prev || c.isItemVisible(u.ID) {
			c.redraw()
		}

	case model.ResetAll:
		anchor := c.tree.FindByID(c.anchorID)
		if anchor == nil || anchor.Deleted || !c.trav.Participates(anchor) {
			c.syncAnchor(c.tree.Position().Get())
		}
		c.redraw()
	}
}
