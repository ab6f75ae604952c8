package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

// handleKey runs the keyboard state machine. Keys without a binding are not
// consumed so the caller can dispatch them.
func (c *TreeControl) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyDelete:
		c.deleteSelection()
	case tcell.KeyPgDn:
		c.pageDown()
	case tcell.KeyPgUp:
		c.pageUp()
	case tcell.KeyUp:
		c.moveSelection(c.prev)
	case tcell.KeyDown:
		c.moveSelection(c.next)
	case tcell.KeyRight:
		c.descend()
	case tcell.KeyLeft:
		c.ascend()
	case tcell.KeyEnter:
		c.activateLastSelected()
	case tcell.KeyRune:
		if ev.Rune() != ' ' {
			return false
		}
		c.activateLastSelected()
	default:
		return false
	}
	return true
}

// deleteSelection soft-deletes the selected items and moves the selection
// to a surviving item
func (c *TreeControl) deleteSelection() {
	last := c.LastSelected()

	// Nearest unselected item before the last selected one
	var fallback *model.Item
	for it := c.first(); it != nil && it != last; it = c.next(it) {
		if !it.Selected {
			fallback = it
		}
	}

	c.tree.DelSelected()

	// Read-only items stay selected
	c.lastSelectedID = ""
	for it := c.first(); it != nil; it = c.next(it) {
		if it.Selected {
			c.lastSelectedID = it.ID
		}
	}

	if c.lastSelectedID == "" {
		if fallback == nil || fallback.Deleted || !c.trav.Participates(fallback) {
			fallback = c.first()
		}
		if fallback != nil {
			fallback.Selected = true
			c.lastSelectedID = fallback.ID
		}
	}

	c.redraw()
}

// pageDown scrolls about one and a half pages forward without touching the
// selection
func (c *TreeControl) pageDown() {
	it := c.anchorItem()
	if it == nil {
		return
	}
	moved := false
	for i := int(float64(c.MaxItems()) * 1.5); i >= 0; i-- {
		next := c.next(it)
		if next == nil {
			// The end is already visible
			break
		}
		it = next
		moved = true
	}
	if moved {
		c.EnsureVisible(it)
		c.redraw()
	}
}

// pageUp scrolls about half a page backward without touching the selection
func (c *TreeControl) pageUp() {
	it := c.anchorItem()
	if it == nil {
		return
	}
	first := c.first()
	maxItems := c.MaxItems()
	for i := maxItems; i >= maxItems/2; i-- {
		p := c.prev(it)
		if p == nil {
			break
		}
		it = p
		if it == first {
			break
		}
	}
	c.EnsureVisible(it)
	c.redraw()
}

// moveSelection selects the neighbour returned by step as the only selected
// item. At either end the current item stays selected.
func (c *TreeControl) moveSelection(step func(*model.Item) *model.Item) {
	target := c.lastSelectedVisible()
	if target == nil {
		target = c.anchorItem()
	} else if n := step(target); n != nil {
		target = n
	}
	if target == nil {
		return
	}

	c.clearSelection()
	target.Selected = true
	c.lastSelectedID = target.ID
	c.EnsureVisible(target)
	c.redraw()
}

// descend expands a collapsed node, moves into an expanded one, or
// activates a leaf
func (c *TreeControl) descend() {
	it := c.lastSelectedVisible()
	if it == nil {
		return
	}

	switch {
	case it.HasLiveChildren() && !it.Expanded && !c.trav.Flat():
		it.Expanded = true
		c.expansionChanged()
	case it.HasLiveChildren() && it.Expanded && !c.trav.Flat():
		child := it.FirstLiveChild()
		it.Selected = false
		child.Selected = true
		c.lastSelectedID = child.ID
		c.EnsureVisible(child)
	default:
		c.tree.Activate(it)
	}
	c.redraw()
}

// ascend collapses an expanded node or moves the selection to the parent
func (c *TreeControl) ascend() {
	it := c.lastSelectedVisible()
	if it == nil {
		return
	}

	if it.Expanded && it.HasLiveChildren() && !c.trav.Flat() {
		anchor := c.anchorItem()
		it.Expanded = false
		if isAncestor(it, anchor) {
			c.setAnchor(it)
		}
		c.expansionChanged()
		c.redraw()
		return
	}

	parent := it.Parent
	if parent == nil || parent == c.tree.Root() || parent.Deleted || !c.trav.Participates(parent) {
		return
	}
	it.Selected = false
	parent.Selected = true
	c.lastSelectedID = parent.ID
	c.EnsureVisible(parent)
	c.redraw()
}

func (c *TreeControl) activateLastSelected() {
	if it := c.lastSelectedVisible(); it != nil {
		c.tree.Activate(it)
	}
	c.redraw()
}

// isAncestor reports whether a is a strict ancestor of it
func isAncestor(a, it *model.Item) bool {
	if it == nil {
		return false
	}
	for p := it.Parent; p != nil; p = p.Parent {
		if p == a {
			return true
		}
	}
	return false
}
