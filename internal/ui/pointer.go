package ui

import (
	"image"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

// handleMouse turns raw mouse events into presses, double clicks and wheel
// notches. Events outside the bounds are not consumed.
func (c *TreeControl) handleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	p := image.Pt(x, y)
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && c.buttons&tcell.Button1 == 0
	c.buttons = buttons

	if !c.hasBounds || !p.In(c.bounds) {
		return false
	}

	switch {
	case buttons&tcell.WheelUp != 0:
		c.scroll(1)
	case buttons&tcell.WheelDown != 0:
		c.scroll(-1)
	case pressed:
		c.press(p, ev.Modifiers())
	default:
		return false
	}
	return true
}

// press handles a Button1 press at p
func (c *TreeControl) press(p image.Point, mods tcell.ModMask) {
	hit, region := c.HitTest(p)

	if hit != nil && hit.ID == c.lastClickID && c.now().Sub(c.lastClickAt) <= c.dblInterval {
		c.lastClickID = ""
		c.tree.Activate(hit)
		c.redraw()
		return
	}
	if hit != nil {
		c.lastClickID = hit.ID
		c.lastClickAt = c.now()
	} else {
		c.lastClickID = ""
	}

	shift := mods&tcell.ModShift != 0
	ctrl := mods&tcell.ModCtrl != 0

	switch {
	case ctrl && shift:
		if hit != nil {
			c.selectRange(hit, true)
		}
	case ctrl:
		if hit != nil {
			hit.ToggleSelected()
			c.lastSelectedID = hit.ID
		}
	case shift:
		if hit != nil {
			c.selectRange(hit, false)
		}
	case hit == nil:
	case region == RegionDisclosure:
		anchor := c.anchorItem()
		hit.ToggleExpanded()
		if !hit.Expanded && isAncestor(hit, anchor) {
			c.setAnchor(hit)
		}
		c.expansionChanged()
	default:
		c.clearSelection()
		hit.Selected = true
		c.lastSelectedID = hit.ID
	}
	c.redraw()
}

// selectRange selects the items between the last selected item and hit,
// both included. With add the range is added to the current selection,
// otherwise it replaces it.
func (c *TreeControl) selectRange(hit *model.Item, add bool) {
	last := c.lastSelectedVisible()
	if last == nil {
		last = hit
	}

	inRange := false
	for it := c.first(); it != nil; it = c.next(it) {
		boundary := it == hit || it == last
		selected := inRange || boundary
		if boundary && (hit == last || inRange) {
			// Closing boundary, or a range of one item
			inRange = false
		} else if boundary {
			inRange = true
		}
		if add {
			it.Selected = it.Selected || selected
		} else {
			it.Selected = selected
		}
	}
}

// scroll moves the position by one wheel notch; dir is 1 for up
func (c *TreeControl) scroll(dir int) {
	count := c.trav.Count()
	if count == 0 {
		return
	}
	pos := c.tree.Position()
	pos.Set(pos.Get() + float64(dir)*2/float64(count))
}
