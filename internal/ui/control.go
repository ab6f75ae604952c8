package ui

import (
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/pstuifzand/tui-treeview/internal/model"
	"github.com/pstuifzand/tui-treeview/internal/skin"
	"github.com/pstuifzand/tui-treeview/internal/traverse"
)

const (
	// LineInterval is the vertical gap added below every row
	LineInterval = 1

	// DefaultDoubleClickInterval is the maximum delay between two presses on
	// the same row for them to count as a double click
	DefaultDoubleClickInterval = 400 * time.Millisecond

	minIconWidth = 5
	iconPadding  = 2
)

// Option configures a TreeControl
type Option func(*TreeControl)

// WithFlat shows only the leaves of the tree as a flat list
func WithFlat(flat bool) Option {
	return func(c *TreeControl) { c.flat = flat }
}

// WithLogger sets the logger used for render errors and timings
func WithLogger(l zerolog.Logger) Option {
	return func(c *TreeControl) { c.log = l }
}

// WithLayoutNotifier sets the callback fired whenever the frame changed
func WithLayoutNotifier(fn func()) Option {
	return func(c *TreeControl) { c.onLayout = fn }
}

// WithClock replaces time.Now for double click detection
func WithClock(now func() time.Time) Option {
	return func(c *TreeControl) { c.now = now }
}

// WithDoubleClickInterval sets the double click delay
func WithDoubleClickInterval(d time.Duration) Option {
	return func(c *TreeControl) { c.dblInterval = d }
}

// TreeControl is a virtualized view over a model.Tree. It shows a window of
// rows starting at an anchor item, keeps the anchor in sync with the tree's
// position value and maintains the selection from key and mouse events.
type TreeControl struct {
	tree *model.Tree
	trav traverse.Traversal
	skin *skin.Skin
	log  zerolog.Logger
	flat bool

	anchorID       string
	lastSelectedID string

	// Set while the control writes the position itself
	dontMove bool

	bounds    image.Rectangle
	hasBounds bool

	frame    *image.RGBA
	rows     []drawnRow // Rows of frame, top to bottom
	scaledBg *image.RGBA

	unsubTree     func()
	unsubPosition func()
	onLayout      func()

	now         func() time.Time
	dblInterval time.Duration
	lastClickID string
	lastClickAt time.Time
	buttons     tcell.ButtonMask
}

// NewTreeControl creates a control over tree painted with sk. The control
// observes the tree and its position until Close is called.
func NewTreeControl(tree *model.Tree, sk *skin.Skin, opts ...Option) *TreeControl {
	c := &TreeControl{
		tree:        tree,
		skin:        sk,
		log:         zerolog.Nop(),
		now:         time.Now,
		dblInterval: DefaultDoubleClickInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.trav = traverse.New(tree, c.flat)

	c.unsubTree = tree.Subscribe(c.onTreeUpdate)
	c.unsubPosition = tree.Position().Subscribe(c.onPositionChange)

	c.setAnchor(c.first())
	c.makeImage()
	return c
}

// Close stops observing the tree and drops the cached images
func (c *TreeControl) Close() {
	if c.unsubTree != nil {
		c.unsubTree()
		c.unsubTree = nil
	}
	if c.unsubPosition != nil {
		c.unsubPosition()
		c.unsubPosition = nil
	}
	c.frame = nil
	c.rows = nil
	c.scaledBg = nil
}

// Flat reports whether the control shows leaves only
func (c *TreeControl) Flat() bool {
	return c.trav.Flat()
}

// Bounds returns the rectangle assigned with SetBounds
func (c *TreeControl) Bounds() image.Rectangle {
	return c.bounds
}

// Frame returns the cached rendering of the viewport, or nil
func (c *TreeControl) Frame() *image.RGBA {
	return c.frame
}

// Anchor returns the first displayed item, or nil for an empty view
func (c *TreeControl) Anchor() *model.Item {
	return c.anchorItem()
}

// LastSelected returns the item that keyboard navigation starts from, or nil
func (c *TreeControl) LastSelected() *model.Item {
	it := c.tree.FindByID(c.lastSelectedID)
	if it == nil || it.Deleted {
		return nil
	}
	return it
}

// ItemHeight returns the preferred row height in pixels
func (c *TreeControl) ItemHeight() int {
	h := 0
	if c.skin.Font != nil {
		h = c.skin.Font.Size()
	}
	if !c.trav.Flat() {
		h = max(h, imageHeight(c.skin.ClosedIcon), imageHeight(c.skin.OpenIcon))
	}
	h = max(h, imageHeight(c.skin.ItemIcon))
	return h + LineInterval
}

// ItemImageWidth returns the width of one indentation step
func (c *TreeControl) ItemImageWidth() int {
	w := minIconWidth
	if !c.trav.Flat() {
		w = max(w, imageWidth(c.skin.ClosedIcon), imageWidth(c.skin.OpenIcon))
	}
	w = max(w, imageWidth(c.skin.ItemIcon))
	return w + iconPadding
}

// MaxItems returns the number of rows that fit in the bounds, or -1 when no
// bounds were assigned
func (c *TreeControl) MaxItems() int {
	if !c.hasBounds {
		return -1
	}
	return c.bounds.Dy() / c.ItemHeight()
}

// Select makes it the only selected item and scrolls it into view. In
// hierarchical mode collapsed ancestors are expanded first.
func (c *TreeControl) Select(it *model.Item) {
	if it == nil || it.Deleted {
		return
	}
	if !c.trav.Flat() && c.tree.EnsureExpanded(it) {
		c.expansionChanged()
	}
	if !c.trav.Participates(it) {
		return
	}
	c.clearSelection()
	it.Selected = true
	c.lastSelectedID = it.ID
	c.EnsureVisible(it)
	c.redraw()
}

// HandleEvent processes a key or mouse event and reports whether it was
// consumed
func (c *TreeControl) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return c.handleKey(ev)
	case *tcell.EventMouse:
		return c.handleMouse(ev)
	}
	return false
}

func (c *TreeControl) setAnchor(it *model.Item) {
	if it == nil {
		c.anchorID = ""
		return
	}
	c.anchorID = it.ID
}

// anchorItem resolves the anchor, repairing it when the item was deleted,
// removed or hidden since it was stored
func (c *TreeControl) anchorItem() *model.Item {
	it := c.tree.FindByID(c.anchorID)
	switch {
	case it == nil:
	case !it.Deleted && c.trav.Participates(it):
		return it
	case it.Deleted:
		for p := c.trav.Prev(it); p != nil; p = c.trav.Prev(p) {
			if !p.Deleted {
				c.setAnchor(p)
				return p
			}
		}
	case !c.trav.Flat():
		// Hidden by a collapsed ancestor
		for p := it.Parent; p != nil && p != c.tree.Root(); p = p.Parent {
			if !p.Deleted && c.trav.Participates(p) {
				c.setAnchor(p)
				return p
			}
		}
	}
	f := c.first()
	c.setAnchor(f)
	return f
}

// first, next and prev walk the traversal skipping deleted items

func (c *TreeControl) first() *model.Item {
	it := c.trav.First()
	for it != nil && it.Deleted {
		it = c.trav.Next(it)
	}
	return it
}

func (c *TreeControl) next(it *model.Item) *model.Item {
	it = c.trav.Next(it)
	for it != nil && it.Deleted {
		it = c.trav.Next(it)
	}
	return it
}

func (c *TreeControl) prev(it *model.Item) *model.Item {
	it = c.trav.Prev(it)
	for it != nil && it.Deleted {
		it = c.trav.Prev(it)
	}
	return it
}

func (c *TreeControl) clearSelection() {
	for it := c.trav.First(); it != nil; it = c.trav.Next(it) {
		it.Selected = false
	}
}

// lastSelectedVisible returns the last selected item if it takes part in
// the traversal
func (c *TreeControl) lastSelectedVisible() *model.Item {
	it := c.LastSelected()
	if it == nil || !c.trav.Participates(it) {
		return nil
	}
	return it
}

func imageHeight(img image.Image) int {
	if img == nil {
		return 0
	}
	return img.Bounds().Dy()
}

func imageWidth(img image.Image) int {
	if img == nil {
		return 0
	}
	return img.Bounds().Dx()
}
