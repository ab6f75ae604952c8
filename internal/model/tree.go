package model

// UpdateKind identifies the kind of change in a tree notification
type UpdateKind int

const (
	// UpdateItem means an item's content or flags changed
	UpdateItem UpdateKind = iota
	// AppendItem means an item was inserted
	AppendItem
	// DeleteItem means an item was soft-deleted
	DeleteItem
	// ResetAll means the structure changed in a way that invalidates ranks
	ResetAll
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateItem:
		return "update"
	case AppendItem:
		return "append"
	case DeleteItem:
		return "delete"
	case ResetAll:
		return "reset"
	}
	return "unknown"
}

// Update is the notification payload sent to tree subscribers
type Update struct {
	Kind   UpdateKind
	ID     string // Empty for ResetAll
	Active bool   // The item is the playing item
}

type treeSub struct {
	id int
	fn func(Update)
}

// Tree owns a hierarchy of items below an invisible root, the scroll
// position shared with its views, and change notifications.
type Tree struct {
	root       *Item
	index      map[string]*Item
	position   *Position
	subs       []treeSub
	nextSub    int
	onActivate func(*Item)
}

// NewTree creates a tree with the given top-level items
func NewTree(items ...*Item) *Tree {
	t := &Tree{
		root:     &Item{ID: "", Text: "", Expanded: true},
		index:    make(map[string]*Item),
		position: NewPosition(1.0),
	}
	for _, item := range items {
		t.root.AddChild(item)
	}
	t.reindex()
	return t
}

// Root returns the invisible root item
func (t *Tree) Root() *Item {
	return t.root
}

// Position returns the scroll position shared by the tree's views
func (t *Tree) Position() *Position {
	return t.position
}

// Items returns the top-level items
func (t *Tree) Items() []*Item {
	return t.root.Children
}

// Begin returns the first top-level item, or nil for an empty tree
func (t *Tree) Begin() *Item {
	if len(t.root.Children) == 0 {
		return nil
	}
	return t.root.Children[0]
}

// FindByID returns the item with the given ID, or nil
func (t *Tree) FindByID(id string) *Item {
	if id == "" {
		return nil
	}
	return t.index[id]
}

// NextItem returns the next item in pre-order regardless of expansion
func (t *Tree) NextItem(it *Item) *Item {
	if it == nil {
		return nil
	}
	if len(it.Children) > 0 {
		return it.Children[0]
	}
	return t.nextSiblingUp(it)
}

// PrevItem returns the previous item in pre-order regardless of expansion
func (t *Tree) PrevItem(it *Item) *Item {
	if it == nil || it.Parent == nil {
		return nil
	}
	parent := it.Parent
	idx := parent.indexOf(it)
	if idx > 0 {
		prev := parent.Children[idx-1]
		for len(prev.Children) > 0 {
			prev = prev.Children[len(prev.Children)-1]
		}
		return prev
	}
	if parent == t.root {
		return nil
	}
	return parent
}

// FirstLeaf returns the first leaf in document order
func (t *Tree) FirstLeaf() *Item {
	it := t.Begin()
	if it == nil {
		return nil
	}
	for len(it.Children) > 0 {
		it = it.Children[0]
	}
	return it
}

// NextLeaf returns the next leaf after it in document order
func (t *Tree) NextLeaf(it *Item) *Item {
	for it = t.NextItem(it); it != nil; it = t.NextItem(it) {
		if it.IsLeaf() {
			return it
		}
	}
	return nil
}

// PrevLeaf returns the previous leaf before it in document order
func (t *Tree) PrevLeaf(it *Item) *Item {
	for it = t.PrevItem(it); it != nil; it = t.PrevItem(it) {
		if it.IsLeaf() {
			return it
		}
	}
	return nil
}

// NextVisible returns the next item whose ancestors are all expanded
func (t *Tree) NextVisible(it *Item) *Item {
	if it == nil {
		return nil
	}
	if it.Expanded && len(it.Children) > 0 {
		return it.Children[0]
	}
	return t.nextSiblingUp(it)
}

// PrevVisible returns the previous item whose ancestors are all expanded
func (t *Tree) PrevVisible(it *Item) *Item {
	if it == nil || it.Parent == nil {
		return nil
	}
	parent := it.Parent
	idx := parent.indexOf(it)
	if idx > 0 {
		prev := parent.Children[idx-1]
		for prev.Expanded && len(prev.Children) > 0 {
			prev = prev.Children[len(prev.Children)-1]
		}
		return prev
	}
	if parent == t.root {
		return nil
	}
	return parent
}

// IsVisible reports whether every ancestor of it is expanded
func (t *Tree) IsVisible(it *Item) bool {
	if it == nil || it == t.root {
		return false
	}
	for p := it.Parent; p != nil && p != t.root; p = p.Parent {
		if !p.Expanded {
			return false
		}
	}
	return it.Parent != nil
}

// CountLeaves returns the number of leaves, deleted ones included
func (t *Tree) CountLeaves() int {
	count := 0
	for it := t.FirstLeaf(); it != nil; it = t.NextLeaf(it) {
		count++
	}
	return count
}

// VisibleItems returns the number of visible items, deleted ones included
func (t *Tree) VisibleItems() int {
	count := 0
	for it := t.Begin(); it != nil; it = t.NextVisible(it) {
		count++
	}
	return count
}

// All returns the live items in document order
func (t *Tree) All() []*Item {
	var items []*Item
	for it := t.Begin(); it != nil; it = t.NextItem(it) {
		if !it.Deleted {
			items = append(items, it)
		}
	}
	return items
}

// Append adds item (and its subtree) under parent, or at top level when
// parent is nil, and sends an AppendItem notification.
func (t *Tree) Append(parent, item *Item) {
	if parent == nil {
		parent = t.root
	}
	parent.AddChild(item)
	t.indexSubtree(item)
	t.notify(Update{Kind: AppendItem, ID: item.ID, Active: item.Playing})
}

// Update sends an UpdateItem notification for item
func (t *Tree) Update(item *Item) {
	if item == nil {
		return
	}
	t.notify(Update{Kind: UpdateItem, ID: item.ID, Active: item.Playing})
}

// Playing returns the item currently marked as playing, or nil
func (t *Tree) Playing() *Item {
	for it := t.Begin(); it != nil; it = t.NextItem(it) {
		if it.Playing && !it.Deleted {
			return it
		}
	}
	return nil
}

// SetPlaying marks item as the single playing item. The previous playing item
// (if any) is notified first, then the new one with the active flag.
func (t *Tree) SetPlaying(item *Item) {
	if prev := t.Playing(); prev != nil && prev != item {
		prev.Playing = false
		t.Update(prev)
	}
	if item == nil {
		return
	}
	item.Playing = true
	t.Update(item)
}

// Replace swaps the whole content of the tree and sends ResetAll
func (t *Tree) Replace(items []*Item) {
	for _, c := range t.root.Children {
		c.Parent = nil
	}
	t.root.Children = make([]*Item, 0, len(items))
	for _, item := range items {
		t.root.AddChild(item)
	}
	t.reindex()
	t.notify(Update{Kind: ResetAll})
}

// DelSelected soft-deletes every selected item that is not read-only,
// together with its subtree, and returns the number of items deleted.
// Selection is cleared on deleted items. One DeleteItem notification is
// sent per deleted item, after all flags are set.
func (t *Tree) DelSelected() int {
	var deleted []*Item
	for it := t.Begin(); it != nil; it = t.NextItem(it) {
		if it.Deleted || !it.Selected || it.ReadOnly {
			continue
		}
		deleted = t.markDeleted(it, deleted)
	}
	for _, it := range deleted {
		t.notify(Update{Kind: DeleteItem, ID: it.ID, Active: it.Playing})
	}
	return len(deleted)
}

func (t *Tree) markDeleted(it *Item, acc []*Item) []*Item {
	if !it.Deleted {
		it.Deleted = true
		it.Selected = false
		acc = append(acc, it)
	}
	for _, c := range it.Children {
		acc = t.markDeleted(c, acc)
	}
	return acc
}

// HasDeleted reports whether soft-deleted items are waiting for Compact
func (t *Tree) HasDeleted() bool {
	for it := t.Begin(); it != nil; it = t.NextItem(it) {
		if it.Deleted {
			return true
		}
	}
	return false
}

// Compact removes soft-deleted items and sends ResetAll if anything was removed
func (t *Tree) Compact() int {
	removed := t.compact(t.root)
	if removed > 0 {
		t.reindex()
		t.notify(Update{Kind: ResetAll})
	}
	return removed
}

func (t *Tree) compact(parent *Item) int {
	removed := 0
	kept := parent.Children[:0]
	for _, c := range parent.Children {
		if c.Deleted {
			removed += countSubtree(c)
			c.Parent = nil
			continue
		}
		removed += t.compact(c)
		kept = append(kept, c)
	}
	// Clear the tail so removed items can be collected
	for i := len(kept); i < len(parent.Children); i++ {
		parent.Children[i] = nil
	}
	parent.Children = kept
	return removed
}

func countSubtree(it *Item) int {
	n := 1
	for _, c := range it.Children {
		n += countSubtree(c)
	}
	return n
}

// EnsureExpanded expands every ancestor of item and reports whether any
// flag changed. No notification is sent.
func (t *Tree) EnsureExpanded(item *Item) bool {
	if item == nil {
		return false
	}
	changed := false
	for p := item.Parent; p != nil && p != t.root; p = p.Parent {
		if !p.Expanded {
			p.Expanded = true
			changed = true
		}
	}
	return changed
}

// SetActivateHandler sets the handler for items without their own Action
func (t *Tree) SetActivateHandler(fn func(*Item)) {
	t.onActivate = fn
}

// Activate runs the item's action, or the tree's activation handler
func (t *Tree) Activate(item *Item) {
	if item == nil || item.Deleted {
		return
	}
	if item.Action != nil {
		item.Action(item)
		return
	}
	if t.onActivate != nil {
		t.onActivate(item)
	}
}

// Subscribe registers fn for change notifications and returns a function
// that removes it
func (t *Tree) Subscribe(fn func(Update)) (unsubscribe func()) {
	t.nextSub++
	id := t.nextSub
	t.subs = append(t.subs, treeSub{id: id, fn: fn})
	return func() {
		for i, s := range t.subs {
			if s.id == id {
				t.subs = append(t.subs[:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

func (t *Tree) notify(u Update) {
	subs := make([]treeSub, len(t.subs))
	copy(subs, t.subs)
	for _, s := range subs {
		s.fn(u)
	}
}

// nextSiblingUp returns the next sibling of it or of its nearest ancestor
// that has one
func (t *Tree) nextSiblingUp(it *Item) *Item {
	for it != nil && it != t.root {
		parent := it.Parent
		if parent == nil {
			return nil
		}
		idx := parent.indexOf(it)
		if idx >= 0 && idx+1 < len(parent.Children) {
			return parent.Children[idx+1]
		}
		it = parent
	}
	return nil
}

func (t *Tree) reindex() {
	t.index = make(map[string]*Item)
	for _, c := range t.root.Children {
		c.Parent = t.root
		t.indexSubtree(c)
	}
}

// indexSubtree registers item and its descendants, generating missing IDs
// and restoring parent pointers
func (t *Tree) indexSubtree(item *Item) {
	if item.ID == "" {
		item.ID = NewItem("").ID
	}
	t.index[item.ID] = item
	for _, c := range item.Children {
		c.Parent = item
		t.indexSubtree(c)
	}
}
