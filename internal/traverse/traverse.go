// Package traverse provides uniform iteration over a model.Tree either as a
// flat list of leaves or as the hierarchy of visible (expanded) items.
package traverse

import "github.com/pstuifzand/tui-treeview/internal/model"

// Traversal iterates over the items a view displays. nil marks the end in
// both directions. Deleted items are returned; callers skip them.
type Traversal interface {
	// First returns the first participating item
	First() *model.Item
	// Next returns the item after it, or nil
	Next(it *model.Item) *model.Item
	// Prev returns the item before it, or nil
	Prev(it *model.Item) *model.Item
	// Count returns the number of participating items
	Count() int
	// Rank returns the 1-based rank of it, or 0 if it does not participate
	Rank(it *model.Item) int
	// At returns the item with the given 1-based rank, or nil
	At(rank int) *model.Item
	// Participates reports whether it is part of the iteration
	Participates(it *model.Item) bool
	// Flat reports whether only leaves are iterated
	Flat() bool
}

// New returns the leaf traversal when flat is true, the visible-item
// traversal otherwise
func New(tree *model.Tree, flat bool) Traversal {
	if flat {
		return &leaves{tree: tree}
	}
	return &visible{tree: tree}
}

type leaves struct {
	tree *model.Tree
}

func (l *leaves) First() *model.Item { return l.tree.FirstLeaf() }
func (l *leaves) Next(it *model.Item) *model.Item { return l.tree.NextLeaf(it) }
func (l *leaves) Prev(it *model.Item) *model.Item { return l.tree.PrevLeaf(it) }
func (l *leaves) Count() int { return l.tree.CountLeaves() }
func (l *leaves) Flat() bool { return true }

func (l *leaves) Rank(it *model.Item) int { return rank(l, it) }
func (l *leaves) At(r int) *model.Item { return at(l, r) }

func (l *leaves) Participates(it *model.Item) bool {
	return it != nil && it.Parent != nil && it.IsLeaf()
}

type visible struct {
	tree *model.Tree
}

func (v *visible) First() *model.Item { return v.tree.Begin() }
func (v *visible) Next(it *model.Item) *model.Item { return v.tree.NextVisible(it) }
func (v *visible) Prev(it *model.Item) *model.Item { return v.tree.PrevVisible(it) }
func (v *visible) Count() int { return v.tree.VisibleItems() }
func (v *visible) Flat() bool { return false }

func (v *visible) Rank(it *model.Item) int { return rank(v, it) }
func (v *visible) At(r int) *model.Item { return at(v, r) }

func (v *visible) Participates(it *model.Item) bool {
	return v.tree.IsVisible(it)
}

func rank(t Traversal, target *model.Item) int {
	if target == nil {
		return 0
	}
	r := 1
	for it := t.First(); it != nil; it = t.Next(it) {
		if it == target {
			return r
		}
		r++
	}
	return 0
}

func at(t Traversal, r int) *model.Item {
	if r < 1 {
		return nil
	}
	it := t.First()
	for i := 1; i < r && it != nil; i++ {
		it = t.Next(it)
	}
	return it
}
