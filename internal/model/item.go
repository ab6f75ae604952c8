// Package model contains the tree model displayed by the tree control
package model

import (
	"github.com/oklog/ulid/v2"
)

// Item represents a single node in the tree
type Item struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Children []*Item `json:"children,omitempty"`
	Parent   *Item   `json:"-"` // Not persisted
	Expanded bool    `json:"expanded,omitempty"`
	Playing  bool    `json:"playing,omitempty"`
	ReadOnly bool    `json:"readonly,omitempty"`

	// UI state, not persisted
	Selected bool `json:"-"`
	Deleted  bool `json:"-"` // Soft-delete marker, removed by Tree.Compact

	// Action is invoked when the item is activated (double click, Enter).
	// When nil the tree's activation handler is used.
	Action func(*Item) `json:"-"`
}

// NewItem creates a new item with a generated ID
func NewItem(text string) *Item {
	return &Item{
		ID:       ulid.Make().String(),
		Text:     text,
		Children: make([]*Item, 0),
	}
}

// AddChild adds a child item to this item
func (i *Item) AddChild(child *Item) {
	child.Parent = i
	i.Children = append(i.Children, child)
}

// RemoveChild removes a child item from this item
func (i *Item) RemoveChild(child *Item) {
	for idx, c := range i.Children {
		if c.ID == child.ID {
			i.Children = append(i.Children[:idx], i.Children[idx+1:]...)
			child.Parent = nil
			break
		}
	}
}

// Depth returns the nesting level; the invisible root is 0, top-level items are 1
func (i *Item) Depth() int {
	depth := 0
	for p := i.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}

// IsLeaf reports whether the item has no children
func (i *Item) IsLeaf() bool {
	return len(i.Children) == 0
}

// HasLiveChildren reports whether at least one child is not deleted
func (i *Item) HasLiveChildren() bool {
	for _, c := range i.Children {
		if !c.Deleted {
			return true
		}
	}
	return false
}

// FirstLiveChild returns the first child that is not deleted, or nil
func (i *Item) FirstLiveChild() *Item {
	for _, c := range i.Children {
		if !c.Deleted {
			return c
		}
	}
	return nil
}

// ToggleSelected flips the selected flag
func (i *Item) ToggleSelected() {
	i.Selected = !i.Selected
}

// ToggleExpanded flips the expanded flag
func (i *Item) ToggleExpanded() {
	i.Expanded = !i.Expanded
}

// indexOf returns the position of child among the children, or -1
func (i *Item) indexOf(child *Item) int {
	for idx, c := range i.Children {
		if c == child {
			return idx
		}
	}
	return -1
}
