package traverse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

func sampleTree() (*model.Tree, map[string]*model.Item) {
	items := map[string]*model.Item{}
	mk := func(name string, children ...*model.Item) *model.Item {
		it := &model.Item{ID: name, Text: name}
		for _, c := range children {
			it.AddChild(c)
		}
		items[name] = it
		return it
	}
	tree := model.NewTree(
		mk("a", mk("a1"), mk("a2")),
		mk("b"),
		mk("c", mk("c1", mk("c1x"))),
	)
	return tree, items
}

func collect(tr Traversal) []string {
	var out []string
	for it := tr.First(); it != nil; it = tr.Next(it) {
		out = append(out, it.ID)
	}
	return out
}

func TestTraversalModes(t *testing.T) {
	tests := []struct {
		name     string
		flat     bool
		expand   []string
		expected []string
	}{
		{name: "flat ignores expansion", flat: true, expected: []string{"a1", "a2", "b", "c1x"}},
		{name: "hierarchical collapsed", flat: false, expected: []string{"a", "b", "c"}},
		{name: "hierarchical expanded a", flat: false, expand: []string{"a"}, expected: []string{"a", "a1", "a2", "b", "c"}},
		{name: "hierarchical nested", flat: false, expand: []string{"c", "c1"}, expected: []string{"a", "b", "c", "c1", "c1x"}},
		{name: "hierarchical hidden parent", flat: false, expand: []string{"c1"}, expected: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, items := sampleTree()
			for _, id := range tt.expand {
				items[id].Expanded = true
			}
			tr := New(tree, tt.flat)
			assert.Equal(t, tt.flat, tr.Flat())
			assert.Equal(t, tt.expected, collect(tr))
			assert.Equal(t, len(tt.expected), tr.Count())

			for i, id := range tt.expected {
				assert.Equal(t, i+1, tr.Rank(items[id]), "rank of %s", id)
				assert.Same(t, items[id], tr.At(i+1))
				assert.True(t, tr.Participates(items[id]))
			}
			assert.Nil(t, tr.At(0))
			assert.Nil(t, tr.At(len(tt.expected)+1))

			// Backward iteration mirrors forward iteration
			last := tr.At(tr.Count())
			var back []string
			for it := last; it != nil; it = tr.Prev(it) {
				back = append([]string{it.ID}, back...)
			}
			assert.Equal(t, tt.expected, back)
		})
	}
}

func TestRankOfNonParticipating(t *testing.T) {
	tree, items := sampleTree()

	flat := New(tree, true)
	assert.Equal(t, 0, flat.Rank(items["a"]))
	assert.False(t, flat.Participates(items["a"]))
	assert.False(t, flat.Participates(tree.Root()))
	assert.Equal(t, 0, flat.Rank(nil))

	hier := New(tree, false)
	assert.Equal(t, 0, hier.Rank(items["a1"]))
	assert.False(t, hier.Participates(items["a1"]))
	assert.False(t, hier.Participates(tree.Root()))
}

func TestDeletedItemsAreReturned(t *testing.T) {
	tree, items := sampleTree()
	items["b"].Deleted = true

	tr := New(tree, false)
	assert.Equal(t, []string{"a", "b", "c"}, collect(tr))
	assert.Equal(t, 2, tr.Rank(items["b"]))
}

func TestEmptyTree(t *testing.T) {
	tree := model.NewTree()
	for _, flat := range []bool{true, false} {
		tr := New(tree, flat)
		assert.Nil(t, tr.First())
		assert.Equal(t, 0, tr.Count())
		assert.Nil(t, tr.At(1))
	}
}
