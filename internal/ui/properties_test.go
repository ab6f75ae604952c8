package ui

import (
	"fmt"
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

// genTree draws a two level tree with random expansion state
func genTree(t *rapid.T) (*model.Tree, []*model.Item) {
	n := rapid.IntRange(1, 12).Draw(t, "top")
	var top []*model.Item
	for i := 0; i < n; i++ {
		it := &model.Item{ID: fmt.Sprintf("t%d", i), Text: fmt.Sprintf("top %d", i)}
		kids := rapid.IntRange(0, 3).Draw(t, fmt.Sprintf("kids%d", i))
		for j := 0; j < kids; j++ {
			it.AddChild(&model.Item{ID: fmt.Sprintf("t%d.%d", i, j), Text: "child"})
		}
		it.Expanded = rapid.Bool().Draw(t, fmt.Sprintf("expanded%d", i))
		top = append(top, it)
	}
	return model.NewTree(top...), top
}

func TestPropertyRankPositionRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 60).Draw(t, "items")
		rows := rapid.IntRange(1, 12).Draw(t, "rows")
		items := flatItems(n)
		tree := model.NewTree(items...)
		c := newTestControl(tree, rows)

		excess := n - rows
		if excess <= 0 {
			tree.Position().Set(rapid.Float64Range(0, 1).Draw(t, "v"))
			assert.Same(t, items[0], c.Anchor())
			return
		}

		v := rapid.Float64Range(0, 1).Draw(t, "v")
		tree.Position().Set(v)
		rank := c.trav.Rank(c.Anchor())
		want := 1 - float64(rank-1)/float64(excess)
		assert.LessOrEqual(t, math.Abs(v-want), 1/float64(excess)+1e-9, "v=%v rank=%d excess=%d", v, rank, excess)

		// The value of a rank maps back to the same anchor
		anchor := c.Anchor()
		tree.Position().Set(want)
		assert.Same(t, anchor, c.Anchor())
	})
}

func TestPropertyAnchorStaysLive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree, _ := genTree(t)
		flat := rapid.Bool().Draw(t, "flat")
		rows := rapid.IntRange(1, 6).Draw(t, "rows")
		c := newTestControl(tree, rows, WithFlat(flat), WithClock(steppingClock()))

		keys := []tcell.Key{tcell.KeyUp, tcell.KeyDown, tcell.KeyPgUp, tcell.KeyPgDn, tcell.KeyLeft, tcell.KeyRight, tcell.KeyDelete}
		mods := []tcell.ModMask{tcell.ModNone, tcell.ModCtrl, tcell.ModShift, tcell.ModCtrl | tcell.ModShift}

		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(t, fmt.Sprintf("op%d", i)) {
			case 0, 1:
				c.HandleEvent(key(rapid.SampledFrom(keys).Draw(t, fmt.Sprintf("key%d", i))))
			case 2:
				x := rapid.IntRange(0, 99).Draw(t, fmt.Sprintf("x%d", i))
				row := rapid.IntRange(0, rows-1).Draw(t, fmt.Sprintf("row%d", i))
				click(c, x, row, rapid.SampledFrom(mods).Draw(t, fmt.Sprintf("mods%d", i)))
			case 3:
				tree.Position().Set(rapid.Float64Range(0, 1).Draw(t, fmt.Sprintf("v%d", i)))
			}

			if c.anchorID == "" {
				assert.Nil(t, c.first(), "an empty anchor means nothing is left to show")
				continue
			}
			anchor := tree.FindByID(c.anchorID)
			require.NotNil(t, anchor)
			assert.False(t, anchor.Deleted, "anchor %s is deleted\n%s", c.anchorID, dump(anchor))
			assert.True(t, c.trav.Participates(anchor), "anchor %s is hidden", c.anchorID)
		}
	})
}

func TestPropertyDeleteLeavesOneSelected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(t, "items")
		items := flatItems(n)
		for _, it := range items {
			it.Selected = rapid.Bool().Draw(t, "selected "+it.ID)
		}
		tree := model.NewTree(items...)
		c := newTestControl(tree, 5)
		if last := rapid.IntRange(0, n-1).Draw(t, "last"); items[last].Selected {
			c.lastSelectedID = items[last].ID
		}

		c.HandleEvent(key(tcell.KeyDelete))

		live := len(tree.All())
		selected := selectedIDs(tree)
		if live == 0 {
			assert.Empty(t, selected)
			assert.Nil(t, c.LastSelected())
			return
		}
		require.Len(t, selected, 1)
		assert.Equal(t, selected[0], c.LastSelected().ID)
	})
}

func TestPropertyShiftRangeIsSymmetric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 10).Draw(t, "items")
		a := rapid.IntRange(0, n-1).Draw(t, "a")
		b := rapid.IntRange(0, n-1).Draw(t, "b")

		selectRange := func(from, to int) []string {
			tree := model.NewTree(flatItems(n)...)
			c := newTestControl(tree, n, WithClock(steppingClock()))
			click(c, 50, from, tcell.ModNone)
			click(c, 50, to, tcell.ModShift)
			return selectedIDs(tree)
		}

		forward := selectRange(a, b)
		assert.Equal(t, forward, selectRange(b, a))
		assert.Len(t, forward, max(a, b)-min(a, b)+1)
	})
}
