package search

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

// Find returns the live items matching expr in document order
func Find(tree *model.Tree, expr FilterExpr) []*model.Item {
	var out []*model.Item
	for _, it := range tree.All() {
		if expr.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// NextMatch returns the first match after the given item in document order,
// wrapping around to the start. With after nil the search starts at the top.
func NextMatch(tree *model.Tree, expr FilterExpr, after *model.Item) *model.Item {
	matches := Find(tree, expr)
	if len(matches) == 0 {
		return nil
	}
	if after == nil {
		return matches[0]
	}

	seen := false
	for it := tree.Begin(); it != nil; it = tree.NextItem(it) {
		if it == after {
			seen = true
			continue
		}
		if seen && !it.Deleted && expr.Matches(it) {
			return it
		}
	}
	return matches[0]
}

// RankFuzzy returns the live items whose text fuzzy-matches term, closest
// first. Ties keep document order.
func RankFuzzy(tree *model.Tree, term string) []*model.Item {
	items := tree.All()
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.Text
	}

	ranks := fuzzy.RankFindFold(term, texts)
	sort.Stable(ranks)

	out := make([]*model.Item, len(ranks))
	for i, r := range ranks {
		out[i] = items[r.OriginalIndex]
	}
	return out
}
