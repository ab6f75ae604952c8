package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

func TestTokenizer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []TokenType
	}{
		{input: "track", tokens: []TokenType{TokenText, TokenEOF}},
		{input: "live track", tokens: []TokenType{TokenText, TokenText, TokenEOF}},
		{input: "live | demo", tokens: []TokenType{TokenText, TokenOr, TokenText, TokenEOF}},
		{input: "-live", tokens: []TokenType{TokenNot, TokenText, TokenEOF}},
		{input: "~lv", tokens: []TokenType{TokenFuzzy, TokenEOF}},
		{input: "/^T.*1$/", tokens: []TokenType{TokenRegex, TokenEOF}},
		{input: "d:>=2 is:leaf", tokens: []TokenType{TokenFilter, TokenFilter, TokenEOF}},
		{input: `"two words"`, tokens: []TokenType{TokenText, TokenEOF}},
		{input: "(a|b)", tokens: []TokenType{TokenLParen, TokenText, TokenOr, TokenText, TokenRParen, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := NewTokenizer(tt.input).AllTokens()
			got := make([]TokenType, len(tokens))
			for i, tok := range tokens {
				got[i] = tok.Type
			}
			if !assert.Equal(t, tt.tokens, got) {
				t.Logf("tokens: %+v", tokens)
			}
		})
	}
}

func sampleTree() *model.Tree {
	album := &model.Item{ID: "album", Text: "Live at the Roxy", Expanded: true}
	album.AddChild(&model.Item{ID: "t1", Text: "Track 1"})
	album.AddChild(&model.Item{ID: "t2", Text: "Track 2 (demo)", Playing: true})
	album.AddChild(&model.Item{ID: "t3", Text: "Bonus", ReadOnly: true})
	return model.NewTree(album, &model.Item{ID: "single", Text: "Single track"})
}

func ids(items []*model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"album", "t1", "t2", "t3", "single"}},
		{query: "track", want: []string{"t1", "t2", "single"}},
		{query: "track -demo", want: []string{"t1", "single"}},
		{query: "roxy | bonus", want: []string{"album", "t3"}},
		{query: "~lvrxy", want: []string{"album"}},
		{query: "/^Track [0-9]$/", want: []string{"t1"}},
		{query: "d:2", want: []string{"t1", "t2", "t3"}},
		{query: "d:<2", want: []string{"album", "single"}},
		{query: "is:playing", want: []string{"t2"}},
		{query: "is:readonly | is:expanded", want: []string{"album", "t3"}},
		{query: "is:leaf -(d:1)", want: []string{"t1", "t2", "t3"}},
		{query: `"single track"`, want: []string{"single"}},
	}

	tree := sampleTree()
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			expr, err := ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(Find(tree, expr)), expr.String())
		})
	}
}

func TestParseQueryErrors(t *testing.T) {
	for _, q := range []string{"(track", "d:x", "is:loud", "/[/", "track )", "-"} {
		_, err := ParseQuery(q)
		assert.Error(t, err, q)
	}
}

func TestFindSkipsDeleted(t *testing.T) {
	tree := sampleTree()
	tree.FindByID("t1").Selected = true
	tree.DelSelected()

	expr, err := ParseQuery("track")
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "single"}, ids(Find(tree, expr)))
}

func TestNextMatchWraps(t *testing.T) {
	tree := sampleTree()
	expr, err := ParseQuery("track")
	require.NoError(t, err)

	assert.Equal(t, "t1", NextMatch(tree, expr, nil).ID)
	assert.Equal(t, "t2", NextMatch(tree, expr, tree.FindByID("t1")).ID)
	assert.Equal(t, "single", NextMatch(tree, expr, tree.FindByID("t3")).ID)
	assert.Equal(t, "t1", NextMatch(tree, expr, tree.FindByID("single")).ID)

	none, err := ParseQuery("nothing")
	require.NoError(t, err)
	assert.Nil(t, NextMatch(tree, none, nil))
}

func TestRankFuzzy(t *testing.T) {
	tree := sampleTree()
	got := ids(RankFuzzy(tree, "track"))
	// Levenshtein distances 3, 7 and 10
	assert.Equal(t, []string{"t1", "single", "t2"}, got, "closest match first")
	assert.Empty(t, RankFuzzy(tree, "zzz"))
}
