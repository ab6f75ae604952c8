// Package search finds tree items with a small query language
package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/tui-treeview/internal/model"
)

// FilterExpr represents a filter expression that can match items
type FilterExpr interface {
	Matches(item *model.Item) bool
	String() string // For debug output
}

// TextExpr matches items whose text contains the search term (case-insensitive)
type TextExpr struct {
	term string
}

func NewTextExpr(term string) *TextExpr {
	return &TextExpr{term: strings.ToLower(term)}
}

func (e *TextExpr) Matches(item *model.Item) bool {
	return strings.Contains(strings.ToLower(item.Text), e.term)
}

func (e *TextExpr) String() string {
	return fmt.Sprintf("text(%q)", e.term)
}

// FuzzyExpr matches items whose text fuzzy-matches the search term (case-insensitive)
type FuzzyExpr struct {
	term string
}

func NewFuzzyExpr(term string) *FuzzyExpr {
	return &FuzzyExpr{term: strings.ToLower(term)}
}

func (e *FuzzyExpr) Matches(item *model.Item) bool {
	return fuzzy.MatchFold(e.term, item.Text)
}

func (e *FuzzyExpr) String() string {
	return fmt.Sprintf("fuzzy(%q)", e.term)
}

// RegexExpr matches items whose text matches a regular expression pattern
type RegexExpr struct {
	pattern string
	re      *regexp.Regexp
}

func NewRegexExpr(pattern string) (*RegexExpr, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	return &RegexExpr{pattern: pattern, re: re}, nil
}

func (e *RegexExpr) Matches(item *model.Item) bool {
	return e.re.MatchString(item.Text)
}

func (e *RegexExpr) String() string {
	return fmt.Sprintf("regex(/%s/)", e.pattern)
}

// AlwaysMatchExpr matches all items (for empty queries)
type AlwaysMatchExpr struct{}

func (e AlwaysMatchExpr) Matches(*model.Item) bool { return true }
func (e AlwaysMatchExpr) String() string          { return "always-match" }

// AndExpr matches if both left and right match
type AndExpr struct {
	left, right FilterExpr
}

func NewAndExpr(left, right FilterExpr) *AndExpr {
	return &AndExpr{left: left, right: right}
}

func (e *AndExpr) Matches(item *model.Item) bool {
	return e.left.Matches(item) && e.right.Matches(item)
}

func (e *AndExpr) String() string {
	return fmt.Sprintf("(and %s %s)", e.left, e.right)
}

// OrExpr matches if either left or right matches
type OrExpr struct {
	left, right FilterExpr
}

func NewOrExpr(left, right FilterExpr) *OrExpr {
	return &OrExpr{left: left, right: right}
}

func (e *OrExpr) Matches(item *model.Item) bool {
	return e.left.Matches(item) || e.right.Matches(item)
}

func (e *OrExpr) String() string {
	return fmt.Sprintf("(or %s %s)", e.left, e.right)
}

// NotExpr matches if the wrapped expression does not match
type NotExpr struct {
	expr FilterExpr
}

func NewNotExpr(expr FilterExpr) *NotExpr {
	return &NotExpr{expr: expr}
}

func (e *NotExpr) Matches(item *model.Item) bool {
	return !e.expr.Matches(item)
}

func (e *NotExpr) String() string {
	return fmt.Sprintf("(not %s)", e.expr)
}

// ComparisonOp represents comparison operators
type ComparisonOp string

const (
	OpEqual        ComparisonOp = "="
	OpGreater      ComparisonOp = ">"
	OpGreaterEqual ComparisonOp = ">="
	OpLess         ComparisonOp = "<"
	OpLessEqual    ComparisonOp = "<="
)

// DepthFilter matches items at specific depth levels; top-level items have
// depth 1
type DepthFilter struct {
	op    ComparisonOp
	value int
}

func (e *DepthFilter) Matches(item *model.Item) bool {
	d := item.Depth()
	switch e.op {
	case OpGreater:
		return d > e.value
	case OpGreaterEqual:
		return d >= e.value
	case OpLess:
		return d < e.value
	case OpLessEqual:
		return d <= e.value
	}
	return d == e.value
}

func (e *DepthFilter) String() string {
	return fmt.Sprintf("depth(%s%d)", e.op, e.value)
}

// FlagFilter matches items by state: playing, readonly, leaf or expanded
type FlagFilter struct {
	flag string
}

// NewFlagFilter returns a filter for one of the flags above
func NewFlagFilter(flag string) *FlagFilter {
	return &FlagFilter{flag: flag}
}

func (e *FlagFilter) Matches(item *model.Item) bool {
	switch e.flag {
	case "playing":
		return item.Playing
	case "readonly":
		return item.ReadOnly
	case "leaf":
		return item.IsLeaf()
	case "expanded":
		return item.Expanded
	}
	return false
}

func (e *FlagFilter) String() string {
	return fmt.Sprintf("is(%s)", e.flag)
}
