package search

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType represents the type of a token in the search query
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenText
	TokenFuzzy  // ~term
	TokenFilter // d:>2, is:playing
	TokenRegex  // /pattern/
	TokenOr     // |
	TokenNot    // -
	TokenLParen // (
	TokenRParen // )
)

// Token represents a single token in the search query
type Token struct {
	Type  TokenType
	Value string
}

// Tokenizer converts a search query string into tokens
type Tokenizer struct {
	input string
	pos   int
}

// NewTokenizer creates a new tokenizer for the given input
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: input}
}

// NextToken returns the next token in the input
func (t *Tokenizer) NextToken() Token {
	t.skipWhitespace()
	if t.pos >= len(t.input) {
		return Token{Type: TokenEOF}
	}

	switch ch := t.input[t.pos]; ch {
	case '(':
		t.pos++
		return Token{Type: TokenLParen, Value: "("}
	case ')':
		t.pos++
		return Token{Type: TokenRParen, Value: ")"}
	case '|':
		t.pos++
		return Token{Type: TokenOr, Value: "|"}
	case '-':
		t.pos++
		return Token{Type: TokenNot, Value: "-"}
	case '"':
		t.pos++
		end := strings.IndexByte(t.input[t.pos:], '"')
		if end < 0 {
			end = len(t.input) - t.pos
		}
		value := t.input[t.pos : t.pos+end]
		t.pos = min(len(t.input), t.pos+end+1)
		return Token{Type: TokenText, Value: value}
	case '~':
		t.pos++
		return Token{Type: TokenFuzzy, Value: t.readWord()}
	case '/':
		t.pos++
		end := strings.IndexByte(t.input[t.pos:], '/')
		if end < 0 {
			end = len(t.input) - t.pos
		}
		value := t.input[t.pos : t.pos+end]
		t.pos = min(len(t.input), t.pos+end+1)
		return Token{Type: TokenRegex, Value: value}
	}

	word := t.readWord()
	if strings.HasPrefix(word, "d:") || strings.HasPrefix(word, "is:") {
		return Token{Type: TokenFilter, Value: word}
	}
	return Token{Type: TokenText, Value: word}
}

// AllTokens returns all tokens in the input
func (t *Tokenizer) AllTokens() []Token {
	var tokens []Token
	for {
		tok := t.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && strings.ContainsRune(" \t\n", rune(t.input[t.pos])) {
		t.pos++
	}
}

func (t *Tokenizer) readWord() string {
	start := t.pos
	for t.pos < len(t.input) && !strings.ContainsRune(" \t\n()|", rune(t.input[t.pos])) {
		t.pos++
	}
	return t.input[start:t.pos]
}

// Parser converts tokens into a FilterExpr tree
type Parser struct {
	tokens []Token
	pos    int
}

// ParseQuery parses a complete search query and returns the root expression.
// Terms are joined with AND; | separates alternatives.
func ParseQuery(query string) (FilterExpr, error) {
	tokens := NewTokenizer(query).AllTokens()
	if len(tokens) == 1 {
		return AlwaysMatchExpr{}, nil
	}

	p := &Parser{tokens: tokens}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current().Type != TokenEOF {
		return nil, fmt.Errorf("unexpected token: %s", p.current().Value)
	}
	return expr, nil
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

// Precedence: OR < AND < NOT < atoms

func (p *Parser) parseOr() (FilterExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = NewOrExpr(left, right)
	}
	return left, nil
}

func (p *Parser) parseAnd() (FilterExpr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		switch p.current().Type {
		case TokenEOF, TokenRParen, TokenOr:
			return left, nil
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = NewAndExpr(left, right)
	}
}

func (p *Parser) parseNot() (FilterExpr, error) {
	if p.current().Type == TokenNot {
		p.advance()
		expr, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return NewNotExpr(expr), nil
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() (FilterExpr, error) {
	tok := p.current()
	switch tok.Type {
	case TokenLParen:
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.current().Type != TokenRParen {
			return nil, fmt.Errorf("expected ')', got %q", p.current().Value)
		}
		p.advance()
		return expr, nil
	case TokenText:
		p.advance()
		return NewTextExpr(tok.Value), nil
	case TokenFuzzy:
		p.advance()
		if tok.Value == "" {
			return AlwaysMatchExpr{}, nil
		}
		return NewFuzzyExpr(tok.Value), nil
	case TokenRegex:
		p.advance()
		return NewRegexExpr(tok.Value)
	case TokenFilter:
		p.advance()
		return parseFilter(tok.Value)
	case TokenEOF:
		return nil, fmt.Errorf("unexpected end of input")
	}
	return nil, fmt.Errorf("unexpected token: %s", tok.Value)
}

// parseFilter converts d:<op><n> and is:<flag> into filters
func parseFilter(value string) (FilterExpr, error) {
	if flag, ok := strings.CutPrefix(value, "is:"); ok {
		switch flag {
		case "playing", "readonly", "leaf", "expanded":
			return &FlagFilter{flag: flag}, nil
		}
		return nil, fmt.Errorf("unknown flag: %s", flag)
	}

	criteria := strings.TrimPrefix(value, "d:")
	op := OpEqual
	for _, candidate := range []ComparisonOp{OpGreaterEqual, OpLessEqual, OpGreater, OpLess, OpEqual} {
		if rest, ok := strings.CutPrefix(criteria, string(candidate)); ok {
			op, criteria = candidate, rest
			break
		}
	}
	n, err := strconv.Atoi(criteria)
	if err != nil {
		return nil, fmt.Errorf("invalid depth %q: %w", criteria, err)
	}
	return &DepthFilter{op: op, value: n}, nil
}
