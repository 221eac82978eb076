package theme

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/portalkit/portalkit/faults"
)

// ParseStylesheet reads a stylesheet into the AST. Comments are dropped and
// whitespace inside selectors and values is collapsed to a single space;
// every other character is kept as written.
func ParseStylesheet(r io.Reader) (*Stylesheet, error) {
	return parseInput(parse.NewInput(r))
}

func ParseString(source string) (*Stylesheet, error) {
	return parseInput(parse.NewInputString(source))
}

type token struct {
	kind css.TokenType
	text string
}

// tokenParser builds the AST from the raw lexer output. The grammar level
// parser of the css package minifies values, so it cannot be used for
// sheets that are written back.
type tokenParser struct {
	tokens []token
	pos    int
}

func parseInput(input *parse.Input) (*Stylesheet, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, malformed(err)
	}
	p := &tokenParser{tokens: tokens}
	nodes, err := p.parseNodes(false)
	if err != nil {
		return nil, malformed(err)
	}
	return &Stylesheet{Nodes: nodes}, nil
}

func malformed(err error) error {
	return faults.NewValidationError("malformed CSS", err)
}

func lex(input *parse.Input) ([]token, error) {
	lexer := css.NewLexer(input)
	var tokens []token
	for {
		kind, data := lexer.Next()
		switch kind {
		case css.ErrorToken:
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return tokens, nil
		case css.CommentToken:
			kind = css.WhitespaceToken
		}
		tokens = append(tokens, token{kind: kind, text: string(data)})
	}
}

func (p *tokenParser) eof() bool {
	return p.pos >= len(p.tokens)
}

func (p *tokenParser) peek() css.TokenType {
	if p.eof() {
		return css.ErrorToken
	}
	return p.tokens[p.pos].kind
}

func (p *tokenParser) skipWhitespace() {
	for !p.eof() && p.tokens[p.pos].kind == css.WhitespaceToken {
		p.pos++
	}
}

// parseNodes reads rules up to the end of input, or up to the closing brace
// of the enclosing block when nested. Inside at-rule blocks, items that are
// not followed by a block are read as declarations.
func (p *tokenParser) parseNodes(nested bool) ([]Node, error) {
	var nodes []Node
	for {
		p.skipWhitespace()
		switch p.peek() {
		case css.ErrorToken:
			if nested {
				return nil, errors.New("unclosed block")
			}
			return nodes, nil
		case css.RightBraceToken:
			if !nested {
				return nil, errors.New("unexpected '}'")
			}
			p.pos++
			return nodes, nil
		case css.SemicolonToken, css.CDOToken, css.CDCToken:
			p.pos++
		case css.AtKeywordToken:
			rule, err := p.parseAtRule()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, rule)
		default:
			if nested && !p.blockAhead() {
				declaration, err := p.parseDeclaration()
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, declaration)
				continue
			}
			ruleset, err := p.parseRuleset()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, ruleset)
		}
	}
}

// blockAhead reports whether a '{' comes before the next ';' or '}' outside
// of parentheses.
func (p *tokenParser) blockAhead() bool {
	depth := 0
	for idx := p.pos; idx < len(p.tokens); idx++ {
		switch p.tokens[idx].kind {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.LeftBraceToken:
			if depth == 0 {
				return true
			}
		case css.SemicolonToken, css.RightBraceToken:
			if depth == 0 {
				return false
			}
		}
	}
	return false
}

func (p *tokenParser) parseAtRule() (*AtRule, error) {
	rule := &AtRule{Name: p.tokens[p.pos].text}
	p.pos++

	start := p.pos
	end, stop := p.scanComponents(css.SemicolonToken, css.LeftBraceToken)
	rule.Prelude = joinTokens(p.tokens[start:end])
	p.pos = end
	if stop != css.LeftBraceToken {
		if stop == css.SemicolonToken {
			p.pos++
		}
		return rule, nil
	}

	p.pos++
	nodes, err := p.parseNodes(true)
	if err != nil {
		return nil, err
	}
	rule.Block = true
	rule.Nodes = nodes
	return rule, nil
}

func (p *tokenParser) parseRuleset() (*Ruleset, error) {
	start := p.pos
	end, stop := p.scanComponents(css.LeftBraceToken, css.SemicolonToken, css.RightBraceToken)
	if stop != css.LeftBraceToken {
		return nil, fmt.Errorf("expected '{' after selector %q", joinTokens(p.tokens[start:end]))
	}
	ruleset := &Ruleset{Selector: joinTokens(p.tokens[start:end])}
	p.pos = end + 1

	for {
		p.skipWhitespace()
		switch p.peek() {
		case css.ErrorToken:
			return nil, fmt.Errorf("unclosed ruleset %q", ruleset.Selector)
		case css.RightBraceToken:
			p.pos++
			return ruleset, nil
		case css.SemicolonToken:
			p.pos++
		default:
			declaration, err := p.parseDeclaration()
			if err != nil {
				return nil, err
			}
			ruleset.Declarations = append(ruleset.Declarations, declaration)
		}
	}
}

// parseDeclaration reads "property: value" and consumes the trailing ';'
// when present. The closing '}' is left to the caller.
func (p *tokenParser) parseDeclaration() (*Declaration, error) {
	name := p.tokens[p.pos]
	if name.kind != css.IdentToken && name.kind != css.CustomPropertyNameToken {
		return nil, fmt.Errorf("unexpected %q in declaration list", name.text)
	}
	p.pos++
	p.skipWhitespace()
	if p.peek() != css.ColonToken {
		return nil, fmt.Errorf("expected ':' after %q", name.text)
	}
	p.pos++

	start := p.pos
	end, stop := p.scanComponents(css.SemicolonToken, css.RightBraceToken)
	if stop == css.ErrorToken {
		return nil, fmt.Errorf("unterminated declaration %q", name.text)
	}
	p.pos = end
	if stop == css.SemicolonToken {
		p.pos++
	}
	return &Declaration{Property: name.text, Value: joinTokens(p.tokens[start:end])}, nil
}

// scanComponents returns the index of the first stop token found outside of
// nested parentheses, brackets and braces, and which stop it was. It returns
// len(tokens) and ErrorToken when input ends first.
func (p *tokenParser) scanComponents(stops ...css.TokenType) (int, css.TokenType) {
	depth := 0
	for idx := p.pos; idx < len(p.tokens); idx++ {
		kind := p.tokens[idx].kind
		if depth == 0 {
			for _, stop := range stops {
				if kind == stop {
					return idx, kind
				}
			}
		}
		switch kind {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken, css.LeftBraceToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken, css.RightBraceToken:
			if depth > 0 {
				depth--
			}
		}
	}
	return len(p.tokens), css.ErrorToken
}

// joinTokens writes tokens back as source text. Each run of whitespace and
// comments between two tokens becomes one space; leading and trailing runs
// are dropped.
func joinTokens(tokens []token) string {
	var builder strings.Builder
	pendingSpace := false
	for _, item := range tokens {
		if item.kind == css.WhitespaceToken {
			pendingSpace = builder.Len() > 0
			continue
		}
		if pendingSpace {
			builder.WriteByte(' ')
			pendingSpace = false
		}
		builder.WriteString(item.text)
	}
	return builder.String()
}
