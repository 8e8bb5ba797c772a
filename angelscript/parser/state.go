package parser

import (
	"fmt"

	"github.com/dhamidi/asls/angelscript/ast"
	"github.com/dhamidi/asls/angelscript/diag"
	"github.com/dhamidi/asls/angelscript/token"
)

type Option func(*Parser)

// WithoutMemo disables the memo table. Results are identical, only slower.
func WithoutMemo() Option {
	return func(p *Parser) {
		p.memoize = false
	}
}

type Parser struct {
	tokens      []*token.Token
	comments    []*token.Token
	highlights  []token.Highlight
	diagnostics []diag.Diagnostic
	pos         int
	eof         *token.Token

	memoize bool
	memo    map[memoKey]*memoEntry
	// writes logs highlight tags while a memoized production is running so
	// they can be replayed on a hit.
	writes    []highlightWrite
	recording int

	joined map[int]joinedOperator
}

// mark is a rewind point: the cursor position and how many diagnostics
// existed when it was taken.
type mark struct {
	pos   int
	diags int
}

func newParser(tokens []*token.Token, opts ...Option) *Parser {
	p := &Parser{
		memoize: true,
		memo:    make(map[memoKey]*memoEntry),
		joined:  make(map[int]joinedOperator),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, tok := range tokens {
		if tok.Kind == token.Comment {
			p.comments = append(p.comments, tok)
			continue
		}
		p.tokens = append(p.tokens, tok)
	}
	p.highlights = make([]token.Highlight, len(p.tokens))
	p.eof = endOfInput(p.tokens)
	return p
}

// endOfInput is the token returned when peeking past the last token. It sits
// right after the last token so diagnostics at the end have a location.
func endOfInput(tokens []*token.Token) *token.Token {
	tok := &token.Token{Kind: token.Reserved}
	if len(tokens) == 0 {
		tok.Location.Span = token.Span{
			Start: token.Position{Line: 1, Column: 1},
			End:   token.Position{Line: 1, Column: 1},
		}
		return tok
	}
	last := tokens[len(tokens)-1]
	tok.Location = token.Location{
		Path: last.Location.Path,
		Span: token.Span{Start: last.Location.End, End: last.Location.End},
	}
	return tok
}

func (p *Parser) isEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) tokenAt(i int) *token.Token {
	if i < 0 || i >= len(p.tokens) {
		return p.eof
	}
	return p.tokens[i]
}

func (p *Parser) peek() *token.Token {
	return p.tokenAt(p.pos)
}

func (p *Parser) peekN(n int) *token.Token {
	return p.tokenAt(p.pos + n)
}

func (p *Parser) at(text string) bool {
	return !p.isEnd() && p.peek().Text == text && p.peek().Kind != token.String
}

// confirm consumes the current token and tags it.
func (p *Parser) confirm(tag token.Highlight) *token.Token {
	tok := p.peek()
	if p.isEnd() {
		return tok
	}
	p.tag(p.pos, tag)
	p.pos++
	return tok
}

func (p *Parser) tag(pos int, tag token.Highlight) {
	p.highlights[pos] = tag
	if p.recording > 0 {
		p.writes = append(p.writes, highlightWrite{pos: pos, tag: tag})
	}
}

// expect consumes text or reports it missing, leaving the cursor in place.
func (p *Parser) expect(text string, tag token.Highlight) bool {
	if p.at(text) {
		p.confirm(tag)
		return true
	}
	p.errorf("expected '%s'", text)
	return false
}

func (p *Parser) errorf(format string, args ...any) {
	p.diagnostics = append(p.diagnostics, diag.At(p.peek(), format, args...))
}

// step skips one token during recovery.
func (p *Parser) step() {
	if !p.isEnd() {
		p.pos++
	}
}

func (p *Parser) mark() mark {
	return mark{pos: p.pos, diags: len(p.diagnostics)}
}

// backtrack rewinds to m and drops every diagnostic reported since.
func (p *Parser) backtrack(m mark) {
	p.pos = m.pos
	p.diagnostics = p.diagnostics[:m.diags]
}

// rangeFrom spans the tokens consumed since m. A node that consumed nothing
// covers the token it started at.
func (p *Parser) rangeFrom(m mark) ast.Range {
	start := p.tokenAt(m.pos)
	if p.pos <= m.pos {
		return ast.Range{Start: start, End: start}
	}
	return ast.Range{Start: start, End: p.tokens[p.pos-1]}
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			p.step()
			return false
		}
		return true
	}
}

// continueOrClose handles the separator between list elements. It reports
// true when the list is over: close was consumed, or the separator is
// missing after the first element, or the input ended.
func (p *Parser) continueOrClose(more bool, sep, close string) bool {
	if p.at(close) {
		p.confirm(token.HighlightOperator)
		return true
	}
	if p.isEnd() {
		p.errorf("expected '%s'", close)
		return true
	}
	if more {
		if !p.at(sep) {
			p.errorf("expected '%s' or '%s'", sep, close)
			return true
		}
		p.confirm(token.HighlightOperator)
	}
	return false
}

func (p *Parser) closeWith(close string) bool {
	if p.at(close) {
		p.confirm(token.HighlightOperator)
		return true
	}
	return false
}

func (p *Parser) parseIdentifier(tag token.Highlight) *token.Token {
	if !p.peek().IsIdentifier() {
		return nil
	}
	return p.confirm(tag)
}

func (p *Parser) expectIdentifier(tag token.Highlight) *token.Token {
	ident := p.parseIdentifier(tag)
	if ident == nil {
		p.errorf("expected identifier")
	}
	return ident
}

type joinedOperator struct {
	tok   *token.Token
	width int
}

// operatorJoins lists the operators the lexer splits, longest first.
var operatorJoins = [][]string{
	{">", ">", ">", "="},
	{">", ">", "="},
	{">", ">", ">"},
	{">", ">"},
	{">", "="},
	{"!", "is"},
}

// peekOperator returns the operator at the cursor and how many tokens it
// spans. Touching pieces of a split operator are joined into one token.
func (p *Parser) peekOperator() (*token.Token, int) {
	if j, ok := p.joined[p.pos]; ok {
		return j.tok, j.width
	}
	first := p.peek()
	result := joinedOperator{tok: first, width: 1}
	for _, parts := range operatorJoins {
		if p.joins(parts) {
			last := p.peekN(len(parts) - 1)
			text := ""
			for _, part := range parts {
				text += part
			}
			result = joinedOperator{
				tok: &token.Token{
					Kind:     token.Reserved,
					Text:     text,
					Property: token.Lookup(text),
					Location: token.Location{
						Path: first.Location.Path,
						Span: token.Span{Start: first.Location.Start, End: last.Location.End},
					},
				},
				width: len(parts),
			}
			break
		}
	}
	p.joined[p.pos] = result
	return result.tok, result.width
}

func (p *Parser) joins(parts []string) bool {
	if p.pos+len(parts) > len(p.tokens) {
		return false
	}
	for i, part := range parts {
		tok := p.peekN(i)
		if tok.Text != part || tok.Kind != token.Reserved {
			return false
		}
		if i > 0 && !p.peekN(i-1).Touches(tok) {
			return false
		}
	}
	return true
}

// parseOperator consumes an operator whose property bag satisfies pred.
func (p *Parser) parseOperator(pred func(*token.Property) bool) *token.Token {
	tok, width := p.peekOperator()
	if !tok.IsReserved(pred) {
		return nil
	}
	for i := 0; i < width; i++ {
		p.confirm(token.HighlightOperator)
	}
	return tok
}

func (p *Parser) String() string {
	return fmt.Sprintf("parser at %d/%d (%s)", p.pos, len(p.tokens), p.peek())
}
