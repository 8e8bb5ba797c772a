// Package lexer turns AngelScript source into classified tokens.
//
// Marks are matched greedily against the weak mark table, so context dependent
// marks such as ">>" or ">=" always arrive as separate '>' tokens. The parser
// joins them back together where an operator is expected.
package lexer

import (
	"github.com/dhamidi/asls/angelscript/diag"
	"github.com/dhamidi/asls/angelscript/token"
)

type Lexer struct {
	input       []byte
	path        string
	pos         int
	line        int
	column      int
	diagnostics []diag.Diagnostic
}

func New(input []byte, path string) *Lexer {
	return &Lexer{
		input:  input,
		path:   path,
		line:   1,
		column: 1,
	}
}

// Tokenize lexes the whole input, comments included.
func Tokenize(input []byte, path string) ([]*token.Token, []diag.Diagnostic) {
	l := New(input, path)
	var tokens []*token.Token
	for {
		tok := l.Next()
		if tok == nil {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens, l.diagnostics
}

func (l *Lexer) Diagnostics() []diag.Diagnostic {
	return l.diagnostics
}

func (l *Lexer) position() token.Position {
	return token.Position{Offset: l.pos, Line: l.line, Column: l.column}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

// Next returns the next token, or nil at end of input. Characters that cannot
// start any token are reported and dropped.
func (l *Lexer) Next() *token.Token {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			return nil
		}
		start := l.position()
		ch := l.peek()

		switch {
		case ch == '/' && l.peekN(1) == '/':
			return l.scanLineComment(start)
		case ch == '/' && l.peekN(1) == '*':
			return l.scanBlockComment(start)
		case ch == '#' && l.atLineStart(start):
			return l.scanDirective(start)
		case isLetter(ch):
			return l.scanIdentOrKeyword(start)
		case isDigit(ch), ch == '.' && isDigit(l.peekN(1)):
			return l.scanNumber(start)
		case ch == '"' || ch == '\'':
			return l.scanString(start)
		}

		if tok := l.scanMark(start); tok != nil {
			return tok
		}

		l.advance()
		l.diagnostics = append(l.diagnostics, diag.Diagnostic{
			Severity: diag.Error,
			Message:  "unexpected character " + quoteByte(ch),
			Path:     l.path,
			Span:     token.Span{Start: start, End: l.position()},
		})
	}
}

func (l *Lexer) makeToken(kind token.Kind, start token.Position) *token.Token {
	end := l.position()
	return &token.Token{
		Kind: kind,
		Text: string(l.input[start.Offset:end.Offset]),
		Location: token.Location{
			Path: l.path,
			Span: token.Span{Start: start, End: end},
		},
	}
}

func (l *Lexer) scanLineComment(start token.Position) *token.Token {
	l.advanceN(2)
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.makeToken(token.Comment, start)
}

func (l *Lexer) scanBlockComment(start token.Position) *token.Token {
	l.advanceN(2)
	for {
		if l.pos >= len(l.input) {
			l.errorf(start, "unterminated block comment")
			break
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.makeToken(token.Comment, start)
}

func (l *Lexer) atLineStart(start token.Position) bool {
	for i := start.Offset - 1; i >= 0; i-- {
		switch l.input[i] {
		case ' ', '\t':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// scanDirective reads a preprocessor line such as #include. The parser never
// sees it, so it is classified as a comment.
func (l *Lexer) scanDirective(start token.Position) *token.Token {
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.makeToken(token.Comment, start)
}

func (l *Lexer) scanIdentOrKeyword(start token.Position) *token.Token {
	for isLetterOrDigit(l.peek()) {
		l.advance()
	}
	tok := l.makeToken(token.Identifier, start)
	if prop := token.LookupKeyword(tok.Text); prop != nil {
		tok.Kind = token.Reserved
		tok.Property = prop
	}
	return tok
}

func (l *Lexer) scanNumber(start token.Position) *token.Token {
	if l.peek() == '0' {
		switch l.peekN(1) {
		case 'x', 'X':
			return l.scanRadix(start, isHexDigit)
		case 'b', 'B':
			return l.scanRadix(start, func(ch byte) bool { return ch == '0' || ch == '1' })
		case 'o', 'O':
			return l.scanRadix(start, func(ch byte) bool { return ch >= '0' && ch <= '7' })
		case 'd', 'D':
			return l.scanRadix(start, isDigit)
		}
	}

	numeric := token.Integer
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && (isDigit(l.peekN(1)) || !isLetter(l.peekN(1))) {
		numeric = token.Double
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if (l.peek() == 'e' || l.peek() == 'E') && (isDigit(l.peekN(1)) || ((l.peekN(1) == '+' || l.peekN(1) == '-') && isDigit(l.peekN(2)))) {
		numeric = token.Double
		l.advanceN(2)
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.peek() == 'f' || l.peek() == 'F' {
		numeric = token.Float
		l.advance()
	} else if l.peek() == 'd' || l.peek() == 'D' {
		numeric = token.Double
		l.advance()
	}

	tok := l.makeToken(token.Number, start)
	tok.Numeric = numeric
	return tok
}

func (l *Lexer) scanRadix(start token.Position, digit func(byte) bool) *token.Token {
	l.advanceN(2)
	for digit(l.peek()) {
		l.advance()
	}
	tok := l.makeToken(token.Number, start)
	tok.Numeric = token.Integer
	return tok
}

func (l *Lexer) scanString(start token.Position) *token.Token {
	quote := l.peek()
	if quote == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
		l.advanceN(3)
		for {
			if l.pos >= len(l.input) {
				l.errorf(start, "unterminated heredoc string")
				break
			}
			if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
				l.advanceN(3)
				break
			}
			l.advance()
		}
		return l.makeToken(token.String, start)
	}

	l.advance()
	for {
		ch := l.peek()
		if l.pos >= len(l.input) || ch == '\n' {
			l.errorf(start, "unterminated string literal")
			break
		}
		if ch == '\\' {
			l.advanceN(2)
			continue
		}
		l.advance()
		if ch == quote {
			break
		}
	}
	return l.makeToken(token.String, start)
}

func (l *Lexer) scanMark(start token.Position) *token.Token {
	mark, prop, ok := token.MatchWeakMark(string(l.input[l.pos:min(l.pos+4, len(l.input))]))
	if !ok {
		return nil
	}
	l.advanceN(len(mark))
	tok := l.makeToken(token.Reserved, start)
	tok.Property = prop
	return tok
}

func (l *Lexer) errorf(start token.Position, msg string) {
	l.diagnostics = append(l.diagnostics, diag.Diagnostic{
		Severity: diag.Error,
		Message:  msg,
		Path:     l.path,
		Span:     token.Span{Start: start, End: l.position()},
	})
}

func isLetter(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetterOrDigit(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func quoteByte(ch byte) string {
	return "'" + string(rune(ch)) + "'"
}
