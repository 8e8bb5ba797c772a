package parser

import (
	"github.com/dhamidi/asls/angelscript/ast"
	"github.com/dhamidi/asls/angelscript/diag"
	"github.com/dhamidi/asls/angelscript/lexer"
	"github.com/dhamidi/asls/angelscript/token"
)

// Result is a parsed document. Tokens excludes comments; Highlights is
// parallel to Tokens.
type Result struct {
	Script      *ast.Script
	Diagnostics []diag.Diagnostic
	Tokens      []*token.Token
	Comments    []*token.Token
	Highlights  []token.Highlight
}

// Parse parses a whole script. It always returns a script, even for garbage.
func Parse(tokens []*token.Token, opts ...Option) *Result {
	p := newParser(tokens, opts...)
	start := p.mark()
	script := &ast.Script{}
	for !p.isEnd() {
		script.Items = append(script.Items, p.parseScript()...)
		if !p.isEnd() {
			p.errorf("unexpected token")
			p.step()
		}
	}
	script.Range = p.rangeFrom(start)
	return p.result(script)
}

// ParseSource lexes src and parses the tokens. Lexer diagnostics come first.
func ParseSource(path string, src []byte, opts ...Option) *Result {
	tokens, lexDiags := lexer.Tokenize(src, path)
	result := Parse(tokens, opts...)
	if len(lexDiags) > 0 {
		result.Diagnostics = append(lexDiags, result.Diagnostics...)
	}
	return result
}

// ParseExpression parses a single ASSIGN expression. Leftover input is
// reported once, at its first token.
func ParseExpression(tokens []*token.Token, opts ...Option) (*ast.Assign, []diag.Diagnostic) {
	p := newParser(tokens, opts...)
	assign := p.expectAssign()
	if !p.isEnd() {
		p.errorf("unexpected token")
	}
	return assign, p.diagnostics
}

func (p *Parser) result(script *ast.Script) *Result {
	return &Result{
		Script:      script,
		Diagnostics: p.diagnostics,
		Tokens:      p.tokens,
		Comments:    p.comments,
		Highlights:  p.highlights,
	}
}
