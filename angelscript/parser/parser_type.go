package parser

import (
	"github.com/dhamidi/asls/angelscript/ast"
	"github.com/dhamidi/asls/angelscript/token"
)

// TYPE ::= ['const'] SCOPE DATATYPE ['<' TYPE {',' TYPE} '>'] { ('[' ']') | ('@' ['const']) }
func (p *Parser) parseType() Parsed[*ast.Type] {
	start := p.mark()
	node := &ast.Type{Const: p.parseConst()}
	node.Scope = p.parseScope()

	node.DataType = p.parseDataType()
	if node.DataType == nil {
		p.backtrack(start)
		return noMatch[*ast.Type]()
	}
	if params := p.parseTypeParameters(); params.Matched() {
		node.TypeParams = params.Node
	}
	p.parseTypeTail(node)
	node.Range = p.rangeFrom(start)
	return match(node)
}

func (p *Parser) expectType() *ast.Type {
	typ := p.parseType()
	if !typ.Matched() {
		p.errorf("expected type")
	}
	return typ.Node
}

// { ('[' ']') | ('@' ['const']) }
func (p *Parser) parseTypeTail(node *ast.Type) {
	for {
		switch {
		case p.at("[") && p.peekN(1).Is("]"):
			p.confirm(token.HighlightOperator)
			p.confirm(token.HighlightOperator)
			node.Array = true
		case p.at("@"):
			p.confirm(token.HighlightOperator)
			ref := ast.At
			if p.parseConst() {
				ref = ast.AtConst
			}
			node.Ref = &ref
		default:
			return
		}
	}
}

// '<' TYPE {',' TYPE} '>'
//
// A list whose element is not a type does not match, so "a < 1" stays a
// comparison.
func (p *Parser) parseTypeParameters() Parsed[[]*ast.Type] {
	return memoized(p, memoTypeParameters, func() Parsed[[]*ast.Type] {
		if !p.at("<") {
			return noMatch[[]*ast.Type]()
		}
		start := p.mark()
		p.confirm(token.HighlightOperator)

		params := []*ast.Type{}
		for {
			if p.continueOrClose(len(params) > 0, ",", ">") {
				break
			}
			typ := p.parseType()
			if !typ.Matched() {
				p.backtrack(start)
				return noMatch[[]*ast.Type]()
			}
			params = append(params, typ.Node)
		}
		if len(params) == 0 {
			p.errorf("expected type parameter")
		}
		return match(params)
	})
}

// SCOPE ::= ['::'] {IDENTIFIER '::'} [IDENTIFIER ['<' TYPE {',' TYPE} '>'] '::']
//
// "A<T>" is only a scope when "::" follows it; otherwise the angle brackets
// belong to whatever type or expression comes next.
func (p *Parser) parseScope() *ast.Scope {
	return memoized(p, memoScope, func() Parsed[*ast.Scope] {
		start := p.mark()
		node := &ast.Scope{}
		if p.closeWith("::") {
			node.Global = true
		}

		for p.peek().IsIdentifier() {
			ident := p.peek()
			if p.peekN(1).Is("::") {
				p.confirm(token.HighlightNamespace)
				p.confirm(token.HighlightOperator)
				node.Names = append(node.Names, ident)
				continue
			}
			if p.peekN(1).Is("<") {
				speculative := p.mark()
				p.confirm(token.HighlightClass)
				params := p.parseTypeParameters()
				if params.Matched() && p.at("::") {
					p.confirm(token.HighlightOperator)
					node.Names = append(node.Names, ident)
					node.TypeParams = params.Node
				} else {
					p.backtrack(speculative)
				}
			}
			break
		}

		if !node.Global && len(node.Names) == 0 {
			p.backtrack(start)
			return noMatch[*ast.Scope]()
		}
		node.Range = p.rangeFrom(start)
		return match(node)
	}).Node
}

// DATATYPE ::= (IDENTIFIER | PRIMTYPE | '?' | 'auto')
func (p *Parser) parseDataType() *ast.DataType {
	next := p.peek()
	switch {
	case next.IsIdentifier():
		p.confirm(token.HighlightType)
	case p.at("?"), p.at("auto"):
		p.confirm(token.HighlightBuiltin)
	default:
		if p.parsePrimType() == nil {
			return nil
		}
	}
	return &ast.DataType{Range: ast.Range{Start: next, End: next}, Ident: next}
}

// PRIMTYPE ::= 'void' | 'int' | 'int8' | 'int16' | 'int32' | 'int64' | 'uint' | 'uint8' | 'uint16' | 'uint32' | 'uint64' | 'float' | 'double' | 'bool'
func (p *Parser) parsePrimType() *token.Token {
	if !p.peek().IsReserved(func(prop *token.Property) bool { return prop.PrimeType }) {
		return nil
	}
	return p.confirm(token.HighlightBuiltin)
}
