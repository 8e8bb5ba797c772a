package parser

import (
	"github.com/dhamidi/asls/angelscript/ast"
	"github.com/dhamidi/asls/angelscript/token"
)

func statement[T ast.Statement](r Parsed[T]) Parsed[ast.Statement] {
	if !r.Matched() {
		return Parsed[ast.Statement]{Outcome: r.Outcome}
	}
	return match[ast.Statement](r.Node)
}

// STATBLOCK ::= '{' {VAR | STATEMENT} '}'
func (p *Parser) parseStatBlock() Parsed[*ast.StatBlock] {
	if !p.at("{") {
		return noMatch[*ast.StatBlock]()
	}
	start := p.mark()
	p.confirm(token.HighlightOperator)

	node := &ast.StatBlock{}
	for {
		if p.continueOrClose(false, "", "}") {
			break
		}
		if v := p.parseVar(); v.Matched() {
			node.Items = append(node.Items, v.Node)
			continue
		}
		stmt := p.parseStatement()
		if stmt.Matched() {
			node.Items = append(node.Items, stmt.Node)
		}
		if stmt.Outcome != NoMatch {
			continue
		}
		p.errorf("expected statement")
		p.step()
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

func (p *Parser) expectStatBlock() *ast.StatBlock {
	block := p.parseStatBlock()
	if !block.Matched() {
		p.errorf("expected statement block")
	}
	return block.Node
}

// STATEMENT ::= (IF | FOR | WHILE | RETURN | STATBLOCK | BREAK | CONTINUE | DOWHILE | SWITCH | EXPRSTAT | TRY)
func (p *Parser) parseStatement() Parsed[ast.Statement] {
	alternatives := []func() Parsed[ast.Statement]{
		func() Parsed[ast.Statement] { return statement(p.parseIf()) },
		func() Parsed[ast.Statement] { return statement(p.parseFor()) },
		func() Parsed[ast.Statement] { return statement(p.parseWhile()) },
		func() Parsed[ast.Statement] { return statement(p.parseReturn()) },
		func() Parsed[ast.Statement] { return statement(p.parseStatBlock()) },
		func() Parsed[ast.Statement] { return statement(p.parseBreak()) },
		func() Parsed[ast.Statement] { return statement(p.parseContinue()) },
		func() Parsed[ast.Statement] { return statement(p.parseDoWhile()) },
		func() Parsed[ast.Statement] { return statement(p.parseSwitch()) },
		func() Parsed[ast.Statement] { return statement(p.parseTry()) },
		func() Parsed[ast.Statement] { return statement(p.parseExprStat()) },
	}
	for _, alt := range alternatives {
		if r := alt(); r.Outcome != NoMatch {
			return r
		}
	}
	return noMatch[ast.Statement]()
}

func (p *Parser) expectStatement() ast.Statement {
	stmt := p.parseStatement()
	if stmt.Outcome == NoMatch {
		p.errorf("expected statement")
	}
	return stmt.Node
}

// SWITCH ::= 'switch' '(' ASSIGN ')' '{' {CASE} '}'
func (p *Parser) parseSwitch() Parsed[*ast.Switch] {
	if !p.at("switch") {
		return noMatch[*ast.Switch]()
	}
	start := p.mark()
	p.confirm(token.HighlightKeyword)

	p.expect("(", token.HighlightOperator)
	node := &ast.Switch{Value: p.expectAssign()}
	if node.Value == nil {
		return invalid[*ast.Switch]()
	}
	p.expect(")", token.HighlightOperator)
	if !p.expect("{", token.HighlightOperator) {
		node.Range = p.rangeFrom(start)
		return match(node)
	}

	for {
		if p.continueOrClose(false, "", "}") {
			break
		}
		c := p.parseCase()
		switch c.Outcome {
		case Matched:
			node.Cases = append(node.Cases, c.Node)
		case NoMatch:
			p.errorf("expected case statement")
			p.step()
		}
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

// BREAK ::= 'break' ';'
func (p *Parser) parseBreak() Parsed[*ast.Break] {
	if !p.at("break") {
		return noMatch[*ast.Break]()
	}
	start := p.mark()
	p.confirm(token.HighlightKeyword)
	p.expect(";", token.HighlightOperator)
	return match(&ast.Break{Range: p.rangeFrom(start)})
}

// CONTINUE ::= 'continue' ';'
func (p *Parser) parseContinue() Parsed[*ast.Continue] {
	if !p.at("continue") {
		return noMatch[*ast.Continue]()
	}
	start := p.mark()
	p.confirm(token.HighlightKeyword)
	p.expect(";", token.HighlightOperator)
	return match(&ast.Continue{Range: p.rangeFrom(start)})
}

// FOR ::= 'for' '(' (VAR | EXPRSTAT) EXPRSTAT [ASSIGN {',' ASSIGN}] ')' STATEMENT
func (p *Parser) parseFor() Parsed[*ast.For] {
	if !p.at("for") {
		return noMatch[*ast.For]()
	}
	start := p.mark()
	p.confirm(token.HighlightKeyword)

	if !p.expect("(", token.HighlightOperator) {
		return invalid[*ast.For]()
	}

	node := &ast.For{}
	if v := p.parseVar(); v.Matched() {
		node.Init = v.Node
	} else if first := p.parseExprStat(); first.Matched() {
		node.Init = first.Node
	} else {
		if first.Outcome == NoMatch {
			p.errorf("expected initial expression or variable declaration")
		}
		return invalid[*ast.For]()
	}

	cond := p.parseExprStat()
	if !cond.Matched() {
		if cond.Outcome == NoMatch {
			p.errorf("expected condition expression")
		}
		return invalid[*ast.For]()
	}
	node.Cond = cond.Node

	for {
		if p.continueOrClose(len(node.Incr) > 0, ",", ")") {
			break
		}
		var incr *ast.Assign
		if len(node.Incr) > 0 {
			incr = p.expectAssign()
		} else if r := p.parseAssign(); r.Matched() {
			incr = r.Node
		}
		if incr == nil {
			break
		}
		node.Incr = append(node.Incr, incr)
	}

	node.Body = p.expectStatement()
	if node.Body == nil {
		return invalid[*ast.For]()
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

// WHILE ::= 'while' '(' ASSIGN ')' STATEMENT
func (p *Parser) parseWhile() Parsed[*ast.While] {
	if !p.at("while") {
		return noMatch[*ast.While]()
	}
	start := p.mark()
	p.confirm(token.HighlightKeyword)

	p.expect("(", token.HighlightOperator)
	node := &ast.While{Cond: p.expectAssign()}
	if node.Cond == nil {
		return invalid[*ast.While]()
	}
	p.expect(")", token.HighlightOperator)

	node.Body = p.expectStatement()
	if node.Body == nil {
		return invalid[*ast.While]()
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

// DOWHILE ::= 'do' STATEMENT 'while' '(' ASSIGN ')' ';'
func (p *Parser) parseDoWhile() Parsed[*ast.DoWhile] {
	if !p.at("do") {
		return noMatch[*ast.DoWhile]()
	}
	start := p.mark()
	p.confirm(token.HighlightKeyword)

	node := &ast.DoWhile{Body: p.expectStatement()}
	if node.Body == nil {
		return invalid[*ast.DoWhile]()
	}
	if !p.expect("while", token.HighlightKeyword) || !p.expect("(", token.HighlightOperator) {
		return invalid[*ast.DoWhile]()
	}
	node.Cond = p.expectAssign()
	if node.Cond == nil {
		return invalid[*ast.DoWhile]()
	}
	if !p.expect(")", token.HighlightOperator) || !p.expect(";", token.HighlightOperator) {
		return invalid[*ast.DoWhile]()
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

// IF ::= 'if' '(' ASSIGN ')' STATEMENT ['else' STATEMENT]
func (p *Parser) parseIf() Parsed[*ast.If] {
	if !p.at("if") {
		return noMatch[*ast.If]()
	}
	start := p.mark()
	p.confirm(token.HighlightKeyword)

	if !p.expect("(", token.HighlightOperator) {
		return invalid[*ast.If]()
	}
	node := &ast.If{Cond: p.expectAssign()}
	if node.Cond == nil {
		return invalid[*ast.If]()
	}
	if !p.expect(")", token.HighlightOperator) {
		return invalid[*ast.If]()
	}
	node.Then = p.expectStatement()
	if node.Then == nil {
		return invalid[*ast.If]()
	}
	if p.at("else") {
		p.confirm(token.HighlightKeyword)
		node.Else = p.expectStatement()
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

// EXPRSTAT ::= [ASSIGN] ';'
func (p *Parser) parseExprStat() Parsed[*ast.ExprStat] {
	start := p.mark()
	if p.closeWith(";") {
		return match(&ast.ExprStat{Range: p.rangeFrom(start)})
	}
	assign := p.parseAssign()
	if !assign.Matched() {
		return Parsed[*ast.ExprStat]{Outcome: assign.Outcome}
	}
	p.expect(";", token.HighlightOperator)
	return match(&ast.ExprStat{Range: p.rangeFrom(start), Value: assign.Node})
}

// TRY ::= 'try' STATBLOCK 'catch' STATBLOCK
func (p *Parser) parseTry() Parsed[*ast.Try] {
	if !p.at("try") {
		return noMatch[*ast.Try]()
	}
	start := p.mark()
	p.confirm(token.HighlightKeyword)

	node := &ast.Try{Try: p.expectStatBlock()}
	if node.Try == nil {
		return invalid[*ast.Try]()
	}
	if !p.expect("catch", token.HighlightKeyword) {
		return invalid[*ast.Try]()
	}
	node.Catch = p.expectStatBlock()
	node.Range = p.rangeFrom(start)
	return match(node)
}

// RETURN ::= 'return' [ASSIGN] ';'
func (p *Parser) parseReturn() Parsed[*ast.Return] {
	if !p.at("return") {
		return noMatch[*ast.Return]()
	}
	start := p.mark()
	p.confirm(token.HighlightKeyword)

	node := &ast.Return{}
	if !p.at(";") {
		node.Value = p.expectAssign()
		if node.Value == nil {
			return invalid[*ast.Return]()
		}
	}
	p.expect(";", token.HighlightOperator)
	node.Range = p.rangeFrom(start)
	return match(node)
}

// CASE ::= (('case' EXPR) | 'default') ':' {STATEMENT}
func (p *Parser) parseCase() Parsed[*ast.Case] {
	start := p.mark()
	node := &ast.Case{}
	switch {
	case p.at("case"):
		p.confirm(token.HighlightKeyword)
		node.Value = p.expectExpr()
		if node.Value == nil {
			return invalid[*ast.Case]()
		}
	case p.at("default"):
		p.confirm(token.HighlightKeyword)
	default:
		return noMatch[*ast.Case]()
	}
	p.expect(":", token.HighlightOperator)

	for !p.isEnd() {
		stmt := p.parseStatement()
		if stmt.Outcome == NoMatch {
			break
		}
		if stmt.Matched() {
			node.Body = append(node.Body, stmt.Node)
		}
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}
