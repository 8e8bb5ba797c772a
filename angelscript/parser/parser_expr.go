package parser

import (
	"github.com/dhamidi/asls/angelscript/ast"
	"github.com/dhamidi/asls/angelscript/token"
)

func exprValue[T ast.ExprValue](r Parsed[T]) Parsed[ast.ExprValue] {
	if !r.Matched() {
		return Parsed[ast.ExprValue]{Outcome: r.Outcome}
	}
	return match[ast.ExprValue](r.Node)
}

// EXPR ::= EXPRTERM {EXPROP EXPRTERM}
func (p *Parser) parseExpr() Parsed[*ast.Expr] {
	start := p.mark()
	term := p.parseExprTerm()
	if !term.Matched() {
		return Parsed[*ast.Expr]{Outcome: term.Outcome}
	}

	node := &ast.Expr{Head: term.Node}
	if op := p.parseExprOp(); op != nil {
		if tail := p.expectExpr(); tail != nil {
			node.Tail = &ast.ExprTail{Op: op, Expr: tail}
		}
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

func (p *Parser) expectExpr() *ast.Expr {
	expr := p.parseExpr()
	if expr.Outcome == NoMatch {
		p.errorf("expected expression")
	}
	return expr.Node
}

// EXPRTERM ::= ([TYPE '='] INITLIST) | ({EXPRPREOP} EXPRVALUE {EXPRPOSTOP})
func (p *Parser) parseExprTerm() Parsed[ast.ExprTerm] {
	if term := p.parseInitListTerm(); term.Matched() {
		return match[ast.ExprTerm](term.Node)
	}
	term := p.parseValueTerm()
	if !term.Matched() {
		return Parsed[ast.ExprTerm]{Outcome: term.Outcome}
	}
	return match[ast.ExprTerm](term.Node)
}

// [TYPE '='] INITLIST
func (p *Parser) parseInitListTerm() Parsed[*ast.InitListTerm] {
	start := p.mark()
	node := &ast.InitListTerm{}
	if typ := p.parseType(); typ.Matched() {
		if !p.at("=") {
			p.backtrack(start)
			return noMatch[*ast.InitListTerm]()
		}
		p.confirm(token.HighlightOperator)
		node.Type = typ.Node
	}

	list := p.parseInitList()
	if !list.Matched() {
		p.backtrack(start)
		return noMatch[*ast.InitListTerm]()
	}
	node.InitList = list.Node
	node.Range = p.rangeFrom(start)
	return match(node)
}

// {EXPRPREOP} EXPRVALUE {EXPRPOSTOP}
func (p *Parser) parseValueTerm() Parsed[*ast.ValueTerm] {
	start := p.mark()
	node := &ast.ValueTerm{}
	for p.peek().IsReserved(func(prop *token.Property) bool { return prop.ExprPreOp }) {
		node.PreOps = append(node.PreOps, p.confirm(token.HighlightOperator))
	}

	value := p.parseExprValue()
	switch value.Outcome {
	case NoMatch:
		p.backtrack(start)
		return noMatch[*ast.ValueTerm]()
	case Invalid:
		return invalid[*ast.ValueTerm]()
	}
	node.Value = value.Node

	for {
		op := p.parseExprPostOp()
		if op == nil {
			break
		}
		node.PostOps = append(node.PostOps, op)
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

// EXPRVALUE ::= 'void' | CONSTRUCTCALL | FUNCCALL | VARACCESS | CAST | LITERAL | '(' ASSIGN ')' | LAMBDA
func (p *Parser) parseExprValue() Parsed[ast.ExprValue] {
	if p.at("void") {
		start := p.mark()
		p.confirm(token.HighlightBuiltin)
		return match[ast.ExprValue](&ast.VoidValue{Range: p.rangeFrom(start)})
	}

	if cast := p.parseCast(); cast.Outcome != NoMatch {
		return exprValue(cast)
	}

	if p.at("(") {
		p.confirm(token.HighlightOperator)
		assign := p.expectAssign()
		if assign == nil {
			return invalid[ast.ExprValue]()
		}
		p.expect(")", token.HighlightOperator)
		return match[ast.ExprValue](assign)
	}

	if lit := p.parseLiteral(); lit != nil {
		return match[ast.ExprValue](lit)
	}
	if lambda := p.parseLambda(); lambda.Outcome != NoMatch {
		return exprValue(lambda)
	}
	if call := p.parseFuncCall(); call.Matched() {
		return match[ast.ExprValue](call.Node)
	}
	if call := p.parseConstructCall(); call.Matched() {
		return match[ast.ExprValue](call.Node)
	}
	return exprValue(p.parseVarAccess())
}

// CONSTRUCTCALL ::= TYPE ARGLIST
func (p *Parser) parseConstructCall() Parsed[*ast.ConstructCall] {
	start := p.mark()
	typ := p.parseType()
	if !typ.Matched() {
		return noMatch[*ast.ConstructCall]()
	}
	args := p.parseArgList()
	if !args.Matched() {
		p.backtrack(start)
		return noMatch[*ast.ConstructCall]()
	}
	return match(&ast.ConstructCall{Range: p.rangeFrom(start), Type: typ.Node, Args: args.Node})
}

// EXPRPOSTOP ::= ('.' (FUNCCALL | IDENTIFIER)) | ('[' [IDENTIFIER ':'] ASSIGN {',' [IDENTIFIER ':' ASSIGN} ']') | ARGLIST | '++' | '--'
func (p *Parser) parseExprPostOp() ast.PostOp {
	start := p.mark()
	switch {
	case p.at("."):
		p.confirm(token.HighlightOperator)
		node := &ast.MemberPostOp{}
		if call := p.parseFuncCall(); call.Matched() {
			node.Member = ast.MemberCall{Call: call.Node}
		} else if ident := p.expectIdentifier(token.HighlightVariable); ident != nil {
			node.Member = ast.MemberField{Ident: ident}
		}
		node.Range = p.rangeFrom(start)
		return node

	case p.at("["):
		p.confirm(token.HighlightOperator)
		node := &ast.IndexPostOp{}
		for {
			name := p.parseNamedPrefix()
			if value := p.expectAssign(); value != nil {
				node.Indexers = append(node.Indexers, &ast.Indexer{Name: name, Value: value})
			}
			if p.continueOrClose(true, ",", "]") {
				break
			}
		}
		node.Range = p.rangeFrom(start)
		return node

	case p.at("("):
		args := p.parseArgList()
		return &ast.CallPostOp{Range: p.rangeFrom(start), Args: args.Node}

	case p.at("++"), p.at("--"):
		op := p.confirm(token.HighlightOperator)
		return &ast.IncDecPostOp{Range: p.rangeFrom(start), Op: op}
	}
	return nil
}

// [IDENTIFIER ':']
func (p *Parser) parseNamedPrefix() *token.Token {
	if !p.peek().IsIdentifier() || !p.peekN(1).Is(":") {
		return nil
	}
	name := p.confirm(token.HighlightParameter)
	p.confirm(token.HighlightOperator)
	return name
}

// CAST ::= 'cast' '<' TYPE '>' '(' ASSIGN ')'
func (p *Parser) parseCast() Parsed[*ast.Cast] {
	if !p.at("cast") {
		return noMatch[*ast.Cast]()
	}
	start := p.mark()
	p.confirm(token.HighlightKeyword)

	if !p.expect("<", token.HighlightOperator) {
		return invalid[*ast.Cast]()
	}
	node := &ast.Cast{Type: p.expectType()}
	if node.Type == nil {
		return invalid[*ast.Cast]()
	}
	if !p.expect(">", token.HighlightOperator) || !p.expect("(", token.HighlightOperator) {
		return invalid[*ast.Cast]()
	}
	node.Value = p.expectAssign()
	if node.Value == nil {
		return invalid[*ast.Cast]()
	}
	p.expect(")", token.HighlightOperator)
	node.Range = p.rangeFrom(start)
	return match(node)
}

// LAMBDA ::= 'function' '(' [[TYPE TYPEMOD] [IDENTIFIER] {',' [TYPE TYPEMOD] [IDENTIFIER]}] ')' STATBLOCK
func (p *Parser) parseLambda() Parsed[*ast.Lambda] {
	if !p.isLambdaAhead() {
		return noMatch[*ast.Lambda]()
	}
	start := p.mark()
	p.confirm(token.HighlightKeyword)
	p.confirm(token.HighlightOperator)

	node := &ast.Lambda{}
	for {
		if p.continueOrClose(len(node.Params) > 0, ",", ")") {
			break
		}
		if p.peek().IsIdentifier() && (p.peekN(1).Is(",") || p.peekN(1).Is(")")) {
			node.Params = append(node.Params, &ast.LambdaParam{Ident: p.confirm(token.HighlightParameter)})
			continue
		}
		param := &ast.LambdaParam{}
		if typ := p.parseType(); typ.Matched() {
			param.Type = typ.Node
			param.Mod = p.parseTypeMod()
		}
		param.Ident = p.parseIdentifier(token.HighlightParameter)
		if param.Type == nil && param.Ident == nil {
			p.errorf("expected parameter")
			break
		}
		node.Params = append(node.Params, param)
	}

	node.Body = p.expectStatBlock()
	if node.Body == nil {
		return invalid[*ast.Lambda]()
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

// isLambdaAhead looks for "function ( ... ) {" without consuming anything.
func (p *Parser) isLambdaAhead() bool {
	if !p.at("function") || !p.peekN(1).Is("(") {
		return false
	}
	for i := 2; p.pos+i < len(p.tokens); i++ {
		if p.peekN(i).Is(")") {
			return p.peekN(i + 1).Is("{")
		}
	}
	return false
}

// LITERAL ::= NUMBER | STRING | BITS | 'true' | 'false' | 'null'
func (p *Parser) parseLiteral() *ast.Literal {
	next := p.peek()
	switch {
	case next.Kind == token.Number:
		p.confirm(token.HighlightNumber)
	case next.Kind == token.String:
		p.confirm(token.HighlightString)
	case p.at("true"), p.at("false"), p.at("null"):
		p.confirm(token.HighlightBuiltin)
	default:
		return nil
	}
	return &ast.Literal{Range: ast.Range{Start: next, End: next}, Value: next}
}

// FUNCCALL ::= SCOPE IDENTIFIER ARGLIST
func (p *Parser) parseFuncCall() Parsed[*ast.FuncCall] {
	start := p.mark()
	scope := p.parseScope()
	ident := p.parseIdentifier(token.HighlightFunction)
	if ident == nil {
		p.backtrack(start)
		return noMatch[*ast.FuncCall]()
	}
	args := p.parseArgList()
	if !args.Matched() {
		p.backtrack(start)
		return noMatch[*ast.FuncCall]()
	}
	return match(&ast.FuncCall{Range: p.rangeFrom(start), Scope: scope, Ident: ident, Args: args.Node})
}

// VARACCESS ::= SCOPE IDENTIFIER
func (p *Parser) parseVarAccess() Parsed[*ast.VarAccess] {
	start := p.mark()
	node := &ast.VarAccess{Scope: p.parseScope()}
	if !p.peek().IsIdentifier() {
		if node.Scope == nil {
			return noMatch[*ast.VarAccess]()
		}
		p.errorf("expected identifier")
		node.Range = p.rangeFrom(start)
		return match(node)
	}
	tag := token.HighlightVariable
	if node.Scope == nil && p.peek().Text == "this" {
		tag = token.HighlightBuiltin
	}
	node.Ident = p.confirm(tag)
	node.Range = p.rangeFrom(start)
	return match(node)
}

// ARGLIST ::= '(' [IDENTIFIER ':'] ASSIGN {',' [IDENTIFIER ':'] ASSIGN} ')'
func (p *Parser) parseArgList() Parsed[*ast.ArgList] {
	if !p.at("(") {
		return noMatch[*ast.ArgList]()
	}
	start := p.mark()
	p.confirm(token.HighlightOperator)

	node := &ast.ArgList{}
	for {
		if p.continueOrClose(len(node.Args) > 0, ",", ")") {
			break
		}
		name := p.parseNamedPrefix()
		value := p.expectAssign()
		if value == nil {
			break
		}
		node.Args = append(node.Args, &ast.Argument{Name: name, Value: value})
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

// INITLIST ::= '{' [ASSIGN | INITLIST] {',' [ASSIGN | INITLIST]} '}'
func (p *Parser) parseInitList() Parsed[*ast.InitList] {
	if !p.at("{") {
		return noMatch[*ast.InitList]()
	}
	start := p.mark()
	p.confirm(token.HighlightOperator)

	node := &ast.InitList{}
	for {
		if p.continueOrClose(len(node.Items) > 0, ",", "}") {
			break
		}
		assign := p.parseAssign()
		if assign.Matched() {
			node.Items = append(node.Items, assign.Node)
			continue
		}
		if assign.Outcome == Invalid {
			continue
		}
		if nested := p.parseInitList(); nested.Matched() {
			node.Items = append(node.Items, nested.Node)
			continue
		}
		p.errorf("expected assignment or initializer list")
		p.step()
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

// ASSIGN ::= CONDITION [ASSIGNOP ASSIGN]
func (p *Parser) parseAssign() Parsed[*ast.Assign] {
	start := p.mark()
	cond := p.parseCondition()
	if !cond.Matched() {
		return Parsed[*ast.Assign]{Outcome: cond.Outcome}
	}

	node := &ast.Assign{Cond: cond.Node}
	if op := p.parseAssignOp(); op != nil {
		if rhs := p.expectAssign(); rhs != nil {
			node.Tail = &ast.AssignTail{Op: op, Assign: rhs}
		}
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

func (p *Parser) expectAssign() *ast.Assign {
	assign := p.parseAssign()
	if assign.Outcome == NoMatch {
		p.errorf("expected expression")
	}
	return assign.Node
}

// CONDITION ::= EXPR ['?' ASSIGN ':' ASSIGN]
func (p *Parser) parseCondition() Parsed[*ast.Condition] {
	start := p.mark()
	expr := p.parseExpr()
	if !expr.Matched() {
		return Parsed[*ast.Condition]{Outcome: expr.Outcome}
	}

	node := &ast.Condition{Expr: expr.Node}
	if p.closeWith("?") {
		node.Ternary = p.parseTernary()
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

func (p *Parser) parseTernary() *ast.Ternary {
	whenTrue := p.expectAssign()
	if whenTrue == nil {
		return nil
	}
	p.expect(":", token.HighlightOperator)
	whenFalse := p.expectAssign()
	if whenFalse == nil {
		return nil
	}
	return &ast.Ternary{True: whenTrue, False: whenFalse}
}

// EXPROP ::= MATHOP | COMPOP | LOGICOP | BITOP
func (p *Parser) parseExprOp() *token.Token {
	return p.parseOperator(func(prop *token.Property) bool { return prop.ExprOp })
}

// ASSIGNOP ::= '=' | '+=' | '-=' | '*=' | '/=' | '|=' | '&=' | '^=' | '%=' | '**=' | '<<=' | '>>=' | '>>>='
func (p *Parser) parseAssignOp() *token.Token {
	return p.parseOperator(func(prop *token.Property) bool { return prop.AssignOp })
}
