package parser

import (
	"github.com/dhamidi/asls/angelscript/ast"
	"github.com/dhamidi/asls/angelscript/token"
)

func decl[T ast.Decl](r Parsed[T]) Parsed[ast.Decl] {
	if !r.Matched() {
		return Parsed[ast.Decl]{Outcome: r.Outcome}
	}
	return match[ast.Decl](r.Node)
}

func classMember[T ast.ClassMember](r Parsed[T]) Parsed[ast.ClassMember] {
	if !r.Matched() {
		return Parsed[ast.ClassMember]{Outcome: r.Outcome}
	}
	return match[ast.ClassMember](r.Node)
}

// SCRIPT ::= {IMPORT | ENUM | TYPEDEF | CLASS | MIXIN | INTERFACE | FUNCDEF | VIRTPROP | VAR | FUNC | NAMESPACE | ';'}
//
// parseScript stops at the first token that starts no declaration.
func (p *Parser) parseScript() []ast.Decl {
	var items []ast.Decl
	for !p.isEnd() {
		if p.closeWith(";") {
			continue
		}
		r := p.parseDecl()
		if r.Outcome == NoMatch {
			break
		}
		if r.Matched() {
			items = append(items, r.Node)
		}
	}
	return items
}

func (p *Parser) parseDecl() Parsed[ast.Decl] {
	alternatives := []func() Parsed[ast.Decl]{
		func() Parsed[ast.Decl] { return decl(p.parseImport()) },
		func() Parsed[ast.Decl] { return decl(p.parseTypeDef()) },
		func() Parsed[ast.Decl] { return decl(p.parseMixin()) },
		func() Parsed[ast.Decl] { return decl(p.parseNamespace()) },
		func() Parsed[ast.Decl] { return decl(p.parseClass()) },
		func() Parsed[ast.Decl] { return decl(p.parseInterface()) },
		func() Parsed[ast.Decl] { return decl(p.parseEnum()) },
		func() Parsed[ast.Decl] { return decl(p.parseFuncDef()) },
		func() Parsed[ast.Decl] { return decl(p.parseFunc()) },
		func() Parsed[ast.Decl] { return decl(p.parseVirtualProp()) },
		func() Parsed[ast.Decl] { return decl(p.parseVar()) },
	}
	for _, alt := range alternatives {
		if r := alt(); r.Outcome != NoMatch {
			return r
		}
	}
	return noMatch[ast.Decl]()
}

// NAMESPACE ::= 'namespace' IDENTIFIER {'::' IDENTIFIER} '{' SCRIPT '}'
func (p *Parser) parseNamespace() Parsed[*ast.Namespace] {
	if !p.at("namespace") {
		return noMatch[*ast.Namespace]()
	}
	start := p.mark()
	p.confirm(token.HighlightKeyword)

	node := &ast.Namespace{}
	for {
		ident := p.expectIdentifier(token.HighlightNamespace)
		if ident == nil {
			return invalid[*ast.Namespace]()
		}
		node.Path = append(node.Path, ident)
		if !p.closeWith("::") {
			break
		}
	}
	if !p.expect("{", token.HighlightOperator) {
		return invalid[*ast.Namespace]()
	}

	node.Items = p.parseScript()
	p.expect("}", token.HighlightOperator)
	node.Range = p.rangeFrom(start)
	return match(node)
}

// {'shared' | 'abstract' | 'final' | 'external'}
func (p *Parser) parseEntityAttribute() *ast.EntityAttribute {
	return memoized(p, memoEntityAttribute, func() Parsed[*ast.EntityAttribute] {
		var attr *ast.EntityAttribute
		for p.peek().IsIdentifier() && isEntityWord(p.peek().Text) {
			if attr == nil {
				attr = &ast.EntityAttribute{}
			}
			attr.Set(p.confirm(token.HighlightKeyword).Text)
		}
		if attr == nil {
			return noMatch[*ast.EntityAttribute]()
		}
		return match(attr)
	}).Node
}

func isEntityWord(word string) bool {
	switch word {
	case "shared", "external", "abstract", "final":
		return true
	}
	return false
}

// ENUM ::= {'shared' | 'external'} 'enum' IDENTIFIER (';' | ('{' IDENTIFIER ['=' EXPR] {',' IDENTIFIER ['=' EXPR]} '}'))
func (p *Parser) parseEnum() Parsed[*ast.Enum] {
	start := p.mark()
	entity := p.parseEntityAttribute()
	if !p.at("enum") {
		p.backtrack(start)
		return noMatch[*ast.Enum]()
	}
	p.confirm(token.HighlightKeyword)

	ident := p.expectIdentifier(token.HighlightEnum)
	if ident == nil {
		return invalid[*ast.Enum]()
	}

	node := &ast.Enum{Entity: entity, Ident: ident}
	body := p.mark()
	if !p.closeWith(";") {
		node.Members = p.parseEnumMembers()
	}
	node.Body = p.rangeFrom(body)
	node.Range = p.rangeFrom(start)
	return match(node)
}

func (p *Parser) parseEnumMembers() []*ast.EnumMember {
	if !p.expect("{", token.HighlightOperator) {
		return nil
	}
	var members []*ast.EnumMember
	for {
		if p.continueOrClose(len(members) > 0, ",", "}") {
			break
		}
		ident := p.expectIdentifier(token.HighlightEnumMember)
		if ident == nil {
			break
		}
		member := &ast.EnumMember{Name: ident}
		if p.closeWith("=") {
			member.Value = p.expectExpr()
		}
		members = append(members, member)
	}
	return members
}

// CLASS ::= {'shared' | 'abstract' | 'final' | 'external'} 'class' IDENTIFIER (';' | ([':' IDENTIFIER {',' IDENTIFIER}] '{' {VIRTPROP | FUNC | VAR | FUNCDEF} '}'))
func (p *Parser) parseClass() Parsed[*ast.Class] {
	start := p.mark()
	entity := p.parseEntityAttribute()
	if !p.at("class") {
		p.backtrack(start)
		return noMatch[*ast.Class]()
	}
	p.confirm(token.HighlightKeyword)

	ident := p.expectIdentifier(token.HighlightClass)
	if ident == nil {
		return invalid[*ast.Class]()
	}

	node := &ast.Class{Entity: entity, Ident: ident}
	if params := p.parseTypeParameters(); params.Matched() {
		node.TypeParams = params.Node
	}
	node.Bases = p.parseBaseList()

	body := p.mark()
	if !p.closeWith(";") {
		node.Members = p.parseClassMembers()
	}
	node.Body = p.rangeFrom(body)
	node.Range = p.rangeFrom(start)
	return match(node)
}

// [':' IDENTIFIER {',' IDENTIFIER}]
func (p *Parser) parseBaseList() []*token.Token {
	if !p.closeWith(":") {
		return nil
	}
	var bases []*token.Token
	for {
		progress := p.mustProgress()
		ident := p.expectIdentifier(token.HighlightType)
		if ident == nil {
			break
		}
		bases = append(bases, ident)
		if !p.closeWith(",") {
			break
		}
		if !progress() {
			break
		}
	}
	return bases
}

// '{' {VIRTPROP | FUNC | VAR | FUNCDEF} '}'
func (p *Parser) parseClassMembers() []ast.ClassMember {
	if !p.expect("{", token.HighlightOperator) {
		return nil
	}
	alternatives := []func() Parsed[ast.ClassMember]{
		func() Parsed[ast.ClassMember] { return classMember(p.parseFuncDef()) },
		func() Parsed[ast.ClassMember] { return classMember(p.parseFunc()) },
		func() Parsed[ast.ClassMember] { return classMember(p.parseVirtualProp()) },
		func() Parsed[ast.ClassMember] { return classMember(p.parseVar()) },
	}

	var members []ast.ClassMember
next:
	for {
		if p.continueOrClose(false, "", "}") {
			break
		}
		for _, alt := range alternatives {
			r := alt()
			if r.Matched() {
				members = append(members, r.Node)
			}
			if r.Outcome != NoMatch {
				continue next
			}
		}
		p.errorf("expected class member")
		p.step()
	}
	return members
}

// TYPEDEF ::= 'typedef' PRIMTYPE IDENTIFIER ';'
func (p *Parser) parseTypeDef() Parsed[*ast.TypeDef] {
	if !p.at("typedef") {
		return noMatch[*ast.TypeDef]()
	}
	start := p.mark()
	p.confirm(token.HighlightKeyword)

	prim := p.parsePrimType()
	if prim == nil {
		p.errorf("expected primitive type")
		return invalid[*ast.TypeDef]()
	}
	ident := p.expectIdentifier(token.HighlightType)
	if ident == nil {
		return invalid[*ast.TypeDef]()
	}
	p.expect(";", token.HighlightOperator)
	return match(&ast.TypeDef{Range: p.rangeFrom(start), Primitive: prim, Ident: ident})
}

// FUNC ::= {'shared' | 'external'} ['private' | 'protected'] [((TYPE ['&']) | '~')] IDENTIFIER PARAMLIST ['const'] FUNCATTR (';' | STATBLOCK)
func (p *Parser) parseFunc() Parsed[*ast.Func] {
	start := p.mark()
	node := &ast.Func{
		Entity: p.parseEntityAttribute(),
		Access: p.parseAccessModifier(),
	}

	identTag := token.HighlightType
	switch {
	case p.at("~"):
		p.confirm(token.HighlightOperator)
		node.Head = ast.DestructorHead{}
	case p.peek().IsIdentifier() && p.peekN(1).Is("("):
		node.Head = ast.ConstructorHead{}
	default:
		returnType := p.parseType()
		if !returnType.Matched() {
			p.backtrack(start)
			return noMatch[*ast.Func]()
		}
		node.Head = ast.ReturnHead{ReturnType: returnType.Node, Ref: p.parseRef()}
		identTag = token.HighlightFunction
	}

	node.Ident = p.parseIdentifier(identTag)
	if node.Ident == nil {
		p.backtrack(start)
		return noMatch[*ast.Func]()
	}

	params := p.parseParamList()
	if !params.Matched() {
		p.backtrack(start)
		return noMatch[*ast.Func]()
	}
	node.Params = params.Node
	node.Const = p.parseConst()
	node.Attr = p.parseFuncAttr()

	if !p.closeWith(";") {
		node.Body = p.expectStatBlock()
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

func (p *Parser) parseConst() bool {
	if !p.at("const") {
		return false
	}
	p.confirm(token.HighlightKeyword)
	return true
}

func (p *Parser) parseRef() bool {
	if !p.at("&") {
		return false
	}
	p.confirm(token.HighlightOperator)
	return true
}

// ['private' | 'protected']
func (p *Parser) parseAccessModifier() *ast.AccessModifier {
	var access ast.AccessModifier
	switch {
	case p.at("private"):
		access = ast.Private
	case p.at("protected"):
		access = ast.Protected
	default:
		return nil
	}
	p.confirm(token.HighlightKeyword)
	return &access
}

// INTERFACE ::= {'external' | 'shared'} 'interface' IDENTIFIER (';' | ([':' IDENTIFIER {',' IDENTIFIER}] '{' {VIRTPROP | INTFMTHD} '}'))
func (p *Parser) parseInterface() Parsed[*ast.Interface] {
	start := p.mark()
	entity := p.parseEntityAttribute()
	if !p.at("interface") {
		p.backtrack(start)
		return noMatch[*ast.Interface]()
	}
	p.confirm(token.HighlightKeyword)

	ident := p.expectIdentifier(token.HighlightInterface)
	if ident == nil {
		return invalid[*ast.Interface]()
	}

	node := &ast.Interface{Entity: entity, Ident: ident}
	if !p.closeWith(";") {
		node.Bases = p.parseBaseList()
		node.Members = p.parseInterfaceMembers()
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

// '{' {VIRTPROP | INTFMTHD} '}'
func (p *Parser) parseInterfaceMembers() []ast.InterfaceMember {
	if !p.expect("{", token.HighlightOperator) {
		return nil
	}
	var members []ast.InterfaceMember
	for {
		if p.continueOrClose(false, "", "}") {
			break
		}
		if r := p.parseIntfMethod(); r.Matched() {
			members = append(members, r.Node)
			continue
		}
		if r := p.parseVirtualProp(); r.Matched() {
			members = append(members, r.Node)
			continue
		}
		p.errorf("expected interface member")
		p.step()
	}
	return members
}

// VAR ::= ['private' | 'protected'] TYPE IDENTIFIER [( '=' (INITLIST | EXPR)) | ARGLIST] {',' IDENTIFIER [( '=' (INITLIST | EXPR)) | ARGLIST]} ';'
func (p *Parser) parseVar() Parsed[*ast.Var] {
	start := p.mark()
	access := p.parseAccessModifier()

	typ := p.parseType()
	if !typ.Matched() || !p.peek().IsIdentifier() {
		p.backtrack(start)
		return noMatch[*ast.Var]()
	}

	node := &ast.Var{Access: access, Type: typ.Node}
	for {
		ident := p.expectIdentifier(token.HighlightVariable)
		if ident == nil {
			break
		}
		v := &ast.VarInit{Ident: ident}
		if p.closeWith("=") {
			v.Init = p.expectInitListOrExpr()
		} else if args := p.parseArgList(); args.Matched() {
			v.Init = args.Node
		}
		node.Vars = append(node.Vars, v)

		if p.continueOrClose(true, ",", ";") {
			break
		}
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

func (p *Parser) expectInitListOrExpr() ast.VarInitializer {
	if list := p.parseInitList(); list.Matched() {
		return list.Node
	}
	r := p.parseExpr()
	if r.Matched() {
		return r.Node
	}
	if r.Outcome == NoMatch {
		p.errorf("expected initializer list or expression")
	}
	return nil
}

// IMPORT ::= 'import' TYPE ['&'] IDENTIFIER PARAMLIST FUNCATTR 'from' STRING ';'
func (p *Parser) parseImport() Parsed[*ast.Import] {
	if !p.at("import") {
		return noMatch[*ast.Import]()
	}
	start := p.mark()
	p.confirm(token.HighlightKeyword)

	node := &ast.Import{ReturnType: p.expectType()}
	if node.ReturnType == nil {
		return invalid[*ast.Import]()
	}
	node.Ref = p.parseRef()
	node.Ident = p.expectIdentifier(token.HighlightFunction)
	if node.Ident == nil {
		return invalid[*ast.Import]()
	}
	params := p.expectParamList()
	if !params.Matched() {
		return invalid[*ast.Import]()
	}
	node.Params = params.Node
	node.Attr = p.parseFuncAttr()

	if !p.at("from") {
		p.errorf("expected 'from'")
		return invalid[*ast.Import]()
	}
	p.confirm(token.HighlightKeyword)
	if p.peek().Kind != token.String {
		p.errorf("expected module name string")
		return invalid[*ast.Import]()
	}
	node.From = p.confirm(token.HighlightString)
	p.expect(";", token.HighlightOperator)
	node.Range = p.rangeFrom(start)
	return match(node)
}

// FUNCDEF ::= {'external' | 'shared'} 'funcdef' TYPE ['&'] IDENTIFIER PARAMLIST ';'
func (p *Parser) parseFuncDef() Parsed[*ast.FuncDef] {
	start := p.mark()
	entity := p.parseEntityAttribute()
	if !p.at("funcdef") {
		p.backtrack(start)
		return noMatch[*ast.FuncDef]()
	}
	p.confirm(token.HighlightKeyword)

	node := &ast.FuncDef{Entity: entity, ReturnType: p.expectType()}
	if node.ReturnType == nil {
		return invalid[*ast.FuncDef]()
	}
	node.Ref = p.parseRef()
	node.Ident = p.expectIdentifier(token.HighlightType)
	if node.Ident == nil {
		return invalid[*ast.FuncDef]()
	}
	params := p.expectParamList()
	if !params.Matched() {
		return invalid[*ast.FuncDef]()
	}
	node.Params = params.Node
	p.expect(";", token.HighlightOperator)
	node.Range = p.rangeFrom(start)
	return match(node)
}

// VIRTPROP ::= ['private' | 'protected'] TYPE ['&'] IDENTIFIER '{' {('get' | 'set') ['const'] FUNCATTR (STATBLOCK | ';')} '}'
func (p *Parser) parseVirtualProp() Parsed[*ast.VirtualProp] {
	start := p.mark()
	access := p.parseAccessModifier()

	typ := p.parseType()
	if !typ.Matched() {
		p.backtrack(start)
		return noMatch[*ast.VirtualProp]()
	}
	node := &ast.VirtualProp{Access: access, Type: typ.Node, Ref: p.parseRef()}

	node.Ident = p.parseIdentifier(token.HighlightVariable)
	if node.Ident == nil || !p.at("{") {
		p.backtrack(start)
		return noMatch[*ast.VirtualProp]()
	}
	p.confirm(token.HighlightOperator)

	for {
		if p.continueOrClose(false, "", "}") {
			break
		}
		switch {
		case p.at("get"):
			node.Getter = p.parseAccessor()
		case p.at("set"):
			node.Setter = p.parseAccessor()
		default:
			p.errorf("expected getter or setter")
			p.step()
		}
	}
	node.Range = p.rangeFrom(start)
	return match(node)
}

// ('get' | 'set') ['const'] FUNCATTR (STATBLOCK | ';')
func (p *Parser) parseAccessor() *ast.Accessor {
	start := p.mark()
	p.confirm(token.HighlightKeyword)
	node := &ast.Accessor{Const: p.parseConst(), Attr: p.parseFuncAttr()}
	if !p.closeWith(";") {
		node.Body = p.expectStatBlock()
	}
	node.Range = p.rangeFrom(start)
	return node
}

// MIXIN ::= 'mixin' CLASS
func (p *Parser) parseMixin() Parsed[*ast.Mixin] {
	if !p.at("mixin") {
		return noMatch[*ast.Mixin]()
	}
	start := p.mark()
	p.confirm(token.HighlightKeyword)

	class := p.parseClass()
	switch class.Outcome {
	case Invalid:
		return invalid[*ast.Mixin]()
	case NoMatch:
		p.errorf("expected class definition")
		return invalid[*ast.Mixin]()
	}
	return match(&ast.Mixin{Range: p.rangeFrom(start), Class: class.Node})
}

// INTFMTHD ::= TYPE ['&'] IDENTIFIER PARAMLIST ['const'] ';'
func (p *Parser) parseIntfMethod() Parsed[*ast.IntfMethod] {
	start := p.mark()
	returnType := p.parseType()
	if !returnType.Matched() {
		return noMatch[*ast.IntfMethod]()
	}
	node := &ast.IntfMethod{ReturnType: returnType.Node, Ref: p.parseRef()}

	node.Ident = p.parseIdentifier(token.HighlightFunction)
	if node.Ident == nil {
		p.backtrack(start)
		return noMatch[*ast.IntfMethod]()
	}
	params := p.parseParamList()
	if !params.Matched() {
		p.backtrack(start)
		return noMatch[*ast.IntfMethod]()
	}
	node.Params = params.Node
	node.Const = p.parseConst()
	p.expect(";", token.HighlightOperator)
	node.Range = p.rangeFrom(start)
	return match(node)
}

// PARAMLIST ::= '(' ['void' | (TYPE TYPEMOD [IDENTIFIER] ['=' EXPR] {',' TYPE TYPEMOD [IDENTIFIER] ['=' EXPR]})] ')'
//
// A list whose first element is not a type is not a parameter list, which is
// what separates "Foo f(1);" from a function declaration.
func (p *Parser) parseParamList() Parsed[[]*ast.Param] {
	if !p.at("(") {
		return noMatch[[]*ast.Param]()
	}
	start := p.mark()
	p.confirm(token.HighlightOperator)

	params := []*ast.Param{}
	if p.at("void") && p.peekN(1).Is(")") {
		p.confirm(token.HighlightBuiltin)
		p.confirm(token.HighlightOperator)
		return match(params)
	}

	for {
		if p.continueOrClose(len(params) > 0, ",", ")") {
			break
		}
		typ := p.parseType()
		if !typ.Matched() {
			if len(params) == 0 {
				p.backtrack(start)
				return noMatch[[]*ast.Param]()
			}
			p.errorf("expected type")
			break
		}
		param := &ast.Param{Type: typ.Node, Mod: p.parseTypeMod()}
		param.Ident = p.parseIdentifier(token.HighlightParameter)
		if p.closeWith("=") {
			param.Default = p.expectExpr()
		}
		params = append(params, param)
	}
	return match(params)
}

func (p *Parser) expectParamList() Parsed[[]*ast.Param] {
	params := p.parseParamList()
	if params.Outcome == NoMatch {
		p.errorf("expected parameter list")
	}
	return params
}

// TYPEMOD ::= ['&' ['in' | 'out' | 'inout']]
func (p *Parser) parseTypeMod() *ast.TypeModifier {
	if !p.at("&") {
		return nil
	}
	p.confirm(token.HighlightOperator)
	mod := ast.InOut
	switch {
	case p.at("in"):
		mod = ast.In
	case p.at("out"):
		mod = ast.Out
	case p.at("inout"):
	default:
		return &mod
	}
	p.confirm(token.HighlightKeyword)
	return &mod
}

// FUNCATTR ::= {'override' | 'final' | 'explicit' | 'property'}
func (p *Parser) parseFuncAttr() *ast.FunctionAttribute {
	var attr *ast.FunctionAttribute
	for isFuncAttrWord(p.peek().Text) && p.peek().Kind != token.String {
		if attr == nil {
			attr = &ast.FunctionAttribute{}
		}
		attr.Set(p.confirm(token.HighlightKeyword).Text)
	}
	return attr
}

func isFuncAttrWord(word string) bool {
	switch word {
	case "override", "final", "explicit", "property":
		return true
	}
	return false
}
