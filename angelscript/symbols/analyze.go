package symbols

import (
	"fmt"

	"github.com/dhamidi/asls/angelscript/ast"
	"github.com/dhamidi/asls/angelscript/diag"
	"github.com/dhamidi/asls/angelscript/token"
)

// Analysis is the scope tree of one script.
type Analysis struct {
	Global      *Scope
	Diagnostics []diag.Diagnostic
}

type Option func(*analyzer)

// WithGlobal makes parent the enclosing scope of the script's global scope,
// typically the global scope of a predefined file. The parent is only read.
func WithGlobal(parent *Scope) Option {
	return func(a *analyzer) {
		a.parent = parent
	}
}

// WithServices turns recording of references and completion hints on or off.
// It is on by default.
func WithServices(enabled bool) Option {
	return func(a *analyzer) {
		a.services = enabled
	}
}

type analyzer struct {
	parent      *Scope
	services    bool
	global      *Scope
	diagnostics []diag.Diagnostic
	types       map[ast.TypeDecl]*TypeSymbol
	// pending holds body bindings, run once every declaration is known.
	pending []func()
}

// Analyze builds the scope tree of script in three passes: types are hoisted
// first, then functions and variables are declared with resolved types, and
// finally bodies and initializers are bound.
func Analyze(script *ast.Script, opts ...Option) *Analysis {
	a := &analyzer{
		services: true,
		types:    make(map[ast.TypeDecl]*TypeSymbol),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.global = NewScope(nil, nil, "")
	a.global.Parent = a.parent

	if script != nil {
		a.hoist(a.global, script.Items)
		a.declare(a.global, script.Items)
	}
	for i := 0; i < len(a.pending); i++ {
		a.pending[i]()
	}
	return &Analysis{Global: a.global, Diagnostics: a.diagnostics}
}

func (a *analyzer) later(fn func()) {
	a.pending = append(a.pending, fn)
}

func (a *analyzer) errorf(tok *token.Token, format string, args ...any) {
	a.diagnostics = append(a.diagnostics, diag.At(tok, format, args...))
}

func (a *analyzer) undefined(tok *token.Token) {
	a.errorf(tok, "'%s' is not defined", tok.Text)
}

func (a *analyzer) reference(scope *Scope, sym Symbol, tok *token.Token) {
	if a.services {
		scope.addReference(Reference{Symbol: sym, Token: tok})
	}
}

func (a *analyzer) insert(scope *Scope, sym Symbol) {
	if !scope.Insert(sym) {
		a.errorf(sym.Place(), "'%s' is already declared", sym.Place().Text)
	}
	if a.services && sym.Place().Location.Start.Line > 0 {
		scope.addReference(Reference{Symbol: sym, Token: sym.Place(), Declaration: true})
	}
}

// open returns the anonymous scope owned by owner inside scope.
func (a *analyzer) open(scope *Scope, owner ast.ScopeOwner) *Scope {
	start := owner.NodeRange().Start.Location.Start
	return scope.ChildOrNew(owner, fmt.Sprintf("~%d:%d", start.Line, start.Column))
}

func (a *analyzer) hoist(scope *Scope, items []ast.Decl) {
	for _, item := range items {
		switch n := item.(type) {
		case *ast.Namespace:
			ns := scope
			for _, name := range n.Path {
				ns = ns.ChildOrNew(n, name.Text)
			}
			a.hoist(ns, n.Items)
		case *ast.Enum:
			a.hoistType(scope, n, nil)
		case *ast.Class:
			a.hoistType(scope, n, n.TypeParams)
		case *ast.Mixin:
			if n.Class != nil {
				a.hoistType(scope, n.Class, n.Class.TypeParams)
			}
		case *ast.Interface:
			a.hoistType(scope, n, nil)
		case *ast.TypeDef:
			var source DefinitionSource = PrimitiveAny
			if base := LookupBuiltin(n.Primitive); base != nil {
				source = base.Source
			}
			a.insert(scope, &TypeSymbol{place: n.Ident, scope: scope, Source: source})
		}
	}
}

func (a *analyzer) hoistType(scope *Scope, decl ast.TypeDecl, typeParams []*ast.Type) {
	ident := decl.Name()
	owner, _ := decl.(ast.ScopeOwner)
	sym := &TypeSymbol{place: ident, scope: scope, Source: DeclSource{Decl: decl}}
	sym.Members = scope.ChildOrNew(owner, ident.Text)
	if sym.Members.Type == nil {
		sym.Members.Type = sym
	}
	for _, param := range typeParams {
		if param.DataType == nil {
			continue
		}
		name := param.DataType.Ident
		sym.TemplateParams = append(sym.TemplateParams, name)
		a.insert(sym.Members, &TypeSymbol{place: name, scope: sym.Members, Source: PrimitiveTemplate})
	}
	a.types[decl] = sym
	a.insert(scope, sym)
}

func (a *analyzer) declare(scope *Scope, items []ast.Decl) {
	for _, item := range items {
		switch n := item.(type) {
		case *ast.Namespace:
			ns := scope
			for _, name := range n.Path {
				ns = ns.Child(name.Text)
			}
			a.declare(ns, n.Items)
		case *ast.Enum:
			a.declareEnum(scope, n)
		case *ast.Class:
			a.declareClass(scope, n)
		case *ast.Mixin:
			if n.Class != nil {
				a.declareClass(scope, n.Class)
			}
		case *ast.Interface:
			a.declareInterface(scope, n)
		case *ast.Func:
			a.declareFunc(scope, n, nil)
		case *ast.FuncDef:
			a.declareSignature(scope, n, n.ReturnType, false)
		case *ast.Import:
			a.declareSignature(scope, n, n.ReturnType, false)
		case *ast.VirtualProp:
			a.declareVirtualProp(scope, n, nil)
		case *ast.Var:
			a.declareVar(scope, n, nil)
		}
	}
}

func (a *analyzer) declareEnum(scope *Scope, n *ast.Enum) {
	sym := a.types[n]
	if sym == nil {
		return
	}
	for _, m := range n.Members {
		member := &VariableSymbol{
			place: m.Name,
			scope: sym.Members,
			Type:  &ResolvedType{Symbol: sym, Scope: scope},
		}
		a.insert(sym.Members, member)
		if m.Value != nil {
			value := m.Value
			a.later(func() { a.bindExpr(sym.Members, value) })
		}
	}
}

func (a *analyzer) declareBases(scope *Scope, sym *TypeSymbol, bases []*token.Token) {
	for _, base := range bases {
		t, ok := a.lookupType(scope, base.Text, false).(*TypeSymbol)
		if !ok {
			a.undefined(base)
			continue
		}
		a.reference(scope, t, base)
		sym.Bases = append(sym.Bases, &ResolvedType{Symbol: t, Scope: scope})
	}
}

func (a *analyzer) declareClass(scope *Scope, n *ast.Class) {
	sym := a.types[n]
	if sym == nil {
		return
	}
	a.declareBases(scope, sym, n.Bases)
	for _, m := range n.Members {
		switch m := m.(type) {
		case *ast.Func:
			a.declareFunc(sym.Members, m, sym)
		case *ast.FuncDef:
			a.declareSignature(sym.Members, m, m.ReturnType, false)
		case *ast.VirtualProp:
			a.declareVirtualProp(sym.Members, m, sym)
		case *ast.Var:
			a.declareVar(sym.Members, m, sym)
		}
	}
}

func (a *analyzer) declareInterface(scope *Scope, n *ast.Interface) {
	sym := a.types[n]
	if sym == nil {
		return
	}
	a.declareBases(scope, sym, n.Bases)
	for _, m := range n.Members {
		switch m := m.(type) {
		case *ast.IntfMethod:
			a.declareSignature(sym.Members, m, m.ReturnType, true)
		case *ast.VirtualProp:
			a.declareVirtualProp(sym.Members, m, sym)
		}
	}
}

func (a *analyzer) declareSignature(scope *Scope, decl ast.FunctionDecl, returnType *ast.Type, member bool) *FunctionSymbol {
	fn := &FunctionSymbol{
		place:          decl.Name(),
		scope:          scope,
		Source:         decl,
		ReturnType:     a.resolveType(scope, returnType),
		InstanceMember: member,
	}
	for _, param := range decl.Parameters() {
		fn.ParamTypes = append(fn.ParamTypes, a.resolveType(scope, param.Type))
	}
	a.insert(scope, fn)
	return fn
}

func (a *analyzer) declareFunc(scope *Scope, n *ast.Func, owner *TypeSymbol) {
	fn := &FunctionSymbol{
		place:          n.Ident,
		scope:          scope,
		Source:         n,
		Access:         n.Access,
		InstanceMember: owner != nil,
	}
	if head, ok := n.Head.(ast.ReturnHead); ok {
		fn.ReturnType = a.resolveType(scope, head.ReturnType)
	}
	for _, param := range n.Params {
		fn.ParamTypes = append(fn.ParamTypes, a.resolveType(scope, param.Type))
	}
	// Destructors are never called by name.
	if _, ok := n.Head.(ast.DestructorHead); !ok {
		a.insert(scope, fn)
	}
	if n.Body != nil {
		a.later(func() { a.bindFunc(scope, n, fn, owner) })
	}
}

func (a *analyzer) declareVar(scope *Scope, n *ast.Var, owner *TypeSymbol) {
	typ := a.resolveType(scope, n.Type)
	for _, v := range n.Vars {
		sym := &VariableSymbol{
			place:          v.Ident,
			scope:          scope,
			Type:           typ,
			InstanceMember: owner != nil,
			Access:         n.Access,
		}
		a.insert(scope, sym)
		if v.Init != nil {
			init := v.Init
			a.later(func() {
				if t := a.bindInitializer(scope, init); t != nil && isAuto(sym.Type) {
					sym.Type = t
				}
			})
		}
	}
}

func (a *analyzer) declareVirtualProp(scope *Scope, n *ast.VirtualProp, owner *TypeSymbol) {
	typ := a.resolveType(scope, n.Type)
	a.insert(scope, &VariableSymbol{
		place:          n.Ident,
		scope:          scope,
		Type:           typ,
		InstanceMember: owner != nil,
		Access:         n.Access,
	})
	for _, accessor := range []*ast.Accessor{n.Getter, n.Setter} {
		if accessor == nil || accessor.Body == nil {
			continue
		}
		setter := accessor == n.Setter
		a.later(func() {
			inner := a.open(scope, accessor)
			a.declareThis(inner, scope, owner)
			if setter {
				a.insert(inner, &VariableSymbol{place: Builtins().Value, scope: inner, Type: typ})
			}
			a.bindItems(inner, accessor.Body.Items)
		})
	}
}

func (a *analyzer) declareThis(inner, members *Scope, owner *TypeSymbol) {
	if owner == nil {
		return
	}
	a.insert(inner, &VariableSymbol{
		place: Builtins().This,
		scope: inner,
		Type:  &ResolvedType{Symbol: owner, Scope: members, Handler: true},
	})
}

func (a *analyzer) bindFunc(scope *Scope, n *ast.Func, fn *FunctionSymbol, owner *TypeSymbol) {
	inner := a.open(scope, n)
	a.declareThis(inner, scope, owner)
	for i, param := range n.Params {
		if param.Default != nil {
			a.bindExpr(scope, param.Default)
		}
		if param.Ident != nil {
			a.insert(inner, &VariableSymbol{place: param.Ident, scope: inner, Type: fn.ParamTypes[i]})
		}
	}
	a.bindItems(inner, n.Body.Items)
}

func (a *analyzer) bindItems(scope *Scope, items []ast.BlockItem) {
	for _, item := range items {
		switch n := item.(type) {
		case *ast.Var:
			a.bindLocalVar(scope, n)
		case ast.Statement:
			a.bindStatement(scope, n)
		}
	}
}

// bindLocalVar binds initializers before declaring, so "int x = x;" does not
// see the new x.
func (a *analyzer) bindLocalVar(scope *Scope, n *ast.Var) {
	declared := a.resolveType(scope, n.Type)
	for _, v := range n.Vars {
		typ := declared
		if v.Init != nil {
			if t := a.bindInitializer(scope, v.Init); t != nil && isAuto(typ) {
				typ = t
			}
		}
		a.insert(scope, &VariableSymbol{place: v.Ident, scope: scope, Type: typ})
	}
}

func isAuto(t *ResolvedType) bool {
	ts := t.TypeSymbol()
	if ts == nil {
		return false
	}
	p, ok := ts.Primitive()
	return ok && p == PrimitiveAuto
}

func (a *analyzer) bindStatement(scope *Scope, stmt ast.Statement) {
	switch n := stmt.(type) {
	case *ast.StatBlock:
		a.bindItems(a.open(scope, n), n.Items)
	case *ast.If:
		inner := a.open(scope, n)
		a.bindAssign(inner, n.Cond)
		a.bindStatement(inner, n.Then)
		if n.Else != nil {
			a.bindStatement(inner, n.Else)
		}
	case *ast.For:
		inner := a.open(scope, n)
		switch init := n.Init.(type) {
		case *ast.Var:
			a.bindLocalVar(inner, init)
		case *ast.ExprStat:
			a.bindAssign(inner, init.Value)
		}
		if n.Cond != nil {
			a.bindAssign(inner, n.Cond.Value)
		}
		for _, incr := range n.Incr {
			a.bindAssign(inner, incr)
		}
		a.bindStatement(inner, n.Body)
	case *ast.While:
		a.bindAssign(scope, n.Cond)
		a.bindStatement(scope, n.Body)
	case *ast.DoWhile:
		a.bindStatement(scope, n.Body)
		a.bindAssign(scope, n.Cond)
	case *ast.Return:
		a.bindAssign(scope, n.Value)
	case *ast.Switch:
		a.bindAssign(scope, n.Value)
		for _, c := range n.Cases {
			if c.Value != nil {
				a.bindExpr(scope, c.Value)
			}
			for _, s := range c.Body {
				a.bindStatement(scope, s)
			}
		}
	case *ast.ExprStat:
		a.bindAssign(scope, n.Value)
	case *ast.Try:
		if n.Try != nil {
			a.bindStatement(scope, n.Try)
		}
		if n.Catch != nil {
			a.bindStatement(scope, n.Catch)
		}
	}
}

func (a *analyzer) bindInitializer(scope *Scope, init ast.VarInitializer) *ResolvedType {
	switch n := init.(type) {
	case *ast.Expr:
		return a.bindExpr(scope, n)
	case *ast.InitList:
		a.bindInitList(scope, n)
	case *ast.ArgList:
		a.bindArgs(scope, n)
	}
	return nil
}

func (a *analyzer) bindAssign(scope *Scope, n *ast.Assign) *ResolvedType {
	if n == nil || n.Cond == nil {
		return nil
	}
	t := a.bindExpr(scope, n.Cond.Expr)
	if n.Cond.Ternary != nil {
		t = a.bindAssign(scope, n.Cond.Ternary.True)
		a.bindAssign(scope, n.Cond.Ternary.False)
	}
	if n.Tail != nil {
		a.bindAssign(scope, n.Tail.Assign)
	}
	return t
}

// bindExpr returns the type of the head term. The chain is flat, so only
// comparison and logic operators change the result to bool.
func (a *analyzer) bindExpr(scope *Scope, n *ast.Expr) *ResolvedType {
	if n == nil {
		return nil
	}
	t := a.bindTerm(scope, n.Head)
	if n.Tail == nil {
		return t
	}
	rhs := a.bindExpr(scope, n.Tail.Expr)
	if n.Tail.Op.IsReserved(func(p *token.Property) bool { return p.CompOp || p.LogicOp }) {
		return resolved("bool")
	}
	if t == nil {
		return rhs
	}
	return t
}

func (a *analyzer) bindTerm(scope *Scope, term ast.ExprTerm) *ResolvedType {
	switch n := term.(type) {
	case *ast.InitListTerm:
		a.bindInitList(scope, n.InitList)
		if n.Type != nil {
			return a.resolveType(scope, n.Type)
		}
	case *ast.ValueTerm:
		t := a.bindValue(scope, n.Value)
		for _, op := range n.PostOps {
			t = a.bindPostOp(scope, t, op)
		}
		for _, op := range n.PreOps {
			switch op.Text {
			case "!":
				return resolved("bool")
			case "@":
				if t != nil {
					handle := *t
					handle.Handler = true
					t = &handle
				}
			}
		}
		return t
	}
	return nil
}

func (a *analyzer) bindValue(scope *Scope, value ast.ExprValue) *ResolvedType {
	switch n := value.(type) {
	case *ast.ConstructCall:
		t := a.resolveType(scope, n.Type)
		a.bindArgs(scope, n.Args)
		return t
	case *ast.FuncCall:
		return a.bindCall(scope, n)
	case *ast.VarAccess:
		return a.bindVarAccess(scope, n)
	case *ast.Cast:
		t := a.resolveType(scope, n.Type)
		a.bindAssign(scope, n.Value)
		return t
	case *ast.Literal:
		return literalType(n.Value)
	case *ast.Assign:
		return a.bindAssign(scope, n)
	case *ast.Lambda:
		a.bindLambda(scope, n)
	}
	return nil
}

func literalType(tok *token.Token) *ResolvedType {
	switch {
	case tok.Kind == token.Number:
		switch tok.Numeric {
		case token.Float:
			return resolved("float")
		case token.Double:
			return resolved("double")
		}
		return resolved("int")
	case tok.Kind == token.String:
		return resolved("string")
	case tok.Text == "true", tok.Text == "false":
		return resolved("bool")
	}
	return nil
}

func (a *analyzer) bindLambda(scope *Scope, n *ast.Lambda) {
	inner := a.open(scope, n)
	for _, param := range n.Params {
		var t *ResolvedType
		if param.Type != nil {
			t = a.resolveType(scope, param.Type)
		}
		if param.Ident != nil {
			a.insert(inner, &VariableSymbol{place: param.Ident, scope: inner, Type: t})
		}
	}
	if n.Body != nil {
		a.bindItems(inner, n.Body.Items)
	}
}

func (a *analyzer) bindArgs(scope *Scope, args *ast.ArgList) {
	if args == nil {
		return
	}
	for _, arg := range args.Args {
		a.bindAssign(scope, arg.Value)
	}
}

func (a *analyzer) bindInitList(scope *Scope, list *ast.InitList) {
	if list == nil {
		return
	}
	for _, item := range list.Items {
		switch n := item.(type) {
		case *ast.Assign:
			a.bindAssign(scope, n)
		case *ast.InitList:
			a.bindInitList(scope, n)
		}
	}
}

// lookupName resolves an identifier, optionally behind a qualifier. The bool
// result is false when the qualifier itself failed and was already reported.
func (a *analyzer) lookupName(scope *Scope, qualifier *ast.Scope, name string) (Symbol, bool) {
	if qualifier == nil {
		if sym, _ := scope.Resolve(name); sym != nil {
			return sym, true
		}
		if t := Builtins().Lookup(name); t != nil && t.place.Kind != token.Reserved {
			return t, true
		}
		return nil, true
	}
	target := a.resolveQualifier(scope, qualifier)
	if target == nil {
		return nil, false
	}
	if qualifier.Global && len(qualifier.Names) == 0 {
		sym, _ := target.Resolve(name)
		return sym, true
	}
	if sym := target.Lookup(name); sym != nil {
		return sym, true
	}
	sym, _ := LookupMember(target.Type, name)
	return sym, true
}

func (a *analyzer) bindVarAccess(scope *Scope, n *ast.VarAccess) *ResolvedType {
	if n.Ident == nil {
		if n.Scope != nil {
			a.resolveQualifier(scope, n.Scope)
		}
		return nil
	}
	sym, ok := a.lookupName(scope, n.Scope, n.Ident.Text)
	if !ok {
		return nil
	}
	if sym == nil {
		if n.Ident.Text != "super" {
			a.undefined(n.Ident)
		}
		return nil
	}
	a.reference(scope, sym, n.Ident)
	return typeOf(sym, scope)
}

func (a *analyzer) bindCall(scope *Scope, n *ast.FuncCall) *ResolvedType {
	a.bindArgs(scope, n.Args)
	sym, ok := a.lookupName(scope, n.Scope, n.Ident.Text)
	if !ok {
		return nil
	}
	if sym == nil {
		if n.Ident.Text != "super" {
			a.undefined(n.Ident)
		}
		return nil
	}
	switch s := sym.(type) {
	case *FunctionSymbol:
		chosen := pickOverload(s, argCount(n.Args))
		a.reference(scope, chosen, n.Ident)
		return callResult(chosen)
	case *TypeSymbol:
		a.reference(scope, s, n.Ident)
		return &ResolvedType{Symbol: s, Scope: scope}
	case *VariableSymbol:
		a.reference(scope, s, n.Ident)
		if s.Type != nil {
			if fn, ok := s.Type.Symbol.(*FunctionSymbol); ok {
				return fn.ReturnType
			}
		}
	}
	return nil
}

func (a *analyzer) bindPostOp(scope *Scope, recv *ResolvedType, op ast.PostOp) *ResolvedType {
	switch n := op.(type) {
	case *ast.MemberPostOp:
		if recv != nil && a.services {
			scope.addHint(MemberHint{Span: n.Range.Span(), Receiver: recv})
		}
		switch m := n.Member.(type) {
		case ast.MemberField:
			sym, _ := LookupMember(recv.TypeSymbol(), m.Ident.Text)
			if sym == nil {
				return nil
			}
			a.reference(scope, sym, m.Ident)
			return substitute(typeOf(sym, scope), recv)
		case ast.MemberCall:
			a.bindArgs(scope, m.Call.Args)
			sym, _ := LookupMember(recv.TypeSymbol(), m.Call.Ident.Text)
			fn, ok := sym.(*FunctionSymbol)
			if !ok {
				return nil
			}
			chosen := pickOverload(fn, argCount(m.Call.Args))
			a.reference(scope, chosen, m.Call.Ident)
			return substitute(chosen.ReturnType, recv)
		}
	case *ast.IndexPostOp:
		for _, idx := range n.Indexers {
			a.bindAssign(scope, idx.Value)
		}
		return a.operatorResult(recv, "opIndex")
	case *ast.CallPostOp:
		a.bindArgs(scope, n.Args)
		if recv != nil {
			if fn, ok := recv.Symbol.(*FunctionSymbol); ok {
				return fn.ReturnType
			}
		}
		return a.operatorResult(recv, "opCall")
	case *ast.IncDecPostOp:
		return recv
	}
	return nil
}

// operatorResult is the return type of the operator method name on recv.
func (a *analyzer) operatorResult(recv *ResolvedType, name string) *ResolvedType {
	sym, _ := LookupMember(recv.TypeSymbol(), name)
	fn, ok := sym.(*FunctionSymbol)
	if !ok {
		return nil
	}
	return substitute(fn.ReturnType, recv)
}

func argCount(args *ast.ArgList) int {
	if args == nil {
		return 0
	}
	return len(args.Args)
}

func pickOverload(head *FunctionSymbol, n int) *FunctionSymbol {
	for o := head; o != nil; o = o.next {
		if o.Accepts(n) {
			return o
		}
	}
	return head
}

// callResult is the type of calling fn. Constructors produce their class.
func callResult(fn *FunctionSymbol) *ResolvedType {
	if decl, ok := fn.Source.(*ast.Func); ok {
		if _, ctor := decl.Head.(ast.ConstructorHead); ctor && fn.scope.Type != nil {
			return &ResolvedType{Symbol: fn.scope.Type, Scope: fn.scope.Parent}
		}
	}
	return fn.ReturnType
}

func typeOf(sym Symbol, scope *Scope) *ResolvedType {
	switch s := sym.(type) {
	case *VariableSymbol:
		return s.Type
	case *FunctionSymbol:
		return &ResolvedType{Symbol: s, Scope: scope}
	case *TypeSymbol:
		return &ResolvedType{Symbol: s, Scope: scope}
	}
	return nil
}

// resolveQualifier resolves "A::B::" to the scope it names, reporting the
// first name that cannot be found.
func (a *analyzer) resolveQualifier(scope *Scope, q *ast.Scope) *Scope {
	for _, param := range q.TypeParams {
		a.resolveType(scope, param)
	}
	target := a.global
	if len(q.Names) > 0 {
		first := q.Names[0]
		if q.Global {
			target = a.global.ResolveScope(first.Text)
		} else {
			target = scope.ResolveScope(first.Text)
		}
		if target == nil {
			a.undefined(first)
			return nil
		}
		if target.Type != nil {
			a.reference(scope, target.Type, first)
		}
		for _, name := range q.Names[1:] {
			next := target.Child(name.Text)
			if next == nil {
				a.undefined(name)
				return nil
			}
			if next.Type != nil {
				a.reference(scope, next.Type, name)
			}
			target = next
		}
	}
	if a.services {
		scope.addHint(NamespaceHint{Span: q.Range.Span(), Target: target})
	}
	return target
}

// lookupType finds a type or funcdef named name from scope outward, or only in
// scope when qualified. Constructors and other functions are skipped.
func (a *analyzer) lookupType(scope *Scope, name string, qualified bool) Resolvable {
	for s := scope; s != nil; s = s.Parent {
		switch sym := s.Lookup(name).(type) {
		case *TypeSymbol:
			return sym
		case *FunctionSymbol:
			if _, ok := sym.Source.(*ast.FuncDef); ok {
				return sym
			}
		}
		if qualified {
			break
		}
	}
	if t := Builtins().Lookup(name); t != nil {
		return t
	}
	return nil
}

func (a *analyzer) resolveType(scope *Scope, n *ast.Type) *ResolvedType {
	if n == nil || n.DataType == nil {
		return nil
	}
	ident := n.DataType.Ident
	var sym Resolvable
	if builtin := LookupBuiltin(ident); builtin != nil {
		sym = builtin
	} else {
		target, qualified := scope, false
		if n.Scope != nil {
			target, qualified = a.resolveQualifier(scope, n.Scope), true
			if target == nil {
				return nil
			}
		}
		sym = a.lookupType(target, ident.Text, qualified)
		if sym == nil {
			a.undefined(ident)
			return nil
		}
		a.reference(scope, sym, ident)
	}

	rt := &ResolvedType{Symbol: sym, Scope: scope, Handler: n.Ref != nil}
	ts := rt.TypeSymbol()
	for i, param := range n.TypeParams {
		arg := a.resolveType(scope, param)
		if ts == nil || arg == nil || i >= len(ts.TemplateParams) {
			continue
		}
		if rt.Template == nil {
			rt.Template = make(map[string]*ResolvedType)
		}
		rt.Template[ts.TemplateParams[i].Text] = arg
	}
	return rt
}
