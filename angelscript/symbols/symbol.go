// Package symbols binds a parsed script to a tree of scopes and symbols.
//
// A Symbol is one of *TypeSymbol, *FunctionSymbol or *VariableSymbol. Types
// come either from a declaration in the source (DeclSource) or from the
// built-in registry (PrimitiveType). Use sites refer to types through a
// ResolvedType, which also carries the scope the name was resolved in and any
// template arguments applied to it.
package symbols

import (
	"strings"

	"github.com/dhamidi/asls/angelscript/ast"
	"github.com/dhamidi/asls/angelscript/token"
)

type Symbol interface {
	// Place is the token that declared the symbol. Built-in symbols use a
	// virtual token without a location.
	Place() *token.Token
	// Scope is the scope the symbol was declared in.
	Scope() *Scope
	symbol()
}

// Resolvable is a symbol that a ResolvedType can wrap.
type Resolvable interface {
	Symbol
	resolvable()
}

type PrimitiveType int

const (
	PrimitiveTemplate PrimitiveType = iota
	PrimitiveString
	PrimitiveBool
	PrimitiveNumber
	PrimitiveVoid
	PrimitiveAny
	PrimitiveAuto
)

var primitiveNames = [...]string{
	PrimitiveTemplate: "Template",
	PrimitiveString:   "String",
	PrimitiveBool:     "Bool",
	PrimitiveNumber:   "Number",
	PrimitiveVoid:     "Void",
	PrimitiveAny:      "Any",
	PrimitiveAuto:     "Auto",
}

func (p PrimitiveType) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "Unknown"
}

// DefinitionSource is where a type comes from: a declaration node or a
// primitive tag.
type DefinitionSource interface {
	definitionSource()
}

type DeclSource struct {
	Decl ast.TypeDecl
}

func (DeclSource) definitionSource()    {}
func (PrimitiveType) definitionSource() {}

type TypeSymbol struct {
	place  *token.Token
	scope  *Scope
	Source DefinitionSource
	// TemplateParams are the names in "class Foo<T, U>".
	TemplateParams []*token.Token
	Bases          []*ResolvedType
	Handler        bool
	// Members is nil for types without a body.
	Members *Scope
}

func (t *TypeSymbol) Place() *token.Token { return t.place }
func (t *TypeSymbol) Scope() *Scope       { return t.scope }

func (t *TypeSymbol) Name() string {
	return t.place.Text
}

// Primitive reports the primitive tag of a built-in or template type.
func (t *TypeSymbol) Primitive() (PrimitiveType, bool) {
	p, ok := t.Source.(PrimitiveType)
	return p, ok
}

// Decl returns the declaring node, or nil for primitive types.
func (t *TypeSymbol) Decl() ast.TypeDecl {
	if src, ok := t.Source.(DeclSource); ok {
		return src.Decl
	}
	return nil
}

// FunctionSymbol is one declaration of a function. Later declarations with the
// same name in the same scope hang off NextOverload in declaration order.
type FunctionSymbol struct {
	place          *token.Token
	scope          *Scope
	Source         ast.FunctionDecl
	ReturnType     *ResolvedType
	ParamTypes     []*ResolvedType
	Access         *ast.AccessModifier
	InstanceMember bool
	next           *FunctionSymbol
}

func (f *FunctionSymbol) Place() *token.Token { return f.place }
func (f *FunctionSymbol) Scope() *Scope       { return f.scope }

func (f *FunctionSymbol) NextOverload() *FunctionSymbol {
	return f.next
}

// Overloads returns f and every overload after it.
func (f *FunctionSymbol) Overloads() []*FunctionSymbol {
	var result []*FunctionSymbol
	for o := f; o != nil; o = o.next {
		result = append(result, o)
	}
	return result
}

// Accepts reports whether a call with n arguments can select this overload.
func (f *FunctionSymbol) Accepts(n int) bool {
	params := f.Source.Parameters()
	if n > len(params) {
		return false
	}
	for _, param := range params[n:] {
		if param.Default == nil {
			return false
		}
	}
	return true
}

func (f *FunctionSymbol) appendOverload(next *FunctionSymbol) {
	last := f
	for last.next != nil {
		last = last.next
	}
	last.next = next
}

type VariableSymbol struct {
	place          *token.Token
	scope          *Scope
	Type           *ResolvedType
	InstanceMember bool
	Access         *ast.AccessModifier
}

func (v *VariableSymbol) Place() *token.Token { return v.place }
func (v *VariableSymbol) Scope() *Scope       { return v.scope }

func (*TypeSymbol) symbol()     {}
func (*FunctionSymbol) symbol() {}
func (*VariableSymbol) symbol() {}

func (*TypeSymbol) resolvable()     {}
func (*FunctionSymbol) resolvable() {}

// IsInstanceMember reports whether sym belongs to instances of a class.
func IsInstanceMember(sym Symbol) bool {
	switch s := sym.(type) {
	case *FunctionSymbol:
		return s.InstanceMember
	case *VariableSymbol:
		return s.InstanceMember
	}
	return false
}

// Kind names the symbol category.
func Kind(sym Symbol) string {
	switch sym.(type) {
	case *TypeSymbol:
		return "type"
	case *FunctionSymbol:
		return "function"
	case *VariableSymbol:
		return "variable"
	}
	return "unknown"
}

// ResolvedType is a type as seen from a use site.
type ResolvedType struct {
	Symbol Resolvable
	// Scope is where the name was resolved.
	Scope   *Scope
	Handler bool
	// Template maps template parameter names to the arguments given at the use site.
	Template map[string]*ResolvedType
}

// TypeSymbol returns the wrapped type, or nil when the use site names a function.
func (r *ResolvedType) TypeSymbol() *TypeSymbol {
	if r == nil {
		return nil
	}
	t, _ := r.Symbol.(*TypeSymbol)
	return t
}

func (r *ResolvedType) String() string {
	if r == nil {
		return "?"
	}
	var b strings.Builder
	b.WriteString(r.Symbol.Place().Text)
	if t := r.TypeSymbol(); t != nil && len(t.TemplateParams) > 0 && len(r.Template) > 0 {
		b.WriteString("<")
		for i, param := range t.TemplateParams {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(r.Template[param.Text].String())
		}
		b.WriteString(">")
	}
	if r.Handler {
		b.WriteString("@")
	}
	return b.String()
}

// substitute replaces a template parameter type with the argument bound in
// receiver, if any.
func substitute(t *ResolvedType, receiver *ResolvedType) *ResolvedType {
	if t == nil || receiver == nil || len(receiver.Template) == 0 {
		return t
	}
	ts := t.TypeSymbol()
	if ts == nil {
		return t
	}
	if p, ok := ts.Primitive(); !ok || p != PrimitiveTemplate {
		return t
	}
	if arg, ok := receiver.Template[ts.Name()]; ok {
		return arg
	}
	return t
}
