package symbols

import (
	"sort"
	"sync"

	"github.com/dhamidi/asls/angelscript/token"
)

// Registry holds the built-in types. It is built once and never modified, so
// it is shared by every analysis.
type Registry struct {
	types map[string]*TypeSymbol
	// This and Value are the implicit receiver of a method and the implicit
	// parameter of a property setter.
	This  *token.Token
	Value *token.Token
}

// Builtins returns the process-wide registry.
var Builtins = sync.OnceValue(newRegistry)

func newRegistry() *Registry {
	scope := NewScope(nil, nil, "")
	r := &Registry{
		types: make(map[string]*TypeSymbol),
		This:  token.Virtual(token.Identifier, "this"),
		Value: token.Virtual(token.Identifier, "value"),
	}
	add := func(kind token.Kind, name string, source PrimitiveType) {
		r.types[name] = &TypeSymbol{
			place:  token.Virtual(kind, name),
			scope:  scope,
			Source: source,
		}
	}
	for _, name := range token.NumberTypes {
		add(token.Reserved, name, PrimitiveNumber)
	}
	add(token.Reserved, "bool", PrimitiveBool)
	add(token.Reserved, "void", PrimitiveVoid)
	add(token.Reserved, "?", PrimitiveAny)
	add(token.Reserved, "auto", PrimitiveAuto)
	add(token.String, "string", PrimitiveString)
	return r
}

// Lookup returns the built-in type named name, or nil.
func (r *Registry) Lookup(name string) *TypeSymbol {
	return r.types[name]
}

// Types returns every built-in type ordered by name.
func (r *Registry) Types() []*TypeSymbol {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	result := make([]*TypeSymbol, len(names))
	for i, name := range names {
		result[i] = r.types[name]
	}
	return result
}

// LookupBuiltin returns the built-in type a reserved type keyword names. Plain
// identifiers such as "string" are not matched; they resolve through scopes
// first.
func LookupBuiltin(tok *token.Token) *TypeSymbol {
	if tok == nil || tok.Kind != token.Reserved {
		return nil
	}
	switch tok.Text {
	case "bool", "void", "?", "auto":
		return Builtins().Lookup(tok.Text)
	}
	if tok.Property != nil && tok.Property.Number {
		return Builtins().Lookup(tok.Text)
	}
	return nil
}

// resolved wraps a built-in type for use as an expression type.
func resolved(name string) *ResolvedType {
	return &ResolvedType{Symbol: Builtins().Lookup(name)}
}
