package symbols

import (
	"sort"

	"github.com/dhamidi/asls/angelscript/ast"
	"github.com/dhamidi/asls/angelscript/token"
)

// Reference is a use of a symbol at a token.
type Reference struct {
	Symbol Symbol
	Token  *token.Token
	// Declaration marks the token that declared Symbol.
	Declaration bool
}

// CompletionHint records what completion should offer inside a source span.
type CompletionHint interface {
	HintSpan() token.Span
	completionHint()
}

// MemberHint covers a member access "x." whose receiver type is known.
type MemberHint struct {
	Span     token.Span
	Receiver *ResolvedType
}

// NamespaceHint covers a scope qualifier "A::" that resolved to Target.
type NamespaceHint struct {
	Span   token.Span
	Target *Scope
}

func (h MemberHint) HintSpan() token.Span    { return h.Span }
func (h NamespaceHint) HintSpan() token.Span { return h.Span }

func (MemberHint) completionHint()    {}
func (NamespaceHint) completionHint() {}

// Scope is a node in the scope tree. Child scopes are keyed by name for
// namespaces and types and by a position-derived key for anonymous blocks.
type Scope struct {
	Owner  ast.ScopeOwner
	Parent *Scope
	Key    string
	// Type is set on the member scope of a type.
	Type *TypeSymbol

	children map[string]*Scope
	symbols  map[string]Symbol

	References []Reference
	Hints      []CompletionHint
}

// NewScope creates a scope and registers it as a child of parent. A nil
// parent creates a root.
func NewScope(owner ast.ScopeOwner, parent *Scope, key string) *Scope {
	s := &Scope{
		Owner:    owner,
		Parent:   parent,
		Key:      key,
		children: make(map[string]*Scope),
		symbols:  make(map[string]Symbol),
	}
	if parent != nil {
		parent.children[key] = s
	}
	return s
}

// Child returns the direct child scope with key, or nil.
func (s *Scope) Child(key string) *Scope {
	return s.children[key]
}

// ChildOrNew returns the child with key, creating it when missing. An existing
// child without an owner adopts owner.
func (s *Scope) ChildOrNew(owner ast.ScopeOwner, key string) *Scope {
	if child, ok := s.children[key]; ok {
		if child.Owner == nil {
			child.Owner = owner
		}
		return child
	}
	return NewScope(owner, s, key)
}

// Children returns the child scopes ordered by key.
func (s *Scope) Children() []*Scope {
	keys := make([]string, 0, len(s.children))
	for key := range s.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	result := make([]*Scope, len(keys))
	for i, key := range keys {
		result[i] = s.children[key]
	}
	return result
}

// Lookup finds name among the symbols declared directly in s.
func (s *Scope) Lookup(name string) Symbol {
	return s.symbols[name]
}

// Symbols returns the symbols declared directly in s ordered by name. Only the
// head of each overload chain is listed.
func (s *Scope) Symbols() []Symbol {
	names := make([]string, 0, len(s.symbols))
	for name := range s.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	result := make([]Symbol, len(names))
	for i, name := range names {
		result[i] = s.symbols[name]
	}
	return result
}

// Insert declares sym in s. A function whose name is taken by another
// function extends that function's overload chain; any other clash is
// rejected and reported by the false return.
func (s *Scope) Insert(sym Symbol) bool {
	name := sym.Place().Text
	existing, ok := s.symbols[name]
	if !ok {
		s.symbols[name] = sym
		return true
	}
	head, headIsFunc := existing.(*FunctionSymbol)
	next, nextIsFunc := sym.(*FunctionSymbol)
	if headIsFunc && nextIsFunc {
		head.appendOverload(next)
		return true
	}
	return false
}

// Resolve looks name up from s outward to the root, searching the members of
// base types on the way. It returns the symbol and the scope declaring it.
func (s *Scope) Resolve(name string) (Symbol, *Scope) {
	for scope := s; scope != nil; scope = scope.Parent {
		if sym := scope.Lookup(name); sym != nil {
			return sym, scope
		}
		if scope.Type != nil {
			if sym, owner := lookupInBases(scope.Type, name, map[*TypeSymbol]bool{}); sym != nil {
				return sym, owner
			}
		}
	}
	return nil, nil
}

// LookupMember finds name in the members of t or its bases.
func LookupMember(t *TypeSymbol, name string) (Symbol, *Scope) {
	if t == nil || t.Members == nil {
		return nil, nil
	}
	if sym := t.Members.Lookup(name); sym != nil {
		return sym, t.Members
	}
	return lookupInBases(t, name, map[*TypeSymbol]bool{})
}

func lookupInBases(t *TypeSymbol, name string, seen map[*TypeSymbol]bool) (Symbol, *Scope) {
	if seen[t] {
		return nil, nil
	}
	seen[t] = true
	for _, base := range t.Bases {
		bt := base.TypeSymbol()
		if bt == nil || bt.Members == nil {
			continue
		}
		if sym := bt.Members.Lookup(name); sym != nil {
			return sym, bt.Members
		}
		if sym, owner := lookupInBases(bt, name, seen); sym != nil {
			return sym, owner
		}
	}
	return nil, nil
}

// ResolveScope finds the scope named key from s outward, the way a qualifier
// "key::" is looked up.
func (s *Scope) ResolveScope(key string) *Scope {
	for scope := s; scope != nil; scope = scope.Parent {
		if child := scope.Child(key); child != nil {
			return child
		}
	}
	return nil
}

func (s *Scope) Root() *Scope {
	root := s
	for root.Parent != nil {
		root = root.Parent
	}
	return root
}

// Visible returns every symbol reachable from s by unqualified lookup, inner
// declarations shadowing outer ones.
func (s *Scope) Visible() []Symbol {
	seen := make(map[string]bool)
	var result []Symbol
	add := func(syms []Symbol) {
		for _, sym := range syms {
			name := sym.Place().Text
			if !seen[name] {
				seen[name] = true
				result = append(result, sym)
			}
		}
	}
	for scope := s; scope != nil; scope = scope.Parent {
		add(scope.Symbols())
		if scope.Type != nil {
			for _, base := range scope.Type.Bases {
				if bt := base.TypeSymbol(); bt != nil && bt.Members != nil {
					add(bt.Members.Symbols())
				}
			}
		}
	}
	return result
}

// Innermost returns the deepest scope below s whose owner contains pos, or s.
// Namespace scopes are searched regardless of position because a namespace
// can be reopened.
func (s *Scope) Innermost(pos token.Position) *Scope {
	for _, child := range s.Children() {
		switch owner := child.Owner.(type) {
		case nil, *ast.Namespace:
			if inner := child.Innermost(pos); inner != child {
				return inner
			}
			if owner != nil && owner.NodeRange().Contains(pos) {
				return child
			}
		default:
			if owner.NodeRange().Contains(pos) {
				return child.Innermost(pos)
			}
		}
	}
	return s
}

// Walk calls fn for s and every scope below it, parents first.
func (s *Scope) Walk(fn func(*Scope)) {
	fn(s)
	for _, child := range s.Children() {
		child.Walk(fn)
	}
}

func (s *Scope) addReference(ref Reference) {
	s.References = append(s.References, ref)
}

func (s *Scope) addHint(hint CompletionHint) {
	s.Hints = append(s.Hints, hint)
}
