package symbols

import (
	"github.com/dhamidi/asls/angelscript/token"
)

// ScopeAt returns the innermost scope containing pos.
func (a *Analysis) ScopeAt(pos token.Position) *Scope {
	return a.Global.Innermost(pos)
}

// ReferenceAt returns the reference whose token contains pos.
func (a *Analysis) ReferenceAt(pos token.Position) (Reference, bool) {
	var found Reference
	var ok bool
	a.Global.Walk(func(s *Scope) {
		if ok {
			return
		}
		for _, ref := range s.References {
			if ref.Token.Span().Contains(pos) {
				found, ok = ref, true
				return
			}
		}
	})
	return found, ok
}

// ReferencesTo returns every reference to sym in source order of the scope
// tree, its declaration included.
func (a *Analysis) ReferencesTo(sym Symbol) []Reference {
	var result []Reference
	a.Global.Walk(func(s *Scope) {
		for _, ref := range s.References {
			if ref.Symbol == sym {
				result = append(result, ref)
			}
		}
	})
	return result
}

// HintAt returns the completion hint covering pos that starts last, so that in
// "a.b." the hint for the second dot wins.
func (a *Analysis) HintAt(pos token.Position) CompletionHint {
	var best CompletionHint
	a.Global.Walk(func(s *Scope) {
		for _, hint := range s.Hints {
			span := hint.HintSpan()
			if !span.Contains(pos) {
				continue
			}
			if best == nil || best.HintSpan().Start.Before(span.Start) {
				best = hint
			}
		}
	})
	return best
}

// Members lists what completion offers after a hint: the members of the
// receiver type and its bases, or the symbols declared in a namespace.
func Members(hint CompletionHint) []Symbol {
	switch h := hint.(type) {
	case MemberHint:
		names := make(map[string]bool)
		visited := make(map[*TypeSymbol]bool)
		var result []Symbol
		var collect func(*TypeSymbol)
		collect = func(t *TypeSymbol) {
			if t == nil || t.Members == nil || visited[t] {
				return
			}
			visited[t] = true
			for _, sym := range t.Members.Symbols() {
				// Template parameters live in the member scope too.
				if _, isType := sym.(*TypeSymbol); isType {
					continue
				}
				if name := sym.Place().Text; !names[name] {
					names[name] = true
					result = append(result, sym)
				}
			}
			for _, base := range t.Bases {
				collect(base.TypeSymbol())
			}
		}
		collect(h.Receiver.TypeSymbol())
		return result
	case NamespaceHint:
		return h.Target.Symbols()
	}
	return nil
}
