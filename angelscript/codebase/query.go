package codebase

import (
	"sort"
	"strings"

	"github.com/dhamidi/asls/angelscript/ast"
	"github.com/dhamidi/asls/angelscript/symbols"
	"github.com/dhamidi/asls/angelscript/token"
)

type Location struct {
	Path string
	Span token.Span
}

type CompletionKind int

const (
	CompletionKindMethod CompletionKind = iota
	CompletionKindField
	CompletionKindClass
	CompletionKindInterface
	CompletionKindEnum
	CompletionKindFunction
	CompletionKindVariable
	CompletionKindBuiltin
)

type CompletionItem struct {
	Label  string
	Kind   CompletionKind
	Detail string
}

// Completions lists candidates at pos. After "x." or "A::" these are the
// members of the receiver or namespace; elsewhere every visible symbol and
// built-in type.
func (c *Codebase) Completions(path string, pos token.Position) []CompletionItem {
	snap := c.Get(path)
	if snap == nil {
		return nil
	}
	hint := snap.Analysis.HintAt(pos)
	if hint == nil {
		// Inside a partly typed name the hint ends where the name starts.
		if tok := snap.tokenAt(pos); tok.IsIdentifier() {
			hint = snap.Analysis.HintAt(tok.Location.Start)
		}
	}
	if hint != nil {
		return completionItems(symbols.Members(hint))
	}

	items := completionItems(snap.Analysis.ScopeAt(pos).Visible())
	for _, t := range symbols.Builtins().Types() {
		if t.Name() == "?" {
			continue
		}
		items = append(items, CompletionItem{Label: t.Name(), Kind: CompletionKindBuiltin})
	}
	return items
}

func completionItems(syms []symbols.Symbol) []CompletionItem {
	items := make([]CompletionItem, 0, len(syms))
	for _, sym := range syms {
		items = append(items, CompletionItem{
			Label:  sym.Place().Text,
			Kind:   completionKind(sym),
			Detail: Describe(sym),
		})
	}
	return items
}

func completionKind(sym symbols.Symbol) CompletionKind {
	switch s := sym.(type) {
	case *symbols.TypeSymbol:
		switch s.Decl().(type) {
		case *ast.Interface:
			return CompletionKindInterface
		case *ast.Enum:
			return CompletionKindEnum
		case nil:
			return CompletionKindBuiltin
		}
		return CompletionKindClass
	case *symbols.FunctionSymbol:
		if s.InstanceMember {
			return CompletionKindMethod
		}
		return CompletionKindFunction
	case *symbols.VariableSymbol:
		if s.InstanceMember {
			return CompletionKindField
		}
	}
	return CompletionKindVariable
}

// Describe renders the declaration of sym on one line.
func Describe(sym symbols.Symbol) string {
	switch s := sym.(type) {
	case *symbols.TypeSymbol:
		switch s.Decl().(type) {
		case *ast.Interface:
			return "interface " + s.Name()
		case *ast.Enum:
			return "enum " + s.Name()
		case *ast.Class:
			return "class " + s.Name()
		}
		if p, ok := s.Primitive(); ok && p == symbols.PrimitiveTemplate {
			return "template " + s.Name()
		}
		return s.Name()
	case *symbols.FunctionSymbol:
		params := make([]string, len(s.ParamTypes))
		for i, p := range s.ParamTypes {
			params[i] = p.String()
		}
		var ret string
		if s.ReturnType != nil {
			ret = s.ReturnType.String() + " "
		}
		return ret + s.Place().Text + "(" + strings.Join(params, ", ") + ")"
	case *symbols.VariableSymbol:
		return s.Type.String() + " " + s.Place().Text
	}
	return ""
}

// tokenAt returns the token covering pos, or nil.
func (s *Snapshot) tokenAt(pos token.Position) *token.Token {
	tokens := s.Parse.Tokens
	i := sort.Search(len(tokens), func(i int) bool {
		return !tokens[i].Location.End.Before(pos)
	})
	if i < len(tokens) && tokens[i].Span().Contains(pos) {
		return tokens[i]
	}
	return nil
}

// Definition returns where the symbol referenced at pos is declared. Built-in
// symbols have no location.
func (c *Codebase) Definition(path string, pos token.Position) (Location, bool) {
	snap := c.Get(path)
	if snap == nil {
		return Location{}, false
	}
	ref, ok := snap.Analysis.ReferenceAt(pos)
	if !ok {
		return Location{}, false
	}
	place := ref.Symbol.Place()
	if place.Location.Start.Line == 0 {
		return Location{}, false
	}
	return Location{Path: place.Location.Path, Span: place.Span()}, true
}

// References finds every use of the symbol referenced at pos across the
// workspace.
func (c *Codebase) References(path string, pos token.Position, includeDeclaration bool) []Location {
	snap := c.Get(path)
	if snap == nil {
		return nil
	}
	ref, ok := snap.Analysis.ReferenceAt(pos)
	if !ok {
		return nil
	}
	var result []Location
	for _, doc := range c.Snapshots() {
		for _, r := range doc.Analysis.ReferencesTo(ref.Symbol) {
			if r.Declaration && !includeDeclaration {
				continue
			}
			result = append(result, Location{Path: r.Token.Location.Path, Span: r.Token.Span()})
		}
	}
	return result
}

type SemanticToken struct {
	Line   int
	Column int
	Length int
	Tag    token.Highlight
}

// SemanticTokens returns the highlighted tokens of path in source order,
// comments included. Tokens spanning lines are cut at the first line break.
func (c *Codebase) SemanticTokens(path string) []SemanticToken {
	snap := c.Get(path)
	if snap == nil {
		return nil
	}
	var result []SemanticToken
	add := func(tok *token.Token, tag token.Highlight) {
		if tag == token.HighlightNone {
			return
		}
		length := len(tok.Text)
		if i := strings.IndexByte(tok.Text, '\n'); i >= 0 {
			length = i
		}
		result = append(result, SemanticToken{
			Line:   tok.Location.Start.Line,
			Column: tok.Location.Start.Column,
			Length: length,
			Tag:    tag,
		})
	}
	for i, tok := range snap.Parse.Tokens {
		add(tok, snap.Parse.Highlights[i])
	}
	for _, tok := range snap.Parse.Comments {
		add(tok, token.HighlightComment)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Line != result[j].Line {
			return result[i].Line < result[j].Line
		}
		return result[i].Column < result[j].Column
	})
	return result
}
