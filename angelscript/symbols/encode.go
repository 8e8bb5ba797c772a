package symbols

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/asls/angelscript/ast"
)

// Tree is the serializable form of a scope.
type Tree struct {
	Key      string   `json:"key,omitempty" yaml:"key,omitempty"`
	Owner    string   `json:"owner,omitempty" yaml:"owner,omitempty"`
	Symbols  []*Entry `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Children []*Tree  `json:"children,omitempty" yaml:"children,omitempty"`
}

// Entry is one declaration of a symbol. Overloads are listed as separate
// entries in declaration order.
type Entry struct {
	Name     string   `json:"name" yaml:"name"`
	Kind     string   `json:"kind" yaml:"kind"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty"`
	Params   []string `json:"params,omitempty" yaml:"params,omitempty,flow"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"`
	Column   int      `json:"column,omitempty" yaml:"column,omitempty"`
	Instance bool     `json:"instance,omitempty" yaml:"instance,omitempty"`
}

// Encode converts s and every scope below it.
func Encode(s *Scope) *Tree {
	tree := &Tree{Key: s.Key, Owner: ownerKind(s.Owner)}
	for _, sym := range s.Symbols() {
		if fn, ok := sym.(*FunctionSymbol); ok {
			for _, o := range fn.Overloads() {
				tree.Symbols = append(tree.Symbols, entry(o))
			}
			continue
		}
		tree.Symbols = append(tree.Symbols, entry(sym))
	}
	for _, child := range s.Children() {
		tree.Children = append(tree.Children, Encode(child))
	}
	return tree
}

func entry(sym Symbol) *Entry {
	e := &Entry{
		Name:     sym.Place().Text,
		Kind:     Kind(sym),
		Line:     sym.Place().Location.Start.Line,
		Column:   sym.Place().Location.Start.Column,
		Instance: IsInstanceMember(sym),
	}
	switch s := sym.(type) {
	case *TypeSymbol:
		if p, ok := s.Primitive(); ok {
			e.Type = p.String()
		}
		for _, base := range s.Bases {
			e.Params = append(e.Params, base.String())
		}
	case *FunctionSymbol:
		e.Type = s.ReturnType.String()
		for _, param := range s.ParamTypes {
			e.Params = append(e.Params, param.String())
		}
	case *VariableSymbol:
		e.Type = s.Type.String()
	}
	return e
}

func ownerKind(owner ast.ScopeOwner) string {
	if owner == nil {
		return ""
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", owner), "*ast.")
}

func MarshalJSON(s *Scope) ([]byte, error) {
	return json.MarshalIndent(Encode(s), "", "  ")
}

func MarshalYAML(s *Scope) ([]byte, error) {
	return yaml.Marshal(Encode(s))
}

// Dump renders the scope tree as indented text, one line per scope and per
// symbol declaration.
func Dump(s *Scope) string {
	var b strings.Builder
	dumpTree(&b, Encode(s), 0)
	return b.String()
}

func dumpTree(b *strings.Builder, tree *Tree, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteString("scope")
	if tree.Key != "" {
		b.WriteString(" " + tree.Key)
	}
	if tree.Owner != "" {
		b.WriteString(" (" + tree.Owner + ")")
	}
	b.WriteString("\n")
	for _, e := range tree.Symbols {
		b.WriteString(indent + "  " + e.Kind + " " + e.Name)
		switch e.Kind {
		case "function":
			fmt.Fprintf(b, "(%s) %s", strings.Join(e.Params, ", "), e.Type)
		case "variable":
			b.WriteString(" " + e.Type)
		case "type":
			if len(e.Params) > 0 {
				b.WriteString(" : " + strings.Join(e.Params, ", "))
			}
		}
		b.WriteString("\n")
	}
	for _, child := range tree.Children {
		dumpTree(b, child, depth+1)
	}
}
