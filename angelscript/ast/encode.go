package ast

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/asls/angelscript/token"
)

// Tree is a uniform view of a syntax tree for printing and serialization.
type Tree struct {
	Kind     string   `json:"kind" yaml:"kind"`
	Span     *Span    `json:"span,omitempty" yaml:"span,omitempty"`
	Token    string   `json:"token,omitempty" yaml:"token,omitempty"`
	Flags    []string `json:"flags,omitempty" yaml:"flags,omitempty,flow"`
	Children []*Tree  `json:"children,omitempty" yaml:"children,omitempty"`
}

type Span struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func MarshalJSON(node Node) ([]byte, error) {
	return json.MarshalIndent(Encode(node), "", "  ")
}

func MarshalYAML(node Node) ([]byte, error) {
	return yaml.Marshal(Encode(node))
}

// Dump renders node as an indented outline, one node per line.
func Dump(node Node, positions bool) string {
	var b strings.Builder
	Encode(node).write(&b, 0, positions)
	return b.String()
}

func (t *Tree) write(b *strings.Builder, indent int, positions bool) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(t.Kind)
	if positions && t.Span != nil {
		b.WriteString(" [")
		b.WriteString(token.Position{Line: t.Span.Start.Line, Column: t.Span.Start.Column}.String())
		b.WriteString("-")
		b.WriteString(token.Position{Line: t.Span.End.Line, Column: t.Span.End.Column}.String())
		b.WriteString("]")
	}
	if t.Token != "" {
		b.WriteString(" " + t.Token)
	}
	if len(t.Flags) > 0 {
		b.WriteString(" (" + strings.Join(t.Flags, " ") + ")")
	}
	b.WriteString("\n")
	for _, child := range t.Children {
		child.write(b, indent+1, positions)
	}
}

func tree(kind string, n Node) *Tree {
	t := &Tree{Kind: kind}
	if n != nil {
		r := n.NodeRange()
		if r.Start != nil && r.End != nil {
			span := r.Span()
			t.Span = &Span{
				Start: Position{Line: span.Start.Line, Column: span.Start.Column},
				End:   Position{Line: span.End.Line, Column: span.End.Column},
			}
		}
	}
	return t
}

func text(tok *token.Token) string {
	if tok == nil {
		return ""
	}
	return tok.Text
}

func (t *Tree) add(children ...*Tree) *Tree {
	for _, child := range children {
		if child != nil {
			t.Children = append(t.Children, child)
		}
	}
	return t
}

func (t *Tree) flag(on bool, name string) *Tree {
	if on {
		t.Flags = append(t.Flags, name)
	}
	return t
}

func (t *Tree) entity(attr *EntityAttribute) *Tree {
	if attr == nil {
		return t
	}
	return t.flag(attr.Shared, "shared").flag(attr.External, "external").
		flag(attr.Abstract, "abstract").flag(attr.Final, "final")
}

func (t *Tree) funcAttr(attr *FunctionAttribute) *Tree {
	if attr == nil {
		return t
	}
	return t.flag(attr.Override, "override").flag(attr.Final, "final").
		flag(attr.Explicit, "explicit").flag(attr.Property, "property")
}

func (t *Tree) access(a *AccessModifier) *Tree {
	if a == nil {
		return t
	}
	return t.flag(true, a.String())
}

// Encode converts node into a Tree. Nil nodes encode to nil.
func Encode(node Node) *Tree {
	switch n := node.(type) {
	case nil:
		return nil
	case *Script:
		t := tree("Script", n)
		for _, item := range n.Items {
			t.add(Encode(item))
		}
		return t
	case *Namespace:
		t := tree("Namespace", n)
		t.Token = joinTokens(n.Path, "::")
		for _, item := range n.Items {
			t.add(Encode(item))
		}
		return t
	case *Enum:
		t := tree("Enum", n).entity(n.Entity)
		t.Token = text(n.Ident)
		for _, m := range n.Members {
			member := &Tree{Kind: "EnumMember", Token: text(m.Name)}
			if m.Value != nil {
				member.add(Encode(m.Value))
			}
			t.add(member)
		}
		return t
	case *Class:
		t := tree("Class", n).entity(n.Entity)
		t.Token = text(n.Ident)
		t.add(typeList("TypeParams", n.TypeParams))
		if len(n.Bases) > 0 {
			t.add(&Tree{Kind: "Bases", Token: joinTokens(n.Bases, ", ")})
		}
		for _, m := range n.Members {
			t.add(Encode(m))
		}
		return t
	case *Interface:
		t := tree("Interface", n).entity(n.Entity)
		t.Token = text(n.Ident)
		if len(n.Bases) > 0 {
			t.add(&Tree{Kind: "Bases", Token: joinTokens(n.Bases, ", ")})
		}
		for _, m := range n.Members {
			t.add(Encode(m))
		}
		return t
	case *TypeDef:
		t := tree("TypeDef", n)
		t.Token = text(n.Primitive) + " " + text(n.Ident)
		return t
	case *Mixin:
		t := tree("Mixin", n)
		if n.Class != nil {
			t.add(Encode(n.Class))
		}
		return t
	case *Func:
		t := tree("Func", n).entity(n.Entity).access(n.Access)
		t.Token = text(n.Ident)
		switch head := n.Head.(type) {
		case ReturnHead:
			t.flag(head.Ref, "&")
			t.add(&Tree{Kind: "ReturnType", Children: []*Tree{encodeType(head.ReturnType)}})
		case ConstructorHead:
			t.flag(true, "constructor")
		case DestructorHead:
			t.flag(true, "destructor")
		}
		t.flag(n.Const, "const").funcAttr(n.Attr)
		t.add(params(n.Params))
		if n.Body != nil {
			t.add(Encode(n.Body))
		}
		return t
	case *FuncDef:
		t := tree("FuncDef", n).entity(n.Entity).flag(n.Ref, "&")
		t.Token = text(n.Ident)
		return t.add(encodeType(n.ReturnType), params(n.Params))
	case *IntfMethod:
		t := tree("IntfMethod", n).flag(n.Ref, "&").flag(n.Const, "const")
		t.Token = text(n.Ident)
		return t.add(encodeType(n.ReturnType), params(n.Params))
	case *Import:
		t := tree("Import", n).flag(n.Ref, "&").funcAttr(n.Attr)
		t.Token = text(n.Ident) + " from " + text(n.From)
		return t.add(encodeType(n.ReturnType), params(n.Params))
	case *VirtualProp:
		t := tree("VirtualProp", n).access(n.Access).flag(n.Ref, "&")
		t.Token = text(n.Ident)
		t.add(encodeType(n.Type))
		if n.Getter != nil {
			t.add(accessor("Get", n.Getter))
		}
		if n.Setter != nil {
			t.add(accessor("Set", n.Setter))
		}
		return t
	case *Accessor:
		return accessor("Accessor", n)
	case *Var:
		t := tree("Var", n).access(n.Access)
		t.add(encodeType(n.Type))
		for _, v := range n.Vars {
			item := &Tree{Kind: "VarInit", Token: text(v.Ident)}
			if v.Init != nil {
				item.add(Encode(v.Init))
			}
			t.add(item)
		}
		return t
	case *Scope:
		t := tree("Scope", n).flag(n.Global, "global")
		t.Token = joinTokens(n.Names, "::")
		return t.add(typeList("TypeParams", n.TypeParams))
	case *DataType:
		t := tree("DataType", n)
		t.Token = text(n.Ident)
		return t
	case *Type:
		t := tree("Type", n).flag(n.Const, "const").flag(n.Array, "[]")
		if n.Ref != nil {
			t.flag(true, n.Ref.String())
		}
		if n.DataType != nil {
			t.Token = text(n.DataType.Ident)
		}
		if n.Scope != nil {
			t.add(Encode(n.Scope))
		}
		return t.add(typeList("TypeParams", n.TypeParams))
	}
	return encodeBody(node)
}

func encodeBody(node Node) *Tree {
	switch n := node.(type) {
	case *StatBlock:
		t := tree("StatBlock", n)
		for _, item := range n.Items {
			t.add(Encode(item))
		}
		return t
	case *If:
		return tree("If", n).add(encodeAssign(n.Cond), Encode(n.Then), Encode(n.Else))
	case *For:
		t := tree("For", n).add(Encode(n.Init), encodeExprStat(n.Cond))
		for _, incr := range n.Incr {
			t.add(Encode(incr))
		}
		return t.add(Encode(n.Body))
	case *While:
		return tree("While", n).add(encodeAssign(n.Cond), Encode(n.Body))
	case *DoWhile:
		return tree("DoWhile", n).add(Encode(n.Body), encodeAssign(n.Cond))
	case *Return:
		return tree("Return", n).add(encodeAssign(n.Value))
	case *Break:
		return tree("Break", n)
	case *Continue:
		return tree("Continue", n)
	case *Switch:
		t := tree("Switch", n).add(encodeAssign(n.Value))
		for _, c := range n.Cases {
			t.add(Encode(c))
		}
		return t
	case *Case:
		t := tree("Case", n).flag(n.Value == nil, "default")
		if n.Value != nil {
			t.add(Encode(n.Value))
		}
		for _, s := range n.Body {
			t.add(Encode(s))
		}
		return t
	case *ExprStat:
		return encodeExprStat(n)
	case *Try:
		t := tree("Try", n)
		if n.Try != nil {
			t.add(Encode(n.Try))
		}
		if n.Catch != nil {
			t.add(Encode(n.Catch))
		}
		return t

	case *Expr:
		t := tree("Expr", n).add(Encode(n.Head))
		if n.Tail != nil {
			t.add(&Tree{Kind: "Op", Token: text(n.Tail.Op)})
			if n.Tail.Expr != nil {
				t.add(Encode(n.Tail.Expr))
			}
		}
		return t
	case *InitListTerm:
		t := tree("InitListTerm", n)
		if n.Type != nil {
			t.add(Encode(n.Type))
		}
		if n.InitList != nil {
			t.add(Encode(n.InitList))
		}
		return t
	case *ValueTerm:
		t := tree("ValueTerm", n)
		for _, op := range n.PreOps {
			t.add(&Tree{Kind: "PreOp", Token: op.Text})
		}
		t.add(Encode(n.Value))
		for _, op := range n.PostOps {
			t.add(Encode(op))
		}
		return t
	case *VoidValue:
		t := tree("Void", n)
		return t
	case *ConstructCall:
		t := tree("ConstructCall", n)
		if n.Type != nil {
			t.add(Encode(n.Type))
		}
		if n.Args != nil {
			t.add(Encode(n.Args))
		}
		return t
	case *FuncCall:
		t := tree("FuncCall", n)
		t.Token = text(n.Ident)
		if n.Scope != nil {
			t.add(Encode(n.Scope))
		}
		if n.Args != nil {
			t.add(Encode(n.Args))
		}
		return t
	case *VarAccess:
		t := tree("VarAccess", n)
		t.Token = text(n.Ident)
		if n.Scope != nil {
			t.add(Encode(n.Scope))
		}
		return t
	case *Cast:
		t := tree("Cast", n)
		if n.Type != nil {
			t.add(Encode(n.Type))
		}
		return t.add(encodeAssign(n.Value))
	case *Literal:
		t := tree("Literal", n)
		t.Token = text(n.Value)
		return t
	case *Lambda:
		t := tree("Lambda", n)
		for _, param := range n.Params {
			item := &Tree{Kind: "Param", Token: text(param.Ident)}
			if param.Mod != nil {
				item.flag(true, param.Mod.String())
			}
			if param.Type != nil {
				item.add(encodeType(param.Type))
			}
			t.add(item)
		}
		if n.Body != nil {
			t.add(Encode(n.Body))
		}
		return t
	case *MemberPostOp:
		t := tree("Member", n)
		switch m := n.Member.(type) {
		case MemberField:
			t.Token = text(m.Ident)
		case MemberCall:
			t.add(Encode(m.Call))
		}
		return t
	case *IndexPostOp:
		t := tree("Index", n)
		for _, idx := range n.Indexers {
			item := &Tree{Kind: "Indexer", Token: text(idx.Name)}
			item.add(encodeAssign(idx.Value))
			t.add(item)
		}
		return t
	case *CallPostOp:
		t := tree("Call", n)
		if n.Args != nil {
			t.add(Encode(n.Args))
		}
		return t
	case *IncDecPostOp:
		t := tree("PostOp", n)
		t.Token = text(n.Op)
		return t
	case *ArgList:
		t := tree("ArgList", n)
		for _, arg := range n.Args {
			item := &Tree{Kind: "Arg", Token: text(arg.Name)}
			item.add(encodeAssign(arg.Value))
			t.add(item)
		}
		return t
	case *InitList:
		t := tree("InitList", n)
		for _, item := range n.Items {
			t.add(Encode(item))
		}
		return t
	case *Assign:
		t := tree("Assign", n)
		if n.Cond != nil {
			t.add(Encode(n.Cond))
		}
		if n.Tail != nil {
			t.add(&Tree{Kind: "Op", Token: text(n.Tail.Op)}, encodeAssign(n.Tail.Assign))
		}
		return t
	case *Condition:
		t := tree("Condition", n)
		if n.Expr != nil {
			t.add(Encode(n.Expr))
		}
		if n.Ternary != nil {
			t.add(encodeAssign(n.Ternary.True), encodeAssign(n.Ternary.False))
		}
		return t
	}
	return &Tree{Kind: "Unknown"}
}

// encodeAssign and encodeExprStat keep typed nil pointers from reaching Encode
// as non-nil interfaces.
func encodeAssign(n *Assign) *Tree {
	if n == nil {
		return nil
	}
	return Encode(n)
}

func encodeType(n *Type) *Tree {
	if n == nil {
		return nil
	}
	return Encode(n)
}

func encodeExprStat(n *ExprStat) *Tree {
	if n == nil {
		return nil
	}
	return tree("ExprStat", n).add(encodeAssign(n.Value))
}

func typeList(kind string, types []*Type) *Tree {
	if len(types) == 0 {
		return nil
	}
	t := &Tree{Kind: kind}
	for _, typ := range types {
		t.add(Encode(typ))
	}
	return t
}

func params(list []*Param) *Tree {
	t := &Tree{Kind: "Params"}
	for _, param := range list {
		item := &Tree{Kind: "Param", Token: text(param.Ident)}
		if param.Mod != nil {
			item.flag(true, param.Mod.String())
		}
		item.add(encodeType(param.Type))
		if param.Default != nil {
			item.add(Encode(param.Default))
		}
		t.add(item)
	}
	return t
}

func accessor(kind string, n *Accessor) *Tree {
	t := tree(kind, n).flag(n.Const, "const").funcAttr(n.Attr)
	if n.Body != nil {
		t.add(Encode(n.Body))
	}
	return t
}

func joinTokens(tokens []*token.Token, sep string) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.Text
	}
	return strings.Join(parts, sep)
}
