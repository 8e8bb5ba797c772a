// Package ast defines the syntax tree produced by the parser.
//
// Each grammar category is a closed interface: only the node types in this
// package implement it, so a type switch over a category is exhaustive. Optional
// children are nil when absent.
package ast

import "github.com/dhamidi/asls/angelscript/token"

// Range is the first and last token of a node. Both are always set on nodes
// returned by the parser.
type Range struct {
	Start *token.Token
	End   *token.Token
}

func (r Range) NodeRange() Range {
	return r
}

func (r Range) Span() token.Span {
	if r.Start == nil || r.End == nil {
		return token.Span{}
	}
	return token.Span{Start: r.Start.Location.Start, End: r.End.Location.End}
}

func (r Range) Contains(pos token.Position) bool {
	return r.Start != nil && r.Span().Contains(pos)
}

type Node interface {
	NodeRange() Range
}

// Decl is an item of a script or namespace body.
type Decl interface {
	Node
	decl()
}

type ClassMember interface {
	Node
	classMember()
}

type InterfaceMember interface {
	Node
	interfaceMember()
}

// TypeDecl is a declaration that introduces a type symbol with members.
type TypeDecl interface {
	Decl
	Name() *token.Token
	typeDecl()
}

// FunctionDecl is a declaration that introduces a function symbol.
type FunctionDecl interface {
	Node
	Name() *token.Token
	Parameters() []*Param
	functionDecl()
}

// ScopeOwner is a node that owns a symbol scope.
type ScopeOwner interface {
	Node
	scopeOwner()
}

type AccessModifier int

const (
	Private AccessModifier = iota
	Protected
)

func (a AccessModifier) String() string {
	if a == Private {
		return "private"
	}
	return "protected"
}

type TypeModifier int

const (
	In TypeModifier = iota
	Out
	InOut
)

func (m TypeModifier) String() string {
	switch m {
	case In:
		return "in"
	case Out:
		return "out"
	}
	return "inout"
}

type RefModifier int

const (
	At RefModifier = iota
	AtConst
)

func (m RefModifier) String() string {
	if m == AtConst {
		return "@const"
	}
	return "@"
}

type EntityAttribute struct {
	Shared   bool
	External bool
	Abstract bool
	Final    bool
}

// Set turns on the attribute named by word.
func (a *EntityAttribute) Set(word string) {
	switch word {
	case "shared":
		a.Shared = true
	case "external":
		a.External = true
	case "abstract":
		a.Abstract = true
	case "final":
		a.Final = true
	}
}

type FunctionAttribute struct {
	Override bool
	Final    bool
	Explicit bool
	Property bool
}

func (a *FunctionAttribute) Set(word string) {
	switch word {
	case "override":
		a.Override = true
	case "final":
		a.Final = true
	case "explicit":
		a.Explicit = true
	case "property":
		a.Property = true
	}
}

// Script is the root: a sequence of declarations.
type Script struct {
	Range
	Items []Decl
}

type Namespace struct {
	Range
	Path  []*token.Token
	Items []Decl
}

type EnumMember struct {
	Name  *token.Token
	Value *Expr
}

type Enum struct {
	Range
	Entity  *EntityAttribute
	Ident   *token.Token
	Members []*EnumMember
	Body    Range
}

type Class struct {
	Range
	Entity     *EntityAttribute
	Ident      *token.Token
	TypeParams []*Type
	Bases      []*token.Token
	Members    []ClassMember
	Body       Range
}

type Interface struct {
	Range
	Entity  *EntityAttribute
	Ident   *token.Token
	Bases   []*token.Token
	Members []InterfaceMember
}

type TypeDef struct {
	Range
	Primitive *token.Token
	Ident     *token.Token
}

type Mixin struct {
	Range
	Class *Class
}

type Param struct {
	Type    *Type
	Mod     *TypeModifier
	Ident   *token.Token
	Default *Expr
}

// FuncHead distinguishes ordinary functions from constructors and destructors.
type FuncHead interface {
	funcHead()
}

type ReturnHead struct {
	ReturnType *Type
	Ref        bool
}

type ConstructorHead struct{}

type DestructorHead struct{}

type Func struct {
	Range
	Entity *EntityAttribute
	Access *AccessModifier
	Head   FuncHead
	Ident  *token.Token
	Params []*Param
	Const  bool
	Attr   *FunctionAttribute
	Body   *StatBlock
}

type FuncDef struct {
	Range
	Entity     *EntityAttribute
	ReturnType *Type
	Ref        bool
	Ident      *token.Token
	Params     []*Param
}

type IntfMethod struct {
	Range
	ReturnType *Type
	Ref        bool
	Ident      *token.Token
	Params     []*Param
	Const      bool
}

type Import struct {
	Range
	ReturnType *Type
	Ref        bool
	Ident      *token.Token
	Params     []*Param
	Attr       *FunctionAttribute
	From       *token.Token
}

// Accessor is the get or set half of a virtual property.
type Accessor struct {
	Range
	Const bool
	Attr  *FunctionAttribute
	Body  *StatBlock
}

type VirtualProp struct {
	Range
	Access *AccessModifier
	Type   *Type
	Ref    bool
	Ident  *token.Token
	Getter *Accessor
	Setter *Accessor
}

// VarInitializer is the optional initializer of a declared variable.
type VarInitializer interface {
	Node
	varInitializer()
}

type VarInit struct {
	Ident *token.Token
	Init  VarInitializer
}

type Var struct {
	Range
	Access *AccessModifier
	Type   *Type
	Vars   []*VarInit
}

type Scope struct {
	Range
	Global     bool
	Names      []*token.Token
	TypeParams []*Type
}

type DataType struct {
	Range
	Ident *token.Token
}

type Type struct {
	Range
	Const      bool
	Scope      *Scope
	DataType   *DataType
	TypeParams []*Type
	Array      bool
	Ref        *RefModifier
}

func (n *Enum) Name() *token.Token      { return n.Ident }
func (n *Class) Name() *token.Token     { return n.Ident }
func (n *Interface) Name() *token.Token { return n.Ident }

func (n *Func) Name() *token.Token       { return n.Ident }
func (n *FuncDef) Name() *token.Token    { return n.Ident }
func (n *IntfMethod) Name() *token.Token { return n.Ident }
func (n *Import) Name() *token.Token     { return n.Ident }

func (n *Func) Parameters() []*Param       { return n.Params }
func (n *FuncDef) Parameters() []*Param    { return n.Params }
func (n *IntfMethod) Parameters() []*Param { return n.Params }
func (n *Import) Parameters() []*Param     { return n.Params }

func (*Namespace) decl()   {}
func (*Enum) decl()        {}
func (*Class) decl()       {}
func (*Interface) decl()   {}
func (*TypeDef) decl()     {}
func (*Mixin) decl()       {}
func (*FuncDef) decl()     {}
func (*Func) decl()        {}
func (*VirtualProp) decl() {}
func (*Var) decl()         {}
func (*Import) decl()      {}

func (*FuncDef) classMember()     {}
func (*Func) classMember()        {}
func (*VirtualProp) classMember() {}
func (*Var) classMember()         {}

func (*IntfMethod) interfaceMember()  {}
func (*VirtualProp) interfaceMember() {}

func (*Enum) typeDecl()      {}
func (*Class) typeDecl()     {}
func (*Interface) typeDecl() {}

func (*Func) functionDecl()       {}
func (*FuncDef) functionDecl()    {}
func (*IntfMethod) functionDecl() {}
func (*Import) functionDecl()     {}

func (ReturnHead) funcHead()      {}
func (ConstructorHead) funcHead() {}
func (DestructorHead) funcHead()  {}

func (*Namespace) scopeOwner() {}
func (*Enum) scopeOwner()      {}
func (*Class) scopeOwner()     {}
func (*Interface) scopeOwner() {}
func (*Accessor) scopeOwner()  {}
func (*Func) scopeOwner()      {}
func (*If) scopeOwner()        {}
func (*For) scopeOwner()       {}
func (*Lambda) scopeOwner()    {}
func (*StatBlock) scopeOwner() {}
