package ast

import "github.com/dhamidi/asls/angelscript/token"

type Statement interface {
	Node
	BlockItem
	statement()
}

// BlockItem is an entry of a statement block: a variable declaration or a statement.
type BlockItem interface {
	Node
	blockItem()
}

// ForInit is the first clause of a for loop.
type ForInit interface {
	Node
	forInit()
}

type StatBlock struct {
	Range
	Items []BlockItem
}

type If struct {
	Range
	Cond *Assign
	Then Statement
	Else Statement
}

type For struct {
	Range
	Init ForInit
	Cond *ExprStat
	Incr []*Assign
	Body Statement
}

type While struct {
	Range
	Cond *Assign
	Body Statement
}

type DoWhile struct {
	Range
	Body Statement
	Cond *Assign
}

type Return struct {
	Range
	Value *Assign
}

type Break struct {
	Range
}

type Continue struct {
	Range
}

type Case struct {
	Range
	// Value is nil for the default label.
	Value *Expr
	Body  []Statement
}

type Switch struct {
	Range
	Value *Assign
	Cases []*Case
}

// ExprStat is an expression followed by ';'. Value is nil for an empty statement.
type ExprStat struct {
	Range
	Value *Assign
}

type Try struct {
	Range
	Try   *StatBlock
	Catch *StatBlock
}

// Keyword returns the leading token of a statement, e.g. "if" or "{".
func Keyword(s Statement) *token.Token {
	return s.NodeRange().Start
}

func (*StatBlock) statement() {}
func (*If) statement()        {}
func (*For) statement()       {}
func (*While) statement()     {}
func (*DoWhile) statement()   {}
func (*Return) statement()    {}
func (*Break) statement()     {}
func (*Continue) statement()  {}
func (*Switch) statement()    {}
func (*ExprStat) statement()  {}
func (*Try) statement()       {}

func (*Var) blockItem()       {}
func (*StatBlock) blockItem() {}
func (*If) blockItem()        {}
func (*For) blockItem()       {}
func (*While) blockItem()     {}
func (*DoWhile) blockItem()   {}
func (*Return) blockItem()    {}
func (*Break) blockItem()     {}
func (*Continue) blockItem()  {}
func (*Switch) blockItem()    {}
func (*ExprStat) blockItem()  {}
func (*Try) blockItem()       {}

func (*Var) forInit()      {}
func (*ExprStat) forInit() {}
