package ast

import "github.com/dhamidi/asls/angelscript/token"

// Expr is EXPRTERM {EXPROP EXPRTERM} as a right-leaning chain. No precedence is
// applied: "a + b * c" is Head a, Tail{+, Expr{b, Tail{*, c}}}.
type Expr struct {
	Range
	Head ExprTerm
	Tail *ExprTail
}

type ExprTail struct {
	Op   *token.Token
	Expr *Expr
}

type ExprTerm interface {
	Node
	exprTerm()
}

// InitListTerm is [TYPE '='] INITLIST.
type InitListTerm struct {
	Range
	Type     *Type
	InitList *InitList
}

// ValueTerm is {EXPRPREOP} EXPRVALUE {EXPRPOSTOP}.
type ValueTerm struct {
	Range
	PreOps  []*token.Token
	Value   ExprValue
	PostOps []PostOp
}

type ExprValue interface {
	Node
	exprValue()
}

type VoidValue struct {
	Range
}

type ConstructCall struct {
	Range
	Type *Type
	Args *ArgList
}

type FuncCall struct {
	Range
	Scope *Scope
	Ident *token.Token
	Args  *ArgList
}

// VarAccess names a variable. Ident is nil when a scope prefix is not followed
// by an identifier.
type VarAccess struct {
	Range
	Scope *Scope
	Ident *token.Token
}

type Cast struct {
	Range
	Type  *Type
	Value *Assign
}

type Literal struct {
	Range
	Value *token.Token
}

type LambdaParam struct {
	Type  *Type
	Mod   *TypeModifier
	Ident *token.Token
}

type Lambda struct {
	Range
	Params []*LambdaParam
	Body   *StatBlock
}

type PostOp interface {
	Node
	postOp()
}

// Member is the right-hand side of a '.' post operator.
type Member interface {
	member()
}

type MemberField struct {
	Ident *token.Token
}

type MemberCall struct {
	Call *FuncCall
}

type MemberPostOp struct {
	Range
	// Member is nil when '.' is not followed by a name.
	Member Member
}

type Indexer struct {
	Name  *token.Token
	Value *Assign
}

type IndexPostOp struct {
	Range
	Indexers []*Indexer
}

type CallPostOp struct {
	Range
	Args *ArgList
}

type IncDecPostOp struct {
	Range
	Op *token.Token
}

type Argument struct {
	Name  *token.Token
	Value *Assign
}

type ArgList struct {
	Range
	Args []*Argument
}

// InitItem is an element of an initializer list.
type InitItem interface {
	Node
	initItem()
}

type InitList struct {
	Range
	Items []InitItem
}

// Assign is CONDITION [ASSIGNOP ASSIGN], associating to the right.
type Assign struct {
	Range
	Cond *Condition
	Tail *AssignTail
}

type AssignTail struct {
	Op     *token.Token
	Assign *Assign
}

type Condition struct {
	Range
	Expr    *Expr
	Ternary *Ternary
}

type Ternary struct {
	True  *Assign
	False *Assign
}

func (*InitListTerm) exprTerm() {}
func (*ValueTerm) exprTerm()    {}

func (*VoidValue) exprValue()     {}
func (*ConstructCall) exprValue() {}
func (*FuncCall) exprValue()      {}
func (*VarAccess) exprValue()     {}
func (*Cast) exprValue()          {}
func (*Literal) exprValue()       {}
func (*Assign) exprValue()        {}
func (*Lambda) exprValue()        {}

func (MemberField) member() {}
func (MemberCall) member()  {}

func (*MemberPostOp) postOp() {}
func (*IndexPostOp) postOp()  {}
func (*CallPostOp) postOp()   {}
func (*IncDecPostOp) postOp() {}

func (*Assign) initItem()   {}
func (*InitList) initItem() {}

func (*InitList) varInitializer() {}
func (*Expr) varInitializer()     {}
func (*ArgList) varInitializer()  {}
