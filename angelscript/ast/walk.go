package ast

// Inspect calls fn for node and, while fn returns true, for each of its
// children in source order.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, fn)
	}
}

// Children returns the direct child nodes of node in source order. Entries of
// helper structs such as parameters and arguments are flattened into their
// node-typed parts.
func Children(node Node) []Node {
	var out []Node
	switch n := node.(type) {
	case *Script:
		for _, item := range n.Items {
			out = append(out, item)
		}
	case *Namespace:
		for _, item := range n.Items {
			out = append(out, item)
		}
	case *Enum:
		for _, m := range n.Members {
			if m.Value != nil {
				out = append(out, m.Value)
			}
		}
	case *Class:
		out = appendTypes(out, n.TypeParams)
		for _, m := range n.Members {
			out = append(out, m)
		}
	case *Interface:
		for _, m := range n.Members {
			out = append(out, m)
		}
	case *Mixin:
		if n.Class != nil {
			out = append(out, n.Class)
		}
	case *Func:
		if head, ok := n.Head.(ReturnHead); ok && head.ReturnType != nil {
			out = append(out, head.ReturnType)
		}
		out = appendParams(out, n.Params)
		if n.Body != nil {
			out = append(out, n.Body)
		}
	case *FuncDef:
		out = appendSignature(out, n.ReturnType, n.Params)
	case *IntfMethod:
		out = appendSignature(out, n.ReturnType, n.Params)
	case *Import:
		out = appendSignature(out, n.ReturnType, n.Params)
	case *VirtualProp:
		if n.Type != nil {
			out = append(out, n.Type)
		}
		if n.Getter != nil {
			out = append(out, n.Getter)
		}
		if n.Setter != nil {
			out = append(out, n.Setter)
		}
	case *Accessor:
		if n.Body != nil {
			out = append(out, n.Body)
		}
	case *Var:
		if n.Type != nil {
			out = append(out, n.Type)
		}
		for _, v := range n.Vars {
			if v.Init != nil {
				out = append(out, v.Init)
			}
		}
	case *Scope:
		out = appendTypes(out, n.TypeParams)
	case *Type:
		if n.Scope != nil {
			out = append(out, n.Scope)
		}
		if n.DataType != nil {
			out = append(out, n.DataType)
		}
		out = appendTypes(out, n.TypeParams)

	case *StatBlock:
		for _, item := range n.Items {
			out = append(out, item)
		}
	case *If:
		out = appendAssign(out, n.Cond)
		if n.Then != nil {
			out = append(out, n.Then)
		}
		if n.Else != nil {
			out = append(out, n.Else)
		}
	case *For:
		if n.Init != nil {
			out = append(out, n.Init)
		}
		if n.Cond != nil {
			out = append(out, n.Cond)
		}
		for _, incr := range n.Incr {
			out = append(out, incr)
		}
		if n.Body != nil {
			out = append(out, n.Body)
		}
	case *While:
		out = appendAssign(out, n.Cond)
		if n.Body != nil {
			out = append(out, n.Body)
		}
	case *DoWhile:
		if n.Body != nil {
			out = append(out, n.Body)
		}
		out = appendAssign(out, n.Cond)
	case *Return:
		out = appendAssign(out, n.Value)
	case *Switch:
		out = appendAssign(out, n.Value)
		for _, c := range n.Cases {
			out = append(out, c)
		}
	case *Case:
		if n.Value != nil {
			out = append(out, n.Value)
		}
		for _, s := range n.Body {
			out = append(out, s)
		}
	case *ExprStat:
		out = appendAssign(out, n.Value)
	case *Try:
		if n.Try != nil {
			out = append(out, n.Try)
		}
		if n.Catch != nil {
			out = append(out, n.Catch)
		}

	case *Expr:
		if n.Head != nil {
			out = append(out, n.Head)
		}
		if n.Tail != nil && n.Tail.Expr != nil {
			out = append(out, n.Tail.Expr)
		}
	case *InitListTerm:
		if n.Type != nil {
			out = append(out, n.Type)
		}
		if n.InitList != nil {
			out = append(out, n.InitList)
		}
	case *ValueTerm:
		if n.Value != nil {
			out = append(out, n.Value)
		}
		for _, op := range n.PostOps {
			out = append(out, op)
		}
	case *ConstructCall:
		if n.Type != nil {
			out = append(out, n.Type)
		}
		if n.Args != nil {
			out = append(out, n.Args)
		}
	case *FuncCall:
		if n.Scope != nil {
			out = append(out, n.Scope)
		}
		if n.Args != nil {
			out = append(out, n.Args)
		}
	case *VarAccess:
		if n.Scope != nil {
			out = append(out, n.Scope)
		}
	case *Cast:
		if n.Type != nil {
			out = append(out, n.Type)
		}
		out = appendAssign(out, n.Value)
	case *Lambda:
		for _, param := range n.Params {
			if param.Type != nil {
				out = append(out, param.Type)
			}
		}
		if n.Body != nil {
			out = append(out, n.Body)
		}
	case *MemberPostOp:
		if call, ok := n.Member.(MemberCall); ok && call.Call != nil {
			out = append(out, call.Call)
		}
	case *IndexPostOp:
		for _, idx := range n.Indexers {
			out = appendAssign(out, idx.Value)
		}
	case *CallPostOp:
		if n.Args != nil {
			out = append(out, n.Args)
		}
	case *ArgList:
		for _, arg := range n.Args {
			out = appendAssign(out, arg.Value)
		}
	case *InitList:
		for _, item := range n.Items {
			out = append(out, item)
		}
	case *Assign:
		if n.Cond != nil {
			out = append(out, n.Cond)
		}
		if n.Tail != nil {
			out = appendAssign(out, n.Tail.Assign)
		}
	case *Condition:
		if n.Expr != nil {
			out = append(out, n.Expr)
		}
		if n.Ternary != nil {
			out = appendAssign(out, n.Ternary.True)
			out = appendAssign(out, n.Ternary.False)
		}
	}
	return out
}

func appendTypes(out []Node, types []*Type) []Node {
	for _, t := range types {
		out = append(out, t)
	}
	return out
}

func appendParams(out []Node, params []*Param) []Node {
	for _, param := range params {
		if param.Type != nil {
			out = append(out, param.Type)
		}
		if param.Default != nil {
			out = append(out, param.Default)
		}
	}
	return out
}

func appendSignature(out []Node, returnType *Type, params []*Param) []Node {
	if returnType != nil {
		out = append(out, returnType)
	}
	return appendParams(out, params)
}

func appendAssign(out []Node, assign *Assign) []Node {
	if assign != nil {
		out = append(out, assign)
	}
	return out
}
