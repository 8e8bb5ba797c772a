package symbols_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dhamidi/asls/angelscript/ast"
	"github.com/dhamidi/asls/angelscript/parser"
	"github.com/dhamidi/asls/angelscript/symbols"
	"github.com/dhamidi/asls/angelscript/token"
)

func analyze(t *testing.T, src string, opts ...symbols.Option) *symbols.Analysis {
	t.Helper()
	result := parser.ParseSource("test.as", []byte(src))
	if len(result.Diagnostics) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", result.Diagnostics)
	}
	return symbols.Analyze(result.Script, opts...)
}

func messages(a *symbols.Analysis) []string {
	var result []string
	for _, d := range a.Diagnostics {
		result = append(result, d.Message)
	}
	return result
}

func mustAnalyze(t *testing.T, src string, opts ...symbols.Option) *symbols.Analysis {
	t.Helper()
	a := analyze(t, src, opts...)
	if len(a.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", messages(a))
	}
	return a
}

// find returns the first symbol named name anywhere in the tree.
func find(a *symbols.Analysis, name string) symbols.Symbol {
	var found symbols.Symbol
	a.Global.Walk(func(s *symbols.Scope) {
		if found == nil {
			found = s.Lookup(name)
		}
	})
	return found
}

// at returns the position of the first occurrence of substr in a one-line source.
func at(src, substr string) token.Position {
	return token.Position{Line: 1, Column: strings.Index(src, substr) + 1}
}

func TestOverloadsChainInDeclarationOrder(t *testing.T) {
	a := mustAnalyze(t, "void foo() {}\nvoid foo(int x) {}")
	head, ok := a.Global.Lookup("foo").(*symbols.FunctionSymbol)
	if !ok {
		t.Fatalf("foo is %T, want *FunctionSymbol", a.Global.Lookup("foo"))
	}
	overloads := head.Overloads()
	if len(overloads) != 2 {
		t.Fatalf("got %d overloads, want 2", len(overloads))
	}
	if line := overloads[0].Place().Location.Start.Line; line != 1 {
		t.Errorf("first overload on line %d, want 1", line)
	}
	if head.NextOverload() != overloads[1] || overloads[1].NextOverload() != nil {
		t.Error("overload chain is not linked in order")
	}
	if got := overloads[1].ParamTypes[0].String(); got != "int" {
		t.Errorf("second overload parameter = %s, want int", got)
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"int x; int x;", []string{"'x' is already declared"}},
		{"class A {} int A;", []string{"'A' is already declared"}},
		{"void f() { y = 1; }", []string{"'y' is not defined"}},
		{"Missing m;", []string{"'Missing' is not defined"}},
		{"void f() { B::v = 1; }", []string{"'B' is not defined"}},
		{"class D : Nowhere {}", []string{"'Nowhere' is not defined"}},
		{"void f(int a) { int a; }", []string{"'a' is already declared"}},
		{"void f() { int x; { int x; } }", nil},
		{"int foo; void foo() {}", []string{"'foo' is already declared"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := messages(analyze(t, tt.input))
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResolvesWithoutDiagnostics(t *testing.T) {
	tests := []string{
		"int g; void f() { g = 1; }",
		"void f() { g(); } void g() {}",
		"class Foo { int x; void m() { x = 1; this.x = 2; } }",
		"class B { int x; } class D : B { void m() { x = 1; } }",
		"namespace A { int v; } void f() { A::v = 1; }",
		"namespace A::B { int v; } void f() { A::B::v = 1; }",
		"enum E { A, B = A } void f() { E e = E::A; }",
		"class Foo { Foo() {} Foo make() { return Foo(); } }",
		"interface I { void run(); } class C : I { void run() {} } void f(I@ i) { i.run(); }",
		"class P { int n { get { return 1; } set { int m = value; } } }",
		"void f() { for (int i = 0; i < 10; i++) { i += 1; } }",
		"funcdef void CB(); void f(CB@ cb) { cb(); }",
		"void f() { string s = \"x\"; auto n = 1; }",
		"typedef float real; real r;",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			mustAnalyze(t, src)
		})
	}
}

func TestReferences(t *testing.T) {
	a := mustAnalyze(t, "int g; void f() { g = g + 1; }")
	g := a.Global.Lookup("g")
	refs := a.ReferencesTo(g)
	if len(refs) != 3 {
		t.Fatalf("got %d references, want 3", len(refs))
	}
	if !refs[0].Declaration || refs[1].Declaration {
		t.Errorf("only the first reference should be the declaration: %+v", refs)
	}
}

func TestImplicitSymbolsHaveNoDeclaration(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"value", "class A { int n; int v { set { n = value; } } }"},
		{"this", "class A { int n; void f() { this.n = 1; } }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustAnalyze(t, tt.src)
			sym := find(a, tt.name)
			if sym == nil {
				t.Fatalf("no symbol %s", tt.name)
			}
			refs := a.ReferencesTo(sym)
			if len(refs) != 1 {
				t.Fatalf("got %d references, want 1", len(refs))
			}
			if refs[0].Declaration || refs[0].Token.Location.Start.Line != 1 {
				t.Errorf("reference %+v should be a use in the source", refs[0])
			}
		})
	}
}

func TestReferenceAt(t *testing.T) {
	src := "class Foo { int x; } void f() { Foo a; a.x = 1; }"
	a := mustAnalyze(t, src)

	ref, ok := a.ReferenceAt(at(src, "x = 1"))
	if !ok {
		t.Fatal("no reference at x")
	}
	if _, isVar := ref.Symbol.(*symbols.VariableSymbol); !isVar || ref.Symbol.Place().Text != "x" {
		t.Errorf("reference resolves to %v", ref.Symbol.Place())
	}
	if ref.Symbol.Place().Location.Start.Column != strings.Index(src, "x;")+1 {
		t.Errorf("definition at %v", ref.Symbol.Place().Location.Start)
	}

	ref, ok = a.ReferenceAt(at(src, "Foo a"))
	if !ok || symbols.Kind(ref.Symbol) != "type" {
		t.Errorf("Foo should resolve to a type, got %+v", ref)
	}
}

func TestWithoutServices(t *testing.T) {
	a := mustAnalyze(t, "int g; void f() { g = 1; }", symbols.WithServices(false))
	if refs := a.ReferencesTo(a.Global.Lookup("g")); len(refs) != 0 {
		t.Errorf("got %d references, want none", len(refs))
	}
}

func TestBuiltinsAreShared(t *testing.T) {
	first := mustAnalyze(t, "int a; string s;")
	second := mustAnalyze(t, "int b;")

	a := first.Global.Lookup("a").(*symbols.VariableSymbol)
	b := second.Global.Lookup("b").(*symbols.VariableSymbol)
	if a.Type.Symbol != b.Type.Symbol {
		t.Error("int resolved to different symbols")
	}
	if a.Type.Symbol != symbols.Builtins().Lookup("int") {
		t.Error("int is not the registry's symbol")
	}
	s := first.Global.Lookup("s").(*symbols.VariableSymbol)
	if s.Type.TypeSymbol() != symbols.Builtins().Lookup("string") {
		t.Error("string is not the registry's symbol")
	}
	if p, _ := s.Type.TypeSymbol().Primitive(); p != symbols.PrimitiveString {
		t.Errorf("string primitive = %s", p)
	}
}

func TestTemplateSubstitution(t *testing.T) {
	src := "class Box<T> { T get() { return v; } T v; } class Foo { int n; } void f() { Box<Foo> b; b.get().n = 1; b.v.n = 2; }"
	a := mustAnalyze(t, src)
	n := find(a, "n")
	if n == nil {
		t.Fatal("n not declared")
	}
	if refs := a.ReferencesTo(n); len(refs) != 3 {
		t.Errorf("got %d references to n, want 3", len(refs))
	}
	b := find(a, "b").(*symbols.VariableSymbol)
	if got := b.Type.String(); got != "Box<Foo>" {
		t.Errorf("b has type %s, want Box<Foo>", got)
	}
}

func TestAutoTakesInitializerType(t *testing.T) {
	a := mustAnalyze(t, "void f() { auto x = 1.5f; auto y = x; }")
	for name, want := range map[string]string{"x": "float", "y": "float"} {
		v := find(a, name).(*symbols.VariableSymbol)
		if got := v.Type.String(); got != want {
			t.Errorf("%s has type %s, want %s", name, got, want)
		}
	}
}

func TestScopeAt(t *testing.T) {
	a := mustAnalyze(t, "void f() {\n  int x;\n}\nint y;")

	inner := a.ScopeAt(token.Position{Line: 2, Column: 7})
	if _, ok := inner.Owner.(*ast.Func); !ok {
		t.Fatalf("innermost owner is %T, want *ast.Func", inner.Owner)
	}
	if inner.Lookup("x") == nil {
		t.Error("x not declared in function scope")
	}
	if sym, _ := inner.Resolve("y"); sym == nil {
		t.Error("y not visible from function scope")
	}
	if outer := a.ScopeAt(token.Position{Line: 4, Column: 2}); outer != a.Global {
		t.Error("position outside function should be in the global scope")
	}
}

func TestVisibleShadows(t *testing.T) {
	a := mustAnalyze(t, "int x; void f() {\n  float x;\n}")
	scope := a.ScopeAt(token.Position{Line: 2, Column: 3})
	var xs []*symbols.VariableSymbol
	for _, sym := range scope.Visible() {
		if v, ok := sym.(*symbols.VariableSymbol); ok && v.Place().Text == "x" {
			xs = append(xs, v)
		}
	}
	if len(xs) != 1 || xs[0].Type.String() != "float" {
		t.Errorf("visible x = %v", xs)
	}
}

func TestMemberCompletion(t *testing.T) {
	src := "class B { void run() {} } class Foo : B { int x; } void f() { Foo a; a.x; }"
	a := mustAnalyze(t, src)

	hint := a.HintAt(at(src, ".x;"))
	member, ok := hint.(symbols.MemberHint)
	if !ok {
		t.Fatalf("hint is %T, want MemberHint", hint)
	}
	if member.Receiver.String() != "Foo" {
		t.Errorf("receiver = %s", member.Receiver)
	}
	var names []string
	for _, sym := range symbols.Members(hint) {
		names = append(names, sym.Place().Text)
	}
	if !reflect.DeepEqual(names, []string{"x", "run"}) {
		t.Errorf("members = %v, want [x run]", names)
	}
}

func TestNamespaceCompletion(t *testing.T) {
	src := "namespace N { int a; void b() {} } void f() { N::a = 1; }"
	a := mustAnalyze(t, src)
	hint, ok := a.HintAt(at(src, "::a")).(symbols.NamespaceHint)
	if !ok {
		t.Fatal("no namespace hint")
	}
	var names []string
	for _, sym := range symbols.Members(hint) {
		names = append(names, sym.Place().Text)
	}
	if !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Errorf("members = %v, want [a b]", names)
	}
}

func TestWithGlobal(t *testing.T) {
	predefined := mustAnalyze(t, "class array<T> { T opIndex(int i); } void print(const string &in s);")
	before := len(predefined.Global.Children())

	a := mustAnalyze(t, "void f() { array<int> xs; print(\"hi\"); int n = xs[0]; }", symbols.WithGlobal(predefined.Global))
	if len(predefined.Global.Children()) != before {
		t.Error("analysis modified the predefined scope")
	}
	printFn := predefined.Global.Lookup("print")
	if refs := a.ReferencesTo(printFn); len(refs) != 1 {
		t.Errorf("got %d references to print, want 1", len(refs))
	}
}

func TestDump(t *testing.T) {
	a := mustAnalyze(t, "void foo() {}\nvoid foo(int x) {}")
	got := symbols.Dump(a.Global)
	for _, want := range []string{
		"scope\n",
		"  function foo() void\n",
		"  function foo(int) void\n",
		"    variable x int\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("dump is missing %q:\n%s", want, got)
		}
	}
}
