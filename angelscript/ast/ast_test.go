package ast_test

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/asls/angelscript/ast"
	"github.com/dhamidi/asls/angelscript/parser"
	"github.com/dhamidi/asls/angelscript/token"
)

func parse(t *testing.T, src string) *ast.Script {
	t.Helper()
	result := parser.ParseSource("test.as", []byte(src))
	if len(result.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics)
	}
	return result.Script
}

func TestDump(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"class Foo { int x; }",
			"Script\n  Class Foo\n    Var\n      Type int\n      VarInit x\n",
		},
		{
			"enum E { A, B = 1 }",
			"Script\n  Enum E\n    EnumMember A\n    EnumMember B\n      Expr\n        ValueTerm\n          Literal 1\n",
		},
		{
			"shared class C : B {}",
			"Script\n  Class C (shared)\n    Bases B\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ast.Dump(parse(t, tt.input), false)
			if got != tt.expected {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.expected)
			}
		})
	}
}

func TestDumpPositions(t *testing.T) {
	got := ast.Dump(parse(t, "int x;"), true)
	if !strings.HasPrefix(got, "Script [1:1-1:7]\n  Var [1:1-1:7]\n") {
		t.Errorf("unexpected dump:\n%s", got)
	}
}

func TestInspectVisitsInSourceOrder(t *testing.T) {
	script := parse(t, "int f() { return a + b * c; }")
	var names []string
	ast.Inspect(script, func(n ast.Node) bool {
		if access, ok := n.(*ast.VarAccess); ok {
			names = append(names, access.Ident.Text)
		}
		return true
	})
	if strings.Join(names, ",") != "a,b,c" {
		t.Errorf("visited %v, want [a b c]", names)
	}
}

func TestInspectStops(t *testing.T) {
	script := parse(t, "class A { void f() { x; } } void g() { y; }")
	var visited int
	ast.Inspect(script, func(n ast.Node) bool {
		visited++
		_, isClass := n.(*ast.Class)
		return !isClass
	})
	// Script, Class, then g and everything below it.
	var below int
	ast.Inspect(script.Items[1], func(ast.Node) bool {
		below++
		return true
	})
	if visited != 2+below {
		t.Errorf("visited %d nodes, want %d", visited, 2+below)
	}
}

func TestChildrenSkipsAbsentParts(t *testing.T) {
	script := parse(t, "void f() { return; }")
	fn := script.Items[0].(*ast.Func)
	ret := fn.Body.Items[0]
	if children := ast.Children(ret); len(children) != 0 {
		t.Errorf("got %d children, want 0", len(children))
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := ast.MarshalJSON(parse(t, "class Foo {}"))
	if err != nil {
		t.Fatal(err)
	}
	var tree ast.Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		t.Fatal(err)
	}
	if tree.Kind != "Script" || len(tree.Children) != 1 {
		t.Fatalf("unexpected tree: %+v", tree)
	}
	class := tree.Children[0]
	if class.Kind != "Class" || class.Token != "Foo" {
		t.Errorf("class = %+v", class)
	}
	if class.Span == nil || class.Span.Start.Line != 1 || class.Span.End.Column != 13 {
		t.Errorf("class span = %+v", class.Span)
	}
}

func TestMarshalYAML(t *testing.T) {
	data, err := ast.MarshalYAML(parse(t, "int x;"))
	if err != nil {
		t.Fatal(err)
	}
	var tree ast.Tree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		t.Fatal(err)
	}
	if tree.Kind != "Script" || tree.Children[0].Kind != "Var" {
		t.Errorf("unexpected tree: %+v", tree)
	}
}

func TestRangeContains(t *testing.T) {
	script := parse(t, "int x;\nint y;")
	second := script.Items[1].NodeRange()
	if !second.Contains(token.Position{Line: 2, Column: 3}) {
		t.Error("second declaration should contain 2:3")
	}
	if second.Contains(token.Position{Line: 1, Column: 3}) {
		t.Error("second declaration should not contain 1:3")
	}
}
