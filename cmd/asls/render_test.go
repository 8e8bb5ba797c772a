package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dhamidi/asls/angelscript/diag"
	"github.com/dhamidi/asls/angelscript/token"
	"github.com/dhamidi/asls/config"
)

func TestDiagnosticPrinter(t *testing.T) {
	tests := []struct {
		name    string
		d       diag.Diagnostic
		content string
		want    string
	}{
		{
			name: "caret under span",
			d: diag.Diagnostic{
				Severity: diag.Error,
				Message:  "'x' is already declared",
				Path:     "main.as",
				Span: token.Span{
					Start: token.Position{Line: 1, Column: 12},
					End:   token.Position{Line: 1, Column: 13},
				},
			},
			content: "int x; int x;",
			want: "main.as:1:12: error: 'x' is already declared\n" +
				"    int x; int x;\n" +
				"               ^\n",
		},
		{
			name: "tabs kept in padding",
			d: diag.Diagnostic{
				Severity: diag.Warning,
				Message:  "odd",
				Path:     "a.as",
				Span: token.Span{
					Start: token.Position{Line: 2, Column: 2},
					End:   token.Position{Line: 2, Column: 5},
				},
			},
			content: "void f() {\n\tfoo();\n}",
			want: "a.as:2:2: warning: odd\n" +
				"    \tfoo();\n" +
				"    \t^^^\n",
		},
		{
			name: "no source line",
			d: diag.Diagnostic{
				Severity: diag.Error,
				Message:  "expected '}'",
				Path:     "b.as",
			},
			content: "class A {",
			want:    "b.as:0:0: error: expected '}'\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			newDiagnosticPrinter(&buf).Print(tt.d, []byte(tt.content))
			if got := buf.String(); got != tt.want {
				t.Errorf("Print() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	p := newDiagnosticPrinter(&buf)
	p.Summary(1, 0, 2)
	p.Summary(0, 3, 1)
	want := "1 error, 0 warnings in 2 files\n0 errors, 3 warnings in 1 file\n"
	if got := buf.String(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestLoadDocumentsUsesPredefined(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"as.predefined": "void print(const string &in s);",
		"main.as":       `void main() { print("hi"); }`,
		"other.as":      "void other() { missing(); }",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	paths := []string{filepath.Join(dir, "main.as"), filepath.Join(dir, "other.as")}
	_, snaps, err := loadDocuments(config.Default(), paths)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snaps))
	}

	var got [][]string
	for _, snap := range snaps {
		var messages []string
		for _, d := range snap.Diagnostics() {
			messages = append(messages, d.Message)
		}
		got = append(got, messages)
	}
	want := [][]string{nil, {"'missing' is not defined"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("diagnostics = %v, want %v", got, want)
	}
}

func TestLoadDocumentsMissingFile(t *testing.T) {
	if _, _, err := loadDocuments(config.Default(), []string{filepath.Join(t.TempDir(), "nope.as")}); err == nil {
		t.Error("expected an error for a missing file")
	}
}
