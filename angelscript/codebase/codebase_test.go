package codebase

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/asls/angelscript/token"
	"github.com/dhamidi/asls/config"
)

// at returns the position of the first occurrence of substr on the first line
// of src, shifted by offset columns.
func at(src, substr string, offset int) token.Position {
	return token.Position{Line: 1, Column: strings.Index(src, substr) + 1 + offset}
}

func messages(snap *Snapshot) []string {
	var result []string
	for _, d := range snap.Diagnostics() {
		result = append(result, d.Message)
	}
	return result
}

func labels(items []CompletionItem) []string {
	var result []string
	for _, item := range items {
		result = append(result, item.Label)
	}
	sort.Strings(result)
	return result
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateFileDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"clean", "int x; void f() { x = 1; }", nil},
		{"redeclared", "int x; int x;", []string{"'x' is already declared"}},
		{"undefined", "void f() { y = 1; }", []string{"'y' is not defined"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			c := New(dir, nil)
			snaps := c.UpdateFile(filepath.Join(dir, "main.as"), []byte(tt.src))
			if len(snaps) != 1 {
				t.Fatalf("got %d snapshots, want 1", len(snaps))
			}
			if got := messages(snaps[0]); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("diagnostics = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapshotsAreReplaced(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	path := filepath.Join(dir, "main.as")

	first := c.UpdateFile(path, []byte("int x;"))[0]
	second := c.UpdateFile(path, []byte("int y;"))[0]
	if first.ID == second.ID {
		t.Error("snapshots share an ID")
	}
	if c.Get(path) != second {
		t.Error("Get did not return the latest snapshot")
	}
	if string(first.Content) != "int x;" {
		t.Errorf("old snapshot content changed to %q", first.Content)
	}

	c.RemoveFile(path)
	if c.Get(path) != nil {
		t.Error("removed document is still present")
	}
}

func TestPredefinedReanalyzesDocuments(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	main := filepath.Join(dir, "main.as")
	predefined := filepath.Join(dir, "as.predefined")

	c.UpdateFile(main, []byte(`void f() { print("hi"); }`))
	if got := messages(c.Get(main)); !reflect.DeepEqual(got, []string{"'print' is not defined"}) {
		t.Fatalf("before predefined: %v", got)
	}

	snaps := c.UpdateFile(predefined, []byte("void print(const string &in s);"))
	if len(snaps) != 2 || snaps[0].Path != predefined || snaps[1].Path != main {
		t.Fatalf("changed snapshots = %v", snaps)
	}
	if got := messages(c.Get(main)); len(got) != 0 {
		t.Errorf("after predefined: %v", got)
	}

	changed := c.RemoveFile(predefined)
	if len(changed) != 1 || changed[0].Path != main {
		t.Fatalf("removing predefined changed %v", changed)
	}
	if got := messages(c.Get(main)); len(got) != 1 {
		t.Errorf("after removing predefined: %v", got)
	}
}

func TestScanAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.as"), `void f() { print("hi"); }`)
	writeFile(t, filepath.Join(dir, "as.predefined"), "void print(const string &in s);")
	writeFile(t, filepath.Join(dir, "vendor", "lib.as"), "int broken")
	writeFile(t, filepath.Join(dir, ".cache", "old.as"), "int broken")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a script")

	cfg := config.Default()
	cfg.Workspace.Exclude = []string{"vendor"}
	c := New(dir, cfg)
	if err := c.ScanAll(); err != nil {
		t.Fatal(err)
	}

	var paths []string
	for _, snap := range c.Snapshots() {
		rel, _ := filepath.Rel(dir, snap.Path)
		paths = append(paths, rel)
	}
	if !reflect.DeepEqual(paths, []string{"as.predefined", "main.as"}) {
		t.Errorf("scanned %v", paths)
	}
	if got := messages(c.Get(filepath.Join(dir, "main.as"))); len(got) != 0 {
		t.Errorf("main.as was not analyzed against the predefined file: %v", got)
	}
}

func TestCompletions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pos  func(src string) token.Position
		want []string
	}{
		{
			name: "members after dot",
			src:  "class Foo { int x; void run() {} } void f() { Foo a; a. }",
			pos:  func(src string) token.Position { return at(src, "a. }", 2) },
			want: []string{"run", "x"},
		},
		{
			name: "namespace members after scope",
			src:  "namespace N { int alpha; void beta() {} } void f() { N::al }",
			pos:  func(src string) token.Position { return at(src, "al }", 2) },
			want: []string{"alpha", "beta"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			c := New(dir, nil)
			path := filepath.Join(dir, "main.as")
			c.UpdateFile(path, []byte(tt.src))
			if got := labels(c.Completions(path, tt.pos(tt.src))); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("completions = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompletionsInScope(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	path := filepath.Join(dir, "main.as")
	c.UpdateFile(path, []byte("int g;\nvoid f() {\n  int local;\n  \n}\n"))

	items := c.Completions(path, token.Position{Line: 4, Column: 3})
	got := make(map[string]CompletionKind)
	for _, item := range items {
		got[item.Label] = item.Kind
	}
	want := map[string]CompletionKind{
		"g":      CompletionKindVariable,
		"local":  CompletionKindVariable,
		"f":      CompletionKindFunction,
		"int":    CompletionKindBuiltin,
		"string": CompletionKindBuiltin,
	}
	for label, kind := range want {
		if k, ok := got[label]; !ok || k != kind {
			t.Errorf("%s: kind = %v, present = %v, want %v", label, k, ok, kind)
		}
	}
	if _, ok := got["?"]; ok {
		t.Error("the variable type placeholder should not be offered")
	}
}

func TestDefinitionAndReferences(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	predefined := filepath.Join(dir, "as.predefined")
	a := filepath.Join(dir, "a.as")
	b := filepath.Join(dir, "b.as")
	srcB := `void g() { print("b"); print("c"); }`

	c.UpdateFile(predefined, []byte("void print(const string &in s);"))
	c.UpdateFile(a, []byte(`void f() { print("a"); }`))
	c.UpdateFile(b, []byte(srcB))

	pos := at(srcB, "print", 1)
	loc, ok := c.Definition(b, pos)
	if !ok {
		t.Fatal("no definition for print")
	}
	if loc.Path != predefined || loc.Span.Start.Line != 1 || loc.Span.Start.Column != 6 {
		t.Errorf("definition = %s %s", loc.Path, loc.Span)
	}

	uses := c.References(b, pos, false)
	if len(uses) != 3 {
		t.Errorf("got %d uses of print, want 3", len(uses))
	}
	all := c.References(b, pos, true)
	if len(all) != 4 || all[0].Path != predefined {
		t.Errorf("got %d references including the declaration, want 4", len(all))
	}

	if _, ok := c.Definition(b, at(srcB, "void", 1)); ok {
		t.Error("a keyword has no definition")
	}

	srcC := "string s;"
	c.UpdateFile(filepath.Join(dir, "c.as"), []byte(srcC))
	if _, ok := c.Get(filepath.Join(dir, "c.as")).Analysis.ReferenceAt(at(srcC, "string", 1)); !ok {
		t.Fatal("no reference to the built-in string type")
	}
	if _, ok := c.Definition(filepath.Join(dir, "c.as"), at(srcC, "string", 1)); ok {
		t.Error("a built-in type has no source location")
	}
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	path := filepath.Join(dir, "main.as")
	src := "class Foo { int n; } int twice(int x) { return x * 2; } void f() { Foo foo; twice(foo.n); }"
	c.UpdateFile(path, []byte(src))
	snap := c.Get(path)

	tests := []struct {
		substr string
		want   string
	}{
		{"twice(foo", "int twice(int)"},
		{"foo.n", "Foo foo"},
		{"n); }", "int n"},
		{"Foo foo", "class Foo"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			ref, ok := snap.Analysis.ReferenceAt(at(src, tt.substr, 0))
			if !ok {
				t.Fatalf("no reference at %q", tt.substr)
			}
			if got := Describe(ref.Symbol); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSemanticTokens(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	path := filepath.Join(dir, "main.as")
	c.UpdateFile(path, []byte("// hi\nclass Foo {}"))

	got := c.SemanticTokens(path)
	want := []SemanticToken{
		{Line: 1, Column: 1, Length: 5, Tag: token.HighlightComment},
		{Line: 2, Column: 1, Length: 5, Tag: token.HighlightKeyword},
		{Line: 2, Column: 7, Length: 3, Tag: token.HighlightClass},
		{Line: 2, Column: 11, Length: 1, Tag: token.HighlightOperator},
		{Line: 2, Column: 12, Length: 1, Tag: token.HighlightOperator},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SemanticTokens() = %v, want %v", got, want)
	}
}

func TestEncodeSemanticTokens(t *testing.T) {
	tokens := []SemanticToken{
		{Line: 1, Column: 1, Length: 5, Tag: token.HighlightComment},
		{Line: 2, Column: 1, Length: 5, Tag: token.HighlightKeyword},
		{Line: 2, Column: 7, Length: 3, Tag: token.HighlightClass},
		{Line: 4, Column: 3, Length: 1, Tag: token.HighlightNumber},
	}
	got := EncodeSemanticTokens(tokens)
	want := []uint32{
		0, 0, 5, uint32(token.HighlightComment - 1), 0,
		1, 0, 5, uint32(token.HighlightKeyword - 1), 0,
		0, 6, 3, uint32(token.HighlightClass - 1), 0,
		2, 2, 1, uint32(token.HighlightNumber - 1), 0,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d integers, want %d", len(got), len(want))
	}
	for i := range want {
		if uint32(got[i]) != want[i] {
			t.Errorf("data[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	legend := SemanticTokenLegend()
	if legend[token.HighlightClass-1] != "class" || legend[token.HighlightComment-1] != "comment" {
		t.Errorf("legend = %v", legend)
	}
}

func TestURIConversion(t *testing.T) {
	tests := []struct {
		uri  string
		path string
	}{
		{"file:///home/user/main.as", "/home/user/main.as"},
		{"file:///home/user/my%20scripts/a.as", "/home/user/my scripts/a.as"},
		{"/plain/path.as", "/plain/path.as"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := uriToPath(tt.uri)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.path {
				t.Errorf("uriToPath() = %q, want %q", got, tt.path)
			}
		})
	}

	if got := pathToURI("/home/user/my scripts/a.as"); got != "file:///home/user/my%20scripts/a.as" {
		t.Errorf("pathToURI() = %q", got)
	}
}

func TestLineIndexUTF16(t *testing.T) {
	// é takes two bytes and one UTF-16 unit; 😀 takes four bytes and two units.
	lines := newLineIndex([]byte("s = \"é😀\"; x\r\nabc"))

	tests := []struct {
		name       string
		line       int
		byteColumn int
		units      int
	}{
		{"line start", 1, 1, 0},
		{"before accent", 1, 6, 5},
		{"after accent", 1, 8, 6},
		{"after emoji", 1, 12, 8},
		{"identifier after both", 1, 15, 11},
		{"second line", 2, 3, 2},
		{"past line end", 2, 6, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lines.utf16Column(tt.line, tt.byteColumn); got != tt.units {
				t.Errorf("utf16Column(%d, %d) = %d, want %d", tt.line, tt.byteColumn, got, tt.units)
			}
			if got := lines.byteColumn(tt.line, tt.units); got != tt.byteColumn {
				t.Errorf("byteColumn(%d, %d) = %d, want %d", tt.line, tt.units, got, tt.byteColumn)
			}
		})
	}

	if got := lines.byteColumn(1, 7); got != 8 {
		t.Errorf("a unit inside a surrogate pair maps to byte column %d, want 8", got)
	}
	var none *lineIndex
	if got := none.utf16Column(1, 4); got != 3 {
		t.Errorf("nil index utf16Column = %d, want 3", got)
	}
	if got := none.byteColumn(1, 3); got != 4 {
		t.Errorf("nil index byteColumn = %d, want 4", got)
	}
}

func TestPositionConversion(t *testing.T) {
	lines := newLineIndex([]byte("s = \"é😀\"; x"))
	pos := token.Position{Line: 1, Column: 15}

	p := toProtocolPosition(lines, pos)
	if p.Line != 0 || p.Character != 11 {
		t.Errorf("toProtocolPosition() = %+v, want 0:11", p)
	}
	if got := fromProtocolPosition(lines, p); got.Line != pos.Line || got.Column != pos.Column {
		t.Errorf("round trip = %v, want %v", got, pos)
	}
	if p := toProtocolPosition(lines, token.Position{}); p.Line != 0 || p.Character != 0 {
		t.Errorf("zero position = %+v", p)
	}
}

func TestSemanticTokensUTF16(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	path := filepath.Join(dir, "main.as")
	c.UpdateFile(path, []byte("string s = \"é😀\"; int x;"))

	var str, x SemanticToken
	for _, tok := range toUTF16Tokens(c.Get(path).lines, c.SemanticTokens(path)) {
		switch tok.Tag {
		case token.HighlightString:
			str = tok
		case token.HighlightVariable:
			x = tok
		}
	}
	if str.Column != 12 || str.Length != 5 {
		t.Errorf("string token = %+v, want column 12 length 5", str)
	}
	if x.Column != 23 || x.Length != 1 {
		t.Errorf("x token = %+v, want column 23 length 1", x)
	}
}

func TestOpenDocumentsFollowTheEditor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.as")
	writeFile(t, path, "int onDisk;")

	ls := NewLSPServer("0.1.0")
	ls.codebase = New(dir, nil)
	published := make(map[string]int)
	ctx := &glsp.Context{Notify: func(method string, params any) {
		if p, ok := params.(protocol.PublishDiagnosticsParams); ok {
			published[p.URI] = len(p.Diagnostics)
		}
	}}
	ls.capture(ctx)
	uri := pathToURI(path)

	err := ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "angelscript", Version: 1, Text: "int x; int x;"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !ls.isOpen(path) {
		t.Fatal("document not tracked as open")
	}
	if published[uri] != 1 {
		t.Errorf("published %d diagnostics, want 1", published[uri])
	}

	if err := ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}); err != nil {
		t.Fatal(err)
	}
	if ls.isOpen(path) {
		t.Error("closed document still tracked as open")
	}
	if got := string(ls.codebase.Get(path).Content); got != "int onDisk;" {
		t.Errorf("content after close = %q, want the disk version", got)
	}
	if published[uri] != 0 {
		t.Errorf("published %d diagnostics after close, want 0", published[uri])
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Workspace.Debounce.Duration = 20 * time.Millisecond
	c := New(dir, cfg)

	type batch struct {
		changed []*Snapshot
		removed []string
	}
	batches := make(chan batch, 64)
	w, err := NewWatcher(c, func(changed []*Snapshot, removed []string) {
		select {
		case batches <- batch{changed, removed}:
		default:
		}
	})
	if err != nil {
		t.Skipf("file watching unavailable: %s", err)
	}
	w.Start()
	defer w.Close()

	path := filepath.Join(dir, "main.as")
	wait := func(done func(batch) bool) {
		t.Helper()
		timeout := time.After(5 * time.Second)
		for {
			select {
			case b := <-batches:
				if done(b) {
					return
				}
			case <-timeout:
				t.Fatal("timed out waiting for file events")
			}
		}
	}

	writeFile(t, path, "int x;")
	wait(func(b batch) bool {
		for _, snap := range b.changed {
			if snap.Path == path && string(snap.Content) == "int x;" {
				return true
			}
		}
		return false
	})
	if c.Get(path) == nil {
		t.Fatal("created file was not loaded")
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	wait(func(b batch) bool {
		for _, p := range b.removed {
			if p == path {
				return true
			}
		}
		return false
	})
	if c.Get(path) != nil {
		t.Error("removed file is still loaded")
	}
}

func TestWatcherIgnoresOpenDocuments(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Workspace.Debounce.Duration = 20 * time.Millisecond
	c := New(dir, cfg)

	open := filepath.Join(dir, "open.as")
	closed := filepath.Join(dir, "closed.as")
	c.UpdateFile(open, []byte("int unsaved;"))

	changes := make(chan []*Snapshot, 64)
	w, err := NewWatcher(c, func(changed []*Snapshot, removed []string) {
		select {
		case changes <- changed:
		default:
		}
	}, WithIgnore(func(path string) bool { return path == open }))
	if err != nil {
		t.Skipf("file watching unavailable: %s", err)
	}
	w.Start()
	defer w.Close()

	writeFile(t, open, "int fromDisk;")
	writeFile(t, closed, "int y;")

	timeout := time.After(5 * time.Second)
	for seen := false; !seen; {
		select {
		case changed := <-changes:
			for _, snap := range changed {
				if snap.Path == open {
					t.Fatal("change to an open document was applied")
				}
				if snap.Path == closed && string(snap.Content) == "int y;" {
					seen = true
				}
			}
		case <-timeout:
			t.Fatal("timed out waiting for file events")
		}
	}
	if got := string(c.Get(open).Content); got != "int unsaved;" {
		t.Errorf("open document content = %q, want the editor version", got)
	}
}
