package token

import "testing"

func TestPropertyIsSharedPerWord(t *testing.T) {
	a := Lookup("+")
	b := Lookup("+")
	if a == nil || a != b {
		t.Fatalf("expected one shared property for '+', got %p and %p", a, b)
	}
	if !a.Mark || !a.ExprOp || !a.MathOp || !a.ExprPreOp {
		t.Errorf("unexpected property for '+': %+v", *a)
	}
}

func TestPropertyClassification(t *testing.T) {
	tests := []struct {
		word string
		pred func(*Property) bool
	}{
		{"int", func(p *Property) bool { return p.Number && p.PrimeType && !p.Mark }},
		{"bool", func(p *Property) bool { return p.PrimeType && !p.Number }},
		{"void", func(p *Property) bool { return p.PrimeType && !p.Number }},
		{">>>=", func(p *Property) bool { return p.AssignOp && p.Mark }},
		{"!is", func(p *Property) bool { return p.CompOp && p.ExprOp }},
		{"xor", func(p *Property) bool { return p.LogicOp && !p.Mark }},
		{"<<", func(p *Property) bool { return p.BitOp && p.ExprOp }},
		{"@", func(p *Property) bool { return p.ExprPreOp && !p.ExprOp }},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			p := Lookup(tt.word)
			if p == nil {
				t.Fatalf("no property for %q", tt.word)
			}
			if !tt.pred(p) {
				t.Errorf("unexpected property for %q: %+v", tt.word, *p)
			}
		})
	}
}

func TestMatchWeakMark(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<<=x", "<<="},
		{">>", ">"},
		{">=", ">"},
		{"!is", "!"},
		{"**=", "**="},
		{"::a", "::"},
		{"a", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, _, ok := MatchWeakMark(tt.input)
			if tt.want == "" {
				if ok {
					t.Errorf("expected no match, got %q", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookupKeywordExcludesMarks(t *testing.T) {
	if LookupKeyword("+") != nil {
		t.Error("'+' must not be a keyword")
	}
	if LookupKeyword("shared") != nil {
		t.Error("'shared' is contextual, not reserved")
	}
	if LookupKeyword("namespace") == nil {
		t.Error("'namespace' must be a keyword")
	}
}
