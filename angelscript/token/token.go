package token

import "fmt"

type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p comes strictly before q in the same file.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

type Span struct {
	Start Position
	End   Position
}

// Contains reports whether pos lies within the span, both ends inclusive.
func (s Span) Contains(pos Position) bool {
	return !pos.Before(s.Start) && !s.End.Before(pos)
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

type Location struct {
	Path string
	Span
}

type Kind int

const (
	Reserved Kind = iota
	Identifier
	Number
	String
	Comment
)

var kindNames = map[Kind]string{
	Reserved:   "Reserved",
	Identifier: "Identifier",
	Number:     "Number",
	String:     "String",
	Comment:    "Comment",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type NumberKind int

const (
	Integer NumberKind = iota
	Float
	Double
)

func (k NumberKind) String() string {
	switch k {
	case Float:
		return "Float"
	case Double:
		return "Double"
	default:
		return "Integer"
	}
}

// Token is immutable once the lexer has produced it. Reserved tokens point at
// the shared property bag of their word.
type Token struct {
	Kind     Kind
	Text     string
	Location Location
	Property *Property
	Numeric  NumberKind
}

func (t *Token) Span() Span {
	return t.Location.Span
}

func (t *Token) Is(text string) bool {
	return t != nil && t.Text == text
}

func (t *Token) IsIdentifier() bool {
	return t != nil && t.Kind == Identifier
}

// IsReserved reports whether t is a reserved word whose property bag satisfies pred.
func (t *Token) IsReserved(pred func(*Property) bool) bool {
	return t != nil && t.Kind == Reserved && t.Property != nil && pred(t.Property)
}

// Touches reports whether next starts exactly where t ends.
func (t *Token) Touches(next *Token) bool {
	return t.Location.Path == next.Location.Path && t.Location.End == next.Location.Start
}

func (t *Token) String() string {
	return fmt.Sprintf("%s %q @%s", t.Kind, t.Text, t.Location.Span)
}

// Virtual creates a token that has no place in any source file, used for
// built-in declarations.
func Virtual(kind Kind, text string) *Token {
	tok := &Token{Kind: kind, Text: text}
	if kind == Reserved {
		tok.Property = Lookup(text)
	}
	return tok
}
