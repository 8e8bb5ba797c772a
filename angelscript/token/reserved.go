package token

import "sort"

// Property is the precomputed classification of a reserved word.
type Property struct {
	Mark      bool
	ExprPreOp bool
	ExprOp    bool
	BitOp     bool
	MathOp    bool
	CompOp    bool
	LogicOp   bool
	AssignOp  bool
	Number    bool
	PrimeType bool
}

// Marks are the non-alphanumeric reserved words. '#' is kept for preprocessor lines.
var marks = []string{
	"*", "**", "/", "%", "+", "-", "<=", "<", ">=", ">", "(", ")", "==", "!=", "?", ":", "=",
	"+=", "-=", "*=", "/=", "%=", "**=", "++", "--", "&", ",", "{", "}", ";", "|", "^", "~",
	"<<", ">>", ">>>", "&=", "|=", "^=", "<<=", ">>=", ">>>=", ".", "&&", "||", "!", "[", "]",
	"^^", "@", "!is", "::",
	"#",
}

// contextMarks only make sense in expression context. In "array<array<int>>" the
// closing ">>" must read as two '>' so the lexer never produces these.
var contextMarks = map[string]bool{
	">=": true, ">>": true, ">>>": true, ">>=": true, ">>>=": true, "!is": true,
}

var keywords = []string{
	"and", "auto", "bool", "break", "case", "cast", "catch", "class", "const", "continue",
	"default", "do", "double", "else", "enum", "false", "float", "for", "funcdef", "if",
	"import", "in", "inout", "int", "interface", "int8", "int16", "int32", "int64", "is",
	"mixin", "namespace", "not", "null", "or", "out", "override", "private", "property",
	"protected", "return", "switch", "true", "try", "typedef", "uint", "uint8", "uint16",
	"uint32", "uint64", "void", "while", "xor",
}

var (
	exprPreOps = []string{"-", "+", "!", "++", "--", "~", "@"}
	bitOps     = []string{"&", "|", "^", "<<", ">>", ">>>"}
	mathOps    = []string{"+", "-", "*", "/", "%", "**"}
	compOps    = []string{"==", "!=", "<", "<=", ">", ">=", "is", "!is"}
	logicOps   = []string{"&&", "||", "^^", "and", "or", "xor"}
	assignOps  = []string{"=", "+=", "-=", "*=", "/=", "|=", "&=", "^=", "%=", "**=", "<<=", ">>=", ">>>="}

	// NumberTypes are the primitive keywords sharing the numeric definition source.
	NumberTypes = []string{"int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64", "float", "double"}

	primeTypes = []string{"void", "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64", "float", "double", "bool"}
)

var (
	properties   = buildProperties()
	weakMarks    = buildWeakMarks()
	keywordTable = buildKeywords()
)

func buildProperties() map[string]*Property {
	table := make(map[string]*Property, len(marks)+len(keywords))
	for _, word := range marks {
		table[word] = &Property{Mark: true}
	}
	for _, word := range keywords {
		table[word] = &Property{}
	}

	set := func(words []string, apply func(*Property)) {
		for _, word := range words {
			apply(table[word])
		}
	}
	set(exprPreOps, func(p *Property) { p.ExprPreOp = true })
	set(bitOps, func(p *Property) { p.ExprOp, p.BitOp = true, true })
	set(mathOps, func(p *Property) { p.ExprOp, p.MathOp = true, true })
	set(compOps, func(p *Property) { p.ExprOp, p.CompOp = true, true })
	set(logicOps, func(p *Property) { p.ExprOp, p.LogicOp = true, true })
	set(assignOps, func(p *Property) { p.AssignOp = true })
	set(NumberTypes, func(p *Property) { p.Number = true })
	set(primeTypes, func(p *Property) { p.PrimeType = true })
	return table
}

// buildWeakMarks returns the lexable marks ordered longest first so a scanner
// can take the first prefix match as the greedy longest match.
func buildWeakMarks() []string {
	var result []string
	for _, mark := range marks {
		if !contextMarks[mark] {
			result = append(result, mark)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return len(result[i]) > len(result[j])
	})
	return result
}

func buildKeywords() map[string]*Property {
	table := make(map[string]*Property, len(keywords))
	for _, word := range keywords {
		table[word] = properties[word]
	}
	return table
}

// Lookup returns the shared property bag of any reserved word, or nil.
func Lookup(word string) *Property {
	return properties[word]
}

// LookupKeyword returns the property bag of an alphanumeric reserved word, or nil.
func LookupKeyword(word string) *Property {
	return keywordTable[word]
}

// MatchWeakMark returns the longest weak mark that prefixes src.
func MatchWeakMark(src string) (string, *Property, bool) {
	for _, mark := range weakMarks {
		if len(src) >= len(mark) && src[:len(mark)] == mark {
			return mark, properties[mark], true
		}
	}
	return "", nil, false
}

// IsContextMark reports whether mark is one the lexer splits into weak marks.
func IsContextMark(mark string) bool {
	return contextMarks[mark]
}
