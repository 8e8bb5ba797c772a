package token

// Highlight is the editor decoration the parser attaches to a consumed token.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightNamespace
	HighlightClass
	HighlightEnum
	HighlightInterface
	HighlightType
	HighlightParameter
	HighlightVariable
	HighlightEnumMember
	HighlightFunction
	HighlightKeyword
	HighlightBuiltin
	HighlightOperator
	HighlightNumber
	HighlightString
	HighlightComment
)

var highlightNames = [...]string{
	HighlightNone:       "none",
	HighlightNamespace:  "namespace",
	HighlightClass:      "class",
	HighlightEnum:       "enum",
	HighlightInterface:  "interface",
	HighlightType:       "type",
	HighlightParameter:  "parameter",
	HighlightVariable:   "variable",
	HighlightEnumMember: "enumMember",
	HighlightFunction:   "function",
	HighlightKeyword:    "keyword",
	HighlightBuiltin:    "builtin",
	HighlightOperator:   "operator",
	HighlightNumber:     "number",
	HighlightString:     "string",
	HighlightComment:    "comment",
}

func (h Highlight) String() string {
	if int(h) < len(highlightNames) {
		return highlightNames[h]
	}
	return "unknown"
}

// Highlights lists every tag except HighlightNone in declaration order.
func Highlights() []Highlight {
	result := make([]Highlight, 0, len(highlightNames)-1)
	for h := HighlightNamespace; int(h) < len(highlightNames); h++ {
		result = append(result, h)
	}
	return result
}
