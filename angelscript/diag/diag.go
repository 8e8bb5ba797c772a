// Package diag holds the diagnostics shared by the lexer, parser and analyzer.
package diag

import (
	"fmt"

	"github.com/dhamidi/asls/angelscript/token"
)

type Severity int

const (
	Error Severity = iota + 1
	Warning
	Information
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Information:
		return "info"
	case Hint:
		return "hint"
	}
	return "unknown"
}

type Diagnostic struct {
	Severity Severity
	Message  string
	Path     string
	Span     token.Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%s: %s: %s", d.Path, d.Span.Start, d.Severity, d.Message)
}

// At builds an error diagnostic covering tok.
func At(tok *token.Token, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Path:     tok.Location.Path,
		Span:     tok.Location.Span,
	}
}

// HasErrors reports whether any diagnostic in list is an error.
func HasErrors(list []Diagnostic) bool {
	for _, d := range list {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
