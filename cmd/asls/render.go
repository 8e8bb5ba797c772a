package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhamidi/asls/angelscript/diag"
)

var (
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorInfo    = lipgloss.Color("#06B6D4")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
)

type checkStyles struct {
	location lipgloss.Style
	severity map[diag.Severity]lipgloss.Style
	message  lipgloss.Style
	source   lipgloss.Style
	caret    lipgloss.Style
	ok       lipgloss.Style
	failed   lipgloss.Style
}

// newCheckStyles builds styles for w. Colors are dropped when w is not a
// terminal.
func newCheckStyles(w io.Writer) checkStyles {
	r := lipgloss.NewRenderer(w)
	return checkStyles{
		location: r.NewStyle().Bold(true),
		severity: map[diag.Severity]lipgloss.Style{
			diag.Error:       r.NewStyle().Foreground(colorError).Bold(true),
			diag.Warning:     r.NewStyle().Foreground(colorWarning).Bold(true),
			diag.Information: r.NewStyle().Foreground(colorInfo),
			diag.Hint:        r.NewStyle().Foreground(colorMuted),
		},
		message: r.NewStyle(),
		source:  r.NewStyle().Foreground(colorMuted).TabWidth(lipgloss.NoTabConversion),
		caret:   r.NewStyle().Foreground(colorError).Bold(true),
		ok:      r.NewStyle().Foreground(colorSuccess).Bold(true),
		failed:  r.NewStyle().Foreground(colorError).Bold(true),
	}
}

type diagnosticPrinter struct {
	w      io.Writer
	styles checkStyles
}

func newDiagnosticPrinter(w io.Writer) *diagnosticPrinter {
	return &diagnosticPrinter{w: w, styles: newCheckStyles(w)}
}

// Print writes d followed by the offending source line and a caret marking
// the span.
func (p *diagnosticPrinter) Print(d diag.Diagnostic, content []byte) {
	s := p.styles
	severity, ok := s.severity[d.Severity]
	if !ok {
		severity = s.message
	}
	fmt.Fprintf(p.w, "%s %s %s\n",
		s.location.Render(fmt.Sprintf("%s:%s:", d.Path, d.Span.Start)),
		severity.Render(d.Severity.String()+":"),
		s.message.Render(d.Message),
	)

	line, ok := sourceLine(content, d.Span.Start.Line)
	if !ok {
		return
	}
	width := 1
	if d.Span.End.Line == d.Span.Start.Line && d.Span.End.Column > d.Span.Start.Column {
		width = d.Span.End.Column - d.Span.Start.Column
	}
	indent := d.Span.Start.Column - 1
	if indent > len(line) {
		indent = len(line)
	}
	// Tabs are kept so the caret lines up under them.
	var pad strings.Builder
	for _, c := range line[:indent] {
		if c == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	fmt.Fprintf(p.w, "    %s\n", s.source.Render(line))
	fmt.Fprintf(p.w, "    %s%s\n", pad.String(), s.caret.Render(strings.Repeat("^", width)))
}

// Summary writes the totals line.
func (p *diagnosticPrinter) Summary(errors, warnings, files int) {
	text := fmt.Sprintf("%s, %s in %s",
		plural(errors, "error"), plural(warnings, "warning"), plural(files, "file"))
	if errors > 0 {
		fmt.Fprintln(p.w, p.styles.failed.Render(text))
		return
	}
	fmt.Fprintln(p.w, p.styles.ok.Render(text))
}

func sourceLine(content []byte, line int) (string, bool) {
	if line < 1 {
		return "", false
	}
	lines := bytes.Split(content, []byte("\n"))
	if line > len(lines) {
		return "", false
	}
	return strings.TrimRight(string(lines[line-1]), "\r"), true
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
