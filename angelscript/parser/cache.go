package parser

import (
	"slices"

	"github.com/dhamidi/asls/angelscript/diag"
	"github.com/dhamidi/asls/angelscript/token"
)

type memoKind int

const (
	memoEntityAttribute memoKind = iota
	memoScope
	memoTypeParameters
)

type memoKey struct {
	pos  int
	kind memoKind
}

type highlightWrite struct {
	pos int
	tag token.Highlight
}

// memoEntry is everything a production did at one position: its outcome, where
// it left the cursor, and the side effects to replay.
type memoEntry struct {
	outcome     Outcome
	node        any
	end         int
	diagnostics []diag.Diagnostic
	writes      []highlightWrite
}

// memoized runs produce once per (position, kind) and replays the stored
// result on later calls at the same position.
func memoized[T any](p *Parser, kind memoKind, produce func() Parsed[T]) Parsed[T] {
	if !p.memoize {
		return produce()
	}

	key := memoKey{pos: p.pos, kind: kind}
	if entry, ok := p.memo[key]; ok {
		return restore[T](p, entry)
	}

	diagStart := len(p.diagnostics)
	writeStart := len(p.writes)
	p.recording++
	result := produce()
	p.recording--

	entry := &memoEntry{
		outcome:     result.Outcome,
		end:         p.pos,
		diagnostics: slices.Clone(p.diagnostics[diagStart:]),
		writes:      slices.Clone(p.writes[writeStart:]),
	}
	if result.Matched() {
		entry.node = result.Node
	}
	if p.recording == 0 {
		p.writes = p.writes[:0]
	}
	p.memo[key] = entry
	return result
}

func restore[T any](p *Parser, entry *memoEntry) Parsed[T] {
	for _, w := range entry.writes {
		p.tag(w.pos, w.tag)
	}
	p.diagnostics = append(p.diagnostics, entry.diagnostics...)
	p.pos = entry.end
	node, _ := entry.node.(T)
	return Parsed[T]{Outcome: entry.outcome, Node: node}
}
