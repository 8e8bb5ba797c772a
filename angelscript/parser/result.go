package parser

type Outcome int

const (
	NoMatch Outcome = iota
	Invalid
	Matched
)

func (o Outcome) String() string {
	switch o {
	case Invalid:
		return "Invalid"
	case Matched:
		return "Matched"
	}
	return "NoMatch"
}

// Parsed is the outcome of one production. Node is only set when Outcome is Matched.
type Parsed[T any] struct {
	Outcome Outcome
	Node    T
}

func (r Parsed[T]) Matched() bool {
	return r.Outcome == Matched
}

func match[T any](node T) Parsed[T] {
	return Parsed[T]{Outcome: Matched, Node: node}
}

func noMatch[T any]() Parsed[T] {
	return Parsed[T]{}
}

func invalid[T any]() Parsed[T] {
	return Parsed[T]{Outcome: Invalid}
}
