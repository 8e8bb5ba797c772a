// Package parser builds an AngelScript syntax tree from a token slice.
//
// # Overview
//
// The grammar is recursive descent over the AngelScript BNF. Many declarations
// share a prefix (a modifier or a type followed by an identifier can start a
// function, a virtual property or a variable), so productions are attempted
// speculatively and either commit or rewind to where they started.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Tokens    │────▶│   Cursor    │────▶│   Grammar   │
//	│ (immutable) │     │ mark/rewind │     │ productions │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │    Memo     │     │  AST, diags │
//	                    │  (pos,kind) │     │  highlights │
//	                    └─────────────┘     └─────────────┘
//
// # Outcomes
//
// Every production reports one of three outcomes:
//
//   - NoMatch: the alternative does not apply. No token was consumed and no
//     diagnostic is left behind, so the caller may try a sibling.
//   - Invalid: the alternative clearly applied but the input is malformed. A
//     diagnostic was recorded and at least one token consumed. Callers stop
//     trying siblings.
//   - Matched: a node was built and the cursor moved past it.
//
// # Memoization
//
// Entity attributes, scope prefixes and type parameter lists are probed many
// times from the same position by competing alternatives. Their outcome is
// stored per (position, kind) together with the diagnostics and highlight tags
// the attempt produced, and replayed on a hit. Turning the memo off with
// WithoutMemo changes the amount of work, never the result.
//
// # Operators
//
// The lexer never produces ">>", ">=", ">>>", ">>=", ">>>=" or "!is" so that
// nested type arguments close correctly. Where a binary or assignment operator
// is expected the parser joins touching pieces back together.
//
// # Recovery
//
// The parser never aborts. Member and statement loops report an unexpected
// token and skip exactly one, so any finite input terminates.
package parser
