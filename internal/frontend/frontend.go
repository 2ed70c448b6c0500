// Package frontend pins the external contract spec §1 carves out of scope:
// grammar, lexing and parse-tree construction. The middle-end only depends
// on this interface — something that turns source bytes into an ir.Program
// — never on a concrete grammar.
package frontend

import "github.com/LemurGamingYT/gemc/internal/ir"

// Frontend turns source text into an unresolved ir.Program (no symbols
// resolved, no overloads picked — that's the Analyser's job). Concrete
// implementations are adapters over whatever parse tree the real grammar
// produces; none is specified here.
type Frontend interface {
	Parse(path string, src []byte) (*ir.Program, error)
}
