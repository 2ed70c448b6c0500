package frontend

import "github.com/LemurGamingYT/gemc/internal/ir"

// Stub is a test double: it ignores source text entirely and returns a
// program built ahead of time by the test, standing in for "some parse
// tree" (spec §1) when no real grammar is wired. Tests construct the
// ir.Program they want analysed directly and register it under the path
// they intend to Parse.
type Stub struct {
	Programs map[string]*ir.Program
}

// NewStub returns an empty Stub.
func NewStub() *Stub {
	return &Stub{Programs: make(map[string]*ir.Program)}
}

// Add registers the program to return for a given path.
func (s *Stub) Add(path string, program *ir.Program) *Stub {
	s.Programs[path] = program
	return s
}

// Parse implements Frontend.
func (s *Stub) Parse(path string, _ []byte) (*ir.Program, error) {
	if p, ok := s.Programs[path]; ok {
		return p, nil
	}
	return ir.NewProgram(ir.Program{}.Pos(), nil), nil
}
