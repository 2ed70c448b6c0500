// Package scope implements the nested symbol/type environment a File
// threads through every pass. A child scope clones its parent's tables on
// construction (copy-on-write-ish: writes to the child never leak to the
// parent) the same way gem/ir.py's Scope.__post_init__ copies env/types
// from its parent.
package scope

import (
	"strconv"

	"github.com/LemurGamingYT/gemc/internal/gemtype"
	"github.com/LemurGamingYT/gemc/internal/symbol"
)

// Scope is a node in the scope tree. The root scope is created once per
// compilation (per File); every block, function body, and branch gets its
// own child for the duration of that construct.
type Scope struct {
	Parent  *Scope
	Symbols *symbol.Table
	Types   *symbol.TypeMap

	uniqueCounter int
}

// NewRoot builds a fresh root scope with only the built-in types installed.
// Callers normally follow this with intrinsics.Install and the implicit
// "core" import (see internal/analyser).
func NewRoot() *Scope {
	s := &Scope{
		Symbols: symbol.NewTable(),
		Types:   symbol.NewTypeMap(),
	}
	for _, t := range gemtype.Builtins() {
		s.Types.Add(t)
	}
	return s
}

// NewChild clones the parent's tables into a fresh scope. The child's
// unique-name counter is seeded from the parent's + 1, so that
// unique-name generation stays monotonic and deterministic across nested
// scopes (spec §5, "Determinism").
func NewChild(parent *Scope) *Scope {
	return &Scope{
		Parent:        parent,
		Symbols:       parent.Symbols.Clone(),
		Types:         parent.Types.Clone(),
		uniqueCounter: parent.uniqueCounter + 1,
	}
}

// GetSymbol looks up name in this scope, falling back to the parent chain.
// Because child scopes start as a clone of their parent, a plain map lookup
// on the current scope already sees everything visible from enclosing
// scopes; the parent walk only matters after a Remove.
func (s *Scope) GetSymbol(name string) *symbol.Symbol {
	if sym := s.Symbols.Get(name); sym != nil {
		return sym
	}
	if s.Parent != nil {
		return s.Parent.GetSymbol(name)
	}
	return nil
}

// SetSymbol adds a symbol to this scope only. Scopes are clone-on-enter, so
// there is no need to propagate the write upward the way gem/ir.py's
// Scope.set_env does for its shared-dict model; each Go Scope owns an
// independent table.
func (s *Scope) SetSymbol(sym *symbol.Symbol) {
	s.Symbols.Add(sym)
}

// RemoveSymbol deletes name from this scope's own table.
func (s *Scope) RemoveSymbol(name string) {
	s.Symbols.Remove(name)
}

// GetType looks up a type by display name, falling back to the parent
// chain.
func (s *Scope) GetType(display string) (gemtype.Type, bool) {
	if t, ok := s.Types.Get(display); ok {
		return t, true
	}
	if s.Parent != nil {
		return s.Parent.GetType(display)
	}
	return gemtype.Type{}, false
}

// SetType adds a type to this scope only.
func (s *Scope) SetType(t gemtype.Type) {
	s.Types.Add(t)
}

// SetTypeAlias binds name to t in this scope only, even when name != t.Display.
// Used by generic instantiation to bind a type-parameter name to a concrete
// argument type.
func (s *Scope) SetTypeAlias(name string, t gemtype.Type) {
	s.Types.AddAlias(name, t)
}

// UniqueName returns a fresh compiler-synthesised name like "_1", "_2", ...
// The counter is monotonically increasing per scope and is seeded from the
// parent's counter on child construction; every ancestor's counter is
// raised to the value just used, so a later sibling or the parent itself
// never hands out the same name again and names stay globally distinct
// within one compilation (spec §8, invariant 5).
func (s *Scope) UniqueName() string {
	s.uniqueCounter++
	for p := s.Parent; p != nil; p = p.Parent {
		if p.uniqueCounter < s.uniqueCounter {
			p.uniqueCounter = s.uniqueCounter
		}
	}
	return "_" + strconv.Itoa(s.uniqueCounter)
}
