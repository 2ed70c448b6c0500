// Package symbol implements Symbol, SymbolTable and TypeMap: the
// insertion-ordered, cloneable, mergeable key->record stores a Scope
// threads through the compilation. The insertion-order + explicit clone
// discipline mirrors the teacher's internal/registry.Registry, adapted from
// a provider registry to a name->value environment.
package symbol

import "github.com/LemurGamingYT/gemc/internal/gemtype"

// Ownership tags a symbol's relationship to the value it holds, consulted
// only by the memory-manager pass. OwnershipNone is the default for
// symbols of non-destructor-bearing types, which the pass never touches.
type Ownership int

const (
	OwnershipNone Ownership = iota
	// OwnershipOwned marks a symbol responsible for calling its value's
	// destructor at end of scope, unless moved first.
	OwnershipOwned
	// OwnershipRef marks a shared, non-owning reference. Not produced by
	// the minimum implementation (spec §4.5.1 leaves it as a hook for a
	// future reference-counted extension); declared here so the tag space
	// exists for a pass that wants to set it.
	OwnershipRef
)

// Symbol is a named entry in a scope. Value is pass-specific: an IR node
// for user-level variables/functions, or an Intrinsic/native descriptor for
// compiler-provided callables.
type Symbol struct {
	Name       string
	Type       gemtype.Type
	Value      any
	IsMutable  bool
	SourceFile string

	// Owner and Moved are consulted only by the memory-manager pass
	// (ownership tracking). Both are meaningless for symbols of
	// non-destructor-bearing types.
	Owner Ownership
	Moved bool
}

// Clone returns a shallow copy of the symbol, whose ownership state (Moved)
// can be changed without affecting the original.
func (s *Symbol) Clone() *Symbol {
	clone := *s
	return &clone
}

// Table is an insertion-ordered map from name to *Symbol.
type Table struct {
	entries map[string]*Symbol
	order   []string
}

// NewTable returns an empty symbol table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*Symbol)}
}

// Add inserts or overwrites a symbol by name, preserving first-insertion
// order for iteration (overwriting a name does not move its position).
func (t *Table) Add(s *Symbol) {
	if _, exists := t.entries[s.Name]; !exists {
		t.order = append(t.order, s.Name)
	}
	t.entries[s.Name] = s
}

// Get returns the symbol for name, or nil if absent.
func (t *Table) Get(name string) *Symbol {
	return t.entries[name]
}

// Has reports whether name is present.
func (t *Table) Has(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// Remove deletes name from the table. Order bookkeeping is left in place
// (the name simply becomes a miss on lookup); this matches the copy-on-child
// semantics where removal only ever happens on a scope that owns its own
// table.
func (t *Table) Remove(name string) {
	delete(t.entries, name)
}

// Clone returns a deep-enough copy: a new map and order slice, but symbols
// themselves are shared pointers until the clone calls Add with a new
// *Symbol. Scope uses this for the copy-on-enter semantics of child scopes.
func (t *Table) Clone() *Table {
	clone := &Table{
		entries: make(map[string]*Symbol, len(t.entries)),
		order:   append([]string(nil), t.order...),
	}
	for k, v := range t.entries {
		clone.entries[k] = v
	}
	return clone
}

// Merge copies every entry of other into t, last-writer-wins. Used by the
// module loader to fold an imported scope's table into the caller's.
func (t *Table) Merge(other *Table) {
	for _, name := range other.order {
		t.Add(other.entries[name])
	}
}

// Names returns symbol names in insertion order.
func (t *Table) Names() []string {
	return append([]string(nil), t.order...)
}

// TypeMap is the type-analogue of Table: an insertion-ordered map from
// display name to gemtype.Type.
type TypeMap struct {
	entries map[string]gemtype.Type
	order   []string
}

// NewTypeMap returns an empty type map.
func NewTypeMap() *TypeMap {
	return &TypeMap{entries: make(map[string]gemtype.Type)}
}

// Add inserts or overwrites a type by its display name.
func (m *TypeMap) Add(t gemtype.Type) {
	if _, exists := m.entries[t.Display]; !exists {
		m.order = append(m.order, t.Display)
	}
	m.entries[t.Display] = t
}

// Get returns the type for display, and whether it was present.
func (m *TypeMap) Get(display string) (gemtype.Type, bool) {
	t, ok := m.entries[display]
	return t, ok
}

// Has reports whether display is a known type name.
func (m *TypeMap) Has(display string) bool {
	_, ok := m.entries[display]
	return ok
}

// Clone returns a shallow, independent copy (gemtype.Type is itself a
// value type, so no further cloning is required per-entry).
func (m *TypeMap) Clone() *TypeMap {
	clone := &TypeMap{
		entries: make(map[string]gemtype.Type, len(m.entries)),
		order:   append([]string(nil), m.order...),
	}
	for k, v := range m.entries {
		clone.entries[k] = v
	}
	return clone
}

// Merge copies every entry of other into m, last-writer-wins.
func (m *TypeMap) Merge(other *TypeMap) {
	for _, name := range other.order {
		m.Add(other.entries[name])
	}
}

// Names returns type display names in insertion order.
func (m *TypeMap) Names() []string {
	return append([]string(nil), m.order...)
}

// AddAlias binds name to t directly, bypassing t.Display as the key. Used
// by generic instantiation to bind a template's type-parameter name (e.g.
// "T") to the concrete type argument it was called with, so a lookup of
// "T" inside the template body resolves to the concrete type instead of a
// literal type named "T".
func (m *TypeMap) AddAlias(name string, t gemtype.Type) {
	if _, exists := m.entries[name]; !exists {
		m.order = append(m.order, name)
	}
	m.entries[name] = t
}
