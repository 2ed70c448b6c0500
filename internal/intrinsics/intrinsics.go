// Package intrinsics implements the fixed catalogue of primitive operations
// the backend must realise (spec §4.2). The Registry itself is modeled
// directly on the teacher's internal/registry.Registry: a mutex-guarded,
// name-keyed store with Register/Get/List, except it registers callable
// descriptors instead of language providers.
package intrinsics

import (
	"fmt"
	"sync"

	"github.com/LemurGamingYT/gemc/internal/gemtype"
	"github.com/LemurGamingYT/gemc/internal/scope"
	"github.com/LemurGamingYT/gemc/internal/symbol"
)

// Intrinsic is a compiler-internal callable whose body is supplied by the
// backend, not by any gem source. Only its signature is known here.
type Intrinsic struct {
	Name    string
	Params  []gemtype.Type
	Returns gemtype.Type
}

// Registry holds the catalogue of intrinsics known to the middle-end.
// Thread-safe the same way the teacher's provider registry is, even though
// the single-threaded compiler pipeline (spec §5) never actually contends
// on it — a CLI driving multiple file compilations concurrently is the only
// realistic caller of Get from more than one goroutine.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Intrinsic
	order   []string
}

// NewRegistry returns a registry with no entries.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Intrinsic)}
}

// RegisterIntrinsic adds i to the registry. Re-registering an existing name
// is an error, matching the teacher's "provider already registered" guard.
func (r *Registry) RegisterIntrinsic(i Intrinsic) error {
	if i.Name == "" {
		return fmt.Errorf("intrinsic must have a non-empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[i.Name]; exists {
		return fmt.Errorf("intrinsic %q already registered", i.Name)
	}

	r.entries[i.Name] = i
	r.order = append(r.order, i.Name)
	return nil
}

// Get retrieves an intrinsic by its canonical name.
func (r *Registry) Get(name string) (Intrinsic, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.entries[name]
	return i, ok
}

// List returns every registered intrinsic name in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

var arithOps = []string{"+", "-", "*", "/", "%"}
var relOps = []string{"==", "!=", "<", "<=", ">", ">="}
var logicOps = []string{"&&", "||"}

// Default builds the registry described in spec §4.2: panic/alloc/memory
// primitives, string/pointer conversions, and the full T.OP.T arithmetic,
// relational and logical matrix for int/float/bool.
func Default() *Registry {
	r := NewRegistry()
	ptr := gemtype.New(gemtype.Pointer)
	i64 := gemtype.New(gemtype.Int)
	f64 := gemtype.New(gemtype.Float)
	b := gemtype.New(gemtype.Bool)
	nilT := gemtype.New(gemtype.Nil)
	str := gemtype.New(gemtype.String)

	must := func(i Intrinsic) {
		if err := r.RegisterIntrinsic(i); err != nil {
			panic(err)
		}
	}

	must(Intrinsic{"panic", []gemtype.Type{ptr}, nilT})
	must(Intrinsic{"__buffer", []gemtype.Type{i64}, ptr})
	must(Intrinsic{"__alloc", []gemtype.Type{i64}, ptr})
	must(Intrinsic{"__free", []gemtype.Type{ptr}, nilT})
	must(Intrinsic{"__memcpy", []gemtype.Type{ptr, ptr, i64, b}, ptr})
	must(Intrinsic{"__create_string", []gemtype.Type{ptr, i64}, str})
	must(Intrinsic{"__format_int", []gemtype.Type{ptr, i64, i64}, i64})
	must(Intrinsic{"__format_float", []gemtype.Type{ptr, i64, f64}, i64})
	must(Intrinsic{"__null_terminate", []gemtype.Type{ptr, i64}, nilT})
	must(Intrinsic{"__is_null", []gemtype.Type{ptr}, b})
	must(Intrinsic{"__null", nil, ptr})
	must(Intrinsic{"string.ptr", []gemtype.Type{str}, ptr})
	must(Intrinsic{"string.length", []gemtype.Type{str}, i64})

	numeric := []gemtype.Type{i64, f64}
	for _, t := range numeric {
		for _, op := range arithOps {
			must(Intrinsic{fmt.Sprintf("%s.%s.%s", t, op, t), []gemtype.Type{t, t}, t})
		}
		for _, op := range relOps {
			must(Intrinsic{fmt.Sprintf("%s.%s.%s", t, op, t), []gemtype.Type{t, t}, b})
		}
	}
	for _, op := range logicOps {
		must(Intrinsic{fmt.Sprintf("%s.%s.%s", b, op, b), []gemtype.Type{b, b}, b})
	}

	return r
}

// Install inserts every catalogue entry into root's symbol table as a
// Symbol whose Value is the Intrinsic descriptor, exactly mirroring how the
// teacher's registry is populated once and then queried read-only during
// compilation.
func (r *Registry) Install(root *scope.Scope) {
	funcType := gemtype.New(gemtype.Function)
	for _, name := range r.List() {
		i := r.entries[name]
		root.SetSymbol(&symbol.Symbol{Name: name, Type: funcType, Value: i})
	}
}
