// Package module implements the `use` resolution algorithm of spec §4.6:
// given a path, install the native library registered under that name (if
// any) and/or the source-language file STDLIB/<path>/<path>.gem, compiling
// the latter recursively, and merge the result into the importing scope.
//
// Listing the available modules (ListModules) uses
// github.com/bmatcuk/doublestar/v4 glob matching over the stdlib root, the
// same way the teacher's core/filewalker.go walks a project tree by glob
// pattern rather than hand-rolled filepath.Walk predicates; Resolve itself
// checks the one fixed source path. Successful resolutions are recorded
// in internal/cache keyed by a BLAKE2b digest of the resolved file's
// path and contents (golang.org/x/crypto/blake2b).
// The cache row only snapshots symbol/type names, so it cannot itself
// rehydrate a scope; see resolveSource for what re-importing the same
// module actually costs.
package module

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/crypto/blake2b"
	"gorm.io/datatypes"

	"github.com/LemurGamingYT/gemc/internal/cache"
	"github.com/LemurGamingYT/gemc/internal/diag"
	"github.com/LemurGamingYT/gemc/internal/frontend"
	"github.com/LemurGamingYT/gemc/internal/ir"
	"github.com/LemurGamingYT/gemc/internal/pass"
	"github.com/LemurGamingYT/gemc/internal/scope"
)

// NativeLibrary is "a value exposing construction given a File and an
// AddToScope method" per spec §6's native stdlib contract. Concrete native
// libraries (the Go-side stand-in for gem/lib.py's Lib/Class/GenericClass)
// implement this to install intrinsic-backed symbols into a scope.
type NativeLibrary interface {
	AddToScope(s *scope.Scope)
}

// NativeFactory builds a NativeLibrary for the importing file.
type NativeFactory func(file *pass.File) NativeLibrary

// AnalyseFunc re-runs the analyser on a freshly parsed program in a fresh
// scope, returning the scope the module's top-level declarations ended up
// in. Wired by the caller (normally analyser.AsAnalyseFunc) so this package
// never imports the analyser directly — module loading is invoked *from*
// analysis (on a Use node), so the dependency would be circular.
type AnalyseFunc func(file *pass.File, program *ir.Program) *scope.Scope

// Loader implements the search-and-merge algorithm of spec §4.6.
type Loader struct {
	StdlibDir string
	Frontend  frontend.Frontend
	Cache     *cache.Cache
	Analyse   AnalyseFunc

	natives map[string]NativeFactory
	// inProgress tracks paths currently being resolved in this Loader's
	// lifetime, detecting the import cycles spec §9 leaves as an open
	// question — this implementation chooses to detect and report them.
	inProgress map[string]bool
}

// NewLoader builds a Loader rooted at stdlibDir.
func NewLoader(stdlibDir string, fe frontend.Frontend, c *cache.Cache, analyse AnalyseFunc) *Loader {
	return &Loader{
		StdlibDir:  stdlibDir,
		Frontend:   fe,
		Cache:      c,
		Analyse:    analyse,
		natives:    make(map[string]NativeFactory),
		inProgress: make(map[string]bool),
	}
}

// RegisterNative statically registers a native library factory for a
// stdlib path name (e.g. "core", "builtins"). This is the in-process
// analogue of gem/ir.py's `import_module(f'gem.stdlib.{name}')` — the host
// language (Go) cannot import-by-string the way Python can, so native
// libraries are registered ahead of time instead of discovered on disk.
func (l *Loader) RegisterNative(path string, factory NativeFactory) {
	l.natives[path] = factory
}

// Resolve implements spec §4.6 for a single Use node: search, instantiate
// and/or recursively compile, then merge into file's current scope.
// selfName identifies the stdlib file currently being compiled (empty for
// ordinary source files), so that a stdlib module importing itself is
// silently ignored per spec §4.3.4.
func (l *Loader) Resolve(file *pass.File, use *ir.Use, selfName string) error {
	path := use.Path
	if path == selfName {
		return nil
	}

	if l.inProgress[path] {
		use.Pos().ComptimeError(file, fmt.Sprintf("cyclic import of module %q", path))
		return nil // unreachable: ComptimeError exits the process
	}
	l.inProgress[path] = true
	defer delete(l.inProgress, path)

	dir := filepath.Join(l.StdlibDir, path)
	found := false

	if factory, ok := l.natives[path]; ok {
		factory(file).AddToScope(file.Scope)
		found = true
	}

	sourceFile := filepath.Join(dir, path+".gem")
	if contents, err := os.ReadFile(sourceFile); err == nil {
		if err := l.resolveSource(file, sourceFile, contents); err != nil {
			return err
		}
		found = true
	} else if !os.IsNotExist(err) {
		return diag.Wrap(diag.CodeModuleNotFound, "read module source", err)
	}

	if !found {
		// No-op: spec §4.6 step 5 leaves reporting missing symbols to
		// downstream passes (an unresolved Id/Call will raise its own
		// comptime error when something tries to use this module).
		return nil
	}

	return nil
}

// resolveSource always parses, re-analyses and merges the module — even
// when l.Cache reports a prior resolution for the same content+options key.
// The cache's ModuleEntry snapshot round-trips symbol/type *names* only
// (see storeCached), never full Symbol values (type, ownership,
// mutability), so there is nothing a hit could merge into file.Scope
// without re-deriving those values the normal way; trusting a hit to skip
// re-analysis would silently drop every symbol a §4.6 last-writer-wins
// merge is supposed to contribute. The lookup is still performed and the
// result still stored, so the row exists (content hash -> path) for a
// future snapshot format capable of a real rehydration, but it never
// substitutes for doing the work.
func (l *Loader) resolveSource(file *pass.File, sourceFile string, contents []byte) error {
	cacheKey := l.cacheKey(sourceFile, contents, file)
	if l.Cache != nil && cacheKey != "" {
		if _, err := l.Cache.GetModule(cacheKey); err != nil {
			return diag.Wrap(diag.CodeCacheIO, "read cached module "+sourceFile, err)
		}
	}

	program, err := l.Frontend.Parse(sourceFile, contents)
	if err != nil {
		return diag.Wrap(diag.CodeFrontend, "parse module "+sourceFile, err)
	}

	moduleFile := &pass.File{PathName: sourceFile, Scope: scope.NewRoot(), SrcText: string(contents)}
	moduleScope := l.Analyse(moduleFile, program)

	file.Scope.Symbols.Merge(moduleScope.Symbols)
	file.Scope.Types.Merge(moduleScope.Types)

	if l.Cache != nil && cacheKey != "" {
		l.storeCached(cacheKey, sourceFile, moduleScope)
	}
	return nil
}

func (l *Loader) storeCached(key, path string, moduleScope *scope.Scope) {
	symbolsJSON, _ := marshalNames(moduleScope.Symbols.Names())
	typesJSON, _ := marshalNames(moduleScope.Types.Names())
	_ = l.Cache.PutModule(&cache.ModuleEntry{
		Key:         key,
		Path:        path,
		SymbolsJSON: datatypes.JSON(symbolsJSON),
		TypesJSON:   datatypes.JSON(typesJSON),
	})
}

func (l *Loader) cacheKey(path string, contents []byte, file *pass.File) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		return ""
	}
	h.Write([]byte(path))
	h.Write(contents)
	sum := h.Sum(nil)
	return fmt.Sprintf("%x", sum)
}

// ListModules returns every stdlib module directory name available under
// StdlibDir, found by globbing for "*/*.gem" — grounded on the teacher's
// doublestar-based core/filewalker.go traversal.
func (l *Loader) ListModules() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(l.StdlibDir), "*/*.gem")
	if err != nil {
		if _, statErr := os.Stat(l.StdlibDir); os.IsNotExist(statErr) {
			return nil, nil
		}
		return nil, err
	}

	seen := make(map[string]bool)
	var modules []string
	for _, m := range matches {
		dir := filepath.Dir(m)
		if !seen[dir] {
			seen[dir] = true
			modules = append(modules, dir)
		}
	}
	return modules, nil
}

func marshalNames(names []string) ([]byte, error) {
	return json.Marshal(names)
}
