// Package analyser implements the semantic core of the pipeline: name and
// type resolution, function mangling and overload selection, generic
// monomorphisation, operator/attribute/new/ref desugaring, module loading,
// and variable/assignment rules. It is the Go-native reworking of the
// teacher's internal/evaluator.UniversalEvaluator — a single dispatch-by-kind
// walker that both resolves and rewrites in one pass — adapted from
// tree-sitter node kinds to ir.Node variants.
package analyser

import (
	"fmt"
	"strings"

	"github.com/LemurGamingYT/gemc/internal/gemtype"
	"github.com/LemurGamingYT/gemc/internal/intrinsics"
	"github.com/LemurGamingYT/gemc/internal/ir"
	"github.com/LemurGamingYT/gemc/internal/module"
	"github.com/LemurGamingYT/gemc/internal/pass"
	"github.com/LemurGamingYT/gemc/internal/scope"
	"github.com/LemurGamingYT/gemc/internal/symbol"
)

// Analyser is the pass described in spec §4.3. Loader may be nil, in which
// case Use nodes are accepted syntactically but resolve nothing (useful for
// unit tests exercising typing/overloads in isolation).
type Analyser struct {
	pass.Base
	Loader *module.Loader

	// selfName is the stdlib path name of the file currently being
	// analysed, if any; used to skip self-imports.
	selfName string

	// mangledNames remembers the symbol-table name a *ir.Function was
	// registered under, keyed by node identity. Function itself only
	// carries its surface Name; the mangled name (with overload/generic
	// suffix) lives here so call sites can recover it without re-deriving
	// it from scratch.
	mangledNames map[*ir.Function]string
	// instantiations caches generic monomorphisations by their mangled
	// instantiation name, so repeated calls with the same concrete type
	// arguments reuse one concrete function instead of generating a
	// duplicate for every call site.
	instantiations map[string]*ir.Function
}

// New builds an Analyser bound to file.
func New(file *pass.File, loader *module.Loader) *Analyser {
	a := &Analyser{
		Loader:         loader,
		mangledNames:   make(map[*ir.Function]string),
		instantiations: make(map[string]*ir.Function),
	}
	a.File = file
	return a
}

// Run analyses program, prepending the implicit `use core` unless noStdlib
// is set.
func Run(file *pass.File, loader *module.Loader, program *ir.Program, noStdlib bool) *ir.Program {
	a := New(file, loader)
	if !noStdlib {
		program = withImplicitCore(program, "")
	}
	return pass.Run(a, file, program)
}

// AsAnalyseFunc adapts a re-entrant analysis run to module.AnalyseFunc, so a
// Loader can resolve a source-language `use` target without this package
// importing module's caller (avoiding the analyser<->module import cycle).
func AsAnalyseFunc(loader *module.Loader) module.AnalyseFunc {
	return func(file *pass.File, program *ir.Program) *scope.Scope {
		stem := moduleStem(file.PathName)
		a := New(file, loader)
		a.selfName = stem
		pass.Run(a, file, withImplicitCore(program, stem))
		return file.Scope
	}
}

func withImplicitCore(program *ir.Program, selfName string) *ir.Program {
	if selfName == "core" {
		return program
	}
	useCore := ir.NewUse(program.Pos(), "core")
	nodes := append([]ir.Node{useCore}, program.Nodes...)
	return ir.NewProgram(program.Pos(), nodes)
}

func moduleStem(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, ".gem")
}

// Dispatch overrides pass.Base's default for every variant the analyser has
// an opinion about; anything else falls through to the structural rewriter.
func (a *Analyser) Dispatch(node ir.Node) ir.Node {
	switch n := node.(type) {
	case *ir.Id:
		return a.id(n)
	case *ir.String:
		return a.stringLiteral(n)
	case *ir.Bracketed:
		return a.bracketed(n)
	case *ir.Ternary:
		return a.ternary(n)
	case *ir.Function:
		return a.function(n)
	case *ir.Call:
		return a.call(n)
	case *ir.Operation:
		return a.operation(n)
	case *ir.UnaryOperation:
		return a.unaryOperation(n)
	case *ir.Attribute:
		return a.attribute(n)
	case *ir.New:
		return a.newNode(n)
	case *ir.Variable:
		return a.variable(n)
	case *ir.Assignment:
		return a.assignment(n)
	case *ir.Use:
		return a.use(n)
	case *ir.If:
		return a.ifNode(n)
	case *ir.Elseif:
		return a.elseifNode(n)
	case *ir.While:
		return a.whileNode(n)
	default:
		return a.RewriteChildren(node)
	}
}

// RewriteChildren re-enters through a so overridden handlers fire on nested
// nodes too.
func (a *Analyser) RewriteChildren(node ir.Node) ir.Node {
	return pass.RewriteChildren(a, node)
}

func (a *Analyser) scope() *scope.Scope { return a.File.Scope }

// fail reports a comptime error anchored at n's position. ComptimeError
// never returns; the ir.Node result only exists to satisfy call sites that
// need an expression.
func (a *Analyser) fail(n ir.Node, msg string) ir.Node {
	n.Pos().ComptimeError(a.File, msg)
	return n
}

func boolT() gemtype.Type { return gemtype.New(gemtype.Bool) }

// callExpr resolves callee to its symbol and builds a typed Call node,
// failing if callee is unknown. Used by desugaring rules that already know
// the exact mangled name they want (string.new, destructors, intrinsics).
func (a *Analyser) callExpr(pos ir.Node, callee string, args []ir.Node) ir.Node {
	sym := a.scope().GetSymbol(callee)
	if sym == nil {
		return a.fail(pos, fmt.Sprintf("unknown function %q", callee))
	}
	retType := sym.Type
	switch v := sym.Value.(type) {
	case *ir.Function:
		retType = v.Typ()
	case intrinsics.Intrinsic:
		retType = v.Returns
	}
	return ir.NewCall(pos.Pos(), retType, callee, args)
}

// --- §4.3.1 typing & name resolution ---------------------------------------

func (a *Analyser) id(n *ir.Id) ir.Node {
	if sym := a.scope().GetSymbol(n.Name); sym != nil {
		return ir.NewId(n.Pos(), sym.Type, n.Name)
	}
	if t, ok := a.scope().GetType(n.Name); ok {
		return ir.NewId(n.Pos(), t, n.Name)
	}
	return a.fail(n, fmt.Sprintf("unknown name %q", n.Name))
}

// stringLiteral rewrites a surface String into a call to string.new, with
// the byte length of the source string as the second argument.
func (a *Analyser) stringLiteral(n *ir.String) ir.Node {
	lit := ir.NewStringLiteral(n.Pos(), gemtype.New(gemtype.Pointer), n.Value)
	length := ir.NewInt(n.Pos(), gemtype.New(gemtype.Int), int64(len(n.Value)))
	return a.callExpr(n, "string.new", []ir.Node{lit, length})
}

func (a *Analyser) bracketed(n *ir.Bracketed) ir.Node {
	v := a.Dispatch(n.Value)
	return ir.NewBracketed(n.Pos(), v)
}

func (a *Analyser) ternary(n *ir.Ternary) ir.Node {
	cond := a.Dispatch(n.Cond)
	t := a.Dispatch(n.True)
	f := a.Dispatch(n.False)
	if !cond.Typ().Equal(boolT()) {
		return a.fail(n, fmt.Sprintf("ternary condition must be bool, got %s", cond.Typ()))
	}
	if !t.Typ().Equal(f.Typ()) {
		return a.fail(n, fmt.Sprintf("ternary branches must have the same type, got %s and %s", t.Typ(), f.Typ()))
	}
	return ir.NewTernary(n.Pos(), t.Typ(), cond, t, f)
}

// --- §4.3.5 variables and assignment ----------------------------------------

func (a *Analyser) variable(n *ir.Variable) ir.Node {
	if existing := a.scope().GetSymbol(n.Name); existing != nil {
		return a.assignment(ir.NewAssignment(n.Pos(), n.Typ(), n.Name, n.Value, n.Op))
	}

	value := a.Dispatch(n.Value)
	sym := &symbol.Symbol{Name: n.Name, Type: value.Typ(), IsMutable: n.IsMutable, SourceFile: a.File.PathName}
	a.scope().SetSymbol(sym)
	return ir.NewVariable(n.Pos(), value.Typ(), n.Name, value, n.IsMutable, nil)
}

func (a *Analyser) assignment(n *ir.Assignment) ir.Node {
	sym := a.scope().GetSymbol(n.Name)
	if sym == nil {
		return a.fail(n, fmt.Sprintf("unknown name %q", n.Name))
	}
	if !sym.IsMutable {
		return a.fail(n, fmt.Sprintf("cannot assign to immutable variable %q", n.Name))
	}

	value := n.Value
	if n.Op != nil {
		value = ir.NewOperation(n.Pos(), sym.Type, *n.Op, ir.NewId(n.Pos(), sym.Type, n.Name), n.Value)
	}
	value = a.Dispatch(value)

	return ir.NewAssignment(n.Pos(), value.Typ(), n.Name, value, nil)
}

// --- §4.3.6 control flow -----------------------------------------------------

func (a *Analyser) ifNode(n *ir.If) ir.Node {
	cond := a.Dispatch(n.Cond)
	if !cond.Typ().Equal(boolT()) {
		a.fail(n, fmt.Sprintf("if condition must be bool, got %s", cond.Typ()))
	}

	body := pass.WithChildScope(a.File, func() ir.Node { return a.Dispatch(n.Body) }).(*ir.Body)

	elseifs := make([]*ir.Elseif, len(n.Elseifs))
	for i, ei := range n.Elseifs {
		elseifs[i] = a.Dispatch(ei).(*ir.Elseif)
	}

	var elseBody *ir.Body
	if n.ElseBody != nil {
		elseBody = pass.WithChildScope(a.File, func() ir.Node { return a.Dispatch(n.ElseBody) }).(*ir.Body)
	}

	return ir.NewIf(n.Pos(), cond, body, elseifs, elseBody)
}

func (a *Analyser) elseifNode(n *ir.Elseif) ir.Node {
	cond := a.Dispatch(n.Cond)
	if !cond.Typ().Equal(boolT()) {
		a.fail(n, fmt.Sprintf("elseif condition must be bool, got %s", cond.Typ()))
	}
	body := pass.WithChildScope(a.File, func() ir.Node { return a.Dispatch(n.Body) }).(*ir.Body)
	return ir.NewElseif(n.Pos(), cond, body)
}

func (a *Analyser) whileNode(n *ir.While) ir.Node {
	cond := a.Dispatch(n.Cond)
	if !cond.Typ().Equal(boolT()) {
		a.fail(n, fmt.Sprintf("while condition must be bool, got %s", cond.Typ()))
	}
	body := pass.WithChildScope(a.File, func() ir.Node { return a.Dispatch(n.Body) }).(*ir.Body)
	return ir.NewWhile(n.Pos(), cond, body)
}

// --- §4.3.2 functions and mangling ------------------------------------------

func (a *Analyser) function(n *ir.Function) ir.Node {
	if n.Name == "new" && n.ExtendType != nil {
		n.Flags.Static = true
	}

	base := baseName(n)
	existing := a.scope().GetSymbol(base)
	var existingFn *ir.Function
	hasExistingBase := false
	if existing != nil {
		existingFn, hasExistingBase = existing.Value.(*ir.Function)
	}
	isGeneric := len(n.GenericParams) > 0
	mangled := mangleName(n, hasExistingBase && !isGeneric)

	var body *ir.Body
	if n.Body != nil {
		res := pass.WithChildScope(a.File, func() ir.Node {
			for _, p := range n.Params {
				a.File.Scope.SetSymbol(&symbol.Symbol{Name: p.Name, Type: p.Typ(), IsMutable: p.IsMutable, SourceFile: a.File.PathName})
			}
			return a.Dispatch(n.Body)
		})
		body = res.(*ir.Body)
	}

	fn := ir.NewFunction(n.Pos(), n.Typ(), n.Name, n.Params, body)
	fn.Flags = n.Flags
	fn.ExtendType = n.ExtendType
	fn.GenericParams = n.GenericParams

	a.mangledNames[fn] = mangled

	funcType := gemtype.New(gemtype.Function)
	a.scope().SetSymbol(&symbol.Symbol{Name: mangled, Type: funcType, Value: fn, SourceFile: a.File.PathName})

	switch {
	case isGeneric:
		// Keep the un-suffixed base name resolvable too (spec §4.3.2: the
		// template and its instantiations share one overload list reached
		// through the base name at call sites).
		if base != mangled {
			a.scope().SetSymbol(&symbol.Symbol{Name: base, Type: funcType, Value: fn, SourceFile: a.File.PathName})
		}
	case hasExistingBase:
		existingFn.Overloads = append(existingFn.Overloads, fn)
	}

	return fn
}

func (a *Analyser) call(n *ir.Call) ir.Node {
	args := make([]ir.Node, len(n.Args))
	for i, arg := range n.Args {
		args[i] = a.Dispatch(arg)
	}

	sym := a.scope().GetSymbol(n.Callee)
	if sym == nil {
		return a.fail(n, fmt.Sprintf("unknown function %q", n.Callee))
	}

	fn, ok := sym.Value.(*ir.Function)
	if !ok {
		retType := sym.Type
		if intr, ok := sym.Value.(intrinsics.Intrinsic); ok {
			retType = intr.Returns
		}
		return ir.NewCall(n.Pos(), retType, n.Callee, args)
	}
	return a.dispatchCall(n, n.Callee, fn, args)
}

// --- §4.3.4 modules ----------------------------------------------------------

func (a *Analyser) use(n *ir.Use) ir.Node {
	if a.Loader != nil {
		if err := a.Loader.Resolve(a.File, n, a.selfName); err != nil {
			a.fail(n, err.Error())
		}
	}
	return ir.NewUse(n.Pos(), n.Path)
}
