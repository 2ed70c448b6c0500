// Package memory implements the memory-manager pass (spec §4.5): single-
// owner tracking for destructor-bearing values, temporary extraction, move
// detection through Variable/Assignment/Return, and destructor-call
// insertion on every scope-exit path of a Body. It re-derives its own
// scope nesting as it walks the tree (the analyser's per-function child
// scopes are already gone by the time this pass runs), the same
// recursive-descent-with-child-scope shape internal/analyser uses, adapted
// from resolving names to tracking ownership.
package memory

import (
	"github.com/LemurGamingYT/gemc/internal/gemtype"
	"github.com/LemurGamingYT/gemc/internal/ir"
	"github.com/LemurGamingYT/gemc/internal/pass"
	"github.com/LemurGamingYT/gemc/internal/position"
	"github.com/LemurGamingYT/gemc/internal/scope"
	"github.com/LemurGamingYT/gemc/internal/symbol"
)

// Memory is the pass described in spec §4.5.
type Memory struct {
	pass.Base

	// pending is the output list of the Body currently being assembled;
	// extracting a temporary appends its synthesised Variable here, ahead
	// of whatever statement triggered the extraction.
	pending *[]ir.Node

	// frames is the stack of Bodies currently being walked, outermost
	// first. A Return nested inside a block (an if/while body) sits in
	// its own Body's output list, not its enclosing function Body's —
	// so reaching it must still unwind every enclosing frame's
	// owned-unmoved locals, not just the innermost one (spec §4.5.3,
	// boundary scenario f: an early return still runs the destructors of
	// every scope it exits through).
	frames []*bodyFrame
}

// bodyFrame is one open Body on the frames stack: its own child scope and
// the name set that scope started with, used to compute "locals declared
// so far" at any point during that Body's statement walk.
type bodyFrame struct {
	scope  *scope.Scope
	parent map[string]bool
}

// New builds a Memory pass bound to file.
func New(file *pass.File) *Memory {
	m := &Memory{}
	m.File = file
	return m
}

// Run runs the memory-manager pass over an already node-expanded program.
func Run(file *pass.File, program *ir.Program) *ir.Program {
	return pass.Run(New(file), file, program)
}

// RewriteChildren re-enters through m so nested nodes route back through
// m.Dispatch rather than pass.Base's default.
func (m *Memory) RewriteChildren(node ir.Node) ir.Node {
	return pass.RewriteChildren(m, node)
}

// Dispatch is also the "nested expression" dispatcher: after recursing into
// children, a destructor-bearing result that isn't already a bare Id is
// extracted into a fresh temporary (spec §4.5.2). Statement forms that
// directly consume their value (Variable, Assignment, Return) bypass this
// self-extraction via rewriteValue instead of calling Dispatch on
// themselves.
func (m *Memory) Dispatch(node ir.Node) ir.Node {
	switch n := node.(type) {
	case *ir.Function:
		return m.function(n)
	case *ir.Body:
		return m.body(n)
	case *ir.Variable:
		return m.variableStmt(n)
	case *ir.Assignment:
		return m.assignmentStmt(n)
	case *ir.Return:
		return m.returnStmt(n)
	case *ir.Id:
		return n
	default:
		rewritten := m.RewriteChildren(node)
		if m.hasDestructor(rewritten.Typ()) {
			return m.extract(rewritten)
		}
		return rewritten
	}
}

// rewriteValue recurses into value's children without subjecting value
// itself to extraction — the form every directly-consuming statement
// (Variable/Assignment/Return) uses for its own value.
func (m *Memory) rewriteValue(value ir.Node) ir.Node {
	return pass.RewriteChildren(m, value)
}

func (m *Memory) hasDestructor(t gemtype.Type) bool {
	if t.Display == "" {
		return false
	}
	return m.File.Scope.GetSymbol(t.Display+".destroy") != nil
}

// extract hoists value into a fresh compiler-synthesised variable in the
// current Body (spec §4.5.2), recording it as Owned, and returns an Id
// referencing it in value's place.
func (m *Memory) extract(value ir.Node) ir.Node {
	name := m.File.Scope.UniqueName()
	m.File.Scope.SetSymbol(&symbol.Symbol{
		Name: name, Type: value.Typ(), SourceFile: m.File.PathName,
		Owner: symbol.OwnershipOwned,
	})
	*m.pending = append(*m.pending, ir.NewVariable(value.Pos(), value.Typ(), name, value, false, nil))
	return ir.NewId(value.Pos(), value.Typ(), name)
}

// recordMove marks the source symbol of an Id-valued assignment as moved,
// per the §4.5.4 move rules: Variable/Assignment/Return binding an Owned
// Id transfers ownership away from it.
func (m *Memory) recordMove(value ir.Node) {
	id, ok := value.(*ir.Id)
	if !ok {
		return
	}
	if src := m.File.Scope.GetSymbol(id.Name); src != nil && src.Owner == symbol.OwnershipOwned {
		src.Moved = true
	}
}

func (m *Memory) variableStmt(n *ir.Variable) ir.Node {
	value := m.rewriteValue(n.Value)
	m.recordMove(value)

	owner := symbol.OwnershipNone
	if m.hasDestructor(value.Typ()) {
		owner = symbol.OwnershipOwned
	}
	m.File.Scope.SetSymbol(&symbol.Symbol{
		Name: n.Name, Type: value.Typ(), IsMutable: n.IsMutable, SourceFile: m.File.PathName,
		Owner: owner,
	})
	return ir.NewVariable(n.Pos(), value.Typ(), n.Name, value, n.IsMutable, nil)
}

func (m *Memory) assignmentStmt(n *ir.Assignment) ir.Node {
	value := m.rewriteValue(n.Value)
	m.recordMove(value)

	if target := m.File.Scope.GetSymbol(n.Name); target != nil {
		target.Moved = false
		if target.Owner == symbol.OwnershipNone && m.hasDestructor(value.Typ()) {
			target.Owner = symbol.OwnershipOwned
		}
	}
	return ir.NewAssignment(n.Pos(), value.Typ(), n.Name, value, nil)
}

// returnStmt rewrites the return value, then — before returning — unwinds
// every frame strictly enclosing the one it sits in, appending their
// destroy sequences to the innermost in-progress Body (m.pending) ahead of
// the Return itself. The frame it sits in is left alone here: that frame's
// own body() call inserts destructors for its own locals once it finishes
// walking its statement list (it doesn't know yet whether later statements
// in the same block declare more locals to destroy).
func (m *Memory) returnStmt(n *ir.Return) ir.Node {
	value := m.rewriteValue(n.Value)
	m.recordMove(value)
	m.unwindEnclosingFrames(n.Pos())
	return ir.NewReturn(n.Pos(), value)
}

// unwindEnclosingFrames emits destroy calls for every frame above the
// current (innermost) one, from the nearest enclosing outward, matching
// stack-unwind order.
func (m *Memory) unwindEnclosingFrames(pos position.Position) {
	for i := len(m.frames) - 2; i >= 0; i-- {
		frame := m.frames[i]
		locals := localsSince(frame.parent, frame.scope)
		*m.pending = append(*m.pending, m.destroyCalls(pos, locals)...)
	}
}

// function binds parameters as Owned-but-already-moved (spec §4.5.5: the
// callee never destroys its incoming parameters) before dispatching the
// body in its own nested child scope.
func (m *Memory) function(n *ir.Function) ir.Node {
	if n.Body == nil {
		return n
	}

	var body *ir.Body
	pass.WithChildScope(m.File, func() ir.Node {
		for _, p := range n.Params {
			m.File.Scope.SetSymbol(&symbol.Symbol{
				Name: p.Name, Type: p.Typ(), IsMutable: p.IsMutable, SourceFile: m.File.PathName,
				Owner: symbol.OwnershipOwned, Moved: true,
			})
		}
		body = m.Dispatch(n.Body).(*ir.Body)
		return nil
	})

	fn := ir.NewFunction(n.Pos(), n.Typ(), n.Name, n.Params, body)
	fn.Flags = n.Flags
	fn.ExtendType = n.ExtendType
	fn.GenericParams = n.GenericParams
	fn.Overloads = n.Overloads
	fn.Instantiations = n.Instantiations
	return fn
}

// body implements scope exit (spec §4.5.3): it processes every statement in
// its own nested child scope, diffs that scope against the one it entered
// with to find its own locals, and inserts a destroy sequence before every
// direct Return and again at the textual end if the body doesn't already
// end in one. A Return nested inside one of this body's own statements (an
// if/while block) is handled separately, by returnStmt unwinding this
// body's frame from within that nested block's own output list.
func (m *Memory) body(n *ir.Body) ir.Node {
	parent := nameSet(m.File.Scope.Symbols.Names())

	var out []ir.Node
	saved := m.pending
	m.pending = &out

	var child *scope.Scope
	pass.WithChildScope(m.File, func() ir.Node {
		child = m.File.Scope
		m.frames = append(m.frames, &bodyFrame{scope: child, parent: parent})
		for _, stmt := range n.Nodes {
			out = append(out, m.Dispatch(stmt))
		}
		m.frames = m.frames[:len(m.frames)-1]
		return nil
	})
	m.pending = saved

	locals := localsSince(parent, child)
	makeDestroys := func() []ir.Node { return m.destroyCalls(n.Pos(), locals) }

	result := insertBeforeReturns(out, makeDestroys)
	if len(result) == 0 || !isReturn(result[len(result)-1]) {
		result = append(result, makeDestroys()...)
	}

	return ir.NewBody(n.Pos(), n.Typ(), result)
}

// destroyCalls builds one Call("{type}.destroy", [Ref(name)]) per Owned,
// not-moved local, in reverse declaration order (documented choice: spec
// §9 leaves forward-vs-reverse open; reverse mirrors stack unwind order).
func (m *Memory) destroyCalls(pos position.Position, locals []*symbol.Symbol) []ir.Node {
	var calls []ir.Node
	for i := len(locals) - 1; i >= 0; i-- {
		sym := locals[i]
		if sym.Owner != symbol.OwnershipOwned || sym.Moved {
			continue
		}
		destroyName := sym.Type.Display + ".destroy"
		retType := gemtype.New(gemtype.Nil)
		if d := m.File.Scope.GetSymbol(destroyName); d != nil {
			retType = d.Type
		}
		refType := gemtype.Reference{Inner: sym.Type}.Type()
		ref := ir.NewRef(pos, refType, sym.Name)
		calls = append(calls, ir.NewCall(pos, retType, destroyName, []ir.Node{ref}))
	}
	return calls
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// localsSince returns the symbols of child not present in parent, in the
// order they were declared.
func localsSince(parent map[string]bool, child *scope.Scope) []*symbol.Symbol {
	var locals []*symbol.Symbol
	for _, name := range child.Symbols.Names() {
		if parent[name] {
			continue
		}
		if sym := child.Symbols.Get(name); sym != nil {
			locals = append(locals, sym)
		}
	}
	return locals
}

func insertBeforeReturns(stmts []ir.Node, makeDestroys func() []ir.Node) []ir.Node {
	result := make([]ir.Node, 0, len(stmts))
	for _, stmt := range stmts {
		if isReturn(stmt) {
			result = append(result, makeDestroys()...)
		}
		result = append(result, stmt)
	}
	return result
}

func isReturn(n ir.Node) bool {
	_, ok := n.(*ir.Return)
	return ok
}
