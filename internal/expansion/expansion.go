// Package expansion implements the node-expansion pass (spec §4.4). The
// analyser in this implementation already performs every desugaring of
// §4.3.3 (operators, attributes, new, string literals) as part of name and
// type resolution, so this pass is the "thin re-expansion safety net"
// variant the spec allows: it only catches surface forms that survived
// analysis unchanged — a Variable still carrying a compound assignment
// operator — and otherwise is the identity transform. It deliberately makes
// no overload decisions of its own: lowering a compound-op Variable reuses
// whatever Operation/Call shape the analyser would have produced, rather
// than re-deriving a callee name here.
package expansion

import (
	"github.com/LemurGamingYT/gemc/internal/ir"
	"github.com/LemurGamingYT/gemc/internal/pass"
)

// Expansion is a structure-preserving pass: its default children-rewriter
// handles every variant except Variable, which it lowers when it still
// carries a compound op.
type Expansion struct {
	pass.Base
}

// New builds an Expansion pass bound to file.
func New(file *pass.File) *Expansion {
	e := &Expansion{}
	e.File = file
	return e
}

// Run runs node-expansion over an already-analysed program. Running it a
// second time over its own output is a no-op: the only rewrite rule it
// applies (compound-op Variable lowering) removes its own trigger on the
// first pass, so a second run finds nothing left to lower.
func Run(file *pass.File, program *ir.Program) *ir.Program {
	return pass.Run(New(file), file, program)
}

func (e *Expansion) Dispatch(node ir.Node) ir.Node {
	if v, ok := node.(*ir.Variable); ok && v.Op != nil {
		return e.lowerCompoundVariable(v)
	}
	return e.RewriteChildren(node)
}

func (e *Expansion) RewriteChildren(node ir.Node) ir.Node {
	return pass.RewriteChildren(e, node)
}

// lowerCompoundVariable rewrites `mut x op= y` surviving as a Variable into
// a plain Assignment over Operation(op, Id(x), y), matching the compound-op
// lowering spec §4.4 describes for Variable and spec §4.3.5 already
// performs for Assignment.
func (e *Expansion) lowerCompoundVariable(v *ir.Variable) ir.Node {
	value := e.Dispatch(v.Value)
	op := ir.NewOperation(v.Pos(), v.Typ(), *v.Op, ir.NewId(v.Pos(), v.Typ(), v.Name), value)
	return ir.NewAssignment(v.Pos(), v.Typ(), v.Name, op, nil)
}
