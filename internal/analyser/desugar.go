package analyser

import (
	"fmt"

	"github.com/LemurGamingYT/gemc/internal/gemtype"
	"github.com/LemurGamingYT/gemc/internal/ir"
)

// operation desugars a binary operator to a call against the fixed
// "{L.type}.{op}.{R.type}" intrinsic name (spec §4.3.3). Unlike ordinary
// Call sites, operator names are not overloaded by this pass — the
// catalogue in internal/intrinsics already enumerates every valid
// type/operator combination, so a miss here is always "no such operator
// for this type pair" rather than a candidate to monomorphise.
func (a *Analyser) operation(n *ir.Operation) ir.Node {
	left := a.Dispatch(n.Left)
	right := a.Dispatch(n.Right)
	name := fmt.Sprintf("%s.%s.%s", left.Typ().Display, n.Op, right.Typ().Display)
	return a.callExpr(n, name, []ir.Node{left, right})
}

// unaryOperation desugars to "{op}.{V.type}".
func (a *Analyser) unaryOperation(n *ir.UnaryOperation) ir.Node {
	value := a.Dispatch(n.Value)
	name := fmt.Sprintf("%s.%s", n.Op, value.Typ().Display)
	return a.callExpr(n, name, []ir.Node{value})
}

// attribute desugars `value.attr` / `value.attr(args)` to a call against
// "{value.type}.{attr}" (value.type dereferenced first), dropping the
// leading receiver argument when the resolved method is static (spec
// §4.3.3). A nil Args means a field read: a call taking only the receiver,
// since gem fields are backed by single-signature accessor functions with
// no overload set to resolve against.
func (a *Analyser) attribute(n *ir.Attribute) ir.Node {
	value := a.Dispatch(n.Value)
	receiverType := gemtype.Deref(value.Typ())
	name := receiverType.Display + "." + n.Attr

	if n.Args == nil {
		return a.callExpr(n, name, []ir.Node{value})
	}

	args := make([]ir.Node, len(n.Args))
	for i, arg := range n.Args {
		args[i] = a.Dispatch(arg)
	}

	sym := a.scope().GetSymbol(name)
	if sym == nil {
		return a.fail(n, fmt.Sprintf("unknown method %q", name))
	}

	fn, ok := sym.Value.(*ir.Function)
	if !ok {
		allArgs := append([]ir.Node{value}, args...)
		return ir.NewCall(n.Pos(), sym.Type, name, allArgs)
	}

	allArgs := append([]ir.Node{value}, args...)
	if fn.Flags.Static {
		allArgs = args
	}
	return a.dispatchCall(n, name, fn, allArgs)
}

// newNode desugars `new T(args)` to Attribute(Id(T), "new", args), then
// re-enters dispatch so the ordinary attribute/constructor path (including
// the automatic static flag set in function()) handles the rest.
func (a *Analyser) newNode(n *ir.New) ir.Node {
	typeId := ir.NewId(n.Pos(), n.NewType, n.NewType.Display)
	attr := ir.NewAttribute(n.Pos(), n.Typ(), typeId, "new", n.Args)
	return a.Dispatch(attr)
}
