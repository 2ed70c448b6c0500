// Package pass implements the dispatch-by-variant visitor framework every
// compiler pass is built from (spec §4.1). It is the Go-native analogue of
// the teacher's staged, diagnosable Pipeline.Apply
// (internal/core/pipeline.go): a sequence of named steps run in order over
// an immutable input, returning a new, structurally equivalent output. Here
// the "steps" are one method per IR node variant instead of eight fixed
// pipeline stages, because the middle-end's unit of work is a recursive
// tree rewrite rather than a linear edit plan.
package pass

import (
	"github.com/LemurGamingYT/gemc/internal/ir"
	"github.com/LemurGamingYT/gemc/internal/scope"
)

// File is the minimal per-compilation-unit context a pass needs: where the
// source came from, its current scope, and the source text for error
// reporting. It satisfies position.SourceLookup.
type File struct {
	PathName string
	Scope    *scope.Scope
	SrcText  string
}

func (f *File) Path() string   { return f.PathName }
func (f *File) Source() string { return f.SrcText }

// Visitor is implemented by every concrete pass (Analyser, Expansion,
// Memory). Dispatch receives a node and returns its replacement;
// passes that have nothing to say about a given variant call
// RewriteChildren to get the default structural recursion.
type Visitor interface {
	Dispatch(node ir.Node) ir.Node
	RewriteChildren(node ir.Node) ir.Node
}

// Base is embedded by concrete passes to get RewriteChildren, WithChildScope,
// and a Run entrypoint for free. A concrete pass supplies its own Dispatch
// by embedding Base and shadowing Dispatch; Base.Dispatch itself just calls
// RewriteChildren, so a pass with no handler at all is the identity
// transform (spec §8, invariant 4).
type Base struct {
	File *File
}

// Run drives a full pass over a Program. Self is the concrete pass (the one
// embedding Base) so that Dispatch calls go through its overridden method
// set rather than Base's default.
func Run(self Visitor, file *File, program *ir.Program) *ir.Program {
	nodes := make([]ir.Node, len(program.Nodes))
	for i, n := range program.Nodes {
		nodes[i] = self.Dispatch(n)
	}
	return ir.NewProgram(program.Pos(), nodes)
}

// Dispatch is the default: no per-variant handler, just recurse into
// children. Concrete passes override this.
func (b *Base) Dispatch(node ir.Node) ir.Node {
	return b.RewriteChildren(node)
}

// RewriteChildren is the structure-preserving default children-rewriter
// (spec §4.1, §8 invariant 4): every list-valued and node-valued field is
// recursively re-dispatched through self, and a new node of the same shape
// is returned. It never mutates the input node.
//
// Because the dispatcher that must be re-entered for children is the
// *concrete* pass (so overridden handlers fire for nested nodes too), this
// takes self explicitly rather than calling b.Dispatch.
func RewriteChildren(self Visitor, node ir.Node) ir.Node {
	switch n := node.(type) {
	case *ir.Program:
		return ir.NewProgram(n.Pos(), dispatchAll(self, n.Nodes))
	case *ir.Body:
		return ir.NewBody(n.Pos(), n.Typ(), dispatchAll(self, n.Nodes))
	case *ir.Function:
		body := n.Body
		if body != nil {
			body = self.Dispatch(body).(*ir.Body)
		}
		f := ir.NewFunction(n.Pos(), n.Typ(), n.Name, n.Params, body)
		f.Flags = n.Flags
		f.ExtendType = n.ExtendType
		f.GenericParams = n.GenericParams
		f.Overloads = n.Overloads
		f.Instantiations = n.Instantiations
		return f
	case *ir.Variable:
		return ir.NewVariable(n.Pos(), n.Typ(), n.Name, self.Dispatch(n.Value), n.IsMutable, n.Op)
	case *ir.Assignment:
		return ir.NewAssignment(n.Pos(), n.Typ(), n.Name, self.Dispatch(n.Value), n.Op)
	case *ir.If:
		elseifs := make([]*ir.Elseif, len(n.Elseifs))
		for i, ei := range n.Elseifs {
			elseifs[i] = self.Dispatch(ei).(*ir.Elseif)
		}
		var elseBody *ir.Body
		if n.ElseBody != nil {
			elseBody = self.Dispatch(n.ElseBody).(*ir.Body)
		}
		return ir.NewIf(n.Pos(), self.Dispatch(n.Cond), self.Dispatch(n.Body).(*ir.Body), elseifs, elseBody)
	case *ir.Elseif:
		return ir.NewElseif(n.Pos(), self.Dispatch(n.Cond), self.Dispatch(n.Body).(*ir.Body))
	case *ir.While:
		return ir.NewWhile(n.Pos(), self.Dispatch(n.Cond), self.Dispatch(n.Body).(*ir.Body))
	case *ir.Break:
		return ir.NewBreak(n.Pos())
	case *ir.Continue:
		return ir.NewContinue(n.Pos())
	case *ir.Return:
		return ir.NewReturn(n.Pos(), self.Dispatch(n.Value))
	case *ir.Use:
		return ir.NewUse(n.Pos(), n.Path)
	case *ir.Int:
		return ir.NewInt(n.Pos(), n.Typ(), n.Value)
	case *ir.Float:
		return ir.NewFloat(n.Pos(), n.Typ(), n.Value)
	case *ir.Bool:
		return ir.NewBool(n.Pos(), n.Typ(), n.Value)
	case *ir.String:
		return ir.NewString(n.Pos(), n.Typ(), n.Value)
	case *ir.StringLiteral:
		return ir.NewStringLiteral(n.Pos(), n.Typ(), n.Value)
	case *ir.Id:
		return ir.NewId(n.Pos(), n.Typ(), n.Name)
	case *ir.Bracketed:
		return ir.NewBracketed(n.Pos(), self.Dispatch(n.Value))
	case *ir.Call:
		return ir.NewCall(n.Pos(), n.Typ(), n.Callee, dispatchAll(self, n.Args))
	case *ir.Cast:
		return ir.NewCast(n.Pos(), n.Typ(), self.Dispatch(n.Value))
	case *ir.New:
		return ir.NewNewNode(n.Pos(), n.NewType, dispatchAll(self, n.Args))
	case *ir.Operation:
		return ir.NewOperation(n.Pos(), n.Typ(), n.Op, self.Dispatch(n.Left), self.Dispatch(n.Right))
	case *ir.UnaryOperation:
		return ir.NewUnaryOperation(n.Pos(), n.Typ(), n.Op, self.Dispatch(n.Value))
	case *ir.Attribute:
		var args []ir.Node
		if n.Args != nil {
			args = dispatchAll(self, n.Args)
		}
		return ir.NewAttribute(n.Pos(), n.Typ(), self.Dispatch(n.Value), n.Attr, args)
	case *ir.Ternary:
		return ir.NewTernary(n.Pos(), n.Typ(), self.Dispatch(n.Cond), self.Dispatch(n.True), self.Dispatch(n.False))
	case *ir.Ref:
		return ir.NewRef(n.Pos(), n.Typ(), n.Name)
	case *ir.TypeNode:
		return ir.NewTypeNode(n.Pos(), n.Typ())
	case *ir.ReferenceTypeNode:
		return ir.NewReferenceTypeNode(n.Pos(), n.Inner)
	case *ir.Param, *ir.Arg:
		return n.(ir.Node)
	default:
		return node
	}
}

func dispatchAll(self Visitor, nodes []ir.Node) []ir.Node {
	out := make([]ir.Node, len(nodes))
	for i, n := range nodes {
		out[i] = self.Dispatch(n)
	}
	return out
}

// RewriteChildren on Base delegates to the package-level function with
// itself as the re-entrant dispatcher; a concrete pass embedding Base and
// overriding Dispatch should call pass.RewriteChildren(self, node) instead
// of b.RewriteChildren so nested dispatch uses its own handlers.
func (b *Base) RewriteChildren(node ir.Node) ir.Node {
	return RewriteChildren(b, node)
}

// WithChildScope saves the file's current scope, installs a fresh
// copy-on-write child for the duration of fn, then restores the saved
// scope — the scoped primitive spec §4.1 requires for entering an If
// branch, While body, or Function body.
func WithChildScope(file *File, fn func() ir.Node) ir.Node {
	saved := file.Scope
	file.Scope = scope.NewChild(saved)
	result := fn()
	file.Scope = saved
	return result
}
