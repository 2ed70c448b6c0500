package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LemurGamingYT/gemc/internal/corelib"
	"github.com/LemurGamingYT/gemc/internal/gemtype"
	"github.com/LemurGamingYT/gemc/internal/ir"
	"github.com/LemurGamingYT/gemc/internal/pass"
	"github.com/LemurGamingYT/gemc/internal/position"
	"github.com/LemurGamingYT/gemc/internal/scope"
)

func pos() position.Position { return position.Position{Line: 1, Column: 1} }

// newTestFile builds a scope with `string` registered as a destructor-
// bearing type (via string.new/string.destroy from internal/corelib), the
// way a real compilation would after `use core`.
func newTestFile() *pass.File {
	root := scope.NewRoot()
	file := &pass.File{PathName: "t.gem", Scope: root}
	corelib.New(file).AddToScope(root)
	return file
}

func newString(name string) *ir.Call {
	strT := gemtype.New(gemtype.String)
	ptrT := gemtype.New(gemtype.Pointer)
	intT := gemtype.New(gemtype.Int)
	return ir.NewCall(pos(), strT, "string.new", []ir.Node{
		ir.NewStringLiteral(pos(), ptrT, name),
		ir.NewInt(pos(), intT, int64(len(name))),
	})
}

// --- (e) ownership move -----------------------------------------------

func TestMoveSuppressesSourceDestroyAndDestroysOnlyTarget(t *testing.T) {
	file := newTestFile()
	strT := gemtype.New(gemtype.String)

	// mut s = "hi"
	// let t = s
	s := ir.NewVariable(pos(), strT, "s", newString("hi"), true, nil)
	tVar := ir.NewVariable(pos(), strT, "t", ir.NewId(pos(), strT, "s"), false, nil)

	fn := ir.NewFunction(pos(), gemtype.New(gemtype.Nil), "f", nil, ir.NewBody(pos(), gemtype.New(gemtype.Nil), []ir.Node{s, tVar}))
	program := ir.NewProgram(pos(), []ir.Node{fn})

	out := Run(file, program)
	body := out.Nodes[0].(*ir.Function).Body

	var destroys []*ir.Call
	for _, n := range body.Nodes {
		if call, ok := n.(*ir.Call); ok && call.Callee == "string.destroy" {
			destroys = append(destroys, call)
		}
	}

	require.Len(t, destroys, 1, "exactly one destroy call: s was moved into t, so only t is destroyed")
	ref := destroys[0].Args[0].(*ir.Ref)
	assert.Equal(t, "t", ref.Name)
}

// --- (f) destructors run before every return, including nested ones ----

func TestEarlyReturnInsideIfStillDestroysOuterLocal(t *testing.T) {
	file := newTestFile()
	strT := gemtype.New(gemtype.String)
	boolT := gemtype.New(gemtype.Bool)
	intT := gemtype.New(gemtype.Int)
	nilT := gemtype.New(gemtype.Nil)

	// fn f() {
	//   let s = "x"
	//   if true { return 1 }
	//   return 2
	// }
	s := ir.NewVariable(pos(), strT, "s", newString("x"), false, nil)
	earlyReturn := ir.NewReturn(pos(), ir.NewInt(pos(), intT, 1))
	ifNode := ir.NewIf(pos(), ir.NewBool(pos(), boolT, true),
		ir.NewBody(pos(), intT, []ir.Node{earlyReturn}), nil, nil)
	lateReturn := ir.NewReturn(pos(), ir.NewInt(pos(), intT, 2))

	fn := ir.NewFunction(pos(), intT, "f", nil, ir.NewBody(pos(), nilT, []ir.Node{s, ifNode, lateReturn}))
	program := ir.NewProgram(pos(), []ir.Node{fn})

	out := Run(file, program)
	outerBody := out.Nodes[0].(*ir.Function).Body

	// the outer body's own statement list: s, if, destroy(s), return 2
	require.Len(t, outerBody.Nodes, 4)
	outerIf, ok := outerBody.Nodes[1].(*ir.If)
	require.True(t, ok)
	outerDestroy, ok := outerBody.Nodes[2].(*ir.Call)
	require.True(t, ok)
	assert.Equal(t, "string.destroy", outerDestroy.Callee)
	_, ok = outerBody.Nodes[3].(*ir.Return)
	require.True(t, ok)

	// the if-branch's own statement list must contain destroy(s) before
	// its nested return, even though s belongs to the enclosing scope.
	innerNodes := outerIf.Body.Nodes
	require.Len(t, innerNodes, 2, "destroy(s) must be inserted before the nested return")
	innerDestroy, ok := innerNodes[0].(*ir.Call)
	require.True(t, ok, "first statement of the if-body must be the hoisted destroy of the outer local")
	assert.Equal(t, "string.destroy", innerDestroy.Callee)
	ref := innerDestroy.Args[0].(*ir.Ref)
	assert.Equal(t, "s", ref.Name)

	_, ok = innerNodes[1].(*ir.Return)
	require.True(t, ok)
}

// --- destructor-free types don't generate calls -------------------------

func TestNonOwningLocalsGenerateNoDestroyCalls(t *testing.T) {
	file := newTestFile()
	intT := gemtype.New(gemtype.Int)

	v := ir.NewVariable(pos(), intT, "n", ir.NewInt(pos(), intT, 1), true, nil)
	fn := ir.NewFunction(pos(), gemtype.New(gemtype.Nil), "f", nil, ir.NewBody(pos(), gemtype.New(gemtype.Nil), []ir.Node{v}))
	program := ir.NewProgram(pos(), []ir.Node{fn})

	out := Run(file, program)
	body := out.Nodes[0].(*ir.Function).Body

	for _, n := range body.Nodes {
		if call, ok := n.(*ir.Call); ok {
			assert.NotEqual(t, "int.destroy", call.Callee)
		}
	}
}

// --- parameters are never destroyed by the callee -----------------------

func TestParametersAreNotDestroyedByCallee(t *testing.T) {
	file := newTestFile()
	strT := gemtype.New(gemtype.String)
	nilT := gemtype.New(gemtype.Nil)

	param := ir.NewParam(pos(), strT, "s", false)
	body := ir.NewBody(pos(), nilT, nil)
	fn := ir.NewFunction(pos(), nilT, "f", []*ir.Param{param}, body)
	program := ir.NewProgram(pos(), []ir.Node{fn})

	out := Run(file, program)
	outBody := out.Nodes[0].(*ir.Function).Body

	for _, n := range outBody.Nodes {
		if call, ok := n.(*ir.Call); ok {
			assert.NotEqual(t, "string.destroy", call.Callee, "a parameter must never be destroyed inside its own function")
		}
	}
}
