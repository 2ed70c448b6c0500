package analyser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LemurGamingYT/gemc/internal/corelib"
	"github.com/LemurGamingYT/gemc/internal/gemtype"
	"github.com/LemurGamingYT/gemc/internal/intrinsics"
	"github.com/LemurGamingYT/gemc/internal/ir"
	"github.com/LemurGamingYT/gemc/internal/pass"
	"github.com/LemurGamingYT/gemc/internal/position"
	"github.com/LemurGamingYT/gemc/internal/scope"
)

func pos() position.Position { return position.Position{Line: 1, Column: 1} }

func newTestFile() *pass.File {
	root := scope.NewRoot()
	intrinsics.Default().Install(root)
	return &pass.File{PathName: "t.gem", Scope: root}
}

// --- (a) Simple arithmetic ---------------------------------------------

func TestArithmeticLowersToIntrinsicCall(t *testing.T) {
	file := newTestFile()
	intT := gemtype.New(gemtype.Int)

	op := ir.NewOperation(pos(), intT, "+", ir.NewInt(pos(), intT, 1), ir.NewInt(pos(), intT, 2))
	program := ir.NewProgram(pos(), []ir.Node{op})

	out := Run(file, nil, program, true)
	call, ok := out.Nodes[0].(*ir.Call)
	require.True(t, ok, "expected Operation to lower to a Call")
	assert.Equal(t, "int.+.int", call.Callee)
	assert.Equal(t, gemtype.Int, call.Typ().Display)
}

// --- (b) Overload selection ----------------------------------------------

func TestOverloadSelectionPicksMatchingSignature(t *testing.T) {
	file := newTestFile()
	intT := gemtype.New(gemtype.Int)
	floatT := gemtype.New(gemtype.Float)

	fnInt := ir.NewFunction(pos(), intT, "f",
		[]*ir.Param{ir.NewParam(pos(), intT, "a", false)},
		ir.NewBody(pos(), intT, []ir.Node{ir.NewReturn(pos(), ir.NewId(pos(), intT, "a"))}))
	fnFloat := ir.NewFunction(pos(), floatT, "f",
		[]*ir.Param{ir.NewParam(pos(), floatT, "a", false)},
		ir.NewBody(pos(), floatT, []ir.Node{ir.NewReturn(pos(), ir.NewId(pos(), floatT, "a"))}))

	callInt := ir.NewCall(pos(), intT, "f", []ir.Node{ir.NewInt(pos(), intT, 1)})
	callFloat := ir.NewCall(pos(), floatT, "f", []ir.Node{ir.NewFloat(pos(), floatT, 1.0)})

	program := ir.NewProgram(pos(), []ir.Node{fnInt, fnFloat, callInt, callFloat})
	out := Run(file, nil, program, true)

	gotInt := out.Nodes[2].(*ir.Call)
	gotFloat := out.Nodes[3].(*ir.Call)

	assert.Equal(t, gemtype.Int, gotInt.Typ().Display)
	assert.Equal(t, gemtype.Float, gotFloat.Typ().Display)
	assert.NotEqual(t, gotInt.Callee, gotFloat.Callee, "int and float overloads must mangle to distinct names")
}

// --- (c) Generic instantiation --------------------------------------------

func TestGenericInstantiationMonomorphises(t *testing.T) {
	file := newTestFile()
	intT := gemtype.New(gemtype.Int)
	genericT := gemtype.New("T")

	template := ir.NewFunction(pos(), genericT, "id",
		[]*ir.Param{ir.NewParam(pos(), genericT, "x", false)},
		ir.NewBody(pos(), genericT, []ir.Node{ir.NewReturn(pos(), ir.NewId(pos(), genericT, "x"))}))
	template.GenericParams = []string{"T"}

	call := ir.NewCall(pos(), genericT, "id", []ir.Node{ir.NewInt(pos(), intT, 1)})

	program := ir.NewProgram(pos(), []ir.Node{template, call})
	out := Run(file, nil, program, true)

	got := out.Nodes[1].(*ir.Call)
	assert.Equal(t, "id<int>", got.Callee)
	assert.Equal(t, gemtype.Int, got.Typ().Display)

	sym := file.Scope.GetSymbol("id<int>")
	require.NotNil(t, sym)
	concrete := sym.Value.(*ir.Function)
	assert.Equal(t, gemtype.Int, concrete.Typ().Display)
}

// --- (d) String lowering ---------------------------------------------------

func TestStringLiteralLowersToStringNew(t *testing.T) {
	file := newTestFile()
	corelib.New(file).AddToScope(file.Scope)

	str := ir.NewString(pos(), gemtype.New(gemtype.String), "hi")
	program := ir.NewProgram(pos(), []ir.Node{str})

	out := Run(file, nil, program, true)
	call := out.Nodes[0].(*ir.Call)

	assert.Equal(t, "string.new", call.Callee)
	require.Len(t, call.Args, 2)
	lit := call.Args[0].(*ir.StringLiteral)
	assert.Equal(t, "hi", lit.Value)
	length := call.Args[1].(*ir.Int)
	assert.EqualValues(t, 2, length.Value)
}

// --- variables, assignment, control flow ------------------------------------

func TestVariableRedeclarationBecomesAssignment(t *testing.T) {
	file := newTestFile()
	intT := gemtype.New(gemtype.Int)

	first := ir.NewVariable(pos(), intT, "x", ir.NewInt(pos(), intT, 1), true, nil)
	second := ir.NewVariable(pos(), intT, "x", ir.NewInt(pos(), intT, 2), true, nil)

	program := ir.NewProgram(pos(), []ir.Node{first, second})
	out := Run(file, nil, program, true)

	_, ok := out.Nodes[1].(*ir.Assignment)
	assert.True(t, ok, "re-declaring a variable in the same scope must behave as assignment")
}

func TestIfBranchesRunInChildScope(t *testing.T) {
	file := newTestFile()
	boolT := gemtype.New(gemtype.Bool)
	intT := gemtype.New(gemtype.Int)

	inner := ir.NewVariable(pos(), intT, "y", ir.NewInt(pos(), intT, 1), true, nil)
	ifNode := ir.NewIf(pos(), ir.NewBool(pos(), boolT, true), ir.NewBody(pos(), intT, []ir.Node{inner}), nil, nil)

	program := ir.NewProgram(pos(), []ir.Node{ifNode})
	Run(file, nil, program, true)

	assert.Nil(t, file.Scope.GetSymbol("y"), "a variable declared inside an if-body must not leak to the enclosing scope")
}
