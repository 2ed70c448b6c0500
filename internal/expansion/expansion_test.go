package expansion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LemurGamingYT/gemc/internal/gemtype"
	"github.com/LemurGamingYT/gemc/internal/ir"
	"github.com/LemurGamingYT/gemc/internal/pass"
	"github.com/LemurGamingYT/gemc/internal/position"
	"github.com/LemurGamingYT/gemc/internal/scope"
	"github.com/LemurGamingYT/gemc/internal/trace"
)

func pos() position.Position { return position.Position{Line: 1, Column: 1} }

func newTestFile() *pass.File {
	return &pass.File{PathName: "t.gem", Scope: scope.NewRoot()}
}

func TestCompoundVariableLowersToAssignmentOverOperation(t *testing.T) {
	file := newTestFile()
	intT := gemtype.New(gemtype.Int)
	op := "+"

	v := ir.NewVariable(pos(), intT, "x", ir.NewInt(pos(), intT, 1), true, &op)
	program := ir.NewProgram(pos(), []ir.Node{v})

	out := Run(file, program)

	assign, ok := out.Nodes[0].(*ir.Assignment)
	require.True(t, ok, "a Variable still carrying a compound op must lower to an Assignment")
	assert.Equal(t, "x", assign.Name)

	rhs, ok := assign.Value.(*ir.Operation)
	require.True(t, ok)
	assert.Equal(t, "+", rhs.Op)
	lhs, ok := rhs.Left.(*ir.Id)
	require.True(t, ok)
	assert.Equal(t, "x", lhs.Name)
}

// Every other node variant passes through unchanged.
func TestNonCompoundNodesPassThroughUnchanged(t *testing.T) {
	file := newTestFile()
	intT := gemtype.New(gemtype.Int)
	boolT := gemtype.New(gemtype.Bool)

	v := ir.NewVariable(pos(), intT, "x", ir.NewInt(pos(), intT, 1), true, nil)
	body := ir.NewBody(pos(), gemtype.New(gemtype.Nil), []ir.Node{ir.NewReturn(pos(), ir.NewId(pos(), intT, "x"))})
	ifNode := ir.NewIf(pos(), ir.NewBool(pos(), boolT, true), body, nil, nil)
	program := ir.NewProgram(pos(), []ir.Node{v, ifNode})

	out := Run(file, program)
	require.Equal(t, trace.Dump(program), trace.Dump(out))
}

// Running node-expansion twice over its own output is a no-op: the only
// rewrite it performs removes its own trigger on the first pass.
func TestRunIsIdempotent(t *testing.T) {
	file := newTestFile()
	intT := gemtype.New(gemtype.Int)
	op := "+"

	v := ir.NewVariable(pos(), intT, "x", ir.NewInt(pos(), intT, 1), true, &op)
	program := ir.NewProgram(pos(), []ir.Node{v})

	once := Run(file, program)
	twice := Run(newTestFile(), once)

	assert.Equal(t, trace.Dump(once), trace.Dump(twice))
}
