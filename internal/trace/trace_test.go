package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LemurGamingYT/gemc/internal/gemtype"
	"github.com/LemurGamingYT/gemc/internal/ir"
	"github.com/LemurGamingYT/gemc/internal/position"
)

func pos() position.Position { return position.Position{Line: 1, Column: 1} }

func sampleProgram(value int64) *ir.Program {
	intT := gemtype.New(gemtype.Int)
	v := ir.NewVariable(pos(), intT, "x", ir.NewInt(pos(), intT, value), true, nil)
	return ir.NewProgram(pos(), []ir.Node{v})
}

func TestDumpIsDeterministic(t *testing.T) {
	p := sampleProgram(1)
	assert.Equal(t, Dump(p), Dump(p))
}

func TestDumpDiffersOnDifferentInput(t *testing.T) {
	a := Dump(sampleProgram(1))
	b := Dump(sampleProgram(2))
	assert.NotEqual(t, a, b)
}

func TestRecordDisabledIsNoop(t *testing.T) {
	r := New(false)
	r.Record("pass", sampleProgram(1), sampleProgram(2))
	assert.Empty(t, r.Entries())
	assert.Empty(t, r.String())
}

func TestRecordEnabledCapturesDiff(t *testing.T) {
	r := New(true)
	before := sampleProgram(1)
	after := sampleProgram(2)
	r.Record("memory-manager", before, after)

	require.Len(t, r.Entries(), 1)
	entry := r.Entries()[0]
	assert.Equal(t, "memory-manager", entry.Pass)
	assert.NotEmpty(t, entry.Diff, "before and after differ, so a unified diff must be produced")
	assert.Contains(t, r.String(), "memory-manager")
}

func TestRecordSkipsDiffWhenUnchanged(t *testing.T) {
	r := New(true)
	same := sampleProgram(1)
	r.Record("noop-pass", same, same)

	require.Len(t, r.Entries(), 1)
	assert.Empty(t, r.Entries()[0].Diff)
	assert.False(t, strings.Contains(r.String(), "noop-pass"), "String() skips passes whose diff is empty")
}
