package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LemurGamingYT/gemc/internal/gemtype"
)

func TestTableAddGetHas(t *testing.T) {
	tbl := NewTable()
	assert.False(t, tbl.Has("x"))

	tbl.Add(&Symbol{Name: "x", Type: gemtype.New("int")})
	require.True(t, tbl.Has("x"))
	assert.Equal(t, "x", tbl.Get("x").Name)
	assert.Nil(t, tbl.Get("y"))
}

func TestTablePreservesInsertionOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Add(&Symbol{Name: "b"})
	tbl.Add(&Symbol{Name: "a"})
	tbl.Add(&Symbol{Name: "c"})

	assert.Equal(t, []string{"b", "a", "c"}, tbl.Names())

	// overwriting an existing name doesn't move its position
	tbl.Add(&Symbol{Name: "b", Type: gemtype.New("float")})
	assert.Equal(t, []string{"b", "a", "c"}, tbl.Names())
	assert.Equal(t, "float", tbl.Get("b").Type.Display)
}

func TestTableCloneIsIndependent(t *testing.T) {
	tbl := NewTable()
	tbl.Add(&Symbol{Name: "x", Type: gemtype.New("int")})

	clone := tbl.Clone()
	clone.Add(&Symbol{Name: "y", Type: gemtype.New("bool")})

	assert.True(t, clone.Has("y"))
	assert.False(t, tbl.Has("y"), "writes to a clone must not leak back to the original")
}

func TestTableMergeLastWriterWins(t *testing.T) {
	a := NewTable()
	a.Add(&Symbol{Name: "x", Type: gemtype.New("int")})

	b := NewTable()
	b.Add(&Symbol{Name: "x", Type: gemtype.New("float")})
	b.Add(&Symbol{Name: "y", Type: gemtype.New("bool")})

	a.Merge(b)
	assert.Equal(t, "float", a.Get("x").Type.Display)
	assert.True(t, a.Has("y"))
}

func TestTypeMapAliasBinding(t *testing.T) {
	m := NewTypeMap()
	m.Add(gemtype.New("int"))
	m.AddAlias("T", gemtype.New("int"))

	bound, ok := m.Get("T")
	require.True(t, ok)
	assert.Equal(t, "int", bound.Display)
	assert.Equal(t, []string{"int", "T"}, m.Names())
}

func TestSymbolClone(t *testing.T) {
	s := &Symbol{Name: "x", Owner: OwnershipOwned}
	clone := s.Clone()
	clone.Moved = true

	assert.False(t, s.Moved, "cloning must not mutate the original")
	assert.True(t, clone.Moved)
}
