package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LemurGamingYT/gemc/internal/gemtype"
	"github.com/LemurGamingYT/gemc/internal/symbol"
)

func TestNewRootHasBuiltinTypes(t *testing.T) {
	root := NewRoot()
	for _, name := range []string{gemtype.Int, gemtype.Float, gemtype.String, gemtype.Bool, gemtype.Nil, gemtype.Any, gemtype.Pointer, gemtype.Function} {
		_, ok := root.GetType(name)
		assert.True(t, ok, "expected builtin type %q", name)
	}
}

func TestChildScopeClonesAndIsolates(t *testing.T) {
	root := NewRoot()
	root.SetSymbol(&symbol.Symbol{Name: "x", Type: gemtype.New(gemtype.Int)})

	child := NewChild(root)
	require.NotNil(t, child.GetSymbol("x"), "child must see parent's symbols at construction time")

	child.SetSymbol(&symbol.Symbol{Name: "y", Type: gemtype.New(gemtype.Bool)})
	assert.Nil(t, root.GetSymbol("y"), "writes to a child scope must not leak to the parent")
}

func TestUniqueNameIsMonotonicAndSeededFromParent(t *testing.T) {
	root := NewRoot()
	assert.Equal(t, "_1", root.UniqueName())
	assert.Equal(t, "_2", root.UniqueName())

	child := NewChild(root)
	first := child.UniqueName()
	assert.NotEqual(t, "_1", first)
	assert.NotEqual(t, "_2", first)
}

func TestSetTypeAliasIsLocalToScope(t *testing.T) {
	root := NewRoot()
	child := NewChild(root)
	child.SetTypeAlias("T", gemtype.New(gemtype.Int))

	bound, ok := child.GetType("T")
	require.True(t, ok)
	assert.Equal(t, gemtype.Int, bound.Display)

	_, ok = root.GetType("T")
	assert.False(t, ok)
}
