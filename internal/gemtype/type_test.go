package gemtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualComparesByDisplay(t *testing.T) {
	assert.True(t, New("int").Equal(New("int")))
	assert.False(t, New("int").Equal(New("float")))
}

func TestBuiltinsCoversFixedSet(t *testing.T) {
	names := make(map[string]bool)
	for _, b := range Builtins() {
		names[b.Display] = true
	}
	for _, want := range []string{Int, Float, String, Bool, Nil, Any, Pointer, Function} {
		assert.True(t, names[want], "missing builtin %q", want)
	}
}

func TestReferenceTypeDoesNotCollideWithPlainType(t *testing.T) {
	plain := New(String)
	ref := Reference{Inner: plain}.Type()
	assert.NotEqual(t, plain.Display, ref.Display)
	assert.Equal(t, "&string", ref.Display)
}

func TestIsReferenceAndDeref(t *testing.T) {
	ref := Reference{Inner: New(Int)}.Type()

	inner, ok := IsReference(ref)
	require.True(t, ok)
	assert.Equal(t, Int, inner.Display)

	_, ok = IsReference(New(Int))
	assert.False(t, ok)

	assert.Equal(t, Int, Deref(ref).Display)
	assert.Equal(t, Int, Deref(New(Int)).Display, "Deref on a non-reference type is the identity")
}
