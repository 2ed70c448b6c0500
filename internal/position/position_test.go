package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringFormatsLineColumn(t *testing.T) {
	p := Position{Line: 3, Column: 7}
	assert.Equal(t, "3:7", p.String())
}

func TestZeroIsLineOneColumnZero(t *testing.T) {
	assert.Equal(t, Position{Line: 1, Column: 0}, Zero)
}

// stubSource satisfies SourceLookup without ever being passed to
// ComptimeError, which calls os.Exit and cannot be exercised in a test.
type stubSource struct {
	path, source string
}

func (s stubSource) Path() string   { return s.path }
func (s stubSource) Source() string { return s.source }

func TestStubSourceSatisfiesSourceLookup(t *testing.T) {
	var lookup SourceLookup = stubSource{path: "t.gem", source: "let x = 1\n"}
	assert.Equal(t, "t.gem", lookup.Path())
	assert.Equal(t, "let x = 1\n", lookup.Source())
}
