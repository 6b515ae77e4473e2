package sqlbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderPlaceholders(t *testing.T) {
	q := New(PlaceholderQuestion)
	assert.Equal(t, "a = ?, b = ?", q.Assignments([]string{"a", "b"}, []any{1, "x"}))
	assert.Equal(t, []any{1, "x"}, q.Args())

	d := New(PlaceholderDollar)
	assert.Equal(t, "$1", d.Arg(10))
	assert.Equal(t, "$2, $3", d.List([]any{"a", 2.5}))
	assert.Equal(t, "b = $4", d.Assignments([]string{"b"}, []any{true}))
	assert.Equal(t, 4, d.Len())
}
