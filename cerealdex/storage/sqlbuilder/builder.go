package sqlbuilder

import (
	"strconv"
	"strings"
)

type PlaceholderStyle int

const (
	PlaceholderQuestion PlaceholderStyle = iota
	PlaceholderDollar
)

type Builder struct {
	Style PlaceholderStyle
	args  []any
}

func New(style PlaceholderStyle) *Builder {
	return &Builder{Style: style, args: make([]any, 0)}
}

// Arg records v and returns its placeholder
func (b *Builder) Arg(v any) string {
	b.args = append(b.args, v)
	switch b.Style {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(len(b.args))
	default:
		return "?"
	}
}

func (b *Builder) Args() []any { return b.args }
func (b *Builder) Len() int    { return len(b.args) }

// Assignments renders "col1 = ?, col2 = ?" for an UPDATE, binding values in order
func (b *Builder) Assignments(columns []string, values []any) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " = " + b.Arg(values[i])
	}
	return strings.Join(parts, ", ")
}

// List renders a comma-separated placeholder list binding values in order
func (b *Builder) List(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = b.Arg(v)
	}
	return strings.Join(parts, ", ")
}
