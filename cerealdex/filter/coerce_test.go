package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		column string
		raw    string
		want   Value
	}{
		{"calories", "110", IntValue(110)},
		{"calories", " -3 ", IntValue(-3)},
		{"weight", "1.5", FloatValue(1.5)},
		{"cups", "1", FloatValue(1)},
		{"name", "Cheerios", StringValue("Cheerios")},
		{"mfr", "K", EnumValue("K")},
		{"manufacturer", "G", EnumValue("G")},
		{"type", "H", EnumValue("H")},
	}
	for _, tt := range tests {
		t.Run(tt.column+"="+tt.raw, func(t *testing.T) {
			got, err := Catalog.Coerce(tt.column, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceInvalid(t *testing.T) {
	tests := []struct {
		column string
		raw    string
	}{
		{"weight", "abc"},
		{"calories", "1.5"},
		{"calories", ""},
		{"fiber", "NaN"},
		{"name", ""},
		{"mfr", "Z"},
		{"mfr", ""},
		{"type", "c"},
	}
	for _, tt := range tests {
		t.Run(tt.column+"="+tt.raw, func(t *testing.T) {
			_, err := Catalog.Coerce(tt.column, tt.raw)
			require.Error(t, err)
			assert.True(t, IsKind(err, ErrInvalidValue), "got %v", err)

			var fe *Error
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.raw, fe.Value)
		})
	}
}

func TestCoerceUnknownColumn(t *testing.T) {
	_, err := Catalog.Coerce("colour", "red")
	assert.True(t, IsKind(err, ErrUnknownColumn))
}

func TestRegistryLookup(t *testing.T) {
	spec, err := Catalog.Lookup("Potassium")
	require.NoError(t, err)
	assert.Equal(t, "potass", spec.Name)

	kind, err := Catalog.TypeOf("carbohydrates")
	require.NoError(t, err)
	assert.Equal(t, KindFloat, kind)

	allowed, ok, err := Catalog.AllowedValues("mfr")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.ElementsMatch(t, []string{"Q", "K", "R", "G", "P", "N", "A"}, allowed)

	_, ok, err = Catalog.AllowedValues("calories")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Len(t, Catalog.Columns(), 17)
}

func TestNewRegistryRejects(t *testing.T) {
	_, err := NewRegistry()
	assert.Error(t, err)

	_, err = NewRegistry(ColumnSpec{Name: "a", Kind: "bogus"})
	assert.Error(t, err)

	_, err = NewRegistry(ColumnSpec{Name: "a", Kind: KindEnum})
	assert.Error(t, err, "enum without allowed values")

	_, err = NewRegistry(ColumnSpec{Name: "a", Kind: KindString, Allowed: []string{"x"}})
	assert.Error(t, err)

	_, err = NewRegistry(ColumnSpec{Name: "a", Kind: KindString}, ColumnSpec{Name: "b", Kind: KindString, Aliases: []string{"A"}})
	assert.Error(t, err, "alias collides case-insensitively")

	_, err = NewRegistry(ColumnSpec{Name: "bad name", Kind: KindString})
	assert.Error(t, err)
}

func TestParseOperator(t *testing.T) {
	for _, op := range Operators() {
		byName, err := ParseOperator(op.Name())
		require.NoError(t, err)
		assert.Equal(t, op, byName)

		bySymbol, err := ParseOperator(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, bySymbol)
	}

	_, err := ParseOperator("==")
	assert.True(t, IsKind(err, ErrUnknownOperator))
	_, err = ParseOperator("like")
	assert.True(t, IsKind(err, ErrUnknownOperator))
}
