package filter

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ColumnSpec declares a catalog column
type ColumnSpec struct {
	Name    string
	Kind    Kind
	Allowed []string // enum columns only
	// Floor seeds the lower bound of the feasibility range of numeric
	// columns. Every column of the cereal catalog counts something
	// non-negative, hence 0.
	Floor   float64
	Aliases []string
}

// IsAllowed reports whether v is a member of the enum set
func (c ColumnSpec) IsAllowed(v string) bool {
	return slices.Contains(c.Allowed, v)
}

// Registry is an immutable lookup table of column specs
type Registry struct {
	columns []ColumnSpec
	byName  map[string]int
}

var columnNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// NewRegistry validates the specs and builds a registry. Column and alias
// names are case-insensitive.
func NewRegistry(specs ...ColumnSpec) (*Registry, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("registry needs at least one column")
	}
	r := &Registry{
		columns: make([]ColumnSpec, 0, len(specs)),
		byName:  make(map[string]int, len(specs)),
	}
	for _, spec := range specs {
		if _, ok := kindTable[spec.Kind]; !ok {
			return nil, fmt.Errorf("column %q: unknown kind %q", spec.Name, spec.Kind)
		}
		if spec.Kind == KindEnum && len(spec.Allowed) == 0 {
			return nil, fmt.Errorf("column %q: enum column needs allowed values", spec.Name)
		}
		if spec.Kind != KindEnum && len(spec.Allowed) > 0 {
			return nil, fmt.Errorf("column %q: allowed values only apply to enum columns", spec.Name)
		}
		spec.Allowed = slices.Clone(spec.Allowed)
		spec.Aliases = slices.Clone(spec.Aliases)
		idx := len(r.columns)
		for _, name := range append([]string{spec.Name}, spec.Aliases...) {
			key := strings.ToLower(name)
			if !columnNameRe.MatchString(key) {
				return nil, fmt.Errorf("invalid column name %q", name)
			}
			if _, dup := r.byName[key]; dup {
				return nil, fmt.Errorf("duplicate column name %q", name)
			}
			r.byName[key] = idx
		}
		r.columns = append(r.columns, spec)
	}
	return r, nil
}

// MustRegistry is NewRegistry for static tables
func MustRegistry(specs ...ColumnSpec) *Registry {
	r, err := NewRegistry(specs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup resolves a column or alias name to its spec
func (r *Registry) Lookup(column string) (ColumnSpec, error) {
	idx, ok := r.byName[strings.ToLower(strings.TrimSpace(column))]
	if !ok {
		return ColumnSpec{}, UnknownColumnError(column)
	}
	return r.columns[idx], nil
}

// TypeOf returns the kind of a column
func (r *Registry) TypeOf(column string) (Kind, error) {
	spec, err := r.Lookup(column)
	if err != nil {
		return "", err
	}
	return spec.Kind, nil
}

// AllowedValues returns the enum set of a column; ok is false for non-enum columns
func (r *Registry) AllowedValues(column string) (values []string, ok bool, err error) {
	spec, err := r.Lookup(column)
	if err != nil {
		return nil, false, err
	}
	if spec.Kind != KindEnum {
		return nil, false, nil
	}
	return slices.Clone(spec.Allowed), true, nil
}

// Columns returns the canonical column names in declaration order
func (r *Registry) Columns() []string {
	out := make([]string, len(r.columns))
	for i, c := range r.columns {
		out[i] = c.Name
	}
	return out
}

// Coerce converts raw into the semantic type of column
func (r *Registry) Coerce(column, raw string) (Value, error) {
	spec, err := r.Lookup(column)
	if err != nil {
		return Value{}, err
	}
	return Coerce(spec, raw)
}

var (
	// Manufacturers are the valid codes of the mfr column
	Manufacturers = []string{"Q", "K", "R", "G", "P", "N", "A"}
	// ProductTypes are the valid codes of the type column (cold, hot)
	ProductTypes = []string{"C", "H"}
)

// Catalog is the column registry of the cereal catalog
var Catalog = MustRegistry(
	ColumnSpec{Name: "id", Kind: KindInteger},
	ColumnSpec{Name: "name", Kind: KindString},
	ColumnSpec{Name: "mfr", Kind: KindEnum, Allowed: Manufacturers, Aliases: []string{"manufacturer"}},
	ColumnSpec{Name: "type", Kind: KindEnum, Allowed: ProductTypes},
	ColumnSpec{Name: "calories", Kind: KindInteger},
	ColumnSpec{Name: "protein", Kind: KindInteger},
	ColumnSpec{Name: "fat", Kind: KindInteger},
	ColumnSpec{Name: "sodium", Kind: KindInteger},
	ColumnSpec{Name: "fiber", Kind: KindFloat},
	ColumnSpec{Name: "carbo", Kind: KindFloat, Aliases: []string{"carbohydrates"}},
	ColumnSpec{Name: "sugars", Kind: KindInteger},
	ColumnSpec{Name: "potass", Kind: KindInteger, Aliases: []string{"potassium"}},
	ColumnSpec{Name: "vitamins", Kind: KindInteger},
	ColumnSpec{Name: "shelf", Kind: KindInteger},
	ColumnSpec{Name: "weight", Kind: KindFloat},
	ColumnSpec{Name: "cups", Kind: KindFloat},
	ColumnSpec{Name: "rating", Kind: KindFloat},
)
