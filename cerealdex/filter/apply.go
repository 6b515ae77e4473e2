package filter

import (
	"fmt"
	"strconv"
)

// Row is a record the engine can read column values from
type Row interface {
	Field(column string) (Value, bool)
}

// MapRow is a Row backed by a map keyed by canonical column name
type MapRow map[string]Value

func (m MapRow) Field(column string) (Value, bool) {
	v, ok := m[column]
	return v, ok
}

// Triple is one raw user constraint. Op may be a symbol ("<=") or a name ("lesseq").
type Triple struct {
	Column string
	Op     string
	Raw    string
}

func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s", t.Column, t.Op, t.Raw)
}

// TypedFilter is a Triple after column, operator and value resolution
type TypedFilter struct {
	Column string // canonical column name
	Op     Operator
	Value  Value
}

func (f TypedFilter) String() string {
	return fmt.Sprintf("%s %s %s", f.Column, f.Op, f.Value)
}

// Compile resolves every triple against reg. It stops at the first failure.
func Compile(reg *Registry, triples []Triple) ([]TypedFilter, error) {
	out := make([]TypedFilter, 0, len(triples))
	for _, t := range triples {
		spec, err := reg.Lookup(t.Column)
		if err != nil {
			return nil, err
		}
		op, err := ParseOperator(t.Op)
		if err != nil {
			return nil, err
		}
		v, err := Coerce(spec, t.Raw)
		if err != nil {
			return nil, err
		}
		out = append(out, TypedFilter{Column: spec.Name, Op: op, Value: v})
	}
	return out, nil
}

// Check decides whether the conjunction of filters is satisfiable at all,
// independent of any data. It returns the first ErrInfeasible encountered
// in submission order.
func Check(reg *Registry, filters []TypedFilter) error {
	_, err := Explain(reg, filters)
	return err
}

// Explain is Check that also returns the final tracker for reporting
func Explain(reg *Registry, filters []TypedFilter) (*Tracker, error) {
	t := NewTracker(reg)
	for _, f := range filters {
		if err := t.Fold(f); err != nil {
			return t, err
		}
	}
	return t, nil
}

// Apply narrows rows by each filter in turn. The input slice is never
// modified; with no filters the rows are returned as they are.
func Apply[R Row](rows []R, filters []TypedFilter) ([]R, error) {
	if len(filters) == 0 {
		return rows, nil
	}
	for _, f := range filters {
		if !f.Op.valid() {
			return nil, UnknownOperatorError(strconv.Itoa(int(f.Op)))
		}
	}
	cur := rows
	for _, f := range filters {
		next := make([]R, 0, len(cur))
		for _, r := range cur {
			ok, err := matches(r, f)
			if err != nil {
				return nil, err
			}
			if ok {
				next = append(next, r)
			}
		}
		cur = next
	}
	return cur, nil
}

func matches(r Row, f TypedFilter) (bool, error) {
	v, ok := r.Field(f.Column)
	if !ok {
		return false, nil
	}
	c, ok := Compare(v, f.Value)
	if !ok {
		return false, nil
	}
	return f.Op.holds(c)
}

// Run compiles triples, proves them feasible and applies them to rows.
// Any failure discards the partial result.
func Run[R Row](reg *Registry, rows []R, triples []Triple) ([]R, error) {
	filters, err := Compile(reg, triples)
	if err != nil {
		return nil, err
	}
	if err := Check(reg, filters); err != nil {
		return nil, err
	}
	return Apply(rows, filters)
}
