package filter

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// State is the running summary of every constraint folded so far for one
// column. States are values: folding never mutates the prior state.
type State interface {
	fold(spec ColumnSpec, op Operator, v Value) (State, error)
	String() string
}

// CheckValidFilter folds one typed constraint into the prior state of the
// column and returns the narrowed state. A nil prior seeds the initial state
// for the column kind. It fails with ErrInfeasible as soon as no value of the
// column can satisfy the accumulated constraints.
func CheckValidFilter(spec ColumnSpec, prior State, op Operator, v Value) (State, error) {
	if !op.valid() {
		return nil, UnknownOperatorError(strconv.Itoa(int(op)))
	}
	if prior == nil {
		ops, ok := kindTable[spec.Kind]
		if !ok {
			return nil, InvalidValueError(spec.Name, v.String(), "column has no domain for kind "+string(spec.Kind), nil)
		}
		prior = ops.newState(spec)
	}
	return prior.fold(spec, op, v)
}

// NumericState tracks the feasible range of a numeric column.
//
// Integer columns keep closed bounds and step strict comparisons by one.
// Float columns keep open/closed bounds instead, since a continuous range
// has no "next" value.
type NumericState struct {
	Integer  bool
	Min, Max float64
	MinOpen  bool
	MaxOpen  bool
	Excluded map[float64]struct{}
}

func newNumericState(spec ColumnSpec) State {
	s := &NumericState{
		Integer:  spec.Kind == KindInteger,
		Min:      spec.Floor,
		Max:      math.Inf(1),
		Excluded: map[float64]struct{}{},
	}
	if s.Integer {
		s.Min = math.Ceil(s.Min)
	}
	return s
}

func (s *NumericState) clone() *NumericState {
	c := *s
	c.Excluded = maps.Clone(s.Excluded)
	if c.Excluded == nil {
		c.Excluded = map[float64]struct{}{}
	}
	return &c
}

func (s *NumericState) fold(spec ColumnSpec, op Operator, v Value) (State, error) {
	if !v.Kind.numeric() {
		return nil, InvalidValueError(spec.Name, v.String(), "numeric column compared with text", nil)
	}
	n := v.Number()
	next := s.clone()

	var ok bool
	if next.Integer {
		ok = next.foldInteger(op, n)
	} else {
		ok = next.foldFloat(op, n)
	}
	if !ok || next.empty() {
		return nil, InfeasibleFilterError(spec.Name, op, v)
	}
	return next, nil
}

// foldInteger applies op to closed integer bounds. Non-integral operands are
// rounded toward the side that keeps the comparison exact.
func (s *NumericState) foldInteger(op Operator, n float64) bool {
	switch op {
	case OpLess:
		s.Max = math.Min(s.Max, math.Ceil(n)-1)
	case OpLessEq:
		s.Max = math.Min(s.Max, math.Floor(n))
	case OpGreater:
		s.Min = math.Max(s.Min, math.Floor(n)+1)
	case OpGreaterEq:
		s.Min = math.Max(s.Min, math.Ceil(n))
	case OpEq:
		if n != math.Trunc(n) || n < s.Min || n > s.Max {
			return false
		}
		s.Min, s.Max = n, n
	case OpNotEq:
		s.Excluded[n] = struct{}{}
	}
	return true
}

func (s *NumericState) foldFloat(op Operator, n float64) bool {
	switch op {
	case OpLess:
		if n < s.Max || (n == s.Max && !s.MaxOpen) {
			s.Max, s.MaxOpen = n, true
		}
	case OpLessEq:
		if n < s.Max {
			s.Max, s.MaxOpen = n, false
		}
	case OpGreater:
		if n > s.Min || (n == s.Min && !s.MinOpen) {
			s.Min, s.MinOpen = n, true
		}
	case OpGreaterEq:
		if n > s.Min {
			s.Min, s.MinOpen = n, false
		}
	case OpEq:
		if !s.contains(n) {
			return false
		}
		s.Min, s.Max = n, n
		s.MinOpen, s.MaxOpen = false, false
	case OpNotEq:
		s.Excluded[n] = struct{}{}
	}
	return true
}

func (s *NumericState) contains(n float64) bool {
	aboveMin := n > s.Min || (n == s.Min && !s.MinOpen)
	belowMax := n < s.Max || (n == s.Max && !s.MaxOpen)
	return aboveMin && belowMax
}

// empty reports whether no value is left in the range. Exhaustion by
// exclusions is decided by comparing the width of the range with the number
// of distinct excluded values inside it, so wide ranges cost nothing.
func (s *NumericState) empty() bool {
	if s.Min > s.Max {
		return true
	}
	if s.Min == s.Max {
		if s.MinOpen || s.MaxOpen {
			return true
		}
		_, excluded := s.Excluded[s.Min]
		return excluded
	}
	if !s.Integer || math.IsInf(s.Max, 1) || math.IsInf(s.Min, -1) {
		// a continuous or unbounded range outlives any finite exclusion set
		return false
	}
	width := s.Max - s.Min + 1
	if width > float64(len(s.Excluded)) {
		return false
	}
	inside := 0
	for e := range s.Excluded {
		if e >= s.Min && e <= s.Max && e == math.Trunc(e) {
			inside++
		}
	}
	return float64(inside) >= width
}

func (s *NumericState) String() string {
	lo, hi := "[", "]"
	if s.MinOpen {
		lo = "("
	}
	if s.MaxOpen {
		hi = ")"
	}
	out := fmt.Sprintf("%s%s, %s%s", lo, formatBound(s.Min), formatBound(s.Max), hi)
	if len(s.Excluded) > 0 {
		ex := slices.Sorted(maps.Keys(s.Excluded))
		parts := make([]string, len(ex))
		for i, e := range ex {
			parts[i] = formatBound(e)
		}
		out += " except {" + strings.Join(parts, ", ") + "}"
	}
	return out
}

func formatBound(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// StringState tracks a text or enum column: at most one pinned value and a
// set of excluded values, never overlapping.
type StringState struct {
	Pinned   string
	HasPin   bool
	Excluded map[string]struct{}
}

func newStringState(ColumnSpec) State {
	return &StringState{Excluded: map[string]struct{}{}}
}

func (s *StringState) fold(spec ColumnSpec, op Operator, v Value) (State, error) {
	if v.Kind.numeric() {
		return nil, InvalidValueError(spec.Name, v.String(), "text column compared with a number", nil)
	}
	next := &StringState{Pinned: s.Pinned, HasPin: s.HasPin, Excluded: maps.Clone(s.Excluded)}
	if next.Excluded == nil {
		next.Excluded = map[string]struct{}{}
	}
	switch op {
	case OpEq:
		if _, excluded := next.Excluded[v.Str]; excluded || (next.HasPin && next.Pinned != v.Str) {
			return nil, InfeasibleFilterError(spec.Name, op, v)
		}
		next.Pinned, next.HasPin = v.Str, true
	case OpNotEq:
		if next.HasPin && next.Pinned == v.Str {
			return nil, InfeasibleFilterError(spec.Name, op, v)
		}
		next.Excluded[v.Str] = struct{}{}
	}
	// ordering operators on text narrow rows but never prove infeasibility
	return next, nil
}

func (s *StringState) String() string {
	ex := make([]string, 0, len(s.Excluded))
	for e := range s.Excluded {
		ex = append(ex, strconv.Quote(e))
	}
	sort.Strings(ex)
	var b strings.Builder
	if s.HasPin {
		fmt.Fprintf(&b, "= %q", s.Pinned)
	} else {
		b.WriteString("any")
	}
	if len(ex) > 0 {
		b.WriteString(" except {" + strings.Join(ex, ", ") + "}")
	}
	return b.String()
}

// Tracker folds a filter list column by column. The zero value is not
// usable; create one with NewTracker per filter list.
type Tracker struct {
	reg    *Registry
	states map[string]State
	order  []string
}

func NewTracker(reg *Registry) *Tracker {
	return &Tracker{reg: reg, states: make(map[string]State)}
}

// Fold adds one filter. After an error the tracker must not be reused.
func (t *Tracker) Fold(f TypedFilter) error {
	spec, err := t.reg.Lookup(f.Column)
	if err != nil {
		return err
	}
	prior, seen := t.states[spec.Name]
	next, err := CheckValidFilter(spec, prior, f.Op, f.Value)
	if err != nil {
		return err
	}
	if !seen {
		t.order = append(t.order, spec.Name)
	}
	t.states[spec.Name] = next
	return nil
}

// State returns the current domain state of a column
func (t *Tracker) State(column string) (State, bool) {
	spec, err := t.reg.Lookup(column)
	if err != nil {
		return nil, false
	}
	s, ok := t.states[spec.Name]
	return s, ok
}

// Columns returns the constrained columns in first-seen order
func (t *Tracker) Columns() []string {
	return slices.Clone(t.order)
}
