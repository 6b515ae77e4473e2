package filter

import (
	"strconv"
	"strings"
)

// Operator is a comparison operator of a filter triple
type Operator int

const (
	OpEq Operator = iota
	OpNotEq
	OpLess
	OpGreater
	OpLessEq
	OpGreaterEq
)

type operatorEntry struct {
	op     Operator
	name   string
	symbol string
}

var operatorTable = []operatorEntry{
	{OpEq, "eq", "="},
	{OpNotEq, "noteq", "!="},
	{OpLess, "less", "<"},
	{OpGreater, "greater", ">"},
	{OpLessEq, "lesseq", "<="},
	{OpGreaterEq, "greatereq", ">="},
}

var (
	operatorsByName   = make(map[string]Operator, len(operatorTable))
	operatorsBySymbol = make(map[string]Operator, len(operatorTable))
)

func init() {
	for _, e := range operatorTable {
		operatorsByName[e.name] = e.op
		operatorsBySymbol[e.symbol] = e.op
	}
}

// ParseOperator resolves a symbolic name (eq, lesseq, ...) or a symbol (=, <=, ...)
func ParseOperator(s string) (Operator, error) {
	s = strings.TrimSpace(s)
	if op, ok := operatorsBySymbol[s]; ok {
		return op, nil
	}
	if op, ok := operatorsByName[strings.ToLower(s)]; ok {
		return op, nil
	}
	return 0, UnknownOperatorError(s)
}

func (op Operator) valid() bool {
	return op >= OpEq && op <= OpGreaterEq
}

// String returns the comparison symbol
func (op Operator) String() string {
	if !op.valid() {
		return "?"
	}
	return operatorTable[op].symbol
}

// Name returns the symbolic name used in forms and URLs
func (op Operator) Name() string {
	if !op.valid() {
		return "unknown"
	}
	return operatorTable[op].name
}

// Operators lists every operator in table order
func Operators() []Operator {
	out := make([]Operator, len(operatorTable))
	for i, e := range operatorTable {
		out[i] = e.op
	}
	return out
}

// holds reports whether "a op b" is true given cmp = compare(a, b)
func (op Operator) holds(cmp int) (bool, error) {
	switch op {
	case OpEq:
		return cmp == 0, nil
	case OpNotEq:
		return cmp != 0, nil
	case OpLess:
		return cmp < 0, nil
	case OpGreater:
		return cmp > 0, nil
	case OpLessEq:
		return cmp <= 0, nil
	case OpGreaterEq:
		return cmp >= 0, nil
	default:
		return false, UnknownOperatorError(strconv.Itoa(int(op)))
	}
}
