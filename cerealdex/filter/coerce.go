package filter

import (
	"math"
	"strconv"
	"strings"
)

// kindOps is the per-kind behavior of a column: how raw input is coerced and
// which domain state tracks its feasibility.
type kindOps struct {
	coerce   func(spec ColumnSpec, raw string) (Value, error)
	newState func(spec ColumnSpec) State
}

var kindTable = map[Kind]kindOps{
	KindInteger: {coerce: coerceInteger, newState: newNumericState},
	KindFloat:   {coerce: coerceFloat, newState: newNumericState},
	KindString:  {coerce: coerceString, newState: newStringState},
	KindEnum:    {coerce: coerceEnum, newState: newStringState},
}

// Coerce converts raw into the semantic type of spec
func Coerce(spec ColumnSpec, raw string) (Value, error) {
	ops, ok := kindTable[spec.Kind]
	if !ok {
		return Value{}, InvalidValueError(spec.Name, raw, "column has no coercion for kind "+string(spec.Kind), nil)
	}
	return ops.coerce(spec, raw)
}

func coerceInteger(spec ColumnSpec, raw string) (Value, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return Value{}, InvalidValueError(spec.Name, raw, "not an integer", err)
	}
	return IntValue(n), nil
}

func coerceFloat(spec ColumnSpec, raw string) (Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Value{}, InvalidValueError(spec.Name, raw, "not a number", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, InvalidValueError(spec.Name, raw, "not a finite number", nil)
	}
	return FloatValue(f), nil
}

func coerceString(spec ColumnSpec, raw string) (Value, error) {
	if raw == "" {
		return Value{}, InvalidValueError(spec.Name, raw, "empty string", nil)
	}
	return StringValue(raw), nil
}

func coerceEnum(spec ColumnSpec, raw string) (Value, error) {
	if raw == "" || !spec.IsAllowed(raw) {
		return Value{}, InvalidValueError(spec.Name, raw, "not one of "+strings.Join(spec.Allowed, ","), nil)
	}
	return EnumValue(raw), nil
}
