package filter

import (
	"cmp"
	"math"
	"strconv"
)

// Kind is the semantic type of a catalog column
type Kind string

const (
	KindInteger Kind = "integer"
	KindFloat   Kind = "float"
	KindString  Kind = "string"
	KindEnum    Kind = "enum"
)

func (k Kind) numeric() bool {
	return k == KindInteger || k == KindFloat
}

// Value is a typed column value. Only the field matching Kind is meaningful;
// enum values are carried in Str.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Str   string
}

func IntValue(v int64) Value     { return Value{Kind: KindInteger, Int: v} }
func FloatValue(v float64) Value { return Value{Kind: KindFloat, Float: v} }
func StringValue(v string) Value { return Value{Kind: KindString, Str: v} }
func EnumValue(v string) Value   { return Value{Kind: KindEnum, Str: v} }

// Number returns the numeric value promoted to float64
func (v Value) Number() float64 {
	if v.Kind == KindInteger {
		return float64(v.Int)
	}
	return v.Float
}

// Any unwraps the value for encoders (JSON, SQL args)
func (v Value) Any() any {
	switch v.Kind {
	case KindInteger:
		return v.Int
	case KindFloat:
		return v.Float
	default:
		return v.Str
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return v.Str
	}
}

// Compare orders two values. Numeric kinds compare numerically (integers
// exactly, mixed kinds as float64), textual kinds lexicographically.
// ok is false when a numeric value is compared with a textual one.
func Compare(a, b Value) (c int, ok bool) {
	switch {
	case a.Kind == KindInteger && b.Kind == KindInteger:
		return cmp.Compare(a.Int, b.Int), true
	case a.Kind.numeric() && b.Kind.numeric():
		x, y := a.Number(), b.Number()
		if math.IsNaN(x) || math.IsNaN(y) {
			return 0, false
		}
		return cmp.Compare(x, y), true
	case !a.Kind.numeric() && !b.Kind.numeric():
		return cmp.Compare(a.Str, b.Str), true
	default:
		return 0, false
	}
}
