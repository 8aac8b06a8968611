package functions

import (
	"fmt"
	"reflect"
	"strconv"
)

func registerBuiltins(r *Registry) {
	// Aggregation
	r.Register("SUM", fnSum)
	r.Register("AVG", fnAvg)
	r.Register("MIN", fnMin)
	r.Register("MAX", fnMax)
	r.Register("COUNT", fnCount)

	// Date
	r.Register("TODAY", fnToday)
	r.Register("NOW", fnNow)
	r.Register("DATEADD", fnDateAdd)
	r.Register("DATEDIFF", fnDateDiff)

	// Logic
	r.Register("IF", fnIf)
	r.Register("AND", fnAnd)
	r.Register("OR", fnOr)
	r.Register("NOT", fnNot)
	r.Register("SWITCH", fnSwitch)

	// String
	r.Register("CONCAT", fnConcat)
	r.Register("LEFT", fnLeft)
	r.Register("RIGHT", fnRight)
	r.Register("TRIM", fnTrim)
	r.Register("UPPER", fnUpper)
	r.Register("LOWER", fnLower)
}

// flatten expands nested slice arguments into a single flat list, preserving
// order. Non-slice values pass through unchanged.
func flatten(args []any) []any {
	out := make([]any, 0, len(args))
	for _, arg := range args {
		v := reflect.ValueOf(arg)
		if arg != nil && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) {
			inner := make([]any, v.Len())
			for i := 0; i < v.Len(); i++ {
				inner[i] = v.Index(i).Interface()
			}
			out = append(out, flatten(inner)...)
			continue
		}
		out = append(out, arg)
	}
	return out
}

// toNumber coerces numeric kinds (and numeric strings) to float64.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Truthy implements the loose boolean coercion used by the logic functions
// and condition evaluation: nil, false, zero and "" are false; everything
// else is true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		if n, ok := toNumber(v); ok {
			return n != 0
		}
		return true
	}
}

// toString renders a value for string primitives; nil becomes "".
func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// looseEqual compares values the way SWITCH matches keys: numerically when
// both sides coerce to numbers, otherwise by rendered string.
func looseEqual(a, b any) bool {
	an, aok := toNumber(a)
	bn, bok := toNumber(b)
	if aok && bok {
		return an == bn
	}
	return toString(a) == toString(b)
}
