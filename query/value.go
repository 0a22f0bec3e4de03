package query

import (
	"reflect"
	"strings"
)

// Equal compares two values for query equality, normalising numeric kinds so
// that a JSON-decoded float64 matches a Go int of the same magnitude.
// Non-numeric values fall back to deep equality.
func Equal(a, b any) bool {
	fa, aNum := Number(a)
	fb, bNum := Number(b)
	if aNum && bNum {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

// Compare orders two values: -1, 0, or 1. The boolean reports comparability —
// mixed or unordered kinds are incomparable and never satisfy an ordering
// operator. Numbers compare numerically, strings lexicographically.
func Compare(a, b any) (int, bool) {
	fa, aNum := Number(a)
	fb, bNum := Number(b)
	if aNum && bNum {
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}
	sa, aStr := a.(string)
	sb, bStr := b.(string)
	if aStr && bStr {
		return strings.Compare(sa, sb), true
	}
	return 0, false
}

// Number coerces any built-in numeric kind to float64.
func Number(v any) (float64, bool) {
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
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
