package collections

import (
	"fmt"

	"github.com/hasbyte1/go-collect/keypath"
	"github.com/hasbyte1/go-collect/query"
)

// Key, ordering, and numeric selectors shared by the grouping, sorting, and
// aggregation methods. A selector may be a dot-separated key path, a callback,
// or nil to address the item itself ($value). Passing any other type is a
// programmer error and panics, the same way sort.Slice panics on a non-slice.

// keySelector builds a string-key extractor from by.
// Keys are coerced to strings; an unresolvable path yields "".
func (c *Collection[T]) keySelector(by any) func(T, int) string {
	switch k := by.(type) {
	case nil:
		return func(item T, _ int) string { return fmt.Sprintf("%v", item) }
	case string:
		return func(item T, _ int) string {
			v, ok := keypath.Resolve(item, k)
			if !ok {
				return ""
			}
			return fmt.Sprintf("%v", v)
		}
	case func(T) any:
		return func(item T, _ int) string { return fmt.Sprintf("%v", k(item)) }
	case func(T, int) any:
		return func(item T, i int) string { return fmt.Sprintf("%v", k(item, i)) }
	case func(T) string:
		return func(item T, _ int) string { return k(item) }
	default:
		panic(fmt.Sprintf("collections: invalid key selector %T", by))
	}
}

// lessFunc builds an ordering from by: a key path compared with
// [query.Compare], an explicit less function, or a numeric extractor.
// Incomparable pairs are treated as equal, which keeps stable sorts stable.
func (c *Collection[T]) lessFunc(by any) func(a, b T) bool {
	switch k := by.(type) {
	case nil:
		return func(a, b T) bool {
			cmp, ok := query.Compare(a, b)
			return ok && cmp < 0
		}
	case string:
		return func(a, b T) bool {
			av, aok := keypath.Resolve(a, k)
			bv, bok := keypath.Resolve(b, k)
			if !aok || !bok {
				// Absent values sort before present ones.
				return !aok && bok
			}
			cmp, ok := query.Compare(av, bv)
			return ok && cmp < 0
		}
	case func(a, b T) bool:
		return k
	case func(T) float64:
		return func(a, b T) bool { return k(a) < k(b) }
	default:
		panic(fmt.Sprintf("collections: invalid sort selector %T", by))
	}
}

// numSelector builds a numeric extractor for Sum/Avg/Min/Max. With no
// selector the item itself is the number ($value). The boolean reports
// whether the item yielded a number at all.
func (c *Collection[T]) numSelector(sel []any) func(T, int) (float64, bool) {
	if len(sel) == 0 {
		return func(item T, _ int) (float64, bool) { return query.Number(item) }
	}
	switch k := sel[0].(type) {
	case string:
		return func(item T, _ int) (float64, bool) {
			v, ok := keypath.Resolve(item, k)
			if !ok {
				return 0, false
			}
			return query.Number(v)
		}
	case func(T) float64:
		return func(item T, _ int) (float64, bool) { return k(item), true }
	case func(T, int) float64:
		return func(item T, i int) (float64, bool) { return k(item, i), true }
	default:
		panic(fmt.Sprintf("collections: invalid numeric selector %T", sel[0]))
	}
}
