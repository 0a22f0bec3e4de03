package collections

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/hasbyte1/go-collect/keypath"
)

// ─────────────────────────────────────────────────────────────────────────────
// Numeric terminals
// ─────────────────────────────────────────────────────────────────────────────

// Sum adds up the values extracted by the optional selector: none (items are
// the numbers), a key path, or a callback. Items that do not yield a number
// are ignored. The sum of an empty collection is 0.
func (c *Collection[T]) Sum(sel ...any) float64 {
	num := c.numSelector(sel)
	var sum float64
	for i, item := range c.items {
		if v, ok := num(item, i); ok {
			sum += v
		}
	}
	return sum
}

// Avg returns the arithmetic mean of the extracted values.
// The boolean is false when no item yields a number.
func (c *Collection[T]) Avg(sel ...any) (float64, bool) {
	num := c.numSelector(sel)
	var sum float64
	count := 0
	for i, item := range c.items {
		if v, ok := num(item, i); ok {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// Average is an alias for [Collection.Avg].
func (c *Collection[T]) Average(sel ...any) (float64, bool) { return c.Avg(sel...) }

// Min returns the smallest extracted value.
// The boolean is false when no item yields a number.
func (c *Collection[T]) Min(sel ...any) (float64, bool) {
	num := c.numSelector(sel)
	best, found := 0.0, false
	for i, item := range c.items {
		v, ok := num(item, i)
		if !ok {
			continue
		}
		if !found || v < best {
			best, found = v, true
		}
	}
	return best, found
}

// Max returns the largest extracted value.
// The boolean is false when no item yields a number.
func (c *Collection[T]) Max(sel ...any) (float64, bool) {
	num := c.numSelector(sel)
	best, found := 0.0, false
	for i, item := range c.items {
		v, ok := num(item, i)
		if !ok {
			continue
		}
		if !found || v > best {
			best, found = v, true
		}
	}
	return best, found
}

// ─────────────────────────────────────────────────────────────────────────────
// String terminals
// ─────────────────────────────────────────────────────────────────────────────

// Join string-joins the values resolved at key (use keypath.Value for the
// items themselves). seps[0] is the separator (default ", "); seps[1], when
// given, separates the final pair:
//
//	names.Join("$value", ", ", " and ") // "a, b and c"
func (c *Collection[T]) Join(key string, seps ...string) string {
	sep := ", "
	if len(seps) > 0 {
		sep = seps[0]
	}
	parts := make([]string, 0, len(c.items))
	for _, item := range c.items {
		v, ok := keypath.Resolve(item, key)
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%v", v))
	}
	if len(seps) > 1 && len(parts) > 1 {
		head := strings.Join(parts[:len(parts)-1], sep)
		return head + seps[1] + parts[len(parts)-1]
	}
	return strings.Join(parts, sep)
}

// Implode joins all items into a string using sep, converting each item
// with fn.
func (c *Collection[T]) Implode(sep string, fn func(T) string) string {
	parts := make([]string, len(c.items))
	for i, item := range c.items {
		parts[i] = fn(item)
	}
	return strings.Join(parts, sep)
}

// ─────────────────────────────────────────────────────────────────────────────
// Random selection
// ─────────────────────────────────────────────────────────────────────────────

// Random returns one uniformly random item.
// Returns the zero value and false if the collection is empty.
func (c *Collection[T]) Random() (T, bool) {
	var zero T
	if len(c.items) == 0 {
		return zero, false
	}
	return c.items[rand.Intn(len(c.items))], true
}

// RandomN returns a new collection with n randomly selected items (without
// replacement). If n >= Count(), a shuffled copy of the full collection is
// returned.
func (c *Collection[T]) RandomN(n int) *Collection[T] {
	s := c.Clone().Shuffle()
	if n >= s.Count() {
		return s
	}
	return s.Take(n)
}

// ─────────────────────────────────────────────────────────────────────────────
// Non-mutating sorts
// ─────────────────────────────────────────────────────────────────────────────

// SortBy returns a new collection sorted ascending by the given selector
// (key path, less function, or numeric extractor); the receiver is unchanged.
func (c *Collection[T]) SortBy(by any) *Collection[T] {
	return c.Clone().Sort(by)
}

// SortByDesc returns a new collection sorted descending by the selector.
func (c *Collection[T]) SortByDesc(by any) *Collection[T] {
	return c.Clone().Sort(by, true)
}
