package collections

import (
	"encoding/json"
	"fmt"

	"github.com/hasbyte1/go-collect/query"
)

// Collection is a generic, ordered, queryable wrapper around a slice of T.
//
// Methods come in two flavours with an explicit return-type convention:
//
//   - Pure methods ([Collection.Filter], [Collection.Where], [Collection.Map],
//     [Collection.Unique], [Collection.SortBy], …) return a *new* Collection
//     and leave the receiver unchanged.
//   - Mutating methods ([Collection.Delete], [Collection.Update],
//     [Collection.Sort], [Collection.Push], …) modify the receiver's sequence
//     in place and return the receiver for continued chaining.
//
// # Creating a collection
//
//	c := collections.New(1, 2, 3, 4, 5)
//	c := collections.From([]Product{...})
//	c := collections.Empty[int]()
//
// # Declarative querying
//
// Where and its relatives accept a MongoDB-style specification compiled by
// the query package, a where(key, value) / where(key, op, value) shorthand,
// or a plain predicate function:
//
//	adults, err := users.Where(map[string]any{"age": map[string]any{"$gte": 18}})
//	adults, err := users.Where("age", ">=", 18)
//	adults, err := users.Where(func(u User, _ int) bool { return u.Age >= 18 })
//
// Field paths are dot-separated and may address nested shapes
// ("user.address.city"); see the keypath package.
//
// # Type-transforming operations
//
// Go generics do not allow methods to introduce new type parameters.
// Operations that change the element type are exposed as package-level
// functions: [Map], [FlatMap], [Reduce], [Pluck], [Zip], [Collapse], and the
// typed-key forms of GroupBy and KeyBy.
type Collection[T any] struct {
	items      []T
	validators query.Validators
	macros     *macroSet
}

// ─────────────────────────────────────────────────────────────────────────────
// Constructors
// ─────────────────────────────────────────────────────────────────────────────

// New creates a Collection from a variadic list of items (copied).
func New[T any](items ...T) *Collection[T] {
	dst := make([]T, len(items))
	copy(dst, items)
	return &Collection[T]{items: dst, macros: newMacroSet()}
}

// From creates a Collection from a slice (the slice is copied, never aliased).
func From[T any](items []T) *Collection[T] {
	dst := make([]T, len(items))
	copy(dst, items)
	return &Collection[T]{items: dst, macros: newMacroSet()}
}

// Empty creates an empty Collection of type T.
func Empty[T any]() *Collection[T] {
	return &Collection[T]{items: []T{}, macros: newMacroSet()}
}

// WithValidators attaches custom query operators (see [query.Validators]) to
// the collection's operator vocabulary and returns the receiver.
func (c *Collection[T]) WithValidators(v query.Validators) *Collection[T] {
	c.validators = v
	return c
}

// derive wraps items in a new Collection sharing the receiver's validator
// map and macro registry. Used by every pure method.
func (c *Collection[T]) derive(items []T) *Collection[T] {
	return &Collection[T]{items: items, validators: c.validators, macros: c.macros}
}

// Clone returns a new Collection with an independently owned copy of the
// sequence. Element references and the macro registry are shared.
func (c *Collection[T]) Clone() *Collection[T] {
	dst := make([]T, len(c.items))
	copy(dst, c.items)
	return c.derive(dst)
}

// Collect returns a new Collection around a copy of items, sharing the
// receiver's macro registry and validators. A nil items clones the receiver.
func (c *Collection[T]) Collect(items []T) *Collection[T] {
	if items == nil {
		return c.Clone()
	}
	dst := make([]T, len(items))
	copy(dst, items)
	return c.derive(dst)
}

// ─────────────────────────────────────────────────────────────────────────────
// Accessors
// ─────────────────────────────────────────────────────────────────────────────

// All returns a copy of the underlying slice.
func (c *Collection[T]) All() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// ToSlice is an alias for [Collection.All].
func (c *Collection[T]) ToSlice() []T { return c.All() }

// ToJSON serialises the collection items to a JSON array.
func (c *Collection[T]) ToJSON() ([]byte, error) {
	return json.Marshal(c.items)
}

// Count returns the number of items in the collection.
func (c *Collection[T]) Count() int { return len(c.items) }

// IsEmpty reports whether the collection contains no items.
func (c *Collection[T]) IsEmpty() bool { return len(c.items) == 0 }

// IsNotEmpty reports whether the collection has at least one item.
func (c *Collection[T]) IsNotEmpty() bool { return len(c.items) > 0 }

// Get returns the item at index together with a presence flag.
// Returns the zero value and false when index is out of range.
func (c *Collection[T]) Get(index int) (T, bool) {
	var zero T
	if index < 0 || index >= len(c.items) {
		return zero, false
	}
	return c.items[index], true
}

// Has reports whether index is a valid position in the collection.
func (c *Collection[T]) Has(index int) bool {
	return index >= 0 && index < len(c.items)
}

// Keys returns the integer indices of the collection (0 … Count()-1).
func (c *Collection[T]) Keys() []int {
	keys := make([]int, len(c.items))
	for i := range keys {
		keys[i] = i
	}
	return keys
}

// Values returns a clean copy of the collection.
func (c *Collection[T]) Values() *Collection[T] { return c.Clone() }

// String returns a JSON representation of the collection.
// It implements [fmt.Stringer].
func (c *Collection[T]) String() string {
	b, err := c.ToJSON()
	if err != nil {
		return fmt.Sprintf("%v", c.items)
	}
	return string(b)
}

// ─────────────────────────────────────────────────────────────────────────────
// Iteration
// ─────────────────────────────────────────────────────────────────────────────

// Each calls fn(item, index) for every item.
func (c *Collection[T]) Each(fn func(T, int)) {
	for i, item := range c.items {
		fn(item, i)
	}
}

// Tap calls fn(c) for side-effects (e.g. logging or debugging) and returns
// c unchanged for further chaining.
func (c *Collection[T]) Tap(fn func(*Collection[T])) *Collection[T] {
	fn(c)
	return c
}

// Dump prints the collection to stdout and returns c for chaining.
func (c *Collection[T]) Dump() *Collection[T] {
	fmt.Println(c.String())
	return c
}

// ─────────────────────────────────────────────────────────────────────────────
// Search & Lookup
// ─────────────────────────────────────────────────────────────────────────────

// First returns the first item, optionally matching fns[0].
// Returns the zero value and false when the collection is empty or no item
// satisfies the predicate.
func (c *Collection[T]) First(fns ...func(T) bool) (T, bool) {
	var zero T
	if len(fns) > 0 {
		for _, item := range c.items {
			if fns[0](item) {
				return item, true
			}
		}
		return zero, false
	}
	if len(c.items) == 0 {
		return zero, false
	}
	return c.items[0], true
}

// FirstOrFail returns the first item matching fn, or [ErrNoMatchingItems].
func (c *Collection[T]) FirstOrFail(fn func(T) bool) (T, error) {
	item, ok := c.First(fn)
	if !ok {
		return item, ErrNoMatchingItems
	}
	return item, nil
}

// Last returns the last item, optionally matching fns[0].
// Returns the zero value and false when the collection is empty or no item
// satisfies the predicate.
func (c *Collection[T]) Last(fns ...func(T) bool) (T, bool) {
	var zero T
	if len(fns) > 0 {
		var found T
		matched := false
		for _, item := range c.items {
			if fns[0](item) {
				found = item
				matched = true
			}
		}
		return found, matched
	}
	if len(c.items) == 0 {
		return zero, false
	}
	return c.items[len(c.items)-1], true
}

// Find returns the first item matching the given query specification or
// shorthand. The boolean reports whether anything matched; a compilation
// error is reported separately and never deferred to iteration.
//
//	user, ok, err := users.Find("id", 3)
func (c *Collection[T]) Find(args ...any) (T, bool, error) {
	var zero T
	pred, err := c.compileArgs(args)
	if err != nil {
		return zero, false, err
	}
	for i, item := range c.items {
		if pred(item, i) {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// Contains reports whether at least one item satisfies fn.
func (c *Collection[T]) Contains(fn func(T) bool) bool {
	for _, item := range c.items {
		if fn(item) {
			return true
		}
	}
	return false
}

// Search returns the index of the first item for which fn returns true, or -1.
func (c *Collection[T]) Search(fn func(T) bool) int {
	for i, item := range c.items {
		if fn(item) {
			return i
		}
	}
	return -1
}

// ─────────────────────────────────────────────────────────────────────────────
// Querying (pure)
// ─────────────────────────────────────────────────────────────────────────────

// compileArgs turns Where-style arguments into a predicate:
// a single specification (map or function), or the (key, value) /
// (key, operator, value) shorthand.
func (c *Collection[T]) compileArgs(args []any) (query.Predicate[T], error) {
	switch len(args) {
	case 0:
		return nil, fmt.Errorf("%w: no arguments", query.ErrInvalidSpec)
	case 1:
		return query.Compile[T](args[0], c.validators)
	default:
		key, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: shorthand key must be a string, got %T", query.ErrBadShorthand, args[0])
		}
		spec, err := query.Normalize(key, args[1:]...)
		if err != nil {
			return nil, err
		}
		return query.Compile[T](spec, c.validators)
	}
}

// Filter returns a new collection with only the items for which fn(item, index)
// returns true.
func (c *Collection[T]) Filter(fn func(T, int) bool) *Collection[T] {
	out := make([]T, 0, len(c.items))
	for i, item := range c.items {
		if fn(item, i) {
			out = append(out, item)
		}
	}
	return c.derive(out)
}

// Reject returns a new collection with items for which fn returns true removed.
// It is the complement of [Collection.Filter].
func (c *Collection[T]) Reject(fn func(T, int) bool) *Collection[T] {
	return c.Filter(func(item T, i int) bool { return !fn(item, i) })
}

// Where returns a new collection with the items matching the given query
// specification, shorthand, or predicate function. Compilation errors
// (unknown operator, malformed clause) are returned at the call site.
//
//	c.Where(map[string]any{"age": map[string]any{"$gte": 18}})
//	c.Where("age", ">=", 18)
//	c.Where("status", "active")
func (c *Collection[T]) Where(args ...any) (*Collection[T], error) {
	pred, err := c.compileArgs(args)
	if err != nil {
		return nil, err
	}
	return c.Filter(pred), nil
}

// WhereNot returns a new collection with the matching items removed.
func (c *Collection[T]) WhereNot(args ...any) (*Collection[T], error) {
	pred, err := c.compileArgs(args)
	if err != nil {
		return nil, err
	}
	return c.Reject(pred), nil
}

// Not is an alias for [Collection.WhereNot].
func (c *Collection[T]) Not(args ...any) (*Collection[T], error) {
	return c.WhereNot(args...)
}

// MustWhere is like [Collection.Where] but panics on a compilation error.
// Intended for fluent chains over specifications known to be valid.
func (c *Collection[T]) MustWhere(args ...any) *Collection[T] {
	out, err := c.Where(args...)
	if err != nil {
		panic(err)
	}
	return out
}

// MustWhereNot is like [Collection.WhereNot] but panics on a compilation error.
func (c *Collection[T]) MustWhereNot(args ...any) *Collection[T] {
	out, err := c.WhereNot(args...)
	if err != nil {
		panic(err)
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Transformation (pure, type-preserving)
// ─────────────────────────────────────────────────────────────────────────────

// Map returns a new Collection[any] with each item transformed by fn(item, index).
//
// For type-safe transformation to a concrete type U, use the package-level
// [Map] function instead.
func (c *Collection[T]) Map(fn func(T, int) any) *Collection[any] {
	out := make([]any, len(c.items))
	for i, item := range c.items {
		out[i] = fn(item, i)
	}
	return &Collection[any]{items: out, validators: c.validators, macros: c.macros}
}

// FlatMap maps each item to a []any via fn and flattens the results one level.
//
// For type-safe flat-mapping, use the package-level [FlatMap] function.
func (c *Collection[T]) FlatMap(fn func(T, int) []any) *Collection[any] {
	out := make([]any, 0, len(c.items))
	for i, item := range c.items {
		out = append(out, fn(item, i)...)
	}
	return &Collection[any]{items: out, validators: c.validators, macros: c.macros}
}

// Pluck extracts a value from each item using fn and returns a Collection[any].
func (c *Collection[T]) Pluck(fn func(T) any) *Collection[any] {
	return c.Map(func(item T, _ int) any { return fn(item) })
}

// Unique returns a new collection with duplicates removed, first occurrence
// winning. The key selector may be a dot-separated path, a func(T) any, or
// nil to compare items by their formatted value.
func (c *Collection[T]) Unique(by any) *Collection[T] {
	key := c.keySelector(by)
	seen := make(map[string]struct{}, len(c.items))
	return c.Filter(func(item T, i int) bool {
		k := key(item, i)
		if _, ok := seen[k]; ok {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}

// Diff returns items in c that are not present in other.
// fn extracts the key used for equality comparison.
func (c *Collection[T]) Diff(other *Collection[T], fn func(T) any) *Collection[T] {
	set := make(map[any]struct{}, other.Count())
	other.Each(func(item T, _ int) { set[fn(item)] = struct{}{} })
	return c.Filter(func(item T, _ int) bool {
		_, found := set[fn(item)]
		return !found
	})
}

// Intersect returns items that appear in both c and other.
// fn extracts the key used for equality comparison.
func (c *Collection[T]) Intersect(other *Collection[T], fn func(T) any) *Collection[T] {
	set := make(map[any]struct{}, other.Count())
	other.Each(func(item T, _ int) { set[fn(item)] = struct{}{} })
	return c.Filter(func(item T, _ int) bool {
		_, found := set[fn(item)]
		return found
	})
}

// Reverse returns a new collection with items in reversed order.
func (c *Collection[T]) Reverse() *Collection[T] {
	n := len(c.items)
	out := make([]T, n)
	for i, item := range c.items {
		out[n-1-i] = item
	}
	return c.derive(out)
}

// Concat returns a new collection with all items from other appended.
func (c *Collection[T]) Concat(other *Collection[T]) *Collection[T] {
	out := make([]T, 0, len(c.items)+len(other.items))
	out = append(out, c.items...)
	out = append(out, other.items...)
	return c.derive(out)
}

// Merge is an alias for [Collection.Concat].
func (c *Collection[T]) Merge(other *Collection[T]) *Collection[T] { return c.Concat(other) }

// ─────────────────────────────────────────────────────────────────────────────
// Slicing
// ─────────────────────────────────────────────────────────────────────────────

// Take returns at most n items from the start.
// A negative n returns items from the end (e.g. Take(-3) ≡ last 3 items).
func (c *Collection[T]) Take(n int) *Collection[T] {
	total := len(c.items)
	if n < 0 {
		start := total + n
		if start < 0 {
			start = 0
		}
		return c.Collect(c.items[start:])
	}
	if n > total {
		n = total
	}
	return c.Collect(c.items[:n])
}

// Skip returns a new collection skipping the first n items.
// A negative n skips items counted from the end.
func (c *Collection[T]) Skip(n int) *Collection[T] {
	total := len(c.items)
	if n < 0 {
		end := total + n
		if end < 0 {
			return c.derive([]T{})
		}
		return c.Collect(c.items[:end])
	}
	if n >= total {
		return c.derive([]T{})
	}
	return c.Collect(c.items[n:])
}

// Slice returns items starting at offset with at most length items.
// A negative offset counts from the end. length of -1 means "to the end".
func (c *Collection[T]) Slice(offset, length int) *Collection[T] {
	total := len(c.items)
	if offset < 0 {
		offset = total + offset
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return c.derive([]T{})
	}
	if length < 0 {
		return c.Collect(c.items[offset:])
	}
	end := offset + length
	if end > total {
		end = total
	}
	return c.Collect(c.items[offset:end])
}

// Chunk splits the collection into consecutive sub-collections of size.
// The last chunk may contain fewer than size items.
// Returns an empty slice if size <= 0 or the collection is empty.
func (c *Collection[T]) Chunk(size int) []*Collection[T] {
	if size <= 0 || len(c.items) == 0 {
		return []*Collection[T]{}
	}
	chunks := make([]*Collection[T], 0, (len(c.items)+size-1)/size)
	for i := 0; i < len(c.items); i += size {
		end := i + size
		if end > len(c.items) {
			end = len(c.items)
		}
		chunks = append(chunks, c.Collect(c.items[i:end]))
	}
	return chunks
}

// ─────────────────────────────────────────────────────────────────────────────
// Conditional pipeline
// ─────────────────────────────────────────────────────────────────────────────

// When calls fn(c) if condition is true and returns the result.
// Otherwise returns c unchanged.
func (c *Collection[T]) When(condition bool, fn func(*Collection[T]) *Collection[T]) *Collection[T] {
	if condition {
		return fn(c)
	}
	return c
}

// Unless calls fn(c) if condition is false; otherwise returns c.
func (c *Collection[T]) Unless(condition bool, fn func(*Collection[T]) *Collection[T]) *Collection[T] {
	return c.When(!condition, fn)
}

// WhenEmpty calls fn(c) if c is empty; otherwise returns c.
func (c *Collection[T]) WhenEmpty(fn func(*Collection[T]) *Collection[T]) *Collection[T] {
	return c.When(c.IsEmpty(), fn)
}

// WhenNotEmpty calls fn(c) if c is not empty; otherwise returns c.
func (c *Collection[T]) WhenNotEmpty(fn func(*Collection[T]) *Collection[T]) *Collection[T] {
	return c.When(c.IsNotEmpty(), fn)
}
