// Package collections provides a generic, fluent Collection type with a
// declarative MongoDB-style query surface, aggregation helpers, and a
// runtime macro mechanism.
//
// # Overview
//
// The central type is [Collection][T], a generic wrapper around an owned,
// ordered slice of T that exposes a rich, chainable API:
//
//	result := collections.From(products).
//	    MustWhere("price", ">", 100).
//	    SortByDesc("price").
//	    Take(3).
//	    Join("name", ", ", " and ")
//
// # Pure vs. mutating methods
//
// Transformation methods (Filter, Where, Map, Unique, SortBy, Take, …)
// return a *new* Collection and leave the receiver unchanged. Mutating
// methods (Delete, Update, Forget, Sort, Shuffle, Push, Pop, Shift, Unshift,
// Splice) modify the receiver in place and return it for continued chaining.
// The two families never mix: a method either always copies or always
// mutates.
//
// # Querying
//
// Where, WhereNot, Find, Delete, and Update accept the query package's
// specification grammar — field-clause maps with $-operators, the
// (key, value) / (key, operator, value) shorthand, or a plain predicate
// function. Compilation failures (unknown operator, malformed clause) are
// returned synchronously from the call, never deferred into iteration.
//
// # Aggregation
//
// GroupBy and CountBy bucket items in first-seen key order; KeyBy maps keys
// to items with a last-write-wins policy; Partition splits into matching and
// non-matching halves; Sum, Avg, Min, Max accept no selector (items are the
// numbers), a key path, or a callback.
//
// # Type-transforming operations
//
// Go generics do not allow methods to introduce new type parameters, so
// operations that change the element type are exposed as package-level
// functions:
//
//	// Method-based (returns Collection[any]):
//	c.Map(func(n int, _ int) any { return n * 2 })
//
//	// Package-level (returns Collection[string], fully typed):
//	collections.Map(c, func(n int, _ int) string { return strconv.Itoa(n) })
//
// Package-level functions: [Map], [FlatMap], [Reduce], [Pluck], [GroupBy],
// [KeyBy], [Zip], [Combine], [Collapse], [Flatten], [FlattenDeep].
//
// # Macros (runtime extension)
//
// Collections can be extended at runtime without subclassing. Instance
// macros are registered on a collection (and shared with its clones), static
// macros process-wide; [Collection.Call] resolves instance macro → static
// macro → built-in method, in that order. Built-in method names are reserved
// and cannot be shadowed:
//
//	c.Macro("evens", func(col any, _ ...any) any {
//	    return col.(*collections.Collection[int]).
//	        Filter(func(n, _ int) bool { return n%2 == 0 })
//	})
//	evens, _ := c.Call("evens")
//	_ = c.Macro("where", nil) // ErrReservedMacroName
package collections
