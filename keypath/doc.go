// Package keypath resolves dot-separated key paths against values of
// arbitrary shape: nested map[string]any structures, structs (exported
// fields and json tags), pointers, and slices.
//
// # Resolution
//
//	item := map[string]any{
//	    "user": map[string]any{
//	        "name": "Alice",
//	        "address": map[string]any{"city": "London"},
//	    },
//	}
//
//	keypath.Resolve(item, "user.address.city") // → "London", true
//	keypath.Resolve(item, "user.missing")      // → nil, false
//
// Resolution never panics: a missing segment, a nil value, or a value that
// cannot be traversed simply resolves to absent. The reserved path
// [Value] ("$value") resolves to the item itself, which lets collections of
// primitives participate in keyed operations.
//
// # Writing
//
// [Set] and [Forget] mutate nested map[string]any structures in place using
// the same dot notation. They are no-ops on shapes they cannot write to.
package keypath
