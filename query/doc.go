// Package query compiles MongoDB-style filter specifications into boolean
// predicates over items of arbitrary shape.
//
// # Specifications
//
// A specification is either a predicate function or a map of field paths to
// clauses. Multiple fields are AND-combined:
//
//	pred, err := query.Compile[map[string]any](map[string]any{
//	    "age":    map[string]any{"$gte": 18},
//	    "status": "active",
//	}, nil)
//
// A literal clause value means equality. An operator object maps one or more
// operator symbols to operands:
//
//	$eq $gt $gte $lt $lte $in $contains $includes $not
//
// $contains and $includes are one aliased family: a substring test when the
// resolved value is a string, an element-membership test when it is a slice.
// $not negates the clause it wraps; a top-level "$not" key negates nested
// field clauses against the whole item.
//
// Field paths are resolved with [github.com/hasbyte1/go-collect/keypath], so
// "user.address.city" addresses nested shapes and a missing segment simply
// fails to match rather than erroring.
//
// # Shorthand
//
// [Normalize] converts the two-/three-argument where() shorthand into the
// canonical map form:
//
//	query.Normalize("age", ">=", 18) // ≡ {"age": {"$gte": 18}}
//	query.Normalize("age", 18)       // ≡ {"age": {"$eq": 18}}
//
// # Custom validators
//
// A [Validators] map extends the operator vocabulary. Keys carry the leading
// "$" and are consulted in the same dispatch table as the built-in operators.
//
// # Errors
//
// Unknown operator keys and structurally malformed operator objects are
// reported by [Compile] synchronously — compilation fails fast and no error
// is ever deferred into iteration.
package query
