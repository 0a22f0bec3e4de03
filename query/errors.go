package query

import "errors"

// Sentinel errors reported during specification compilation.
var (
	// ErrUnknownOperator is returned when an operator object contains a
	// "$"-prefixed key that is neither a built-in operator nor a registered
	// validator.
	ErrUnknownOperator = errors.New("query: unknown operator")

	// ErrMalformedClause is returned for structurally invalid operator
	// objects, e.g. an empty object, operator keys mixed with plain field
	// keys, or an $in operand that is not a slice.
	ErrMalformedClause = errors.New("query: malformed operator object")

	// ErrInvalidSpec is returned when a specification is neither a field
	// clause map nor a supported predicate function.
	ErrInvalidSpec = errors.New("query: invalid specification")

	// ErrBadShorthand is returned by Normalize for an unsupported shorthand
	// operator symbol or argument count.
	ErrBadShorthand = errors.New("query: unsupported shorthand")
)
