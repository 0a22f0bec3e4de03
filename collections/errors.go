package collections

import "errors"

// Sentinel errors returned by Collection operations.
var (
	// ErrNoMatchingItems is returned by FirstOrFail when no item satisfies
	// the predicate.
	ErrNoMatchingItems = errors.New("collections: no items match the given condition")

	// ErrMismatchedLengths is returned by Combine when the key and value
	// slices have different lengths.
	ErrMismatchedLengths = errors.New("collections: keys and values must have the same length")

	// ErrMacroNotFound is returned by Call when a name matches neither a
	// registered macro nor a built-in method.
	ErrMacroNotFound = errors.New("collections: macro not found")

	// ErrReservedMacroName is returned when a macro registration tries to
	// shadow a built-in method name.
	ErrReservedMacroName = errors.New("collections: macro name shadows a built-in method")

	// ErrInvalidPatch is returned by Update when the patch argument is
	// neither a map[string]any nor a func(T) T.
	ErrInvalidPatch = errors.New("collections: invalid update patch")
)
