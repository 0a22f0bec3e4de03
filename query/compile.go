package query

import (
	"fmt"
	"sort"
)

// Predicate is a compiled matcher: it receives an item and its position in
// the sequence being filtered.
type Predicate[T any] func(item T, index int) bool

// Compile turns a specification into a predicate.
//
// Accepted forms:
//   - func(T, int) bool or [Predicate][T] — used as the predicate directly
//   - func(T) bool — wrapped, the index is ignored
//   - map[string]any — field clauses per the package grammar
//
// Compilation fails fast: unknown operators and malformed operator objects
// are reported here, never during iteration.
func Compile[T any](spec any, validators Validators) (Predicate[T], error) {
	switch s := spec.(type) {
	case Predicate[T]:
		return s, nil
	case func(T, int) bool:
		return s, nil
	case func(T) bool:
		return func(item T, _ int) bool { return s(item) }, nil
	case map[string]any:
		compiled, err := parseSpec(s, validators)
		if err != nil {
			return nil, err
		}
		return func(item T, _ int) bool { return compiled.match(item) }, nil
	case nil:
		return nil, fmt.Errorf("%w: nil spec", ErrInvalidSpec)
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidSpec, spec)
	}
}

// Match compiles spec and evaluates it against a single item.
// Intended for one-off checks; for repeated matching compile once.
func Match[T any](item T, spec any, validators Validators) (bool, error) {
	pred, err := Compile[T](spec, validators)
	if err != nil {
		return false, err
	}
	return pred(item, 0), nil
}

// sortedKeys returns the map's keys in a stable order so that parse errors
// are deterministic.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
