package query

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hasbyte1/go-collect/keypath"
)

// Validator extends the operator vocabulary. It receives the value resolved
// at the field path (nil when absent) and the operand written in the
// specification, and reports whether the item matches.
type Validator func(resolved, operand any) bool

// Validators maps "$"-prefixed operator names to their implementations.
// Registered names are consulted in the same dispatch table as the built-in
// operators.
type Validators map[string]Validator

// op is the closed set of clause variants. Specifications are parsed into
// this representation once, so matching performs no string dispatch.
type op uint8

const (
	opEq op = iota
	opGt
	opGte
	opLt
	opLte
	opIn
	opContains
	opNot
	opCustom
)

// clause is one parsed operator application against a resolved field value.
type clause struct {
	op      op
	operand any
	sub     []clause  // children of opNot
	fn      Validator // implementation for opCustom
}

// fieldClause is all clauses applied to a single field path, AND-combined.
type fieldClause struct {
	path    string
	clauses []clause
}

// compiledSpec is a fully parsed specification: field clauses plus any
// whole-item negations introduced by a top-level "$not" key.
type compiledSpec struct {
	fields []fieldClause
	nots   []compiledSpec
}

// parseSpec parses a field-clause map into its compiled form.
func parseSpec(spec map[string]any, validators Validators) (compiledSpec, error) {
	var out compiledSpec
	for _, key := range sortedKeys(spec) {
		value := spec[key]
		if key == "$not" {
			nested, ok := value.(map[string]any)
			if !ok {
				return out, fmt.Errorf("%w: $not expects nested field clauses, got %T", ErrMalformedClause, value)
			}
			sub, err := parseSpec(nested, validators)
			if err != nil {
				return out, err
			}
			out.nots = append(out.nots, sub)
			continue
		}
		clauses, err := parseClause(value, validators)
		if err != nil {
			return out, fmt.Errorf("field %q: %w", key, err)
		}
		out.fields = append(out.fields, fieldClause{path: key, clauses: clauses})
	}
	return out, nil
}

// parseClause parses one Clause: a literal (equality) or an operator object.
func parseClause(value any, validators Validators) ([]clause, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return []clause{{op: opEq, operand: value}}, nil
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("%w: empty operator object", ErrMalformedClause)
	}

	operatorKeys := 0
	for key := range m {
		if strings.HasPrefix(key, "$") {
			operatorKeys++
		}
	}
	if operatorKeys == 0 {
		// A plain map literal compares by equality.
		return []clause{{op: opEq, operand: value}}, nil
	}
	if operatorKeys != len(m) {
		return nil, fmt.Errorf("%w: operator keys mixed with plain keys", ErrMalformedClause)
	}

	out := make([]clause, 0, len(m))
	for _, key := range sortedKeys(m) {
		operand := m[key]
		switch key {
		case "$eq":
			out = append(out, clause{op: opEq, operand: operand})
		case "$gt":
			out = append(out, clause{op: opGt, operand: operand})
		case "$gte":
			out = append(out, clause{op: opGte, operand: operand})
		case "$lt":
			out = append(out, clause{op: opLt, operand: operand})
		case "$lte":
			out = append(out, clause{op: opLte, operand: operand})
		case "$in":
			if !isSequence(operand) {
				return nil, fmt.Errorf("%w: $in operand must be a slice, got %T", ErrMalformedClause, operand)
			}
			out = append(out, clause{op: opIn, operand: operand})
		case "$contains", "$includes":
			out = append(out, clause{op: opContains, operand: operand})
		case "$not":
			sub, err := parseClause(operand, validators)
			if err != nil {
				return nil, err
			}
			out = append(out, clause{op: opNot, sub: sub})
		default:
			fn, ok := validators[key]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, key)
			}
			out = append(out, clause{op: opCustom, operand: operand, fn: fn})
		}
	}
	return out, nil
}

// match evaluates the compiled specification against one item.
func (s compiledSpec) match(item any) bool {
	for _, fc := range s.fields {
		resolved, present := keypath.Resolve(item, fc.path)
		if !evalClauses(resolved, present, fc.clauses) {
			return false
		}
	}
	for _, neg := range s.nots {
		if neg.match(item) {
			return false
		}
	}
	return true
}

func evalClauses(resolved any, present bool, clauses []clause) bool {
	for _, c := range clauses {
		if !evalClause(resolved, present, c) {
			return false
		}
	}
	return true
}

// evalClause evaluates a single clause variant. Ordering and membership
// operators treat an absent value as a non-match.
func evalClause(resolved any, present bool, c clause) bool {
	switch c.op {
	case opEq:
		return present && Equal(resolved, c.operand)
	case opGt:
		cmp, ok := Compare(resolved, c.operand)
		return present && ok && cmp > 0
	case opGte:
		cmp, ok := Compare(resolved, c.operand)
		return present && ok && cmp >= 0
	case opLt:
		cmp, ok := Compare(resolved, c.operand)
		return present && ok && cmp < 0
	case opLte:
		cmp, ok := Compare(resolved, c.operand)
		return present && ok && cmp <= 0
	case opIn:
		return present && sequenceContains(c.operand, resolved)
	case opContains:
		return present && containsValue(resolved, c.operand)
	case opNot:
		return !evalClauses(resolved, present, c.sub)
	case opCustom:
		return c.fn(resolved, c.operand)
	}
	return false
}

// containsValue implements the $contains/$includes family: substring for
// string values, element membership for slice values.
func containsValue(resolved, operand any) bool {
	if s, ok := resolved.(string); ok {
		needle, ok := operand.(string)
		return ok && strings.Contains(s, needle)
	}
	return sequenceContains(resolved, operand)
}

// sequenceContains reports whether seq (a slice or array) has an element
// loosely equal to value.
func sequenceContains(seq, value any) bool {
	rv := reflect.ValueOf(seq)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if Equal(rv.Index(i).Interface(), value) {
			return true
		}
	}
	return false
}

func isSequence(v any) bool {
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

