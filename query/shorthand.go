package query

import "fmt"

// Normalize converts the where() shorthand into the canonical map form.
//
//	Normalize("age", 18)                          // → {"age": {"$eq": 18}}
//	Normalize("age", ">=", 18)                    // → {"age": {"$gte": 18}}
//	Normalize("age", "!=", 18)                    // → {"age": {"$not": {"$eq": 18}}}
//	Normalize("age", map[string]any{"$gte": 18})  // → {"age": {"$gte": 18}}
//
// Supported operator symbols: = != > < >= <= in includes.
func Normalize(key string, args ...any) (map[string]any, error) {
	switch len(args) {
	case 1:
		if spec, ok := operatorObject(args[0]); ok {
			return map[string]any{key: spec}, nil
		}
		return map[string]any{key: map[string]any{"$eq": args[0]}}, nil
	case 2:
		symbol, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: operator must be a string, got %T", ErrBadShorthand, args[0])
		}
		operator, ok := shorthandOperators[symbol]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrBadShorthand, symbol)
		}
		value := args[1]
		if operator == "$not" {
			return map[string]any{key: map[string]any{"$not": map[string]any{"$eq": value}}}, nil
		}
		return map[string]any{key: map[string]any{operator: value}}, nil
	default:
		return nil, fmt.Errorf("%w: want (key, value) or (key, operator, value)", ErrBadShorthand)
	}
}

// operatorObject reports whether v is a clause map whose keys are all
// operator names, e.g. {"$gte": 18}. Such values are used as-is instead of
// being wrapped in $eq.
func operatorObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if len(k) == 0 || k[0] != '$' {
			return nil, false
		}
	}
	return m, true
}

var shorthandOperators = map[string]string{
	"=":        "$eq",
	"!=":       "$not",
	">":        "$gt",
	"<":        "$lt",
	">=":       "$gte",
	"<=":       "$lte",
	"in":       "$in",
	"includes": "$contains",
}
