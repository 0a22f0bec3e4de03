package keypath

import (
	"reflect"
	"strconv"
	"strings"
)

// Value is the reserved path that resolves to the item itself rather than a
// field of it. Use it to apply keyed operations to collections of primitives.
const Value = "$value"

// Resolve retrieves the value at the dot-separated path inside item.
// The boolean reports presence: a missing segment, a nil intermediate, or a
// non-traversable value yields (nil, false) rather than an error.
//
//	Resolve(user, "address.city")
//	Resolve(42, "$value")         // → 42, true
func Resolve(item any, path string) (any, bool) {
	if path == Value || path == "" {
		return item, item != nil
	}
	current := item
	for _, seg := range strings.Split(path, ".") {
		next, ok := step(current, seg)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// step descends one path segment into current.
func step(current any, seg string) (any, bool) {
	if current == nil {
		return nil, false
	}

	// Fast path for the overwhelmingly common shape.
	if m, ok := current.(map[string]any); ok {
		v, ok := m[seg]
		return v, ok
	}

	rv := reflect.ValueOf(current)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(seg).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		return structField(rv, seg)
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	default:
		return nil, false
	}
}

// structField looks up seg as an exported field name, falling back to the
// field's json tag.
func structField(rv reflect.Value, seg string) (any, bool) {
	t := rv.Type()
	if f, ok := t.FieldByName(seg); ok && f.IsExported() {
		return rv.FieldByIndex(f.Index).Interface(), true
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if comma := strings.IndexByte(tag, ','); comma >= 0 {
			tag = tag[:comma]
		}
		if tag == seg {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}

// Set writes value into m at the dot-separated path, creating intermediate
// maps as needed.
//
//	Set(m, "user.address.postcode", "EC1")
func Set(m map[string]any, path string, value any) {
	segments := strings.SplitN(path, ".", 2)
	if len(segments) == 1 {
		m[path] = value
		return
	}
	seg, rest := segments[0], segments[1]
	nested, ok := m[seg].(map[string]any)
	if !ok {
		nested = make(map[string]any)
		m[seg] = nested
	}
	Set(nested, rest, value)
}

// Forget removes the dot-separated path from m.
// Intermediate maps are not cleaned up.
func Forget(m map[string]any, path string) {
	segments := strings.SplitN(path, ".", 2)
	if len(segments) == 1 {
		delete(m, path)
		return
	}
	seg, rest := segments[0], segments[1]
	nested, ok := m[seg].(map[string]any)
	if !ok {
		return
	}
	Forget(nested, rest)
}

// Has reports whether the dot-separated path resolves inside item.
func Has(item any, path string) bool {
	_, ok := Resolve(item, path)
	return ok
}
