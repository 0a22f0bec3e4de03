package collections

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// MacroFunc is the function signature for a registered macro.
//
// The collection is passed as an any (interface{}) so that macros can be
// registered once and used across any Collection[T] instantiation.
// Type-assert inside the macro to the concrete *Collection[YourType].
type MacroFunc func(collection any, args ...any) any

// macroSet is a goroutine-safe name → macro store. Every collection owns one
// (shared with its clones and derived collections); a package-level instance
// backs the static registry.
type macroSet struct {
	mu  sync.RWMutex
	fns map[string]MacroFunc
}

func newMacroSet() *macroSet {
	return &macroSet{fns: make(map[string]MacroFunc)}
}

func (s *macroSet) get(name string) (MacroFunc, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.fns[name]
	return fn, ok
}

func (s *macroSet) set(name string, fn MacroFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns[name] = fn
}

// staticMacros is the process-wide default registry, consulted after a
// collection's own macros and before built-in methods.
var staticMacros = newMacroSet()

// builtinNames holds the lower-cased names of every Collection method.
// These are reserved: a macro may not shadow a built-in.
var builtinNames = builtinMethodNames()

func builtinMethodNames() map[string]struct{} {
	// The method set is identical across instantiations, so any concrete
	// type parameter will do.
	t := reflect.TypeOf(&Collection[any]{})
	out := make(map[string]struct{}, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		out[strings.ToLower(t.Method(i).Name)] = struct{}{}
	}
	return out
}

func isBuiltinName(name string) bool {
	_, ok := builtinNames[strings.ToLower(name)]
	return ok
}

// Macro registers an instance-local macro on this collection (shared with
// its clones and derived collections). Registering under a built-in method
// name fails with [ErrReservedMacroName]; an existing macro of the same name
// is replaced.
//
//	c.Macro("double", func(col any, _ ...any) any { return 12 })
//	v, _ := c.Call("double") // 12
func (c *Collection[T]) Macro(name string, fn MacroFunc) error {
	if isBuiltinName(name) {
		return fmt.Errorf("%w: %q", ErrReservedMacroName, name)
	}
	c.macros.set(name, fn)
	return nil
}

// RegisterMacro adds a named macro to the process-wide static registry,
// available to every collection. Built-in method names are reserved.
// Safe to call from multiple goroutines; an existing macro is replaced.
func RegisterMacro(name string, fn MacroFunc) error {
	if isBuiltinName(name) {
		return fmt.Errorf("%w: %q", ErrReservedMacroName, name)
	}
	staticMacros.set(name, fn)
	return nil
}

// HasMacro reports whether a macro with the given name is registered in the
// static registry.
func HasMacro(name string) bool {
	_, ok := staticMacros.get(name)
	return ok
}

// FlushMacros removes all macros from the static registry.
// Intended for use in tests.
func FlushMacros() {
	staticMacros.mu.Lock()
	defer staticMacros.mu.Unlock()
	staticMacros.fns = make(map[string]MacroFunc)
}

// Call invokes name against this collection. Resolution order: instance
// macro, then static macro, then built-in method (invoked reflectively, so
// Call("where", "age", ">=", 18) reaches [Collection.Where]).
// Returns [ErrMacroNotFound] when nothing answers to the name.
func (c *Collection[T]) Call(name string, args ...any) (any, error) {
	if fn, ok := c.macros.get(name); ok {
		return fn(c, args...), nil
	}
	if fn, ok := staticMacros.get(name); ok {
		return fn(c, args...), nil
	}
	return c.callBuiltin(name, args)
}

// callBuiltin dispatches to the exported method matching name.
func (c *Collection[T]) callBuiltin(name string, args []any) (any, error) {
	method := reflect.ValueOf(c).MethodByName(exportedName(name))
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrMacroNotFound, name)
	}
	in, err := buildCallArgs(method.Type(), args)
	if err != nil {
		return nil, fmt.Errorf("collections: calling builtin %q: %w", name, err)
	}
	out := method.Call(in)

	// A trailing error return is unwrapped and propagated.
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if e, _ := out[n-1].Interface().(error); e != nil {
			return nil, e
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		results := make([]any, len(out))
		for i, v := range out {
			results[i] = v.Interface()
		}
		return results, nil
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// buildCallArgs converts loosely typed macro arguments to the method's
// parameter types, honouring a variadic final parameter.
func buildCallArgs(mt reflect.Type, args []any) ([]reflect.Value, error) {
	fixed := mt.NumIn()
	if mt.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("want at least %d args, got %d", fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("want %d args, got %d", fixed, len(args))
	}

	in := make([]reflect.Value, 0, len(args))
	for i := 0; i < fixed; i++ {
		v, err := convertArg(args[i], mt.In(i))
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		in = append(in, v)
	}
	if mt.IsVariadic() {
		elem := mt.In(mt.NumIn() - 1).Elem()
		for i := fixed; i < len(args); i++ {
			v, err := convertArg(args[i], elem)
			if err != nil {
				return nil, fmt.Errorf("arg %d: %w", i, err)
			}
			in = append(in, v)
		}
	}
	return in, nil
}

func convertArg(a any, pt reflect.Type) (reflect.Value, error) {
	if a == nil {
		switch pt.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot pass nil for %s", pt)
	}
	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(pt) {
		return v, nil
	}
	if v.Type().ConvertibleTo(pt) {
		return v.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", a, pt)
}
