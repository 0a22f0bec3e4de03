package collections

import (
	"fmt"
	"math/rand"
	"reflect"
	"sort"
	"strings"

	"github.com/hasbyte1/go-collect/keypath"
)

// This file holds the mutating half of the Collection API. Every method here
// modifies the receiver's sequence in place and returns the receiver so that
// chains can continue; the pure half lives in collection.go.

// Delete removes all items matching the given query specification or
// shorthand, in place.
//
//	c.Delete("status", "inactive")
func (c *Collection[T]) Delete(args ...any) (*Collection[T], error) {
	pred, err := c.compileArgs(args)
	if err != nil {
		return c, err
	}
	kept := c.items[:0]
	for i, item := range c.items {
		if !pred(item, i) {
			kept = append(kept, item)
		}
	}
	// Zero the tail so removed elements do not pin references.
	var zero T
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = zero
	}
	c.items = kept
	return c, nil
}

// Update mutates every item matching spec. patch may be:
//   - a map[string]any, shallow-merged into map- or struct-shaped items
//     (dot-separated keys address nested maps);
//   - a func(T) T, whose return value replaces the item.
//
//	c.Update(map[string]any{"status": "active"}, map[string]any{"verified": true})
//	c.Update("id", 3, func(u User) User { u.Age++; return u })
//
// The final argument is the patch; everything before it is the
// specification or shorthand.
func (c *Collection[T]) Update(args ...any) (*Collection[T], error) {
	if len(args) < 2 {
		return c, fmt.Errorf("%w: Update needs a spec and a patch", ErrInvalidPatch)
	}
	patch := args[len(args)-1]
	pred, err := c.compileArgs(args[:len(args)-1])
	if err != nil {
		return c, err
	}
	for i, item := range c.items {
		if !pred(item, i) {
			continue
		}
		switch p := patch.(type) {
		case func(T) T:
			c.items[i] = p(item)
		case map[string]any:
			c.items[i] = patchItem(item, p)
		default:
			return c, fmt.Errorf("%w: got %T", ErrInvalidPatch, patch)
		}
	}
	return c, nil
}

// patchItem shallow-merges patch into item. Map items are written in place;
// struct items are copied, matching exported fields assigned, and the copy
// returned. Items of other shapes are returned unchanged.
func patchItem[T any](item T, patch map[string]any) T {
	if m, ok := any(item).(map[string]any); ok {
		for key, value := range patch {
			keypath.Set(m, key, value)
		}
		return item
	}

	rv := reflect.ValueOf(item)
	deref := rv
	for deref.Kind() == reflect.Pointer {
		if deref.IsNil() {
			return item
		}
		deref = deref.Elem()
	}
	if deref.Kind() != reflect.Struct {
		return item
	}

	// Work on an addressable copy so value-typed structs can be assigned.
	work := reflect.New(deref.Type()).Elem()
	work.Set(deref)
	for key, value := range patch {
		field := fieldByNameOrTag(work, key)
		if !field.IsValid() || !field.CanSet() {
			continue
		}
		val := reflect.ValueOf(value)
		if !val.IsValid() {
			field.SetZero()
			continue
		}
		if val.Type().AssignableTo(field.Type()) {
			field.Set(val)
		} else if val.Type().ConvertibleTo(field.Type()) {
			field.Set(val.Convert(field.Type()))
		}
	}
	if rv.Kind() == reflect.Pointer {
		rv.Elem().Set(work)
		return item
	}
	return work.Interface().(T)
}

func fieldByNameOrTag(v reflect.Value, name string) reflect.Value {
	t := v.Type()
	if f, ok := t.FieldByName(name); ok && f.IsExported() {
		return v.FieldByIndex(f.Index)
	}
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if comma := strings.IndexByte(tag, ','); comma >= 0 {
			tag = tag[:comma]
		}
		if tag == name && t.Field(i).IsExported() {
			return v.Field(i)
		}
	}
	return reflect.Value{}
}

// Forget strips the named fields from every map-shaped item, in place.
// Keys may be dot-separated to reach nested maps. Items of other shapes are
// left untouched.
func (c *Collection[T]) Forget(keys ...string) *Collection[T] {
	for _, item := range c.items {
		m, ok := any(item).(map[string]any)
		if !ok {
			continue
		}
		for _, key := range keys {
			keypath.Forget(m, key)
		}
	}
	return c
}

// Sort reorders the collection in place, stably. by may be a dot-separated
// key path (values ordered per [query.Compare]), a func(a, b T) bool less
// function, or nil to order items by their resolved value. Passing true for
// desc reverses the direction of key-path sorts.
//
//	users.Sort("age")
//	users.Sort("age", true)
//	users.Sort(func(a, b User) bool { return a.Name < b.Name })
func (c *Collection[T]) Sort(by any, desc ...bool) *Collection[T] {
	less := c.lessFunc(by)
	if len(desc) > 0 && desc[0] {
		inner := less
		less = func(a, b T) bool { return inner(b, a) }
	}
	sort.SliceStable(c.items, func(i, j int) bool { return less(c.items[i], c.items[j]) })
	return c
}

// Shuffle randomizes the order of the collection in place
// (uniform permutation).
func (c *Collection[T]) Shuffle() *Collection[T] {
	rand.Shuffle(len(c.items), func(i, j int) {
		c.items[i], c.items[j] = c.items[j], c.items[i]
	})
	return c
}

// ─────────────────────────────────────────────────────────────────────────────
// Native sequence mutators
// ─────────────────────────────────────────────────────────────────────────────

// Push appends items to the end of the collection, in place.
func (c *Collection[T]) Push(items ...T) *Collection[T] {
	c.items = append(c.items, items...)
	return c
}

// Pop removes and returns the last item.
// Returns the zero value and false if the collection is empty.
func (c *Collection[T]) Pop() (T, bool) {
	var zero T
	if len(c.items) == 0 {
		return zero, false
	}
	item := c.items[len(c.items)-1]
	c.items[len(c.items)-1] = zero
	c.items = c.items[:len(c.items)-1]
	return item, true
}

// Shift removes and returns the first item.
// Returns the zero value and false if the collection is empty.
func (c *Collection[T]) Shift() (T, bool) {
	var zero T
	if len(c.items) == 0 {
		return zero, false
	}
	item := c.items[0]
	copy(c.items, c.items[1:])
	c.items[len(c.items)-1] = zero
	c.items = c.items[:len(c.items)-1]
	return item, true
}

// Unshift inserts items at the front of the collection, in place.
func (c *Collection[T]) Unshift(items ...T) *Collection[T] {
	c.items = append(append(make([]T, 0, len(items)+len(c.items)), items...), c.items...)
	return c
}

// Splice removes deleteCount items starting at start, inserts items in their
// place, and returns the removed items as a new Collection. Negative start
// counts from the end; out-of-range arguments are clamped.
func (c *Collection[T]) Splice(start, deleteCount int, items ...T) *Collection[T] {
	total := len(c.items)
	if start < 0 {
		start = total + start
	}
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if start+deleteCount > total {
		deleteCount = total - start
	}

	removed := make([]T, deleteCount)
	copy(removed, c.items[start:start+deleteCount])

	rest := make([]T, 0, total-deleteCount+len(items))
	rest = append(rest, c.items[:start]...)
	rest = append(rest, items...)
	rest = append(rest, c.items[start+deleteCount:]...)
	c.items = rest
	return c.derive(removed)
}
