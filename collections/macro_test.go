package collections_test

import (
	"errors"
	"testing"

	"github.com/hasbyte1/go-collect/collections"
)

func TestInstanceMacro(t *testing.T) {
	c := ints(1, 2, 3)
	if err := c.Macro("double", func(_ any, _ ...any) any { return 12 }); err != nil {
		t.Fatalf("Macro error: %v", err)
	}
	v, err := c.Call("double")
	if err != nil {
		t.Fatalf("Call error: %v", err)
	}
	if v != 12 {
		t.Fatalf("Call(double) = %v; want 12", v)
	}
}

func TestMacroRejectsBuiltinNames(t *testing.T) {
	c := ints(1)
	for _, name := range []string{"where", "Where", "sum", "groupBy"} {
		err := c.Macro(name, func(_ any, _ ...any) any { return nil })
		if !errors.Is(err, collections.ErrReservedMacroName) {
			t.Fatalf("Macro(%q) err = %v; want ErrReservedMacroName", name, err)
		}
	}
}

func TestInstanceMacroSharedWithDerived(t *testing.T) {
	c := ints(1, 2, 3)
	if err := c.Macro("answer", func(_ any, _ ...any) any { return 42 }); err != nil {
		t.Fatalf("Macro error: %v", err)
	}
	derived := c.Filter(func(n, _ int) bool { return n > 1 })
	v, err := derived.Call("answer")
	if err != nil {
		t.Fatalf("Call on derived error: %v", err)
	}
	if v != 42 {
		t.Fatalf("Call(answer) = %v; want 42", v)
	}
}

func TestInstanceMacroReceivesCollectionAndArgs(t *testing.T) {
	c := ints(1, 2, 3)
	err := c.Macro("sumPlus", func(col any, args ...any) any {
		base := col.(*collections.Collection[int]).Sum()
		return base + float64(args[0].(int))
	})
	if err != nil {
		t.Fatalf("Macro error: %v", err)
	}
	v, err := c.Call("sumPlus", 10)
	if err != nil {
		t.Fatalf("Call error: %v", err)
	}
	if v != 16.0 {
		t.Fatalf("Call(sumPlus, 10) = %v; want 16", v)
	}
}

func TestStaticMacro(t *testing.T) {
	defer collections.FlushMacros()

	if err := collections.RegisterMacro("triple", func(col any, _ ...any) any {
		return col.(*collections.Collection[int]).Count() * 3
	}); err != nil {
		t.Fatalf("RegisterMacro error: %v", err)
	}
	if !collections.HasMacro("triple") {
		t.Fatal("HasMacro should return true")
	}

	v, err := ints(1, 2).Call("triple")
	if err != nil {
		t.Fatalf("Call error: %v", err)
	}
	if v != 6 {
		t.Fatalf("Call(triple) = %v; want 6", v)
	}
}

func TestRegisterMacroRejectsBuiltinNames(t *testing.T) {
	err := collections.RegisterMacro("where", func(_ any, _ ...any) any { return nil })
	if !errors.Is(err, collections.ErrReservedMacroName) {
		t.Fatalf("err = %v; want ErrReservedMacroName", err)
	}
}

func TestInstanceMacroShadowsStatic(t *testing.T) {
	defer collections.FlushMacros()

	if err := collections.RegisterMacro("tag", func(_ any, _ ...any) any { return "static" }); err != nil {
		t.Fatal(err)
	}
	c := ints(1)
	if err := c.Macro("tag", func(_ any, _ ...any) any { return "instance" }); err != nil {
		t.Fatal(err)
	}
	v, err := c.Call("tag")
	if err != nil {
		t.Fatalf("Call error: %v", err)
	}
	if v != "instance" {
		t.Fatalf("Call(tag) = %v; want the instance macro", v)
	}
}

func TestCallFallsBackToBuiltin(t *testing.T) {
	v, err := ints(1, 2, 3, 4).Call("count")
	if err != nil {
		t.Fatalf("Call error: %v", err)
	}
	if v != 4 {
		t.Fatalf("Call(count) = %v; want 4", v)
	}
}

func TestCallBuiltinWithArgs(t *testing.T) {
	c := people()
	v, err := c.Call("where", "age", ">=", 18)
	if err != nil {
		t.Fatalf("Call error: %v", err)
	}
	out, ok := v.(*collections.Collection[record])
	if !ok {
		t.Fatalf("Call(where) returned %T", v)
	}
	assertIDs(t, out, 2, 3)
}

func TestCallBuiltinUnwrapsErrors(t *testing.T) {
	_, err := people().Call("where", record{"age": record{"$bogus": 1}})
	if err == nil {
		t.Fatal("Call(where) with a bad spec should fail")
	}
}

func TestCallUnknownName(t *testing.T) {
	_, err := ints(1).Call("nonexistentMacro")
	if !errors.Is(err, collections.ErrMacroNotFound) {
		t.Fatalf("err = %v; want ErrMacroNotFound", err)
	}
}
