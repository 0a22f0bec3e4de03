package collections_test

import (
	"errors"
	"testing"

	"github.com/hasbyte1/go-collect/collections"
)

// ─────────────────────────────────────────────────────────────────────────────
// Query-driven mutation
// ─────────────────────────────────────────────────────────────────────────────

func TestDelete(t *testing.T) {
	c := people()
	if _, err := c.Delete("age", "<", 18); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	assertIDs(t, c, 2, 3)
}

func TestDeleteSpec(t *testing.T) {
	c := people()
	if _, err := c.Delete(record{"id": record{"$in": []any{1, 3}}}); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	assertIDs(t, c, 2)
}

func TestDeleteBadSpecLeavesItems(t *testing.T) {
	c := people()
	if _, err := c.Delete(record{"age": record{"$bogus": 1}}); err == nil {
		t.Fatal("Delete with unknown operator should fail")
	}
	assertIDs(t, c, 1, 2, 3)
}

func TestUpdateWithMapPatch(t *testing.T) {
	c := people()
	if _, err := c.Update("age", ">=", 18, record{"adult": true}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	c.Each(func(r record, _ int) {
		adult, present := r["adult"]
		if wantAdult := r["age"].(int) >= 18; present != wantAdult || (present && adult != true) {
			t.Fatalf("item %v: adult flag wrong", r)
		}
	})
}

func TestUpdateWithFuncPatch(t *testing.T) {
	c := people()
	_, err := c.Update("id", 2, func(r record) record {
		r["age"] = 21
		return r
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	v, _, _ := c.Find("id", 2)
	if v["age"] != 21 {
		t.Fatalf("age = %v; want 21", v["age"])
	}
}

func TestUpdateStructItems(t *testing.T) {
	type user struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	c := collections.New(user{1, "Ana"}, user{2, "Bruno"})
	if _, err := c.Update("id", 1, map[string]any{"name": "Ane"}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	first, _ := c.First()
	if first.Name != "Ane" {
		t.Fatalf("Name = %q; want Ane", first.Name)
	}
}

func TestUpdateRejectsBadPatch(t *testing.T) {
	if _, err := people().Update("id", 1, 42); !errors.Is(err, collections.ErrInvalidPatch) {
		t.Fatalf("err = %v; want ErrInvalidPatch", err)
	}
	if _, err := people().Update(record{"id": 1}); !errors.Is(err, collections.ErrInvalidPatch) {
		t.Fatalf("err = %v; want ErrInvalidPatch", err)
	}
}

func TestForget(t *testing.T) {
	c := collections.New(
		record{"id": 1, "meta": record{"secret": "x", "kind": "a"}},
		record{"id": 2, "meta": record{"secret": "y"}},
	)
	c.Forget("meta.secret")
	c.Each(func(r record, _ int) {
		meta := r["meta"].(record)
		if _, ok := meta["secret"]; ok {
			t.Fatalf("item %v still has meta.secret", r)
		}
	})
	if v, _, _ := c.Find("id", 1); v["meta"].(record)["kind"] != "a" {
		t.Fatal("Forget removed an unrelated key")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Ordering
// ─────────────────────────────────────────────────────────────────────────────

func TestSortByKeyPath(t *testing.T) {
	c := collections.New(
		record{"id": 1, "age": 30},
		record{"id": 2, "age": 17},
		record{"id": 3, "age": 20},
	)
	c.Sort("age")
	assertIDs(t, c, 2, 3, 1)

	c.Sort("age", true)
	assertIDs(t, c, 1, 3, 2)
}

func TestSortWithLessFunc(t *testing.T) {
	c := ints(3, 1, 4, 1, 5)
	c.Sort(func(a, b int) bool { return a < b })
	assertSlice(t, c.All(), []int{1, 1, 3, 4, 5})
}

func TestSortNilOrdersByValue(t *testing.T) {
	c := ints(2, 1, 3)
	c.Sort(nil)
	assertSlice(t, c.All(), []int{1, 2, 3})
}

func TestSortIsStable(t *testing.T) {
	c := collections.New(
		record{"id": 1, "rank": 1},
		record{"id": 2, "rank": 0},
		record{"id": 3, "rank": 1},
	)
	c.Sort("rank")
	assertIDs(t, c, 2, 1, 3)
}

func TestSortByPure(t *testing.T) {
	orig := ints(5, 3, 1, 4, 2)
	sorted := orig.SortBy(nil)
	assertSlice(t, sorted.All(), []int{1, 2, 3, 4, 5})
	assertSlice(t, orig.All(), []int{5, 3, 1, 4, 2}) // untouched

	desc := orig.SortByDesc(nil)
	assertSlice(t, desc.All(), []int{5, 4, 3, 2, 1})
}

func TestShuffleInPlace(t *testing.T) {
	c := ints(1, 2, 3, 4, 5)
	c.Shuffle()
	if c.Count() != 5 {
		t.Fatal("Shuffle changed count")
	}
	if c.Sum() != 15 {
		t.Fatal("Shuffle changed contents")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Native sequence mutators
// ─────────────────────────────────────────────────────────────────────────────

func TestPushMutates(t *testing.T) {
	c := ints(1, 2)
	c.Push(3, 4)
	assertSlice(t, c.All(), []int{1, 2, 3, 4})
}

func TestPop(t *testing.T) {
	c := ints(1, 2, 3)
	v, ok := c.Pop()
	if !ok || v != 3 {
		t.Fatalf("Pop = %v, ok=%v; want 3", v, ok)
	}
	assertSlice(t, c.All(), []int{1, 2})

	if _, ok := collections.Empty[int]().Pop(); ok {
		t.Fatal("Pop on empty should return false")
	}
}

func TestShift(t *testing.T) {
	c := ints(1, 2, 3)
	v, ok := c.Shift()
	if !ok || v != 1 {
		t.Fatalf("Shift = %v, ok=%v; want 1", v, ok)
	}
	assertSlice(t, c.All(), []int{2, 3})
}

func TestUnshift(t *testing.T) {
	c := ints(3, 4)
	c.Unshift(1, 2)
	assertSlice(t, c.All(), []int{1, 2, 3, 4})
}

func TestSplice(t *testing.T) {
	c := ints(1, 2, 3, 4, 5)
	removed := c.Splice(1, 2, 9)
	assertSlice(t, removed.All(), []int{2, 3})
	assertSlice(t, c.All(), []int{1, 9, 4, 5})
}

func TestSpliceClamps(t *testing.T) {
	c := ints(1, 2, 3)
	removed := c.Splice(-1, 10)
	assertSlice(t, removed.All(), []int{3})
	assertSlice(t, c.All(), []int{1, 2})

	removed = c.Splice(99, 1)
	if removed.Count() != 0 {
		t.Fatal("out-of-range Splice should remove nothing")
	}
}
