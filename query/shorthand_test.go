package query_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hasbyte1/go-collect/query"
)

func TestNormalizeKeyValue(t *testing.T) {
	got, err := query.Normalize("age", 18)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	want := map[string]any{"age": map[string]any{"$eq": 18}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeOperators(t *testing.T) {
	cases := []struct {
		symbol string
		want   map[string]any
	}{
		{"=", map[string]any{"k": map[string]any{"$eq": 1}}},
		{">", map[string]any{"k": map[string]any{"$gt": 1}}},
		{"<", map[string]any{"k": map[string]any{"$lt": 1}}},
		{">=", map[string]any{"k": map[string]any{"$gte": 1}}},
		{"<=", map[string]any{"k": map[string]any{"$lte": 1}}},
		{"!=", map[string]any{"k": map[string]any{"$not": map[string]any{"$eq": 1}}}},
		{"includes", map[string]any{"k": map[string]any{"$contains": 1}}},
	}
	for _, tc := range cases {
		got, err := query.Normalize("k", tc.symbol, 1)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", tc.symbol, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("Normalize(%q) mismatch (-want +got):\n%s", tc.symbol, diff)
		}
	}
}

func TestNormalizeOperatorObject(t *testing.T) {
	got, err := query.Normalize("age", map[string]any{"$gte": 18, "$lt": 65})
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	want := map[string]any{"age": map[string]any{"$gte": 18, "$lt": 65}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
	}

	// A map with non-operator keys is a plain value, compared by equality.
	got, err = query.Normalize("meta", map[string]any{"kind": "a"})
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	want = map[string]any{"meta": map[string]any{"$eq": map[string]any{"kind": "a"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeIn(t *testing.T) {
	got, err := query.Normalize("k", "in", []any{1, 2})
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	want := map[string]any{"k": map[string]any{"$in": []any{1, 2}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Normalize in mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeRejectsBadShorthand(t *testing.T) {
	if _, err := query.Normalize("k", "~", 1); !errors.Is(err, query.ErrBadShorthand) {
		t.Fatalf("err = %v; want ErrBadShorthand", err)
	}
	if _, err := query.Normalize("k"); !errors.Is(err, query.ErrBadShorthand) {
		t.Fatalf("err = %v; want ErrBadShorthand", err)
	}
	if _, err := query.Normalize("k", 1, 2, 3); !errors.Is(err, query.ErrBadShorthand) {
		t.Fatalf("err = %v; want ErrBadShorthand", err)
	}
}

// Shorthand and canonical map forms must compile to equivalent predicates.
func TestShorthandEquivalence(t *testing.T) {
	longSpec := map[string]any{"age": map[string]any{"$gte": 18}}
	shortSpec, err := query.Normalize("age", ">=", 18)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	long, err := query.Compile[map[string]any](longSpec, nil)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	short, err := query.Compile[map[string]any](shortSpec, nil)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	for i, u := range users() {
		if long(u, i) != short(u, i) {
			t.Fatalf("long and shorthand disagree on %v", u)
		}
	}
}
