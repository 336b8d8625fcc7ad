package model

import (
	"math"
	"testing"
)

func TestRef_ScopeAndPath(t *testing.T) {
	cases := []struct {
		ref   Ref
		scope string
		path  []string
	}{
		{"context.cards", "context", []string{"cards"}},
		{"item.a.b", "item", []string{"a", "b"}},
		{"item", "item", nil},
		{"item.", "item", []string{""}},
		{"", "", nil},
	}
	for _, tc := range cases {
		if got := tc.ref.Scope(); got != tc.scope {
			t.Fatalf("%q: scope=%q want %q", tc.ref, got, tc.scope)
		}
		got := tc.ref.Path()
		if len(got) != len(tc.path) {
			t.Fatalf("%q: path=%q want %q", tc.ref, got, tc.path)
		}
		for i := range got {
			if got[i] != tc.path[i] {
				t.Fatalf("%q: path=%q want %q", tc.ref, got, tc.path)
			}
		}
	}
}

func TestAsRef_RequiresStringRef(t *testing.T) {
	if _, ok := AsRef(map[string]any{"$ref": 3}); ok {
		t.Fatalf("non-string $ref must not be a reference")
	}
	if _, ok := AsRef("context.x"); ok {
		t.Fatalf("plain string must not be a reference")
	}
	if r, ok := AsRef(NewRef("state.x")); !ok || r != "state.x" {
		t.Fatalf("expected reference, got %q %v", r, ok)
	}
}

func TestTruthyAndOr(t *testing.T) {
	falsy := []any{nil, false, "", float64(0), 0, math.NaN()}
	for _, v := range falsy {
		if Truthy(v) {
			t.Fatalf("expected %#v to be falsy", v)
		}
	}
	truthy := []any{true, "x", float64(-1), []any{}, map[string]any{}}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Fatalf("expected %#v to be truthy", v)
		}
	}
	if got := Or(nil, "", "b", "c"); got != "b" {
		t.Fatalf("Or picked %#v", got)
	}
	if got := Or(nil, ""); got != "" {
		t.Fatalf("Or should return last value when none is truthy, got %#v", got)
	}
}

func TestDisplay(t *testing.T) {
	cases := map[string]any{
		"":          nil,
		"hi":        "hi",
		"3":         float64(3),
		"3.5":       3.5,
		"true":      true,
		`{"a":1}`:   map[string]any{"a": float64(1)},
		`["x","y"]`: []any{"x", "y"},
	}
	for want, v := range cases {
		if got := Display(v); got != want {
			t.Fatalf("Display(%#v)=%q want %q", v, got, want)
		}
	}
}
