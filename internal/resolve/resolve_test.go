package resolve

import (
	"encoding/json"
	"testing"

	"sdui-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

func mustJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad fixture %q: %v", s, err)
	}
	return v
}

func fixtureScopes(t *testing.T) Scopes {
	return Scopes{
		Context: mustJSON(t, `{"cards":[{"id":"1","title":"X","tags":["a","b"]}],"user":{"name":"Ada"}}`).(map[string]any),
		State:   mustJSON(t, `{"selectedId":"1","alias":{"$ref":"context.user"},"flags":{"on":true}}`).(map[string]any),
		Item:    mustJSON(t, `{"id":"7","name":"Widget","meta":{"color":"red"}}`),
	}
}

func TestResolve_NoRefsIsIdentity(t *testing.T) {
	sc := fixtureScopes(t)
	values := []any{
		nil,
		"text",
		float64(42),
		true,
		mustJSON(t, `[1,"two",{"three":3}]`),
		mustJSON(t, `{"a":{"b":[1,2,{"c":null}]}}`),
	}
	for _, v := range values {
		if diff := cmp.Diff(v, Resolve(v, sc)); diff != "" {
			t.Fatalf("resolve changed a ref-free value (-want +got):\n%s", diff)
		}
	}
}

func TestResolve_Scopes(t *testing.T) {
	sc := fixtureScopes(t)
	cases := []struct {
		name string
		in   string
		want any
	}{
		{"context path", `{"$ref":"context.user.name"}`, "Ada"},
		{"state", `{"$ref":"state.selectedId"}`, "1"},
		{"item", `{"$ref":"item.meta.color"}`, "red"},
		{"whole item", `{"$ref":"item"}`, mustJSON(t, `{"id":"7","name":"Widget","meta":{"color":"red"}}`)},
		{"array index", `{"$ref":"context.cards.0.tags.1"}`, "b"},
		{"array index out of range", `{"$ref":"context.cards.5"}`, nil},
		{"missing segment", `{"$ref":"context.user.email"}`, nil},
		{"missing intermediate", `{"$ref":"state.nope.deeper.still"}`, nil},
		{"through scalar", `{"$ref":"item.name.first"}`, nil},
		{"unknown scope", `{"$ref":"session.id"}`, nil},
		{"empty ref", `{"$ref":""}`, nil},
		{"trailing dot", `{"$ref":"item."}`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(mustJSON(t, tc.in), sc)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_NestedStructures(t *testing.T) {
	sc := fixtureScopes(t)
	in := mustJSON(t, `{
		"path": "selectedId",
		"value": {"$ref": "item.id"},
		"list": [{"$ref": "item.name"}, "lit", {"deep": {"$ref": "state.flags.on"}}]
	}`)
	want := mustJSON(t, `{
		"path": "selectedId",
		"value": "7",
		"list": ["Widget", "lit", {"deep": true}]
	}`)
	if diff := cmp.Diff(want, Resolve(in, sc)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestResolve_DoesNotChaseReferences(t *testing.T) {
	sc := fixtureScopes(t)
	got := Resolve(model.NewRef("state.alias"), sc)
	want := map[string]any{"$ref": "context.user"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("expected the stored reference verbatim (-want +got):\n%s", diff)
	}
}

func TestResolve_NeverMutatesInputs(t *testing.T) {
	sc := fixtureScopes(t)
	before := fixtureScopes(t)
	in := mustJSON(t, `{"a":{"$ref":"item"},"b":[{"$ref":"context.cards"}],"c":{"d":{"$ref":"state.flags"}}}`)
	inBefore := mustJSON(t, `{"a":{"$ref":"item"},"b":[{"$ref":"context.cards"}],"c":{"d":{"$ref":"state.flags"}}}`)

	_ = Resolve(in, sc)

	if diff := cmp.Diff(inBefore, in); diff != "" {
		t.Fatalf("input value mutated (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(before, sc); diff != "" {
		t.Fatalf("scopes mutated (-before +after):\n%s", diff)
	}
}

func TestResolve_NilScopes(t *testing.T) {
	if got := Resolve(model.NewRef("context.anything"), Scopes{}); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
	if got := Resolve(model.NewRef("item"), Scopes{}); got != nil {
		t.Fatalf("expected nil item, got %#v", got)
	}
}

func TestResolveMap(t *testing.T) {
	sc := fixtureScopes(t)
	if got := ResolveMap(nil, sc); got == nil || len(got) != 0 {
		t.Fatalf("expected empty map for nil payload, got %#v", got)
	}
	got := ResolveMap(map[string]any{"modalId": "d1", "bind": model.NewRef("item")}, sc)
	if got["modalId"] != "d1" {
		t.Fatalf("unexpected modalId: %#v", got["modalId"])
	}
	if _, ok := got["bind"].(map[string]any); !ok {
		t.Fatalf("expected bind to resolve to the item mapping, got %#v", got["bind"])
	}
}
