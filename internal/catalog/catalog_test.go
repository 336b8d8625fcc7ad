package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sdui-cli/internal/model"
	"sdui-cli/internal/store"
)

func seededRepo(t *testing.T) store.Store {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	if _, err := Seed(context.Background(), s, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func hitKeys(hits []Hit) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Key)
	}
	return out
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := seededRepo(t)

	res, err := Seed(ctx, s, nil)
	if err != nil {
		t.Fatalf("seed again: %v", err)
	}
	if res != (SeedResult{Components: 4, Capabilities: 3, Examples: 2}) {
		t.Fatalf("unexpected seed result %+v", res)
	}
	counts, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	want := map[string]int{model.RecordComponent: 4, model.RecordCapability: 3, model.RecordExample: 2}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Fatalf("counts (-want +got):\n%s", diff)
	}
}

func TestBuiltins_ExamplesDecode(t *testing.T) {
	_, _, exs, err := Builtins()
	if err != nil {
		t.Fatalf("builtins: %v", err)
	}
	for _, e := range exs {
		if _, err := model.DecodeJSON(e.Document); err != nil {
			t.Fatalf("example %s: %v", e.Intent, err)
		}
	}
}

func TestSearch_RanksCapabilities(t *testing.T) {
	s := seededRepo(t)

	hits, err := Search(context.Background(), s, "modal dialog", Filter{Kind: model.RecordCapability})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if diff := cmp.Diff([]string{"modal.close", "modal.open"}, hitKeys(hits)); diff != "" {
		t.Fatalf("hits (-want +got):\n%s", diff)
	}
	if hits[0].Score != 1.5 {
		t.Fatalf("expected tag-boosted score 1.5, got %v", hits[0].Score)
	}
	if _, ok := hits[0].Record.(model.CapabilityManifest); !ok {
		t.Fatalf("expected manifest record, got %T", hits[0].Record)
	}
}

func TestSearch_FuzzyAndFilters(t *testing.T) {
	ctx := context.Background()
	s := seededRepo(t)

	hits, err := Search(ctx, s, "dilog", Filter{Kind: model.RecordComponent})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Key != "Dialog" || hits[0].Score != 0.5 {
		t.Fatalf("expected fuzzy Dialog hit, got %+v", hits)
	}

	hits, err = Search(ctx, s, "card", Filter{Kind: model.RecordComponent, Tags: []string{"header"}})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if diff := cmp.Diff([]string{"CardHeader"}, hitKeys(hits)); diff != "" {
		t.Fatalf("tag filter (-want +got):\n%s", diff)
	}

	hits, err = Search(ctx, s, "card", Filter{Limit: 2})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected limit 2, got %d", len(hits))
	}

	hits, err = Search(ctx, s, "  ", Filter{})
	if err != nil || len(hits) != 0 {
		t.Fatalf("expected no hits for blank query, got %v, %v", hits, err)
	}
}

func TestGenerate_PicksBestExample(t *testing.T) {
	ctx := context.Background()
	s := seededRepo(t)

	g, err := Generate(ctx, s, "card list click to open a detail modal", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if g.Intent != "openCardDetailModal" {
		t.Fatalf("unexpected intent %q", g.Intent)
	}
	if g.Page == nil || len(g.Page.Body) != 2 {
		t.Fatalf("expected decoded page with 2 body nodes")
	}
	if len(g.Problems) != 0 {
		t.Fatalf("expected builtin example to lint clean, got %+v", g.Problems)
	}
	if len(g.Components) == 0 || len(g.Capabilities) == 0 {
		t.Fatalf("expected retrieved components and capabilities")
	}

	g, err = Generate(ctx, s, "button that sets a status", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if g.Intent != "buttonSetsStatus" {
		t.Fatalf("unexpected intent %q", g.Intent)
	}
}

func TestGenerate_NoDocument(t *testing.T) {
	ctx := context.Background()
	s := seededRepo(t)

	for _, prompt := range []string{"", "   ", "xyzzy plugh"} {
		if _, err := Generate(ctx, s, prompt, nil); !errors.Is(err, ErrNoDocument) {
			t.Fatalf("prompt %q: expected ErrNoDocument, got %v", prompt, err)
		}
	}
}

func TestLint(t *testing.T) {
	_, caps, _, err := Builtins()
	if err != nil {
		t.Fatalf("builtins: %v", err)
	}
	page, err := model.DecodeJSON([]byte(`{
		"type": "page",
		"body": [
			{"type": "button", "onClick": [
				{"capability": "toast.show", "payload": {"text": "hi"}},
				{"capability": "state.set", "payload": {"value": 1}}
			]},
			{"type": "carousel"},
			{"type": "cardList", "itemTemplate": {"type": "card", "onClick": [
				{"capability": "modal.open", "payload": {"modalId": "x"}}
			]}}
		]
	}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := Lint(page, caps)
	want := []Problem{
		{Path: "body[0].onClick[0]", Severity: SeverityWarning, Capability: "toast.show", Message: `capability "toast.show" is not in the catalog`},
		{Path: "body[0].onClick[1]", Severity: SeverityError, Capability: "state.set", Message: `payload is missing required field "path"`},
		{Path: "body[1]", Severity: SeverityWarning, Message: `unknown component type "carousel"`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("problems (-want +got):\n%s", diff)
	}
	if !HasErrors(got) {
		t.Fatalf("expected HasErrors")
	}
}
