package state

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetPath_NestedPathsMerge(t *testing.T) {
	s := New()
	s.SetPath("a.b", float64(1))
	s.SetPath("a.c", float64(2))

	want := map[string]any{"a": map[string]any{"b": float64(1), "c": float64(2)}}
	if diff := cmp.Diff(want, s.Snapshot().State); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestSetPath_ReplacesNonMappingIntermediate(t *testing.T) {
	s := New()
	s.SetPath("a", "scalar")
	s.SetPath("a.b", true)
	s.SetPath("z", nil)
	s.SetPath("z.y", "v")

	want := map[string]any{
		"a": map[string]any{"b": true},
		"z": map[string]any{"y": "v"},
	}
	if diff := cmp.Diff(want, s.Snapshot().State); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestSetPath_OldSnapshotsAreUntouched(t *testing.T) {
	s := New()
	s.SetPath("a.b", "one")
	before := s.Snapshot()

	s.SetPath("a.b", "two")
	s.SetPath("a.c", "three")

	if got := before.State["a"].(map[string]any)["b"]; got != "one" {
		t.Fatalf("earlier snapshot was mutated: a.b=%v", got)
	}
	if _, ok := before.State["a"].(map[string]any)["c"]; ok {
		t.Fatalf("earlier snapshot gained a.c")
	}
	if before.Version >= s.Version() {
		t.Fatalf("expected version to increase: before=%d now=%d", before.Version, s.Version())
	}
}

func TestMergeContext_Shallow(t *testing.T) {
	s := New()
	s.MergeContext(map[string]any{"cards": []any{"x"}, "user": map[string]any{"name": "a", "age": float64(3)}})
	s.MergeContext(map[string]any{"user": map[string]any{"name": "b"}})

	want := map[string]any{
		"cards": []any{"x"},
		"user":  map[string]any{"name": "b"},
	}
	if diff := cmp.Diff(want, s.Snapshot().Context); diff != "" {
		t.Fatalf("context mismatch (-want +got):\n%s", diff)
	}

	v := s.Version()
	s.MergeContext(nil)
	if s.Version() != v {
		t.Fatalf("empty merge should not produce a new snapshot")
	}
}

func TestModals_OpenCloseKeepsEntry(t *testing.T) {
	s := New()
	if m := s.Snapshot().Modal("d1"); m.Open || m.Data != nil {
		t.Fatalf("missing entry must read as closed, got %+v", m)
	}

	s.OpenModal("d1", map[string]any{"title": "T"})
	if m := s.Snapshot().Modal("d1"); !m.Open || m.Data == nil {
		t.Fatalf("expected open modal with data, got %+v", m)
	}

	s.CloseModal("d1")
	m, ok := s.Snapshot().Modals["d1"]
	if !ok {
		t.Fatalf("closing must keep the entry")
	}
	if m.Open || m.Data != nil {
		t.Fatalf("expected closed modal without data, got %+v", m)
	}
}

func TestCloseModal_UnknownIDIsNoop(t *testing.T) {
	s := New()
	s.OpenModal("d1", nil)
	before := s.Snapshot()

	s.CloseModal("")

	after := s.Snapshot()
	if after.Version != before.Version {
		t.Fatalf("expected no new snapshot")
	}
	if diff := cmp.Diff(before.Modals, after.Modals); diff != "" {
		t.Fatalf("modals changed (-before +after):\n%s", diff)
	}
}

func TestSubscribe_NotifiesUntilCancelled(t *testing.T) {
	var seen []uint64
	s := New(WithOnChange(func(sn Snapshot) { seen = append(seen, sn.Version) }))

	var other int
	cancel := s.Subscribe(func(Snapshot) { other++ })

	s.SetPath("x", float64(1))
	cancel()
	s.OpenModal("m", nil)

	if !cmp.Equal(seen, []uint64{1, 2}) {
		t.Fatalf("unexpected versions: %v", seen)
	}
	if other != 1 {
		t.Fatalf("cancelled subscriber called %d times", other)
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.SetPath("a", float64(1))
	s.MergeContext(map[string]any{"c": true})
	s.OpenModal("m", nil)
	v := s.Version()

	s.Reset()

	sn := s.Snapshot()
	if len(sn.State) != 0 || len(sn.Context) != 0 || len(sn.Modals) != 0 {
		t.Fatalf("expected empty store, got %+v", sn)
	}
	if sn.Version <= v {
		t.Fatalf("reset must bump the version")
	}
}
