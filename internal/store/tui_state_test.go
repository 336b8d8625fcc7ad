package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTUIState_RoundTrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	st, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if st.Version != 1 || st.LastIntent != "" {
		t.Fatalf("unexpected empty state %+v", st)
	}

	st.LastIntent = "openCardDetailModal"
	st.TouchRecentFile("a.json")
	st.TouchRecentFile("b.yaml")
	st.TouchRecentFile("a.json")
	st.TouchRecentFile("-")
	if err := s.SaveTUIState(st); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.LastIntent != "openCardDetailModal" {
		t.Fatalf("unexpected intent %q", got.LastIntent)
	}
	if len(got.RecentFiles) != 2 || got.RecentFiles[0] != "a.json" || got.RecentFiles[1] != "b.yaml" {
		t.Fatalf("unexpected recent files %v", got.RecentFiles)
	}
}

func TestTUIState_CorruptIsIgnored(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tui_state.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st, err := Store{Dir: dir}.LoadTUIState()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Version != 1 {
		t.Fatalf("expected fresh state, got %+v", st)
	}
}

func TestTouchRecentFile_Caps(t *testing.T) {
	var st TUIState
	for i := 0; i < 15; i++ {
		st.TouchRecentFile(filepath.Join("docs", string(rune('a'+i))+".json"))
	}
	if len(st.RecentFiles) != maxRecentFiles {
		t.Fatalf("expected %d recent files, got %d", maxRecentFiles, len(st.RecentFiles))
	}
}
