package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"sdui-cli/internal/catalog"
	"sdui-cli/internal/store"
)

type memState struct {
	st    store.TUIState
	saves int
}

func (m *memState) LoadTUIState() (*store.TUIState, error) {
	cp := m.st
	return &cp, nil
}

func (m *memState) SaveTUIState(st *store.TUIState) error {
	m.st = *st
	m.saves++
	return nil
}

func TestBrowser_OpenAndBack(t *testing.T) {
	_, _, examples, err := catalog.Builtins()
	if err != nil {
		t.Fatalf("builtins: %v", err)
	}
	st := &memState{}
	m := newBrowserModel(examples, st, false, discard())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(browserModel)
	if m.host == nil {
		t.Fatalf("expected enter to host the selected example")
	}
	if m.host.title != examples[0].Intent {
		t.Fatalf("unexpected host title %q", m.host.title)
	}
	if st.st.LastIntent != examples[0].Intent || st.saves != 1 {
		t.Fatalf("expected last intent saved, got %+v", st.st)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(browserModel)
	if cmd == nil {
		t.Fatalf("expected back command")
	}
	next, _ = m.Update(cmd())
	m = next.(browserModel)
	if m.host != nil {
		t.Fatalf("expected back to the list")
	}
}

func TestBrowser_RestoresLastIntent(t *testing.T) {
	_, _, examples, err := catalog.Builtins()
	if err != nil {
		t.Fatalf("builtins: %v", err)
	}
	st := &memState{st: store.TUIState{Version: 1, LastIntent: examples[1].Intent}}
	m := newBrowserModel(examples, st, false, discard())
	it, ok := m.list.SelectedItem().(exampleItem)
	if !ok || it.example.Intent != examples[1].Intent {
		t.Fatalf("expected last intent preselected, got %+v", m.list.SelectedItem())
	}
}
