package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sdui-cli/internal/model"
	"sdui-cli/internal/store"
)

// StateStore persists what the browser selected last. store.Store
// implements it.
type StateStore interface {
	LoadTUIState() (*store.TUIState, error)
	SaveTUIState(st *store.TUIState) error
}

type exampleItem struct {
	example model.InteractionExample
}

func (i exampleItem) Title() string       { return i.example.Intent }
func (i exampleItem) Description() string { return i.example.Summary }
func (i exampleItem) FilterValue() string {
	return i.example.Intent + " " + i.example.Summary + " " + strings.Join(i.example.Tags, " ")
}

// browserModel lists interaction examples; enter hosts the selected
// example's document until esc comes back.
type browserModel struct {
	list     list.Model
	host     *hostModel
	state    StateStore
	markdown bool
	log      *slog.Logger
	err      string

	width  int
	height int
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), defaultWidth, defaultHeight-2)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("example", "examples")
	// esc closes documents and filters; only q quits.
	l.KeyMap.Quit.SetKeys("q")
	l.KeyMap.CursorUp.SetKeys(append(l.KeyMap.CursorUp.Keys(), "ctrl+p")...)
	l.KeyMap.CursorDown.SetKeys(append(l.KeyMap.CursorDown.Keys(), "ctrl+n")...)
	return l
}

func newBrowserModel(examples []model.InteractionExample, st StateStore, markdown bool, log *slog.Logger) browserModel {
	items := make([]list.Item, 0, len(examples))
	for _, e := range examples {
		items = append(items, exampleItem{example: e})
	}
	m := browserModel{
		list:     newList("Interaction examples", items),
		state:    st,
		markdown: markdown,
		log:      log,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	if st != nil {
		if ts, err := st.LoadTUIState(); err == nil && ts.LastIntent != "" {
			for i, e := range examples {
				if e.Intent == ts.LastIntent {
					m.list.Select(i)
					break
				}
			}
		}
	}
	return m
}

func (m browserModel) Init() tea.Cmd { return nil }

func (m *browserModel) open(e model.InteractionExample) {
	page, err := model.DecodeJSON(e.Document)
	if err != nil {
		m.err = fmt.Sprintf("%s: %v", e.Intent, err)
		m.log.Warn("cannot open example", "intent", e.Intent, "err", err)
		return
	}
	m.err = ""
	h := newHostModel(newSession(page, m.log), e.Intent, m.markdown, m.log)
	h.allowBack = true
	h.resize(m.width, m.height)
	m.host = &h

	if m.state != nil {
		ts, err := m.state.LoadTUIState()
		if err == nil {
			ts.LastIntent = e.Intent
			if err := m.state.SaveTUIState(ts); err != nil {
				m.log.Warn("save tui state", "err", err)
			}
		}
	}
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-1, 1))
		if m.host != nil {
			m.host.resize(msg.Width, msg.Height)
		}
		return m, nil
	case backMsg:
		if m.host != nil {
			m.host.close()
			m.host = nil
		}
		return m, nil
	}

	if m.host != nil {
		next, cmd := m.host.Update(msg)
		h := next.(hostModel)
		m.host = &h
		return m, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch km.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			if it, ok := m.list.SelectedItem().(exampleItem); ok {
				m.open(it.example)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browserModel) View() string {
	if m.host != nil {
		return m.host.View()
	}
	footer := styleMuted().Render("enter: open  /: filter  q: quit")
	if m.err != "" {
		footer = lipgloss.NewStyle().Foreground(colorErrorFg).Render(m.err)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), normalizePane(footer, m.width, 1))
}
