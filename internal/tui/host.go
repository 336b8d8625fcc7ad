package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sdui-cli/internal/dispatch"
	"sdui-cli/internal/model"
	"sdui-cli/internal/render"
	"sdui-cli/internal/state"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// backMsg asks the catalog browser to close the hosted document.
type backMsg struct{}

// changeFlag is shared with the store subscription; the model itself is
// copied on every Update.
type changeFlag struct {
	dirty bool
}

// hostModel hosts one mounted document: it renders the tree, keeps a focus
// ring over interactive nodes and forwards key presses to the tree's
// handles.
type hostModel struct {
	sess        *render.Session
	tree        *render.Tree
	title       string
	focus       string
	markdown    bool
	allowBack   bool
	log         *slog.Logger
	changes     *changeFlag
	unsubscribe func()
	status      string

	viewport viewport.Model
	width    int
	height   int
}

func newSession(page *model.Page, log *slog.Logger) *render.Session {
	d := dispatch.New(state.New(), dispatch.WithLogger(log))
	return render.NewSession(page, d, render.WithLogger(log))
}

func newHostModel(sess *render.Session, title string, markdown bool, log *slog.Logger) hostModel {
	m := hostModel{
		sess:     sess,
		title:    title,
		markdown: markdown,
		log:      log,
		changes:  &changeFlag{},
		viewport: viewport.New(defaultWidth, defaultHeight-2),
		width:    defaultWidth,
		height:   defaultHeight,
	}
	flag := m.changes
	m.unsubscribe = sess.Store().Subscribe(func(state.Snapshot) { flag.dirty = true })
	sess.Mount()
	m.refresh()
	return m
}

func (m hostModel) Init() tea.Cmd { return nil }

// close drops the store subscription.
func (m hostModel) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *hostModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
	m.refresh()
}

// refresh renders a fresh tree and keeps focus on the same handle when it
// still exists.
func (m *hostModel) refresh() {
	m.changes.dirty = false
	m.tree = m.sess.Render()
	ring := m.focusRing()
	keep := false
	for _, n := range ring {
		if n.Handle == m.focus {
			keep = true
			break
		}
	}
	if !keep {
		m.focus = ""
		if len(ring) > 0 {
			m.focus = ring[0].Handle
		}
	}
	d := drawer{focused: m.focus, markdown: m.markdown}
	m.viewport.SetContent(d.node(m.tree.Root, m.width))
}

// topDialog returns the last open dialog; it owns focus while open.
func (m hostModel) topDialog() *render.Node {
	open := m.tree.OpenDialogs()
	if len(open) == 0 {
		return nil
	}
	return open[len(open)-1]
}

func (m hostModel) focusRing() []*render.Node {
	if dlg := m.topDialog(); dlg != nil {
		var out []*render.Node
		for _, c := range dlg.Children {
			out = append(out, m.tree.Interactive(c)...)
		}
		return out
	}
	return m.tree.Interactive(nil)
}

func (m *hostModel) moveFocus(delta int) {
	ring := m.focusRing()
	if len(ring) == 0 {
		return
	}
	idx := 0
	for i, n := range ring {
		if n.Handle == m.focus {
			idx = (i + delta + len(ring)) % len(ring)
			break
		}
	}
	m.focus = ring[idx].Handle
	m.refresh()
}

func (m *hostModel) activate() {
	if m.focus == "" {
		return
	}
	res, ok := m.tree.Activate(m.focus)
	if !ok {
		return
	}
	m.status = resultStatus(res)
	m.log.Debug("activated", "handle", m.focus, "applied", res.Applied, "unsupported", res.Unsupported, "invalid", res.Invalid)
	if m.changes.dirty {
		m.refresh()
	}
}

func resultStatus(res dispatch.Result) string {
	parts := []string{fmt.Sprintf("%d applied", res.Applied)}
	if res.Unsupported > 0 {
		parts = append(parts, fmt.Sprintf("%d unsupported", res.Unsupported))
	}
	if res.Invalid > 0 {
		parts = append(parts, fmt.Sprintf("%d invalid", res.Invalid))
	}
	return strings.Join(parts, ", ")
}

func (m hostModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab", "down", "right", "j", "l":
			m.moveFocus(1)
			return m, nil
		case "shift+tab", "up", "left", "k", "h":
			m.moveFocus(-1)
			return m, nil
		case "enter", " ":
			m.activate()
			return m, nil
		case "esc":
			if dlg := m.topDialog(); dlg != nil {
				m.tree.Dismiss(dlg.Handle)
				m.status = "closed " + dlg.Title
				m.refresh()
				return m, nil
			}
			if m.allowBack {
				return m, func() tea.Msg { return backMsg{} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m hostModel) View() string {
	header := styleHeader().Render(m.title) + styleMuted().Render(fmt.Sprintf("  v%d", m.tree.Version))
	help := "tab: focus  enter: activate  esc: close  q: quit"
	if m.allowBack {
		help = "tab: focus  enter: activate  esc: close/back  q: quit"
	}
	footer := styleMuted().Render(help)
	if m.status != "" {
		footer += styleMuted().Render("  | " + m.status)
	}
	screen := lipgloss.JoinVertical(lipgloss.Left,
		normalizePane(header, m.width, 1),
		normalizePane(m.viewport.View(), m.width, m.viewport.Height),
		normalizePane(footer, m.width, 1),
	)
	dlg := m.topDialog()
	if dlg == nil {
		return screen
	}
	d := drawer{focused: m.focus, markdown: m.markdown}
	return overlayCenter(dimBackground(screen), d.dialog(dlg, m.width), m.width, m.height)
}
