package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sdui-cli/internal/model"
	"sdui-cli/internal/render"
)

const (
	cardWidth = 32
	cardGap   = 1
)

// drawer turns a rendered tree into terminal text. Dialogs are skipped
// inline; the host draws the open one as an overlay.
type drawer struct {
	focused  string
	markdown bool
}

func (d drawer) node(n *render.Node, width int) string {
	if n == nil || width <= 0 {
		return ""
	}
	switch n.Kind {
	case model.TypePage, model.TypeContainer:
		return d.stack(n.Children, width, n.Kind == model.TypePage)
	case model.TypeCardList:
		return d.grid(n.Children, width)
	case model.TypeCard:
		return d.card(n, width)
	case model.TypeText:
		return d.text(n.Text, width)
	case model.TypeButton:
		return styleButton(n.Handle != "" && n.Handle == d.focused).Render(n.Text)
	case model.TypeDialog:
		return ""
	case render.KindPlaceholder:
		return styleMuted().Render("loading…")
	}
	return ""
}

// stack joins children vertically, separated by a blank line on pages.
func (d drawer) stack(children []*render.Node, width int, spaced bool) string {
	var parts []string
	for _, c := range children {
		s := d.node(c, width)
		if s == "" {
			continue
		}
		if spaced && len(parts) > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}

// grid lays cards out left to right, wrapping by the available width.
func (d drawer) grid(children []*render.Node, width int) string {
	if len(children) == 0 {
		return ""
	}
	w := cardWidth
	cols := (width + cardGap) / (cardWidth + cardGap)
	if cols < 1 {
		cols = 1
		w = width
	}

	gap := strings.Repeat(" ", cardGap)
	var rows []string
	for start := 0; start < len(children); start += cols {
		end := min(start+cols, len(children))
		var cells []string
		for i, c := range children[start:end] {
			if i > 0 {
				cells = append(cells, gap)
			}
			cells = append(cells, d.node(c, w))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (d drawer) card(n *render.Node, width int) string {
	inner := max(width-4, 1)
	var lines []string
	if n.Title != "" {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Width(inner).Render(n.Title))
	}
	if n.Description != "" {
		lines = append(lines, styleMuted().Width(inner).Render(n.Description))
	}
	if n.Content != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorCardMetaFg).Width(inner).Render(n.Content))
	}
	if body := d.stack(n.Children, inner, false); body != "" {
		lines = append(lines, body)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	focused := n.Handle != "" && n.Handle == d.focused
	return styleCard(focused).Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (d drawer) text(s string, width int) string {
	if s == "" {
		return ""
	}
	if d.markdown {
		return renderMarkdown(s, width)
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

// dialog draws an open dialog as a modal box sized for a screen of the
// given width.
func (d drawer) dialog(n *render.Node, width int) string {
	body := d.stack(n.Children, modalBodyWidth(width), false)
	if n.Description != "" {
		desc := styleMuted().Width(modalBodyWidth(width)).Render(n.Description)
		body = strings.TrimRight(desc+"\n\n"+body, "\n")
	}
	help := styleMuted().Render("esc: close")
	return renderModalBox(width, n.Title, strings.TrimLeft(body+"\n\n"+help, "\n"))
}
