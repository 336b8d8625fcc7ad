package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height
// lines. Lines that are too wide are cut with an ellipsis.
func normalizePane(s string, width, height int) string {
	width = max(width, 0)
	height = max(height, 0)

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		lines[i] = fitLine(ln, width)
	}
	return strings.Join(lines, "\n")
}

func fitLine(ln string, width int) string {
	w := xansi.StringWidth(ln)
	if w > width {
		switch {
		case width <= 0:
			ln = ""
		case width == 1:
			ln = xansi.Cut(ln, 0, 1)
		default:
			ln = xansi.Cut(ln, 0, width-1) + "…"
		}
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

// dimBackground renders s in the scrim color. Inner styles are stripped
// first or they would override the scrim.
func dimBackground(s string) string {
	st := lipgloss.NewStyle().Foreground(colorScrimFg)
	lines := strings.Split(xansi.Strip(s), "\n")
	for i, ln := range lines {
		lines[i] = st.Render(ln)
	}
	return strings.Join(lines, "\n")
}

// overlayCenter draws fg centered over bg, which is assumed to be width x
// height already.
func overlayCenter(bg, fg string, width, height int) string {
	bgLines := strings.Split(normalizePane(bg, width, height), "\n")
	fgLines := strings.Split(fg, "\n")
	fgW := 0
	for _, ln := range fgLines {
		fgW = max(fgW, xansi.StringWidth(ln))
	}
	fgW = min(fgW, width)
	top := max((height-len(fgLines))/2, 0)
	left := max((width-fgW)/2, 0)

	for i, ln := range fgLines {
		row := top + i
		if row >= len(bgLines) {
			break
		}
		base := bgLines[row]
		right := xansi.Cut(base, left+fgW, width)
		bgLines[row] = xansi.Cut(base, 0, left) + fitLine(ln, fgW) + right
	}
	return strings.Join(bgLines, "\n")
}

func modalWidth(width int) int {
	w := width * 2 / 3
	return max(min(w, 72), min(width, 30))
}

// modalBodyWidth is the usable text width inside renderModalBox.
func modalBodyWidth(width int) int {
	return max(modalWidth(width)-4, 1)
}

// renderModalBox draws a titled box on the modal surface. The body is not
// wrapped here; callers size it with modalBodyWidth.
func renderModalBox(width int, title, body string) string {
	w := modalWidth(width)
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSurfaceFg).
		Background(colorControlBg).
		Width(w-2).
		Padding(0, 1).
		Render(title)
	content := lipgloss.NewStyle().
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Width(w-2).
		Padding(1, 1).
		Render(body)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSelectedBorder).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, content))
}
