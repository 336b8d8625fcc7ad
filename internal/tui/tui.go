// Package tui hosts rendered SDUI documents in the terminal with Bubble
// Tea, plus a browser over the catalog's interaction examples.
package tui

import (
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"sdui-cli/internal/model"
)

type Options struct {
	// Title is shown in the header; defaults to "sdui".
	Title    string
	Markdown bool
	// DebugLog names a log file. The alt screen owns the terminal, so
	// without it logs are discarded.
	DebugLog string
}

func logger(path string) (*slog.Logger, func(), error) {
	if strings.TrimSpace(path) == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := tea.LogToFile(path, "sdui")
	if err != nil {
		return nil, nil, err
	}
	l := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return l, func() { _ = f.Close() }, nil
}

func prepareTerminal() {
	applyThemePreference()
	applyColorProfilePreference()
}

// Run mounts page and hosts it until the user quits.
func Run(page *model.Page, opts Options) error {
	log, done, err := logger(opts.DebugLog)
	if err != nil {
		return err
	}
	defer done()
	prepareTerminal()

	title := opts.Title
	if title == "" {
		title = "sdui"
	}
	m := newHostModel(newSession(page, log), title, opts.Markdown, log)
	defer m.close()
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// RunBrowser lists examples and hosts the selected one.
func RunBrowser(examples []model.InteractionExample, st StateStore, opts Options) error {
	log, done, err := logger(opts.DebugLog)
	if err != nil {
		return err
	}
	defer done()
	prepareTerminal()

	m := newBrowserModel(examples, st, opts.Markdown, log)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
