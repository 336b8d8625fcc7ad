package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sdui-cli/internal/dispatch"
	"sdui-cli/internal/model"
	"sdui-cli/internal/render"
	"sdui-cli/internal/state"
	"sdui-cli/internal/store"
)

// readDocument loads a page from path, or from stdin when path is "-".
// Stdin is read as JSON unless the content starts like YAML.
func readDocument(cmd *cobra.Command, path string) (*model.Page, error) {
	path = strings.TrimSpace(path)
	var (
		b    []byte
		err  error
		name = path
	)
	if path == "-" {
		b, err = io.ReadAll(cmd.InOrStdin())
		name = "stdin.json"
		if t := strings.TrimSpace(string(b)); t != "" && !strings.HasPrefix(t, "{") {
			name = "stdin.yaml"
		}
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return model.Decode(name, b)
}

func (app *App) newSession(page *model.Page) *render.Session {
	d := dispatch.New(state.New(), dispatch.WithLogger(app.log))
	return render.NewSession(page, d, render.WithLogger(app.log))
}

// documentTitle names a hosted document after its file.
func documentTitle(path string) string {
	if path == "-" || strings.TrimSpace(path) == "" {
		return "sdui"
	}
	return filepath.Base(path)
}

// touchRecent records path in the TUI state. Failures only log.
func (app *App) touchRecent(st store.Store, path string) {
	ts, err := st.LoadTUIState()
	if err != nil {
		app.log.Debug("load tui state", "err", err)
		return
	}
	if abs, err := filepath.Abs(path); err == nil && path != "-" {
		path = abs
	}
	ts.TouchRecentFile(path)
	if err := st.SaveTUIState(ts); err != nil {
		app.log.Debug("save tui state", "err", err)
	}
}

// decodeActions accepts a JSON array of actions or a single action object.
func decodeActions(raw string) ([]model.Action, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "{") {
		var a model.Action
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, fmt.Errorf("decode action: %w", err)
		}
		return []model.Action{a}, nil
	}
	var as []model.Action
	if err := json.Unmarshal([]byte(raw), &as); err != nil {
		return nil, fmt.Errorf("decode actions: %w", err)
	}
	return as, nil
}

func decodeItem(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return v, nil
}
