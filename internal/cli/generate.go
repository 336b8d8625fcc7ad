package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"sdui-cli/internal/catalog"
	"sdui-cli/internal/render"
	"sdui-cli/internal/store"
)

type generationText struct {
	Generation *catalog.Generation `json:"generation"`
	Tree       *render.Tree        `json:"tree"`
}

func (g generationText) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "intent: %s\n%s\n\n", g.Generation.Intent, g.Generation.Summary); err != nil {
		return err
	}
	if err := g.Tree.WriteText(w); err != nil {
		return err
	}
	if len(g.Generation.Problems) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		return catalog.WriteProblems(w, g.Generation.Problems)
	}
	return nil
}

func newGenerateCmd(app *App) *cobra.Command {
	var asJSON bool
	var out string

	cmd := &cobra.Command{
		Use:   "generate <prompt...>",
		Short: "Pick the catalog document that best fits a prompt",
		Long: strings.TrimSpace(`
Rank the catalog's interaction examples against the prompt and return the
best one's document. By default the document is mounted and its output tree
printed; --json prints the generation record instead. --out writes the
document to a file.
`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.catalogStore(cmd.Context(), true)
			if err != nil {
				return writeErr(cmd, err)
			}
			gen, err := catalog.Generate(cmd.Context(), st, strings.Join(args, " "), app.log)
			if err != nil {
				if errors.Is(err, catalog.ErrNoDocument) {
					return writeErr(cmd, fmt.Errorf("generate: %w", err))
				}
				return writeErr(cmd, err)
			}

			if p := strings.TrimSpace(out); p != "" {
				var b bytes.Buffer
				if err := json.Indent(&b, gen.Document, "", "  "); err != nil {
					return writeErr(cmd, fmt.Errorf("format document: %w", err))
				}
				b.WriteByte('\n')
				if err := store.WriteFileAtomic(p, b.Bytes(), 0o644); err != nil {
					return writeErr(cmd, err)
				}
				app.log.Info("wrote document", "path", p, "intent", gen.Intent)
			}

			if asJSON {
				return writeOut(cmd, app, gen)
			}
			sess := app.newSession(gen.Page)
			sess.Mount()
			return writeOut(cmd, app, generationText{Generation: gen, Tree: sess.Render()})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the generation record instead of the rendered tree")
	cmd.Flags().StringVar(&out, "out", "", "Also write the document to this file")
	return cmd
}
