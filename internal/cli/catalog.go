package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"sdui-cli/internal/catalog"
	"sdui-cli/internal/model"
	"sdui-cli/internal/publish"
	"sdui-cli/internal/store"
)

func parseRecordKind(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "component", "components", model.RecordComponent:
		return model.RecordComponent, nil
	case "capability", "capabilities", model.RecordCapability:
		return model.RecordCapability, nil
	case "example", "examples", model.RecordExample:
		return model.RecordExample, nil
	}
	return "", fmt.Errorf("unknown record kind: %q (expected component|capability|example)", s)
}

type hitList []catalog.Hit

func (hs hitList) WriteText(w io.Writer) error {
	if len(hs) == 0 {
		_, err := fmt.Fprintln(w, "no matches")
		return err
	}
	for _, h := range hs {
		if _, err := fmt.Fprintf(w, "%.2f  %-19s  %-24s  %s\n", h.Score, h.Kind, h.Key, h.Summary); err != nil {
			return err
		}
	}
	return nil
}

type problemList []catalog.Problem

func (ps problemList) WriteText(w io.Writer) error { return catalog.WriteProblems(w, ps) }

type seedOutput struct {
	Dir    string             `json:"dir"`
	Seeded catalog.SeedResult `json:"seeded"`
}

func (o seedOutput) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "seeded %d components, %d capabilities, %d examples into %s\n",
		o.Seeded.Components, o.Seeded.Capabilities, o.Seeded.Examples, o.Dir)
	return err
}

type catalogListing struct {
	Components   []model.ComponentSpec      `json:"components,omitempty"`
	Capabilities []model.CapabilityManifest `json:"capabilities,omitempty"`
	Examples     []model.InteractionExample `json:"examples,omitempty"`
}

func (l catalogListing) WriteText(w io.Writer) error {
	for _, c := range l.Components {
		if _, err := fmt.Fprintf(w, "component   %-24s %s\n", c.Key, c.Library); err != nil {
			return err
		}
	}
	for _, c := range l.Capabilities {
		if _, err := fmt.Fprintf(w, "capability  %-24s %s\n", c.Key, c.Description); err != nil {
			return err
		}
	}
	for _, e := range l.Examples {
		if _, err := fmt.Fprintf(w, "example     %-24s %s\n", e.Intent, e.Summary); err != nil {
			return err
		}
	}
	return nil
}

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the component catalog",
	}
	cmd.AddCommand(newCatalogSeedCmd(app))
	cmd.AddCommand(newCatalogListCmd(app))
	cmd.AddCommand(newCatalogSearchCmd(app))
	cmd.AddCommand(newCatalogShowCmd(app))
	cmd.AddCommand(newCatalogLintCmd(app))
	cmd.AddCommand(newCatalogPublishCmd(app))
	return cmd
}

func newCatalogSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the built-in records (idempotent)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.catalogStore(cmd.Context(), false)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := catalog.Seed(cmd.Context(), st, app.log)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, seedOutput{Dir: st.Dir, Seeded: res})
		},
	}
}

func newCatalogListCmd(app *App) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseRecordKind(kind)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()
			st, err := app.catalogStore(ctx, true)
			if err != nil {
				return writeErr(cmd, err)
			}
			var out catalogListing
			if k == "" || k == model.RecordComponent {
				if out.Components, err = st.Components(ctx); err != nil {
					return writeErr(cmd, err)
				}
			}
			if k == "" || k == model.RecordCapability {
				if out.Capabilities, err = st.Capabilities(ctx); err != nil {
					return writeErr(cmd, err)
				}
			}
			if k == "" || k == model.RecordExample {
				if out.Examples, err = st.Examples(ctx); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only list one kind (component|capability|example)")
	return cmd
}

func newCatalogSearchCmd(app *App) *cobra.Command {
	var kind string
	var tags []string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Rank catalog records against a free-text query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseRecordKind(kind)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := app.catalogStore(cmd.Context(), true)
			if err != nil {
				return writeErr(cmd, err)
			}
			hits, err := catalog.Search(cmd.Context(), st, strings.Join(args, " "), catalog.Filter{Kind: k, Tags: tags, Limit: limit})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, hitList(hits))
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only search one kind (component|capability|example)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Require this tag (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum hits (default 5)")
	return cmd
}

func newCatalogShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <kind> <key>",
		Short: "Show one record by key (or intent for examples)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseRecordKind(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if k == "" {
				return writeErr(cmd, errors.New("catalog show: kind is required"))
			}
			ctx := cmd.Context()
			st, err := app.catalogStore(ctx, true)
			if err != nil {
				return writeErr(cmd, err)
			}
			var rec any
			switch k {
			case model.RecordComponent:
				rec, err = st.Component(ctx, args[1])
			case model.RecordCapability:
				rec, err = st.Capability(ctx, args[1])
			default:
				rec, err = st.Example(ctx, args[1])
			}
			if errors.Is(err, store.ErrNotFound) {
				return writeErr(cmd, errNotFound(args[0], args[1]))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, rec)
		},
	}
}

func newCatalogLintCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file|->",
		Short: "Check a document's actions against the capability manifests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := readDocument(cmd, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := app.catalogStore(cmd.Context(), true)
			if err != nil {
				return writeErr(cmd, err)
			}
			caps, err := st.Capabilities(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			problems := catalog.Lint(page, caps)
			if err := writeOut(cmd, app, problemList(problems)); err != nil {
				return err
			}
			if catalog.HasErrors(problems) {
				return writeErr(cmd, errLintFailed)
			}
			return nil
		},
	}
}

func newCatalogPublishCmd(app *App) *cobra.Command {
	var to string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write the catalog as markdown pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := app.catalogStore(ctx, true)
			if err != nil {
				return writeErr(cmd, err)
			}
			var c publish.Catalog
			if c.Components, err = st.Components(ctx); err != nil {
				return writeErr(cmd, err)
			}
			if c.Capabilities, err = st.Capabilities(ctx); err != nil {
				return writeErr(cmd, err)
			}
			if c.Examples, err = st.Examples(ctx); err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.WriteCatalog(c, to, publish.WriteOptions{Overwrite: overwrite})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, res)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	return cmd
}
