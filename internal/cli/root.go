// Package cli wires the sdui commands: one-shot render and dispatch, the
// terminal and browser hosts, and the component catalog.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sdui-cli/internal/catalog"
	"sdui-cli/internal/format"
	"sdui-cli/internal/store"
	"sdui-cli/internal/tui"
)

type App struct {
	ConfigDir   string
	CatalogPath string
	Format      string
	Pretty      bool

	cfg *store.Config
	log *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "sdui",
		Short:        "Render and host server-driven UI documents",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Browse the catalog's interaction examples in the terminal
  sdui

  # Render a document once and print the output tree
  sdui render page.json

  # Host a document interactively
  sdui run page.json
  sdui web page.json --addr 127.0.0.1:8765

  # Pick a document for a prompt
  sdui generate "show products as cards, open details in a modal"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => catalog browser.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runBrowser(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", "", "Config directory (default: $SDUI_CONFIG_DIR or ~/.sdui)")
	cmd.PersistentFlags().StringVar(&app.CatalogPath, "catalog", "", "Catalog directory (overrides catalog.path)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "", "Output format (text|json|edn|yaml); default from output.format")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print structured output")

	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newDispatchCmd(app))
	cmd.AddCommand(newRunCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newCatalogCmd(app))
	cmd.AddCommand(newGenerateCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// load reads config and lets explicit flags win over it.
func (app *App) load(cmd *cobra.Command) error {
	if dir := strings.TrimSpace(app.ConfigDir); dir != "" {
		if err := os.Setenv("SDUI_CONFIG_DIR", dir); err != nil {
			return err
		}
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	flags := cmd.Flags()
	if !flags.Changed("format") {
		app.Format = cfg.Output.Format
	}
	if !flags.Changed("pretty") {
		app.Pretty = cfg.Output.Pretty
	}
	app.Format = strings.ToLower(strings.TrimSpace(app.Format))
	if !format.Valid(app.Format) {
		return writeErr(cmd, fmt.Errorf("unknown format: %q (expected text|json|edn|yaml)", app.Format))
	}
	if p := strings.TrimSpace(app.CatalogPath); p != "" {
		cfg.Catalog.Path = p
	}
	app.cfg = cfg
	app.log = newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	return nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// catalogStore opens the catalog directory. When seed is set and the
// catalog has no examples yet, the built-in records are written first.
func (app *App) catalogStore(ctx context.Context, seed bool) (store.Store, error) {
	dir, err := app.cfg.CatalogDir()
	if err != nil {
		return store.Store{}, err
	}
	st := store.Store{Dir: dir}
	if err := st.Ensure(); err != nil {
		return st, err
	}
	if !seed {
		return st, nil
	}
	counts, err := st.Counts(ctx)
	if err != nil {
		return st, err
	}
	if counts["examples"] == 0 {
		app.log.Info("seeding empty catalog", "dir", dir)
		if _, err := catalog.Seed(ctx, st, app.log); err != nil {
			return st, fmt.Errorf("seed catalog: %w", err)
		}
	}
	return st, nil
}

func runBrowser(cmd *cobra.Command, app *App) error {
	st, err := app.catalogStore(cmd.Context(), true)
	if err != nil {
		return writeErr(cmd, err)
	}
	examples, err := st.Examples(cmd.Context())
	if err != nil {
		return writeErr(cmd, err)
	}
	return tui.RunBrowser(examples, st, app.tuiOptions("sdui"))
}

func (app *App) tuiOptions(title string) tui.Options {
	return tui.Options{
		Title:    title,
		Markdown: app.cfg.TUI.Markdown,
		DebugLog: app.cfg.TUI.DebugLog,
	}
}

// writeOut prints v in the selected format. Structured formats wrap it in
// a {"data": ...} envelope; text falls back to pretty JSON for values
// without a text form.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	w := cmd.OutOrStdout()
	if app.Format == "text" {
		if tw, ok := v.(format.TextWriter); ok {
			return tw.WriteText(w)
		}
		return format.WriteJSON(w, map[string]any{"data": v}, true)
	}
	return format.Write(w, map[string]any{"data": v}, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
