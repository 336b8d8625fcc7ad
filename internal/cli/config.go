package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sdui-cli/internal/store"
)

type configEntry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type configOutput struct {
	Path    string        `json:"path"`
	Entries []configEntry `json:"entries"`
}

func (o configOutput) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# %s\n", o.Path); err != nil {
		return err
	}
	for _, e := range o.Entries {
		if _, err := fmt.Fprintf(w, "%s = %v\n", e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func newConfigOutput(cfg *store.Config) (configOutput, error) {
	path, err := store.ConfigPath()
	if err != nil {
		return configOutput{}, err
	}
	out := configOutput{Path: path}
	for _, k := range store.ConfigKeys() {
		v, _ := cfg.Get(k)
		out.Entries = append(out.Entries, configEntry{Key: k, Value: v})
	}
	return out, nil
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings in config.toml",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective settings (file plus SDUI_* environment)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newConfigOutput(app.cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, out)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one key and write config.toml",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Start from the file alone so flag overrides are not persisted.
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.cfg = cfg
			out, err := newConfigOutput(cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, out)
		},
	})

	return cmd
}
