package cli

import (
	"github.com/spf13/cobra"

	"sdui-cli/internal/tui"
)

func newRunCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file|->",
		Short: "Host a document in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := readDocument(cmd, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if st, err := app.catalogStore(cmd.Context(), false); err == nil {
				app.touchRecent(st, args[0])
			}
			return tui.Run(page, app.tuiOptions(documentTitle(args[0])))
		},
	}
	return cmd
}
