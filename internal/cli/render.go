package cli

import (
	"github.com/spf13/cobra"
)

func newRenderCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Mount a document and print its output tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := readDocument(cmd, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess := app.newSession(page)
			sess.Mount()
			return writeOut(cmd, app, sess.Render())
		},
	}
	return cmd
}
