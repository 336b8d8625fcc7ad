package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sdui-cli/internal/dispatch"
	"sdui-cli/internal/render"
	"sdui-cli/internal/state"
)

type dispatchOutput struct {
	Result   dispatch.Result `json:"result"`
	Snapshot state.Snapshot  `json:"snapshot"`
	Tree     *render.Tree    `json:"tree"`
}

func (o dispatchOutput) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "applied %d, unsupported %d, invalid %d (version %d)\n",
		o.Result.Applied, o.Result.Unsupported, o.Result.Invalid, o.Snapshot.Version); err != nil {
		return err
	}
	return o.Tree.WriteText(w)
}

func addResult(a, b dispatch.Result) dispatch.Result {
	return dispatch.Result{
		Applied:     a.Applied + b.Applied,
		Unsupported: a.Unsupported + b.Unsupported,
		Invalid:     a.Invalid + b.Invalid,
	}
}

func newDispatchCmd(app *App) *cobra.Command {
	var actionsJSON string
	var itemJSON string
	var activate []string
	var dismiss []string

	cmd := &cobra.Command{
		Use:   "dispatch <file|->",
		Short: "Mount a document, run actions or activate nodes, print the result",
		Long: `Mount a document, then run --actions (with --item as the item scope),
then activate each --activate handle and dismiss each --dismiss handle in
order. Handles are node keys as printed by "sdui render".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actions, err := decodeActions(actionsJSON)
			if err != nil {
				return writeErr(cmd, err)
			}
			item, err := decodeItem(itemJSON)
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(actions) == 0 && len(activate) == 0 && len(dismiss) == 0 {
				return writeErr(cmd, errors.New("dispatch: nothing to do (pass --actions, --activate or --dismiss)"))
			}
			page, err := readDocument(cmd, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			sess := app.newSession(page)
			sess.Mount()

			var res dispatch.Result
			if len(actions) > 0 {
				res = sess.Dispatcher().Dispatch(actions, item)
			}
			for _, h := range activate {
				r, ok := sess.Render().Activate(h)
				if !ok {
					return writeErr(cmd, errNotFound("handle", h))
				}
				res = addResult(res, r)
			}
			for _, h := range dismiss {
				if !sess.Render().Dismiss(h) {
					return writeErr(cmd, errNotFound("dialog handle", h))
				}
			}

			return writeOut(cmd, app, dispatchOutput{
				Result:   res,
				Snapshot: sess.Store().Snapshot(),
				Tree:     sess.Render(),
			})
		},
	}

	cmd.Flags().StringVar(&actionsJSON, "actions", "", "Action JSON: an array or a single {capability, payload} object")
	cmd.Flags().StringVar(&itemJSON, "item", "", "Item scope JSON for --actions")
	cmd.Flags().StringArrayVar(&activate, "activate", nil, "Activate the node with this handle (repeatable)")
	cmd.Flags().StringArrayVar(&dismiss, "dismiss", nil, "Dismiss the open dialog with this handle (repeatable)")
	return cmd
}
