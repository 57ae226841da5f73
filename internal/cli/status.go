package cli

import (
	"github.com/spf13/cobra"

	"curio-cli/internal/state"
)

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show backend reachability and local cache contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := newSession(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}

			// A one-item page fetch doubles as a reachability and auth probe.
			probe := state.TagsPaginationInfo{
				Page: 1, ItemsPerPage: 1,
				OrderBy: state.TagsOrderByName, SortOrder: state.SortAsc,
			}
			res, _, _, err := sess.rt.GetPageTagIDs(ctx, probe)
			if err != nil {
				return writeErr(cmd, err)
			}

			s := sess.rt.Store.State()
			out := map[string]any{
				"server": map[string]any{
					"reachable": !res.Failed(),
					"status":    res.Status,
					"error":     res.Err,
				},
				"cache": map[string]any{
					"tags":    len(s.Tags),
					"objects": len(s.Objects),
					"users":   len(s.Users),
				},
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	return cmd
}
