package root

import (
	"github.com/spf13/cobra"

	"habitquest/internal/tui"
)

func newBoardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		Args:  exactArgs(0, "board takes no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, events, cleanup, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			printEvents(cmd.OutOrStdout(), events)

			return tui.RunBoard(ctx, mgr, cmd.OutOrStdout())
		},
	}
}
