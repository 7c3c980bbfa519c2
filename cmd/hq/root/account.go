package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"habitquest/internal/engine"
	"habitquest/internal/ui"
)

func newSignupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signup <name> <email>",
		Short: "Create an account and log in",
		Args:  exactArgs(2, "name and email are required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, cleanup, err := a.openManager(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			state, events, err := mgr.SignUp(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", ui.Good.Render(ui.IconSparkle+" Welcome,"), state.Profile.Name)
			printEvents(out, events)
			printSummary(cmd, state)
			return nil
		},
	}
}

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and run the daily rollover",
		Args:  exactArgs(1, "email is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, cleanup, err := a.openManager(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			state, events, err := mgr.Login(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", ui.Good.Render(ui.IconSparkle+" Welcome back,"), state.Profile.Name)
			printEvents(out, events)
			printSummary(cmd, state)
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out (progress is kept)",
		Args:  exactArgs(0, "logout takes no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, cleanup, err := a.openManager(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := mgr.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Logged out."))
			return nil
		},
	}
}

func printSummary(cmd *cobra.Command, s *engine.PlayerState) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %s\n",
		ui.LabelValue("Level", s.Level),
		ui.LabelValue("XP", fmt.Sprintf("%d/%d", s.XP, engine.XPPerLevel)),
		ui.HPText(s),
		ui.LabelValue(ui.IconFire+" Streak", s.LoginStreak),
	)
}
