package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"habitquest/internal/engine"
	"habitquest/internal/ui"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show level, XP, HP and streak",
		Args:  exactArgs(0, "status takes no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, events, cleanup, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()
			printEvents(out, events)

			s := mgr.Current()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Player Status"))
			fmt.Fprintln(out, ui.LabelValue("Player", fmt.Sprintf("%s <%s>", s.Profile.Name, s.Profile.Email)))
			fmt.Fprintln(out, ui.LabelValue("Level", s.Level))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d/%d %s %s", s.XP, engine.XPPerLevel,
				ui.Bar(s.XP, engine.XPPerLevel, 20),
				ui.Muted.Render(fmt.Sprintf("(%d to next level)", engine.XPToNextLevel(s))))))
			fmt.Fprintln(out, ui.LabelValue("Total XP", s.TotalXPEarned))
			fmt.Fprintln(out, ui.LabelValue("HP", fmt.Sprintf("%s %s", ui.HPText(s), ui.Bar(s.HP, s.MaxHP, 20))))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d day(s)", ui.IconFire, s.LoginStreak)))
			fmt.Fprintln(out, ui.LabelValue("Badges", fmt.Sprintf("%d/%d", s.CountUnlocked(), len(s.Badges))))
			fmt.Fprintln(out, ui.Muted.Render("Last login: "+s.LastLoginDate.String()))
			return nil
		},
	}
}

func newBadgesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "badges",
		Short: "Show badges and how to earn them",
		Args:  exactArgs(0, "badges takes no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, events, cleanup, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()
			printEvents(out, events)

			s := mgr.Current()
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, fmt.Sprintf("Badges %d/%d", s.CountUnlocked(), len(s.Badges))))
			for _, b := range s.Badges {
				if b.Unlocked {
					fmt.Fprintf(out, "- %s %s %s\n", ui.IconTrophy, ui.Gold.Render(b.Name), ui.Muted.Render(b.Description))
				} else {
					fmt.Fprintf(out, "- %s %s %s\n", ui.IconLock, b.Name, ui.Muted.Render(b.Description))
				}
			}
			return nil
		},
	}
}

func newLogCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent rewards, penalties and unlocks",
		Args:  exactArgs(0, "log takes no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, events, cleanup, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()
			printEvents(out, events)

			if limit <= 0 {
				limit = a.cfg.ActivityLimit
			}
			entries, err := mgr.RecentActivity(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Activity"))
			if len(entries) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(nothing yet)"))
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s %s %s\n",
					ui.Muted.Render(e.OccurredAt.Local().Format("2006-01-02 15:04")),
					ui.Key.Render(fmt.Sprintf("%-14s", e.Kind)),
					e.Detail)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of entries (default from config)")
	return cmd
}
