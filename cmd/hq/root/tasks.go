package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"habitquest/internal/engine"
	"habitquest/internal/session"
	"habitquest/internal/ui"
)

func newAddCmd(a *app) *cobra.Command {
	var list string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a habit, todo or goal",
		Args:  exactArgs(1, "title is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, events, cleanup, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()
			printEvents(out, events)

			l := engine.ParseListType(list)
			t, err := mgr.AddTask(ctx, args[0], l)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s %s %s\n",
				ui.Good.Render(ui.IconPlus+" Added"),
				ui.Muted.Render(engine.ShortID(t.ID)),
				t.Title,
				ui.Muted.Render("→ "+ui.ListIcon(l)+" "+ui.ListTitle(l)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&list, "list", "l", string(engine.ListTodos), "List (habits|todos|weekly|monthly)")
	return cmd
}

// resolveTask expands ref against the active state. When list is set the
// task must live in that list.
func resolveTask(mgr *session.Manager, ref string, list string) (engine.Task, engine.ListType, error) {
	state := mgr.Current()
	id, where, err := engine.ResolveTaskID(state, ref)
	if err != nil {
		return engine.Task{}, "", err
	}
	if list != "" && engine.ParseListType(list) != where {
		return engine.Task{}, "", fmt.Errorf("%w: %q in %s", engine.ErrTaskNotFound, ref, engine.ParseListType(list))
	}
	t, _, _ := engine.FindTask(state, id)
	return *t, where, nil
}

func newDoCmd(a *app) *cobra.Command {
	var list string

	cmd := &cobra.Command{
		Use:   "do <id>",
		Short: "Toggle a task done/undone",
		Long: `Toggle a task by its id (or any unique suffix of it, as shown by "hq list").

Completing a task awards XP. Un-completing a todo or goal takes the XP back.
Completed habits stay done until the next day's rollover.`,
		Args: exactArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, events, cleanup, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()
			printEvents(out, events)

			t, where, err := resolveTask(mgr, args[0], list)
			if err != nil {
				return err
			}
			if where == engine.ListHabits && t.Completed {
				fmt.Fprintln(out, ui.Muted.Render(ui.IconInfo+" Habits stay done until tomorrow."))
				return nil
			}
			events, err = mgr.ToggleTask(ctx, t.ID, where)
			if err != nil {
				return err
			}
			if t.Completed {
				fmt.Fprintf(out, "%s %s\n", ui.Warn.Render(ui.IconOpen+" Reopened"), t.Title)
			} else {
				fmt.Fprintf(out, "%s %s\n", ui.Good.Render(ui.IconDone+" Done"), t.Title)
			}
			printEvents(out, events)
			return nil
		},
	}

	cmd.Flags().StringVarP(&list, "list", "l", "", "Only match tasks in this list")
	return cmd
}

func newRmCmd(a *app) *cobra.Command {
	var list string

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  exactArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, events, cleanup, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()
			printEvents(out, events)

			t, where, err := resolveTask(mgr, args[0], list)
			if err != nil {
				return err
			}
			if _, err := mgr.DeleteTask(ctx, t.ID, where); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", ui.Warn.Render(ui.IconTrash+" Deleted"), t.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&list, "list", "l", "", "Only match tasks in this list")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var list string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  exactArgs(0, "list takes no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, events, cleanup, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()
			printEvents(out, events)

			state := mgr.Current()
			lists := engine.AllLists
			if list != "" {
				lists = []engine.ListType{engine.ParseListType(list)}
			}
			for i, l := range lists {
				if i > 0 {
					fmt.Fprintln(out)
				}
				tasks := *state.List(l)
				fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("%s %s (%d)", ui.ListIcon(l), ui.ListTitle(l), len(tasks))))
				if len(tasks) == 0 {
					fmt.Fprintln(out, ui.Muted.Render("  (empty)"))
					continue
				}
				for _, t := range tasks {
					fmt.Fprintln(out, "  "+ui.TaskLine(t))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&list, "list", "l", "", "Show only this list")
	return cmd
}
