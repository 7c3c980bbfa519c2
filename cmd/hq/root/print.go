package root

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"habitquest/internal/engine"
	"habitquest/internal/ui"
)

func printEvents(w io.Writer, events []engine.Event) {
	for _, ev := range events {
		fmt.Fprintln(w, ui.RenderEvent(ev))
	}
}

func exactArgs(n int, msg string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.New(msg)
		}
		return nil
	}
}
