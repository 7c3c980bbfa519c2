package root

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"habitquest/internal/config"
	"habitquest/internal/logging"
	"habitquest/internal/ui"
)

const Version = "0.1.0"

// app carries what PersistentPreRunE builds for the subcommands.
type app struct {
	configPath string
	cfg        *config.Config
	log        *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "hq",
		Short:         "HabitQuest: gamified habits, todos and goals",
		Long:          "HabitQuest is a local-first task tracker that awards XP for completed tasks and takes HP for missed habits and overdue todos.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				p, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = p
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger
			a.log.Debug("config loaded", zap.String("path", path), zap.String("db", cfg.DatabasePath))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.habitquest/config.yaml)")

	rootCmd.AddCommand(
		newSignupCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newAddCmd(a),
		newDoCmd(a),
		newRmCmd(a),
		newListCmd(a),
		newStatusCmd(a),
		newBadgesCmd(a),
		newLogCmd(a),
		newBoardCmd(a),
	)
	return rootCmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
