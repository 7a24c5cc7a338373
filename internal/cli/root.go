// Package cli holds the cobra command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"redminereport/internal/app"
	"redminereport/internal/config"
	"redminereport/internal/logger"
)

type options struct {
	configPath string
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	opts := &options{}
	gen := &generateFlags{}

	root := &cobra.Command{
		Use:   "redmine-report",
		Short: "Build the monthly Redmine report as an .odt document",
		Long: `redmine-report collects the issues assigned to you in Redmine together with
the time logged on them and writes a two-table report: work done this month
and the plan for the next one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, gen)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")
	gen.register(root)

	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newScheduleCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

// loadConfig reads the config file; when bootstrap is set a missing file is
// created interactively on the command's stdin.
func loadConfig(cmd *cobra.Command, opts *options, bootstrap bool) (config.Config, error) {
	path := config.Path(opts.configPath)
	if !bootstrap {
		return config.Load(path)
	}
	cfg, created, err := config.LoadOrBootstrap(path, config.NewStdinPrompter(cmd.InOrStdin(), cmd.ErrOrStderr()))
	if err != nil {
		return cfg, err
	}
	if created {
		fmt.Fprintf(cmd.ErrOrStderr(), "Config saved to %s\n", path)
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command, cfg config.Config) (*app.App, zerolog.Logger, error) {
	log := logger.NewWithWriter(cfg, cmd.ErrOrStderr())
	a, err := app.New(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return nil, log, err
	}
	return a, log, nil
}
