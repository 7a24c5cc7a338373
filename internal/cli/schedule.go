package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"redminereport/internal/config"
	"redminereport/internal/schedule"
)

func newScheduleCmd(opts *options) *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate the report on the configured cron schedule",
		Long: `Runs until interrupted, generating the report at every activation of
report.schedule (5-field cron, evaluated in report.timezone).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, false)
			if err != nil {
				return err
			}
			sched, err := config.ParseSchedule(cfg.Report.Schedule)
			if err != nil {
				return err
			}
			a, log, err := newApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info().Str("cron", cfg.Report.Schedule).Str("timezone", cfg.Location.String()).Msg("report scheduled")
			err = schedule.New(sched, cfg.Location, log).Run(ctx, func(ctx context.Context, now time.Time) error {
				res, err := a.Generate(ctx, outputDir, now)
				if res.Path != "" {
					log.Info().Str("path", res.Path).Msg("scheduled report saved")
				}
				return err
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for the .odt files (default report.output_dir)")
	return cmd
}
