package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously generated reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, false)
			if err != nil {
				return err
			}
			a, _, err := newApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			runs, err := a.History(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No reports recorded yet.")
				return nil
			}
			for _, r := range runs {
				fmt.Fprintf(out, "#%-4d %s  since %s  current=%-3d next=%-3d %s\n",
					r.ID,
					r.GeneratedAt.In(cfg.Location).Format("2006-01-02 15:04"),
					r.PeriodStart.Format("2006-01-02"),
					r.CurrentCount,
					r.NextCount,
					r.Filename,
				)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of runs to show")
	return cmd
}
