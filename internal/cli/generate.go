package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

type generateFlags struct {
	outputDir string
	preview   bool
}

func (f *generateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "directory for the .odt file (default report.output_dir)")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "print both tables to the terminal after saving")
}

func newGenerateCmd(opts *options) *cobra.Command {
	flags := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the report once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *options, flags *generateFlags) error {
	cfg, err := loadConfig(cmd, opts, true)
	if err != nil {
		return err
	}
	a, log, err := newApp(cmd, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Generate(cmd.Context(), flags.outputDir, time.Now().In(cfg.Location))
	if err != nil {
		log.Error().Err(err).Msg("report generation failed")
		if res.Path == "" {
			return err
		}
	}
	if flags.preview {
		if perr := a.Preview(cmd.OutOrStdout(), res); perr != nil {
			return perr
		}
	}
	if res.Path != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Report saved: %s\n", res.Path)
	}
	return err
}
