package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"m4bforge/internal/convert"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDirFlag string
		basePathFlag  string
		flatFlag      bool
		overwriteFlag bool
		progressFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "convert <file-or-folder>",
		Short: "Convert loose audio files into M4B containers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := ctx.client()
			if err != nil {
				return err
			}

			opts := convert.Options{
				OutputDir:     outputDirFlag,
				BaseInputPath: basePathFlag,
				Flat:          flatFlag,
				Overwrite:     overwriteFlag,
			}
			showProgress := progressFlag
			if !cmd.Flags().Changed("progress") {
				showProgress = isatty.IsTerminal(os.Stderr.Fd())
			}
			if showProgress {
				opts.ProgressWriter = cmd.ErrOrStderr()
			}

			started := time.Now().UTC()
			converter := convert.New(client, cfg, ctx.ensureLogger())
			result, err := converter.Run(cmd.Context(), args[0], opts)
			if err != nil {
				ctx.recordRun(cmd.Context(), "convert", started, 0, 1, err.Error())
				return err
			}
			ctx.recordRun(cmd.Context(), "convert", started, result.Report.Succeeded, result.Report.Failed(), result.Report.Summary())

			fmt.Fprintf(cmd.OutOrStdout(), "%s", result.Report.Summary())
			if result.Skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " (%d skipped)", result.Skipped)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			for _, failure := range result.Report.Failures {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %v\n", failure.Key, failure.Err)
			}
			if !result.Report.AllSucceeded() {
				return fmt.Errorf("convert incomplete: %s", result.Report.Summary())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDirFlag, "output-dir", "o", "", "Directory receiving the converted files")
	cmd.Flags().StringVar(&basePathFlag, "base-input-path", "", "Anchor directory for mirroring input structure under the output directory")
	cmd.Flags().BoolVar(&flatFlag, "flat", false, "Write all outputs directly into the output directory")
	cmd.Flags().BoolVar(&overwriteFlag, "overwrite", false, "Re-convert inputs whose output already exists")
	cmd.Flags().BoolVar(&progressFlag, "progress", false, "Show a progress bar (defaults to on for terminals)")

	return cmd
}
