package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"m4bforge/internal/split"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDirFlag string
		formatFlag    string
		templateFlag  string
	)

	cmd := &cobra.Command{
		Use:   "split <container>...",
		Short: "Extract the chapters of M4B/M4A containers into separate files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := ctx.client()
			if err != nil {
				return err
			}

			started := time.Now().UTC()
			splitter := split.New(client, cfg, ctx.ensureLogger())
			result, err := splitter.Run(cmd.Context(), args, split.Options{
				OutputDir: outputDirFlag,
				Format:    formatFlag,
				Template:  templateFlag,
			})
			if err != nil {
				ctx.recordRun(cmd.Context(), "split", started, 0, len(args), err.Error())
				return err
			}
			ctx.recordRun(cmd.Context(), "split", started, result.Report.Succeeded, result.Report.Failed(), result.Report.Summary())

			for _, input := range args {
				report := result.PerFile[input]
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", input, report.Summary())
				for _, failure := range report.Failures {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %v\n", failure.Key, failure.Err)
				}
			}
			if len(args) > 1 {
				fmt.Fprintf(cmd.OutOrStdout(), "Total: %s\n", result.Report.Summary())
			}
			if !result.Report.AllSucceeded() {
				return fmt.Errorf("split incomplete: %s", result.Report.Summary())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDirFlag, "output-dir", "o", "", "Directory receiving the chapter files")
	cmd.Flags().StringVar(&formatFlag, "format", "", "Output audio format (mp3, m4a, m4b, flac, ogg, wav)")
	cmd.Flags().StringVar(&templateFlag, "template", "", "Naming template for chapter files")

	return cmd
}
