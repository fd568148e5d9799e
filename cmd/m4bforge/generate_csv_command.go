package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"m4bforge/internal/spec"
)

func newGenerateCSVCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "generate-csv <folder>",
		Short: "Write a CSV spec template for the containers in a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := args[0]
			outputPath := outputFlag
			if outputPath == "" {
				outputPath = spec.DefaultTemplatePath(folder)
			}

			started := time.Now().UTC()
			data, err := spec.Generate(folder, filepath.Dir(outputPath))
			if err != nil {
				ctx.recordRun(cmd.Context(), "generate-csv", started, 0, 1, err.Error())
				return err
			}
			if err := os.WriteFile(outputPath, data, 0o644); err != nil {
				ctx.recordRun(cmd.Context(), "generate-csv", started, 0, 1, err.Error())
				return fmt.Errorf("write template: %w", err)
			}
			ctx.recordRun(cmd.Context(), "generate-csv", started, 1, 0, outputPath)

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Template path (defaults to <folder>/<folder name>.csv)")

	return cmd
}
