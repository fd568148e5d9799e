package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"m4bforge/internal/combine"
	"m4bforge/internal/metadata"
	"m4bforge/internal/spec"
)

func newCombineCommand(ctx *commandContext) *cobra.Command {
	var (
		csvFlag         string
		outputFlag      string
		titleFlag       string
		authorFlag      string
		narratorFlag    string
		genreFlag       string
		yearFlag        int
		coverFlag       string
		descriptionFlag string
		preserveFlag    bool
		tempDirFlag     string
	)

	cmd := &cobra.Command{
		Use:   "combine [files...]",
		Short: "Merge audio files into one chaptered M4B",
		Long: `Merge ordered audio files into a single chaptered M4B container.

Inputs come either from a CSV spec (--csv) or from the file arguments,
which are ordered naturally by filename. Metadata flags override both
the CSV preamble and any embedded tags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := ctx.client()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			var cs *spec.CombineSpec
			switch {
			case csvFlag != "":
				if len(args) > 0 {
					return fmt.Errorf("--csv and file arguments are mutually exclusive")
				}
				cs, err = spec.ParseFile(csvFlag)
				if err != nil {
					return err
				}
				for _, warning := range cs.Warnings {
					logger.Warn("csv warning", "detail", warning)
				}
			case len(args) > 0:
				files := make([]string, 0, len(args))
				for _, arg := range args {
					abs, absErr := filepath.Abs(arg)
					if absErr != nil {
						return absErr
					}
					if _, statErr := os.Stat(abs); statErr != nil {
						return fmt.Errorf("input file: %w", statErr)
					}
					files = append(files, abs)
				}
				cs = spec.FromGlob(files)
			default:
				return fmt.Errorf("no inputs: pass audio files or --csv")
			}

			applyMetadataFlags(&cs.Book, titleFlag, authorFlag, narratorFlag, genreFlag, descriptionFlag, coverFlag, yearFlag)
			if cmd.Flags().Changed("preserve-chapters") {
				cs.PreserveChapters = preserveFlag
			}

			if tempDirFlag != "" {
				if err := os.MkdirAll(tempDirFlag, 0o755); err != nil {
					return fmt.Errorf("create temp dir: %w", err)
				}
				lock := flock.New(filepath.Join(tempDirFlag, ".m4bforge.lock"))
				locked, lockErr := lock.TryLock()
				if lockErr != nil {
					return fmt.Errorf("lock temp dir: %w", lockErr)
				}
				if !locked {
					return fmt.Errorf("temp dir %s is in use by another run", tempDirFlag)
				}
				defer func() { _ = lock.Unlock() }()
			}

			started := time.Now().UTC()
			combiner := combine.New(client, cfg, logger)
			result, err := combiner.Run(cmd.Context(), cs, combine.Options{
				Output:  outputFlag,
				WorkDir: tempDirFlag,
			})
			if err != nil {
				ctx.recordRun(cmd.Context(), "combine", started, 0, 1, err.Error())
				return err
			}
			ctx.recordRun(cmd.Context(), "combine", started, result.Total, 0, result.OutputPath)

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d chapters, %d stream copied, %d re-encoded)\n",
				result.OutputPath, len(result.Chapters), result.StreamCopied, result.Reencoded)
			printChapterTable(cmd, result.Chapters)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvFlag, "csv", "", "CSV spec describing inputs and metadata")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output container path")
	cmd.Flags().StringVar(&titleFlag, "title", "", "Book title")
	cmd.Flags().StringVar(&authorFlag, "author", "", "Book author")
	cmd.Flags().StringVar(&narratorFlag, "narrator", "", "Book narrator")
	cmd.Flags().StringVar(&genreFlag, "genre", "", "Genre tag")
	cmd.Flags().IntVar(&yearFlag, "year", 0, "Release year")
	cmd.Flags().StringVar(&coverFlag, "cover", "", "Cover art path or URL")
	cmd.Flags().StringVar(&descriptionFlag, "description", "", "Book description")
	cmd.Flags().BoolVar(&preserveFlag, "preserve-chapters", false, "Carry embedded chapters of the inputs into the output")
	cmd.Flags().StringVar(&tempDirFlag, "temp-dir", "", "Working directory for intermediate files (kept after the run)")

	return cmd
}

func applyMetadataFlags(book *metadata.Book, title, author, narrator, genre, description, cover string, year int) {
	if title != "" {
		book.Title = title
	}
	if author != "" {
		book.Author = author
	}
	if narrator != "" {
		book.Narrator = narrator
	}
	if genre != "" {
		book.Genre = genre
	}
	if description != "" {
		book.Description = description
	}
	if cover != "" {
		book.CoverSource = cover
	}
	if year > 0 {
		book.Year = year
	}
}

func printChapterTable(cmd *cobra.Command, chapters []metadata.Chapter) {
	if len(chapters) == 0 {
		return
	}
	rows := make([][]string, 0, len(chapters))
	for _, chapter := range chapters {
		rows = append(rows, []string{
			fmt.Sprintf("%d", chapter.Index),
			chapter.Title,
			metadata.FormatDuration(chapter.Start),
			metadata.FormatDuration(chapter.Duration),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"#", "Title", "Start", "Duration"},
		rows,
		1, 3, 4,
	))
}
