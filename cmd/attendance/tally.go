package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ironsheep/roster-attendance/internal/batch"
	"github.com/ironsheep/roster-attendance/internal/config"
)

// pickFiles opens the native multi-file picker. Tests replace it.
var pickFiles = func() ([]string, error) {
	return zenity.SelectFileMultiple(
		zenity.Title("Select roster sheets"),
		zenity.FileFilters{
			{
				Name:     "Roster images",
				Patterns: []string{"*.png", "*.jpg", "*.jpeg", "*.bmp", "*.tif", "*.tiff"},
			},
		},
	)
}

type tallyOutput struct {
	*batch.Report
	Missing []string `json:"missing,omitempty"`
}

func newTallyCommand(ctx *commandContext) *cobra.Command {
	var (
		pick           bool
		workers        int
		admissionLimit int
		language       string
		jsonOut        bool
	)

	cmd := &cobra.Command{
		Use:   "tally [images...]",
		Short: "Count each student's presences and absences across roster images",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			cfg, err := ctx.ensureConfig(func(c *config.Config) {
				if flags.Changed("workers") {
					c.Workers = workers
				}
				if flags.Changed("admission-limit") {
					c.AdmissionLimit = admissionLimit
				}
				if flags.Changed("lang") {
					c.Language = language
				}
			})
			if err != nil {
				return err
			}

			paths := append([]string(nil), args...)
			if pick {
				selected, err := pickFiles()
				if err != nil {
					if errors.Is(err, zenity.ErrCanceled) {
						return errors.New("file selection canceled")
					}
					return fmt.Errorf("file picker: %w", err)
				}
				paths = append(paths, selected...)
			}
			if len(paths) == 0 {
				return fmt.Errorf("%w: pass image paths or use --pick", batch.ErrNoImages)
			}

			kept, missing := batch.ExistingFiles(paths)
			for _, p := range missing {
				log.Warn().Str("path", p).Msg("Skipping missing file")
			}
			if len(kept) == 0 {
				return fmt.Errorf("%w: none of the %d given paths is a file", batch.ErrNoImages, len(paths))
			}

			opts := []batch.Option{
				batch.WithWorkers(cfg.Workers),
				batch.WithAdmissionLimit(cfg.AdmissionLimit),
			}
			var bar *progressbar.ProgressBar
			if !jsonOut && isTerminal(cmd.ErrOrStderr()) {
				bar = progressbar.NewOptions(len(kept),
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionSetDescription("Reading sheets"),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
				opts = append(opts, batch.WithProgress(func(batch.Outcome) {
					_ = bar.Add(1)
				}))
			}

			report, runErr := batch.New(newExtractor(*cfg), opts...).Run(cmd.Context(), kept)
			if bar != nil {
				_ = bar.Finish()
			}
			if report == nil {
				return runErr
			}

			if jsonOut {
				if err := writeJSON(cmd, tallyOutput{Report: report, Missing: missing}); err != nil {
					return err
				}
			} else {
				printReport(cmd, report, missing)
			}

			if runErr != nil {
				return runErr
			}
			if report.Processed == 0 {
				return fmt.Errorf("all %d images failed", report.Total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "Choose images with a file dialog")
	cmd.Flags().IntVarP(&workers, "workers", "w", config.Default().Workers, "Number of images processed in parallel")
	cmd.Flags().IntVar(&admissionLimit, "admission-limit", config.Default().AdmissionLimit, "Workers allowed to wait on the shared tally at once")
	cmd.Flags().StringVar(&language, "lang", config.Default().Language, "Tesseract language code(s)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the report as JSON")
	return cmd
}

func printReport(cmd *cobra.Command, report *batch.Report, missing []string) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(report.Counts))
	for _, sc := range report.Counts.Sorted() {
		rows = append(rows, []string{sc.Name, strconv.Itoa(sc.Present), strconv.Itoa(sc.Absent)})
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable(
			[]string{"Student", "Present", "Absent"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight},
		))
	} else {
		fmt.Fprintln(out, "No students found.")
	}

	fmt.Fprintf(out, "\n%d of %d images processed", report.Processed, report.Total)
	if n := report.FailureCount(); n > 0 {
		fmt.Fprintf(out, ", %d skipped", n)
	}
	fmt.Fprintln(out)

	for _, f := range report.Failures {
		fmt.Fprintf(out, "  %s (%s): %v\n", f.Path, f.Stage, f.Err)
	}
	for _, p := range missing {
		fmt.Fprintf(out, "  %s (missing)\n", p)
	}
}
