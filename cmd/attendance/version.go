package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/roster-attendance/internal/ocr"
)

func versionString() string {
	return fmt.Sprintf("attendance %s\n  Build time: %s\n  Git commit: %s", Version, BuildTime, GitCommit)
}

func newVersionCommand() *cobra.Command {
	var withEngine bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, versionString())
			if withEngine {
				fmt.Fprintf(out, "  Tesseract:  %s\n", ocr.Version())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withEngine, "engine", false, "Also report the linked Tesseract version")
	return cmd
}
