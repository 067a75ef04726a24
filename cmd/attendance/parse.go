package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/roster-attendance/internal/roster"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "parse [FILE|-]",
		Short: "Parse the OCR text of one roster sheet",
		Long:  "Parse the text of one roster sheet, read from FILE or from stdin when FILE is '-' or omitted, and print each student's two session statuses.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}

			var data []byte
			var err error
			if len(args) == 0 || args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read sheet text: %w", err)
			}

			rec, err := roster.Parse(string(data))
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, rec)
			}

			rows := make([][]string, 0, len(rec))
			for _, e := range rec {
				rows = append(rows, []string{e.Name, e.Session1, e.Session2})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Student", "Session 1", "Session 2"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the record as JSON")
	return cmd
}
