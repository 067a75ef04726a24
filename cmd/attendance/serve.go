package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/roster-attendance/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long:  "Run an MCP (Model Context Protocol) server over stdin and stdout exposing roster_parse, image_ocr and attendance_tally. Logs go to stderr.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			server.Version = Version
			log.Debug().
				Str("version", Version).
				Str("build_time", BuildTime).
				Str("commit", GitCommit).
				Msg("Starting MCP server")

			srv := server.New(*cfg, newExtractor(*cfg))
			return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
