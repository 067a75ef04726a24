package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ironsheep/roster-attendance/internal/config"
	"github.com/ironsheep/roster-attendance/internal/logging"
	"github.com/ironsheep/roster-attendance/internal/ocr"
	"github.com/ironsheep/roster-attendance/internal/server"
)

// newExtractor builds the OCR pipeline for a configuration. Tests replace it.
var newExtractor = func(cfg config.Config) server.Extractor {
	return ocr.NewExtractor(ocr.NewTesseractEngine(cfg.Language, cfg.PageSegMode))
}

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the configuration once, applying overrides on top of
// file and environment values, and initialises logging from it.
func (c *commandContext) ensureConfig(overrides ...config.Override) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path, overrides...)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		logging.Init(cfg.LogLevel)
		c.config = cfg
	})
	return c.config, c.configErr
}

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "attendance",
		Short:         "Tally student attendance from scanned roster sheets",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetVersionTemplate(versionString() + "\n")

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newTallyCommand(ctx))
	rootCmd.AddCommand(newParseCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
