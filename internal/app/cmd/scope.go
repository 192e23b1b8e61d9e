package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/adpena/heartscope/internal/config"
)

var scopeCmd = &cobra.Command{
	Use:   "scope",
	Short: "Open the interactive scope",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}
		// The screen belongs to the program; logs only go to --log-file.
		logger, closeLog, err := setupLogging(cfg.LogFile, cfg.LogLevel, io.Discard)
		if err != nil {
			return err
		}
		defer closeLog()
		return runScope(cfg, logger)
	},
}

func init() {
	config.RegisterFlags(scopeCmd)
	RootCmd.AddCommand(scopeCmd)
}
