package cmd

import (
	"github.com/spf13/cobra"

	"github.com/adpena/heartscope/internal/health"
)

var RootCmd = &cobra.Command{
	Use:     "heartscope",
	Short:   "Scrolling synthetic heartbeat scope with peak detection",
	Version: health.Version,
}

func Execute() error { return RootCmd.Execute() }
