package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// setupLogging writes to path when set and to fallback otherwise.
func setupLogging(path, level string, fallback io.Writer) (*log.Logger, func(), error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	out := fallback
	closeFn := func() {}
	if path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = file
		closeFn = func() {
			_ = file.Close()
		}
	}
	logger := log.NewWithOptions(out, log.Options{
		Level:           lvl,
		Prefix:          "heartscope",
		ReportTimestamp: true,
	})
	return logger, closeFn, nil
}
