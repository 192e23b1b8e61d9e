package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/adpena/heartscope/internal/app/cmd"
)

// Run executes the CLI. With no subcommand it opens the scope, so flags such
// as `heartscope --ticks 200` apply to it directly.
func Run() {
	if defaultToScope(os.Args[1:]) {
		os.Args = append([]string{os.Args[0], "scope"}, os.Args[1:]...)
	}
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultToScope(args []string) bool {
	if len(args) == 0 {
		return true
	}
	first := args[0]
	switch first {
	case "-h", "--help", "--version":
		return false
	}
	return strings.HasPrefix(first, "-")
}
