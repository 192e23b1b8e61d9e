package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/adpena/heartscope/internal/config"
	"github.com/adpena/heartscope/internal/ui"
)

func runScope(cfg config.Config, logger *log.Logger) error {
	model := ui.NewModel(cfg, ui.WithLogger(logger))
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
