package ui

import (
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/adpena/heartscope/internal/config"
)

func newTestModel(t *testing.T, cfg config.Config, opts ...Option) *Model {
	t.Helper()
	if os.Getenv("HEARTSCOPE_SAFE_TOP") == "" {
		t.Setenv("HEARTSCOPE_SAFE_TOP", "0")
	}
	model := NewModel(cfg, opts...)
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(*Model)
}

// tick delivers n current-generation tick messages and returns the last command.
func tick(t *testing.T, model *Model, n int) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		_, cmd = model.Update(tickMsg{gen: model.gen})
	}
	return cmd
}

func press(model *Model, keys string) tea.Cmd {
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return cmd
}
