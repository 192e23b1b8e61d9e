package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/adpena/heartscope/internal/theme"
	"github.com/adpena/heartscope/internal/trace"
)

type tickMsg struct {
	gen int
}

type toastClearMsg struct{}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if msg.gen != m.gen || m.paused || m.Done() {
			return m, nil
		}
		m.advance()
		if m.frame.Done {
			m.finishedAt = time.Now()
			m.logger.Info("trace complete",
				"ticks", m.frame.Tick+1,
				"peaks", m.frame.PeakCount,
				"elapsed", m.finishedAt.Sub(m.startedAt).Round(time.Millisecond),
			)
			return m, m.showToast("Trace complete")
		}
		return m, m.tickCmd()
	case spinner.TickMsg:
		if m.started {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case toastClearMsg:
		if time.Now().After(m.toastExpiry) {
			m.toast = ""
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.logger.Info("scope stopped", "tick", m.frame.Tick, "peaks", m.frame.PeakCount, "done", m.Done())
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keymap.Pause):
		if m.Done() {
			return m, nil
		}
		m.paused = !m.paused
		if m.paused {
			m.logger.Debug("paused", "tick", m.frame.Tick)
			return m, nil
		}
		m.logger.Debug("resumed", "tick", m.frame.Tick)
		m.gen++
		return m, m.tickCmd()
	case key.Matches(msg, m.keymap.ToggleTheme):
		m.cfg.Theme = theme.Toggle(m.cfg.Theme)
		m.theme = theme.Resolve(m.cfg.Theme)
		return m, m.showToast("Theme " + m.theme.Mode)
	}
	return m, nil
}

// advance runs one step of the trace and logs what it produced.
func (m *Model) advance() {
	frame := trace.Step(m.state)
	m.frame = frame
	m.started = true
	m.logger.Debug("tick", "tick", frame.Tick, "t", frame.Time, "v", frame.Value, "buf", frame.BufferSize)
	if frame.Marker != nil {
		m.logger.Info("peak", "t", frame.Marker.Time, "v", frame.Marker.Value, "count", frame.PeakCount)
	}
}

func (m *Model) tickCmd() tea.Cmd {
	gen := m.gen
	interval := m.cfg.Interval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m *Model) showToast(text string) tea.Cmd {
	m.toast = text
	m.toastExpiry = time.Now().Add(2 * time.Second)
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return toastClearMsg{}
	})
}
