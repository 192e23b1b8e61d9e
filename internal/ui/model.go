package ui

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/adpena/heartscope/internal/config"
	"github.com/adpena/heartscope/internal/signal"
	"github.com/adpena/heartscope/internal/theme"
	"github.com/adpena/heartscope/internal/trace"
	"github.com/adpena/heartscope/pkg/models"
)

// Model is the interactive scope. It owns the trace state and advances it
// once per tick message.
type Model struct {
	cfg    config.Config
	state  *trace.State
	logger *log.Logger

	width  int
	height int

	theme    theme.Theme
	keymap   keyMap
	help     help.Model
	showHelp bool

	// gen invalidates tick chains scheduled before the last resume.
	gen     int
	paused  bool
	started bool
	frame   models.Frame

	startedAt  time.Time
	finishedAt time.Time

	toast       string
	toastExpiry time.Time

	spinner spinner.Model

	safeTop int
}

type Option func(*Model)

// WithLogger routes peak and lifecycle logs to logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithSignal replaces the waveform. Only tests use it.
func WithSignal(gen signal.Func) Option {
	return func(m *Model) {
		m.state = trace.NewState(m.cfg.Params(), gen)
	}
}

func NewModel(cfg config.Config, opts ...Option) *Model {
	resolved := theme.Resolve(cfg.Theme)
	model := &Model{
		cfg:     cfg,
		state:   trace.NewState(cfg.Params(), signal.Heartbeat),
		logger:  log.New(io.Discard),
		theme:   resolved,
		keymap:  newKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(resolved.Palette.Trace))),
		safeTop: safeTopPadding(),
	}
	for _, opt := range opts {
		opt(model)
	}
	return model
}

func (m *Model) Init() tea.Cmd {
	m.startedAt = time.Now()
	m.logger.Info("scope started",
		"window", m.cfg.Window,
		"step", m.cfg.Step,
		"interval", m.cfg.Interval,
		"ticks", m.cfg.Ticks,
		"threshold", m.cfg.Threshold,
		"refractory", m.cfg.Refractory,
	)
	return tea.Batch(m.spinner.Tick, m.tickCmd())
}

// Frame is the most recently drawn frame.
func (m *Model) Frame() models.Frame {
	return m.frame
}

func (m *Model) Done() bool {
	return m.started && m.frame.Done
}

func safeTopPadding() int {
	if val := strings.TrimSpace(os.Getenv("HEARTSCOPE_SAFE_TOP")); val != "" {
		return parseSafeTop(val)
	}
	termProgram := strings.ToLower(os.Getenv("TERM_PROGRAM"))
	if termProgram == "iterm.app" && os.Getenv("ITERM_SESSION_ID") != "" {
		return 1
	}
	if termProgram == "ghostty" {
		return 1
	}
	return 0
}

func parseSafeTop(val string) int {
	val = strings.ToLower(strings.TrimSpace(val))
	switch val {
	case "1", "true", "yes", "y", "on":
		return 1
	case "0", "false", "no", "n", "off":
		return 0
	}
	if parsed, err := strconv.Atoi(val); err == nil {
		if parsed < 0 {
			return 0
		}
		return parsed
	}
	return 0
}
