package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/adpena/heartscope/internal/charts"
	"github.com/adpena/heartscope/internal/flags"
	"github.com/adpena/heartscope/internal/peaks"
)

const (
	axisLabelWidth = 5
	yAxisTitle     = "Voltage (mV)"
	xAxisTitle     = "Time (s)"
)

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	top := m.renderStatusBar()
	bottom := m.renderFooter()
	mainHeight := m.height - m.safeTop - lipgloss.Height(top) - lipgloss.Height(bottom)
	if mainHeight < 8 {
		mainHeight = 8
	}
	main := m.renderMain(mainHeight)
	view := lipgloss.JoinVertical(lipgloss.Left, top, main, bottom)
	if m.safeTop > 0 {
		view = strings.Repeat("\n", m.safeTop) + view
	}
	return view
}

func (m *Model) renderHelp() string {
	content := m.help.FullHelpView(m.keymap.FullHelp())
	width := maxInt(20, minInt(60, m.width-4))
	card := m.theme.Styles.Card.Width(width).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

func (m *Model) renderStatusBar() string {
	state, badge := m.detectorBadge()
	parts := []string{
		m.theme.Styles.Title.Render("heartscope"),
		badge.Render(state),
	}
	if m.paused {
		parts = append(parts, m.theme.Styles.Badge.Render("PAUSED"))
	}
	progress := fmt.Sprintf("tick %d", m.completedTicks())
	if m.cfg.Ticks > 0 {
		progress = fmt.Sprintf("tick %d/%d", m.completedTicks(), m.cfg.Ticks)
	}
	parts = append(parts, m.theme.Styles.Muted.Render(progress))
	if m.started {
		parts = append(parts,
			m.theme.Styles.Muted.Render("t "+formatSeconds(m.frame.Time)),
			m.theme.Styles.Muted.Render("v "+formatSigned(m.frame.Value)),
		)
	}
	if m.Done() && !m.finishedAt.IsZero() {
		parts = append(parts, m.theme.Styles.Muted.Render("ran "+formatDuration(m.finishedAt.Sub(m.startedAt))))
	}
	line := strings.Join(parts, "  ")
	return m.theme.Styles.StatusBar.Width(m.width).Render(line)
}

func (m *Model) detectorBadge() (string, lipgloss.Style) {
	switch {
	case !m.started:
		return "WAITING", m.theme.Styles.Badge
	case m.frame.Done:
		return "DONE", m.theme.Styles.BadgeDone
	case m.frame.Detector == peaks.Refractory.String():
		return "REFRACTORY", m.theme.Styles.BadgeHold
	default:
		return "ARMED", m.theme.Styles.BadgeArmed
	}
}

func (m *Model) completedTicks() int {
	if !m.started {
		return 0
	}
	return m.frame.Tick + 1
}

func (m *Model) renderMain(height int) string {
	gap := 1
	plotW, sideW := m.columnWidths(gap)
	plot := m.renderPlot(plotW, height)
	if sideW == 0 {
		return plot
	}
	side := m.renderSidePane(sideW, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, plot, strings.Repeat(" ", gap), side)
}

func (m *Model) renderPlot(width, height int) string {
	inner := maxInt(12, width-4)
	canvasW := maxInt(4, inner-axisLabelWidth-1)
	canvasH := maxInt(3, height-4)

	value := "-"
	if m.started {
		value = formatSigned(m.frame.Value)
	}
	header := fmt.Sprintf("%s  %s", m.theme.Styles.CardTitle.Render("Heartbeat"), m.theme.Styles.Muted.Render(value))
	lines := []string{header, m.theme.Styles.Muted.Render(yAxisTitle)}

	if !m.started {
		lines = append(lines, "", "  "+m.spinner.View()+" "+m.theme.Styles.Muted.Render("Waiting for first sample..."))
		return m.theme.Styles.Card.Width(width).Height(height).Render(strings.Join(lines, "\n"))
	}

	frame := m.frame
	canvas := charts.Plot(frame.Samples, canvasW, canvasH, frame.XRange, frame.YRange)
	if frame.Marker != nil {
		canvas.Mark(frame.Marker.Time, frame.Marker.Value, frame.XRange, frame.YRange)
	}
	labels := map[int]string{}
	labels[0] = formatAxis(frame.YRange.Max)
	labels[canvas.Row(frame.YRange.Min, frame.YRange)] = formatAxis(frame.YRange.Min)
	if frame.YRange.Min < 0 && frame.YRange.Max > 0 {
		labels[canvas.Row(0, frame.YRange)] = "0"
	}
	rows := canvas.Rows(m.styleCell)
	for i, row := range rows {
		label := fmt.Sprintf("%*s", axisLabelWidth, labels[i])
		lines = append(lines, m.theme.Styles.Axis.Render(label+"┤")+row)
	}

	left := formatAxis(frame.XRange.Min)
	right := formatAxis(frame.XRange.Max)
	ticks := joinRight(left, right, canvasW)
	pad := strings.Repeat(" ", axisLabelWidth+1)
	lines = append(lines,
		pad+m.theme.Styles.Axis.Render(ticks),
		pad+m.theme.Styles.Muted.Render(center(xAxisTitle, canvasW)),
	)
	return m.theme.Styles.Card.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m *Model) styleCell(kind charts.Kind, text string) string {
	switch kind {
	case charts.KindGrid:
		return m.theme.Styles.Grid.Render(text)
	case charts.KindTrace:
		return m.theme.Styles.Trace.Render(text)
	case charts.KindMarker:
		return m.theme.Styles.Marker.Render(text)
	default:
		return text
	}
}

func (m *Model) renderSidePane(width, height int) string {
	inner := maxInt(10, width-4)
	detector := m.state.Detector
	history := m.state.History

	state := "-"
	lastPeak := "-"
	if m.started {
		state = m.frame.Detector
	}
	if m.frame.LastPeak != nil {
		lastPeak = fmt.Sprintf("%s %s", formatSeconds(m.frame.LastPeak.Time), formatSigned(m.frame.LastPeak.Value))
	}

	lines := []string{
		m.theme.Styles.CardTitle.Render("Detector"),
		m.labelValue("State", state),
		m.labelValue("Threshold", formatSigned(detector.Threshold)),
		m.labelValue("Refractory", formatSeconds(detector.Refractory)),
		m.labelValue("Peaks", formatCount(m.frame.PeakCount)),
		m.labelValue("Last peak", lastPeak),
		m.labelValue("Rate", formatRate(mean(history.Intervals()))),
		m.theme.Styles.Muted.Render("Recovery"),
		m.theme.Styles.Trace.Render(charts.Meter(detector.Recovery(m.frame.Time), inner)),
		m.theme.Styles.Muted.Render("Amplitude"),
		m.theme.Styles.Marker.Render(charts.Bars(history.Amplitudes(), inner, 3, detector.Threshold, m.frame.YRange.Max)),
		m.theme.Styles.Muted.Render("Recent peaks"),
	}

	items := history.Items()
	room := height - lipgloss.Height(strings.Join(lines, "\n"))
	if len(items) == 0 {
		lines = append(lines, m.theme.Styles.Muted.Render("none yet"))
	}
	for i := len(items) - 1; i >= 0 && room > 0; i-- {
		peak := items[i]
		entry := fmt.Sprintf("%s %s", formatSeconds(peak.Time), formatSigned(peak.Value))
		lines = append(lines, truncate(entry, inner))
		room--
	}
	return m.theme.Styles.Card.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	help := m.help.ShortHelpView(m.keymap.ShortHelp())
	span := flags.Span(m.cfg.Window)
	parts := []string{
		m.theme.Styles.Muted.Render("window " + span.String()),
		m.theme.Styles.Muted.Render(fmt.Sprintf("dt %g", m.cfg.Step)),
		m.theme.Styles.Muted.Render("every " + formatDuration(m.cfg.Interval)),
	}
	if m.toast != "" && time.Now().Before(m.toastExpiry) {
		parts = append(parts, m.theme.Styles.Value.Render(m.toast))
	}
	right := strings.Join(parts, "  ")
	// KeyHint pads one cell on each side.
	line := joinRight(help, right, m.width-2)
	return m.theme.Styles.KeyHint.Width(m.width).Render(line)
}

func (m *Model) labelValue(label, value string) string {
	padded := fmt.Sprintf("%-11s", label)
	labelText := m.theme.Styles.Muted.Render(padded)
	if value == "-" {
		return fmt.Sprintf("%s %s", labelText, m.theme.Styles.Muted.Render(value))
	}
	return fmt.Sprintf("%s %s", labelText, m.theme.Styles.Value.Render(value))
}

func joinRight(left, right string, width int) string {
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	space := width - leftWidth - rightWidth
	if space < 1 {
		space = 1
	}
	return left + strings.Repeat(" ", space) + right
}

func center(text string, width int) string {
	pad := (width - lipgloss.Width(text)) / 2
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}

func truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if lipgloss.Width(text) <= max {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return string(runes)
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// columnWidths drops the side pane when the plot would get too narrow.
func (m *Model) columnWidths(gap int) (int, int) {
	side := clampInt(m.width/4, 26, 36)
	plot := m.width - side - gap
	if plot < 40 {
		return m.width, 0
	}
	return plot, side
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
