package ui

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

func formatSeconds(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "-"
	}
	return fmt.Sprintf("%.2fs", value)
}

func formatSigned(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "-"
	}
	return fmt.Sprintf("%+.3f", value)
}

// formatAxis drops trailing zeros so tick labels stay narrow.
func formatAxis(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "-"
	}
	if math.Abs(value) < 0.005 {
		return "0"
	}
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', -1, 64)
}

func formatCount(value int) string {
	if value < 0 {
		return "-"
	}
	switch {
	case value >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(value)/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("%.1fk", float64(value)/1_000)
	default:
		return fmt.Sprintf("%d", value)
	}
}

// formatRate renders beats per minute from a mean interval in seconds.
func formatRate(interval float64) string {
	if math.IsNaN(interval) || math.IsInf(interval, 0) || interval <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f bpm", 60/interval)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Truncate(time.Second).String()
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
