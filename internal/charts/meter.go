package charts

import (
	"math"
	"strings"
)

var meterEighths = []rune(" ▏▎▍▌▋▊▉")

// Meter renders ratio in [0, 1] as a bar with eighth-cell resolution.
func Meter(ratio float64, width int) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(ratio) || ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	eighths := int(math.Round(ratio * float64(width*8)))
	full := eighths / 8
	rest := eighths % 8
	var b strings.Builder
	b.WriteString(strings.Repeat("█", full))
	cells := full
	if rest > 0 && cells < width {
		b.WriteRune(meterEighths[rest])
		cells++
	}
	b.WriteString(strings.Repeat("░", width-cells))
	return b.String()
}
