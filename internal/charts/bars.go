package charts

import (
	"math"
	"strings"
)

// Bars draws one column per value, scaled so floor is empty and ceil is full.
// Values are right-aligned so the newest sits at the right edge.
func Bars(values []float64, width, height int, floor, ceil float64) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	span := ceil - floor
	heights := make([]int, width)
	offset := width - len(values)
	for i, v := range values {
		if span <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		ratio := (v - floor) / span
		if ratio < 0 {
			ratio = 0
		}
		if ratio > 1 {
			ratio = 1
		}
		h := int(math.Round(ratio * float64(height)))
		if h == 0 && v > floor {
			h = 1
		}
		heights[offset+i] = h
	}
	lines := make([]string, 0, height)
	for row := height; row >= 1; row-- {
		line := make([]rune, width)
		for i, h := range heights {
			if h >= row {
				line[i] = '█'
			} else {
				line[i] = ' '
			}
		}
		lines = append(lines, string(line))
	}
	return strings.Join(lines, "\n")
}
