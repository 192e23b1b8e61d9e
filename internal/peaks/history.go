package peaks

import "github.com/adpena/heartscope/pkg/models"

// History keeps the most recent accepted peaks for display.
type History struct {
	items []models.Peak
	size  int
}

func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{
		items: make([]models.Peak, 0, size),
		size:  size,
	}
}

func (h *History) Add(peak models.Peak) {
	if len(h.items) < h.size {
		h.items = append(h.items, peak)
		return
	}
	copy(h.items, h.items[1:])
	h.items[len(h.items)-1] = peak
}

func (h *History) Items() []models.Peak {
	out := make([]models.Peak, len(h.items))
	copy(out, h.items)
	return out
}

// Amplitudes returns peak values oldest first.
func (h *History) Amplitudes() []float64 {
	out := make([]float64, len(h.items))
	for i, p := range h.items {
		out[i] = p.Value
	}
	return out
}

// Intervals returns the gaps between consecutive peaks.
func (h *History) Intervals() []float64 {
	if len(h.items) < 2 {
		return nil
	}
	out := make([]float64, 0, len(h.items)-1)
	for i := 1; i < len(h.items); i++ {
		out = append(out, h.items[i].Time-h.items[i-1].Time)
	}
	return out
}

func (h *History) Clear() {
	h.items = h.items[:0]
}
