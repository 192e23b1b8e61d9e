package models

type Sample struct {
	Time  float64 `json:"t"`
	Value float64 `json:"v"`
}

type Peak struct {
	Time  float64 `json:"t"`
	Value float64 `json:"v"`
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Frame is everything a renderer needs to draw one tick.
type Frame struct {
	Tick    int      `json:"tick"`
	Ticks   int      `json:"ticks"`
	Time    float64  `json:"t"`
	Value   float64  `json:"v"`
	Samples []Sample `json:"samples"`
	// Marker is set only on the frame that accepted a peak.
	Marker     *Peak  `json:"marker,omitempty"`
	LastPeak   *Peak  `json:"last_peak,omitempty"`
	PeakCount  int    `json:"peak_count"`
	Detector   string `json:"detector"`
	XRange     Range  `json:"x_range"`
	YRange     Range  `json:"y_range"`
	Done       bool   `json:"done"`
	BufferSize int    `json:"buffer_size"`
}
