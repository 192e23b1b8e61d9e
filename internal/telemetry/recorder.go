package telemetry

import (
	"sync"
	"time"

	"github.com/adpena/heartscope/pkg/models"
)

// Snapshot summarises the latest frame. Tick counts completed ticks.
type Snapshot struct {
	StartedAt  time.Time    `json:"started_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	Tick       int          `json:"tick"`
	Ticks      int          `json:"ticks"`
	Time       float64      `json:"t"`
	Value      float64      `json:"v"`
	BufferSize int          `json:"buffer_size"`
	PeakCount  int          `json:"peak_count"`
	LastPeak   *models.Peak `json:"last_peak,omitempty"`
	Detector   string       `json:"detector"`
	Done       bool         `json:"done"`
}

// Recorder is a loop sink that publishes the latest frame summary to readers
// on other goroutines.
type Recorder struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

func NewRecorder() *Recorder {
	r := &Recorder{now: time.Now}
	r.snap.StartedAt = r.now()
	return r
}

func (r *Recorder) Render(frame models.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.UpdatedAt = r.now()
	r.snap.Tick = frame.Tick + 1
	if frame.Ticks > 0 && r.snap.Tick > frame.Ticks {
		r.snap.Tick = frame.Ticks
	}
	r.snap.Ticks = frame.Ticks
	r.snap.Time = frame.Time
	r.snap.Value = frame.Value
	r.snap.BufferSize = frame.BufferSize
	r.snap.PeakCount = frame.PeakCount
	r.snap.Detector = frame.Detector
	r.snap.Done = frame.Done
	if frame.LastPeak != nil {
		last := *frame.LastPeak
		r.snap.LastPeak = &last
	}
	return nil
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := r.snap
	if snap.LastPeak != nil {
		last := *snap.LastPeak
		snap.LastPeak = &last
	}
	return snap
}
