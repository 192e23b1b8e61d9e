package trace

import (
	"math"

	"github.com/adpena/heartscope/internal/peaks"
	"github.com/adpena/heartscope/internal/signal"
	"github.com/adpena/heartscope/internal/window"
	"github.com/adpena/heartscope/pkg/models"
)

// Params are the fixed parameters of one run.
type Params struct {
	Window     float64
	Step       float64
	Ticks      int
	Threshold  float64
	Refractory float64
	YRange     models.Range
}

func DefaultParams() Params {
	return Params{
		Window:     4 * math.Pi,
		Step:       0.05,
		Ticks:      1000,
		Threshold:  peaks.DefaultThreshold,
		Refractory: peaks.DefaultRefractory,
		YRange:     models.Range{Min: -2, Max: 2},
	}
}

// State is owned by a single loop; nothing in it is safe for concurrent use.
type State struct {
	Params   Params
	Gen      signal.Func
	Buffer   *window.Buffer
	Detector *peaks.Detector
	History  *peaks.History

	tick int
}

func NewState(params Params, gen signal.Func) *State {
	if gen == nil {
		gen = signal.Heartbeat
	}
	return &State{
		Params:   params,
		Gen:      gen,
		Buffer:   window.NewBuffer(window.CapacityFor(params.Window, params.Step)),
		Detector: peaks.NewDetector(params.Threshold, params.Refractory),
		History:  peaks.NewHistory(32),
	}
}

// Tick is the number of completed steps.
func (s *State) Tick() int {
	return s.tick
}

// Now is the simulated time of the next step.
func (s *State) Now() float64 {
	return float64(s.tick) * s.Params.Step
}

func (s *State) Done() bool {
	return s.Params.Ticks > 0 && s.tick >= s.Params.Ticks
}
