package trace

import (
	"github.com/adpena/heartscope/pkg/models"
)

// Step advances the state by one tick and returns the frame to draw.
// Once the tick budget is spent it returns the final frame with Done set
// and leaves the state untouched.
func Step(s *State) models.Frame {
	if s.Done() {
		return s.frame(s.Now()-s.Params.Step, nil)
	}
	t := s.Now()
	s.Buffer.Append(models.Sample{Time: t, Value: s.Gen(t)})
	s.Buffer.Trim(t, s.Params.Window)

	var marker *models.Peak
	if peak, ok := s.Detector.Observe(s.Buffer); ok {
		s.History.Add(peak)
		marker = &peak
	}
	frame := s.frame(t, marker)
	s.tick++
	frame.Done = s.Done()
	return frame
}

func (s *State) frame(t float64, marker *models.Peak) models.Frame {
	latest, _ := s.Buffer.Latest()
	frame := models.Frame{
		Tick:       s.tick,
		Ticks:      s.Params.Ticks,
		Time:       t,
		Value:      latest.Value,
		Samples:    s.Buffer.Values(),
		Marker:     marker,
		PeakCount:  s.Detector.Accepted(),
		Detector:   s.Detector.State(t).String(),
		XRange:     models.Range{Min: t - s.Params.Window, Max: t},
		YRange:     s.Params.YRange,
		Done:       s.Done(),
		BufferSize: s.Buffer.Len(),
	}
	if last, ok := s.Detector.Last(); ok {
		frame.LastPeak = &last
	}
	return frame
}
