package render

import (
	"fmt"
	"io"

	"github.com/adpena/heartscope/pkg/models"
)

// Plain writes one line per frame:
//
//	tick=12 t=0.600 v=+0.8765 buf=13 state=armed
//	tick=17 t=0.850 v=+0.9372 buf=18 state=refractory peak=0.800/+0.9425
type Plain struct {
	w     io.Writer
	Every int
}

func NewPlain(w io.Writer, every int) *Plain {
	if every < 1 {
		every = 1
	}
	return &Plain{w: w, Every: every}
}

func (p *Plain) Render(frame models.Frame) error {
	if frame.Marker == nil && !frame.Done && frame.Tick%p.Every != 0 {
		return nil
	}
	line := fmt.Sprintf("tick=%d t=%.3f v=%+.4f buf=%d state=%s", frame.Tick, frame.Time, frame.Value, frame.BufferSize, frame.Detector)
	if frame.Marker != nil {
		line += fmt.Sprintf(" peak=%.3f/%+.4f", frame.Marker.Time, frame.Marker.Value)
	}
	if frame.Done {
		line += fmt.Sprintf(" done peaks=%d", frame.PeakCount)
	}
	_, err := fmt.Fprintln(p.w, line)
	return err
}
