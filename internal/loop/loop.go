package loop

import (
	"context"

	"github.com/adpena/heartscope/internal/trace"
	"github.com/adpena/heartscope/pkg/models"
)

// Sink draws frames. Errors stop the loop and are returned as is.
type Sink interface {
	Render(frame models.Frame) error
}

type SinkFunc func(frame models.Frame) error

func (f SinkFunc) Render(frame models.Frame) error {
	return f(frame)
}

// Run steps state once per tick of src until the tick budget is spent.
// It returns ctx.Err() when cancelled first.
func Run(ctx context.Context, src Source, state *trace.State, sink Sink) error {
	defer src.Stop()
	for !state.Done() {
		if err := src.Wait(ctx); err != nil {
			return err
		}
		frame := trace.Step(state)
		if err := sink.Render(frame); err != nil {
			return err
		}
	}
	return nil
}

// Fanout renders each frame to every sink in order.
func Fanout(sinks ...Sink) Sink {
	return SinkFunc(func(frame models.Frame) error {
		for _, sink := range sinks {
			if sink == nil {
				continue
			}
			if err := sink.Render(frame); err != nil {
				return err
			}
		}
		return nil
	})
}
