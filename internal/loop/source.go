package loop

import (
	"context"
	"time"
)

// Source paces the loop. Wait blocks until the next tick is due.
type Source interface {
	Wait(ctx context.Context) error
	Stop()
}

// Interval ticks on a fixed wall-clock cadence.
type Interval struct {
	ticker *time.Ticker
}

func NewInterval(every time.Duration) *Interval {
	if every <= 0 {
		every = 50 * time.Millisecond
	}
	return &Interval{ticker: time.NewTicker(every)}
}

func (i *Interval) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-i.ticker.C:
		return nil
	}
}

func (i *Interval) Stop() {
	i.ticker.Stop()
}

// Immediate never waits; it only honours cancellation.
type Immediate struct{}

func (Immediate) Wait(ctx context.Context) error {
	return ctx.Err()
}

func (Immediate) Stop() {}
