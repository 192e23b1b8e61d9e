package window

import (
	"math"
	"testing"

	"github.com/adpena/heartscope/pkg/models"
)

func TestBufferAppendAndGrow(t *testing.T) {
	buf := NewBuffer(2)
	for i := 0; i < 10; i++ {
		buf.Append(sampleAt(float64(i), float64(i*10)))
	}
	if buf.Len() != 10 {
		t.Fatalf("expected 10 samples, got %d", buf.Len())
	}
	if buf.Capacity() < 10 {
		t.Fatalf("expected capacity to grow, got %d", buf.Capacity())
	}
	values := buf.Values()
	for i, s := range values {
		if s.Time != float64(i) {
			t.Fatalf("unexpected order: %#v", values)
		}
	}
}

func TestBufferTrim(t *testing.T) {
	buf := NewBuffer(4)
	for i := 0; i < 6; i++ {
		buf.Append(sampleAt(float64(i), 0))
	}
	dropped := buf.Trim(5, 2)
	if dropped != 3 {
		t.Fatalf("expected 3 dropped, got %d", dropped)
	}
	front, ok := buf.Front()
	if !ok || front.Time != 3 {
		t.Fatalf("expected front at t=3, got %#v", front)
	}
	// wrap the ring after trimming
	buf.Append(sampleAt(6, 0))
	buf.Append(sampleAt(7, 0))
	values := buf.Values()
	if len(values) != 5 || values[0].Time != 3 || values[4].Time != 7 {
		t.Fatalf("unexpected values after wrap: %#v", values)
	}
}

func TestBufferTrimEmpty(t *testing.T) {
	buf := NewBuffer(1)
	if dropped := buf.Trim(100, 1); dropped != 0 {
		t.Fatalf("expected no-op on empty buffer, got %d", dropped)
	}
	if _, ok := buf.Latest(); ok {
		t.Fatalf("expected no latest sample")
	}
	if buf.Values() != nil {
		t.Fatalf("expected nil values")
	}
}

func TestBufferTrimKeepsBoundary(t *testing.T) {
	buf := NewBuffer(4)
	buf.Append(sampleAt(1, 0))
	buf.Append(sampleAt(2, 0))
	buf.Trim(3, 2)
	if buf.Len() != 2 {
		t.Fatalf("expected sample at exactly now-span to stay, got %d", buf.Len())
	}
}

func TestBufferAtNegative(t *testing.T) {
	buf := NewBuffer(3)
	buf.Append(sampleAt(1, 10))
	buf.Append(sampleAt(2, 20))
	buf.Append(sampleAt(3, 30))
	buf.Append(sampleAt(4, 40))
	buf.Trim(4, 2)
	s, ok := buf.At(-2)
	if !ok || s.Value != 30 {
		t.Fatalf("expected second newest 30, got %#v", s)
	}
	s, ok = buf.At(-3)
	if !ok || s.Value != 20 {
		t.Fatalf("expected third newest 20, got %#v", s)
	}
	if _, ok := buf.At(-4); ok {
		t.Fatalf("expected out of range")
	}
	if _, ok := buf.At(3); ok {
		t.Fatalf("expected out of range")
	}
}

func TestBufferWindowInvariant(t *testing.T) {
	span := 4 * math.Pi
	step := 0.05
	buf := NewBuffer(CapacityFor(span, step))
	capacity := buf.Capacity()
	for tick := 0; tick < 1000; tick++ {
		now := float64(tick) * step
		buf.Append(sampleAt(now, math.Sin(now)))
		buf.Trim(now, span)
		values := buf.Values()
		for i, s := range values {
			if s.Time < now-span {
				t.Fatalf("tick %d: sample %v older than window", tick, s.Time)
			}
			if i > 0 && s.Time < values[i-1].Time {
				t.Fatalf("tick %d: samples out of order", tick)
			}
		}
		if tick > 400 && (buf.Len() < 250 || buf.Len() > 253) {
			t.Fatalf("tick %d: expected ~251 samples, got %d", tick, buf.Len())
		}
	}
	if buf.Capacity() != capacity {
		t.Fatalf("expected no growth at steady state, got %d -> %d", capacity, buf.Capacity())
	}
}

func sampleAt(t, v float64) models.Sample {
	return models.Sample{Time: t, Value: v}
}
