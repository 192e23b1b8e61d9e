package window

import "github.com/adpena/heartscope/pkg/models"

// Buffer is a growable ring of samples ordered oldest to newest.
type Buffer struct {
	samples []models.Sample
	start   int
	count   int
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		samples: make([]models.Sample, capacity),
	}
}

// CapacityFor sizes a buffer for span/step samples plus slack.
func CapacityFor(span, step float64) int {
	if step <= 0 || span <= 0 {
		return 1
	}
	return int(span/step) + 4
}

func (b *Buffer) Capacity() int {
	return len(b.samples)
}

func (b *Buffer) Len() int {
	return b.count
}

func (b *Buffer) Append(sample models.Sample) {
	if b.count == len(b.samples) {
		b.grow()
	}
	idx := (b.start + b.count) % len(b.samples)
	b.samples[idx] = sample
	b.count++
}

func (b *Buffer) grow() {
	size := len(b.samples) * 2
	if size < 4 {
		size = 4
	}
	next := make([]models.Sample, size)
	for i := 0; i < b.count; i++ {
		next[i] = b.samples[(b.start+i)%len(b.samples)]
	}
	b.samples = next
	b.start = 0
}

// Trim drops samples older than now-span from the front.
func (b *Buffer) Trim(now, span float64) int {
	cutoff := now - span
	dropped := 0
	for b.count > 0 && b.samples[b.start].Time < cutoff {
		b.samples[b.start] = models.Sample{}
		b.start = (b.start + 1) % len(b.samples)
		b.count--
		dropped++
	}
	if b.count == 0 {
		b.start = 0
	}
	return dropped
}

// At indexes from the front; negative values count back from the newest sample.
func (b *Buffer) At(i int) (models.Sample, bool) {
	if i < 0 {
		i += b.count
	}
	if i < 0 || i >= b.count {
		return models.Sample{}, false
	}
	return b.samples[(b.start+i)%len(b.samples)], true
}

func (b *Buffer) Front() (models.Sample, bool) {
	return b.At(0)
}

func (b *Buffer) Latest() (models.Sample, bool) {
	return b.At(-1)
}

func (b *Buffer) Values() []models.Sample {
	if b.count == 0 {
		return nil
	}
	out := make([]models.Sample, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.samples[(b.start+i)%len(b.samples)]
	}
	return out
}

func (b *Buffer) Clear() {
	for i := range b.samples {
		b.samples[i] = models.Sample{}
	}
	b.start = 0
	b.count = 0
}
