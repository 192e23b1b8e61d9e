package peaks

import (
	"github.com/adpena/heartscope/internal/window"
	"github.com/adpena/heartscope/pkg/models"
)

const (
	DefaultThreshold  = 1.2
	DefaultRefractory = 3.0
)

type State int

const (
	Armed State = iota
	Refractory
)

func (s State) String() string {
	switch s {
	case Refractory:
		return "refractory"
	default:
		return "armed"
	}
}

// Detector accepts a three-sample strict local maximum above Threshold,
// at most once per Refractory interval.
type Detector struct {
	Threshold  float64
	Refractory float64

	last     models.Peak
	hasLast  bool
	accepted int
}

func NewDetector(threshold, refractory float64) *Detector {
	return &Detector{Threshold: threshold, Refractory: refractory}
}

// Observe checks the three newest samples of buf. The reported peak sits one
// sample behind the newest one.
func (d *Detector) Observe(buf *window.Buffer) (models.Peak, bool) {
	if buf == nil || buf.Len() < 3 {
		return models.Peak{}, false
	}
	prev, _ := buf.At(-3)
	mid, _ := buf.At(-2)
	next, _ := buf.At(-1)
	if !(mid.Value > prev.Value && mid.Value > next.Value) {
		return models.Peak{}, false
	}
	if !(mid.Value > d.Threshold) {
		return models.Peak{}, false
	}
	if d.hasLast && !(mid.Time-d.last.Time > d.Refractory) {
		return models.Peak{}, false
	}
	peak := models.Peak{Time: mid.Time, Value: mid.Value}
	d.last = peak
	d.hasLast = true
	d.accepted++
	return peak, true
}

func (d *Detector) State(now float64) State {
	if d.hasLast && now-d.last.Time <= d.Refractory {
		return Refractory
	}
	return Armed
}

// Recovery is the fraction of the refractory interval elapsed at now, in [0, 1].
func (d *Detector) Recovery(now float64) float64 {
	if !d.hasLast || d.Refractory <= 0 {
		return 1
	}
	ratio := (now - d.last.Time) / d.Refractory
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

func (d *Detector) Last() (models.Peak, bool) {
	return d.last, d.hasLast
}

func (d *Detector) Accepted() int {
	return d.accepted
}
