package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// Version is reported by every status; release builds set it with -ldflags.
var Version = "dev"

type Status struct {
	Healthy bool    `json:"healthy"`
	Status  string  `json:"status"`
	Version string  `json:"version,omitempty"`
	RunID   string  `json:"run_id,omitempty"`
	Message string  `json:"message,omitempty"`
	Tick    int     `json:"tick"`
	Ticks   int     `json:"ticks"`
	Uptime  float64 `json:"uptime_seconds"`
}

// Evaluate reports a run as stalled when no frame arrived within stale.
func Evaluate(tick, ticks int, done bool, startedAt, updatedAt, now time.Time, stale time.Duration) Status {
	status := Status{
		Healthy: true,
		Status:  "ok",
		Version: Version,
		Tick:    tick,
		Ticks:   ticks,
	}
	if !startedAt.IsZero() {
		status.Uptime = now.Sub(startedAt).Seconds()
	}
	switch {
	case done:
		status.Status = "done"
		status.Message = "animation complete"
	case updatedAt.IsZero():
		status.Status = "starting"
		status.Message = "waiting for the first tick"
	case stale > 0 && now.Sub(updatedAt) > stale:
		status.Healthy = false
		status.Status = "stalled"
		status.Message = "no tick since " + updatedAt.Format(time.RFC3339)
	}
	return status
}

func Handler(current func() Status) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status := current()
		w.Header().Set("Content-Type", "application/json")
		if !status.Healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(status)
	})
}
