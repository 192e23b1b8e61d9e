package signal

import "math"

// Func maps simulated time to a sample value.
type Func func(t float64) float64

// Heartbeat is sin(t) + sin(3t)/3. Its extrema sit at π/4 and 3π/4 (mod 2π)
// with magnitude 2√2/3 ≈ 0.943.
func Heartbeat(t float64) float64 {
	return math.Sin(t) + math.Sin(3*t)/3
}

// HeartbeatPeak is the largest value Heartbeat reaches.
var HeartbeatPeak = 2 * math.Sqrt2 / 3
