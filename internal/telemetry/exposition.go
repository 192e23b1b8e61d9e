package telemetry

import (
	"io"
	"math"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

const (
	MetricTicks      = "heartscope_ticks_total"
	MetricSimTime    = "heartscope_simulated_seconds"
	MetricValue      = "heartscope_signal_value"
	MetricBuffer     = "heartscope_buffer_samples"
	MetricPeaks      = "heartscope_peaks_total"
	MetricLastPeak   = "heartscope_last_peak_value"
	MetricRefractory = "heartscope_detector_refractory"
	MetricDone       = "heartscope_done"
)

// Families converts a snapshot into Prometheus metric families.
func Families(snap Snapshot) []*dto.MetricFamily {
	lastPeak := math.NaN()
	if snap.LastPeak != nil {
		lastPeak = snap.LastPeak.Value
	}
	return []*dto.MetricFamily{
		counter(MetricTicks, "Completed loop ticks", float64(snap.Tick)),
		gauge(MetricSimTime, "Simulated time of the latest sample", snap.Time),
		gauge(MetricValue, "Latest sample value", snap.Value),
		gauge(MetricBuffer, "Samples held in the rolling window", float64(snap.BufferSize)),
		counter(MetricPeaks, "Accepted peaks", float64(snap.PeakCount)),
		gauge(MetricLastPeak, "Value of the last accepted peak", lastPeak),
		gauge(MetricRefractory, "1 while the detector suppresses peaks", boolValue(snap.Detector == "refractory")),
		gauge(MetricDone, "1 once the tick budget is spent", boolValue(snap.Done)),
	}
}

func WriteText(w io.Writer, snap Snapshot) error {
	for _, family := range Families(snap) {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return err
		}
	}
	return nil
}

// Parse reads Prometheus text exposition into plain name/value pairs.
// Families with several series are summed.
func Parse(reader io.Reader) (map[string]float64, error) {
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(reader)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(families))
	for name, family := range families {
		total := 0.0
		for _, metric := range family.GetMetric() {
			switch family.GetType() {
			case dto.MetricType_COUNTER:
				total += metric.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				total += metric.GetGauge().GetValue()
			default:
				total += metric.GetUntyped().GetValue()
			}
		}
		out[name] = total
	}
	return out, nil
}

func gauge(name, help string, value float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{
			Gauge: &dto.Gauge{Value: proto.Float64(value)},
		}},
	}
}

func counter(name, help string, value float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{{
			Counter: &dto.Counter{Value: proto.Float64(value)},
		}},
	}
}

func boolValue(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
