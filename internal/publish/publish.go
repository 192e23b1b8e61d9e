package publish

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/adpena/heartscope/pkg/models"
)

// WaveBatch is the number of samples packed into one wave message.
const WaveBatch = 10

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(
		url,
		nats.Name("heartscope"),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return conn, nil
}

// Sink publishes the trace under a subject prefix:
//
//	<prefix>.wave   little-endian float32 sample values, WaveBatch per message
//	<prefix>.peaks  one JSON models.Peak per accepted peak
//	<prefix>.done   JSON summary once the trace completes
type Sink struct {
	pub    Publisher
	prefix string
	batch  []float32
}

func NewSink(pub Publisher, prefix string) *Sink {
	if prefix == "" {
		prefix = "heartscope"
	}
	return &Sink{
		pub:    pub,
		prefix: prefix,
		batch:  make([]float32, 0, WaveBatch),
	}
}

func (s *Sink) WaveSubject() string { return s.prefix + ".wave" }
func (s *Sink) PeakSubject() string { return s.prefix + ".peaks" }
func (s *Sink) DoneSubject() string { return s.prefix + ".done" }

type summary struct {
	Ticks     int          `json:"ticks"`
	Time      float64      `json:"t"`
	PeakCount int          `json:"peak_count"`
	LastPeak  *models.Peak `json:"last_peak,omitempty"`
}

func (s *Sink) Render(frame models.Frame) error {
	s.batch = append(s.batch, float32(frame.Value))
	if len(s.batch) >= WaveBatch || frame.Done {
		if err := s.flush(); err != nil {
			return err
		}
	}
	if frame.Marker != nil {
		payload, err := json.Marshal(frame.Marker)
		if err != nil {
			return err
		}
		if err := s.pub.Publish(s.PeakSubject(), payload); err != nil {
			return fmt.Errorf("publish peak: %w", err)
		}
	}
	if frame.Done {
		payload, err := json.Marshal(summary{
			Ticks:     frame.Tick + 1,
			Time:      frame.Time,
			PeakCount: frame.PeakCount,
			LastPeak:  frame.LastPeak,
		})
		if err != nil {
			return err
		}
		if err := s.pub.Publish(s.DoneSubject(), payload); err != nil {
			return fmt.Errorf("publish done: %w", err)
		}
	}
	return nil
}

func (s *Sink) flush() error {
	out := EncodeWave(s.batch)
	s.batch = s.batch[:0]
	if err := s.pub.Publish(s.WaveSubject(), out); err != nil {
		return fmt.Errorf("publish wave: %w", err)
	}
	return nil
}

func EncodeWave(values []float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func DecodeWave(data []byte) []float32 {
	values := make([]float32, len(data)/4)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return values
}
