package flags

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Span is a positive float64 that also accepts multiples of pi, such as
// "4pi", "4π", "pi" or "0.5*pi".
type Span float64

var _ pflag.Value = (*Span)(nil)

// ParseSpan parses a plain number or a multiple of pi.
func ParseSpan(s string) (Span, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return 0, fmt.Errorf("invalid span: empty")
	}

	mult := 1.0
	for _, suffix := range []string{"π", "pi"} {
		if strings.HasSuffix(raw, suffix) {
			raw = strings.TrimSpace(strings.TrimSuffix(raw, suffix))
			raw = strings.TrimSpace(strings.TrimSuffix(raw, "*"))
			mult = math.Pi
			break
		}
	}

	coeff := 1.0
	if raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid span %q: %w", s, err)
		}
		coeff = v
	} else if mult == 1 {
		return 0, fmt.Errorf("invalid span %q", s)
	}

	v := coeff * mult
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("invalid span %q: must be positive", s)
	}
	return Span(v), nil
}

func (s *Span) Set(v string) error {
	parsed, err := ParseSpan(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// String prints multiples of pi back in pi notation.
func (s *Span) String() string {
	v := float64(*s)
	if v == 0 {
		return "0"
	}
	coeff := v / math.Pi
	if r := math.Round(coeff); r >= 1 && math.Abs(coeff-r) < 1e-9 {
		if r == 1 {
			return "pi"
		}
		return strconv.FormatFloat(r, 'f', -1, 64) + "pi"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s *Span) Float64() float64 {
	return float64(*s)
}

func (s *Span) Type() string {
	return "span"
}
