package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/adpena/heartscope/internal/config"
	"github.com/adpena/heartscope/internal/loop"
	"github.com/adpena/heartscope/pkg/models"
)

func TestRunHeadlessPrintsFrames(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Ticks = 40
	cfg.Threshold = 0.9
	var out, logs bytes.Buffer

	if err := runHeadless(context.Background(), cfg, loop.Immediate{}, &out, log.New(&logs)); err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 40 {
		t.Fatalf("expected 40 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "tick=0 t=0.000 ") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(out.String(), "peak=0.800/+0.9425") {
		t.Fatalf("expected peak line, got:\n%s", out.String())
	}
	if !strings.HasSuffix(lines[39], "done peaks=1") {
		t.Fatalf("unexpected last line %q", lines[39])
	}
	if !strings.Contains(logs.String(), "run complete") || !strings.Contains(logs.String(), "peak") {
		t.Fatalf("unexpected logs %q", logs.String())
	}
}

func TestRunHeadlessWithTelemetry(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Ticks = 10
	cfg.Every = 5
	cfg.TelemetryAddr = "127.0.0.1:0"
	var out, logs bytes.Buffer

	if err := runHeadless(context.Background(), cfg, loop.Immediate{}, &out, log.New(&logs)); err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected ticks 0, 5 and the final tick, got %q", out.String())
	}
	if !strings.Contains(logs.String(), "telemetry listening") {
		t.Fatalf("expected telemetry log, got %q", logs.String())
	}
}

func TestRunHeadlessInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, logs bytes.Buffer
	if err := runHeadless(ctx, config.DefaultConfig(), loop.Immediate{}, &out, log.New(&logs)); err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no frames, got %q", out.String())
	}
	if !strings.Contains(logs.String(), "interrupted") {
		t.Fatalf("expected interrupt log, got %q", logs.String())
	}
}

func TestRunHeadlessFeedsExtraSinks(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Ticks = 12
	var out, logs bytes.Buffer
	var frames, done int
	extra := loop.SinkFunc(func(frame models.Frame) error {
		frames++
		if frame.Done {
			done++
		}
		return nil
	})

	if err := runHeadless(context.Background(), cfg, loop.Immediate{}, &out, log.New(&logs), extra); err != nil {
		t.Fatalf("run: %v", err)
	}
	if frames != 12 || done != 1 {
		t.Fatalf("expected 12 frames with one final frame, got %d/%d", frames, done)
	}
}
