package cmd

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/adpena/heartscope/internal/loop"
	"github.com/adpena/heartscope/internal/telemetry"
	"github.com/adpena/heartscope/internal/trace"
	"github.com/adpena/heartscope/pkg/client"
	"github.com/adpena/heartscope/pkg/models"
)

func startTelemetry(t *testing.T, recorder *telemetry.Recorder, stale time.Duration) *telemetry.Server {
	t.Helper()
	server, err := telemetry.Listen("127.0.0.1:0", recorder, stale)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go server.Serve()
	t.Cleanup(func() { _ = server.Close(context.Background()) })
	return server
}

func TestProbeFinishedRun(t *testing.T) {
	recorder := telemetry.NewRecorder()
	server := startTelemetry(t, recorder, time.Minute)

	params := trace.DefaultParams()
	params.Ticks = 40
	params.Threshold = 0.9
	if err := loop.Run(context.Background(), loop.Immediate{}, trace.NewState(params, nil), recorder); err != nil {
		t.Fatalf("run: %v", err)
	}

	report, err := probe(context.Background(), client.New(client.Options{}), server.BaseURL+"/")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if !report.Health.Healthy || report.Health.Status != "done" {
		t.Fatalf("unexpected health: %+v", report.Health)
	}
	line := report.String()
	for _, want := range []string{"status=done", "run=" + server.RunID[:8], "tick=40/40", "peaks=1", "last_peak=+0.9425"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestProbeStalledRun(t *testing.T) {
	recorder := telemetry.NewRecorder()
	server := startTelemetry(t, recorder, time.Nanosecond)
	if err := recorder.Render(models.Frame{Tick: 2, Ticks: 10, Detector: "armed"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	report, err := probe(context.Background(), client.New(client.Options{}), server.BaseURL)
	if err != nil {
		t.Fatalf("probe should report a 503 body, got %v", err)
	}
	if report.Health.Healthy || report.Health.Status != "stalled" {
		t.Fatalf("unexpected health: %+v", report.Health)
	}
	line := report.String()
	if !strings.Contains(line, "tick=3/10") || strings.Contains(line, "last_peak") {
		t.Fatalf("unexpected summary %q", line)
	}
}

func TestProbeRequiresURL(t *testing.T) {
	if _, err := probe(context.Background(), client.New(client.Options{}), "  "); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestParseHeaders(t *testing.T) {
	headers := parseHeaders([]string{"X-Token: abc", "bad", ": empty", "X-Trace:1:2"})
	if len(headers) != 2 || headers["X-Token"] != "abc" || headers["X-Trace"] != "1:2" {
		t.Fatalf("unexpected headers: %v", headers)
	}
}
