package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestEvaluate(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	status := Evaluate(0, 1000, false, base, time.Time{}, base.Add(time.Second), time.Second)
	if !status.Healthy || status.Status != "starting" {
		t.Fatalf("expected starting, got %+v", status)
	}

	status = Evaluate(10, 1000, false, base, base.Add(500*time.Millisecond), base.Add(time.Second), time.Second)
	if !status.Healthy || status.Status != "ok" || status.Uptime != 1 {
		t.Fatalf("expected ok, got %+v", status)
	}

	status = Evaluate(10, 1000, false, base, base, base.Add(5*time.Second), time.Second)
	if status.Healthy || status.Status != "stalled" {
		t.Fatalf("expected stalled, got %+v", status)
	}

	status = Evaluate(1000, 1000, true, base, base, base.Add(time.Hour), time.Second)
	if !status.Healthy || status.Status != "done" {
		t.Fatalf("expected done, got %+v", status)
	}
}

func TestHandler(t *testing.T) {
	server := httptest.NewServer(Handler(func() Status {
		return Status{Healthy: false, Status: "stalled", Tick: 3}
	}))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	var parsed Status
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if parsed.Status != "stalled" || parsed.Tick != 3 {
		t.Fatalf("unexpected payload: %+v", parsed)
	}
}
