package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetSendsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Probe") != "yes" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	body, err := New(Options{Headers: map[string]string{"X-Probe": "yes"}}).Get(context.Background(), server.URL)
	if err != nil || string(body) != "ok" {
		t.Fatalf("unexpected response %q %v", body, err)
	}
	_, err = New(Options{Timeout: time.Second}).Get(context.Background(), server.URL)
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401 status error, got %v", err)
	}
}

func TestGetKeepsBodyOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"stalled"}`))
	}))
	defer server.Close()

	body, err := New(Options{}).Get(context.Background(), server.URL)
	if !IsStatus(err, http.StatusServiceUnavailable) {
		t.Fatalf("expected 503, got %v", err)
	}
	if string(body) != `{"status":"stalled"}` {
		t.Fatalf("expected body to be kept, got %q", body)
	}
}

func TestIsStatus(t *testing.T) {
	wrapped := fmt.Errorf("probe: %w", StatusError{Code: 404})
	if !IsStatus(wrapped, 500, 404) {
		t.Fatalf("expected wrapped status to match")
	}
	if IsStatus(fmt.Errorf("other"), 404) || IsStatus(nil, 404) {
		t.Fatalf("unexpected match")
	}
}
