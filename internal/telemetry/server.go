package telemetry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/adpena/heartscope/internal/health"
)

type Server struct {
	Listener   net.Listener
	HTTPServer *http.Server
	Hub        *Hub
	RunID      string
	BaseURL    string
	MetricsURL string
	HealthURL  string
	StreamURL  string
	recorder   *Recorder
	stale      time.Duration
	accessLog  io.Writer
}

type Option func(*Server)

// WithAccessLog writes one combined-log line per request to w.
func WithAccessLog(w io.Writer) Option {
	return func(s *Server) {
		s.accessLog = w
	}
}

// Listen binds addr and prepares the handlers; Serve starts answering.
func Listen(addr string, recorder *Recorder, stale time.Duration, opts ...Option) (*Server, error) {
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("telemetry listen: %w", err)
	}
	host := listener.Addr().String()
	baseURL := "http://" + host
	server := &Server{
		Listener:   listener,
		Hub:        NewHub(),
		RunID:      uuid.NewString(),
		BaseURL:    baseURL,
		MetricsURL: baseURL + "/metrics",
		HealthURL:  baseURL + "/healthz",
		StreamURL:  "ws://" + host + "/stream",
		recorder:   recorder,
		stale:      stale,
	}
	for _, opt := range opts {
		opt(server)
	}

	router := mux.NewRouter()
	router.HandleFunc("/metrics", server.handleMetrics).Methods(http.MethodGet)
	router.Handle("/healthz", health.Handler(server.health)).Methods(http.MethodGet)
	router.Handle("/health", health.Handler(server.health)).Methods(http.MethodGet)
	router.Handle("/stream", server.Hub).Methods(http.MethodGet)

	var handler http.Handler = router
	if server.accessLog != nil {
		handler = handlers.LoggingHandler(server.accessLog, router)
	}
	server.HTTPServer = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server, nil
}

// Serve blocks until Close is called.
func (s *Server) Serve() error {
	err := s.HTTPServer.Serve(s.Listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	s.Hub.Close()
	return s.HTTPServer.Shutdown(ctx)
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := WriteText(&buf, s.recorder.Snapshot()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) health() health.Status {
	snap := s.recorder.Snapshot()
	status := health.Evaluate(snap.Tick, snap.Ticks, snap.Done, snap.StartedAt, snap.UpdatedAt, time.Now(), s.stale)
	status.RunID = s.RunID
	return status
}
