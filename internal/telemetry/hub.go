package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/adpena/heartscope/pkg/models"
)

// StreamMessage is the per-frame payload pushed to /stream subscribers.
type StreamMessage struct {
	Tick      int          `json:"tick"`
	Ticks     int          `json:"ticks"`
	Time      float64      `json:"t"`
	Value     float64      `json:"v"`
	Detector  string       `json:"detector"`
	Peak      *models.Peak `json:"peak,omitempty"`
	PeakCount int          `json:"peak_count"`
	Done      bool         `json:"done"`
}

func NewStreamMessage(frame models.Frame) StreamMessage {
	return StreamMessage{
		Tick:      frame.Tick,
		Ticks:     frame.Ticks,
		Time:      frame.Time,
		Value:     frame.Value,
		Detector:  frame.Detector,
		Peak:      frame.Marker,
		PeakCount: frame.PeakCount,
		Done:      frame.Done,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub is a loop sink that broadcasts every frame to websocket clients.
// A client that cannot keep up is dropped; the trace never waits on it.
type Hub struct {
	mu        sync.Mutex
	conns     map[*websocket.Conn]bool
	writeWait time.Duration
}

func NewHub() *Hub {
	return &Hub{
		conns:     make(map[*websocket.Conn]bool),
		writeWait: 200 * time.Millisecond,
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) Render(frame models.Frame) error {
	clients := h.snapshot()
	if len(clients) == 0 {
		return nil
	}
	payload, err := json.Marshal(NewStreamMessage(frame))
	if err != nil {
		return err
	}
	for _, c := range clients {
		_ = c.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(c)
			_ = c.Close()
		}
	}
	return nil
}

// Close disconnects every client. Hijacked connections survive
// http.Server.Shutdown, so the server calls this first.
func (h *Hub) Close() {
	for _, c := range h.snapshot() {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "trace stopped"),
			time.Now().Add(h.writeWait))
		h.remove(c)
		_ = c.Close()
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.add(conn)
	defer func() {
		h.remove(conn)
		_ = conn.Close()
	}()
	// Clients only listen; reading detects when they go away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = true
	h.mu.Unlock()
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

func (h *Hub) snapshot() []*websocket.Conn {
	h.mu.Lock()
	clients := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	return clients
}
