// Package preview mirrors an LED output to browsers over websockets.
package preview

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jwulff/ledstrip-go/internal/domain"
	"github.com/jwulff/ledstrip-go/internal/driver"
	"github.com/jwulff/ledstrip-go/internal/layout"
)

const writeTimeout = time.Second

// Frame is the message sent to clients for every shown buffer. Pixels are in
// canonical order as "#rrggbb".
type Frame struct {
	Seq     uint64   `json:"seq"`
	Rows    int      `json:"rows"`
	Columns int      `json:"columns"`
	Pixels  []string `json:"pixels"`
}

// Hub is an output that broadcasts frames to websocket clients.
type Hub struct {
	driver.Dimmer

	layout   layout.Layout
	log      zerolog.Logger
	upgrader websocket.Upgrader
	started  time.Time

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	seq     uint64
	last    []byte
	closed  bool
}

// NewHub creates a hub for layout l.
func NewHub(l layout.Layout, log zerolog.Logger) *Hub {
	return &Hub{
		layout:   l,
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		started:  time.Now(),
		clients:  map[*websocket.Conn]struct{}{},
	}
}

// Handler returns the HTTP routes: /frames (websocket) and /health.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/frames", h.HandleFrames)
	mux.HandleFunc("/health", h.HandleHealth)
	return mux
}

// HandleFrames upgrades the request and registers the client. The latest
// frame is sent right away.
func (h *Hub) HandleFrames(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[conn] = struct{}{}
	if h.last != nil {
		h.write(conn, h.last)
	}
	h.mu.Unlock()
	h.log.Debug().Str("remote", r.RemoteAddr).Msg("preview client connected")

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleHealth reports the hub state as JSON.
func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	resp := map[string]any{
		"frames":   h.seq,
		"clients":  len(h.clients),
		"layout":   h.layout.String(),
		"uptime_s": time.Since(h.started).Seconds(),
	}
	h.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Show broadcasts pixels to every client.
func (h *Hub) Show(pixels domain.Buffer) error {
	b := h.Brightness()
	out := make([]string, h.layout.Size())
	for i := range out {
		var p domain.Pixel
		if i < len(pixels) {
			p = pixels[i].Dim(b)
		}
		out[i] = p.String()
	}
	return h.broadcast(out)
}

// Shutdown broadcasts a black frame.
func (h *Hub) Shutdown() error {
	return h.Show(nil)
}

func (h *Hub) broadcast(pixels []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return driver.ErrClosed
	}

	h.seq++
	msg, err := json.Marshal(Frame{Seq: h.seq, Rows: h.layout.Rows, Columns: h.layout.Columns, Pixels: pixels})
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}
	h.last = msg
	for conn := range h.clients {
		h.write(conn, msg)
	}
	return nil
}

// write must be called with h.mu held. Clients that cannot keep up are
// disconnected.
func (h *Hub) write(conn *websocket.Conn, msg []byte) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		h.log.Debug().Err(err).Msg("dropping preview client")
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Close disconnects every client.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
	return nil
}

var _ driver.Driver = (*Hub)(nil)
