package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"pantrypal"
)

const (
	pingInterval = 25 * time.Second
	writeTimeout = 5 * time.Second
	// sendBuffer is how many events a client may fall behind before it is dropped.
	sendBuffer = 64
)

// wsClient owns one connection. Only writeLoop writes to conn.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *wsClient) write(messageType int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(messageType, data)
}

// writeLoop delivers queued events and keep-alive pings until the client is closed.
func (c *wsClient) writeLoop(h *Hub) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				h.unregister(c)
				return
			}
		case <-t.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				h.unregister(c)
				return
			}
		}
	}
}

// Hub fans store events out to every connected websocket client. It is an EventLogger, so it
// can sit next to the file or stdout logger in a MultiEventLogger.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*wsClient]struct{}
	upgrader websocket.Upgrader
}

// NewHub accepts connections from allowOrigins ("*" allows any) and from clients that send
// no Origin header.
func NewHub(allowOrigins []string) *Hub {
	h := &Hub{clients: make(map[*wsClient]struct{})}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowOrigins, "*") || slices.Contains(allowOrigins, origin)
		},
	}
	return h
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	slog.Info("EVENTS: Client connected", "clients", n)
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	c.close()
	if ok {
		slog.Info("EVENTS: Client disconnected", "clients", n)
	}
}

// Clients returns the number of open connections.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// LogEvent queues the event as JSON for every client and never blocks. A client whose queue
// is full is dropped.
func (h *Hub) LogEvent(event pantrypal.StoreEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	var slow []*wsClient
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		slog.Warn("EVENTS: Dropping client that fell behind", "queued", sendBuffer)
		h.unregister(c)
	}
	return nil
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*wsClient]struct{})
	h.mu.Unlock()
	for c := range clients {
		c.close()
	}
}

// Serve upgrades the request and keeps the connection until the client goes away. Incoming
// messages are read and discarded.
func (h *Hub) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("EVENTS: Upgrade failed", "error", err)
		return
	}
	cl := newWSClient(conn)
	h.register(cl)
	go cl.writeLoop(h)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.unregister(cl)
			return
		}
	}
}
