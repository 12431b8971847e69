package payments

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/julienv/daygate/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub broadcasts settled transactions to websocket subscribers.
type Hub struct {
	logger  *logger.Logger
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewHub creates an empty hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		logger:  log.WithField("module", "payments_stream"),
		clients: make(map[*websocket.Conn]bool),
	}
}

// Handle upgrades the request and keeps the connection registered until
// the client goes away.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.WithField("subscribers", count).Debug("Analytics subscriber connected")

	// Read loop exists only to observe the close.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish sends tx to every subscriber. Dead connections are dropped.
func (h *Hub) Publish(tx Transaction) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(tx); err != nil {
			h.drop(conn)
		}
	}
}

// Close disconnects all subscribers.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[conn] {
		delete(h.clients, conn)
		_ = conn.Close()
	}
	h.mu.Unlock()
}
