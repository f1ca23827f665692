package handlers

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/buildsight/backend/internal/metrics"
	"github.com/buildsight/backend/internal/storage/models"
	"github.com/buildsight/backend/pkg/logger"
)

// wsWriter is the slice of *websocket.Conn the hub needs.
type wsWriter interface {
	WriteJSON(v interface{}) error
	Close() error
}

// feedClient serializes all writes to one connection. The websocket library
// forbids concurrent writers, and both the broadcast fan-out (request
// goroutines) and the read loop (ack messages) write here.
type feedClient struct {
	mu   sync.Mutex
	conn wsWriter
}

func (c *feedClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub fans freshly computed snapshots out to websocket subscribers. Each
// connection subscribes to one project id, or to every project with an empty
// id.
type Hub struct {
	mu   sync.RWMutex
	subs map[*feedClient]string
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*feedClient]string)}
}

// Broadcast implements analytics.Broadcaster. Write failures drop the
// subscriber.
func (h *Hub) Broadcast(snap *models.AnalyticsSnapshot) {
	h.mu.RLock()
	targets := make([]*feedClient, 0, len(h.subs))
	for cl, projectID := range h.subs {
		if projectID == "" || projectID == snap.ProjectID {
			targets = append(targets, cl)
		}
	}
	h.mu.RUnlock()

	msg := map[string]interface{}{
		"type":     "snapshot",
		"snapshot": snap,
	}

	for _, cl := range targets {
		if err := cl.writeJSON(msg); err != nil {
			logger.Warn("Failed to push snapshot to subscriber", zap.Error(err))
			h.unsubscribe(cl)
			cl.conn.Close()
		}
	}
}

func (h *Hub) subscribe(cl *feedClient, projectID string) {
	h.mu.Lock()
	_, existed := h.subs[cl]
	h.subs[cl] = projectID
	h.mu.Unlock()
	if !existed {
		metrics.WebSocketSubscribers.Inc()
	}
}

func (h *Hub) unsubscribe(cl *feedClient) {
	h.mu.Lock()
	_, existed := h.subs[cl]
	delete(h.subs, cl)
	h.mu.Unlock()
	if existed {
		metrics.WebSocketSubscribers.Dec()
	}
}

type WebSocketHandler struct {
	hub *Hub
}

func NewWebSocketHandler(hub *Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleConnection reads a subscribe message, registers the connection and
// keeps it open until the client disconnects.
func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("Analytics feed connection established")

	cl := &feedClient{conn: c}

	defer func() {
		h.hub.unsubscribe(cl)
		c.Close()
		logger.Info("Analytics feed connection closed")
	}()

	for {
		var msg struct {
			Type      string `json:"type"`
			ProjectID string `json:"project_id"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			break
		}

		switch msg.Type {
		case "subscribe":
			h.hub.subscribe(cl, msg.ProjectID)
			cl.writeJSON(map[string]interface{}{
				"type":       "subscribed",
				"project_id": msg.ProjectID,
			})
		case "unsubscribe":
			h.hub.unsubscribe(cl)
			cl.writeJSON(map[string]interface{}{
				"type": "unsubscribed",
			})
		}
	}
}
