package websocket

import (
	"sync"
	"time"

	"galaxymath/models"
	"galaxymath/structs"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

// GamificationClient is one open progress socket. Messages queue on send and a
// single writer goroutine drains them, so a slow socket never stalls a publisher.
type GamificationClient struct {
	Conn   *websocket.Conn
	UserID string
	send   chan structs.Message
}

func NewGamificationClient(conn *websocket.Conn, userID string) *GamificationClient {
	return &GamificationClient{Conn: conn, UserID: userID, send: make(chan structs.Message, sendBuffer)}
}

// writePump writes queued messages until the hub closes send or a write fails
func (gc *GamificationClient) writePump() {
	defer gc.Conn.Close()
	for msg := range gc.send {
		_ = gc.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := gc.Conn.WriteJSON(msg); err != nil {
			return
		}
	}
	_ = gc.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = gc.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Hub fans progression events out to the sockets of the pilot they concern
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*GamificationClient]struct{}
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{clients: make(map[string]map[*GamificationClient]struct{}), logger: logger}
}

func (h *Hub) Register(client *GamificationClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.UserID]
	if !ok {
		set = make(map[*GamificationClient]struct{})
		h.clients[client.UserID] = set
	}
	set[client] = struct{}{}
	h.logger.Debug("progress client registered", zap.String("userId", client.UserID), zap.Int("connections", len(set)))
}

// Unregister removes client and stops its writer. It is safe to call more than once.
func (h *Hub) Unregister(client *GamificationClient) {
	h.mu.Lock()
	set, ok := h.clients[client.UserID]
	if ok {
		if _, present := set[client]; !present {
			ok = false
		}
		delete(set, client)
		if len(set) == 0 {
			delete(h.clients, client.UserID)
		}
		if ok {
			// sends happen under the read lock, so none can race this close
			close(client.send)
		}
	}
	h.mu.Unlock()

	if ok {
		h.logger.Debug("progress client unregistered", zap.String("userId", client.UserID))
	}
}

// Send queues msg for one client. It reports false when the client is gone or its queue is full.
func (h *Hub) Send(client *GamificationClient, msg structs.Message) bool {
	h.mu.RLock()
	_, registered := h.clients[client.UserID][client]
	queued := registered && enqueue(client, msg)
	h.mu.RUnlock()

	if registered && !queued {
		h.dropSlow(client)
	}
	return queued
}

// Publish queues event for every connection of event.UserID without waiting on any socket
func (h *Hub) Publish(event models.GamificationEvent) {
	msg := structs.Message{Type: event.Type, Data: event, Timestamp: event.Timestamp}

	var slow []*GamificationClient
	h.mu.RLock()
	for client := range h.clients[event.UserID] {
		if !enqueue(client, msg) {
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.dropSlow(client)
	}
}

func enqueue(client *GamificationClient, msg structs.Message) bool {
	select {
	case client.send <- msg:
		return true
	default:
		return false
	}
}

func (h *Hub) dropSlow(client *GamificationClient) {
	h.logger.Warn("dropping progress client with a full send queue", zap.String("userId", client.UserID))
	h.Unregister(client)
}

// ClientCount returns how many sockets are open for userID, or in total when userID is empty
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if userID != "" {
		return len(h.clients[userID])
	}
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}
