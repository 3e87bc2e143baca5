package availability

import (
	"sync"

	"github.com/gorilla/websocket"
)

type feedKey struct {
	RoomID int64
	Date   string
}

// Hub fans a room/day's refreshed projection out to websocket
// subscribers. Staleness between commit and broadcast is fine; the feed
// is a projection, never a lock.
type Hub struct {
	subscribers map[feedKey]map[*websocket.Conn]bool
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[feedKey]map[*websocket.Conn]bool),
	}
}

func (h *Hub) Subscribe(roomID int64, date string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	key := feedKey{RoomID: roomID, Date: date}
	if h.subscribers[key] == nil {
		h.subscribers[key] = make(map[*websocket.Conn]bool)
	}
	h.subscribers[key][conn] = true
}

func (h *Hub) Unsubscribe(roomID int64, date string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	key := feedKey{RoomID: roomID, Date: date}
	if conns, exists := h.subscribers[key]; exists {
		_ = conn.Close()
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.subscribers, key)
		}
	}
}

func (h *Hub) Broadcast(roomID int64, date string, payload interface{}) {
	h.mutex.RLock()
	conns := make([]*websocket.Conn, 0)
	for conn := range h.subscribers[feedKey{RoomID: roomID, Date: date}] {
		conns = append(conns, conn)
	}
	h.mutex.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(payload); err != nil {
			h.Unsubscribe(roomID, date, conn)
		}
	}
}

func (h *Hub) SubscriberCount(roomID int64, date string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.subscribers[feedKey{RoomID: roomID, Date: date}])
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for key, conns := range h.subscribers {
		for conn := range conns {
			_ = conn.Close()
		}
		delete(h.subscribers, key)
	}
}
