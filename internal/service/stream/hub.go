package stream

import "sync"

// sender is the subset of a WebSocket connection the hub writes through.
type sender interface {
	WriteJSON(v interface{}) error
}

// Hub fans simulator events out to subscribed connections. A subscriber may
// filter on a single scheme code; an empty filter receives everything.
type Hub struct {
	mu    sync.Mutex
	conns map[sender]string
}

func NewHub() *Hub {
	return &Hub{conns: make(map[sender]string)}
}

// Register adds a connection with an optional scheme-code filter.
func (h *Hub) Register(conn sender, schemeCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = schemeCode
}

// Unregister removes a connection.
func (h *Hub) Unregister(conn sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast sends ev to every connection whose filter matches schemeCode.
// Events with no scheme (market summaries) go to everyone. Write failures
// are ignored; the subscriber's own read loop notices the dead connection.
func (h *Hub) Broadcast(schemeCode string, ev event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, filter := range h.conns {
		if filter != "" && schemeCode != "" && filter != schemeCode {
			continue
		}
		_ = conn.WriteJSON(ev)
	}
}
