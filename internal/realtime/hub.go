// Package realtime fans notifications and room events out to websocket
// clients.
package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/pkg/logger"
	"github.com/argvision/argvision-backend/pkg/metrics"
)

const (
	streamNotifications = "notifications"
	streamRooms         = "rooms"
)

// Hub tracks connected clients by user and by room.
type Hub struct {
	mu    sync.RWMutex
	users map[uuid.UUID]map[*Client]struct{}
	rooms map[string]map[*Client]struct{}

	logg    *logger.Logger
	metrics *metrics.Metrics
}

// NewHub returns an empty hub.
func NewHub(logg *logger.Logger, m *metrics.Metrics) *Hub {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Hub{
		users:   make(map[uuid.UUID]map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
		logg:    logg,
		metrics: m,
	}
}

// Register adds the client to its user stream or room.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.room == "" {
		set, ok := h.users[c.userID]
		if !ok {
			set = make(map[*Client]struct{})
			h.users[c.userID] = set
		}
		set[c] = struct{}{}
	} else {
		set, ok := h.rooms[c.room]
		if !ok {
			set = make(map[*Client]struct{})
			h.rooms[c.room] = set
		}
		set[c] = struct{}{}
	}
	h.metrics.AddRealtimeClients(c.stream(), 1)
}

// Unregister removes the client and closes its send queue. Calling it twice
// is harmless.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	removed := false
	if c.room == "" {
		if set, ok := h.users[c.userID]; ok {
			if _, present := set[c]; present {
				delete(set, c)
				removed = true
			}
			if len(set) == 0 {
				delete(h.users, c.userID)
			}
		}
	} else {
		if set, ok := h.rooms[c.room]; ok {
			if _, present := set[c]; present {
				delete(set, c)
				removed = true
			}
			if len(set) == 0 {
				delete(h.rooms, c.room)
			}
		}
	}
	h.mu.Unlock()

	if removed {
		h.metrics.AddRealtimeClients(c.stream(), -1)
	}
	c.closeSend()
}

// SendToUser queues payload on every notification socket of the user and
// returns how many clients accepted it.
func (h *Hub) SendToUser(userID uuid.UUID, payload []byte) int {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.users[userID]))
	for c := range h.users[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	return h.deliver(targets, payload)
}

// Broadcast queues payload on every socket joined to room.
func (h *Hub) Broadcast(room string, payload []byte) int {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	return h.deliver(targets, payload)
}

// UserClients reports the sockets open for a user.
func (h *Hub) UserClients(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// RoomClients reports the sockets joined to a room.
func (h *Hub) RoomClients(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	var all []*Client
	for _, set := range h.users {
		for c := range set {
			all = append(all, c)
		}
	}
	for _, set := range h.rooms {
		for c := range set {
			all = append(all, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range all {
		h.Unregister(c)
	}
}

// deliver never blocks; a client whose queue is full is disconnected.
func (h *Hub) deliver(targets []*Client, payload []byte) int {
	sent := 0
	for _, c := range targets {
		if c.enqueue(payload) {
			sent++
			continue
		}
		logCtx := h.logg.WithFields(context.Background(), map[string]any{
			"user_id": c.userID.String(),
			"room":    c.room,
		})
		h.logg.Warn(logCtx, "realtime client too slow; disconnecting")
		h.Unregister(c)
	}
	return sent
}
