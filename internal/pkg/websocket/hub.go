// Package websocket delivers notifications to connected users in real time.
// The hub keeps one client set per user; the notification service pushes
// payloads through it as they are emitted.
package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Hub maintains the set of active clients keyed by user ID
type Hub struct {
	clients    map[int64]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	deliver    chan delivery

	mu     sync.RWMutex
	logger zerolog.Logger
}

type delivery struct {
	userID  int64
	payload []byte
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, 64),
		logger:     logger,
	}
}

// Run handles client registrations and deliveries until the process exits
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case d := <-h.deliver:
			h.deliverToUser(d)
		}
	}
}

// Push serializes the payload and queues it for every open connection the
// user has. It implements the notification service's Pusher and never
// blocks the caller: delivery is best effort.
func (h *Hub) Push(userID int64, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to marshal push payload")
		return
	}
	select {
	case h.deliver <- delivery{userID: userID, payload: data}:
	default:
		h.logger.Warn().Int64("userID", userID).Msg("Push queue full, dropping payload")
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Notification feed connected")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[client.userID]; ok {
		if _, ok := conns[client]; ok {
			delete(conns, client)
			close(client.send)
			if len(conns) == 0 {
				delete(h.clients, client.userID)
			}
			h.logger.Info().Int64("userID", client.userID).Msg("Notification feed disconnected")
		}
	}
}

func (h *Hub) deliverToUser(d delivery) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[d.userID] {
		select {
		case client.send <- d.payload:
		default:
			// Slow consumer; the notification is still readable via the list
			h.logger.Warn().Int64("userID", d.userID).Msg("Client send buffer full, dropping payload")
		}
	}
}

// ConnectedUsers returns the number of users with at least one open feed
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
