package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

var errHubStopped = errors.New("websocket hub is stopped")

// outbound is a serialized payload addressed to one circle
type outbound struct {
	circleID int64
	data     []byte
}

// Hub maintains the set of active clients per circle and fans messages out to them.
// The clients map is only mutated by the Run goroutine.
type Hub struct {
	clients map[int64]map[*Client]struct{}
	mu      sync.RWMutex // guards clients for ClientCount readers

	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		broadcast:  make(chan outbound, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled,
// then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.circleID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[client.circleID] = set
	}
	set[client] = struct{}{}

	h.logger.Info().
		Int64("circleID", client.circleID).
		Int64("userID", client.userID).
		Msg("Client registered")
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	set, ok := h.clients[client.circleID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.circleID)
	}

	h.logger.Info().
		Int64("circleID", client.circleID).
		Int64("userID", client.userID).
		Msg("Client unregistered")
}

// fanOut queues data on every client of the circle. A client whose buffer is
// full is dropped.
func (h *Hub) fanOut(msg outbound) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.clients[msg.circleID]
	for client := range set {
		select {
		case client.send <- msg.data:
		default:
			h.logger.Warn().
				Int64("circleID", msg.circleID).
				Int64("userID", client.userID).
				Msg("Dropping slow client")
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for client := range set {
			h.removeLocked(client)
		}
	}
}

// Publish serializes payload as JSON and broadcasts it to the circle's subscribers.
// It returns an error once the hub has stopped.
func (h *Hub) Publish(circleID int64, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal websocket payload: %w", err)
	}

	select {
	case <-h.done:
		return errHubStopped
	default:
	}

	select {
	case h.broadcast <- outbound{circleID: circleID, data: data}:
		return nil
	case <-h.done:
		return errHubStopped
	}
}

// ClientCount returns the number of connected clients for a circle
func (h *Hub) ClientCount(circleID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[circleID])
}

// Stopped is closed once Run has returned
func (h *Hub) Stopped() <-chan struct{} {
	return h.done
}
