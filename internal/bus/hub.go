// Package bus is an in-process tagged message hub.
//
// Every participant connects as a Client with a unique id. A client can
// address another client directly by id, or broadcast to every client that
// subscribed to the message tag. Delivery is in order per sender and
// receiver; a full inbox applies backpressure to the sender.
package bus

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// DefaultInboxSize is the inbox capacity used when Connect is given none.
const DefaultInboxSize = 64

// Message is a delivered bus message.
type Message struct {
	Sender  string
	Tag     string
	Content json.RawMessage
}

// Hub routes messages between connected clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Connect registers a new client with an inbox of the given capacity.
func (h *Hub) Connect(inbox int) *Client {
	if inbox <= 0 {
		inbox = DefaultInboxSize
	}

	c := &Client{
		id:    uuid.NewString(),
		hub:   h,
		inbox: make(chan Message, inbox),
		done:  make(chan struct{}),
		tags:  make(map[string]struct{}),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	return c
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Subscribers returns the number of clients subscribed to tag.
func (h *Hub) Subscribers(tag string) int {
	return len(h.subscribers(tag, ""))
}

func (h *Hub) lookup(id string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[id]
	return c, ok
}

func (h *Hub) subscribers(tag, except string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*Client
	for id, c := range h.clients {
		if id != except && c.subscribed(tag) {
			out = append(out, c)
		}
	}
	return out
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
}

func encode(content any) (json.RawMessage, error) {
	switch v := content.(type) {
	case json.RawMessage:
		if v == nil {
			return json.RawMessage("null"), nil
		}
		return v, nil
	default:
		data, err := json.Marshal(content)
		if err != nil {
			return nil, fmt.Errorf("bus: encode content: %w", err)
		}
		return data, nil
	}
}
