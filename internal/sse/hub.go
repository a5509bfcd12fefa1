package sse

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
)

var ErrNoClients = errors.New("no connected clients")

// Event is a single Server-Sent Event.
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// WriteTo writes the event in text/event-stream framing.
func (e Event) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.EventType, e.Data)
	return int64(n), err
}

type Client struct {
	ID     string
	Events chan Event
}

func NewClient(id string, buffer int) *Client {
	return &Client{ID: id, Events: make(chan Event, buffer)}
}

// Hub fans events out to every connected client.
type Hub struct {
	log     *slog.Logger
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[string]*Client),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.log.Debug("sse client registered", slog.String("client", client.ID), slog.Int("total", len(h.clients)))
}

// Unregister removes the client and closes its channel. Unknown ids are ignored.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		h.log.Debug("sse client unregistered", slog.String("client", clientID), slog.Int("total", len(h.clients)))
	}
}

// Broadcast never blocks: a client with a full buffer misses the event.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			h.log.Warn("sse client buffer full, skipping event",
				slog.String("client", client.ID),
				slog.String("event", event.EventType),
			)
		}
	}
}

// Publish broadcasts and reports ErrNoClients when nobody is listening.
func (h *Hub) Publish(eventType, data string) error {
	if h.Count() == 0 {
		return ErrNoClients
	}

	h.Broadcast(Event{EventType: eventType, Data: data})
	return nil
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Flush pushes buffered bytes to the client when the writer supports it.
func Flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
