package api

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TicketEvent describes websocket payloads emitted as tickets are created.
type TicketEvent struct {
	Type      string     `json:"type"`
	Ticket    *TicketDTO `json:"ticket,omitempty"`
	BatchID   string     `json:"batch_id,omitempty"`
	Created   int        `json:"created,omitempty"`
	Failed    int        `json:"failed,omitempty"`
	Message   string     `json:"message,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// wsClient wraps a websocket connection with write locking.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// TicketNotifier tracks active websocket clients and broadcasts ticket events.
type TicketNotifier struct {
	mu        sync.Mutex
	clients   map[*wsClient]struct{}
	lastEvent *TicketEvent
}

// NewTicketNotifier constructs a notifier instance.
func NewTicketNotifier() *TicketNotifier {
	return &TicketNotifier{clients: make(map[*wsClient]struct{})}
}

// Register attaches a websocket connection and returns a client handle. The
// most recent event is replayed so late subscribers see current state.
func (n *TicketNotifier) Register(conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn}
	n.mu.Lock()
	n.clients[client] = struct{}{}
	last := n.lastEvent
	n.mu.Unlock()

	if last != nil {
		_ = client.writeJSON(*last)
	}
	return client
}

// Unregister removes the websocket client and closes the socket.
func (n *TicketNotifier) Unregister(client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	delete(n.clients, client)
	n.mu.Unlock()
	_ = client.conn.Close()
}

// Broadcast sends the event to all registered websocket clients, dropping
// clients whose writes fail.
func (n *TicketNotifier) Broadcast(event TicketEvent) {
	event.Timestamp = time.Now().UTC()

	n.mu.Lock()
	n.lastEvent = &event
	for client := range n.clients {
		if err := client.writeJSON(event); err != nil {
			delete(n.clients, client)
			_ = client.conn.Close()
		}
	}
	n.mu.Unlock()
}

func (c *wsClient) writeJSON(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(payload)
}
