package ws

import (
	"encoding/json"
	"sync"

	"github.com/exmatch/exchange/internal/api/logger"
	"github.com/exmatch/exchange/internal/stream"
	"github.com/exmatch/exchange/internal/types"
)

// Hub fans order and trade events out to connected websocket clients. It
// implements stream.Publisher; publishing never blocks the matching path.
// Clients that cannot keep up with the event rate are disconnected.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	mu      sync.Mutex
	clients map[*Client]struct{}
	closed  bool
}

// NewHub creates a hub. Run must be started in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
	}
}

// Run processes registration and broadcast events until Close is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			logger.Info("websocket client connected", map[string]interface{}{
				"remote_addr": client.conn.RemoteAddr().String(),
			})

		case client := <-h.unregister:
			h.drop(client)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, cut it loose.
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) PublishOrder(order *types.Order) {
	h.publish(stream.Event{Type: stream.EventOrderUpdate, Data: order})
}

func (h *Hub) PublishTrade(trade *types.Trade) {
	h.publish(stream.Event{Type: stream.EventTradeUpdate, Data: trade})
}

func (h *Hub) publish(event stream.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal event", map[string]interface{}{
			"error": err.Error(),
			"type":  event.Type,
		})
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		// Broadcast queue full; drop rather than stall the engine.
	}
}

// Close shuts the hub down and disconnects all clients.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	close(h.done)
	return nil
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}
