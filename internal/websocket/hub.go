package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

type userMessage struct {
	userID string
	data   []byte
}

// Hub maintains the set of connected clients and fans resource-change
// messages out to the sockets of the owning user. All map access
// happens on the Run goroutine.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Pending per-user messages.
	notify chan userMessage

	// A map of user IDs to the set of their connected clients.
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		notify:        make(chan userMessage, 64),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			if h.subscriptions[client.UserID] == nil {
				h.subscriptions[client.UserID] = make(map[*Client]bool)
			}
			h.subscriptions[client.UserID][client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Change feed client connected")

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Change feed client disconnected")
			}

		case msg := <-h.notify:
			for client := range h.subscriptions[msg.userID] {
				select {
				case client.Send <- msg.data:
				default:
					h.drop(client)
				}
			}
		}
	}
}

// NotifyUser queues a message for every socket the user currently has
// open. The send never blocks; under backpressure the message is
// dropped.
func (h *Hub) NotifyUser(userID, action string, payload interface{}) {
	data, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode change feed message")
		return
	}
	select {
	case h.notify <- userMessage{userID: userID, data: data}:
	default:
		log.Warn().Str("action", action).Msg("Change feed backlog full, dropping message")
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	if subs, ok := h.subscriptions[client.UserID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, client.UserID)
		}
	}
}
