package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/puviyarasu12/Stream-backend/internal/services"
	"github.com/puviyarasu12/Stream-backend/pkg/logger"
)

// Hub keeps the registry of live relay connections and fans room events
// out to them. One hub per process; the optional backbone bridges hubs
// across processes.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Clients organized by user ID
	userClients map[string]*Client

	// Clients organized by room ID
	roomClients map[string]map[*Client]bool

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// Broadcast messages to a room
	RoomBroadcast chan *RoomMessage

	rooms      *services.RoomService
	backbone   *Backbone
	instanceID string

	mu sync.RWMutex
}

// RoomMessage carries a message to every connection subscribed to a
// room. Exclude names a user id whose connections are skipped.
type RoomMessage struct {
	RoomID  string
	Message *WSMessage
	Exclude string

	// set on messages replayed from the backbone so they are not
	// published a second time
	fromBackbone bool
}

// NewHub creates a relay hub. The room service backs the ban check on
// join-room events.
func NewHub(rooms *services.RoomService) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		userClients:   make(map[string]*Client),
		roomClients:   make(map[string]map[*Client]bool),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		RoomBroadcast: make(chan *RoomMessage),
		rooms:         rooms,
		instanceID:    uuid.NewString(),
	}
}

// InstanceID identifies this hub on the backbone channel.
func (h *Hub) InstanceID() string {
	return h.instanceID
}

// AttachBackbone wires a backbone into the hub. Must be called before
// Run.
func (h *Hub) AttachBackbone(b *Backbone) {
	h.backbone = b
}

// Run dispatches registration and broadcast events until the process
// exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case roomMsg := <-h.RoomBroadcast:
			h.deliver(roomMsg)
		}
	}
}

// deliver fans a message out locally and mirrors it onto the backbone.
// Safe to call from any goroutine.
func (h *Hub) deliver(roomMsg *RoomMessage) {
	h.broadcastToRoom(roomMsg)

	if !roomMsg.fromBackbone && h.backbone != nil {
		go h.backbone.Publish(roomMsg)
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.userClients[client.UserID] = client

	logger.WithFields(map[string]interface{}{
		"user_id":       client.UserID,
		"connection_id": client.ConnectionID,
		"total_clients": len(h.clients),
	}).Info("Relay client registered")

	welcome := NewWSMessage(EventConnected, map[string]interface{}{
		"connectionId": client.ConnectionID,
		"serverTime":   time.Now(),
	})
	client.SendMessage(welcome)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()

	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}

	delete(h.clients, client)
	if h.userClients[client.UserID] == client {
		delete(h.userClients, client.UserID)
	}

	roomID := client.GetRoomID()
	if roomID != "" {
		h.removeClientFromRoom(client)
	}

	close(client.Send)

	logger.WithFields(map[string]interface{}{
		"user_id":       client.UserID,
		"connection_id": client.ConnectionID,
		"total_clients": len(h.clients),
	}).Info("Relay client unregistered")

	h.mu.Unlock()

	if roomID != "" {
		h.notifyUserLeft(roomID, client)
	}
}

// AddClientToRoom subscribes a client to a room's broadcasts. A client
// is in at most one room; joining another room leaves the previous one.
func (h *Hub) AddClientToRoom(client *Client, roomID string) {
	h.mu.Lock()

	if prev := client.GetRoomID(); prev != "" {
		h.removeClientFromRoom(client)
	}

	if h.roomClients[roomID] == nil {
		h.roomClients[roomID] = make(map[*Client]bool)
	}
	h.roomClients[roomID][client] = true
	client.SetRoomID(roomID)

	roomSize := len(h.roomClients[roomID])
	h.mu.Unlock()

	logger.LogRelayEvent("relay_joined_room", roomID, client.ConnectionID, map[string]interface{}{
		"user_id":   client.UserID,
		"room_size": roomSize,
	})

	message := NewWSMessage(EventUserJoined, map[string]interface{}{
		"userId":   client.UserID,
		"username": client.Username,
	})
	message.SetRoomID(roomID)
	h.BroadcastToRoomExcept(roomID, client.UserID, message)
}

// RemoveClientFromRoom unsubscribes a client from its current room and
// notifies the room.
func (h *Hub) RemoveClientFromRoom(client *Client) {
	h.mu.Lock()
	roomID := client.GetRoomID()
	if roomID == "" {
		h.mu.Unlock()
		return
	}
	h.removeClientFromRoom(client)
	h.mu.Unlock()

	h.notifyUserLeft(roomID, client)
}

// removeClientFromRoom drops the client from the room registry. Callers
// hold h.mu.
func (h *Hub) removeClientFromRoom(client *Client) {
	roomID := client.GetRoomID()
	if roomID == "" {
		return
	}

	if roomClients, exists := h.roomClients[roomID]; exists {
		delete(roomClients, client)
		if len(roomClients) == 0 {
			delete(h.roomClients, roomID)
		}
	}

	client.SetRoomID("")

	logger.LogRelayEvent("relay_left_room", roomID, client.ConnectionID, map[string]interface{}{
		"user_id": client.UserID,
	})
}

// notifyUserLeft delivers directly instead of going through the
// RoomBroadcast channel: it runs on the hub goroutine during
// unregistration, where a channel send would block forever.
func (h *Hub) notifyUserLeft(roomID string, client *Client) {
	message := NewWSMessage(EventUserLeft, map[string]interface{}{
		"userId":   client.UserID,
		"username": client.Username,
	})
	message.SetRoomID(roomID)
	h.deliver(&RoomMessage{
		RoomID:  roomID,
		Message: message,
		Exclude: client.UserID,
	})
}

func (h *Hub) broadcastToRoom(roomMsg *RoomMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, exists := h.roomClients[roomMsg.RoomID]
	if !exists {
		return
	}

	data, err := roomMsg.Message.ToJSON()
	if err != nil {
		logger.WithError(err).Error("Failed to marshal room message")
		return
	}

	for client := range roomClients {
		if roomMsg.Exclude != "" && client.UserID == roomMsg.Exclude {
			continue
		}

		select {
		case client.Send <- data:
		default:
			// Slow consumer, drop the connection.
			go func(c *Client) { h.Unregister <- c }(client)
		}
	}
}

// BroadcastToRoom sends a message to every connection in a room.
func (h *Hub) BroadcastToRoom(roomID string, message *WSMessage) {
	message.SetRoomID(roomID)
	h.RoomBroadcast <- &RoomMessage{
		RoomID:  roomID,
		Message: message,
	}
}

// BroadcastToRoomExcept sends a message to a room, skipping one user's
// connections.
func (h *Hub) BroadcastToRoomExcept(roomID, excludeUserID string, message *WSMessage) {
	message.SetRoomID(roomID)
	h.RoomBroadcast <- &RoomMessage{
		RoomID:  roomID,
		Message: message,
		Exclude: excludeUserID,
	}
}

// GetRoomUsers returns the user ids with a live connection in the room.
func (h *Hub) GetRoomUsers(roomID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, exists := h.roomClients[roomID]
	if !exists {
		return []string{}
	}

	users := make([]string, 0, len(roomClients))
	for client := range roomClients {
		users = append(users, client.UserID)
	}

	return users
}

// IsUserOnline reports whether the user has a live relay connection.
func (h *Hub) IsUserOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, exists := h.userClients[userID]
	return exists
}

// HubStats is a point-in-time snapshot for the health endpoint.
type HubStats struct {
	Connections  int `json:"connections"`
	UsersOnline  int `json:"usersOnline"`
	RoomChannels int `json:"roomChannels"`
}

// Stats counts live connections and room channels.
func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return HubStats{
		Connections:  len(h.clients),
		UsersOnline:  len(h.userClients),
		RoomChannels: len(h.roomClients),
	}
}
