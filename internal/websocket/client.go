package websocket

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/puviyarasu12/Stream-backend/pkg/logger"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	// Buffer size for client send channel
	sendBufferSize = 256

	// Events a client may send per minute before being throttled
	eventsPerMinute = 120
)

var newline = []byte{'\n'}

// Upgrader is re-exported so handlers can configure the HTTP upgrade
// without importing gorilla alongside this package.
type Upgrader = websocket.Upgrader

// Client is one relay connection. A user may reconnect at any time and
// gets a fresh connection id.
type Client struct {
	Conn *websocket.Conn
	Hub  *Hub

	// Buffered channel of outbound messages
	Send chan []byte

	ConnectionID string
	UserID       string
	Username     string
	RoomID       string

	ConnectedAt time.Time
	LastPong    time.Time

	// Rate limiting
	eventCount int
	windowedAt time.Time

	mu sync.RWMutex
}

// NewClient wraps an upgraded connection for the hub.
func NewClient(conn *websocket.Conn, hub *Hub, userID, username string) *Client {
	return &Client{
		Conn:         conn,
		Hub:          hub,
		Send:         make(chan []byte, sendBufferSize),
		ConnectionID: uuid.NewString(),
		UserID:       userID,
		Username:     username,
		ConnectedAt:  time.Now(),
		LastPong:     time.Now(),
	}
}

// ReadPump pumps events from the connection into the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.LastPong = time.Now()
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.WithFields(map[string]interface{}{
					"user_id":       c.UserID,
					"connection_id": c.ConnectionID,
					"error":         err.Error(),
				}).Error("Relay read error")
			}
			break
		}

		if !c.checkRateLimit() {
			c.sendError("Rate limit exceeded")
			continue
		}

		msg, err := c.parseMessage(raw)
		if err != nil {
			c.sendError(fmt.Sprintf("Invalid message format: %v", err))
			continue
		}

		msg.SetFrom(c.UserID)

		if err := msg.Validate(); err != nil {
			c.sendError(err.Error())
			continue
		}

		c.handleMessage(msg)
	}
}

// WritePump pumps messages from the hub onto the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Coalesce queued messages into the same frame.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write(newline)
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) parseMessage(data []byte) (*WSMessage, error) {
	msg, err := FromJSON(data)
	if err != nil {
		return nil, err
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	// Clients may put the room id in the data block instead.
	if msg.RoomID == "" {
		if roomID, ok := msg.Data["roomId"].(string); ok {
			msg.RoomID = roomID
		}
	}

	return msg, nil
}

func (c *Client) handleMessage(msg *WSMessage) {
	switch msg.Type {
	case EventJoinRoom:
		c.handleJoinRoom(msg)
	case EventLeaveRoom:
		c.handleLeaveRoom()
	case EventVideoSync, EventUserSynced:
		c.handleSenderExcluded(msg)
	case EventPollUpdate, EventNewTrivia:
		c.handleRoomWide(msg)
	default:
		c.sendError(fmt.Sprintf("Unknown event type: %s", msg.Type))
	}
}

// handleJoinRoom subscribes the connection to a room's events. Banned
// users are refused; the room itself must exist and be active.
// Membership in the room document is the REST API's concern, not ours.
func (c *Client) handleJoinRoom(msg *WSMessage) {
	room, err := c.Hub.rooms.GetRoom(msg.RoomID)
	if err != nil {
		c.sendError("Room not found")
		return
	}

	if room.IsBanned(c.UserID) {
		logger.LogSecurityEvent("relay_join_banned", c.UserID, "", map[string]interface{}{
			"room_id": msg.RoomID,
		})
		c.sendError("You are banned from this room")
		return
	}

	c.Hub.AddClientToRoom(c, msg.RoomID)

	ack := NewWSMessage(EventConnected, map[string]interface{}{
		"roomId": msg.RoomID,
		"online": c.Hub.GetRoomUsers(msg.RoomID),
	})
	c.SendMessage(ack)
}

func (c *Client) handleLeaveRoom() {
	c.Hub.RemoveClientFromRoom(c)
}

// handleSenderExcluded relays playback events to everyone in the room
// except the sender, who already has the state locally.
func (c *Client) handleSenderExcluded(msg *WSMessage) {
	roomID := c.GetRoomID()
	if roomID == "" {
		c.sendError("Not in a room")
		return
	}

	msg.SetRoomID(roomID)
	c.Hub.BroadcastToRoomExcept(roomID, c.UserID, msg)

	logger.LogRelayEvent(string(msg.Type), roomID, c.ConnectionID, map[string]interface{}{
		"user_id": c.UserID,
	})
}

// handleRoomWide relays watchlist and trivia events to the whole room,
// sender included, so every client converges on the same view.
func (c *Client) handleRoomWide(msg *WSMessage) {
	roomID := c.GetRoomID()
	if roomID == "" {
		c.sendError("Not in a room")
		return
	}

	msg.SetRoomID(roomID)
	c.Hub.BroadcastToRoom(roomID, msg)
}

func (c *Client) checkRateLimit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.windowedAt) > time.Minute {
		c.eventCount = 0
		c.windowedAt = now
	}

	c.eventCount++
	return c.eventCount <= eventsPerMinute
}

// SendMessage queues a message for the client. Fails when the send
// buffer is full rather than blocking the caller.
func (c *Client) SendMessage(msg *WSMessage) error {
	data, err := msg.ToJSON()
	if err != nil {
		return err
	}

	select {
	case c.Send <- data:
		return nil
	default:
		return fmt.Errorf("client send buffer full")
	}
}

func (c *Client) sendError(message string) {
	errorMsg := NewWSMessage(EventError, map[string]interface{}{
		"message": message,
	})
	c.SendMessage(errorMsg)
}

// SetRoomID sets the client's current room.
func (c *Client) SetRoomID(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RoomID = roomID
}

// GetRoomID returns the client's current room.
func (c *Client) GetRoomID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RoomID
}
