package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType names a relay event on the wire.
type EventType string

const (
	// Client-sent events
	EventJoinRoom   EventType = "join-room"
	EventLeaveRoom  EventType = "leave-room"
	EventVideoSync  EventType = "video-sync"
	EventUserSynced EventType = "user-synced"
	EventPollUpdate EventType = "poll-update"
	EventNewTrivia  EventType = "new-trivia"

	// Server-sent events
	EventUserJoined EventType = "user-joined"
	EventUserLeft   EventType = "user-left"
	EventNewMessage EventType = "new-message"
	EventConnected  EventType = "connected"
	EventError      EventType = "error"
)

// WSMessage is the relay envelope. Events are best-effort: nothing here
// is persisted and the REST API stays the system of record.
type WSMessage struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	RoomID    string                 `json:"roomId,omitempty"`
	From      string                 `json:"from,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewWSMessage creates a relay message of the given type.
func NewWSMessage(eventType EventType, data map[string]interface{}) *WSMessage {
	return &WSMessage{
		ID:        uuid.NewString(),
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (msg *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(msg)
}

// FromJSON parses a message from JSON bytes.
func FromJSON(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}

// SetFrom sets the sender of the message.
func (msg *WSMessage) SetFrom(userID string) {
	msg.From = userID
}

// SetRoomID sets the room the message belongs to.
func (msg *WSMessage) SetRoomID(roomID string) {
	msg.RoomID = roomID
}

// AddData adds a data field to the message.
func (msg *WSMessage) AddData(key string, value interface{}) {
	if msg.Data == nil {
		msg.Data = make(map[string]interface{})
	}
	msg.Data[key] = value
}

// IsRoomEvent reports whether the event only makes sense inside a room.
func (msg *WSMessage) IsRoomEvent() bool {
	switch msg.Type {
	case EventVideoSync, EventUserSynced, EventPollUpdate, EventNewTrivia:
		return true
	}
	return false
}

// Validate checks the message structure before it is handled.
func (msg *WSMessage) Validate() error {
	if msg.Type == "" {
		return fmt.Errorf("message type is required")
	}

	if msg.Type == EventJoinRoom && msg.RoomID == "" {
		return fmt.Errorf("roomId is required to join a room")
	}

	return nil
}
