package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWSMessage(t *testing.T) {
	msg := NewWSMessage(EventVideoSync, map[string]interface{}{"currentTime": 42.0})

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, EventVideoSync, msg.Type)
	assert.Equal(t, 42.0, msg.Data["currentTime"])
	assert.False(t, msg.Timestamp.IsZero())
}

func TestNewWSMessageUniqueIDs(t *testing.T) {
	a := NewWSMessage(EventVideoSync, nil)
	b := NewWSMessage(EventVideoSync, nil)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestWSMessageWireFormat(t *testing.T) {
	msg := NewWSMessage(EventNewMessage, map[string]interface{}{"content": "hi"})
	msg.SetRoomID("room-1")
	msg.SetFrom("alice")

	data, err := msg.ToJSON()
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "new-message", wire["type"])
	assert.Equal(t, "room-1", wire["roomId"])
	assert.Equal(t, "alice", wire["from"])
}

func TestFromJSON(t *testing.T) {
	msg, err := FromJSON([]byte(`{"type":"join-room","roomId":"room-1"}`))

	require.NoError(t, err)
	assert.Equal(t, EventJoinRoom, msg.Type)
	assert.Equal(t, "room-1", msg.RoomID)
}

func TestFromJSONGarbage(t *testing.T) {
	_, err := FromJSON([]byte("not json"))

	assert.Error(t, err)
}

func TestAddData(t *testing.T) {
	msg := &WSMessage{Type: EventError}

	// Works on a nil data map
	msg.AddData("message", "boom")

	assert.Equal(t, "boom", msg.Data["message"])
}

func TestIsRoomEvent(t *testing.T) {
	roomEvents := []EventType{EventVideoSync, EventUserSynced, EventPollUpdate, EventNewTrivia}
	for _, et := range roomEvents {
		msg := &WSMessage{Type: et}
		assert.True(t, msg.IsRoomEvent(), "%s should be a room event", et)
	}

	otherEvents := []EventType{EventJoinRoom, EventLeaveRoom, EventConnected, EventError, EventNewMessage}
	for _, et := range otherEvents {
		msg := &WSMessage{Type: et}
		assert.False(t, msg.IsRoomEvent(), "%s should not be a room event", et)
	}
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&WSMessage{}).Validate())

	assert.Error(t, (&WSMessage{Type: EventJoinRoom}).Validate())
	assert.NoError(t, (&WSMessage{Type: EventJoinRoom, RoomID: "room-1"}).Validate())

	// Room id is resolved from the client state for relay events
	assert.NoError(t, (&WSMessage{Type: EventVideoSync}).Validate())
	assert.NoError(t, (&WSMessage{Type: EventLeaveRoom}).Validate())
}
