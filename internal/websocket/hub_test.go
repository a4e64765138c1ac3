package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// receiveMessage pops the next queued relay message for the client.
func receiveMessage(t *testing.T, c *Client) *WSMessage {
	t.Helper()
	select {
	case data := <-c.Send:
		msg, err := FromJSON(data)
		require.NoError(t, err)
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for relay message")
		return nil
	}
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("unexpected relay message: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRegisterClientSendsWelcome(t *testing.T) {
	hub := NewHub(nil)
	client := NewClient(nil, hub, "alice", "Alice")

	hub.registerClient(client)

	assert.True(t, hub.IsUserOnline("alice"))

	welcome := receiveMessage(t, client)
	assert.Equal(t, EventConnected, welcome.Type)
	assert.Equal(t, client.ConnectionID, welcome.Data["connectionId"])
}

func TestUnregisterClientClosesSend(t *testing.T) {
	hub := NewHub(nil)
	client := NewClient(nil, hub, "alice", "Alice")
	hub.registerClient(client)

	hub.unregisterClient(client)

	assert.False(t, hub.IsUserOnline("alice"))

	// Drain the welcome, then the channel reports closed
	<-client.Send
	_, open := <-client.Send
	assert.False(t, open)
}

func TestUnregisterUnknownClient(t *testing.T) {
	hub := NewHub(nil)
	client := NewClient(nil, hub, "alice", "Alice")

	// Never registered, must not close the channel or panic
	hub.unregisterClient(client)

	select {
	case client.Send <- []byte("{}"):
	default:
		t.Fatal("send channel unusable after spurious unregister")
	}
}

func TestAddClientToRoom(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	alice := NewClient(nil, hub, "alice", "Alice")
	bob := NewClient(nil, hub, "bob", "Bob")
	hub.Register <- alice
	hub.Register <- bob

	assert.Equal(t, EventConnected, receiveMessage(t, alice).Type)
	assert.Equal(t, EventConnected, receiveMessage(t, bob).Type)

	hub.AddClientToRoom(alice, "room-1")
	hub.AddClientToRoom(bob, "room-1")

	assert.ElementsMatch(t, []string{"alice", "bob"}, hub.GetRoomUsers("room-1"))

	// Alice sees bob join; bob does not see his own join
	joined := receiveMessage(t, alice)
	assert.Equal(t, EventUserJoined, joined.Type)
	assert.Equal(t, "bob", joined.Data["userId"])
	assert.Equal(t, "Bob", joined.Data["username"])
	assertNoMessage(t, bob)
}

func TestAddClientToRoomSwitchesRooms(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	alice := NewClient(nil, hub, "alice", "Alice")
	hub.Register <- alice
	receiveMessage(t, alice)

	hub.AddClientToRoom(alice, "room-1")
	hub.AddClientToRoom(alice, "room-2")

	assert.Empty(t, hub.GetRoomUsers("room-1"))
	assert.Equal(t, []string{"alice"}, hub.GetRoomUsers("room-2"))
	assert.Equal(t, "room-2", alice.GetRoomID())
}

func TestBroadcastToRoom(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	alice := NewClient(nil, hub, "alice", "Alice")
	bob := NewClient(nil, hub, "bob", "Bob")
	hub.Register <- alice
	hub.Register <- bob
	receiveMessage(t, alice)
	receiveMessage(t, bob)

	hub.AddClientToRoom(alice, "room-1")
	hub.AddClientToRoom(bob, "room-1")
	receiveMessage(t, alice) // bob joined

	hub.BroadcastToRoom("room-1", NewWSMessage(EventNewMessage, map[string]interface{}{"content": "hi"}))

	for _, c := range []*Client{alice, bob} {
		msg := receiveMessage(t, c)
		assert.Equal(t, EventNewMessage, msg.Type)
		assert.Equal(t, "room-1", msg.RoomID)
		assert.Equal(t, "hi", msg.Data["content"])
	}
}

func TestBroadcastToRoomExceptSkipsSender(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	alice := NewClient(nil, hub, "alice", "Alice")
	bob := NewClient(nil, hub, "bob", "Bob")
	hub.Register <- alice
	hub.Register <- bob
	receiveMessage(t, alice)
	receiveMessage(t, bob)

	hub.AddClientToRoom(alice, "room-1")
	hub.AddClientToRoom(bob, "room-1")
	receiveMessage(t, alice) // bob joined

	hub.BroadcastToRoomExcept("room-1", "alice", NewWSMessage(EventVideoSync, map[string]interface{}{"currentTime": 12.0}))

	sync := receiveMessage(t, bob)
	assert.Equal(t, EventVideoSync, sync.Type)
	assertNoMessage(t, alice)
}

func TestBroadcastToUnknownRoom(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	// Nobody subscribed, the message is dropped without blocking
	hub.BroadcastToRoom("ghost-room", NewWSMessage(EventNewMessage, nil))

	assert.Empty(t, hub.GetRoomUsers("ghost-room"))
}

func TestUnregisterNotifiesRoom(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	alice := NewClient(nil, hub, "alice", "Alice")
	bob := NewClient(nil, hub, "bob", "Bob")
	hub.Register <- alice
	hub.Register <- bob
	receiveMessage(t, alice)
	receiveMessage(t, bob)

	hub.AddClientToRoom(alice, "room-1")
	hub.AddClientToRoom(bob, "room-1")
	receiveMessage(t, alice) // bob joined

	hub.Unregister <- bob

	left := receiveMessage(t, alice)
	assert.Equal(t, EventUserLeft, left.Type)
	assert.Equal(t, "bob", left.Data["userId"])

	require.Eventually(t, func() bool {
		return !hub.IsUserOnline("bob")
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"alice"}, hub.GetRoomUsers("room-1"))
}

func TestSlowConsumerDisconnected(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	alice := NewClient(nil, hub, "alice", "Alice")
	hub.Register <- alice
	hub.AddClientToRoom(alice, "room-1")

	// Jam the send buffer so the next broadcast cannot be queued
	for i := 0; i < sendBufferSize; i++ {
		select {
		case alice.Send <- []byte("{}"):
		default:
		}
	}

	hub.BroadcastToRoom("room-1", NewWSMessage(EventNewMessage, nil))

	require.Eventually(t, func() bool {
		return !hub.IsUserOnline("alice")
	}, time.Second, 10*time.Millisecond)
}

func TestStats(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	assert.Equal(t, HubStats{}, hub.Stats())

	alice := NewClient(nil, hub, "alice", "Alice")
	bob := NewClient(nil, hub, "bob", "Bob")
	hub.Register <- alice
	hub.Register <- bob
	receiveMessage(t, alice)
	receiveMessage(t, bob)

	hub.AddClientToRoom(alice, "room-1")

	stats := hub.Stats()
	assert.Equal(t, 2, stats.Connections)
	assert.Equal(t, 2, stats.UsersOnline)
	assert.Equal(t, 1, stats.RoomChannels)
}

func TestGetRoomUsersUnknownRoom(t *testing.T) {
	hub := NewHub(nil)

	users := hub.GetRoomUsers("nope")

	assert.NotNil(t, users)
	assert.Empty(t, users)
}
