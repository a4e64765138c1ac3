package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDefaultRoomSettings(t *testing.T) {
	settings := DefaultRoomSettings()

	assert.Equal(t, DefaultMaxParticipants, settings.MaxParticipants)
	assert.True(t, settings.AllowChat)
	assert.True(t, settings.AllowWatchlist)
	assert.True(t, settings.AllowTrivia)
	assert.False(t, settings.Autoplay)
}

func TestIsParticipant(t *testing.T) {
	room := &Room{Participants: []string{"alice", "bob"}}

	assert.True(t, room.IsParticipant("alice"))
	assert.True(t, room.IsParticipant("bob"))
	assert.False(t, room.IsParticipant("carol"))
	assert.False(t, room.IsParticipant(""))
}

func TestIsBanned(t *testing.T) {
	room := &Room{BannedUsers: []string{"mallory"}}

	assert.True(t, room.IsBanned("mallory"))
	assert.False(t, room.IsBanned("alice"))
}

func TestMaxParticipantsFallback(t *testing.T) {
	room := &Room{}
	assert.Equal(t, DefaultMaxParticipants, room.MaxParticipants())

	room.Settings.MaxParticipants = -1
	assert.Equal(t, DefaultMaxParticipants, room.MaxParticipants())

	room.Settings.MaxParticipants = 10
	assert.Equal(t, 10, room.MaxParticipants())
}

func TestAtCapacity(t *testing.T) {
	room := &Room{
		Participants: []string{"a", "b"},
		Settings:     RoomSettings{MaxParticipants: 2},
	}
	assert.True(t, room.AtCapacity())

	room.Settings.MaxParticipants = 3
	assert.False(t, room.AtCapacity())

	// Rooms persisted over the limit still report full
	room.Participants = []string{"a", "b", "c", "d"}
	assert.True(t, room.AtCapacity())
}

func TestWatchlistIndex(t *testing.T) {
	room := &Room{
		Watchlist: []WatchlistEntry{
			{Movie: WatchlistMovie{ID: "tt0133093", Title: "The Matrix"}},
			{Movie: WatchlistMovie{ID: "tt1375666", Title: "Inception"}},
			{Movie: WatchlistMovie{ID: "tt0133093", Title: "The Matrix"}},
		},
	}

	// Duplicate entries resolve to the first occurrence
	assert.Equal(t, 0, room.WatchlistIndex("tt0133093"))
	assert.Equal(t, 1, room.WatchlistIndex("tt1375666"))
	assert.Equal(t, -1, room.WatchlistIndex("tt0000000"))
}

func TestSummary(t *testing.T) {
	id := primitive.NewObjectID()
	room := &Room{
		ID:           id,
		Name:         "Movie Night",
		Creator:      "alice",
		Participants: []string{"alice", "bob"},
		IsPrivate:    true,
		Movie:        &MovieState{Title: "The Matrix"},
	}

	summary := room.Summary()

	assert.Equal(t, id.Hex(), summary.ID)
	assert.Equal(t, "Movie Night", summary.Name)
	assert.Equal(t, "alice", summary.Creator)
	assert.Equal(t, 2, summary.ParticipantCount)
	assert.Equal(t, "The Matrix", summary.MovieTitle)
	assert.True(t, summary.IsPrivate)
}

func TestSummaryWithoutMovie(t *testing.T) {
	room := &Room{ID: primitive.NewObjectID(), Name: "Empty"}

	summary := room.Summary()

	assert.Empty(t, summary.MovieTitle)
	assert.Equal(t, 0, summary.ParticipantCount)
}
