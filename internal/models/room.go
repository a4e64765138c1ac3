package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultMaxParticipants caps room membership when no explicit
// limit is configured on the room.
const DefaultMaxParticipants = 50

type Room struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Creator        string             `bson:"creator" json:"creator"`
	Participants   []string           `bson:"participants" json:"participants"`
	Movie          *MovieState        `bson:"movie,omitempty" json:"movie,omitempty"`
	Settings       RoomSettings       `bson:"settings" json:"settings"`
	Watchlist      []WatchlistEntry   `bson:"watchlist" json:"watchlist"`
	IsPrivate      bool               `bson:"is_private" json:"isPrivate"`
	InviteCode     string             `bson:"invite_code,omitempty" json:"inviteCode,omitempty"`
	BannedUsers    []string           `bson:"banned_users" json:"bannedUsers"`
	IsActive       bool               `bson:"is_active" json:"isActive"`
	PlaybackEvents []PlaybackEvent    `bson:"playback_events" json:"playbackEvents"`
	SyncEvents     []SyncEvent        `bson:"sync_events" json:"syncEvents"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
}

type RoomSettings struct {
	MaxParticipants int    `bson:"max_participants" json:"maxParticipants"`
	AllowChat       bool   `bson:"allow_chat" json:"allowChat"`
	AllowWatchlist  bool   `bson:"allow_watchlist" json:"allowWatchlist"`
	AllowTrivia     bool   `bson:"allow_trivia" json:"allowTrivia"`
	Autoplay        bool   `bson:"autoplay" json:"autoplay"`
	Description     string `bson:"description" json:"description"`
	VideoLink       string `bson:"video_link" json:"videoLink"`
}

// MovieState is the shared playback state all participants converge on.
type MovieState struct {
	Title       string    `bson:"title" json:"title"`
	URL         string    `bson:"url" json:"url"`
	Thumbnail   string    `bson:"thumbnail" json:"thumbnail"`
	CurrentTime float64   `bson:"current_time" json:"currentTime"`
	IsPlaying   bool      `bson:"is_playing" json:"isPlaying"`
	LastUpdated time.Time `bson:"last_updated" json:"lastUpdated"`
}

type WatchlistEntry struct {
	Movie   WatchlistMovie `bson:"movie" json:"movie"`
	AddedBy string         `bson:"added_by" json:"addedBy"`
	Votes   []string       `bson:"votes" json:"votes"`
	AddedAt time.Time      `bson:"added_at" json:"addedAt"`
}

type WatchlistMovie struct {
	ID        string `bson:"id" json:"id"`
	Title     string `bson:"title" json:"title"`
	Thumbnail string `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Year      string `bson:"year,omitempty" json:"year,omitempty"`
}

type PlaybackEvent struct {
	Type      string    `bson:"type" json:"type"` // play, pause, seek, sync
	UserID    string    `bson:"user_id" json:"userId"`
	Position  float64   `bson:"position" json:"position"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// SyncEvent records how far a reporter had drifted from the stored
// position before the update was applied.
type SyncEvent struct {
	UserID     string    `bson:"user_id" json:"userId"`
	Difference float64   `bson:"difference" json:"difference"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
}

// DefaultRoomSettings returns the settings a freshly created room starts with.
func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		MaxParticipants: DefaultMaxParticipants,
		AllowChat:       true,
		AllowWatchlist:  true,
		AllowTrivia:     true,
		Autoplay:        false,
	}
}

// IsParticipant reports whether userID is currently in the room.
func (r *Room) IsParticipant(userID string) bool {
	for _, id := range r.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// IsBanned reports whether userID is on the room's ban list.
func (r *Room) IsBanned(userID string) bool {
	for _, id := range r.BannedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// MaxParticipants returns the configured limit, falling back to the
// default for rooms persisted without one.
func (r *Room) MaxParticipants() int {
	if r.Settings.MaxParticipants <= 0 {
		return DefaultMaxParticipants
	}
	return r.Settings.MaxParticipants
}

// AtCapacity reports whether the room cannot admit another participant.
// Rooms already past the limit stay as they are, only new admissions
// are refused.
func (r *Room) AtCapacity() bool {
	return len(r.Participants) >= r.MaxParticipants()
}

// WatchlistIndex returns the index of the first entry for movieID, or -1.
func (r *Room) WatchlistIndex(movieID string) int {
	for i, entry := range r.Watchlist {
		if entry.Movie.ID == movieID {
			return i
		}
	}
	return -1
}

// RoomSummary is the listing shape for room discovery.
type RoomSummary struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Creator          string `json:"creator"`
	ParticipantCount int    `json:"participantCount"`
	MovieTitle       string `json:"movieTitle,omitempty"`
	IsPrivate        bool   `json:"isPrivate"`
}

// Summary projects the room into its listing shape.
func (r *Room) Summary() RoomSummary {
	summary := RoomSummary{
		ID:               r.ID.Hex(),
		Name:             r.Name,
		Creator:          r.Creator,
		ParticipantCount: len(r.Participants),
		IsPrivate:        r.IsPrivate,
	}
	if r.Movie != nil {
		summary.MovieTitle = r.Movie.Title
	}
	return summary
}
