package services

import (
	"context"
	"time"

	"github.com/puviyarasu12/Stream-backend/internal/config"
	"github.com/puviyarasu12/Stream-backend/internal/models"
	"github.com/puviyarasu12/Stream-backend/pkg/logger"
)

type WatchlistService struct {
	rooms     *RoomService
	embedBase string
}

func NewWatchlistService(rooms *RoomService, cfg config.PlaybackConfig) *WatchlistService {
	return &WatchlistService{
		rooms:     rooms,
		embedBase: cfg.EmbedBase,
	}
}

// AddMovie appends a movie to the room watchlist. The adder votes for
// their own entry automatically. Duplicate entries for the same movie
// are allowed in the room-scoped ledger.
func (s *WatchlistService) AddMovie(roomID, userID string, movie models.WatchlistMovie) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	room, err := s.rooms.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if !room.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	if !room.Settings.AllowWatchlist {
		return nil, ErrWatchlistDisabled
	}

	room.Watchlist = append(room.Watchlist, models.WatchlistEntry{
		Movie:   movie,
		AddedBy: userID,
		Votes:   []string{userID},
		AddedAt: time.Now(),
	})

	if err := s.rooms.saveRoom(ctx, room); err != nil {
		return nil, err
	}

	logger.LogRoomEvent("watchlist_added", roomID, userID, map[string]interface{}{"movie_id": movie.ID})
	return room, nil
}

// ToggleVote flips the requester's vote on a watchlist entry. Voting a
// second time withdraws the vote.
func (s *WatchlistService) ToggleVote(roomID, userID, movieID string) (*models.Room, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	room, err := s.rooms.getRoom(ctx, roomID)
	if err != nil {
		return nil, false, err
	}

	if !room.IsParticipant(userID) {
		return nil, false, ErrNotParticipant
	}

	idx := room.WatchlistIndex(movieID)
	if idx < 0 {
		return nil, false, ErrEntryNotFound
	}

	voted := toggleVote(&room.Watchlist[idx], userID)

	if err := s.rooms.saveRoom(ctx, room); err != nil {
		return nil, false, err
	}

	return room, voted, nil
}

// toggleVote adds or removes userID from the entry's vote set and
// reports whether the user is voted afterwards.
func toggleVote(entry *models.WatchlistEntry, userID string) bool {
	for i, id := range entry.Votes {
		if id == userID {
			entry.Votes = append(entry.Votes[:i], entry.Votes[i+1:]...)
			return false
		}
	}
	entry.Votes = append(entry.Votes, userID)
	return true
}

// SelectMovie promotes a watchlist entry into the room's playback
// state and drops it from the ledger, both in one document save.
// Creator-only. Playback starts from the beginning.
func (s *WatchlistService) SelectMovie(roomID, requesterID, movieID string) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	room, err := s.rooms.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.Creator != requesterID {
		return nil, ErrNotCreator
	}

	idx := room.WatchlistIndex(movieID)
	if idx < 0 {
		return nil, ErrEntryNotFound
	}

	promoteEntry(room, idx, s.embedBase, time.Now())

	if err := s.rooms.saveRoom(ctx, room); err != nil {
		return nil, err
	}

	logger.LogRoomEvent("movie_selected", roomID, requesterID, map[string]interface{}{"movie_id": movieID})
	return room, nil
}

// promoteEntry sets the entry at idx as the room movie and removes
// every ledger entry carrying the same movie id.
func promoteEntry(room *models.Room, idx int, embedBase string, now time.Time) {
	entry := room.Watchlist[idx]

	room.Movie = &models.MovieState{
		Title:       entry.Movie.Title,
		URL:         buildPlaybackURL(embedBase, entry.Movie.ID),
		Thumbnail:   entry.Movie.Thumbnail,
		CurrentTime: 0,
		IsPlaying:   true,
		LastUpdated: now,
	}

	kept := room.Watchlist[:0]
	for _, e := range room.Watchlist {
		if e.Movie.ID != entry.Movie.ID {
			kept = append(kept, e)
		}
	}
	room.Watchlist = kept
}

func buildPlaybackURL(embedBase, movieID string) string {
	if len(embedBase) > 0 && embedBase[len(embedBase)-1] == '/' {
		return embedBase + movieID
	}
	return embedBase + "/" + movieID
}
