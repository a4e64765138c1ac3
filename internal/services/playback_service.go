package services

import (
	"context"
	"math"
	"time"

	"github.com/puviyarasu12/Stream-backend/internal/config"
	"github.com/puviyarasu12/Stream-backend/internal/models"
	"github.com/puviyarasu12/Stream-backend/pkg/logger"
)

const (
	// seekThresholdSeconds is the position jump beyond which an update
	// is classified as a seek.
	seekThresholdSeconds = 5.0

	// driftThresholdSeconds is the lower position delta beyond which a
	// drift sample is recorded. Deliberately overlaps the seek
	// threshold, a seek also produces a drift sample.
	driftThresholdSeconds = 2.0
)

// Playback event types.
const (
	EventPlay  = "play"
	EventPause = "pause"
	EventSeek  = "seek"
	EventSync  = "sync"
)

type PlaybackService struct {
	rooms      *RoomService
	updateMode string
}

func NewPlaybackService(rooms *RoomService, cfg config.PlaybackConfig) *PlaybackService {
	return &PlaybackService{
		rooms:      rooms,
		updateMode: cfg.UpdateMode,
	}
}

// PlaybackUpdate is a participant's report of the playback state it
// observes. Nil optional fields were omitted by the caller. Timestamp
// is the client's own clock reading, its mere presence marks the
// report as a periodic sync rather than a user action.
type PlaybackUpdate struct {
	Title       *string
	URL         *string
	Thumbnail   *string
	CurrentTime float64
	IsPlaying   bool
	Timestamp   *int64
}

// UpdateMovieState applies a participant's playback report to the
// room: classifies it against the previous state, appends the playback
// event and, past the drift threshold, a drift sample, then writes the
// new movie state. Everything lands in one document save with no
// rollback on partial failure.
func (s *PlaybackService) UpdateMovieState(roomID, userID string, upd PlaybackUpdate) (*models.Room, string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	room, err := s.rooms.getRoom(ctx, roomID)
	if err != nil {
		return nil, "", err
	}

	if !room.IsParticipant(userID) {
		return nil, "", ErrNotParticipant
	}

	eventType := applyPlaybackUpdate(room, userID, upd, s.updateMode, time.Now())

	if err := s.rooms.saveRoom(ctx, room); err != nil {
		return nil, "", err
	}

	logger.LogPlaybackEvent(roomID, userID, eventType, upd.CurrentTime)
	return room, eventType, nil
}

// applyPlaybackUpdate mutates the room in memory: event log, drift
// log, then the movie state itself.
func applyPlaybackUpdate(room *models.Room, userID string, upd PlaybackUpdate, mode string, now time.Time) string {
	eventType := classifyPlayback(room.Movie, upd)

	room.PlaybackEvents = append(room.PlaybackEvents, models.PlaybackEvent{
		Type:      eventType,
		UserID:    userID,
		Position:  upd.CurrentTime,
		Timestamp: now,
	})

	if drift := positionDelta(room.Movie, upd); math.Abs(drift) > driftThresholdSeconds {
		room.SyncEvents = append(room.SyncEvents, models.SyncEvent{
			UserID:     userID,
			Difference: drift,
			Timestamp:  now,
		})
	}

	room.Movie = buildMovieState(room.Movie, upd, mode, now)
	return eventType
}

// classifyPlayback names the incoming report using the previous stored
// state. A room that never had a movie is classified against the zero
// state. First match wins:
//
//	isPlaying changed          -> play / pause
//	position jumped > 5s       -> seek
//	client timestamp present   -> sync
//	otherwise                  -> seek
func classifyPlayback(prev *models.MovieState, upd PlaybackUpdate) string {
	prevPlaying := prev != nil && prev.IsPlaying

	if upd.IsPlaying != prevPlaying {
		if upd.IsPlaying {
			return EventPlay
		}
		return EventPause
	}

	if math.Abs(positionDelta(prev, upd)) > seekThresholdSeconds {
		return EventSeek
	}

	if upd.Timestamp != nil {
		return EventSync
	}

	return EventSeek
}

// positionDelta is previous minus reported position, the sign recorded
// in drift samples.
func positionDelta(prev *models.MovieState, upd PlaybackUpdate) float64 {
	prevTime := 0.0
	if prev != nil {
		prevTime = prev.CurrentTime
	}
	return prevTime - upd.CurrentTime
}

// buildMovieState produces the new stored movie. Replace mode takes
// the payload as the complete new state, omitted fields are erased.
// Merge mode keeps previous values for omitted optional fields.
func buildMovieState(prev *models.MovieState, upd PlaybackUpdate, mode string, now time.Time) *models.MovieState {
	movie := &models.MovieState{
		CurrentTime: upd.CurrentTime,
		IsPlaying:   upd.IsPlaying,
		LastUpdated: now,
	}

	if upd.Title != nil {
		movie.Title = *upd.Title
	}
	if upd.URL != nil {
		movie.URL = *upd.URL
	}
	if upd.Thumbnail != nil {
		movie.Thumbnail = *upd.Thumbnail
	}

	if mode == config.PlaybackModeMerge && prev != nil {
		if upd.Title == nil {
			movie.Title = prev.Title
		}
		if upd.URL == nil {
			movie.URL = prev.URL
		}
		if upd.Thumbnail == nil {
			movie.Thumbnail = prev.Thumbnail
		}
	}

	return movie
}
