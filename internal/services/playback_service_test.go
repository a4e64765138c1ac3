package services

import (
	"testing"
	"time"

	"github.com/puviyarasu12/Stream-backend/internal/config"
	"github.com/puviyarasu12/Stream-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }

func TestClassifyPlayback(t *testing.T) {
	tests := []struct {
		name string
		prev *models.MovieState
		upd  PlaybackUpdate
		want string
	}{
		{
			name: "paused to playing",
			prev: &models.MovieState{CurrentTime: 10, IsPlaying: false},
			upd:  PlaybackUpdate{CurrentTime: 10, IsPlaying: true},
			want: EventPlay,
		},
		{
			name: "playing to paused",
			prev: &models.MovieState{CurrentTime: 10, IsPlaying: true},
			upd:  PlaybackUpdate{CurrentTime: 10, IsPlaying: false},
			want: EventPause,
		},
		{
			name: "no previous movie starts playing",
			prev: nil,
			upd:  PlaybackUpdate{CurrentTime: 0, IsPlaying: true},
			want: EventPlay,
		},
		{
			name: "jump forward past threshold",
			prev: &models.MovieState{CurrentTime: 10, IsPlaying: true},
			upd:  PlaybackUpdate{CurrentTime: 30, IsPlaying: true},
			want: EventSeek,
		},
		{
			name: "jump backward past threshold",
			prev: &models.MovieState{CurrentTime: 30, IsPlaying: true},
			upd:  PlaybackUpdate{CurrentTime: 10, IsPlaying: true},
			want: EventSeek,
		},
		{
			name: "small drift with client timestamp",
			prev: &models.MovieState{CurrentTime: 10, IsPlaying: true},
			upd:  PlaybackUpdate{CurrentTime: 11, IsPlaying: true, Timestamp: int64Ptr(1700000000)},
			want: EventSync,
		},
		{
			name: "small drift without timestamp",
			prev: &models.MovieState{CurrentTime: 10, IsPlaying: true},
			upd:  PlaybackUpdate{CurrentTime: 11, IsPlaying: true},
			want: EventSeek,
		},
		{
			name: "play change wins over large jump",
			prev: &models.MovieState{CurrentTime: 10, IsPlaying: false},
			upd:  PlaybackUpdate{CurrentTime: 100, IsPlaying: true},
			want: EventPlay,
		},
		{
			name: "exactly at seek threshold stays sync",
			prev: &models.MovieState{CurrentTime: 10, IsPlaying: true},
			upd:  PlaybackUpdate{CurrentTime: 15, IsPlaying: true, Timestamp: int64Ptr(1700000000)},
			want: EventSync,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyPlayback(tt.prev, tt.upd))
		})
	}
}

func TestPositionDelta(t *testing.T) {
	prev := &models.MovieState{CurrentTime: 30}

	assert.Equal(t, 20.0, positionDelta(prev, PlaybackUpdate{CurrentTime: 10}))
	assert.Equal(t, -20.0, positionDelta(prev, PlaybackUpdate{CurrentTime: 50}))
	assert.Equal(t, -10.0, positionDelta(nil, PlaybackUpdate{CurrentTime: 10}))
}

func TestBuildMovieStateReplace(t *testing.T) {
	now := time.Now()
	prev := &models.MovieState{
		Title:     "The Matrix",
		URL:       "https://example.com/matrix",
		Thumbnail: "matrix.jpg",
	}

	// Omitted fields are erased in replace mode
	movie := buildMovieState(prev, PlaybackUpdate{CurrentTime: 42, IsPlaying: true}, config.PlaybackModeReplace, now)

	assert.Empty(t, movie.Title)
	assert.Empty(t, movie.URL)
	assert.Empty(t, movie.Thumbnail)
	assert.Equal(t, 42.0, movie.CurrentTime)
	assert.True(t, movie.IsPlaying)
	assert.Equal(t, now, movie.LastUpdated)
}

func TestBuildMovieStateMerge(t *testing.T) {
	now := time.Now()
	prev := &models.MovieState{
		Title:     "The Matrix",
		URL:       "https://example.com/matrix",
		Thumbnail: "matrix.jpg",
	}

	movie := buildMovieState(prev, PlaybackUpdate{
		Title:       strPtr("Inception"),
		CurrentTime: 42,
		IsPlaying:   true,
	}, config.PlaybackModeMerge, now)

	assert.Equal(t, "Inception", movie.Title)
	assert.Equal(t, "https://example.com/matrix", movie.URL)
	assert.Equal(t, "matrix.jpg", movie.Thumbnail)
}

func TestBuildMovieStateMergeWithoutPrevious(t *testing.T) {
	movie := buildMovieState(nil, PlaybackUpdate{CurrentTime: 5, IsPlaying: false}, config.PlaybackModeMerge, time.Now())

	assert.Empty(t, movie.Title)
	assert.Equal(t, 5.0, movie.CurrentTime)
}

func TestApplyPlaybackUpdateAppendsEvent(t *testing.T) {
	now := time.Now()
	room := &models.Room{Movie: &models.MovieState{CurrentTime: 10, IsPlaying: false}}

	eventType := applyPlaybackUpdate(room, "alice", PlaybackUpdate{CurrentTime: 10, IsPlaying: true}, config.PlaybackModeReplace, now)

	assert.Equal(t, EventPlay, eventType)
	require.Len(t, room.PlaybackEvents, 1)
	assert.Equal(t, EventPlay, room.PlaybackEvents[0].Type)
	assert.Equal(t, "alice", room.PlaybackEvents[0].UserID)
	assert.Equal(t, 10.0, room.PlaybackEvents[0].Position)
	assert.Equal(t, now, room.PlaybackEvents[0].Timestamp)
}

func TestApplyPlaybackUpdateRecordsDrift(t *testing.T) {
	now := time.Now()
	room := &models.Room{Movie: &models.MovieState{CurrentTime: 10, IsPlaying: true}}

	// 3s behind the stored position, past the drift threshold
	applyPlaybackUpdate(room, "alice", PlaybackUpdate{CurrentTime: 7, IsPlaying: true, Timestamp: int64Ptr(1700000000)}, config.PlaybackModeReplace, now)

	require.Len(t, room.SyncEvents, 1)
	assert.Equal(t, "alice", room.SyncEvents[0].UserID)
	assert.Equal(t, 3.0, room.SyncEvents[0].Difference)
}

func TestApplyPlaybackUpdateSkipsSmallDrift(t *testing.T) {
	room := &models.Room{Movie: &models.MovieState{CurrentTime: 10, IsPlaying: true}}

	applyPlaybackUpdate(room, "alice", PlaybackUpdate{CurrentTime: 11, IsPlaying: true, Timestamp: int64Ptr(1700000000)}, config.PlaybackModeReplace, time.Now())

	assert.Empty(t, room.SyncEvents)
}

func TestApplyPlaybackUpdateSeekAlsoDrifts(t *testing.T) {
	room := &models.Room{Movie: &models.MovieState{CurrentTime: 10, IsPlaying: true}}

	eventType := applyPlaybackUpdate(room, "alice", PlaybackUpdate{CurrentTime: 60, IsPlaying: true}, config.PlaybackModeReplace, time.Now())

	assert.Equal(t, EventSeek, eventType)
	require.Len(t, room.SyncEvents, 1)
	assert.Equal(t, -50.0, room.SyncEvents[0].Difference)
}

func TestApplyPlaybackUpdateReplacesMovie(t *testing.T) {
	room := &models.Room{Movie: &models.MovieState{Title: "The Matrix", CurrentTime: 10, IsPlaying: true}}

	applyPlaybackUpdate(room, "alice", PlaybackUpdate{CurrentTime: 20, IsPlaying: true, Timestamp: int64Ptr(1700000000)}, config.PlaybackModeReplace, time.Now())

	require.NotNil(t, room.Movie)
	assert.Empty(t, room.Movie.Title)
	assert.Equal(t, 20.0, room.Movie.CurrentTime)
}
