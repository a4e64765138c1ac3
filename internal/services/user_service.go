package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/puviyarasu12/Stream-backend/internal/config"
	"github.com/puviyarasu12/Stream-backend/internal/models"
	"github.com/puviyarasu12/Stream-backend/pkg/logger"
)

type UserService struct {
	db         *mongo.Database
	collection *mongo.Collection
	embedBase  string
}

// ProfileUpdate carries the allow-listed profile fields of a PUT.
// Nil fields were omitted by the caller and keep their current value.
type ProfileUpdate struct {
	PhotoURL    *string
	Bio         *string
	SocialLinks map[string]string
	Preferences *models.UserPreferences
	Badges      []string
}

func NewUserService(db *mongo.Database, cfg config.PlaybackConfig) *UserService {
	return &UserService{
		db:         db,
		collection: db.Collection("users"),
		embedBase:  cfg.EmbedBase,
	}
}

// Profile

// GetUserByID fetches a user document by hex id.
func (s *UserService) GetUserByID(userID string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.getUser(ctx, userID)
}

func (s *UserService) getUser(ctx context.Context, userID string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var user models.User
	err = s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// UpdateProfile applies the allow-listed profile fields and returns the
// updated user. Fields outside the allow-list never reach the document.
func (s *UserService) UpdateProfile(userID string, upd ProfileUpdate) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	set := buildProfileSet(upd)
	if len(set) > 0 {
		result, err := s.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
		if err != nil {
			logger.LogError(err, "Failed to update profile", map[string]interface{}{
				"user_id": userID,
			})
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		if result.MatchedCount == 0 {
			return nil, ErrUserNotFound
		}
	}

	return s.getUser(ctx, userID)
}

func buildProfileSet(upd ProfileUpdate) bson.M {
	set := bson.M{}
	if upd.PhotoURL != nil {
		set["photo_url"] = *upd.PhotoURL
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.SocialLinks != nil {
		set["social_links"] = upd.SocialLinks
	}
	if upd.Preferences != nil {
		set["preferences"] = *upd.Preferences
	}
	if upd.Badges != nil {
		set["badges"] = upd.Badges
	}
	return set
}

// GetStats returns the user's activity counters.
func (s *UserService) GetStats(userID string) (*models.ActivityStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &user.Stats, nil
}

// Personal Watchlist

// GetWatchlist returns the user's private watchlist.
func (s *UserService) GetWatchlist(userID string) ([]models.WatchlistEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Watchlist == nil {
		return []models.WatchlistEntry{}, nil
	}
	return user.Watchlist, nil
}

// AddToWatchlist appends a movie to the user's private list. Unlike the
// room ledger, the private list rejects duplicates by movie id.
func (s *UserService) AddToWatchlist(userID string, movie models.WatchlistMovie) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.WatchlistIndex(movie.ID) >= 0 {
		return nil, ErrDuplicateEntry
	}

	user.Watchlist = append(user.Watchlist, models.WatchlistEntry{
		Movie:   movie,
		AddedBy: userID,
		Votes:   []string{},
		AddedAt: time.Now(),
	})

	if err := s.saveUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// RemoveFromWatchlist drops the entry matching movieID.
func (s *UserService) RemoveFromWatchlist(userID, movieID string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := user.WatchlistIndex(movieID)
	if idx < 0 {
		return nil, ErrEntryNotFound
	}

	user.Watchlist = append(user.Watchlist[:idx], user.Watchlist[idx+1:]...)

	if err := s.saveUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ToggleWatchlistVote flips the user's vote on one of their entries.
func (s *UserService) ToggleWatchlistVote(userID, movieID string) (*models.User, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	idx := user.WatchlistIndex(movieID)
	if idx < 0 {
		return nil, false, ErrEntryNotFound
	}

	voted := toggleVote(&user.Watchlist[idx], userID)

	if err := s.saveUser(ctx, user); err != nil {
		return nil, false, err
	}

	return user, voted, nil
}

// SelectFromWatchlist resolves an entry into a playable movie state.
// There is no room document to write into, so the stored list is left
// untouched and the caller receives the payload to start playback with.
func (s *UserService) SelectFromWatchlist(userID, movieID string) (*models.MovieState, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := user.WatchlistIndex(movieID)
	if idx < 0 {
		return nil, ErrEntryNotFound
	}

	entry := user.Watchlist[idx]
	return &models.MovieState{
		Title:       entry.Movie.Title,
		URL:         buildPlaybackURL(s.embedBase, entry.Movie.ID),
		Thumbnail:   entry.Movie.Thumbnail,
		CurrentTime: 0,
		IsPlaying:   true,
		LastUpdated: time.Now(),
	}, nil
}

func (s *UserService) saveUser(ctx context.Context, user *models.User) error {
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		logger.LogError(err, "Failed to save user", map[string]interface{}{
			"user_id": user.ID.Hex(),
		})
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}
