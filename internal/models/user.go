package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username    string             `bson:"username" json:"username"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	PhotoURL    string             `bson:"photo_url,omitempty" json:"photoURL,omitempty"`
	Bio         string             `bson:"bio,omitempty" json:"bio,omitempty"`
	SocialLinks map[string]string  `bson:"social_links,omitempty" json:"socialLinks,omitempty"`
	Preferences UserPreferences    `bson:"preferences" json:"preferences"`
	Badges      []string           `bson:"badges" json:"badges"`
	Watchlist   []WatchlistEntry   `bson:"watchlist" json:"watchlist"`
	Stats       ActivityStats      `bson:"stats" json:"stats"`
	LastLogin   *time.Time         `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

type UserPreferences struct {
	Theme         string `bson:"theme" json:"theme"`
	Language      string `bson:"language" json:"language"`
	Notifications bool   `bson:"notifications" json:"notifications"`
}

type ActivityStats struct {
	RoomsCreated  int `bson:"rooms_created" json:"roomsCreated"`
	RoomsJoined   int `bson:"rooms_joined" json:"roomsJoined"`
	TriviaPoints  int `bson:"trivia_points" json:"triviaPoints"`
	MoviesWatched int `bson:"movies_watched" json:"moviesWatched"`
}

// DefaultUserPreferences returns the preferences new accounts start with.
func DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		Theme:         "dark",
		Language:      "en",
		Notifications: true,
	}
}

// ExportUser is the public projection of a user returned by the API.
type ExportUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Badges    []string  `json:"badges"`
	CreatedAt time.Time `json:"createdAt"`
}

// Export projects the user into its public shape.
func (u *User) Export() ExportUser {
	return ExportUser{
		ID:        u.ID.Hex(),
		Username:  u.Username,
		Email:     u.Email,
		PhotoURL:  u.PhotoURL,
		Bio:       u.Bio,
		Badges:    u.Badges,
		CreatedAt: u.CreatedAt,
	}
}

// WatchlistIndex returns the index of the first entry for movieID in
// the user's personal watchlist, or -1.
func (u *User) WatchlistIndex(movieID string) int {
	for i, entry := range u.Watchlist {
		if entry.Movie.ID == movieID {
			return i
		}
	}
	return -1
}
