package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/puviyarasu12/Stream-backend/internal/models"
	"github.com/puviyarasu12/Stream-backend/internal/utils"
	"github.com/puviyarasu12/Stream-backend/pkg/logger"
)

type AuthService struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// AuthResult bundles the signed token with the user it belongs to.
type AuthResult struct {
	Token string
	User  *models.User
}

func NewAuthService(db *mongo.Database) *AuthService {
	return &AuthService{
		db:         db,
		collection: db.Collection("users"),
	}
}

// Register creates a user account and signs them in. The email must not
// already be registered; a unique index on email backs the check.
func (s *AuthService) Register(username, email, password string) (*AuthResult, error) {
	if !utils.ValidateUsername(username) {
		return nil, fmt.Errorf("%w: username must be 3-20 letters, digits or underscores", ErrInvalidInput)
	}
	if !utils.ValidateEmail(email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	if !utils.ValidatePassword(password) {
		return nil, fmt.Errorf("%w: password needs 8+ characters with upper, lower and digit", ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.emailExists(ctx, email) {
		return nil, ErrDuplicateEmail
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Username:    username,
		Email:       email,
		Password:    hashed,
		SocialLinks: map[string]string{},
		Preferences: models.DefaultUserPreferences(),
		Badges:      []string{},
		Watchlist:   []models.WatchlistEntry{},
		LastLogin:   &now,
		CreatedAt:   now,
	}

	result, err := s.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		logger.LogError(err, "Failed to create user", map[string]interface{}{
			"email": email,
		})
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = result.InsertedID.(primitive.ObjectID)

	token, err := utils.GenerateUserJWT(user.ID.Hex(), user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.LogUserAction(user.ID.Hex(), "user_registered", map[string]interface{}{
		"username": username,
	})

	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies the credentials and signs the user in. Wrong email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !utils.CheckPassword(password, user.Password) {
		logger.LogSecurityEvent("login_failed", user.ID.Hex(), "", map[string]interface{}{
			"email": email,
		})
		return nil, ErrInvalidCredentials
	}

	s.updateLastLogin(ctx, user.ID)

	token, err := utils.GenerateUserJWT(user.ID.Hex(), user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{Token: token, User: &user}, nil
}

func (s *AuthService) emailExists(ctx context.Context, email string) bool {
	count, err := s.collection.CountDocuments(ctx, bson.M{"email": email})
	return err == nil && count > 0
}

func (s *AuthService) updateLastLogin(ctx context.Context, userID primitive.ObjectID) {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"last_login": time.Now()}})
	if err != nil {
		logger.LogError(err, "Failed to update last login", map[string]interface{}{
			"user_id": userID.Hex(),
		})
	}
}
