package services

import (
	"context"
	"fmt"
	"time"

	"github.com/puviyarasu12/Stream-backend/internal/models"
	"github.com/puviyarasu12/Stream-backend/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultMessageLimit = 20
	maxMessageLimit     = 100
)

type MessageService struct {
	db         *mongo.Database
	collection *mongo.Collection
	rooms      *RoomService
}

func NewMessageService(db *mongo.Database, rooms *RoomService) *MessageService {
	return &MessageService{
		db:         db,
		collection: db.Collection("messages"),
		rooms:      rooms,
	}
}

// SendMessage stores a chat message for the room. The sender must be a
// participant and the room must allow chat.
func (s *MessageService) SendMessage(roomID, userID, username, content string) (*models.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	room, err := s.rooms.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if !room.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	if !room.Settings.AllowChat {
		return nil, ErrChatDisabled
	}

	message := &models.Message{
		RoomID:    roomID,
		UserID:    userID,
		Username:  username,
		Content:   content,
		Timestamp: time.Now(),
	}

	result, err := s.collection.InsertOne(ctx, message)
	if err != nil {
		logger.LogError(err, "Failed to store message", map[string]interface{}{
			"room_id": roomID,
			"user_id": userID,
		})
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	message.ID = result.InsertedID.(primitive.ObjectID)
	return message, nil
}

// ListMessages returns room messages newest first. The before cursor is
// either an RFC3339 timestamp or a message id; messages strictly older
// than it are returned. hasMore reports whether another page exists.
func (s *MessageService) ListMessages(roomID, userID, before string, limit int) ([]models.Message, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	room, err := s.rooms.getRoom(ctx, roomID)
	if err != nil {
		return nil, false, err
	}

	if !room.IsParticipant(userID) {
		return nil, false, ErrNotParticipant
	}

	limit = clampMessageLimit(limit)

	filter := bson.M{"room_id": roomID}
	if before != "" {
		cursorTime, err := parseBeforeCursor(before)
		if err != nil {
			return nil, false, err
		}
		filter["timestamp"] = bson.M{"$lt": cursorTime}
	}

	// Fetch one extra document to learn whether a further page exists.
	opts := options.Find().
		SetLimit(int64(limit + 1)).
		SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, false, fmt.Errorf("failed to decode messages: %w", err)
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}

	return messages, hasMore, nil
}

func clampMessageLimit(limit int) int {
	if limit <= 0 {
		return defaultMessageLimit
	}
	if limit > maxMessageLimit {
		return maxMessageLimit
	}
	return limit
}

// parseBeforeCursor accepts an RFC3339 timestamp or a message object id
// and resolves it to the instant to paginate before.
func parseBeforeCursor(before string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, before); err == nil {
		return t, nil
	}
	if objID, err := primitive.ObjectIDFromHex(before); err == nil {
		return objID.Timestamp(), nil
	}
	return time.Time{}, ErrBadCursor
}
