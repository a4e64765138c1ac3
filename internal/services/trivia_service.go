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

const defaultTriviaPoints = 10

const globalTriviaOptions = 4

type TriviaService struct {
	db         *mongo.Database
	collection *mongo.Collection
	answers    *mongo.Collection
	users      *mongo.Collection
	rooms      *RoomService
}

func NewTriviaService(db *mongo.Database, rooms *RoomService) *TriviaService {
	return &TriviaService{
		db:         db,
		collection: db.Collection("trivia"),
		answers:    db.Collection("trivia_answers"),
		users:      db.Collection("users"),
		rooms:      rooms,
	}
}

// TriviaInput carries the fields a caller supplies when creating a
// question. CorrectAnswer is kept server side and never echoed back.
type TriviaInput struct {
	Movie         string
	Question      string
	Options       []string
	CorrectAnswer string
	Category      string
	Points        int
}

// CreateGlobalTrivia adds a question to the shared bank. Bank questions
// always carry exactly four options.
func (s *TriviaService) CreateGlobalTrivia(creatorID string, input TriviaInput) (*models.Trivia, error) {
	if len(input.Options) != globalTriviaOptions {
		return nil, ErrTriviaNeedsOptions
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.insertTrivia(ctx, "", creatorID, input)
}

// CreateRoomTrivia adds a question scoped to one room. The creator must
// be a participant and the room must allow trivia.
func (s *TriviaService) CreateRoomTrivia(roomID, userID string, input TriviaInput) (*models.Trivia, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	room, err := s.rooms.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if !room.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	if !room.Settings.AllowTrivia {
		return nil, ErrTriviaDisabled
	}

	return s.insertTrivia(ctx, roomID, userID, input)
}

func (s *TriviaService) insertTrivia(ctx context.Context, roomID, creatorID string, input TriviaInput) (*models.Trivia, error) {
	points := input.Points
	if points <= 0 {
		points = defaultTriviaPoints
	}

	trivia := &models.Trivia{
		RoomID:        roomID,
		Movie:         input.Movie,
		Question:      input.Question,
		Options:       input.Options,
		CorrectAnswer: input.CorrectAnswer,
		Category:      input.Category,
		Points:        points,
		CreatedBy:     creatorID,
		Timestamp:     time.Now(),
	}

	result, err := s.collection.InsertOne(ctx, trivia)
	if err != nil {
		logger.LogError(err, "Failed to create trivia", map[string]interface{}{
			"room_id": roomID,
			"user_id": creatorID,
		})
		return nil, fmt.Errorf("failed to create trivia: %w", err)
	}

	trivia.ID = result.InsertedID.(primitive.ObjectID)
	return trivia, nil
}

// ListGlobalTrivia returns bank questions, optionally filtered by
// category. Readable without authentication.
func (s *TriviaService) ListGlobalTrivia(category string) ([]models.Trivia, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"room_id": bson.M{"$exists": false}}
	if category != "" {
		filter["category"] = category
	}

	return s.findTrivia(ctx, filter)
}

// ListRoomTrivia returns the room's questions plus the shared bank, for
// participants only.
func (s *TriviaService) ListRoomTrivia(roomID, userID string) ([]models.Trivia, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	room, err := s.rooms.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if !room.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}

	filter := bson.M{"$or": []bson.M{
		{"room_id": roomID},
		{"room_id": bson.M{"$exists": false}},
	}}

	return s.findTrivia(ctx, filter)
}

func (s *TriviaService) findTrivia(ctx context.Context, filter bson.M) ([]models.Trivia, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get trivia: %w", err)
	}
	defer cursor.Close(ctx)

	var questions []models.Trivia
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode trivia: %w", err)
	}

	return questions, nil
}

// AnswerTrivia records the user's answer and scores it. The first
// answer is final: repeats return the originally stored result and
// never change the score. A unique index on (user_id, trivia_id) backs
// the check against concurrent submissions.
func (s *TriviaService) AnswerTrivia(userID, triviaID, answer string) (*models.TriviaResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(triviaID)
	if err != nil {
		return nil, ErrTriviaNotFound
	}

	var trivia models.Trivia
	err = s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&trivia)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTriviaNotFound
		}
		return nil, fmt.Errorf("failed to get trivia: %w", err)
	}

	if stored, err := s.storedAnswer(ctx, userID, triviaID); err != nil {
		return nil, err
	} else if stored != nil {
		return s.resultFor(&trivia, stored), nil
	}

	record := &models.TriviaAnswer{
		UserID:     userID,
		TriviaID:   triviaID,
		Answer:     answer,
		IsCorrect:  answer == trivia.CorrectAnswer,
		AnsweredAt: time.Now(),
	}

	if _, err := s.answers.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			stored, lookupErr := s.storedAnswer(ctx, userID, triviaID)
			if lookupErr != nil || stored == nil {
				return nil, fmt.Errorf("failed to resolve duplicate answer: %w", err)
			}
			return s.resultFor(&trivia, stored), nil
		}
		logger.LogError(err, "Failed to store trivia answer", map[string]interface{}{
			"user_id":   userID,
			"trivia_id": triviaID,
		})
		return nil, fmt.Errorf("failed to store answer: %w", err)
	}

	if record.IsCorrect {
		s.awardPoints(ctx, userID, trivia.Points)
	}

	return s.resultFor(&trivia, record), nil
}

func (s *TriviaService) storedAnswer(ctx context.Context, userID, triviaID string) (*models.TriviaAnswer, error) {
	var stored models.TriviaAnswer
	err := s.answers.FindOne(ctx, bson.M{"user_id": userID, "trivia_id": triviaID}).Decode(&stored)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get answer: %w", err)
	}
	return &stored, nil
}

func (s *TriviaService) resultFor(trivia *models.Trivia, answer *models.TriviaAnswer) *models.TriviaResult {
	points := 0
	if answer.IsCorrect {
		points = trivia.Points
	}
	return &models.TriviaResult{
		IsCorrect:     answer.IsCorrect,
		CorrectAnswer: trivia.CorrectAnswer,
		Points:        points,
	}
}

func (s *TriviaService) awardPoints(ctx context.Context, userID string, points int) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return
	}

	_, err = s.users.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"stats.trivia_points": points}})
	if err != nil {
		logger.LogError(err, "Failed to award trivia points", map[string]interface{}{
			"user_id": userID,
			"points":  points,
		})
	}
}
