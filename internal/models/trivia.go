package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trivia is a quiz question, either scoped to a room or part of the
// global bank when RoomID is empty.
type Trivia struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomID        string             `bson:"room_id,omitempty" json:"roomId,omitempty"`
	Movie         string             `bson:"movie,omitempty" json:"movie,omitempty"`
	Question      string             `bson:"question" json:"question"`
	Options       []string           `bson:"options" json:"options"`
	CorrectAnswer string             `bson:"correct_answer" json:"-"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	Points        int                `bson:"points" json:"points"`
	CreatedBy     string             `bson:"created_by" json:"createdBy"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
}

// TriviaAnswer records a user's one and only answer to a question.
// The (user_id, trivia_id) pair is unique, the first answer is final.
type TriviaAnswer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"userId"`
	TriviaID   string             `bson:"trivia_id" json:"triviaId"`
	Answer     string             `bson:"answer" json:"answer"`
	IsCorrect  bool               `bson:"is_correct" json:"isCorrect"`
	AnsweredAt time.Time          `bson:"answered_at" json:"answeredAt"`
}

// TriviaResult is what an answering user gets back.
type TriviaResult struct {
	IsCorrect     bool   `json:"isCorrect"`
	CorrectAnswer string `json:"correctAnswer"`
	Points        int    `json:"points"`
}
