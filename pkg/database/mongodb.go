// ==============================================
// pkg/database/mongodb.go
// ==============================================
package database

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/puviyarasu12/Stream-backend/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	client   *mongo.Client
	database *mongo.Database
	once     sync.Once
)

// InitMongoDB initializes MongoDB connection
func InitMongoDB(cfg config.MongoConfig) error {
	var err error

	once.Do(func() {
		err = connectToMongoDB(cfg)
	})

	return err
}

// connectToMongoDB establishes connection to MongoDB
func connectToMongoDB(cfg config.MongoConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(100).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(30 * time.Minute).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetHeartbeatInterval(10 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true)

	var err error
	client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database = client.Database(cfg.Database)

	log.Printf("✅ Connected to MongoDB database: %s", cfg.Database)

	go func() {
		if err := createIndexes(); err != nil {
			log.Printf("Warning: Failed to create indexes: %v", err)
		}
	}()

	return nil
}

// GetDatabase returns the database instance
func GetDatabase() *mongo.Database {
	if database == nil {
		log.Fatal("Database not initialized. Call InitMongoDB first.")
	}
	return database
}

// Disconnect closes MongoDB connection
func Disconnect() error {
	if client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return client.Disconnect(ctx)
	}
	return nil
}

// Health check function
func HealthCheck() map[string]interface{} {
	if database == nil {
		return map[string]interface{}{
			"status": "disconnected",
			"error":  "database not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	}

	return map[string]interface{}{
		"status":   "connected",
		"database": database.Name(),
	}
}

// createIndexes creates necessary database indexes
func createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []struct {
		collection string
		indexes    []mongo.IndexModel
	}{
		{
			collection: "users",
			indexes: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{
					Keys: bson.D{{Key: "username", Value: 1}},
				},
				{
					Keys: bson.D{{Key: "created_at", Value: 1}},
				},
			},
		},
		{
			collection: "rooms",
			indexes: []mongo.IndexModel{
				{
					Keys: bson.D{
						{Key: "name", Value: 1},
						{Key: "is_active", Value: 1},
					},
				},
				{
					Keys:    bson.D{{Key: "invite_code", Value: 1}},
					Options: options.Index().SetSparse(true),
				},
				{
					Keys: bson.D{{Key: "is_active", Value: 1}},
				},
				{
					Keys: bson.D{{Key: "creator", Value: 1}},
				},
				{
					Keys: bson.D{{Key: "participants", Value: 1}},
				},
				{
					Keys: bson.D{{Key: "created_at", Value: 1}},
				},
			},
		},
		{
			collection: "messages",
			indexes: []mongo.IndexModel{
				{
					Keys: bson.D{
						{Key: "room_id", Value: 1},
						{Key: "timestamp", Value: -1},
					},
				},
				{
					Keys: bson.D{{Key: "user_id", Value: 1}},
				},
			},
		},
		{
			collection: "trivia",
			indexes: []mongo.IndexModel{
				{
					Keys: bson.D{{Key: "room_id", Value: 1}},
				},
				{
					Keys: bson.D{{Key: "category", Value: 1}},
				},
				{
					Keys: bson.D{{Key: "created_by", Value: 1}},
				},
			},
		},
		{
			collection: "trivia_answers",
			indexes: []mongo.IndexModel{
				{
					Keys: bson.D{
						{Key: "user_id", Value: 1},
						{Key: "trivia_id", Value: 1},
					},
					Options: options.Index().SetUnique(true),
				},
				{
					Keys: bson.D{{Key: "trivia_id", Value: 1}},
				},
			},
		},
	}

	for _, indexGroup := range indexes {
		collection := database.Collection(indexGroup.collection)

		if len(indexGroup.indexes) > 0 {
			_, err := collection.Indexes().CreateMany(ctx, indexGroup.indexes)
			if err != nil {
				log.Printf("Failed to create indexes for collection %s: %v", indexGroup.collection, err)
				continue
			}
			log.Printf("Created %d indexes for collection: %s", len(indexGroup.indexes), indexGroup.collection)
		}
	}

	return nil
}
