package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Config struct {
	MongoURI     string
	DatabaseName string
	Environment  string
}

type CollectionSetup struct {
	Name    string
	Indexes []mongo.IndexModel
}

// TriviaSeed is the shape of a bank question inserted by the seeder.
type TriviaSeed struct {
	Movie         string    `bson:"movie,omitempty"`
	Question      string    `bson:"question"`
	Options       []string  `bson:"options"`
	CorrectAnswer string    `bson:"correct_answer"`
	Category      string    `bson:"category,omitempty"`
	Points        int       `bson:"points"`
	CreatedBy     string    `bson:"created_by"`
	Timestamp     time.Time `bson:"timestamp"`
}

func main() {
	log.Println("🚀 Starting Watch Party Database Migration...")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using environment variables")
	}

	config := loadConfig()

	// Connect to MongoDB
	client, database, err := connectMongoDB(config)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	// Run migration steps
	if err := runMigration(database); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ Migration completed successfully!")
}

func loadConfig() Config {
	return Config{
		MongoURI:     getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DatabaseName: getEnv("MONGODB_DATABASE", "stream_backend"),
		Environment:  getEnv("APP_ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func connectMongoDB(config Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(config.MongoURI).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, err
	}

	if err = client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	database := client.Database(config.DatabaseName)
	log.Printf("✅ Connected to MongoDB database: %s", config.DatabaseName)

	return client, database, nil
}

func runMigration(database *mongo.Database) error {
	collections := getCollectionSetups()

	// Step 1: Create collections and indexes
	log.Println("📋 Creating collections and indexes...")
	for _, collection := range collections {
		if err := createCollectionWithIndexes(database, collection); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", collection.Name, err)
		}
	}

	// Step 2: Seed the global trivia bank
	log.Println("🎬 Seeding global trivia bank...")
	if err := seedGlobalTrivia(database); err != nil {
		return fmt.Errorf("failed to seed trivia bank: %w", err)
	}

	return nil
}

func getCollectionSetups() []CollectionSetup {
	return []CollectionSetup{
		{
			Name: "users",
			Indexes: []mongo.IndexModel{
				{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
				{Keys: bson.D{{Key: "username", Value: 1}}},
				{Keys: bson.D{{Key: "created_at", Value: 1}}},
			},
		},
		{
			Name: "rooms",
			Indexes: []mongo.IndexModel{
				{Keys: bson.D{{Key: "name", Value: 1}, {Key: "is_active", Value: 1}}},
				{Keys: bson.D{{Key: "invite_code", Value: 1}}, Options: options.Index().SetSparse(true)},
				{Keys: bson.D{{Key: "is_active", Value: 1}}},
				{Keys: bson.D{{Key: "creator", Value: 1}}},
				{Keys: bson.D{{Key: "participants", Value: 1}}},
				{Keys: bson.D{{Key: "created_at", Value: 1}}},
			},
		},
		{
			Name: "messages",
			Indexes: []mongo.IndexModel{
				{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "timestamp", Value: -1}}},
				{Keys: bson.D{{Key: "user_id", Value: 1}}},
			},
		},
		{
			Name: "trivia",
			Indexes: []mongo.IndexModel{
				{Keys: bson.D{{Key: "room_id", Value: 1}}},
				{Keys: bson.D{{Key: "category", Value: 1}}},
				{Keys: bson.D{{Key: "created_by", Value: 1}}},
				{Keys: bson.D{{Key: "timestamp", Value: 1}}},
			},
		},
		{
			// The unique pair index backs the first-answer-is-final rule.
			Name: "trivia_answers",
			Indexes: []mongo.IndexModel{
				{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "trivia_id", Value: 1}}, Options: options.Index().SetUnique(true)},
				{Keys: bson.D{{Key: "trivia_id", Value: 1}}},
			},
		},
		{
			Name: "metadata_cache",
			Indexes: []mongo.IndexModel{
				{Keys: bson.D{{Key: "key", Value: 1}}},
				{Keys: bson.D{{Key: "created_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(86400)}, // 24 hours TTL
			},
		},
	}
}

func createCollectionWithIndexes(database *mongo.Database, setup CollectionSetup) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Check if collection exists
	collections, err := database.ListCollectionNames(ctx, bson.M{"name": setup.Name})
	if err != nil {
		return err
	}

	// Create collection if it doesn't exist
	if len(collections) == 0 {
		if err := database.CreateCollection(ctx, setup.Name); err != nil {
			return err
		}
		log.Printf("  📁 Created collection: %s", setup.Name)
	} else {
		log.Printf("  📁 Collection already exists: %s", setup.Name)
	}

	// Create indexes
	collection := database.Collection(setup.Name)
	if len(setup.Indexes) > 0 {
		_, err := collection.Indexes().CreateMany(ctx, setup.Indexes)
		if err != nil {
			log.Printf("  ⚠️  Warning: Failed to create indexes for %s: %v", setup.Name, err)
		} else {
			log.Printf("  📊 Created %d indexes for: %s", len(setup.Indexes), setup.Name)
		}
	}

	return nil
}

// seedGlobalTrivia fills the shared question bank. Bank questions carry
// no room_id and always have exactly four options.
func seedGlobalTrivia(database *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := database.Collection("trivia")

	// Only seed an empty bank
	count, err := collection.CountDocuments(ctx, bson.M{"room_id": bson.M{"$exists": false}})
	if err != nil {
		return err
	}

	if count > 0 {
		log.Printf("  🎬 Trivia bank already seeded (%d questions)", count)
		return nil
	}

	now := time.Now()
	questions := []TriviaSeed{
		{
			Movie:         "The Matrix",
			Question:      "What color pill does Neo take?",
			Options:       []string{"Red", "Blue", "Green", "Yellow"},
			CorrectAnswer: "Red",
			Category:      "sci-fi",
			Points:        10,
			CreatedBy:     "system",
			Timestamp:     now,
		},
		{
			Movie:         "Inception",
			Question:      "What object does Cobb use as his totem?",
			Options:       []string{"A chess piece", "A spinning top", "A coin", "A pocket watch"},
			CorrectAnswer: "A spinning top",
			Category:      "sci-fi",
			Points:        10,
			CreatedBy:     "system",
			Timestamp:     now,
		},
		{
			Movie:         "The Godfather",
			Question:      "What is the first name of Don Corleone?",
			Options:       []string{"Michael", "Sonny", "Vito", "Fredo"},
			CorrectAnswer: "Vito",
			Category:      "classics",
			Points:        10,
			CreatedBy:     "system",
			Timestamp:     now,
		},
		{
			Movie:         "Pulp Fiction",
			Question:      "What does Marsellus Wallace's briefcase glow with when opened?",
			Options:       []string{"Gold light", "Blue light", "Red light", "It does not glow"},
			CorrectAnswer: "Gold light",
			Category:      "classics",
			Points:        15,
			CreatedBy:     "system",
			Timestamp:     now,
		},
		{
			Movie:         "Jurassic Park",
			Question:      "What is used to fill the gaps in the dinosaur DNA?",
			Options:       []string{"Lizard DNA", "Frog DNA", "Bird DNA", "Shark DNA"},
			CorrectAnswer: "Frog DNA",
			Category:      "adventure",
			Points:        10,
			CreatedBy:     "system",
			Timestamp:     now,
		},
		{
			Movie:         "Titanic",
			Question:      "In which year did the Titanic sink?",
			Options:       []string{"1905", "1912", "1918", "1923"},
			CorrectAnswer: "1912",
			Category:      "drama",
			Points:        10,
			CreatedBy:     "system",
			Timestamp:     now,
		},
		{
			Movie:         "The Dark Knight",
			Question:      "Who plays the Joker?",
			Options:       []string{"Jack Nicholson", "Jared Leto", "Heath Ledger", "Joaquin Phoenix"},
			CorrectAnswer: "Heath Ledger",
			Category:      "action",
			Points:        10,
			CreatedBy:     "system",
			Timestamp:     now,
		},
		{
			Movie:         "Spirited Away",
			Question:      "What is the name of the bathhouse witch?",
			Options:       []string{"Yubaba", "Zeniba", "Kamaji", "Haku"},
			CorrectAnswer: "Yubaba",
			Category:      "animation",
			Points:        15,
			CreatedBy:     "system",
			Timestamp:     now,
		},
	}

	for _, question := range questions {
		if _, err := collection.InsertOne(ctx, question); err != nil {
			return err
		}
	}

	log.Printf("  ✅ Seeded %d trivia questions", len(questions))
	return nil
}
