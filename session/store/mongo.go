package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/researchkit/deepresearch/config"
	"github.com/researchkit/deepresearch/session"
)

// MongoStore persists session records in a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// DefaultMongoConfig returns default MongoDB configuration.
func DefaultMongoConfig() *MongoConfig {
	return &MongoConfig{
		URI:        "mongodb://localhost:27017",
		Database:   "deepresearch",
		Collection: "session_records",
	}
}

// NewMongoStore creates a MongoDB-backed session store and verifies
// the connection.
func NewMongoStore(cfg *MongoConfig) (*MongoStore, error) {
	if cfg == nil {
		cfg = DefaultMongoConfig()
	}
	if err := config.ValidateMongoDBConfig(cfg.URI, cfg.Database, cfg.Collection); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	store := &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}
	if err := store.createIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return store, nil
}

func (s *MongoStore) createIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "session_id", Value: 1},
			{Key: "created_at", Value: 1},
		},
	}
	_, err := s.collection.Indexes().CreateOne(ctx, indexModel)
	return err
}

// Append upserts the record into the collection.
func (s *MongoStore) Append(ctx context.Context, rec *session.Record) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("rec:%d", time.Now().UnixNano())
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"_id": rec.ID}
	if _, err := s.collection.ReplaceOne(ctx, filter, rec, opts); err != nil {
		return fmt.Errorf("failed to store record in MongoDB: %w", err)
	}
	return nil
}

// History returns the session's records in append order.
func (s *MongoStore) History(ctx context.Context, sessionID string) ([]*session.Record, error) {
	filter := bson.M{"session_id": sessionID}
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to read session history: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*session.Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

// Clear drops the session's history.
func (s *MongoStore) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{"session_id": sessionID}); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Count returns the number of records in the session.
func (s *MongoStore) Count(ctx context.Context, sessionID string) (int, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return 0, fmt.Errorf("failed to count session records: %w", err)
	}
	return int(count), nil
}

// Ping checks if the MongoDB connection is alive.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close closes the MongoDB connection.
func (s *MongoStore) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.client.Disconnect(ctx)
}
