package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// storedDocument is the MongoDB shape of a named blob.
type storedDocument struct {
	Name      string    `bson:"_id"`
	Content   []byte    `bson:"content"`
	Size      int       `bson:"size"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoBlobStore implements BlobStore on a MongoDB collection
type MongoBlobStore struct {
	collection *mongo.Collection
}

// NewMongoBlobStore creates a new MongoDB-backed store
func NewMongoBlobStore(db *mongo.Database) repository.BlobStore {
	collection := db.Collection("documents")

	// Index on updatedAt for housekeeping queries
	ctx := context.Background()
	updatedAtIndex := mongo.IndexModel{
		Keys: bson.M{"updatedAt": -1},
	}
	collection.Indexes().CreateOne(ctx, updatedAtIndex)

	return &MongoBlobStore{
		collection: collection,
	}
}

// Get finds a document by name
func (r *MongoBlobStore) Get(ctx context.Context, name string) ([]byte, error) {
	var doc storedDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("store %q: %w", name, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read store %q: %w", name, err)
	}
	return doc.Content, nil
}

// Put replaces (or creates) a document by name
func (r *MongoBlobStore) Put(ctx context.Context, name string, data []byte) error {
	doc := storedDocument{
		Name:      name,
		Content:   data,
		Size:      len(data),
		UpdatedAt: time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": name}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to write store %q: %w", name, err)
	}
	return nil
}
