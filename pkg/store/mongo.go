package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kuriosis/wallbuilder/pkg/codec"
	"github.com/kuriosis/wallbuilder/pkg/errors"
)

// MongoStore persists saved galleries in a MongoDB collection, one document
// per record with the record id as _id.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI        string
	Database   string // defaults to "wallbuilder"
	Collection string // defaults to "saved_galleries"
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "wallbuilder"
	}
	if cfg.Collection == "" {
		cfg.Collection = "saved_galleries"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save implements Store.
func (s *MongoStore) Save(ctx context.Context, name string, doc codec.Document, opts SaveOptions) (*SavedGallery, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := prepare(name, opts, existing)
	if err != nil {
		return nil, err
	}
	for _, prev := range existing {
		if prev.ID == rec.ID {
			rec.CreatedAt = prev.CreatedAt
			break
		}
	}
	rec.Document = doc

	upsert := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, upsert); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "save gallery %q", name)
	}
	out := *rec
	return &out, nil
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, id string) (*SavedGallery, error) {
	var rec SavedGallery
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "get gallery %q", id)
	}
	return &rec, nil
}

// List implements Store.
func (s *MongoStore) List(ctx context.Context) ([]*SavedGallery, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list galleries")
	}
	defer cursor.Close(ctx)

	var records []*SavedGallery
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode gallery listing")
	}
	return records, nil
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete gallery %q", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close implements Store.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
