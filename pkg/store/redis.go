package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/kuriosis/wallbuilder/pkg/codec"
	"github.com/kuriosis/wallbuilder/pkg/errors"
)

// redisKey is the hash holding all saved galleries, field = record id.
const redisKey = "wallbuilder:saved_galleries"

// RedisStore persists saved galleries in a Redis hash.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to redis at %s", cfg.Addr)
	}
	return &RedisStore{client: client}, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, name string, doc codec.Document, opts SaveOptions) (*SavedGallery, error) {
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

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "encode gallery record")
	}
	if err := s.client.HSet(ctx, redisKey, rec.ID, data).Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "save gallery %q", name)
	}
	out := *rec
	return &out, nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, id string) (*SavedGallery, error) {
	data, err := s.client.HGet(ctx, redisKey, id).Bytes()
	if err == redis.Nil {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "get gallery %q", id)
	}

	var rec SavedGallery
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode gallery %q", id)
	}
	return &rec, nil
}

// List implements Store.
func (s *RedisStore) List(ctx context.Context) ([]*SavedGallery, error) {
	fields, err := s.client.HGetAll(ctx, redisKey).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list galleries")
	}

	records := make([]*SavedGallery, 0, len(fields))
	for id, data := range fields {
		var rec SavedGallery
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			continue // corrupt field, skip it rather than fail the listing
		}
		if rec.ID == "" {
			rec.ID = id
		}
		records = append(records, &rec)
	}
	sortNewestFirst(records)
	return records, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	removed, err := s.client.HDel(ctx, redisKey, id).Result()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete gallery %q", id)
	}
	if removed == 0 {
		return notFound(id)
	}
	return nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
