package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/opensource-finance/shrike/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps model artifacts in Redis for cluster deployments.
// Artifacts are stored without TTL; a new run overwrites the previous one.
type RedisStore struct {
	client   *redis.Client
	modelKey string
}

// NewRedisStore creates a Redis-backed model store.
func NewRedisStore(cfg domain.ModelStoreConfig) (*RedisStore, error) {
	addr := cfg.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	modelKey := cfg.ModelKey
	if modelKey == "" {
		modelKey = "shrike:model"
	}

	return &RedisStore{client: client, modelKey: modelKey}, nil
}

// PutModel stores the serialized model.
func (s *RedisStore) PutModel(ctx context.Context, blob []byte) error {
	return s.client.Set(ctx, s.modelKey, blob, 0).Err()
}

// GetModel retrieves the serialized model.
func (s *RedisStore) GetModel(ctx context.Context) ([]byte, error) {
	val, err := s.client.Get(ctx, s.modelKey).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrModelNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// PutManifest stores the feature manifest.
func (s *RedisStore) PutManifest(ctx context.Context, manifest []byte) error {
	return s.client.Set(ctx, s.manifestKey(), manifest, 0).Err()
}

// GetManifest retrieves the feature manifest.
func (s *RedisStore) GetManifest(ctx context.Context) ([]byte, error) {
	val, err := s.client.Get(ctx, s.manifestKey()).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrModelNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) manifestKey() string {
	return s.modelKey + ":manifest"
}
