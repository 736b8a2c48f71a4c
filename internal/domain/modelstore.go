package domain

import (
	"context"
	"errors"
)

// ErrModelNotFound is returned when no model artifact has been stored yet.
var ErrModelNotFound = errors.New("model not found")

// ModelStore persists the trained model artifact at the end of a run.
// The blob is opaque to the store; the manifest carries feature names and
// scaler statistics so the downstream explanation service can align inputs.
type ModelStore interface {
	// PutModel writes the serialized model blob.
	PutModel(ctx context.Context, blob []byte) error

	// GetModel reads back the serialized model blob.
	// Returns ErrModelNotFound when no model has been stored.
	GetModel(ctx context.Context) ([]byte, error)

	// PutManifest writes the companion feature manifest (JSON).
	PutManifest(ctx context.Context, manifest []byte) error

	// GetManifest reads back the companion feature manifest.
	GetManifest(ctx context.Context) ([]byte, error)

	// Lifecycle
	Close() error
}

// ModelStoreConfig holds configuration for model store initialization.
type ModelStoreConfig struct {
	// Type is the store type: "file" or "redis"
	Type string

	// File store settings
	ModelPath    string
	ManifestPath string

	// Redis store settings
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ModelKey      string
}
