package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/opensource-finance/shrike/internal/domain"
)

// FileStore persists the model and manifest as local files. Writes go
// through a temp file and rename so a crashed run never leaves a
// half-written artifact behind.
type FileStore struct {
	modelPath    string
	manifestPath string
}

// NewFileStore creates a file-backed model store.
func NewFileStore(modelPath, manifestPath string) (*FileStore, error) {
	if modelPath == "" {
		modelPath = "./models/fraud_online_model.gob"
	}
	if manifestPath == "" {
		manifestPath = "./models/fraud_online_model_features.json"
	}

	for _, p := range []string{modelPath, manifestPath} {
		dir := filepath.Dir(p)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create model directory: %w", err)
			}
		}
	}

	return &FileStore{
		modelPath:    modelPath,
		manifestPath: manifestPath,
	}, nil
}

// PutModel writes the serialized model.
func (s *FileStore) PutModel(ctx context.Context, blob []byte) error {
	return writeAtomic(s.modelPath, blob)
}

// GetModel reads the serialized model.
func (s *FileStore) GetModel(ctx context.Context) ([]byte, error) {
	return readArtifact(s.modelPath)
}

// PutManifest writes the feature manifest.
func (s *FileStore) PutManifest(ctx context.Context, manifest []byte) error {
	return writeAtomic(s.manifestPath, manifest)
}

// GetManifest reads the feature manifest.
func (s *FileStore) GetManifest(ctx context.Context) ([]byte, error) {
	return readArtifact(s.manifestPath)
}

// Close is a no-op for file stores.
func (s *FileStore) Close() error {
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize artifact: %w", err)
	}
	return nil
}

func readArtifact(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return data, nil
}
