package registry

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/opensource-finance/shrike/internal/domain"
)

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "models", "model.gob")
	manifestPath := filepath.Join(dir, "models", "features.json")

	store, err := NewFileStore(modelPath, manifestPath)
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("MissingModel", func(t *testing.T) {
		_, err := store.GetModel(ctx)
		if !errors.Is(err, domain.ErrModelNotFound) {
			t.Errorf("expected ErrModelNotFound, got %v", err)
		}
	})

	t.Run("PutAndGetModel", func(t *testing.T) {
		blob := []byte("serialized-model-bytes")
		if err := store.PutModel(ctx, blob); err != nil {
			t.Fatalf("PutModel failed: %v", err)
		}

		got, err := store.GetModel(ctx)
		if err != nil {
			t.Fatalf("GetModel failed: %v", err)
		}
		if string(got) != string(blob) {
			t.Errorf("model round-trip mismatch: %q", got)
		}
	})

	t.Run("PutAndGetManifest", func(t *testing.T) {
		manifest := []byte(`{"classes":["Legit"]}`)
		if err := store.PutManifest(ctx, manifest); err != nil {
			t.Fatalf("PutManifest failed: %v", err)
		}

		got, err := store.GetManifest(ctx)
		if err != nil {
			t.Fatalf("GetManifest failed: %v", err)
		}
		if string(got) != string(manifest) {
			t.Errorf("manifest round-trip mismatch: %q", got)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := store.PutModel(ctx, []byte("v2")); err != nil {
			t.Fatalf("PutModel failed: %v", err)
		}
		got, err := store.GetModel(ctx)
		if err != nil {
			t.Fatalf("GetModel failed: %v", err)
		}
		if string(got) != "v2" {
			t.Errorf("expected overwritten model, got %q", got)
		}
	})
}

func TestNewFactory(t *testing.T) {
	t.Run("FileType", func(t *testing.T) {
		dir := t.TempDir()
		store, err := New(domain.ModelStoreConfig{
			Type:         "file",
			ModelPath:    filepath.Join(dir, "m.gob"),
			ManifestPath: filepath.Join(dir, "m.json"),
		})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		defer store.Close()

		if _, ok := store.(*FileStore); !ok {
			t.Error("expected FileStore for file type")
		}
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		_, err := New(domain.ModelStoreConfig{Type: "s3"})
		if err == nil {
			t.Error("expected error for unsupported type")
		}
	})
}
