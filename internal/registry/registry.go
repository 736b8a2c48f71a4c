// Package registry provides model store implementations for trained model
// artifacts and their feature manifests.
package registry

import (
	"fmt"

	"github.com/opensource-finance/shrike/internal/domain"
)

// New creates a model store based on configuration.
// Single-process runs write to local files; cluster deployments publish
// artifacts to Redis so serving processes can pick them up.
func New(cfg domain.ModelStoreConfig) (domain.ModelStore, error) {
	switch cfg.Type {
	case "file":
		return NewFileStore(cfg.ModelPath, cfg.ManifestPath)

	case "redis":
		return NewRedisStore(cfg)

	default:
		return nil, fmt.Errorf("unsupported model store type: %s", cfg.Type)
	}
}
