package storage

import (
	"fmt"

	"github.com/eugenenazirov/firebase-web-config/internal/webconfig"
)

// Storage provides read access to the web configuration bundle served to clients.
type Storage interface {
	GetBundle() (webconfig.Bundle, error)
}

// MemoryStorage holds the bundle built at start-up. The bundle is never
// mutated after construction, so reads need no locking.
type MemoryStorage struct {
	bundle webconfig.Bundle
}

// NewMemoryStorage validates bundle and keeps a private copy of it.
func NewMemoryStorage(bundle webconfig.Bundle) (*MemoryStorage, error) {
	if err := bundle.WebConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid web config: %w", err)
	}
	return &MemoryStorage{bundle: bundle.Clone()}, nil
}

// NewDefaultStorage returns storage seeded with the default bundle.
func NewDefaultStorage() *MemoryStorage {
	return &MemoryStorage{bundle: webconfig.NewBundle()}
}

// GetBundle returns a copy of the stored bundle; callers may modify it freely.
func (s *MemoryStorage) GetBundle() (webconfig.Bundle, error) {
	return s.bundle.Clone(), nil
}
