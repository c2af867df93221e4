package storage

import (
	"context"
	"fmt"
	"os"
)

// LocalSource reads the model artifact from the local filesystem.
type LocalSource struct{}

// NewLocalSource creates a new local artifact source.
func NewLocalSource() *LocalSource {
	return &LocalSource{}
}

// Fetch reads the artifact file at path.
func (s *LocalSource) Fetch(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("model artifact not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	return data, nil
}
