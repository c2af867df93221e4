package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Source retrieves the serialized model artifact at startup.
type Source interface {
	// Fetch returns the artifact bytes at the given path or key.
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// SourceType represents the artifact storage backend type.
type SourceType string

const (
	SourceTypeLocal SourceType = "local"
	SourceTypeS3    SourceType = "s3"
)

// SourceConfig holds configuration for the artifact source.
type SourceConfig struct {
	Type         SourceType
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewSource creates an artifact source based on configuration.
func NewSource(cfg SourceConfig) (Source, error) {
	switch cfg.Type {
	case SourceTypeLocal:
		return NewLocalSource(), nil
	case SourceTypeS3:
		return NewS3Source(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// NewSourceFromEnv creates an artifact source from environment variables.
func NewSourceFromEnv() (Source, error) {
	sourceType := os.Getenv("MODEL_STORAGE")
	if sourceType == "" {
		sourceType = "local" // Default to local for development
	}

	switch SourceType(sourceType) {
	case SourceTypeLocal:
		return NewLocalSource(), nil

	case SourceTypeS3:
		cfg := SourceConfig{
			Type:         SourceTypeS3,
			S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
			S3Region:     os.Getenv("AWS_REGION"),
			AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1" // Default region
		}
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}
		return NewS3Source(cfg)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", sourceType)
	}
}
